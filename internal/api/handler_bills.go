package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"dorm-rental-backend/internal/parse"
	"dorm-rental-backend/internal/store"
)

type billRequest struct {
	RentPeriod     parse.Period     `json:"rent_period" binding:"omitempty,oneof=daily monthly term"`
	Rent           *decimal.Decimal `json:"rent"`
	ElectricityNew *decimal.Decimal `json:"electricity_meter_new"`
	WaterNew       *decimal.Decimal `json:"water_meter_new"`
	ReadingDate    *string          `json:"reading_date"`
}

// bindBill reads an optional JSON body; an empty body bills the stored snapshot.
func bindBill(c *gin.Context) (store.BillRequest, bool) {
	var req billRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return store.BillRequest{}, false
		}
	}
	date, err := parseDate("reading_date", req.ReadingDate)
	if err != nil {
		respondError(c, err)
		return store.BillRequest{}, false
	}
	return store.BillRequest{
		Period:         req.RentPeriod,
		Rent:           req.Rent,
		ElectricityNew: req.ElectricityNew,
		WaterNew:       req.WaterNew,
		ReadingDate:    date,
	}, true
}

// PreviewBill computes the current cycle's bill without saving it.
func (h *Handler) PreviewBill(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId")
	if !ok {
		return
	}
	req, ok := bindBill(c)
	if !ok {
		return
	}
	bill, err := h.store.PreviewBill(c.Request.Context(), owner, roomID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBillPreview(bill))
}

// FinalizeBill stores the current cycle's bill and rolls the meters over.
func (h *Handler) FinalizeBill(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId")
	if !ok {
		return
	}
	req, ok := bindBill(c)
	if !ok {
		return
	}
	record, err := h.store.FinalizeBill(c.Request.Context(), owner, roomID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.BillsFinalized.Inc()
	}
	c.JSON(http.StatusCreated, newBillResponse(record))
}

// ListBills returns a room's bill history, newest first.
func (h *Handler) ListBills(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId")
	if !ok {
		return
	}
	bills, err := h.store.ListBills(c.Request.Context(), owner, roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]BillResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, newBillResponse(b))
	}
	c.JSON(http.StatusOK, out)
}
