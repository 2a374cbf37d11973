package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"dorm-rental-backend/internal/model"
	"dorm-rental-backend/internal/occupancy"
	"dorm-rental-backend/internal/store"
)

type roomRequest struct {
	RoomNumber   *string         `json:"room_number"`
	Floor        *int            `json:"floor"`
	RoomType     *model.RoomType `json:"room_type"`
	PriceDaily   *string         `json:"price_daily"`
	PriceMonthly *string         `json:"price_monthly"`
	PriceTerm    *string         `json:"price_term"`
	Notes        *string         `json:"notes"`
}

func (r roomRequest) columns() map[string]any {
	cols := map[string]any{}
	if r.RoomNumber != nil {
		cols["room_number"] = *r.RoomNumber
	}
	if r.Floor != nil {
		cols["floor"] = *r.Floor
	}
	if r.RoomType != nil {
		cols["room_type"] = *r.RoomType
	}
	if r.PriceDaily != nil {
		cols["price_daily"] = *r.PriceDaily
	}
	if r.PriceMonthly != nil {
		cols["price_monthly"] = *r.PriceMonthly
	}
	if r.PriceTerm != nil {
		cols["price_term"] = *r.PriceTerm
	}
	if r.Notes != nil {
		cols["notes"] = *r.Notes
	}
	return cols
}

type moveInRequest struct {
	TenantName  string  `json:"tenant_name" binding:"required"`
	TenantPhone string  `json:"tenant_phone"`
	MoveInDate  *string `json:"move_in_date"`
}

type metersRequest struct {
	ElectricityOld  *decimal.Decimal `json:"electricity_meter_old"`
	ElectricityNew  *decimal.Decimal `json:"electricity_meter_new"`
	WaterOld        *decimal.Decimal `json:"water_meter_old"`
	WaterNew        *decimal.Decimal `json:"water_meter_new"`
	ReadingDate     *string          `json:"meter_reading_date"`
	ElectricityNote *string          `json:"electricity_note"`
	WaterNote       *string          `json:"water_note"`
}

// ListRooms lists the rooms of one of the caller's dorms.
func (h *Handler) ListRooms(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	dormID, ok := idParam(c, "id")
	if !ok {
		return
	}
	rooms, err := h.store.ListRooms(c.Request.Context(), owner, dormID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomResponses(rooms))
}

// RoomSummary reports occupied and vacant room counts for a dorm.
func (h *Handler) RoomSummary(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	dormID, ok := idParam(c, "id")
	if !ok {
		return
	}
	sum, err := h.store.RoomSummary(c.Request.Context(), owner, dormID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// CreateRoom adds a vacant room to a dorm.
func (h *Handler) CreateRoom(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	dormID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	room := model.Room{DormID: dormID, Floor: 1}
	if req.RoomNumber != nil {
		room.RoomNumber = *req.RoomNumber
	}
	if req.Floor != nil {
		room.Floor = *req.Floor
	}
	if req.RoomType != nil {
		room.RoomType = *req.RoomType
	}
	if req.PriceDaily != nil {
		room.PriceDaily = *req.PriceDaily
	}
	if req.PriceMonthly != nil {
		room.PriceMonthly = *req.PriceMonthly
	}
	if req.PriceTerm != nil {
		room.PriceTerm = *req.PriceTerm
	}
	if req.Notes != nil {
		room.Notes = *req.Notes
	}

	if err := h.store.CreateRoom(c.Request.Context(), owner, &room); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRoomResponse(room))
}

// GetRoom returns one room.
func (h *Handler) GetRoom(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId")
	if !ok {
		return
	}
	room, err := h.store.GetRoom(c.Request.Context(), owner, roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomResponse(room))
}

// UpdateRoom edits a room's descriptive fields.
func (h *Handler) UpdateRoom(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId")
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	room, err := h.store.UpdateRoom(c.Request.Context(), owner, roomID, req.columns())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomResponse(room))
}

// DeleteRoom removes a room and its bills.
func (h *Handler) DeleteRoom(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId")
	if !ok {
		return
	}
	if err := h.store.DeleteRoom(c.Request.Context(), owner, roomID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MoveIn records a tenant in a vacant room.
func (h *Handler) MoveIn(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId")
	if !ok {
		return
	}
	var req moveInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := parseDate("move_in_date", req.MoveInDate)
	if err != nil {
		respondError(c, err)
		return
	}

	room, err := h.store.MoveIn(c.Request.Context(), owner, roomID, occupancy.Tenant{
		Name:       req.TenantName,
		Phone:      req.TenantPhone,
		MoveInDate: date,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomResponse(room))
}

// MoveOut vacates a room.
func (h *Handler) MoveOut(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId")
	if !ok {
		return
	}
	room, err := h.store.MoveOut(c.Request.Context(), owner, roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomResponse(room))
}

// RecordMeters stores new meter readings and notes for a room.
func (h *Handler) RecordMeters(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	roomID, ok := idParam(c, "roomId")
	if !ok {
		return
	}
	var req metersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := parseDate("meter_reading_date", req.ReadingDate)
	if err != nil {
		respondError(c, err)
		return
	}

	room, err := h.store.RecordMeters(c.Request.Context(), owner, roomID, store.MeterUpdate{
		ElectricityOld:  req.ElectricityOld,
		ElectricityNew:  req.ElectricityNew,
		WaterOld:        req.WaterOld,
		WaterNew:        req.WaterNew,
		ReadingDate:     date,
		ElectricityNote: req.ElectricityNote,
		WaterNote:       req.WaterNote,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomResponse(room))
}
