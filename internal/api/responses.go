package api

import (
	"time"

	"github.com/shopspring/decimal"

	"dorm-rental-backend/internal/approval"
	"dorm-rental-backend/internal/billing"
	"dorm-rental-backend/internal/model"
	"dorm-rental-backend/internal/occupancy"
	"dorm-rental-backend/internal/parse"
	"dorm-rental-backend/internal/region"
)

type imageResponse struct {
	ID        int64     `json:"id"`
	ImagePath string    `json:"image_path"`
	CreatedAt time.Time `json:"created_at"`
}

// DormResponse is the API view of a dorm listing.
type DormResponse struct {
	ID              int64            `json:"id"`
	OwnerID         int64            `json:"owner_id"`
	Name            string           `json:"name"`
	Address         string           `json:"address"`
	ProvinceID      int              `json:"province_id,omitempty"`
	ProvinceName    string           `json:"province_name,omitempty"`
	DistrictID      int              `json:"district_id,omitempty"`
	DistrictName    string           `json:"district_name,omitempty"`
	SubdistrictID   int              `json:"subdistrict_id,omitempty"`
	SubdistrictName string           `json:"subdistrict_name,omitempty"`
	PriceDaily      string           `json:"price_daily"`
	PriceMonthly    string           `json:"price_monthly"`
	PriceTerm       string           `json:"price_term"`
	DisplayPrice    string           `json:"display_price,omitempty"`
	DisplayPeriod   parse.Period     `json:"display_period,omitempty"`
	PriceFrom       *decimal.Decimal `json:"price_from,omitempty"`
	Deposit         string           `json:"deposit"`
	WaterCost       decimal.Decimal  `json:"water_cost"`
	ElectricityCost decimal.Decimal  `json:"electricity_cost"`
	ContactPhone    string           `json:"contact_phone"`
	Facilities      []string         `json:"facilities"`
	NearPlaces      []string         `json:"near_places"`
	Description     string           `json:"description"`
	Latitude        *float64         `json:"latitude"`
	Longitude       *float64         `json:"longitude"`
	Status          approval.Status  `json:"status"`
	RejectReason    string           `json:"reject_reason,omitempty"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty"`
	Images          []imageResponse  `json:"images"`
	DistanceKm      *float64         `json:"distance_km,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func newDormResponse(d model.Dorm) DormResponse {
	resp := DormResponse{
		ID:              d.ID,
		OwnerID:         d.OwnerID,
		Name:            d.Name,
		Address:         d.Address,
		ProvinceID:      d.ProvinceID,
		DistrictID:      d.DistrictID,
		SubdistrictID:   d.SubdistrictID,
		PriceDaily:      d.PriceDaily,
		PriceMonthly:    d.PriceMonthly,
		PriceTerm:       d.PriceTerm,
		Deposit:         d.Deposit,
		WaterCost:       billing.Round(d.WaterCost),
		ElectricityCost: billing.Round(d.ElectricityCost),
		ContactPhone:    d.ContactPhone,
		Facilities:      parse.SplitTags(d.Facilities),
		NearPlaces:      parse.SplitTags(d.NearPlaces),
		Description:     d.Description,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
		Status:          d.Status,
		RejectReason:    d.RejectReason,
		ReviewedAt:      d.ReviewedAt,
		Images:          make([]imageResponse, 0, len(d.Images)),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}

	if p, ok := region.ProvinceByID(d.ProvinceID); ok {
		resp.ProvinceName = p.NameEN
	}
	if dist, ok := region.DistrictByID(d.DistrictID); ok {
		resp.DistrictName = dist.NameEN
	}
	if s, ok := region.SubdistrictByID(d.SubdistrictID); ok {
		resp.SubdistrictName = s.NameEN
	}

	if period, raw, ok := d.Prices().Priority(); ok {
		resp.DisplayPeriod = period
		resp.DisplayPrice = raw
		if pr, err := parse.ParsePrice(raw); err == nil {
			from := pr.Min
			resp.PriceFrom = &from
		}
	}

	for _, img := range d.Images {
		resp.Images = append(resp.Images, imageResponse{ID: img.ID, ImagePath: img.ImagePath, CreatedAt: img.CreatedAt})
	}
	return resp
}

func newDormResponses(dorms []model.Dorm) []DormResponse {
	out := make([]DormResponse, 0, len(dorms))
	for _, d := range dorms {
		out = append(out, newDormResponse(d))
	}
	return out
}

// RoomResponse is the API view of a room.
type RoomResponse struct {
	ID               int64            `json:"id"`
	DormID           int64            `json:"dorm_id"`
	RoomNumber       string           `json:"room_number"`
	Floor            int              `json:"floor"`
	RoomType         model.RoomType   `json:"room_type"`
	PriceDaily       string           `json:"price_daily"`
	PriceMonthly     string           `json:"price_monthly"`
	PriceTerm        string           `json:"price_term"`
	Status           occupancy.Status `json:"status"`
	IsOccupied       bool             `json:"is_occupied"`
	TenantName       string           `json:"tenant_name,omitempty"`
	TenantPhone      string           `json:"tenant_phone,omitempty"`
	MoveInDate       *time.Time       `json:"move_in_date,omitempty"`
	Notes            string           `json:"notes"`
	ElectricityOld   decimal.Decimal  `json:"electricity_meter_old"`
	ElectricityNew   decimal.Decimal  `json:"electricity_meter_new"`
	WaterOld         decimal.Decimal  `json:"water_meter_old"`
	WaterNew         decimal.Decimal  `json:"water_meter_new"`
	MeterReadingDate *time.Time       `json:"meter_reading_date,omitempty"`
	ElectricityNote  string           `json:"electricity_note,omitempty"`
	WaterNote        string           `json:"water_note,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func newRoomResponse(r model.Room) RoomResponse {
	state := r.Occupancy()
	resp := RoomResponse{
		ID:               r.ID,
		DormID:           r.DormID,
		RoomNumber:       r.RoomNumber,
		Floor:            r.Floor,
		RoomType:         r.RoomType,
		PriceDaily:       r.PriceDaily,
		PriceMonthly:     r.PriceMonthly,
		PriceTerm:        r.PriceTerm,
		Status:           state.Status(),
		IsOccupied:       state.IsOccupied(),
		Notes:            r.Notes,
		ElectricityOld:   r.ElectricityMeterOld,
		ElectricityNew:   r.ElectricityMeterNew,
		WaterOld:         r.WaterMeterOld,
		WaterNew:         r.WaterMeterNew,
		MeterReadingDate: r.MeterReadingDate,
		ElectricityNote:  r.ElectricityNote,
		WaterNote:        r.WaterNote,
		UpdatedAt:        r.UpdatedAt,
	}
	if t, ok := state.Tenant(); ok {
		resp.TenantName = t.Name
		resp.TenantPhone = t.Phone
		resp.MoveInDate = t.MoveInDate
	}
	return resp
}

func newRoomResponses(rooms []model.Room) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, newRoomResponse(r))
	}
	return out
}

type meterResponse struct {
	Old   decimal.Decimal `json:"old"`
	New   decimal.Decimal `json:"new"`
	Rate  decimal.Decimal `json:"rate"`
	Units decimal.Decimal `json:"units"`
	Cost  decimal.Decimal `json:"cost"`
}

// BillResponse is a finalized bill with its tenancy snapshot.
type BillResponse struct {
	ID          int64         `json:"id"`
	RoomID      int64         `json:"room_id"`
	DormID      int64         `json:"dorm_id"`
	TenantName  string        `json:"tenant_name"`
	TenantPhone string        `json:"tenant_phone,omitempty"`
	MoveInDate  *time.Time    `json:"move_in_date,omitempty"`
	RentPeriod  string        `json:"rent_period,omitempty"`
	Rent        string        `json:"rent"`
	Electricity meterResponse `json:"electricity"`
	Water       meterResponse `json:"water"`
	Total       string        `json:"total"`
	ReadingDate time.Time     `json:"reading_date"`
	CreatedAt   time.Time     `json:"created_at"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(billing.CurrencyPlaces)
}

func newBillResponse(b model.BillRecord) BillResponse {
	return BillResponse{
		ID:          b.ID,
		RoomID:      b.RoomID,
		DormID:      b.DormID,
		TenantName:  b.TenantName,
		TenantPhone: b.TenantPhone,
		MoveInDate:  b.MoveInDate,
		RentPeriod:  b.RentPeriod,
		Rent:        money(b.Rent),
		Electricity: meterResponse{
			Old: b.ElectricityOld, New: b.ElectricityNew, Rate: b.ElectricityRate,
			Units: b.ElectricityUnits, Cost: b.ElectricityCost,
		},
		Water: meterResponse{
			Old: b.WaterOld, New: b.WaterNew, Rate: b.WaterRate,
			Units: b.WaterUnits, Cost: b.WaterCost,
		},
		Total:       money(b.Total),
		ReadingDate: b.ReadingDate,
		CreatedAt:   b.CreatedAt,
	}
}

// billPreview presents an unsaved bill with fixed two-decimal amounts.
type billPreview struct {
	Rent             string    `json:"rent"`
	ElectricityUnits string    `json:"electricity_units"`
	ElectricityCost  string    `json:"electricity_cost"`
	WaterUnits       string    `json:"water_units"`
	WaterCost        string    `json:"water_cost"`
	Total            string    `json:"total"`
	ReadingDate      time.Time `json:"reading_date"`
}

func newBillPreview(b billing.Bill) billPreview {
	b = b.Rounded()
	return billPreview{
		Rent:             money(b.Rent),
		ElectricityUnits: money(b.ElectricityUnits),
		ElectricityCost:  money(b.ElectricityCost),
		WaterUnits:       money(b.WaterUnits),
		WaterCost:        money(b.WaterCost),
		Total:            money(b.Total),
		ReadingDate:      b.ReadingDate,
	}
}
