package model

import (
	"time"

	"github.com/shopspring/decimal"

	"dorm-rental-backend/internal/billing"
	"dorm-rental-backend/internal/occupancy"
	"dorm-rental-backend/internal/parse"
)

// RoomType is the cooling type of a room.
type RoomType string

const (
	RoomTypeAirConditioner RoomType = "air_conditioner"
	RoomTypeFan            RoomType = "fan"
)

// Valid reports whether t is a known room type.
func (t RoomType) Valid() bool {
	return t == RoomTypeAirConditioner || t == RoomTypeFan
}

// Room is a billable unit inside a dorm, with its occupancy and latest meter snapshot.
type Room struct {
	ID         int64    `gorm:"primaryKey"`
	DormID     int64    `gorm:"not null;uniqueIndex:idx_rooms_dorm_number"`
	RoomNumber string   `gorm:"size:32;not null;uniqueIndex:idx_rooms_dorm_number"`
	Floor      int      `gorm:"not null;default:1"`
	RoomType   RoomType `gorm:"size:32;not null;default:fan"`

	PriceDaily   string `gorm:"size:64"`
	PriceMonthly string `gorm:"size:64"`
	PriceTerm    string `gorm:"size:64"`

	IsOccupied  bool   `gorm:"not null;default:false"`
	TenantName  string `gorm:"size:128"`
	TenantPhone string `gorm:"size:32"`
	MoveInDate  *time.Time
	Notes       string `gorm:"type:text"`

	ElectricityMeterOld decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ElectricityMeterNew decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	WaterMeterOld       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	WaterMeterNew       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	MeterReadingDate    *time.Time
	ElectricityNote     string `gorm:"size:512"`
	WaterNote           string `gorm:"size:512"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Dorm Dorm `gorm:"constraint:OnDelete:CASCADE"`
}

// Prices returns the room's own per-period prices.
func (r Room) Prices() parse.Prices {
	return parse.Prices{Daily: r.PriceDaily, Monthly: r.PriceMonthly, Term: r.PriceTerm}
}

// Occupancy rebuilds the occupancy state from the stored columns.
func (r Room) Occupancy() occupancy.State {
	return occupancy.Restore(r.IsOccupied, occupancy.Tenant{
		Name:       r.TenantName,
		Phone:      r.TenantPhone,
		MoveInDate: r.MoveInDate,
	})
}

// ApplyOccupancy writes s into the tenant columns. Vacant rooms carry no tenant data.
func (r *Room) ApplyOccupancy(s occupancy.State) {
	t, ok := s.Tenant()
	r.IsOccupied = ok
	r.TenantName = t.Name
	r.TenantPhone = t.Phone
	r.MoveInDate = t.MoveInDate
}

// Meters returns the stored meter snapshot.
func (r Room) Meters() billing.MeterState {
	m := billing.MeterState{
		ElectricityOld: r.ElectricityMeterOld,
		ElectricityNew: r.ElectricityMeterNew,
		WaterOld:       r.WaterMeterOld,
		WaterNew:       r.WaterMeterNew,
	}
	if r.MeterReadingDate != nil {
		m.ReadingDate = *r.MeterReadingDate
	}
	return m
}

// MeterColumns maps a meter snapshot onto room columns for a single UPDATE.
func MeterColumns(m billing.MeterState) map[string]any {
	cols := map[string]any{
		"electricity_meter_old": m.ElectricityOld,
		"electricity_meter_new": m.ElectricityNew,
		"water_meter_old":       m.WaterOld,
		"water_meter_new":       m.WaterNew,
	}
	if !m.ReadingDate.IsZero() {
		cols["meter_reading_date"] = m.ReadingDate
	}
	return cols
}
