package model

import (
	"time"

	"github.com/shopspring/decimal"

	"dorm-rental-backend/internal/billing"
)

// BillRecord is an append-only record of one finalized billing cycle for a room.
// Tenant columns snapshot the tenancy the bill was issued to.
type BillRecord struct {
	ID     int64 `gorm:"primaryKey"`
	RoomID int64 `gorm:"index;not null"`
	DormID int64 `gorm:"index;not null"`

	TenantName  string `gorm:"size:128;not null"`
	TenantPhone string `gorm:"size:32"`
	MoveInDate  *time.Time
	RentPeriod  string `gorm:"size:16"`

	Rent decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	ElectricityOld   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ElectricityNew   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ElectricityRate  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	ElectricityUnits decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ElectricityCost  decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	WaterOld   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	WaterNew   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	WaterRate  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	WaterUnits decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	WaterCost  decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ReadingDate time.Time       `gorm:"not null;index"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// Bill converts the stored record back into a bill.
func (b BillRecord) Bill() billing.Bill {
	return billing.Bill{
		Rent:             b.Rent,
		ElectricityUnits: b.ElectricityUnits,
		ElectricityCost:  b.ElectricityCost,
		WaterUnits:       b.WaterUnits,
		WaterCost:        b.WaterCost,
		Total:            b.Total,
		ReadingDate:      b.ReadingDate,
	}
}
