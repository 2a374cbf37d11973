package model

import (
	"time"

	"github.com/shopspring/decimal"

	"dorm-rental-backend/internal/approval"
	"dorm-rental-backend/internal/parse"
)

// Dorm represents a dormitory listing owned by one owner.
type Dorm struct {
	ID            int64  `gorm:"primaryKey"`
	OwnerID       int64  `gorm:"index;not null"`
	Name          string `gorm:"size:256;not null"`
	Address       string `gorm:"size:512"`
	ProvinceID    int
	DistrictID    int
	SubdistrictID int

	PriceDaily   string `gorm:"size:64"`
	PriceMonthly string `gorm:"size:64"`
	PriceTerm    string `gorm:"size:64"`
	Deposit      string `gorm:"size:64"`

	WaterCost       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	ElectricityCost decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`

	ContactPhone string `gorm:"size:32"`
	Facilities   string `gorm:"size:1024"` // comma-joined tags
	NearPlaces   string `gorm:"size:1024"` // comma-joined tags
	Description  string `gorm:"type:text"`
	Latitude     *float64
	Longitude    *float64

	Status       approval.Status `gorm:"size:16;index;not null;default:pending"`
	RejectReason string          `gorm:"size:512"`
	ReviewedAt   *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Images []DormImage `gorm:"foreignKey:DormID;constraint:OnDelete:CASCADE"`
	Rooms  []Room      `gorm:"foreignKey:DormID;constraint:OnDelete:CASCADE"`
}

// Prices returns the dorm's listing prices.
func (d Dorm) Prices() parse.Prices {
	return parse.Prices{Daily: d.PriceDaily, Monthly: d.PriceMonthly, Term: d.PriceTerm}
}

// HasLocation reports whether both coordinates are set.
func (d Dorm) HasLocation() bool {
	return d.Latitude != nil && d.Longitude != nil
}
