package store

import (
	"time"

	"github.com/shopspring/decimal"

	"dorm-rental-backend/internal/auth"
	"dorm-rental-backend/internal/parse"
)

// DormFilter narrows the public listing. Zero fields match everything.
type DormFilter struct {
	ProvinceID int
	DistrictID int
	Query      string
}

// RoomSummary counts a dorm's rooms by occupancy.
type RoomSummary struct {
	Total    int64 `json:"total"`
	Occupied int64 `json:"occupied"`
	Vacant   int64 `json:"vacant"`
}

// MeterUpdate overwrites parts of a room's meter snapshot. Nil fields are left alone.
type MeterUpdate struct {
	ElectricityOld  *decimal.Decimal
	ElectricityNew  *decimal.Decimal
	WaterOld        *decimal.Decimal
	WaterNew        *decimal.Decimal
	ReadingDate     *time.Time
	ElectricityNote *string
	WaterNote       *string
}

// BillRequest describes one billing cycle. Readings default to the room's stored
// snapshot and the rent to the room's price for Period (falling back to the dorm's).
type BillRequest struct {
	Period         parse.Period
	Rent           *decimal.Decimal
	ElectricityNew *decimal.Decimal
	WaterNew       *decimal.Decimal
	ReadingDate    *time.Time
}

// Principal is what login needs to know about an account.
type Principal struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         auth.Role
}

// Profile is the public view of an account.
type Profile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	LineID    string    `json:"line_id,omitempty"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
