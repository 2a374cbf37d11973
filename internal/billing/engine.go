package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"dorm-rental-backend/internal/apperr"
	"dorm-rental-backend/internal/occupancy"
)

// Input is everything needed to bill one room for one cycle.
type Input struct {
	Occupancy   occupancy.State
	Rent        decimal.Decimal
	Electricity MeterReading
	Water       MeterReading
	ReadingDate time.Time
}

// Bill is a computed bill. Amounts carry full precision; call Rounded before
// persisting or presenting.
type Bill struct {
	Rent             decimal.Decimal `json:"rent"`
	ElectricityUnits decimal.Decimal `json:"electricity_units"`
	ElectricityCost  decimal.Decimal `json:"electricity_cost"`
	WaterUnits       decimal.Decimal `json:"water_units"`
	WaterCost        decimal.Decimal `json:"water_cost"`
	Total            decimal.Decimal `json:"total"`
	ReadingDate      time.Time       `json:"reading_date"`
}

// Rounded returns a copy with every amount rounded to the currency's minor unit.
func (b Bill) Rounded() Bill {
	b.Rent = Round(b.Rent)
	b.ElectricityUnits = Round(b.ElectricityUnits)
	b.ElectricityCost = Round(b.ElectricityCost)
	b.WaterUnits = Round(b.WaterUnits)
	b.WaterCost = Round(b.WaterCost)
	b.Total = Round(b.Total)
	return b
}

// MeterState is a room's meter snapshot.
type MeterState struct {
	ElectricityOld decimal.Decimal
	ElectricityNew decimal.Decimal
	WaterOld       decimal.Decimal
	WaterNew       decimal.Decimal
	ReadingDate    time.Time
}

// Compute produces the bill for in without side effects. Vacant rooms, inverted
// meter pairs and missing tariffs are rejected.
func Compute(in Input) (Bill, error) {
	if err := in.Occupancy.RequireOccupied(); err != nil {
		return Bill{}, err
	}
	if in.Rent.IsNegative() {
		return Bill{}, apperr.Validation("rent cannot be negative")
	}
	if in.ReadingDate.IsZero() {
		return Bill{}, apperr.Validation("reading date is required")
	}

	eUnits, eCost, err := in.Electricity.charge("electricity")
	if err != nil {
		return Bill{}, err
	}
	wUnits, wCost, err := in.Water.charge("water")
	if err != nil {
		return Bill{}, err
	}

	return Bill{
		Rent:             in.Rent,
		ElectricityUnits: eUnits,
		ElectricityCost:  eCost,
		WaterUnits:       wUnits,
		WaterCost:        wCost,
		Total:            in.Rent.Add(eCost).Add(wCost),
		ReadingDate:      in.ReadingDate,
	}, nil
}

// Finalize computes the bill and the rolled-over meter state for the next cycle:
// this cycle's new readings become both old and new, so the next cycle starts at zero
// consumption. Nothing is returned on error.
func Finalize(in Input) (Bill, MeterState, error) {
	bill, err := Compute(in)
	if err != nil {
		return Bill{}, MeterState{}, err
	}
	next := MeterState{
		ElectricityOld: in.Electricity.New,
		ElectricityNew: in.Electricity.New,
		WaterOld:       in.Water.New,
		WaterNew:       in.Water.New,
		ReadingDate:    in.ReadingDate,
	}
	return bill, next, nil
}
