package billing

import (
	"github.com/shopspring/decimal"

	"dorm-rental-backend/internal/apperr"
)

// CurrencyPlaces is the number of minor-unit digits amounts are rounded to at storage
// and presentation boundaries.
const CurrencyPlaces = 2

// Round rounds an amount to the currency's minor unit, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// MeterReading is one utility meter over a billing cycle plus its tariff.
type MeterReading struct {
	Old  decimal.Decimal
	New  decimal.Decimal
	Rate decimal.Decimal
}

func (m MeterReading) validateMeters(kind string) error {
	if m.Old.IsNegative() || m.New.IsNegative() {
		return apperr.Validation("%s meter readings cannot be negative", kind)
	}
	if m.New.LessThan(m.Old) {
		return apperr.Validation("new reading cannot be less than old reading (%s: old %s, new %s)", kind, m.Old, m.New)
	}
	return nil
}

func (m MeterReading) validateRate(kind string) error {
	if !m.Rate.IsPositive() {
		return apperr.Validation("%s rate must be greater than zero", kind)
	}
	return nil
}

// Units returns new - old. An old reading of zero is a valid first-cycle baseline.
func (m MeterReading) Units() (decimal.Decimal, error) {
	return m.units("meter")
}

func (m MeterReading) units(kind string) (decimal.Decimal, error) {
	if err := m.validateMeters(kind); err != nil {
		return decimal.Zero, err
	}
	return m.New.Sub(m.Old), nil
}

// Cost returns units * rate at full precision.
func (m MeterReading) Cost() (decimal.Decimal, error) {
	_, cost, err := m.charge("meter")
	return cost, err
}

func (m MeterReading) charge(kind string) (units, cost decimal.Decimal, err error) {
	units, err = m.units(kind)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if err := m.validateRate(kind); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return units, units.Mul(m.Rate), nil
}
