package billing

import (
	"errors"

	"github.com/shopspring/decimal"

	"dorm-rental-backend/internal/apperr"
	"dorm-rental-backend/internal/parse"
)

// RentFor resolves the rent charged for a cycle. An empty period selects the listing
// priority price (monthly, then term, then daily). Price ranges cannot be billed.
func RentFor(prices parse.Prices, period parse.Period) (parse.Period, decimal.Decimal, error) {
	raw := ""
	if period == "" {
		var ok bool
		period, raw, ok = prices.Priority()
		if !ok {
			return "", decimal.Zero, apperr.Validation("no rent price is configured")
		}
	} else {
		raw = prices.Get(period)
	}

	price, err := parse.ParsePrice(raw)
	if errors.Is(err, parse.ErrNoPrice) {
		return period, decimal.Zero, apperr.Validation("no %s rent price is configured", period)
	}
	if err != nil {
		return period, decimal.Zero, apperr.Validation("%v", err)
	}
	if !price.IsSingle() {
		return period, decimal.Zero, apperr.Validation("%s rent %q is a range; supply the exact rent", period, price)
	}
	return period, price.Min, nil
}
