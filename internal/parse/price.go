package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var numberRe = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ErrNoPrice is returned when a price field is blank.
var ErrNoPrice = errors.New("no price set")

// PriceRange is a parsed listing price. Single amounts have Min == Max.
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// IsSingle reports whether the range is a single amount.
func (p PriceRange) IsSingle() bool {
	return p.Min.Equal(p.Max)
}

func (p PriceRange) String() string {
	if p.IsSingle() {
		return p.Min.String()
	}
	return p.Min.String() + "-" + p.Max.String()
}

// ParsePrice reads free-form owner input such as "4000", "4,000", "4000-4500"
// or "฿3,500 / เดือน". Anything that is not a number is ignored.
func ParsePrice(raw string) (PriceRange, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return PriceRange{}, ErrNoPrice
	}

	matches := numberRe.FindAllString(s, -1)
	amounts := make([]decimal.Decimal, 0, len(matches))
	for _, m := range matches {
		d, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
		if err != nil {
			return PriceRange{}, fmt.Errorf("unable to parse price %q: %w", raw, err)
		}
		amounts = append(amounts, d)
	}

	switch len(amounts) {
	case 0:
		return PriceRange{}, fmt.Errorf("unable to parse price: %q", raw)
	case 1:
		return PriceRange{Min: amounts[0], Max: amounts[0]}, nil
	case 2:
		lo, hi := amounts[0], amounts[1]
		if lo.GreaterThan(hi) {
			lo, hi = hi, lo
		}
		return PriceRange{Min: lo, Max: hi}, nil
	default:
		return PriceRange{}, fmt.Errorf("too many amounts in price: %q", raw)
	}
}

// Period is the rental period a price applies to.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodMonthly Period = "monthly"
	PeriodTerm    Period = "term"
)

// Prices holds the per-period price strings of a dorm or room.
type Prices struct {
	Daily   string
	Monthly string
	Term    string
}

// Priority returns the price shown in listings: monthly first, then term, then daily.
func (p Prices) Priority() (Period, string, bool) {
	switch {
	case strings.TrimSpace(p.Monthly) != "":
		return PeriodMonthly, strings.TrimSpace(p.Monthly), true
	case strings.TrimSpace(p.Term) != "":
		return PeriodTerm, strings.TrimSpace(p.Term), true
	case strings.TrimSpace(p.Daily) != "":
		return PeriodDaily, strings.TrimSpace(p.Daily), true
	}
	return "", "", false
}

// Get returns the raw price for the given period.
func (p Prices) Get(period Period) string {
	switch period {
	case PeriodDaily:
		return p.Daily
	case PeriodMonthly:
		return p.Monthly
	case PeriodTerm:
		return p.Term
	}
	return ""
}
