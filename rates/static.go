package rates

import (
	"fmt"

	"github.com/etnz/equity"
	"github.com/shopspring/decimal"
)

// Static is a RateProvider over a fixed table of rates, for tests and for
// offline runs with a known flat rate.
type Static struct {
	// Default applies when a date has no entry in Days. Zero means no
	// default: unknown dates fail with ErrNoData.
	Default decimal.Decimal

	// Days maps an exact date to its rate.
	Days map[equity.Date]decimal.Decimal
}

// Flat returns a provider answering every date with the same rate.
func Flat(rate decimal.Decimal) *Static {
	return &Static{Default: rate}
}

// Rate implements equity.RateProvider.
func (s *Static) Rate(on equity.Date) (decimal.Decimal, error) {
	if on.After(equity.Today()) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrFutureDate, on)
	}
	if rate, ok := s.Days[on]; ok {
		return rate, nil
	}
	if !s.Default.IsZero() {
		return s.Default, nil
	}
	return decimal.Decimal{}, fmt.Errorf("%w: no rate for %s", ErrNoData, on)
}

var _ equity.RateProvider = (*Static)(nil)
