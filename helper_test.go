package equity

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

// test helpers shared across the package tests.

// MustParseQuantity parses a share count or fails the test.
func MustParseQuantity(t *testing.T, str string) Quantity {
	t.Helper()
	q, err := ParseQuantity(str)
	if err != nil {
		t.Fatalf("invalid quantity %q: %v", str, err)
	}
	return q
}

// MustParseDecimal parses a decimal or fails the test.
func MustParseDecimal(t *testing.T, str string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(str)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", str, err)
	}
	return d
}

// stubRates is a RateProvider over a fixed table, for processor tests.
type stubRates map[Date]decimal.Decimal

func (s stubRates) Rate(on Date) (decimal.Decimal, error) {
	rate, ok := s[on]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no stub rate for %s", on)
	}
	return rate, nil
}
