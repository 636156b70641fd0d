package equity

import (
	"errors"
	"testing"
)

func TestPosition_Dispose(t *testing.T) {
	testCases := []struct {
		name            string
		dispose         Quantity
		wantErr         error
		wantCostRemoved Money
		wantShares      Quantity
		wantCostBasis   Money
	}{
		{
			name:            "Partial disposal at average cost",
			dispose:         Q(40),
			wantCostRemoved: USD(400),
			wantShares:      Q(60),
			wantCostBasis:   USD(600),
		},
		{
			name:            "Full disposal empties the basis",
			dispose:         Q(100),
			wantCostRemoved: USD(1000),
			wantShares:      Q(0),
			wantCostBasis:   USD(0),
		},
		{
			name:    "One share more than held",
			dispose: Q(101),
			wantErr: ErrInsufficientShares,
		},
		{
			name:    "Zero shares is a contract violation",
			dispose: Q(0),
			wantErr: ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Position holding 100 shares with a 1000 USD basis.
			pos := NewPosition()
			if _, err := pos.Acquire(Q(100), USD(10)); err != nil {
				t.Fatalf("Acquire() unexpected error: %v", err)
			}

			disposal, err := pos.Dispose(tc.dispose)

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Dispose(%s) error = %v, want %v", tc.dispose, err, tc.wantErr)
				}
				// A failed disposal leaves the position unchanged.
				if !pos.Shares().Equal(Q(100)) || !pos.CostBasis().Equal(USD(1000)) {
					t.Errorf("failed Dispose() mutated position: %s shares, %s basis", pos.Shares(), pos.CostBasis())
				}
				return
			}

			if err != nil {
				t.Fatalf("Dispose(%s) unexpected error: %v", tc.dispose, err)
			}
			if !disposal.CostRemoved.Equal(tc.wantCostRemoved) {
				t.Errorf("CostRemoved = %s, want %s", disposal.CostRemoved, tc.wantCostRemoved)
			}
			if !pos.Shares().Equal(tc.wantShares) {
				t.Errorf("Shares() = %s, want %s", pos.Shares(), tc.wantShares)
			}
			if !pos.CostBasis().Equal(tc.wantCostBasis) {
				t.Errorf("CostBasis() = %s, want %s", pos.CostBasis(), tc.wantCostBasis)
			}
		})
	}
}

func TestPosition_DisposeEmpty(t *testing.T) {
	pos := NewPosition()
	_, err := pos.Dispose(Q(1))
	if !errors.Is(err, ErrNoPosition) {
		t.Fatalf("Dispose() on empty position error = %v, want %v", err, ErrNoPosition)
	}
}

func TestPosition_AverageCost(t *testing.T) {
	pos := NewPosition()

	// Empty position has no average, and no division by zero.
	if got := pos.AverageCost(); !got.Equal(USD(0)) {
		t.Fatalf("AverageCost() on empty position = %s, want 0", got)
	}

	// Two acquisitions at different prices blend into one average.
	if _, err := pos.Acquire(Q(10), USD(50)); err != nil {
		t.Fatal(err)
	}
	acq, err := pos.Acquire(Q(30), USD(70))
	if err != nil {
		t.Fatal(err)
	}

	// (10*50 + 30*70) / 40 = 2600/40 = 65
	want := USD(65)
	if !acq.AverageCost.Equal(want) {
		t.Errorf("Acquire().AverageCost = %s, want %s", acq.AverageCost, want)
	}
	// The average is always cost_basis / shares_held, recomputed fresh.
	if !pos.AverageCost().Equal(pos.CostBasis().Div(pos.Shares())) {
		t.Errorf("AverageCost() = %s, want %s", pos.AverageCost(), pos.CostBasis().Div(pos.Shares()))
	}
}

func TestPosition_AcquireInvalid(t *testing.T) {
	pos := NewPosition()
	if _, err := pos.Acquire(Q(0), USD(10)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Acquire(0) error = %v, want %v", err, ErrInvalidInput)
	}
	if _, err := pos.Acquire(Q(10), USD(-1)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Acquire(negative cost) error = %v, want %v", err, ErrInvalidInput)
	}
	if !pos.Shares().IsZero() {
		t.Errorf("failed Acquire() mutated position: %s shares", pos.Shares())
	}
}

func TestPosition_FractionalShares(t *testing.T) {
	// ESPP purchases come with fractional shares; the arithmetic must stay
	// exact through acquire and dispose.
	pos := NewPosition()
	shares := MustParseQuantity(t, "12.345")
	if _, err := pos.Acquire(shares, USD(MustParseDecimal(t, "81.30"))); err != nil {
		t.Fatal(err)
	}

	disposal, err := pos.Dispose(shares)
	if err != nil {
		t.Fatal(err)
	}
	if !pos.Shares().IsZero() || !pos.CostBasis().IsZero() {
		t.Errorf("full disposal left %s shares, %s basis", pos.Shares(), pos.CostBasis())
	}
	want := USD(MustParseDecimal(t, "81.30")).Mul(shares)
	if !disposal.CostRemoved.Equal(want) {
		t.Errorf("CostRemoved = %s, want %s", disposal.CostRemoved, want)
	}
}
