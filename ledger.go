package equity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Position is the running state of the held equity: share count and total
// cost basis under the average-cost method. The unit of account is USD; CAD
// figures are derived by the caller at read time and never accumulated here.
//
// A Position is mutated strictly one event at a time and is not safe for
// concurrent use.
type Position struct {
	shares    Quantity
	costBasis Money
}

// NewPosition returns an empty position, the state at the beginning of a run.
func NewPosition() *Position {
	return &Position{shares: Q(0), costBasis: USD(0)}
}

// Shares returns the running held share count.
func (p *Position) Shares() Quantity { return p.shares }

// CostBasis returns the running total cost in USD.
func (p *Position) CostBasis() Money { return p.costBasis }

// AverageCost returns the blended cost per share, cost_basis / shares_held.
// It is zero for an empty position, never a division by zero.
func (p *Position) AverageCost() Money {
	if p.shares.IsZero() {
		return USD(0)
	}
	return p.costBasis.Div(p.shares)
}

// Acquisition is the result of adding shares to the position.
type Acquisition struct {
	Shares      Quantity // shares added
	Cost        Money    // total cost added to the basis, USD
	AverageCost Money    // post-acquisition blended cost per share, USD
}

// Disposal is the result of removing shares from the position.
type Disposal struct {
	Shares      Quantity // shares removed
	CostRemoved Money    // cost basis removed, shares * pre-disposal average cost, USD
	AverageCost Money    // pre-disposal blended cost per share, USD
}

// Acquire adds shares at the given unit cost. The share count and the cost
// basis both grow; the new blended average is returned. Fails with
// ErrInvalidInput for a non-positive share count, the position is unchanged.
func (p *Position) Acquire(shares Quantity, unitCost Money) (Acquisition, error) {
	if !shares.IsPositive() {
		return Acquisition{}, fmt.Errorf("%w: acquire shares must be positive, got %s", ErrInvalidInput, shares)
	}
	if unitCost.IsNegative() {
		return Acquisition{}, fmt.Errorf("%w: acquire unit cost must not be negative, got %s", ErrInvalidInput, unitCost)
	}
	cost := unitCost.Mul(shares)
	p.shares = p.shares.Add(shares)
	p.costBasis = p.costBasis.Add(cost)
	return Acquisition{Shares: shares, Cost: cost, AverageCost: p.AverageCost()}, nil
}

// Dispose removes shares at the pre-disposal average cost. The held balance
// must never go negative: disposing more than held fails with
// ErrInsufficientShares and leaves the position unchanged. Disposing against
// an empty position fails with ErrNoPosition.
//
// Gain or loss is not computed here. The caller combines CostRemoved with the
// sale proceeds, keeping the ledger currency-agnostic.
func (p *Position) Dispose(shares Quantity) (Disposal, error) {
	if !shares.IsPositive() {
		return Disposal{}, fmt.Errorf("%w: dispose shares must be positive, got %s", ErrInvalidInput, shares)
	}
	if p.shares.IsZero() {
		return Disposal{}, fmt.Errorf("%w: cannot dispose %s shares", ErrNoPosition, shares)
	}
	if shares.GreaterThan(p.shares) {
		return Disposal{}, fmt.Errorf("%w: cannot dispose %s shares, only %s held", ErrInsufficientShares, shares, p.shares)
	}
	// The average is computed over the pre-disposal balance. That is the
	// adjusted-cost-base rule: one blended cost across all lots, no lot matching.
	avg := p.AverageCost()
	removed := avg.Mul(shares)
	p.shares = p.shares.Sub(shares)
	p.costBasis = p.costBasis.Sub(removed)
	if p.shares.IsZero() {
		// A full disposal empties the basis exactly, no residual dust.
		p.costBasis = USD(decimal.Zero)
	}
	return Disposal{Shares: shares, CostRemoved: removed, AverageCost: avg}, nil
}
