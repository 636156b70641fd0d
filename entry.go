package equity

import "github.com/shopspring/decimal"

// LedgerEntry is the immutable snapshot of one event's effect: the input
// amounts, the computed taxable income or gain, the exchange rate used, and
// the resulting position. Entries are appended in order and never mutated.
type LedgerEntry struct {
	Kind Kind
	Date Date
	Rate decimal.Decimal // USD to CAD rate applied on the event date

	SharesAcquired Quantity // vest and purchase events
	SharesDisposed Quantity // sale events, including the covering leg
	FMV            Money    // fair market value per share, USD
	PurchasePrice  Money    // ESPP discounted price per share, USD
	SalePrice      Money    // sale price per share, USD

	TaxableIncome Money // acquisition income, CAD
	Proceeds      Money // disposal proceeds, USD
	CostRemoved   Money // cost basis removed on disposal, USD
	Gain          Money // proceeds minus cost removed, USD
	GainCAD       Money // the same gain expressed in CAD at the event rate

	SharesHeld   Quantity // post-event position
	CostBasis    Money    // post-event cost basis, USD
	CostBasisCAD Money    // the basis expressed in CAD at the event rate
	AverageCost  Money    // post-event blended cost per share, USD
}

// IsDisposal reports whether the entry removed shares from the position.
// Annual summaries aggregate over disposal entries only.
func (e LedgerEntry) IsDisposal() bool {
	return e.SharesDisposed.IsPositive()
}

// MarshalJSON implements the json.Marshaler interface for LedgerEntry.
// Keys are emitted in a fixed order and totals rounded to the cent, so
// identical runs produce byte-identical lines.
func (e LedgerEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", e.Kind)
	w.Append("date", e.Date)
	w.Append("rate", e.Rate)
	w.Optional("shares_acquired", e.SharesAcquired)
	w.Optional("shares_disposed", e.SharesDisposed)
	optionalMoney(&w, "fmv_usd", e.FMV.exact())
	optionalMoney(&w, "purchase_price_usd", e.PurchasePrice.exact())
	optionalMoney(&w, "sale_price_usd", e.SalePrice.exact())
	optionalMoney(&w, "taxable_income_cad", e.TaxableIncome)
	optionalMoney(&w, "proceeds_usd", e.Proceeds)
	optionalMoney(&w, "cost_removed_usd", e.CostRemoved)
	if e.IsDisposal() {
		// A zero gain is still a gain figure, it must not be dropped.
		w.Append("gain_usd", e.Gain)
		w.Append("gain_cad", e.GainCAD)
	}
	w.Append("shares_held", e.SharesHeld)
	w.Append("cost_basis_usd", e.CostBasis)
	w.Append("cost_basis_cad", e.CostBasisCAD)
	w.Append("average_cost_usd", e.AverageCost)
	return w.MarshalJSON()
}

// optionalMoney appends the amount only when it is set, mirroring
// jsonObjectWriter.Optional for the Money value type.
func optionalMoney(w *jsonObjectWriter, key string, m Money) {
	if m.IsZero() {
		return
	}
	w.Append(key, m)
}
