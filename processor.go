package equity

import (
	"fmt"
	"log"
	"sort"

	"github.com/shopspring/decimal"
)

// RateProvider converts a date into the USD to CAD exchange rate for that
// day. Lookups have no side effects on the position, so implementations may
// prefetch and cache freely.
type RateProvider interface {
	Rate(on Date) (decimal.Decimal, error)
}

// ReportSink receives each ledger entry as it is produced. A nil sink is
// allowed; entries are then only collected in the run's Report.
type ReportSink interface {
	Append(LedgerEntry) error
}

// Failure records one event or record that could not be processed. The run
// continues past it; no failure is ever silently absorbed.
type Failure struct {
	Date   string `json:"date"`
	Kind   Kind   `json:"kind,omitempty"`
	Reason string `json:"reason"`
}

// Report is the outcome of one processing run: the ordered ledger entries
// from all successful events, and the failures recorded along the way.
type Report struct {
	Entries  []LedgerEntry
	Failures []Failure
}

// Processor drives the ordered pass: it time-orders the transaction stream,
// dispatches each event to the position, and emits one ledger entry per
// successful event. A failed event is recorded and skipped, leaving the
// position exactly as the previous event left it.
type Processor struct {
	rates RateProvider
	sink  ReportSink
	pos   *Position
}

// NewProcessor creates a processor over a fresh, empty position.
func NewProcessor(rates RateProvider, sink ReportSink) *Processor {
	return &Processor{rates: rates, sink: sink, pos: NewPosition()}
}

// Position returns the running position. It reflects only the events
// processed so far.
func (p *Processor) Position() *Position { return p.pos }

// Run processes all transactions in ascending date order. Ties on the same
// day keep their input order, so reprocessing identical inputs with
// identical rate data yields byte-identical output.
//
// Per-event failures are recovered locally and reported in the returned
// Report. Only a sink failure aborts the run, the ledger file itself is
// broken at that point.
func (p *Processor) Run(txs []Transaction) (*Report, error) {
	ordered := make([]Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].When().Before(ordered[j].When())
	})

	report := &Report{}
	for _, tx := range ordered {
		entry, err := p.process(tx)
		if err != nil {
			log.Printf("%s: skipping %s event: %v", tx.When(), tx.What(), err)
			report.Failures = append(report.Failures, Failure{
				Date:   tx.When().String(),
				Kind:   tx.What(),
				Reason: err.Error(),
			})
			continue
		}
		if p.sink != nil {
			if err := p.sink.Append(entry); err != nil {
				return report, fmt.Errorf("could not append ledger entry on %s: %w", entry.Date, err)
			}
		}
		report.Entries = append(report.Entries, entry)
	}
	return report, nil
}

// process applies one event to the position and builds its entry. On any
// error the position is restored to its pre-event state, so a failed
// compound event never leaves a half-applied acquisition behind.
func (p *Processor) process(tx Transaction) (LedgerEntry, error) {
	if err := tx.Validate(); err != nil {
		return LedgerEntry{}, err
	}

	rate, err := p.rates.Rate(tx.When())
	if err != nil {
		return LedgerEntry{}, fmt.Errorf("no exchange rate: %w", err)
	}

	saved := *p.pos
	entry, err := p.apply(tx, rate)
	if err != nil {
		*p.pos = saved
		return LedgerEntry{}, err
	}
	return entry, nil
}

func (p *Processor) apply(tx Transaction, rate decimal.Decimal) (LedgerEntry, error) {
	entry := LedgerEntry{Kind: tx.What(), Date: tx.When(), Rate: rate}

	switch v := tx.(type) {
	case Vest:
		// Taxable income is the full market value of the released shares.
		if _, err := p.pos.Acquire(v.Shares, v.FMV); err != nil {
			return entry, err
		}
		entry.SharesAcquired = v.Shares
		entry.FMV = v.FMV
		entry.TaxableIncome = v.FMV.Mul(v.Shares).Convert(rate, "CAD")

	case Purchase:
		// The basis is set at full market value, not the discounted price.
		// The discount is the taxable benefit, reported separately.
		if _, err := p.pos.Acquire(v.Shares, v.FMV); err != nil {
			return entry, err
		}
		entry.SharesAcquired = v.Shares
		entry.FMV = v.FMV
		entry.PurchasePrice = v.PurchasePrice
		entry.TaxableIncome = v.FMV.Sub(v.PurchasePrice).Mul(v.Shares).Convert(rate, "CAD")

	case Sale:
		disposal, err := p.pos.Dispose(v.Shares)
		if err != nil {
			return entry, err
		}
		entry.SharesDisposed = v.Shares
		entry.SalePrice = v.Price
		entry.Proceeds = v.Price.Mul(v.Shares)
		entry.CostRemoved = disposal.CostRemoved
		entry.Gain = entry.Proceeds.Sub(disposal.CostRemoved)
		entry.GainCAD = entry.Gain.Convert(rate, "CAD")

	case SaleToCover:
		// Acquire first, then dispose: the withholding sale's average cost
		// is computed over the position that includes the new shares.
		if _, err := p.pos.Acquire(v.Shares, v.FMV); err != nil {
			return entry, err
		}
		disposal, err := p.pos.Dispose(v.SharesSold)
		if err != nil {
			return entry, err
		}
		entry.SharesAcquired = v.Shares
		entry.SharesDisposed = v.SharesSold
		entry.FMV = v.FMV
		entry.SalePrice = v.SalePrice
		entry.TaxableIncome = v.FMV.Mul(v.Shares).Convert(rate, "CAD")
		entry.Proceeds = v.SalePrice.Mul(v.SharesSold)
		entry.CostRemoved = disposal.CostRemoved
		entry.Gain = entry.Proceeds.Sub(disposal.CostRemoved)
		entry.GainCAD = entry.Gain.Convert(rate, "CAD")

	default:
		return entry, fmt.Errorf("%w: unsupported transaction type %T", ErrUnrecognizedFormat, tx)
	}

	entry.SharesHeld = p.pos.Shares()
	entry.CostBasis = p.pos.CostBasis()
	entry.CostBasisCAD = p.pos.CostBasis().Convert(rate, "CAD")
	entry.AverageCost = p.pos.AverageCost()
	return entry, nil
}

// Run is the single entry point over raw inputs: it merges the record
// batches, normalizes them, and processes the resulting stream against a
// fresh position. Normalization failures are carried into the report next
// to processing failures.
func Run(rates RateProvider, sink ReportSink, batches ...[]Record) (*Report, error) {
	var records []Record
	for _, b := range batches {
		records = append(records, b...)
	}
	txs, failures := NormalizeAll(records)

	proc := NewProcessor(rates, sink)
	report, err := proc.Run(txs)
	if report != nil {
		report.Failures = append(failures, report.Failures...)
	}
	return report, err
}
