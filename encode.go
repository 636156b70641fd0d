package equity

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// entryRow is a specialized struct for decoding one persisted ledger line.
// Amounts are bare decimals on disk; the currency is implied by the key.
type entryRow struct {
	Kind           Kind            `json:"kind"`
	Date           Date            `json:"date"`
	Rate           decimal.Decimal `json:"rate"`
	SharesAcquired Quantity        `json:"shares_acquired"`
	SharesDisposed Quantity        `json:"shares_disposed"`
	FMV            decimal.Decimal `json:"fmv_usd"`
	PurchasePrice  decimal.Decimal `json:"purchase_price_usd"`
	SalePrice      decimal.Decimal `json:"sale_price_usd"`
	TaxableIncome  decimal.Decimal `json:"taxable_income_cad"`
	Proceeds       decimal.Decimal `json:"proceeds_usd"`
	CostRemoved    decimal.Decimal `json:"cost_removed_usd"`
	Gain           decimal.Decimal `json:"gain_usd"`
	GainCAD        decimal.Decimal `json:"gain_cad"`
	SharesHeld     Quantity        `json:"shares_held"`
	CostBasis      decimal.Decimal `json:"cost_basis_usd"`
	CostBasisCAD   decimal.Decimal `json:"cost_basis_cad"`
	AverageCost    decimal.Decimal `json:"average_cost_usd"`
}

func (r entryRow) entry() LedgerEntry {
	return LedgerEntry{
		Kind:           r.Kind,
		Date:           r.Date,
		Rate:           r.Rate,
		SharesAcquired: r.SharesAcquired,
		SharesDisposed: r.SharesDisposed,
		FMV:            USD(r.FMV),
		PurchasePrice:  USD(r.PurchasePrice),
		SalePrice:      USD(r.SalePrice),
		TaxableIncome:  CAD(r.TaxableIncome),
		Proceeds:       USD(r.Proceeds),
		CostRemoved:    USD(r.CostRemoved),
		Gain:           USD(r.Gain),
		GainCAD:        CAD(r.GainCAD),
		SharesHeld:     r.SharesHeld,
		CostBasis:      USD(r.CostBasis),
		CostBasisCAD:   CAD(r.CostBasisCAD),
		AverageCost:    USD(r.AverageCost),
	}
}

// EncodeEntry marshals a single ledger entry to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeEntry(w io.Writer, entry LedgerEntry) error {
	decimal.MarshalJSONWithoutQuotes = true
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger entry: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write ledger entry: %w", err)
	}
	return nil
}

// EncodeEntries persists all entries to an io.Writer in JSONL format, one
// canonical line per entry.
func EncodeEntries(w io.Writer, entries []LedgerEntry) error {
	for _, entry := range entries {
		if err := EncodeEntry(w, entry); err != nil {
			return err
		}
	}
	return nil
}

// DecodeEntries reads a stream of JSONL ledger data from an io.Reader and
// decodes each line into a LedgerEntry. Empty lines are skipped.
func DecodeEntries(r io.Reader) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var row entryRow
		if err := json.Unmarshal(lineBytes, &row); err != nil {
			return nil, fmt.Errorf("could not decode ledger line %q: %w", string(lineBytes), err)
		}
		entries = append(entries, row.entry())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return entries, nil
}
