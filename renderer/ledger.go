// Package renderer builds markdown reports from ledger entries and
// summaries, for terminal display or for committing next to the data files.
package renderer

import (
	"bytes"

	"github.com/etnz/equity"
	md "github.com/nao1215/markdown"
)

func LedgerMarkdown(entries []equity.LedgerEntry) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transaction Ledger")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{
			"Date",
			"Event",
			"Rate",
			"Acquired",
			"Disposed",
			"Income (CAD)",
			"Gain (CAD)",
			"Shares Held",
			"ACB (USD)",
		},
	}
	for _, e := range entries {
		table.Rows = append(table.Rows, []string{
			e.Date.String(),
			string(e.Kind),
			e.Rate.String(),
			blankIfZero(e.SharesAcquired),
			blankIfZero(e.SharesDisposed),
			signedOrBlank(e.TaxableIncome),
			gainCell(e),
			e.SharesHeld.String(),
			e.CostBasis.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}

func FailuresMarkdown(failures []equity.Failure) string {
	if len(failures) == 0 {
		return ""
	}
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Skipped Events")
	var items []string
	for _, f := range failures {
		item := f.Reason
		if f.Date != "" {
			item = f.Date + ": " + item
		}
		items = append(items, item)
	}
	doc.BulletList(items...)

	return doc.String()
}

func blankIfZero(q equity.Quantity) string {
	if q.IsZero() {
		return ""
	}
	return q.String()
}

func signedOrBlank(m equity.Money) string {
	if m.IsZero() {
		return ""
	}
	return m.SignedString()
}

func gainCell(e equity.LedgerEntry) string {
	if !e.IsDisposal() {
		return ""
	}
	return e.GainCAD.SignedString()
}
