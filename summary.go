package equity

import (
	"fmt"
	"sort"
)

// PeriodSummary aggregates the tax figures for one calendar year, or for one
// side of a configured mid-year boundary.
type PeriodSummary struct {
	Label string // "2024", or "2024 to 06-30" / "2024 from 07-01" when split
	Year  int

	Disposals      int      // number of disposal entries in the period
	SharesDisposed Quantity // total shares disposed
	Proceeds       Money    // total disposal proceeds, USD
	CostRemoved    Money    // total cost basis removed, USD
	Gain           Money    // total gain or loss, USD
	GainCAD        Money    // total gain or loss, CAD

	TaxableIncome Money // acquisition income in the period, CAD
}

// AnnualSummary is the end-of-run aggregate, one period per year in
// chronological order.
type AnnualSummary struct {
	Periods []PeriodSummary
}

// Summarize aggregates ledger entries by calendar year. Gains are summed
// over disposal entries only; taxable income over acquisition entries.
//
// A non-zero boundary splits that year into two periods at the given date,
// the boundary day belonging to the earlier one. This serves rate-regime
// changes that take effect mid-year.
func Summarize(entries []LedgerEntry, boundary Date) AnnualSummary {
	type key struct {
		year int
		late bool // true for the period after the boundary
	}

	periods := make(map[key]*PeriodSummary)
	order := make([]key, 0)

	for _, e := range entries {
		k := key{year: e.Date.Year()}
		if !boundary.IsZero() && e.Date.Year() == boundary.Year() && e.Date.After(boundary) {
			k.late = true
		}

		s, ok := periods[k]
		if !ok {
			s = &PeriodSummary{Year: k.year, Label: fmt.Sprint(k.year)}
			if !boundary.IsZero() && k.year == boundary.Year() {
				if k.late {
					s.Label = fmt.Sprintf("%d from %s", k.year, boundary.Add(1).Format("01-02"))
				} else {
					s.Label = fmt.Sprintf("%d to %s", k.year, boundary.Format("01-02"))
				}
			}
			periods[k] = s
			order = append(order, k)
		}

		s.TaxableIncome = s.TaxableIncome.Add(e.TaxableIncome)
		if e.IsDisposal() {
			s.Disposals++
			s.SharesDisposed = s.SharesDisposed.Add(e.SharesDisposed)
			s.Proceeds = s.Proceeds.Add(e.Proceeds)
			s.CostRemoved = s.CostRemoved.Add(e.CostRemoved)
			s.Gain = s.Gain.Add(e.Gain)
			s.GainCAD = s.GainCAD.Add(e.GainCAD)
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return !order[i].late && order[j].late
	})

	summary := AnnualSummary{Periods: make([]PeriodSummary, 0, len(order))}
	for _, k := range order {
		summary.Periods = append(summary.Periods, *periods[k])
	}
	return summary
}
