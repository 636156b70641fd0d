package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/equity"
)

func SummaryMarkdown(summary equity.AnnualSummary) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Annual Summary\n\n")
	fmt.Fprintln(&b, "| Year | Disposals | Proceeds (USD) | Cost Removed (USD) | Gain/Loss (USD) | Gain/Loss (CAD) | Income (CAD) |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")

	for _, p := range summary.Periods {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s |\n",
			p.Label,
			p.Disposals,
			p.Proceeds.String(),
			p.CostRemoved.String(),
			p.Gain.SignedString(),
			p.GainCAD.SignedString(),
			p.TaxableIncome.String(),
		)
	}

	return b.String()
}
