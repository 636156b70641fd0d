package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/equity"
	"github.com/etnz/equity/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	boundary string
}

func (*summaryCmd) Name() string { return "summary" }
func (*summaryCmd) Synopsis() string {
	return "display the per-year summary of gains and taxable income"
}
func (*summaryCmd) Usage() string {
	return `acb summary [-boundary <date>]

  Aggregates the ledger by calendar year: number of disposals, proceeds,
  gain or loss in USD and CAD, and the taxable acquisition income in CAD.
  A boundary date splits that year into two periods, for rate-regime
  changes taking effect mid-year.
`
}

func (p *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.boundary, "boundary", "", "Optional mid-year boundary date (YYYY-MM-DD) splitting that year in two periods.")
}

func (p *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	entries, err := DecodeEntries()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var boundary equity.Date
	if p.boundary != "" {
		boundary, err = equity.ParseDate(p.boundary)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing boundary date: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	summary := equity.Summarize(entries, boundary)
	printMarkdown(renderer.SummaryMarkdown(summary))
	return subcommands.ExitSuccess
}
