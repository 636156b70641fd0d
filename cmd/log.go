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

type logCmd struct {
	year int
}

func (*logCmd) Name() string { return "log" }
func (*logCmd) Synopsis() string {
	return "display the chronological log of processed events and their impact on the position"
}
func (*logCmd) Usage() string {
	return `acb log [-y <year>]

  Displays every ledger entry in chronological order, with the exchange
  rate, the income or gain of each event, and the running position.
`
}

func (p *logCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.year, "y", 0, "Only show entries of the given year. All years by default.")
}

func (p *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	entries, err := DecodeEntries()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if p.year != 0 {
		filtered := make([]equity.LedgerEntry, 0, len(entries))
		for _, e := range entries {
			if e.Date.Year() == p.year {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	printMarkdown(renderer.LedgerMarkdown(entries))
	return subcommands.ExitSuccess
}
