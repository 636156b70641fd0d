package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/equity"
	"github.com/etnz/equity/rates"
	"github.com/google/subcommands"
)

type rateCmd struct{}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "look up the USD to CAD rate for a date" }
func (*rateCmd) Usage() string {
	return `acb rate <date>...

  Looks up the Bank of Canada USD to CAD rate for each given date,
  applying the same weekend and holiday fallback as processing does.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one date is required")
		return subcommands.ExitUsageError
	}

	provider := rates.NewBankOfCanada()
	status := subcommands.ExitSuccess
	for _, arg := range f.Args() {
		on, err := equity.ParseDate(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date %q: %v\n", arg, err)
			status = subcommands.ExitFailure
			continue
		}
		rate, err := provider.Rate(on)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%s %s\n", on, rate)
	}
	return status
}
