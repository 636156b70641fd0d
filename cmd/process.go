package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/etnz/equity"
	"github.com/etnz/equity/confirm"
	"github.com/etnz/equity/rates"
	"github.com/etnz/equity/renderer"
	"github.com/etnz/equity/sales"
	"github.com/google/subcommands"
)

type processCmd struct {
	confirmDir string
	salesFile  string
}

func (*processCmd) Name() string { return "process" }
func (*processCmd) Synopsis() string {
	return "process all confirmation statements and sale records into the ledger"
}
func (*processCmd) Usage() string {
	return `acb process [-confirmations <dir>] [-sales <file>]

  Reads every plan confirmation statement and the sales export, orders all
  events chronologically, applies them to the position, and writes the
  resulting ledger entries to the ledger file. Events that cannot be
  processed are reported and skipped; the run always produces a consistent
  partial ledger.

Usage Examples:
# Process the default inputs and write the default ledger file.
$ acb process

`
}

func (p *processCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.confirmDir, "confirmations", "confirmations", "Directory of plan confirmation statements (*.txt)")
	f.StringVar(&p.salesFile, "sales", "sales.csv", "CSV export of open-market sales")
}

func (p *processCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	records, docFailures := confirm.LoadDir(p.confirmDir)

	saleRecords, err := sales.Load(p.salesFile)
	if err != nil {
		if !errors.Is(err, sales.ErrSourceNotFound) {
			fmt.Fprintf(os.Stderr, "Error reading sales export: %v\n", err)
			return subcommands.ExitFailure
		}
		// A run without sales is valid.
		log.Printf("no sales export at %q, processing without sales", p.salesFile)
	}
	records = append(records, saleRecords...)

	txs, normFailures := equity.NormalizeAll(records)

	// Fetch all months up front so the ordered pass never waits on the network.
	provider := rates.NewBankOfCanada()
	days := make([]equity.Date, 0, len(txs))
	for _, tx := range txs {
		days = append(days, tx.When())
	}
	if err := provider.Prefetch(days); err != nil {
		// Not fatal: the pass reports the affected events individually.
		log.Printf("prefetching rates: %v", err)
	}

	sink := equity.NewFileSink(*ledgerFile)
	defer sink.Close()

	proc := equity.NewProcessor(provider, sink)
	report, err := proc.Run(txs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	report.Failures = append(append(docFailures, normFailures...), report.Failures...)

	printMarkdown(renderer.LedgerMarkdown(report.Entries))
	if doc := renderer.FailuresMarkdown(report.Failures); doc != "" {
		printMarkdown(doc)
	}

	fmt.Printf("Successfully wrote %d entries to %s\n", len(report.Entries), *ledgerFile)
	return subcommands.ExitSuccess
}
