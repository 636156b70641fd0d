// Package cmd implements the CLI application to track the adjusted cost
// base of equity compensation.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/equity"
	"github.com/google/subcommands"
)

// Commands lists the subcommands a main package registers.
// A main package will call Register() on each, and Execute() on the user-selected one.
var Commands = []subcommands.Command{
	&processCmd{},
	&summaryCmd{},
	&logCmd{},
	&rateCmd{},
	&topicCmd{},
	&AssistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "acb-ledger.jsonl", "Path to the ledger file containing processed entries (JSONL format)")

// DecodeEntries decodes the ledger entries from the app default ledger file.
// A missing file is an empty ledger, not an error.
func DecodeEntries() ([]equity.LedgerEntry, error) {
	f, err := os.Open(*ledgerFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()

	entries, err := equity.DecodeEntries(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", *ledgerFile, err)
	}
	return entries, nil
}

// printMarkdown renders markdown for the terminal. On render errors the raw
// markdown is still printed, the content matters more than the styling.
func printMarkdown(doc string) {
	out, err := glamour.Render(doc, "auto")
	if err != nil {
		fmt.Println(doc)
		return
	}
	fmt.Print(out)
}
