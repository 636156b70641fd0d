// Package sales reads open-market sale records from a brokerage CSV export
// and reshapes them into raw records for normalization.
package sales

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/equity"
)

// ErrSourceNotFound reports a missing sales export. A run without sales is
// valid, so the caller treats this as zero rows, not as a fatal error.
var ErrSourceNotFound = errors.New("sales source not found")

// Column headers expected in the export.
const (
	colDate     = "Date & Time"
	colQuantity = "Sale Quantity"
	colPrice    = "Price"
)

// Load reads all sale records from a CSV file. A missing file fails with
// ErrSourceNotFound.
func Load(path string) ([]equity.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("could not open sales export %q: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read reads sale records from CSV data. The first row is the header; the
// date, quantity and price columns are located by name, so extra columns and
// column order do not matter.
func Read(r io.Reader) ([]equity.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil // an empty export has no sales
		}
		return nil, fmt.Errorf("could not read sales header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{colDate, colQuantity, colPrice} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("sales export is missing column %q", name)
		}
	}

	var records []equity.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read sales line %d: %w", line, err)
		}
		records = append(records, equity.Record{
			Type:       "Sale",
			Source:     fmt.Sprintf("sales line %d", line),
			Date:       dateOnly(row[cols[colDate]]),
			SharesSold: strings.TrimSpace(row[cols[colQuantity]]),
			SalePrice:  strings.TrimSpace(row[cols[colPrice]]),
		})
	}
	return records, nil
}

// dateOnly strips the time part from a "MM/DD/YYYY HH:MM" cell.
func dateOnly(cell string) string {
	cell = strings.TrimSpace(cell)
	if i := strings.IndexByte(cell, ' '); i >= 0 {
		cell = cell[:i]
	}
	return cell
}
