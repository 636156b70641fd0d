// Package confirm extracts equity events from brokerage plan confirmation
// statements. It recognizes the text of release (RSU) and purchase (ESPP)
// confirmations and reshapes them into raw records for normalization.
//
// Extraction is lenient: a field missing from a recognized document is left
// empty and defaults to zero downstream, it is never silently dropped.
package confirm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/etnz/equity"
)

// ErrUnsupportedDocument reports a document whose declared type matches no
// known confirmation statement.
var ErrUnsupportedDocument = errors.New("unsupported document")

// Markers identifying the confirmation type in the statement header.
const (
	releaseMarker  = "EMPLOYEE STOCK PLAN RELEASE CONFIRMATION"
	purchaseMarker = "EMPLOYEE STOCK PLAN PURCHASE CONFIRMATION"
)

var (
	releaseDateRE    = regexp.MustCompile(`Release Date\s+(\d{2}-\d{2}-\d{4})`)
	sharesReleasedRE = regexp.MustCompile(`Shares Released\s+([\d.]+)`)
	marketValueRE    = regexp.MustCompile(`Market Value Per Share\s+\$([\d.]+)`)
	sharesSoldRE     = regexp.MustCompile(`Shares Sold\s+\(([\d.]+)\)`)
	salePriceRE      = regexp.MustCompile(`Sale Price Per Share\s+\$([\d.]+)`)

	purchaseDateRE    = regexp.MustCompile(`Purchase Date\s+(\d{2}-\d{2}-\d{4})`)
	sharesPurchasedRE = regexp.MustCompile(`Shares Purchased\s+([\d.]+)`)
	purchaseValueRE   = regexp.MustCompile(`Purchase Value per Share\s+\$([\d.]+)`)
	// The discounted price line reads like "(85.00% of $100.00) $85.00"; the
	// amount after the closing parenthesis is the price actually paid.
	purchasePriceRE = regexp.MustCompile(`\((\d+\.\d+)% of \$[\d.]+\)\s+\$([\d.]+)`)
)

// Parse extracts one raw record from the text of a confirmation statement.
// It fails with ErrUnsupportedDocument when the text carries neither a
// release nor a purchase marker.
func Parse(text, source string) (equity.Record, error) {
	switch {
	case strings.Contains(text, releaseMarker):
		return parseRelease(text, source), nil
	case strings.Contains(text, purchaseMarker):
		return parsePurchase(text, source), nil
	default:
		return equity.Record{}, fmt.Errorf("%w: %s has no known confirmation marker", ErrUnsupportedDocument, source)
	}
}

func parseRelease(text, source string) equity.Record {
	return equity.Record{
		Type:       "RSU",
		Source:     source,
		Date:       group(releaseDateRE, text),
		Shares:     group(sharesReleasedRE, text),
		FMV:        group(marketValueRE, text),
		SharesSold: group(sharesSoldRE, text),
		SalePrice:  group(salePriceRE, text),
	}
}

func parsePurchase(text, source string) equity.Record {
	price := ""
	if m := purchasePriceRE.FindStringSubmatch(text); m != nil {
		price = m[2]
	}
	return equity.Record{
		Type:          "ESPP",
		Source:        source,
		Date:          group(purchaseDateRE, text),
		Shares:        group(sharesPurchasedRE, text),
		FMV:           group(purchaseValueRE, text),
		PurchasePrice: price,
	}
}

// group returns the first capture of re in text, or "" when absent.
func group(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// LoadDir parses every confirmation statement in a directory. One unreadable
// or unrecognized document is recorded as a failure and never aborts the
// run; the remaining documents still produce records.
func LoadDir(dir string) (records []equity.Record, failures []equity.Failure) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		failures = append(failures, equity.Failure{Reason: err.Error()})
		return nil, failures
	}

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			failures = append(failures, equity.Failure{Reason: fmt.Sprintf("could not read %s: %v", path, err)})
			continue
		}
		record, err := Parse(string(content), filepath.Base(path))
		if err != nil {
			failures = append(failures, equity.Failure{Reason: err.Error()})
			continue
		}
		records = append(records, record)
	}
	return records, failures
}
