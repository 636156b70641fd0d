package equity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Record is the raw shape produced by the document extractor and the sales
// feed before normalization. All fields are strings as found in the source;
// absent fields are empty.
type Record struct {
	Type          string `json:"type"`                      // "RSU", "ESPP" or "Sale"
	Date          string `json:"date"`                      // event date in a supported layout
	Shares        string `json:"shares,omitempty"`          // shares released or purchased
	FMV           string `json:"fmv,omitempty"`             // fair market value per share, USD
	PurchasePrice string `json:"purchase_price,omitempty"`  // ESPP discounted price per share, USD
	SharesSold    string `json:"shares_sold,omitempty"`     // shares sold to cover withholding
	SalePrice     string `json:"sale_price,omitempty"`      // sale price per share, USD
	Source        string `json:"source,omitempty"`          // originating document or feed, for failure reports
}

// Normalize coerces a raw Record into a canonical Transaction. It performs no
// monetary computation, only reshaping and type conversion. A record whose
// type matches none of the known shapes fails with ErrUnrecognizedFormat.
func Normalize(r Record) (Transaction, error) {
	day, err := ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("record from %q: %w", r.Source, err)
	}

	switch r.Type {
	case "RSU":
		shares, err := quantityField("shares", r.Shares)
		if err != nil {
			return nil, err
		}
		fmv, err := moneyField("fmv", r.FMV)
		if err != nil {
			return nil, err
		}
		sold, err := quantityField("shares_sold", r.SharesSold)
		if err != nil {
			return nil, err
		}
		// A release with a same-day withholding sale is one compound event.
		if sold.IsPositive() {
			price, err := moneyField("sale_price", r.SalePrice)
			if err != nil {
				return nil, err
			}
			return NewSaleToCover(day, shares, fmv, sold, price), nil
		}
		return NewVest(day, shares, fmv), nil

	case "ESPP":
		shares, err := quantityField("shares", r.Shares)
		if err != nil {
			return nil, err
		}
		fmv, err := moneyField("fmv", r.FMV)
		if err != nil {
			return nil, err
		}
		price, err := moneyField("purchase_price", r.PurchasePrice)
		if err != nil {
			return nil, err
		}
		return NewPurchase(day, shares, fmv, price), nil

	case "Sale":
		shares, err := quantityField("shares_sold", r.SharesSold)
		if err != nil {
			return nil, err
		}
		price, err := moneyField("sale_price", r.SalePrice)
		if err != nil {
			return nil, err
		}
		return NewSale(day, shares, price), nil

	default:
		return nil, fmt.Errorf("%w: unknown record type %q from %q", ErrUnrecognizedFormat, r.Type, r.Source)
	}
}

// NormalizeAll normalizes a batch of records, collecting one Failure per
// record that cannot be coerced. A bad record never aborts the batch.
func NormalizeAll(records []Record) (txs []Transaction, failures []Failure) {
	for _, r := range records {
		tx, err := Normalize(r)
		if err != nil {
			failures = append(failures, Failure{Date: r.Date, Kind: Kind(r.Type), Reason: err.Error()})
			continue
		}
		txs = append(txs, tx)
	}
	return txs, failures
}

// quantityField parses a share count, treating the empty string as zero.
func quantityField(name, str string) (Quantity, error) {
	if str == "" {
		return Quantity{}, nil
	}
	q, err := ParseQuantity(str)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: invalid %s %q", ErrInvalidInput, name, str)
	}
	return q, nil
}

// moneyField parses a USD amount, treating the empty string as zero.
func moneyField(name, str string) (Money, error) {
	if str == "" {
		return USD(decimal.Zero), nil
	}
	m, err := ParseMoney(str, "USD")
	if err != nil {
		return Money{}, fmt.Errorf("%w: invalid %s %q", ErrInvalidInput, name, str)
	}
	return m, nil
}
