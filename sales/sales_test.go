package sales

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/equity"
)

func TestRead(t *testing.T) {
	input := `Record Type,Date & Time,Sale Quantity,Price,Net Amount
Sell,4/15/2024 09:31,5,60.00,299.85
Sell,6/03/2024 14:02,2.5,61.10,152.60
`
	records, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := []equity.Record{
		{Type: "Sale", Source: "sales line 2", Date: "4/15/2024", SharesSold: "5", SalePrice: "60.00"},
		{Type: "Sale", Source: "sales line 3", Date: "6/03/2024", SharesSold: "2.5", SalePrice: "61.10"},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, records[i], want[i])
		}
	}
}

func TestRead_MissingColumn(t *testing.T) {
	input := `Date & Time,Quantity,Price
4/15/2024 09:31,5,60.00
`
	_, err := Read(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "Sale Quantity") {
		t.Errorf("Read() error = %v, want a missing column error naming %q", err, "Sale Quantity")
	}
}

func TestRead_Empty(t *testing.T) {
	records, err := Read(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records from an empty export, want 0", len(records))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "sales.csv"))
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("Load() error = %v, want ErrSourceNotFound", err)
	}
}
