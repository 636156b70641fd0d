package equity

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name    string
		record  Record
		want    Transaction
		wantErr error
	}{
		{
			name:   "RSU release without withholding is a vest",
			record: Record{Type: "RSU", Date: "01-02-2024", Shares: "10", FMV: "50.00"},
			want:   NewVest(MustParse("2024-01-02"), Q(10), USD(50)),
		},
		{
			name:   "RSU release with shares sold is a sale-to-cover",
			record: Record{Type: "RSU", Date: "01-02-2024", Shares: "10", FMV: "50.00", SharesSold: "3", SalePrice: "49.80"},
			want:   NewSaleToCover(MustParse("2024-01-02"), Q(10), USD(50), Q(3), USD(49.80)),
		},
		{
			name:   "ESPP purchase",
			record: Record{Type: "ESPP", Date: "06-28-2024", Shares: "12.345", FMV: "100.00", PurchasePrice: "85.00"},
			want:   NewPurchase(MustParse("2024-06-28"), Q(12.345), USD(100), USD(85)),
		},
		{
			name:   "Open-market sale",
			record: Record{Type: "Sale", Date: "4/15/2024", SharesSold: "5", SalePrice: "60.00"},
			want:   NewSale(MustParse("2024-04-15"), Q(5), USD(60)),
		},
		{
			name:   "Missing fields default to zero, not an error",
			record: Record{Type: "RSU", Date: "2024-01-02"},
			want:   NewVest(MustParse("2024-01-02"), Q(0), USD(0)),
		},
		{
			name:    "Unknown type",
			record:  Record{Type: "Dividend", Date: "2024-01-02", Source: "doc-3"},
			wantErr: ErrUnrecognizedFormat,
		},
		{
			name:    "Unparseable date",
			record:  Record{Type: "RSU", Date: "not-a-date"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "Unparseable share count",
			record:  Record{Type: "RSU", Date: "2024-01-02", Shares: "ten"},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.record)

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Normalize() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("Normalize() = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestNormalizeAll_CollectsFailures(t *testing.T) {
	records := []Record{
		{Type: "RSU", Date: "2024-01-02", Shares: "10", FMV: "50"},
		{Type: "Nope", Date: "2024-01-03"},
		{Type: "Sale", Date: "2024-02-01", SharesSold: "5", SalePrice: "60"},
	}

	txs, failures := NormalizeAll(records)
	if len(txs) != 2 {
		t.Errorf("got %d transactions, want 2", len(txs))
	}
	if len(failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(failures))
	}
	if failures[0].Kind != "Nope" {
		t.Errorf("failure kind = %q, want %q", failures[0].Kind, "Nope")
	}
}
