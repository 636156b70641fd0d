package equity

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
)

func TestProcessor_VestThenSale(t *testing.T) {
	rates := stubRates{
		MustParse("2024-01-02"): decimal.RequireFromString("1.35"),
		MustParse("2024-06-01"): decimal.RequireFromString("1.37"),
	}
	txs := []Transaction{
		NewVest(MustParse("2024-01-02"), Q(10), USD(50)),
		NewSale(MustParse("2024-06-01"), Q(5), USD(60)),
	}

	report, err := NewProcessor(rates, nil).Run(txs)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", report.Failures)
	}
	if len(report.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(report.Entries))
	}

	vest := report.Entries[0]
	if !vest.SharesHeld.Equal(Q(10)) || !vest.CostBasis.Equal(USD(500)) {
		t.Errorf("after vest: %s shares, %s basis, want 10 shares, 500 USD", vest.SharesHeld, vest.CostBasis)
	}
	// 10 * 50 * 1.35 = 675 CAD of income
	if want := CAD(675); !vest.TaxableIncome.Equal(want) {
		t.Errorf("vest TaxableIncome = %s, want %s", vest.TaxableIncome, want)
	}

	sale := report.Entries[1]
	if want := USD(250); !sale.CostRemoved.Equal(want) {
		t.Errorf("sale CostRemoved = %s, want %s", sale.CostRemoved, want)
	}
	if want := USD(300); !sale.Proceeds.Equal(want) {
		t.Errorf("sale Proceeds = %s, want %s", sale.Proceeds, want)
	}
	if want := USD(50); !sale.Gain.Equal(want) {
		t.Errorf("sale Gain = %s, want %s", sale.Gain, want)
	}
	// 50 * 1.37 = 68.5 CAD
	if want := CAD(68.5); !sale.GainCAD.Equal(want) {
		t.Errorf("sale GainCAD = %s, want %s", sale.GainCAD, want)
	}
	if !sale.SharesHeld.Equal(Q(5)) || !sale.CostBasis.Equal(USD(250)) {
		t.Errorf("after sale: %s shares, %s basis, want 5 shares, 250 USD", sale.SharesHeld, sale.CostBasis)
	}
}

func TestProcessor_SaleToCoverUsesPostVestAverage(t *testing.T) {
	rates := stubRates{
		MustParse("2024-01-10"): decimal.RequireFromString("1.30"),
		MustParse("2024-03-15"): decimal.RequireFromString("1.30"),
	}
	txs := []Transaction{
		// Old lot at a low price drags the average down.
		NewVest(MustParse("2024-01-10"), Q(10), USD(20)),
		// Vest of 10 at 50, 3 sold the same day to cover withholding.
		NewSaleToCover(MustParse("2024-03-15"), Q(10), USD(50), Q(3), USD(50)),
	}

	report, err := NewProcessor(rates, nil).Run(txs)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(report.Entries), report.Failures)
	}

	stc := report.Entries[1]
	// Average over the post-vest position: (10*20 + 10*50) / 20 = 35.
	// Disposing at the average leaves the average unchanged.
	if want := USD(35); !stc.AverageCost.Equal(want) {
		t.Errorf("AverageCost = %s, want %s", stc.AverageCost, want)
	}
	if want := USD(105); !stc.CostRemoved.Equal(want) {
		t.Errorf("CostRemoved = %s, want %s (3 shares at the post-vest 35 average)", stc.CostRemoved, want)
	}
	// 17 shares remain with basis 700 - 105 = 595.
	if !stc.SharesHeld.Equal(Q(17)) || !stc.CostBasis.Equal(USD(595)) {
		t.Errorf("after sale-to-cover: %s shares, %s basis, want 17 shares, 595 USD", stc.SharesHeld, stc.CostBasis)
	}
	// The whole released lot is income: 10 * 50 * 1.30 = 650 CAD.
	if want := CAD(650); !stc.TaxableIncome.Equal(want) {
		t.Errorf("TaxableIncome = %s, want %s", stc.TaxableIncome, want)
	}
}

func TestProcessor_SkipsFailedEventAndContinues(t *testing.T) {
	flat := decimal.RequireFromString("1.30")
	rates := stubRates{
		MustParse("2024-01-02"): flat,
		MustParse("2024-02-01"): flat,
		MustParse("2024-03-01"): flat,
	}
	txs := []Transaction{
		NewVest(MustParse("2024-01-02"), Q(10), USD(50)),
		NewSale(MustParse("2024-02-01"), Q(11), USD(60)), // more than held
		NewSale(MustParse("2024-03-01"), Q(5), USD(60)),
	}

	report, err := NewProcessor(rates, nil).Run(txs)
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Failures) != 1 {
		t.Fatalf("got %d failures, want 1: %+v", len(report.Failures), report.Failures)
	}
	if report.Failures[0].Date != "2024-02-01" {
		t.Errorf("failure date = %s, want 2024-02-01", report.Failures[0].Date)
	}

	// The failed sale left the position intact, so the next one succeeds.
	if len(report.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(report.Entries))
	}
	last := report.Entries[1]
	if !last.SharesHeld.Equal(Q(5)) || !last.CostBasis.Equal(USD(250)) {
		t.Errorf("final position: %s shares, %s basis, want 5 shares, 250 USD", last.SharesHeld, last.CostBasis)
	}
}

func TestProcessor_FailedCompoundEventRestoresPosition(t *testing.T) {
	rates := stubRates{
		MustParse("2024-03-15"): decimal.RequireFromString("1.30"),
	}
	// The disposal leg is invalid (sold > released); the acquisition leg
	// must be rolled back with it.
	txs := []Transaction{
		NewSaleToCover(MustParse("2024-03-15"), Q(10), USD(50), Q(11), USD(50)),
	}

	proc := NewProcessor(rates, nil)
	report, err := proc.Run(txs)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Failures) != 1 || len(report.Entries) != 0 {
		t.Fatalf("got %d failures and %d entries, want 1 and 0", len(report.Failures), len(report.Entries))
	}
	if !proc.Position().Shares().IsZero() {
		t.Errorf("failed compound event left %s shares behind", proc.Position().Shares())
	}
}

func TestProcessor_OrdersByDateKeepingInputOrderOnTies(t *testing.T) {
	flat := decimal.RequireFromString("1.30")
	rates := stubRates{
		MustParse("2024-01-02"): flat,
		MustParse("2024-06-01"): flat,
	}
	// The sale comes first in input order but later in time.
	txs := []Transaction{
		NewSale(MustParse("2024-06-01"), Q(5), USD(60)),
		NewVest(MustParse("2024-01-02"), Q(10), USD(50)),
		NewVest(MustParse("2024-06-01"), Q(1), USD(55)), // same day as the sale, after it in input
	}

	report, err := NewProcessor(rates, nil).Run(txs)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", report.Failures)
	}

	var kinds []Kind
	for _, e := range report.Entries {
		kinds = append(kinds, e.Kind)
	}
	want := []Kind{KindVest, KindSale, KindVest}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("entry order = %v, want %v", kinds, want)
		}
	}
}

func TestProcessor_Idempotence(t *testing.T) {
	rates := stubRates{
		MustParse("2024-01-02"): decimal.RequireFromString("1.35"),
		MustParse("2024-06-01"): decimal.RequireFromString("1.37"),
	}
	txs := []Transaction{
		NewVest(MustParse("2024-01-02"), Q(10), USD(50)),
		NewSale(MustParse("2024-06-01"), Q(5), USD(60)),
	}

	run := func() []byte {
		var buf bytes.Buffer
		report, err := NewProcessor(rates, NewWriterSink(&buf)).Run(txs)
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Failures) != 0 {
			t.Fatalf("unexpected failures: %+v", report.Failures)
		}
		return buf.Bytes()
	}

	first, second := run(), run()
	if !bytes.Equal(first, second) {
		t.Errorf("two identical runs produced different output:\n%s\n%s", first, second)
	}
}

func TestRun_NormalizationFailuresAreReported(t *testing.T) {
	rates := stubRates{
		MustParse("2024-01-02"): decimal.RequireFromString("1.35"),
	}
	records := []Record{
		{Type: "RSU", Date: "2024-01-02", Shares: "10", FMV: "50"},
		{Type: "Mystery", Date: "2024-01-03", Source: "doc-7"},
	}

	report, err := Run(rates, nil, records)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(report.Entries))
	}
	if len(report.Failures) != 1 {
		t.Fatalf("got %d failures, want 1: %+v", len(report.Failures), report.Failures)
	}
}
