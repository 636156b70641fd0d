package equity

import "fmt"

// Kind is a typed string for identifying transaction kinds.
type Kind string

// Transaction kinds used for dispatch and persistence.
const (
	KindVest        Kind = "vest"
	KindPurchase    Kind = "purchase"
	KindSale        Kind = "sale"
	KindSaleToCover Kind = "sale-to-cover"
)

// Transaction defines the common interface for all canonical equity events
// processed against the ledger.
type Transaction interface {
	What() Kind // What returns the kind of the transaction (e.g., "vest", "sale").
	When() Date // When returns the date on which the transaction occurred.
	Equal(Transaction) bool
	Validate() error
}

type baseTx struct {
	Kind Kind `json:"kind"` // Kind specifies the type of transaction (e.g., "vest", "sale").
	Date Date `json:"date"` // Date is the date when the transaction took place.
}

// What returns the kind name for the transaction, which is used to identify the type of transaction.
func (t baseTx) What() Kind {
	return t.Kind
}

// When returns the date of the transaction.
func (t baseTx) When() Date {
	return t.Date
}

// MarshalJSON implements the json.Marshaler interface for baseTx.
func (t baseTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", t.Kind)
	w.Append("date", t.Date)
	return w.MarshalJSON()
}

// Validate checks the base transaction fields.
func (t baseTx) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("%w: transaction has no date", ErrInvalidInput)
	}
	return nil
}

// Vest represents an RSU vesting event: shares are acquired at fair market
// value, and the full value is taxable income.
type Vest struct {
	baseTx
	Shares Quantity // Shares is the number of shares released.
	FMV    Money    // FMV is the fair market value per share, in USD.
}

// NewVest creates a new Vest transaction.
func NewVest(day Date, shares Quantity, fmv Money) Vest {
	return Vest{baseTx: baseTx{Kind: KindVest, Date: day}, Shares: shares, FMV: fmv}
}

func (t Vest) Equal(other Transaction) bool {
	o, ok := other.(Vest)
	return ok && t.baseTx == o.baseTx && t.Shares.Equal(o.Shares) && t.FMV.Equal(o.FMV)
}

// Validate checks the Vest transaction's fields.
func (t Vest) Validate() error {
	if err := t.baseTx.Validate(); err != nil {
		return err
	}
	if !t.Shares.IsPositive() {
		return fmt.Errorf("%w: vest shares must be positive, got %s", ErrInvalidInput, t.Shares)
	}
	if t.FMV.IsNegative() {
		return fmt.Errorf("%w: vest market value must not be negative, got %s", ErrInvalidInput, t.FMV)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Vest.
func (t Vest) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("shares", t.Shares)
	w.Append("fmv_usd", t.FMV.exact())
	return w.MarshalJSON()
}

// Purchase represents an ESPP purchase: shares bought at a discounted price.
// The cost basis is the full fair market value; the discount is a taxable
// benefit reported separately.
type Purchase struct {
	baseTx
	Shares        Quantity // Shares is the number of shares purchased.
	FMV           Money    // FMV is the fair market value per share, in USD.
	PurchasePrice Money    // PurchasePrice is the discounted price paid per share, in USD.
}

// NewPurchase creates a new Purchase transaction.
func NewPurchase(day Date, shares Quantity, fmv, price Money) Purchase {
	return Purchase{baseTx: baseTx{Kind: KindPurchase, Date: day}, Shares: shares, FMV: fmv, PurchasePrice: price}
}

func (t Purchase) Equal(other Transaction) bool {
	o, ok := other.(Purchase)
	return ok && t.baseTx == o.baseTx && t.Shares.Equal(o.Shares) &&
		t.FMV.Equal(o.FMV) && t.PurchasePrice.Equal(o.PurchasePrice)
}

// Validate checks the Purchase transaction's fields. The purchase price may
// not exceed the market value, a negative discount is not an ESPP purchase.
func (t Purchase) Validate() error {
	if err := t.baseTx.Validate(); err != nil {
		return err
	}
	if !t.Shares.IsPositive() {
		return fmt.Errorf("%w: purchase shares must be positive, got %s", ErrInvalidInput, t.Shares)
	}
	if t.FMV.IsNegative() || t.PurchasePrice.IsNegative() {
		return fmt.Errorf("%w: purchase prices must not be negative", ErrInvalidInput)
	}
	if t.PurchasePrice.GreaterThan(t.FMV) {
		return fmt.Errorf("%w: purchase price %s exceeds market value %s", ErrInvalidInput, t.PurchasePrice, t.FMV)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Purchase.
func (t Purchase) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("shares", t.Shares)
	w.Append("fmv_usd", t.FMV.exact())
	w.Append("purchase_price_usd", t.PurchasePrice.exact())
	return w.MarshalJSON()
}

// Sale represents an open-market disposal of held shares.
type Sale struct {
	baseTx
	Shares Quantity // Shares is the number of shares sold.
	Price  Money    // Price is the sale price per share, in USD.
}

// NewSale creates a new Sale transaction.
func NewSale(day Date, shares Quantity, price Money) Sale {
	return Sale{baseTx: baseTx{Kind: KindSale, Date: day}, Shares: shares, Price: price}
}

func (t Sale) Equal(other Transaction) bool {
	o, ok := other.(Sale)
	return ok && t.baseTx == o.baseTx && t.Shares.Equal(o.Shares) && t.Price.Equal(o.Price)
}

// Validate checks the Sale transaction's fields.
func (t Sale) Validate() error {
	if err := t.baseTx.Validate(); err != nil {
		return err
	}
	if !t.Shares.IsPositive() {
		return fmt.Errorf("%w: sale shares must be positive, got %s", ErrInvalidInput, t.Shares)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("%w: sale price must not be negative, got %s", ErrInvalidInput, t.Price)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Sale.
func (t Sale) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("shares", t.Shares)
	w.Append("sale_price_usd", t.Price.exact())
	return w.MarshalJSON()
}

// SaleToCover represents a vest immediately followed by a partial disposal of
// the same lot to fund tax withholding. The acquisition is applied before the
// disposal, so the disposal's average cost reflects the just-vested shares.
type SaleToCover struct {
	baseTx
	Shares     Quantity // Shares is the number of shares released.
	FMV        Money    // FMV is the fair market value per share, in USD.
	SharesSold Quantity // SharesSold is the number of released shares sold for withholding.
	SalePrice  Money    // SalePrice is the sale price per share, in USD.
}

// NewSaleToCover creates a new SaleToCover transaction.
func NewSaleToCover(day Date, shares Quantity, fmv Money, sold Quantity, price Money) SaleToCover {
	return SaleToCover{
		baseTx:     baseTx{Kind: KindSaleToCover, Date: day},
		Shares:     shares,
		FMV:        fmv,
		SharesSold: sold,
		SalePrice:  price,
	}
}

func (t SaleToCover) Equal(other Transaction) bool {
	o, ok := other.(SaleToCover)
	return ok && t.baseTx == o.baseTx && t.Shares.Equal(o.Shares) && t.FMV.Equal(o.FMV) &&
		t.SharesSold.Equal(o.SharesSold) && t.SalePrice.Equal(o.SalePrice)
}

// Validate checks the SaleToCover transaction's fields. The withheld shares
// may not exceed the released lot.
func (t SaleToCover) Validate() error {
	if err := t.baseTx.Validate(); err != nil {
		return err
	}
	if !t.Shares.IsPositive() {
		return fmt.Errorf("%w: vest shares must be positive, got %s", ErrInvalidInput, t.Shares)
	}
	if !t.SharesSold.IsPositive() {
		return fmt.Errorf("%w: shares sold must be positive, got %s", ErrInvalidInput, t.SharesSold)
	}
	if t.SharesSold.GreaterThan(t.Shares) {
		return fmt.Errorf("%w: shares sold %s exceed shares released %s", ErrInvalidInput, t.SharesSold, t.Shares)
	}
	if t.FMV.IsNegative() || t.SalePrice.IsNegative() {
		return fmt.Errorf("%w: prices must not be negative", ErrInvalidInput)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for SaleToCover.
func (t SaleToCover) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("shares", t.Shares)
	w.Append("fmv_usd", t.FMV.exact())
	w.Append("shares_sold", t.SharesSold)
	w.Append("sale_price_usd", t.SalePrice.exact())
	return w.MarshalJSON()
}
