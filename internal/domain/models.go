package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyProfile holds the seller's own identity and scheme. A deployment
// serves exactly one company.
type CompanyProfile struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FirmName     string    `db:"firm_name" json:"firm_name"`
	GSTIN        string    `db:"gstin" json:"gstin"`
	State        string    `db:"state" json:"state"`
	Address      string    `db:"address" json:"address"`
	Scheme       Scheme    `db:"scheme" json:"scheme"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Party is a customer or supplier. An empty GSTIN means the party is
// unregistered and every sale to it is B2C.
type Party struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	FirmName  string    `db:"firm_name" json:"firm_name"`
	GSTIN     string    `db:"gstin" json:"gstin"`
	State     string    `db:"state" json:"state"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Registered reports whether the party carries a GSTIN (B2B treatment).
func (p *Party) Registered() bool { return p.GSTIN != "" }

// Item is a good or service sold or purchased. Read-only to the ledger.
type Item struct {
	ID                 uuid.UUID           `db:"id" json:"id"`
	Name               string              `db:"name" json:"name"`
	Unit               string              `db:"unit" json:"unit"`
	DefaultRate        decimal.Decimal     `db:"default_rate" json:"default_rate"`
	PurchaseRate       decimal.Decimal     `db:"purchase_rate" json:"purchase_rate"`
	SaleRate           decimal.Decimal     `db:"sale_rate" json:"sale_rate"`
	GSTPercentage      decimal.Decimal     `db:"gst_percentage" json:"gst_percentage"`
	CompositionGSTRate decimal.NullDecimal `db:"composition_gst_rate" json:"composition_gst_rate"`
	ItemType           ItemType            `db:"item_type" json:"item_type"`
	HSNCode            string              `db:"hsn_code" json:"hsn_code"`
	CreatedAt          time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time           `db:"updated_at" json:"updated_at"`
}

// BillLine is one line of a bill. Derived fields (Quantity, Amount, tax
// amounts, Total) are recomputed on every edit and never patched in place.
type BillLine struct {
	ID     uuid.UUID `db:"id" json:"id"`
	BillID uuid.UUID `db:"bill_id" json:"bill_id"`
	ItemID uuid.UUID `db:"item_id" json:"item_id"`

	// Snapshots taken from the item at computation time so reports survive
	// later item edits.
	ItemName string   `db:"item_name" json:"item_name"`
	HSNCode  string   `db:"hsn_code" json:"hsn_code"`
	Unit     string   `db:"unit" json:"unit"`
	ItemType ItemType `db:"item_type" json:"item_type"`

	// QtyExpression is the normalized display form, e.g. "5×3×2". Empty when
	// the quantity came from Nos×Length×Height.
	QtyExpression string          `db:"qty_expression" json:"qty_expression"`
	Nos           decimal.Decimal `db:"nos" json:"nos"`
	Length        decimal.Decimal `db:"length" json:"length"`
	Height        decimal.Decimal `db:"height" json:"height"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`

	Rate            decimal.Decimal `db:"rate" json:"rate"`
	DiscountAmount  decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	DiscountPercent decimal.Decimal `db:"discount_percent" json:"discount_percent"`

	TaxRate  decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	CGSTRate decimal.Decimal `db:"cgst_rate" json:"cgst_rate"`
	SGSTRate decimal.Decimal `db:"sgst_rate" json:"sgst_rate"`
	IGSTRate decimal.Decimal `db:"igst_rate" json:"igst_rate"`

	Amount     decimal.Decimal `db:"amount" json:"amount"`
	CGSTAmount decimal.Decimal `db:"cgst_amount" json:"cgst_amount"`
	SGSTAmount decimal.Decimal `db:"sgst_amount" json:"sgst_amount"`
	IGSTAmount decimal.Decimal `db:"igst_amount" json:"igst_amount"`
	Total      decimal.Decimal `db:"total" json:"total"`

	Position int `db:"position" json:"position"`
}

// Bill is any of the five document types. TotalAmount always equals the sum
// of line totals within rounding tolerance.
type Bill struct {
	ID       uuid.UUID `db:"id" json:"id"`
	BillType BillType  `db:"bill_type" json:"bill_type"`
	Number   string    `db:"number" json:"number"`
	Date     time.Time `db:"bill_date" json:"date"`
	PartyID  uuid.UUID `db:"party_id" json:"party_id"`
	Scheme   Scheme    `db:"scheme" json:"scheme"`

	Lines []BillLine `json:"lines"`

	SubTotal    decimal.Decimal `db:"sub_total" json:"sub_total"`
	CGST        decimal.Decimal `db:"cgst" json:"cgst"`
	SGST        decimal.Decimal `db:"sgst" json:"sgst"`
	IGST        decimal.Decimal `db:"igst" json:"igst"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`

	// CustomFields carries document extras such as e-way bill data.
	CustomFields json.RawMessage `db:"custom_fields" json:"custom_fields,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Serial returns the numeric serial parsed from Number, or 0 when the number
// does not follow the PREFIX+FYshort+"/"+serial convention.
func (b *Bill) Serial() int {
	return SerialFromNumber(b.Number)
}

// Payment is money received (sales side) or paid (purchase side), together
// with how it was applied.
type Payment struct {
	ID      uuid.UUID   `db:"id" json:"id"`
	Kind    PaymentKind `db:"kind" json:"kind"`
	Number  string      `db:"number" json:"number"`
	Date    time.Time   `db:"payment_date" json:"date"`
	PartyID uuid.UUID   `db:"party_id" json:"party_id"`

	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Mode      string          `db:"mode" json:"mode"`
	Reference string          `db:"reference" json:"reference"`
	Notes     string          `db:"notes" json:"notes"`

	Allocations        []Allocation        `json:"allocations"`
	AdvanceAllocations []AdvanceAllocation `json:"advance_allocations"`

	// AdvanceConsumed is how much of this payment's unapplied remainder has
	// been consumed as advance credit by later payments. Guarded against
	// double-spending at the store.
	AdvanceConsumed decimal.Decimal `db:"advance_consumed" json:"advance_consumed"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AppliedAmount is the sum of direct allocations on the payment.
func (p *Payment) AppliedAmount() decimal.Decimal {
	sum := decimal.Zero
	for _, a := range p.Allocations {
		sum = sum.Add(a.Amount)
	}
	return sum
}

// UnappliedAmount is the part of the payment not matched to any bill.
func (p *Payment) UnappliedAmount() decimal.Decimal {
	return p.Amount.Sub(p.AppliedAmount())
}

// AdvanceAvailable is the unapplied remainder not yet consumed by later
// payments; this is the payment's contribution to the party's advance pool.
func (p *Payment) AdvanceAvailable() decimal.Decimal {
	avail := p.UnappliedAmount().Sub(p.AdvanceConsumed)
	if avail.IsNegative() {
		return decimal.Zero
	}
	return avail
}

// Status derives the applied state; it is never stored.
func (p *Payment) Status() PaymentStatus {
	applied := p.AppliedAmount()
	switch {
	case applied.IsZero():
		return PaymentStatusUnapplied
	case applied.GreaterThanOrEqual(p.Amount):
		return PaymentStatusFullyApplied
	default:
		return PaymentStatusPartiallyApplied
	}
}

// Allocation records part of a payment discharging a specific bill. It exists
// only nested inside a Payment.
type Allocation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PaymentID uuid.UUID `db:"payment_id" json:"payment_id"`
	BillID    uuid.UUID `db:"bill_id" json:"bill_id"`
	BillType  BillType  `db:"bill_type" json:"bill_type"`

	// Amount must not exceed BillOutstanding, the bill's balance at
	// allocation time.
	Amount          decimal.Decimal `db:"allocated_amount" json:"allocated_amount"`
	BillOutstanding decimal.Decimal `db:"bill_outstanding" json:"bill_outstanding"`
	IsFullPayment   bool            `db:"is_full_payment" json:"is_full_payment"`
	Position        int             `db:"position" json:"position"`
}

// AdvanceAllocation records a prior overpayment (party credit) being consumed
// against a bill by a later payment. SourcePaymentID is the advance's
// originating payment; the source's AdvanceConsumed is bumped in the same
// commit so the credit cannot be spent twice.
type AdvanceAllocation struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	PaymentID       uuid.UUID       `db:"payment_id" json:"payment_id"`
	SourcePaymentID uuid.UUID       `db:"source_payment_id" json:"source_payment_id"`
	SourceNumber    string          `db:"source_number" json:"source_number"`
	BillID          uuid.UUID       `db:"bill_id" json:"bill_id"`
	BillType        BillType        `db:"bill_type" json:"bill_type"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	Position        int             `db:"position" json:"position"`
}
