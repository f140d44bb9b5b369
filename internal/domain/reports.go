package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportFilters narrows report rows by period, document side, type, and party.
type ReportFilters struct {
	From     *time.Time
	To       *time.Time
	View     ReportView
	BillType *BillType
	PartyID  *uuid.UUID
	Scheme   Scheme
}

// InPeriod reports whether a date falls inside the filter period (inclusive).
func (f *ReportFilters) InPeriod(date time.Time) bool {
	if f.From != nil && date.Before(*f.From) {
		return false
	}
	if f.To != nil && date.After(*f.To) {
		return false
	}
	return true
}

// MatchesType reports whether a bill type passes the view and type filters.
func (f *ReportFilters) MatchesType(t BillType) bool {
	if f.BillType != nil && *f.BillType != t {
		return false
	}
	switch f.View {
	case ReportViewSales:
		return t.IsSales()
	case ReportViewPurchase:
		return t.IsPurchase()
	default:
		return t.IsSales() || t.IsPurchase()
	}
}

// RateBucket is one rate slice of a bill or summary: statutory reports
// require rate segregation, never a blended figure.
type RateBucket struct {
	Rate    decimal.Decimal `json:"rate"`
	Taxable decimal.Decimal `json:"taxable"`
	CGST    decimal.Decimal `json:"cgst"`
	SGST    decimal.Decimal `json:"sgst"`
	IGST    decimal.Decimal `json:"igst"`
}

// RegisterRow is one GSTR-1-style register row: one bill with its primary
// rate and a child breakdown when the bill mixes rates.
type RegisterRow struct {
	BillID      uuid.UUID       `json:"bill_id"`
	BillType    BillType        `json:"bill_type"`
	Number      string          `json:"number"`
	Date        time.Time       `json:"date"`
	PartyName   string          `json:"party_name"`
	PartyGSTIN  string          `json:"party_gstin"`
	B2B         bool            `json:"b2b"`
	PrimaryRate decimal.Decimal `json:"primary_rate"`
	Taxable     decimal.Decimal `json:"taxable"`
	CGST        decimal.Decimal `json:"cgst"`
	SGST        decimal.Decimal `json:"sgst"`
	IGST        decimal.Decimal `json:"igst"`
	Total       decimal.Decimal `json:"total"`
	// Breakdown is present only when the bill mixes tax rates.
	Breakdown []RateBucket `json:"breakdown,omitempty"`
}

// NetTaxSummary is the GSTR-3B-style net-tax position. Under the regular
// scheme outward tax is netted against inward input-tax credit per component.
// Under composition only CompositionTax is populated and it must equal the
// sum of Breakdown rows.
type NetTaxSummary struct {
	Scheme Scheme `json:"scheme"`

	OutwardTaxable decimal.Decimal `json:"outward_taxable"`
	OutwardCGST    decimal.Decimal `json:"outward_cgst"`
	OutwardSGST    decimal.Decimal `json:"outward_sgst"`
	OutwardIGST    decimal.Decimal `json:"outward_igst"`

	InwardTaxable decimal.Decimal `json:"inward_taxable"`
	ITCCGST       decimal.Decimal `json:"itc_cgst"`
	ITCSGST       decimal.Decimal `json:"itc_sgst"`
	ITCIGST       decimal.Decimal `json:"itc_igst"`

	NetCGST decimal.Decimal `json:"net_cgst"`
	NetSGST decimal.Decimal `json:"net_sgst"`
	NetIGST decimal.Decimal `json:"net_igst"`

	CompositionTax decimal.Decimal `json:"composition_tax"`
	Breakdown      []RateBucket    `json:"breakdown"`

	Warnings []ConsistencyWarning `json:"warnings,omitempty"`
}

// HSNItemRow is the item-level breakdown beneath an HSN summary group.
type HSNItemRow struct {
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Taxable  decimal.Decimal `json:"taxable"`
}

// HSNRow aggregates line items across sales and purchases by (HSN code, rate).
type HSNRow struct {
	HSNCode  string          `json:"hsn_code"`
	Rate     decimal.Decimal `json:"rate"`
	Quantity decimal.Decimal `json:"quantity"`
	Taxable  decimal.Decimal `json:"taxable"`
	CGST     decimal.Decimal `json:"cgst"`
	SGST     decimal.Decimal `json:"sgst"`
	IGST     decimal.Decimal `json:"igst"`
	// Items is populated when more than one item shares the HSN+rate key.
	Items []HSNItemRow `json:"items,omitempty"`
}

// PaymentRegisterRow is one payment with its applied-to text and derived
// status.
type PaymentRegisterRow struct {
	PaymentID uuid.UUID       `json:"payment_id"`
	Kind      PaymentKind     `json:"kind"`
	Number    string          `json:"number"`
	Date      time.Time       `json:"date"`
	PartyName string          `json:"party_name"`
	Amount    decimal.Decimal `json:"amount"`
	AppliedTo string          `json:"applied_to"`
	Applied   decimal.Decimal `json:"applied"`
	Unapplied decimal.Decimal `json:"unapplied"`
	Status    PaymentStatus   `json:"status"`
}

// AgingRow is one outstanding bill in the accounts-receivable aging view.
type AgingRow struct {
	PartyID          uuid.UUID            `json:"party_id"`
	PartyName        string               `json:"party_name"`
	BillID           uuid.UUID            `json:"bill_id"`
	BillType         BillType             `json:"bill_type"`
	Number           string               `json:"number"`
	Date             time.Time            `json:"date"`
	TotalAmount      decimal.Decimal      `json:"total_amount"`
	Outstanding      decimal.Decimal      `json:"outstanding"`
	DaysSinceLastPay int                  `json:"days_since_last_payment"`
	DaysSinceOldest  int                  `json:"days_since_oldest_pending"`
	LastPaymentDate  *time.Time           `json:"last_payment_date,omitempty"`
	Warnings         []ConsistencyWarning `json:"warnings,omitempty"`
}
