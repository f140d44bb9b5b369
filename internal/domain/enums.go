package domain

// BillType identifies the document type a bill belongs to.
type BillType string

const (
	BillTypeSalesInvoice  BillType = "sales_invoice"
	BillTypePurchaseBill  BillType = "purchase_bill"
	BillTypePurchaseOrder BillType = "purchase_order"
	BillTypeQuotation     BillType = "quotation"
	BillTypeChallan       BillType = "challan"
)

// BillTypePrefixes maps each bill type to its document number prefix.
// Numbers have the form PREFIX + FYshort + "/" + serial, e.g. "PRB25-26/7".
var BillTypePrefixes = map[BillType]string{
	BillTypeSalesInvoice:  "INV",
	BillTypePurchaseBill:  "PRB",
	BillTypePurchaseOrder: "PO",
	BillTypeQuotation:     "QT",
	BillTypeChallan:       "CH",
}

// AllBillTypes lists every bill type in a stable order.
var AllBillTypes = []BillType{
	BillTypeSalesInvoice,
	BillTypePurchaseBill,
	BillTypePurchaseOrder,
	BillTypeQuotation,
	BillTypeChallan,
}

// Valid reports whether the bill type is one of the known document types.
func (t BillType) Valid() bool {
	_, ok := BillTypePrefixes[t]
	return ok
}

// Prefix returns the document number prefix for the bill type.
func (t BillType) Prefix() string {
	return BillTypePrefixes[t]
}

// IsSales reports whether the bill type belongs to the outward (sales) side.
func (t BillType) IsSales() bool {
	return t == BillTypeSalesInvoice
}

// IsPurchase reports whether the bill type belongs to the inward (purchase) side.
func (t BillType) IsPurchase() bool {
	return t == BillTypePurchaseBill
}

// ItemType classifies an item for tax purposes.
type ItemType string

const (
	ItemTypeGoods   ItemType = "goods"
	ItemTypeService ItemType = "service"
	ItemTypeOther   ItemType = "other"
)

// Scheme is the GST scheme the company operates under.
type Scheme string

const (
	SchemeRegular     Scheme = "regular"
	SchemeComposition Scheme = "composition"
)

// PaymentKind distinguishes money received against sales from money paid
// against purchases. Each kind carries its own receipt number sequence.
type PaymentKind string

const (
	PaymentKindReceipt PaymentKind = "receipt" // against sales invoices
	PaymentKindPayment PaymentKind = "payment" // against purchase bills
)

// PaymentKindPrefixes maps each payment kind to its receipt number prefix.
var PaymentKindPrefixes = map[PaymentKind]string{
	PaymentKindReceipt: "RCP",
	PaymentKindPayment: "PMT",
}

// Valid reports whether the payment kind is known.
func (k PaymentKind) Valid() bool {
	_, ok := PaymentKindPrefixes[k]
	return ok
}

// Prefix returns the receipt number prefix for the payment kind.
func (k PaymentKind) Prefix() string {
	return PaymentKindPrefixes[k]
}

// BillTypeForPaymentKind returns the bill type a payment kind settles.
func BillTypeForPaymentKind(k PaymentKind) BillType {
	if k == PaymentKindPayment {
		return BillTypePurchaseBill
	}
	return BillTypeSalesInvoice
}

// PaymentStatus is derived from comparing a payment's applied sum to its
// total; it is never stored.
type PaymentStatus string

const (
	PaymentStatusFullyApplied     PaymentStatus = "Fully Applied"
	PaymentStatusPartiallyApplied PaymentStatus = "Partially Applied"
	PaymentStatusUnapplied        PaymentStatus = "Unapplied"
)

// ReportView filters register-style reports by document side.
type ReportView string

const (
	ReportViewSales    ReportView = "sales"
	ReportViewPurchase ReportView = "purchase"
	ReportViewBoth     ReportView = "both"
)

// Valid reports whether the view is known.
func (v ReportView) Valid() bool {
	switch v {
	case ReportViewSales, ReportViewPurchase, ReportViewBoth:
		return true
	}
	return false
}
