package billing

import (
	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
	"gstledger/internal/gst"
)

var hundred = decimal.NewFromInt(100)

// LineInput is one editable row of a bill before computation.
type LineInput struct {
	ItemID   string
	ItemName string
	HSNCode  string
	Unit     string
	ItemType domain.ItemType

	QtyExpression string
	Nos           decimal.Decimal
	Length        decimal.Decimal
	Height        decimal.Decimal

	Rate            decimal.Decimal
	DiscountAmount  decimal.Decimal
	DiscountPercent decimal.Decimal

	Tax gst.TaxSplit
}

// ComputedLine is the fully derived form of a line.
type ComputedLine struct {
	Quantity   decimal.Decimal
	QtyDisplay string

	Amount     decimal.Decimal
	CGSTAmount decimal.Decimal
	SGSTAmount decimal.Decimal
	IGSTAmount decimal.Decimal
	Total      decimal.Decimal
}

// BillTotals are the plain sums of the corresponding line values. No
// re-rounding happens at the bill level; each line is already at 2 decimals.
type BillTotals struct {
	SubTotal   decimal.Decimal
	CGST       decimal.Decimal
	SGST       decimal.Decimal
	IGST       decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeLine derives the quantity, discounted amount, per-component tax
// amounts, and line total. Each tax amount is rounded independently rather
// than derived by subtracting a rounded total, so cross-line rounding drift
// cannot accumulate.
func ComputeLine(in LineInput) ComputedLine {
	qty, display := ResolveQuantity(in.QtyExpression, in.Nos, in.Length, in.Height)

	raw := qty.Mul(in.Rate)
	amount := domain.Round2(raw.Sub(clampDiscount(raw, in.DiscountAmount, in.DiscountPercent)))

	out := ComputedLine{
		Quantity:   qty,
		QtyDisplay: display,
		Amount:     amount,
	}

	out.CGSTAmount = domain.Round2(amount.Mul(in.Tax.CGSTRate).Div(hundred))
	out.SGSTAmount = domain.Round2(amount.Mul(in.Tax.SGSTRate).Div(hundred))
	out.IGSTAmount = domain.Round2(amount.Mul(in.Tax.IGSTRate).Div(hundred))

	// Composition tax is absorbed by the seller: the line total stays at the
	// taxable amount and the halves exist for reporting only.
	out.Total = amount
	if in.Tax.AddToTotal {
		out.Total = amount.Add(out.CGSTAmount).Add(out.SGSTAmount).Add(out.IGSTAmount)
	}
	return out
}

// clampDiscount resolves the line discount to a flat amount in [0, raw].
// A flat amount wins over a percentage when both are present.
func clampDiscount(raw, flat, percent decimal.Decimal) decimal.Decimal {
	disc := flat
	if disc.IsZero() && !percent.IsZero() {
		disc = raw.Mul(percent).Div(hundred)
	}
	if disc.IsNegative() {
		return decimal.Zero
	}
	if disc.GreaterThan(raw) {
		return raw
	}
	return disc
}

// ComputeBill sums already-computed lines into bill totals.
func ComputeBill(lines []domain.BillLine) BillTotals {
	t := BillTotals{
		SubTotal:   decimal.Zero,
		CGST:       decimal.Zero,
		SGST:       decimal.Zero,
		IGST:       decimal.Zero,
		GrandTotal: decimal.Zero,
	}
	for _, l := range lines {
		t.SubTotal = t.SubTotal.Add(l.Amount)
		t.CGST = t.CGST.Add(l.CGSTAmount)
		t.SGST = t.SGST.Add(l.SGSTAmount)
		t.IGST = t.IGST.Add(l.IGSTAmount)
		t.GrandTotal = t.GrandTotal.Add(l.Total)
	}
	return t
}
