// Package gst resolves the applicable GST rate and its CGST/SGST/IGST split
// for a transaction. Resolution is a pure function of the item, the two
// parties' GSTINs, and the company scheme; rounding belongs to the bill
// calculator, never here.
package gst

import (
	"regexp"

	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
)

// GSTINPattern matches the 15-character GSTIN format. The first two digits
// encode the state code.
var GSTINPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// Composition-scheme fallback rates applied when an item has no
// compositionGstRate of its own.
var (
	compositionFallbackService = decimal.NewFromInt(6)
	compositionFallbackGoods   = decimal.NewFromInt(1)
)

var two = decimal.NewFromInt(2)

// StateCode extracts the state code from a GSTIN. ok is false when the GSTIN
// is too short to carry one.
func StateCode(gstin string) (string, bool) {
	if len(gstin) < 2 {
		return "", false
	}
	return gstin[:2], true
}

// ValidGSTIN reports whether a GSTIN matches the statutory 15-char format.
func ValidGSTIN(gstin string) bool {
	return GSTINPattern.MatchString(gstin)
}

// ResolveInput carries everything rate resolution depends on.
type ResolveInput struct {
	ItemGSTPercentage  decimal.Decimal
	CompositionGSTRate decimal.NullDecimal
	ItemType           domain.ItemType

	SellerGSTIN string
	BuyerGSTIN  string
	Scheme      domain.Scheme

	// RateOverride replaces the item's rate when set (regular scheme only).
	RateOverride *decimal.Decimal
}

// TaxSplit is the resolved rate and its component split. Exactly one of the
// SGST+CGST pair and IGST is non-zero under the regular scheme. Under
// composition the tax is a single amount shown as two equal halves and is
// never added to the invoice total.
type TaxSplit struct {
	Rate     decimal.Decimal
	CGSTRate decimal.Decimal
	SGSTRate decimal.Decimal
	IGSTRate decimal.Decimal

	// AddToTotal is false under composition: the tax is absorbed by the
	// seller rather than charged to the buyer.
	AddToTotal bool
}

// Resolve determines the effective rate and split. Idempotent, no I/O.
func Resolve(in ResolveInput) TaxSplit {
	if in.Scheme == domain.SchemeComposition {
		return resolveComposition(in)
	}
	return resolveRegular(in)
}

func resolveRegular(in ResolveInput) TaxSplit {
	rate := in.ItemGSTPercentage
	if in.RateOverride != nil {
		rate = *in.RateOverride
	}

	split := TaxSplit{Rate: rate, AddToTotal: true}
	if intrastate(in.SellerGSTIN, in.BuyerGSTIN) {
		half := rate.Div(two)
		split.CGSTRate = half
		split.SGSTRate = half
	} else {
		split.IGSTRate = rate
	}
	return split
}

func resolveComposition(in ResolveInput) TaxSplit {
	rate := in.CompositionGSTRate.Decimal
	if !in.CompositionGSTRate.Valid {
		if in.ItemType == domain.ItemTypeService {
			rate = compositionFallbackService
		} else {
			rate = compositionFallbackGoods
		}
	}

	// Composition tax is always intrastate-style: the halves exist for
	// display and reporting only, IGST never applies.
	half := rate.Div(two)
	return TaxSplit{
		Rate:     rate,
		CGSTRate: half,
		SGSTRate: half,
	}
}

// intrastate reports whether the sale is within one state. When either GSTIN
// is unavailable the sale falls back to intrastate treatment.
func intrastate(sellerGSTIN, buyerGSTIN string) bool {
	seller, ok := StateCode(sellerGSTIN)
	if !ok {
		return true
	}
	buyer, ok := StateCode(buyerGSTIN)
	if !ok {
		return true
	}
	return seller == buyer
}
