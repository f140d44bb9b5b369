package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
	"gstledger/internal/outstanding"
)

var hundred = decimal.NewFromInt(100)

// BuildNetTax produces the GSTR-3B-style summary for the period. Under the
// regular scheme outward (sales) tax is netted against inward (purchase)
// input-tax credit per component. Under composition the result is a single
// composition-tax figure over sales turnover, which must equal the sum of
// its own rate-wise breakdown rows; any divergence is reported as a
// warning, never hidden.
func BuildNetTax(bills []domain.Bill, f *domain.ReportFilters) domain.NetTaxSummary {
	if f.Scheme == domain.SchemeComposition {
		return buildCompositionSummary(bills, f)
	}
	return buildRegularSummary(bills, f)
}

func buildRegularSummary(bills []domain.Bill, f *domain.ReportFilters) domain.NetTaxSummary {
	s := zeroSummary(domain.SchemeRegular)
	for i := range bills {
		bill := &bills[i]
		if !f.InPeriod(bill.Date) {
			continue
		}
		switch {
		case bill.BillType.IsSales():
			s.OutwardTaxable = s.OutwardTaxable.Add(bill.SubTotal)
			s.OutwardCGST = s.OutwardCGST.Add(bill.CGST)
			s.OutwardSGST = s.OutwardSGST.Add(bill.SGST)
			s.OutwardIGST = s.OutwardIGST.Add(bill.IGST)
		case bill.BillType.IsPurchase():
			s.InwardTaxable = s.InwardTaxable.Add(bill.SubTotal)
			s.ITCCGST = s.ITCCGST.Add(bill.CGST)
			s.ITCSGST = s.ITCSGST.Add(bill.SGST)
			s.ITCIGST = s.ITCIGST.Add(bill.IGST)
		}
	}
	s.NetCGST = s.OutwardCGST.Sub(s.ITCCGST)
	s.NetSGST = s.OutwardSGST.Sub(s.ITCSGST)
	s.NetIGST = s.OutwardIGST.Sub(s.ITCIGST)
	s.Breakdown = rateBuckets(bills, f, domain.BillType.IsSales)
	return s
}

func buildCompositionSummary(bills []domain.Bill, f *domain.ReportFilters) domain.NetTaxSummary {
	s := zeroSummary(domain.SchemeComposition)
	s.Breakdown = rateBuckets(bills, f, domain.BillType.IsSales)

	// The top-line figure is Σ(rate-wise taxable × rate); the breakdown rows
	// carry the per-line rounded halves. The two must agree.
	topLine := decimal.Zero
	breakdownSum := decimal.Zero
	for _, b := range s.Breakdown {
		topLine = topLine.Add(domain.Round2(b.Taxable.Mul(b.Rate).Div(hundred)))
		breakdownSum = breakdownSum.Add(b.CGST).Add(b.SGST)
		s.OutwardTaxable = s.OutwardTaxable.Add(b.Taxable)
	}
	s.CompositionTax = topLine

	if !topLine.Equal(breakdownSum) {
		s.Warnings = append(s.Warnings, domain.ConsistencyWarning{
			Kind: domain.WarnCompositionDivergence,
			Message: "composition tax " + domain.Rupees(topLine) +
				" diverges from breakdown sum " + domain.Rupees(breakdownSum),
		})
	}
	return s
}

func zeroSummary(scheme domain.Scheme) domain.NetTaxSummary {
	z := decimal.Zero
	return domain.NetTaxSummary{
		Scheme:         scheme,
		OutwardTaxable: z, OutwardCGST: z, OutwardSGST: z, OutwardIGST: z,
		InwardTaxable: z, ITCCGST: z, ITCSGST: z, ITCIGST: z,
		NetCGST: z, NetSGST: z, NetIGST: z,
		CompositionTax: z,
	}
}

// rateBuckets merges the per-bill rate breakdowns of every matching bill
// into period-wide buckets.
func rateBuckets(bills []domain.Bill, f *domain.ReportFilters, side func(domain.BillType) bool) []domain.RateBucket {
	merged := make(map[string]*domain.RateBucket)
	var order []string
	for i := range bills {
		bill := &bills[i]
		if !side(bill.BillType) || !f.InPeriod(bill.Date) {
			continue
		}
		for _, b := range outstanding.RateBreakdown(bill) {
			key := b.Rate.String()
			cur, ok := merged[key]
			if !ok {
				bucket := b
				merged[key] = &bucket
				order = append(order, key)
				continue
			}
			cur.Taxable = cur.Taxable.Add(b.Taxable)
			cur.CGST = cur.CGST.Add(b.CGST)
			cur.SGST = cur.SGST.Add(b.SGST)
			cur.IGST = cur.IGST.Add(b.IGST)
		}
	}

	out := make([]domain.RateBucket, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rate.LessThan(out[j].Rate) })
	return out
}
