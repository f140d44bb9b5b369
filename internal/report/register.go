// Package report builds the statutory views over bills, payments, and
// parties: the GSTR-1-style register, the GSTR-3B-style net-tax summary, the
// HSN-wise summary, the payment register, and receivables aging. Builders
// are read-only consumers of snapshots and plain data in, plain rows out —
// rendering belongs to collaborators.
package report

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
	"gstledger/internal/outstanding"
)

// BuildRegister produces one row per bill, with a child rate breakdown when
// the bill mixes rates. Bills are classified B2B when the buyer carries a
// GSTIN.
func BuildRegister(bills []domain.Bill, parties map[uuid.UUID]domain.Party, f *domain.ReportFilters) []domain.RegisterRow {
	var rows []domain.RegisterRow
	for i := range bills {
		bill := &bills[i]
		if !f.MatchesType(bill.BillType) || !f.InPeriod(bill.Date) {
			continue
		}
		if f.PartyID != nil && *f.PartyID != bill.PartyID {
			continue
		}

		party := parties[bill.PartyID]
		buckets := outstanding.RateBreakdown(bill)

		row := domain.RegisterRow{
			BillID:      bill.ID,
			BillType:    bill.BillType,
			Number:      bill.Number,
			Date:        bill.Date,
			PartyName:   party.FirmName,
			PartyGSTIN:  party.GSTIN,
			B2B:         party.GSTIN != "",
			PrimaryRate: primaryRate(buckets),
			Taxable:     bill.SubTotal,
			CGST:        bill.CGST,
			SGST:        bill.SGST,
			IGST:        bill.IGST,
			Total:       bill.TotalAmount,
		}
		if len(buckets) > 1 {
			row.Breakdown = buckets
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return domain.SerialFromNumber(rows[i].Number) < domain.SerialFromNumber(rows[j].Number)
	})
	return rows
}

// primaryRate is the rate of the largest taxable slice; the register shows
// it as the bill's headline rate alongside the full breakdown.
func primaryRate(buckets []domain.RateBucket) decimal.Decimal {
	best := decimal.Zero
	bestTaxable := decimal.NewFromInt(-1)
	for _, b := range buckets {
		if b.Taxable.GreaterThan(bestTaxable) {
			best = b.Rate
			bestTaxable = b.Taxable
		}
	}
	return best
}
