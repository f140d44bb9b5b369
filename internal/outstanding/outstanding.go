// Package outstanding derives per-bill balances and per-party aging from
// bills plus payment allocations. Pure over snapshots; negative balances
// indicate an overallocation bug upstream and are surfaced as warnings, not
// clamped away silently.
package outstanding

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
)

// BillBalance pairs a bill with its derived outstanding amount.
type BillBalance struct {
	Bill        *domain.Bill
	Allocated   decimal.Decimal
	Outstanding decimal.Decimal
	// LastAllocation is the date of the most recent payment touching the
	// bill; nil when the bill was never paid.
	LastAllocation *time.Time
	Warning        *domain.ConsistencyWarning
}

// AllocatedByBill sums discharged amounts per bill across all payments:
// direct allocations plus advance-credit consumptions, both of which name
// the bill they settle.
func AllocatedByBill(payments []domain.Payment) map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal)
	add := func(billID uuid.UUID, amount decimal.Decimal) {
		prev, ok := out[billID]
		if !ok {
			prev = decimal.Zero
		}
		out[billID] = prev.Add(amount)
	}
	for _, p := range payments {
		for _, a := range p.Allocations {
			add(a.BillID, a.Amount)
		}
		for _, a := range p.AdvanceAllocations {
			add(a.BillID, a.Amount)
		}
	}
	return out
}

// lastAllocationByBill finds the most recent payment date touching each bill.
func lastAllocationByBill(payments []domain.Payment) map[uuid.UUID]time.Time {
	out := make(map[uuid.UUID]time.Time)
	for _, p := range payments {
		for _, a := range p.Allocations {
			if last, ok := out[a.BillID]; !ok || p.Date.After(last) {
				out[a.BillID] = p.Date
			}
		}
		for _, a := range p.AdvanceAllocations {
			if last, ok := out[a.BillID]; !ok || p.Date.After(last) {
				out[a.BillID] = p.Date
			}
		}
	}
	return out
}

// Balance computes one bill's outstanding: totalAmount minus the sum of
// matching allocations, floored at zero for display. A negative raw balance
// attaches a warning.
func Balance(bill *domain.Bill, allocated decimal.Decimal) BillBalance {
	raw := domain.Round2(bill.TotalAmount.Sub(allocated))
	b := BillBalance{Bill: bill, Allocated: allocated, Outstanding: raw}
	if raw.IsNegative() {
		b.Outstanding = decimal.Zero
		b.Warning = &domain.ConsistencyWarning{
			Kind: domain.WarnNegativeOutstanding,
			Message: "bill " + bill.Number + " allocated " + domain.Rupees(allocated) +
				" against total " + domain.Rupees(bill.TotalAmount),
		}
	}
	return b
}

// OpenBills returns the bills with a non-zero outstanding balance, oldest
// first (date, then serial) — the order FIFO allocation consumes them in.
func OpenBills(bills []domain.Bill, payments []domain.Payment) []BillBalance {
	allocated := AllocatedByBill(payments)
	lastPay := lastAllocationByBill(payments)

	var open []BillBalance
	for i := range bills {
		bill := &bills[i]
		alloc, ok := allocated[bill.ID]
		if !ok {
			alloc = decimal.Zero
		}
		b := Balance(bill, alloc)
		if b.Outstanding.IsZero() && b.Warning == nil {
			continue
		}
		if t, ok := lastPay[bill.ID]; ok {
			last := t
			b.LastAllocation = &last
		}
		open = append(open, b)
	}

	sort.Slice(open, func(i, j int) bool {
		a, b := open[i].Bill, open[j].Bill
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Serial() < b.Serial()
	})
	return open
}

// referenceDate is the aging anchor for a bill: the last allocation touching
// it, or the bill date if it was never paid.
func (b BillBalance) referenceDate() time.Time {
	if b.LastAllocation != nil {
		return *b.LastAllocation
	}
	return b.Bill.Date
}

// AgingRows builds the accounts-receivable aging view as of a reference
// date. Parties with zero outstanding are excluded entirely.
func AgingRows(bills []domain.Bill, payments []domain.Payment, partyNames map[uuid.UUID]string, asOf time.Time) []domain.AgingRow {
	open := OpenBills(bills, payments)

	// Oldest pending reference per party.
	oldest := make(map[uuid.UUID]time.Time)
	for _, b := range open {
		refDate := b.referenceDate()
		if cur, ok := oldest[b.Bill.PartyID]; !ok || refDate.Before(cur) {
			oldest[b.Bill.PartyID] = refDate
		}
	}

	rows := make([]domain.AgingRow, 0, len(open))
	for _, b := range open {
		row := domain.AgingRow{
			PartyID:          b.Bill.PartyID,
			PartyName:        partyNames[b.Bill.PartyID],
			BillID:           b.Bill.ID,
			BillType:         b.Bill.BillType,
			Number:           b.Bill.Number,
			Date:             b.Bill.Date,
			TotalAmount:      b.Bill.TotalAmount,
			Outstanding:      b.Outstanding,
			DaysSinceLastPay: daysBetween(b.referenceDate(), asOf),
			DaysSinceOldest:  daysBetween(oldest[b.Bill.PartyID], asOf),
			LastPaymentDate:  b.LastAllocation,
		}
		if b.Warning != nil {
			row.Warnings = []domain.ConsistencyWarning{*b.Warning}
		}
		rows = append(rows, row)
	}
	return rows
}

func daysBetween(from, to time.Time) int {
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// RateBreakdown segregates a bill's lines by tax rate. Statutory reports
// require per-rate figures, not a blended rate, because a bill may mix
// differently-rated items.
func RateBreakdown(bill *domain.Bill) []domain.RateBucket {
	byRate := make(map[string]*domain.RateBucket)
	var order []string
	for _, l := range bill.Lines {
		key := l.TaxRate.String()
		bucket, ok := byRate[key]
		if !ok {
			bucket = &domain.RateBucket{
				Rate:    l.TaxRate,
				Taxable: decimal.Zero,
				CGST:    decimal.Zero,
				SGST:    decimal.Zero,
				IGST:    decimal.Zero,
			}
			byRate[key] = bucket
			order = append(order, key)
		}
		bucket.Taxable = bucket.Taxable.Add(l.Amount)
		bucket.CGST = bucket.CGST.Add(l.CGSTAmount)
		bucket.SGST = bucket.SGST.Add(l.SGSTAmount)
		bucket.IGST = bucket.IGST.Add(l.IGSTAmount)
	}

	out := make([]domain.RateBucket, 0, len(order))
	for _, key := range order {
		out = append(out, *byRate[key])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rate.LessThan(out[j].Rate) })
	return out
}
