// Package allocation applies an incoming payment against outstanding bills
// and the party's advance-credit pool, producing the allocation ledger rows
// the payment commits with. The engine is pure over snapshots: the payment
// service reads fresh outstanding and advance snapshots immediately before
// calling it and performs the guarded writes afterwards.
package allocation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
	"gstledger/internal/outstanding"
)

// AdvanceSource is one prior payment with unconsumed advance credit,
// expected in oldest-first order.
type AdvanceSource struct {
	PaymentID uuid.UUID
	Number    string
	Available decimal.Decimal
}

// Request carries the incoming payment and the party's snapshots.
type Request struct {
	PartyID uuid.UUID
	Amount  decimal.Decimal

	// Target is the specific bill being paid, or nil for a free-standing
	// payment that allocates FIFO across OpenBills.
	Target *outstanding.BillBalance

	// OpenBills is the party's outstanding bills oldest-first. Used only on
	// the untargeted path.
	OpenBills []outstanding.BillBalance

	// AdvanceSources is the party's unconsumed advance credit oldest-first.
	// Used only on the targeted path (advance-first policy).
	AdvanceSources []AdvanceSource
}

// Result is the allocation ledger produced for one payment. Nothing is
// persisted here: every row must be recorded before the payment counts as
// committed.
type Result struct {
	Allocations        []domain.Allocation
	AdvanceAllocations []domain.AdvanceAllocation

	// ConsumedBySource is how much advance each source payment gave up;
	// the commit bumps each source's consumed marker under an
	// expected-value guard so the credit cannot be spent twice.
	ConsumedBySource map[uuid.UUID]decimal.Decimal

	AdvanceUsed decimal.Decimal
	// Remainder is the unapplied part of the new payment; it becomes the
	// party's advance credit for future consumption.
	Remainder decimal.Decimal
}

// Allocate applies the payment. Targeted payments follow the advance-first
// policy and reject amounts exceeding the bill's remaining outstanding;
// untargeted payments walk the party's bills FIFO and bank any remainder as
// advance credit. The overpay asymmetry between the two paths is deliberate.
func Allocate(req Request) (*Result, error) {
	if req.Target != nil {
		return allocateTargeted(req)
	}
	return allocateFIFO(req), nil
}

func allocateTargeted(req Request) (*Result, error) {
	target := req.Target
	res := &Result{
		ConsumedBySource: make(map[uuid.UUID]decimal.Decimal),
		AdvanceUsed:      decimal.Zero,
		Remainder:        decimal.Zero,
	}

	remaining := target.Outstanding

	// Advance-first: consume the party's credit before touching new cash.
	for _, src := range req.AdvanceSources {
		if remaining.IsZero() {
			break
		}
		if !src.Available.IsPositive() {
			continue
		}
		take := decimal.Min(src.Available, remaining)
		res.AdvanceAllocations = append(res.AdvanceAllocations, domain.AdvanceAllocation{
			SourcePaymentID: src.PaymentID,
			SourceNumber:    src.Number,
			BillID:          target.Bill.ID,
			BillType:        target.Bill.BillType,
			Amount:          take,
			Position:        len(res.AdvanceAllocations),
		})
		res.ConsumedBySource[src.PaymentID] = take
		res.AdvanceUsed = res.AdvanceUsed.Add(take)
		remaining = remaining.Sub(take)
	}

	// Excess cash must go to other bills or the advance pool explicitly,
	// never silently overpay one bill.
	if req.Amount.GreaterThan(remaining) {
		return nil, &domain.ExcessPaymentError{
			BillID:      target.Bill.ID,
			BillNumber:  target.Bill.Number,
			Outstanding: domain.Rupees(remaining),
			Attempted:   domain.Rupees(req.Amount),
		}
	}

	if req.Amount.IsPositive() {
		res.Allocations = append(res.Allocations, domain.Allocation{
			BillID:          target.Bill.ID,
			BillType:        target.Bill.BillType,
			Amount:          req.Amount,
			BillOutstanding: remaining,
			IsFullPayment:   req.Amount.Equal(remaining),
		})
	}
	return res, nil
}

// allocateFIFO walks the party's outstanding bills oldest-first, settling
// each in full before moving on, until the payment is exhausted.
func allocateFIFO(req Request) *Result {
	res := &Result{
		ConsumedBySource: make(map[uuid.UUID]decimal.Decimal),
		AdvanceUsed:      decimal.Zero,
	}

	left := req.Amount
	for i := range req.OpenBills {
		if !left.IsPositive() {
			break
		}
		open := &req.OpenBills[i]
		if !open.Outstanding.IsPositive() {
			continue
		}
		take := decimal.Min(open.Outstanding, left)
		res.Allocations = append(res.Allocations, domain.Allocation{
			BillID:          open.Bill.ID,
			BillType:        open.Bill.BillType,
			Amount:          take,
			BillOutstanding: open.Outstanding,
			IsFullPayment:   take.Equal(open.Outstanding),
			Position:        len(res.Allocations),
		})
		left = left.Sub(take)
	}

	res.Remainder = left
	return res
}
