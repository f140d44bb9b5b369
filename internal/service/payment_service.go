package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"gstledger/internal/allocation"
	"gstledger/internal/domain"
	"gstledger/internal/numbering"
	"gstledger/internal/outstanding"
	"gstledger/internal/port"
	"gstledger/internal/report"
)

// PaymentInput is the DTO for recording a payment. TargetBillID selects the
// targeted path; nil allocates FIFO across the party's open bills.
type PaymentInput struct {
	Kind         domain.PaymentKind `json:"kind" binding:"required"`
	Date         time.Time          `json:"date" binding:"required"`
	PartyID      uuid.UUID          `json:"party_id"`
	Amount       decimal.Decimal    `json:"amount"`
	Mode         string             `json:"mode"`
	Reference    string             `json:"reference"`
	Notes        string             `json:"notes"`
	TargetBillID *uuid.UUID         `json:"target_bill_id"`
}

// PaymentService records payments, runs the allocation engine over fresh
// snapshots, and exposes the derived outstanding views.
type PaymentService interface {
	Create(ctx context.Context, input *PaymentInput) (*domain.Payment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	List(ctx context.Context) ([]domain.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	OpenBills(ctx context.Context, partyID uuid.UUID, kind domain.PaymentKind) ([]outstanding.BillBalance, error)
	AdvanceAvailable(ctx context.Context, partyID uuid.UUID, kind domain.PaymentKind) (decimal.Decimal, error)
}

type paymentService struct {
	paymentRepo port.PaymentRepository
	billRepo    port.BillRepository
	cache       *report.Cache
}

// NewPaymentService creates a new PaymentService implementation.
func NewPaymentService(paymentRepo port.PaymentRepository, billRepo port.BillRepository, cache *report.Cache) PaymentService {
	return &paymentService{paymentRepo: paymentRepo, billRepo: billRepo, cache: cache}
}

// partySnapshot reads the party's bills of the side the payment kind settles,
// plus the party's payments of the same kind. The allocation engine is pure
// over this snapshot; reads must happen immediately before allocation.
func (s *paymentService) partySnapshot(ctx context.Context, partyID uuid.UUID, kind domain.PaymentKind) ([]domain.Bill, []domain.Payment, error) {
	billType := domain.BillTypeForPaymentKind(kind)

	all, err := s.billRepo.ListByParty(ctx, partyID)
	if err != nil {
		return nil, nil, fmt.Errorf("paymentService.partySnapshot: %w", err)
	}
	var bills []domain.Bill
	for _, b := range all {
		if b.BillType == billType {
			bills = append(bills, b)
		}
	}

	allPayments, err := s.paymentRepo.ListByParty(ctx, partyID)
	if err != nil {
		return nil, nil, fmt.Errorf("paymentService.partySnapshot: %w", err)
	}
	var payments []domain.Payment
	for _, p := range allPayments {
		if p.Kind == kind {
			payments = append(payments, p)
		}
	}
	return bills, payments, nil
}

// advanceSources lists the party's payments with unconsumed advance credit,
// oldest first.
func advanceSources(payments []domain.Payment) []allocation.AdvanceSource {
	var sources []allocation.AdvanceSource
	for i := range payments {
		p := &payments[i]
		if avail := p.AdvanceAvailable(); avail.IsPositive() {
			sources = append(sources, allocation.AdvanceSource{
				PaymentID: p.ID,
				Number:    p.Number,
				Available: avail,
			})
		}
	}
	return sources
}

func (s *paymentService) Create(ctx context.Context, input *PaymentInput) (*domain.Payment, error) {
	if !input.Kind.Valid() || input.Date.IsZero() || input.Amount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if input.PartyID == uuid.Nil {
		return nil, domain.ErrMissingParty
	}
	if input.Amount.IsZero() && input.TargetBillID == nil {
		return nil, domain.ErrInvalidInput
	}

	bills, payments, err := s.partySnapshot(ctx, input.PartyID, input.Kind)
	if err != nil {
		return nil, err
	}
	open := outstanding.OpenBills(bills, payments)

	req := allocation.Request{
		PartyID:   input.PartyID,
		Amount:    input.Amount,
		OpenBills: open,
	}
	if input.TargetBillID != nil {
		target, err := s.targetBalance(ctx, *input.TargetBillID, bills, payments)
		if err != nil {
			return nil, err
		}
		req.Target = target
		req.AdvanceSources = advanceSources(payments)
	}

	res, err := allocation.Allocate(req)
	if err != nil {
		return nil, err
	}

	refs := make([]numbering.PaymentRef, len(payments))
	for i, p := range payments {
		refs[i] = numbering.PaymentRef{Kind: p.Kind, Number: p.Number}
	}

	payment := &domain.Payment{
		ID:                 uuid.New(),
		Kind:               input.Kind,
		Number:             numbering.ProposePayment(input.Kind, input.Date, refs),
		Date:               input.Date,
		PartyID:            input.PartyID,
		Amount:             input.Amount,
		Mode:               input.Mode,
		Reference:          input.Reference,
		Notes:              input.Notes,
		Allocations:        res.Allocations,
		AdvanceAllocations: res.AdvanceAllocations,
		AdvanceConsumed:    decimal.Zero,
	}

	if err := s.paymentRepo.Create(ctx, payment, res.ConsumedBySource); err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	log.Info().Str("payment_id", payment.ID.String()).Str("number", payment.Number).
		Str("amount", domain.Rupees(payment.Amount)).
		Int("allocations", len(payment.Allocations)).
		Str("advance_used", domain.Rupees(res.AdvanceUsed)).
		Msg("payment recorded")
	return payment, nil
}

// targetBalance computes the balance of the targeted bill, whether or not it
// still has anything outstanding.
func (s *paymentService) targetBalance(ctx context.Context, billID uuid.UUID, bills []domain.Bill, payments []domain.Payment) (*outstanding.BillBalance, error) {
	allocated := outstanding.AllocatedByBill(payments)
	for i := range bills {
		if bills[i].ID == billID {
			alloc, ok := allocated[billID]
			if !ok {
				alloc = decimal.Zero
			}
			b := outstanding.Balance(&bills[i], alloc)
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *paymentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

func (s *paymentService) List(ctx context.Context) ([]domain.Payment, error) {
	return s.paymentRepo.List(ctx)
}

// Delete removes a payment. A payment whose advance credit was consumed by a
// later payment cannot be removed without unwinding the consumer first.
func (s *paymentService) Delete(ctx context.Context, id uuid.UUID) error {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if payment.AdvanceConsumed.IsPositive() {
		return domain.ErrAdvanceConsumed
	}
	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

func (s *paymentService) OpenBills(ctx context.Context, partyID uuid.UUID, kind domain.PaymentKind) ([]outstanding.BillBalance, error) {
	bills, payments, err := s.partySnapshot(ctx, partyID, kind)
	if err != nil {
		return nil, err
	}
	return outstanding.OpenBills(bills, payments), nil
}

// AdvanceAvailable sums the party's unconsumed advance credit for the kind.
func (s *paymentService) AdvanceAvailable(ctx context.Context, partyID uuid.UUID, kind domain.PaymentKind) (decimal.Decimal, error) {
	_, payments, err := s.partySnapshot(ctx, partyID, kind)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, src := range advanceSources(payments) {
		total = total.Add(src.Available)
	}
	return total, nil
}
