package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"gstledger/internal/billing"
	"gstledger/internal/domain"
	"gstledger/internal/gst"
	"gstledger/internal/numbering"
	"gstledger/internal/port"
	"gstledger/internal/report"
)

// BillLineInput is one editable row of a bill request.
type BillLineInput struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`

	QtyExpression string          `json:"qty_expression"`
	Nos           decimal.Decimal `json:"nos"`
	Length        decimal.Decimal `json:"length"`
	Height        decimal.Decimal `json:"height"`

	// Rate overrides the item's default rate for the document side when set.
	Rate *decimal.Decimal `json:"rate"`

	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`

	// TaxRateOverride replaces the item's GST percentage (regular scheme only).
	TaxRateOverride *decimal.Decimal `json:"tax_rate_override"`
}

// BillInput is the DTO for creating or updating a bill. An empty Number asks
// the service to propose the next one in sequence.
type BillInput struct {
	BillType     domain.BillType `json:"bill_type" binding:"required"`
	Number       string          `json:"number"`
	Date         time.Time       `json:"date" binding:"required"`
	PartyID      uuid.UUID       `json:"party_id"`
	Lines        []BillLineInput `json:"lines" binding:"required,min=1"`
	CustomFields json.RawMessage `json:"custom_fields"`
}

// BillService defines the bill lifecycle contract: numbering, tax
// computation, and the commit gates that keep sequences consistent.
type BillService interface {
	ProposeNumber(ctx context.Context, billType domain.BillType, date time.Time) (string, error)
	Create(ctx context.Context, input *BillInput) (*domain.Bill, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error)
	List(ctx context.Context, billType *domain.BillType) ([]domain.Bill, error)
	Update(ctx context.Context, id uuid.UUID, input *BillInput) (*domain.Bill, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type billService struct {
	billRepo    port.BillRepository
	partyRepo   port.PartyRepository
	itemRepo    port.ItemRepository
	companyRepo port.CompanyRepository
	paymentRepo port.PaymentRepository
	cache       *report.Cache
}

// NewBillService creates a new BillService implementation.
func NewBillService(
	billRepo port.BillRepository,
	partyRepo port.PartyRepository,
	itemRepo port.ItemRepository,
	companyRepo port.CompanyRepository,
	paymentRepo port.PaymentRepository,
	cache *report.Cache,
) BillService {
	return &billService{
		billRepo:    billRepo,
		partyRepo:   partyRepo,
		itemRepo:    itemRepo,
		companyRepo: companyRepo,
		paymentRepo: paymentRepo,
		cache:       cache,
	}
}

func (s *billService) ProposeNumber(ctx context.Context, billType domain.BillType, date time.Time) (string, error) {
	if !billType.Valid() {
		return "", domain.ErrInvalidInput
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return "", err
	}
	return numbering.Propose(billType, date, snap), nil
}

// snapshot reads every bill across all document types for the numbering
// gates. The read must happen immediately before validation.
func (s *billService) snapshot(ctx context.Context) (numbering.Snapshot, error) {
	bills, err := s.billRepo.List(ctx)
	if err != nil {
		return numbering.Snapshot{}, fmt.Errorf("billService.snapshot: %w", err)
	}
	refs := make([]numbering.BillRef, len(bills))
	for i, b := range bills {
		refs[i] = numbering.BillRef{ID: b.ID, BillType: b.BillType, Number: b.Number, Date: b.Date}
	}
	return numbering.Snapshot{Bills: refs}, nil
}

func (s *billService) Create(ctx context.Context, input *BillInput) (*domain.Bill, error) {
	bill, err := s.build(ctx, uuid.Nil, input)
	if err != nil {
		return nil, err
	}
	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	log.Info().Str("bill_id", bill.ID.String()).Str("number", bill.Number).
		Str("type", string(bill.BillType)).Msg("bill created")
	return bill, nil
}

func (s *billService) Update(ctx context.Context, id uuid.UUID, input *BillInput) (*domain.Bill, error) {
	existing, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bill, err := s.build(ctx, id, input)
	if err != nil {
		return nil, err
	}
	bill.ID = id
	bill.CreatedAt = existing.CreatedAt

	if err := s.billRepo.Replace(ctx, bill); err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	return bill, nil
}

// build validates the input, runs the numbering gates against a fresh
// snapshot, and recomputes every derived field from scratch. Derived values
// in the input are ignored; only editable fields matter.
func (s *billService) build(ctx context.Context, editingID uuid.UUID, input *BillInput) (*domain.Bill, error) {
	if !input.BillType.Valid() || input.Date.IsZero() || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.PartyID == uuid.Nil {
		return nil, domain.ErrMissingParty
	}

	company, err := s.companyRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("billService.build: %w", err)
	}
	party, err := s.partyRepo.GetByID(ctx, input.PartyID)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	number := input.Number
	if number == "" {
		number = numbering.Propose(input.BillType, input.Date, snap)
	}
	candidate := numbering.Candidate{
		BillType:  input.BillType,
		Number:    number,
		Date:      input.Date,
		EditingID: editingID,
	}
	if err := numbering.Validate(candidate, snap); err != nil {
		return nil, err
	}

	bill := &domain.Bill{
		ID:           uuid.New(),
		BillType:     input.BillType,
		Number:       number,
		Date:         input.Date,
		PartyID:      input.PartyID,
		Scheme:       company.Scheme,
		CustomFields: input.CustomFields,
	}

	for _, li := range input.Lines {
		line, err := s.computeLine(ctx, input.BillType, company, party, &li)
		if err != nil {
			return nil, err
		}
		bill.Lines = append(bill.Lines, *line)
	}

	totals := billing.ComputeBill(bill.Lines)
	bill.SubTotal = totals.SubTotal
	bill.CGST = totals.CGST
	bill.SGST = totals.SGST
	bill.IGST = totals.IGST
	bill.TotalAmount = totals.GrandTotal
	return bill, nil
}

func (s *billService) computeLine(
	ctx context.Context,
	billType domain.BillType,
	company *domain.CompanyProfile,
	party *domain.Party,
	li *BillLineInput,
) (*domain.BillLine, error) {
	item, err := s.itemRepo.GetByID(ctx, li.ItemID)
	if err != nil {
		return nil, err
	}

	// Purchase-side documents invert the tax orientation: the party sells to
	// the company.
	sellerGSTIN, buyerGSTIN := company.GSTIN, party.GSTIN
	rate := item.SaleRate
	if billType.IsPurchase() || billType == domain.BillTypePurchaseOrder {
		sellerGSTIN, buyerGSTIN = party.GSTIN, company.GSTIN
		rate = item.PurchaseRate
	}
	if rate.IsZero() {
		rate = item.DefaultRate
	}
	if li.Rate != nil {
		rate = *li.Rate
	}

	split := gst.Resolve(gst.ResolveInput{
		ItemGSTPercentage:  item.GSTPercentage,
		CompositionGSTRate: item.CompositionGSTRate,
		ItemType:           item.ItemType,
		SellerGSTIN:        sellerGSTIN,
		BuyerGSTIN:         buyerGSTIN,
		Scheme:             company.Scheme,
		RateOverride:       li.TaxRateOverride,
	})

	computed := billing.ComputeLine(billing.LineInput{
		QtyExpression:   li.QtyExpression,
		Nos:             li.Nos,
		Length:          li.Length,
		Height:          li.Height,
		Rate:            rate,
		DiscountAmount:  li.DiscountAmount,
		DiscountPercent: li.DiscountPercent,
		Tax:             split,
	})

	return &domain.BillLine{
		ID:            uuid.New(),
		ItemID:        item.ID,
		ItemName:      item.Name,
		HSNCode:       item.HSNCode,
		Unit:          item.Unit,
		ItemType:      item.ItemType,
		QtyExpression: computed.QtyDisplay,
		Nos:           li.Nos,
		Length:        li.Length,
		Height:        li.Height,
		Quantity:      computed.Quantity,
		Rate:          rate,

		DiscountAmount:  li.DiscountAmount,
		DiscountPercent: li.DiscountPercent,

		TaxRate:  split.Rate,
		CGSTRate: split.CGSTRate,
		SGSTRate: split.SGSTRate,
		IGSTRate: split.IGSTRate,

		Amount:     computed.Amount,
		CGSTAmount: computed.CGSTAmount,
		SGSTAmount: computed.SGSTAmount,
		IGSTAmount: computed.IGSTAmount,
		Total:      computed.Total,
	}, nil
}

func (s *billService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	return s.billRepo.GetByID(ctx, id)
}

func (s *billService) List(ctx context.Context, billType *domain.BillType) ([]domain.Bill, error) {
	if billType != nil {
		if !billType.Valid() {
			return nil, domain.ErrInvalidInput
		}
		return s.billRepo.ListByType(ctx, *billType)
	}
	return s.billRepo.List(ctx)
}

// Delete refuses to remove a bill any payment has allocated against; the
// allocation rows must be unwound first.
func (s *billService) Delete(ctx context.Context, id uuid.UUID) error {
	referenced, err := s.paymentRepo.ExistsForBill(ctx, id)
	if err != nil {
		return fmt.Errorf("billService.Delete: %w", err)
	}
	if referenced {
		return domain.ErrBillReferenced
	}
	if err := s.billRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}
