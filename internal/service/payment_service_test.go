package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gstledger/internal/domain"
	"gstledger/internal/report"
	"gstledger/internal/service"
	"gstledger/mocks"
)

type paymentFixture struct {
	paymentRepo *mocks.MockPaymentRepo
	billRepo    *mocks.MockBillRepo
	svc         service.PaymentService

	partyID uuid.UUID
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		paymentRepo: new(mocks.MockPaymentRepo),
		billRepo:    new(mocks.MockBillRepo),
		partyID:     uuid.New(),
	}
	f.svc = service.NewPaymentService(f.paymentRepo, f.billRepo, report.NewCache())
	return f
}

var paymentDate = time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

func invoice(partyID uuid.UUID, number string, total int64, date time.Time) domain.Bill {
	return domain.Bill{
		ID:          uuid.New(),
		BillType:    domain.BillTypeSalesInvoice,
		Number:      number,
		Date:        date,
		PartyID:     partyID,
		TotalAmount: decimal.NewFromInt(total),
	}
}

func TestPaymentService_Create_FIFOSpansBills(t *testing.T) {
	f := newPaymentFixture()
	b1 := invoice(f.partyID, "INV25-26/1", 1180, paymentDate.AddDate(0, -1, 0))
	b2 := invoice(f.partyID, "INV25-26/2", 500, paymentDate.AddDate(0, 0, -10))

	f.billRepo.On("ListByParty", mock.Anything, f.partyID).Return([]domain.Bill{b1, b2}, nil)
	f.paymentRepo.On("ListByParty", mock.Anything, f.partyID).Return([]domain.Payment{}, nil)
	f.paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Payment"), mock.Anything).Return(nil)

	payment, err := f.svc.Create(context.Background(), &service.PaymentInput{
		Kind:    domain.PaymentKindReceipt,
		Date:    paymentDate,
		PartyID: f.partyID,
		Amount:  decimal.NewFromInt(1300),
	})

	assert.NoError(t, err)
	assert.Equal(t, "RCP25-26/1", payment.Number)
	assert.Len(t, payment.Allocations, 2)
	assert.Equal(t, b1.ID, payment.Allocations[0].BillID)
	assert.True(t, payment.Allocations[0].Amount.Equal(decimal.NewFromInt(1180)))
	assert.True(t, payment.Allocations[0].IsFullPayment)
	assert.Equal(t, b2.ID, payment.Allocations[1].BillID)
	assert.True(t, payment.Allocations[1].Amount.Equal(decimal.NewFromInt(120)))
	assert.False(t, payment.Allocations[1].IsFullPayment)
}

func TestPaymentService_Create_RemainderBecomesAdvance(t *testing.T) {
	f := newPaymentFixture()
	b1 := invoice(f.partyID, "INV25-26/1", 1180, paymentDate.AddDate(0, -1, 0))

	f.billRepo.On("ListByParty", mock.Anything, f.partyID).Return([]domain.Bill{b1}, nil)
	f.paymentRepo.On("ListByParty", mock.Anything, f.partyID).Return([]domain.Payment{}, nil)
	f.paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Payment"), mock.Anything).Return(nil)

	payment, err := f.svc.Create(context.Background(), &service.PaymentInput{
		Kind:    domain.PaymentKindReceipt,
		Date:    paymentDate,
		PartyID: f.partyID,
		Amount:  decimal.NewFromInt(1500),
	})

	assert.NoError(t, err)
	assert.Len(t, payment.Allocations, 1)
	assert.True(t, payment.UnappliedAmount().Equal(decimal.NewFromInt(320)))
	assert.True(t, payment.AdvanceAvailable().Equal(decimal.NewFromInt(320)))
}

func TestPaymentService_Create_TargetedExcessRejected(t *testing.T) {
	f := newPaymentFixture()
	b1 := invoice(f.partyID, "INV25-26/1", 1180, paymentDate.AddDate(0, -1, 0))

	f.billRepo.On("ListByParty", mock.Anything, f.partyID).Return([]domain.Bill{b1}, nil)
	f.paymentRepo.On("ListByParty", mock.Anything, f.partyID).Return([]domain.Payment{}, nil)

	payment, err := f.svc.Create(context.Background(), &service.PaymentInput{
		Kind:         domain.PaymentKindReceipt,
		Date:         paymentDate,
		PartyID:      f.partyID,
		Amount:       decimal.NewFromInt(1500),
		TargetBillID: &b1.ID,
	})

	assert.Nil(t, payment)
	assert.ErrorIs(t, err, domain.ErrExcessPayment)
	var excess *domain.ExcessPaymentError
	assert.True(t, errors.As(err, &excess))
	assert.Equal(t, "INV25-26/1", excess.BillNumber)
	f.paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_Create_TargetedConsumesAdvanceFirst(t *testing.T) {
	f := newPaymentFixture()
	b1 := invoice(f.partyID, "INV25-26/1", 1180, paymentDate.AddDate(0, -1, 0))

	// An earlier unapplied receipt left 300 of advance credit.
	source := domain.Payment{
		ID:      uuid.New(),
		Kind:    domain.PaymentKindReceipt,
		Number:  "RCP25-26/1",
		Date:    paymentDate.AddDate(0, 0, -5),
		PartyID: f.partyID,
		Amount:  decimal.NewFromInt(300),
	}

	f.billRepo.On("ListByParty", mock.Anything, f.partyID).Return([]domain.Bill{b1}, nil)
	f.paymentRepo.On("ListByParty", mock.Anything, f.partyID).Return([]domain.Payment{source}, nil)
	f.paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Payment"),
		mock.MatchedBy(func(consumed map[uuid.UUID]decimal.Decimal) bool {
			take, ok := consumed[source.ID]
			return ok && take.Equal(decimal.NewFromInt(300))
		})).Return(nil)

	payment, err := f.svc.Create(context.Background(), &service.PaymentInput{
		Kind:         domain.PaymentKindReceipt,
		Date:         paymentDate,
		PartyID:      f.partyID,
		Amount:       decimal.NewFromInt(500),
		TargetBillID: &b1.ID,
	})

	assert.NoError(t, err)
	assert.Equal(t, "RCP25-26/2", payment.Number)
	assert.Len(t, payment.AdvanceAllocations, 1)
	assert.Equal(t, source.ID, payment.AdvanceAllocations[0].SourcePaymentID)
	assert.True(t, payment.AdvanceAllocations[0].Amount.Equal(decimal.NewFromInt(300)))
	assert.Len(t, payment.Allocations, 1)
	assert.True(t, payment.Allocations[0].Amount.Equal(decimal.NewFromInt(500)))
	f.paymentRepo.AssertExpectations(t)
}

func TestPaymentService_Create_ZeroAmountNeedsTarget(t *testing.T) {
	f := newPaymentFixture()

	payment, err := f.svc.Create(context.Background(), &service.PaymentInput{
		Kind:    domain.PaymentKindReceipt,
		Date:    paymentDate,
		PartyID: f.partyID,
		Amount:  decimal.Zero,
	})

	assert.Nil(t, payment)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPaymentService_Delete_ConsumedAdvanceRefused(t *testing.T) {
	f := newPaymentFixture()
	id := uuid.New()
	f.paymentRepo.On("GetByID", mock.Anything, id).Return(&domain.Payment{
		ID:              id,
		Amount:          decimal.NewFromInt(500),
		AdvanceConsumed: decimal.NewFromInt(200),
	}, nil)

	err := f.svc.Delete(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrAdvanceConsumed)
	f.paymentRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPaymentService_OpenBills_SkipsSettled(t *testing.T) {
	f := newPaymentFixture()
	b1 := invoice(f.partyID, "INV25-26/1", 1000, paymentDate.AddDate(0, -1, 0))
	b2 := invoice(f.partyID, "INV25-26/2", 500, paymentDate.AddDate(0, 0, -10))

	settled := domain.Payment{
		ID:      uuid.New(),
		Kind:    domain.PaymentKindReceipt,
		Number:  "RCP25-26/1",
		PartyID: f.partyID,
		Amount:  decimal.NewFromInt(1000),
		Allocations: []domain.Allocation{
			{BillID: b1.ID, Amount: decimal.NewFromInt(1000), IsFullPayment: true},
		},
	}

	f.billRepo.On("ListByParty", mock.Anything, f.partyID).Return([]domain.Bill{b1, b2}, nil)
	f.paymentRepo.On("ListByParty", mock.Anything, f.partyID).Return([]domain.Payment{settled}, nil)

	open, err := f.svc.OpenBills(context.Background(), f.partyID, domain.PaymentKindReceipt)

	assert.NoError(t, err)
	assert.Len(t, open, 1)
	assert.Equal(t, b2.ID, open[0].Bill.ID)
	assert.True(t, open[0].Outstanding.Equal(decimal.NewFromInt(500)))
}

func TestPaymentService_AdvanceAvailable(t *testing.T) {
	f := newPaymentFixture()
	p1 := domain.Payment{
		ID: uuid.New(), Kind: domain.PaymentKindReceipt, PartyID: f.partyID,
		Amount: decimal.NewFromInt(300),
	}
	p2 := domain.Payment{
		ID: uuid.New(), Kind: domain.PaymentKindReceipt, PartyID: f.partyID,
		Amount: decimal.NewFromInt(400), AdvanceConsumed: decimal.NewFromInt(150),
	}

	f.billRepo.On("ListByParty", mock.Anything, f.partyID).Return([]domain.Bill{}, nil)
	f.paymentRepo.On("ListByParty", mock.Anything, f.partyID).Return([]domain.Payment{p1, p2}, nil)

	total, err := f.svc.AdvanceAvailable(context.Background(), f.partyID, domain.PaymentKindReceipt)

	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(550)))
}
