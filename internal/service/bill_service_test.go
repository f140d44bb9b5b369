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

type billFixture struct {
	billRepo    *mocks.MockBillRepo
	partyRepo   *mocks.MockPartyRepo
	itemRepo    *mocks.MockItemRepo
	companyRepo *mocks.MockCompanyRepo
	paymentRepo *mocks.MockPaymentRepo
	svc         service.BillService

	company *domain.CompanyProfile
	party   *domain.Party
	item    *domain.Item
}

func newBillFixture() *billFixture {
	f := &billFixture{
		billRepo:    new(mocks.MockBillRepo),
		partyRepo:   new(mocks.MockPartyRepo),
		itemRepo:    new(mocks.MockItemRepo),
		companyRepo: new(mocks.MockCompanyRepo),
		paymentRepo: new(mocks.MockPaymentRepo),
	}
	f.svc = service.NewBillService(f.billRepo, f.partyRepo, f.itemRepo, f.companyRepo, f.paymentRepo, report.NewCache())

	f.company = &domain.CompanyProfile{
		ID:       uuid.New(),
		FirmName: "Sharma Hardware",
		GSTIN:    "27ABCDE1234F1Z5",
		State:    "Maharashtra",
		Scheme:   domain.SchemeRegular,
	}
	f.party = &domain.Party{
		ID:    uuid.New(),
		Name:  "Patel Builders",
		GSTIN: "27XYZPQ5678K1Z9",
		State: "Maharashtra",
	}
	f.item = &domain.Item{
		ID:            uuid.New(),
		Name:          "Cement OPC 53",
		Unit:          "bag",
		SaleRate:      decimal.NewFromInt(100),
		PurchaseRate:  decimal.NewFromInt(80),
		GSTPercentage: decimal.NewFromInt(18),
		ItemType:      domain.ItemTypeGoods,
		HSNCode:       "2523",
	}
	return f
}

var billDate = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

func (f *billFixture) expectBuild(existing []domain.Bill) {
	f.companyRepo.On("Get", mock.Anything).Return(f.company, nil)
	f.partyRepo.On("GetByID", mock.Anything, f.party.ID).Return(f.party, nil)
	f.billRepo.On("List", mock.Anything).Return(existing, nil)
	f.itemRepo.On("GetByID", mock.Anything, f.item.ID).Return(f.item, nil)
}

func TestBillService_Create_IntrastateTotals(t *testing.T) {
	f := newBillFixture()
	f.expectBuild(nil)
	f.billRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Bill")).Return(nil)

	bill, err := f.svc.Create(context.Background(), &service.BillInput{
		BillType: domain.BillTypeSalesInvoice,
		Date:     billDate,
		PartyID:  f.party.ID,
		Lines: []service.BillLineInput{
			{ItemID: f.item.ID, Nos: decimal.NewFromInt(10)},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "INV25-26/1", bill.Number)
	assert.True(t, bill.SubTotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, bill.CGST.Equal(decimal.NewFromInt(90)))
	assert.True(t, bill.SGST.Equal(decimal.NewFromInt(90)))
	assert.True(t, bill.IGST.IsZero())
	assert.True(t, bill.TotalAmount.Equal(decimal.NewFromInt(1180)))
	f.billRepo.AssertExpectations(t)
}

func TestBillService_Create_InterstateUsesIGST(t *testing.T) {
	f := newBillFixture()
	f.party.GSTIN = "07XYZPQ5678K1Z9" // Delhi buyer
	f.expectBuild(nil)
	f.billRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Bill")).Return(nil)

	bill, err := f.svc.Create(context.Background(), &service.BillInput{
		BillType: domain.BillTypeSalesInvoice,
		Date:     billDate,
		PartyID:  f.party.ID,
		Lines: []service.BillLineInput{
			{ItemID: f.item.ID, Nos: decimal.NewFromInt(10)},
		},
	})

	assert.NoError(t, err)
	assert.True(t, bill.CGST.IsZero())
	assert.True(t, bill.SGST.IsZero())
	assert.True(t, bill.IGST.Equal(decimal.NewFromInt(180)))
}

func TestBillService_Create_PurchaseUsesPurchaseRate(t *testing.T) {
	f := newBillFixture()
	f.expectBuild(nil)
	f.billRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Bill")).Return(nil)

	bill, err := f.svc.Create(context.Background(), &service.BillInput{
		BillType: domain.BillTypePurchaseBill,
		Date:     billDate,
		PartyID:  f.party.ID,
		Lines: []service.BillLineInput{
			{ItemID: f.item.ID, Nos: decimal.NewFromInt(10)},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "PRB25-26/1", bill.Number)
	assert.True(t, bill.SubTotal.Equal(decimal.NewFromInt(800)), "purchase side prices at the purchase rate")
}

func TestBillService_Create_ExplicitDuplicateNumber(t *testing.T) {
	f := newBillFixture()
	existing := []domain.Bill{{
		ID:       uuid.New(),
		BillType: domain.BillTypeSalesInvoice,
		Number:   "INV25-26/7",
		Date:     billDate,
	}}
	f.expectBuild(existing)

	bill, err := f.svc.Create(context.Background(), &service.BillInput{
		BillType: domain.BillTypeSalesInvoice,
		Number:   "INV25-26/7",
		Date:     billDate,
		PartyID:  f.party.ID,
		Lines: []service.BillLineInput{
			{ItemID: f.item.ID, Nos: decimal.NewFromInt(1)},
		},
	})

	assert.Nil(t, bill)
	assert.ErrorIs(t, err, domain.ErrDuplicateNumber)
	var dup *domain.DuplicateNumberError
	assert.True(t, errors.As(err, &dup))
	f.billRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBillService_Create_ProposesNextSerial(t *testing.T) {
	f := newBillFixture()
	existing := []domain.Bill{
		{ID: uuid.New(), BillType: domain.BillTypeSalesInvoice, Number: "INV25-26/3", Date: billDate},
		{ID: uuid.New(), BillType: domain.BillTypeQuotation, Number: "QT25-26/9", Date: billDate},
	}
	f.expectBuild(existing)
	f.billRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Bill")).Return(nil)

	bill, err := f.svc.Create(context.Background(), &service.BillInput{
		BillType: domain.BillTypeSalesInvoice,
		Date:     billDate.AddDate(0, 0, 1),
		PartyID:  f.party.ID,
		Lines: []service.BillLineInput{
			{ItemID: f.item.ID, Nos: decimal.NewFromInt(1)},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "INV25-26/4", bill.Number, "each document type numbers independently")
}

func TestBillService_Create_MissingParty(t *testing.T) {
	f := newBillFixture()

	bill, err := f.svc.Create(context.Background(), &service.BillInput{
		BillType: domain.BillTypeSalesInvoice,
		Date:     billDate,
		Lines: []service.BillLineInput{
			{ItemID: f.item.ID, Nos: decimal.NewFromInt(1)},
		},
	})

	assert.Nil(t, bill)
	assert.ErrorIs(t, err, domain.ErrMissingParty)
}

func TestBillService_ProposeNumber(t *testing.T) {
	f := newBillFixture()
	f.billRepo.On("List", mock.Anything).Return([]domain.Bill{
		{ID: uuid.New(), BillType: domain.BillTypeSalesInvoice, Number: "INV25-26/12", Date: billDate},
	}, nil)

	number, err := f.svc.ProposeNumber(context.Background(), domain.BillTypeSalesInvoice, billDate)

	assert.NoError(t, err)
	assert.Equal(t, "INV25-26/13", number)
}

func TestBillService_Delete_ReferencedByPayment(t *testing.T) {
	f := newBillFixture()
	id := uuid.New()
	f.paymentRepo.On("ExistsForBill", mock.Anything, id).Return(true, nil)

	err := f.svc.Delete(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrBillReferenced)
	f.billRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestBillService_Delete_Success(t *testing.T) {
	f := newBillFixture()
	id := uuid.New()
	f.paymentRepo.On("ExistsForBill", mock.Anything, id).Return(false, nil)
	f.billRepo.On("Delete", mock.Anything, id).Return(nil)

	err := f.svc.Delete(context.Background(), id)

	assert.NoError(t, err)
	f.billRepo.AssertExpectations(t)
}
