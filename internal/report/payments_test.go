package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstledger/internal/domain"
)

func TestBuildPaymentRegister(t *testing.T) {
	party := uuid.New()
	parties := map[uuid.UUID]domain.Party{party: {ID: party, FirmName: "Sharma Traders"}}

	billA := uuid.New()
	billB := uuid.New()
	numbers := map[uuid.UUID]string{billA: "INV25-26/1", billB: "INV25-26/2"}

	full := domain.Payment{
		ID: uuid.New(), Kind: domain.PaymentKindReceipt, Number: "RCP25-26/1",
		Date: day(time.April, 10), PartyID: party, Amount: dec("4000"),
		Allocations: []domain.Allocation{
			{BillID: billA, Amount: dec("4000")},
		},
	}
	partial := domain.Payment{
		ID: uuid.New(), Kind: domain.PaymentKindReceipt, Number: "RCP25-26/2",
		Date: day(time.April, 12), PartyID: party, Amount: dec("7000"),
		Allocations: []domain.Allocation{
			{BillID: billA, Amount: dec("2000")},
			{BillID: billB, Amount: dec("3000")},
		},
	}
	unapplied := domain.Payment{
		ID: uuid.New(), Kind: domain.PaymentKindReceipt, Number: "RCP25-26/3",
		Date: day(time.April, 15), PartyID: party, Amount: dec("500"),
	}

	rows := BuildPaymentRegister(
		[]domain.Payment{partial, unapplied, full},
		numbers, parties, &domain.ReportFilters{View: domain.ReportViewBoth},
	)
	require.Len(t, rows, 3)

	assert.Equal(t, "RCP25-26/1", rows[0].Number)
	assert.Equal(t, domain.PaymentStatusFullyApplied, rows[0].Status)
	assert.Equal(t, "INV25-26/1 (4000.00)", rows[0].AppliedTo)
	assert.True(t, rows[0].Unapplied.IsZero())

	assert.Equal(t, domain.PaymentStatusPartiallyApplied, rows[1].Status)
	assert.Equal(t, "INV25-26/1 (2000.00); INV25-26/2 (3000.00)", rows[1].AppliedTo)
	assert.True(t, rows[1].Unapplied.Equal(dec("2000")))

	assert.Equal(t, domain.PaymentStatusUnapplied, rows[2].Status)
	assert.Equal(t, "", rows[2].AppliedTo)
	assert.True(t, rows[2].Unapplied.Equal(dec("500")))
}

func TestBuildPaymentRegister_AdvanceConsumptionShown(t *testing.T) {
	party := uuid.New()
	parties := map[uuid.UUID]domain.Party{party: {ID: party, FirmName: "X"}}
	bill := uuid.New()
	numbers := map[uuid.UUID]string{bill: "INV25-26/9"}

	p := domain.Payment{
		ID: uuid.New(), Kind: domain.PaymentKindReceipt, Number: "RCP25-26/4",
		Date: day(time.May, 1), PartyID: party, Amount: dec("1000"),
		Allocations: []domain.Allocation{{BillID: bill, Amount: dec("1000")}},
		AdvanceAllocations: []domain.AdvanceAllocation{
			{BillID: bill, SourceNumber: "RCP25-26/2", Amount: dec("250")},
		},
	}

	rows := BuildPaymentRegister([]domain.Payment{p}, numbers, parties, &domain.ReportFilters{View: domain.ReportViewBoth})
	require.Len(t, rows, 1)
	assert.Equal(t, "INV25-26/9 (1000.00); INV25-26/9 (250.00 via advance RCP25-26/2)", rows[0].AppliedTo)
}

func TestBuildPaymentRegister_KindFilter(t *testing.T) {
	party := uuid.New()
	parties := map[uuid.UUID]domain.Party{party: {ID: party}}
	receipt := domain.Payment{
		ID: uuid.New(), Kind: domain.PaymentKindReceipt, Number: "RCP25-26/1",
		Date: day(time.April, 1), PartyID: party, Amount: dec("100"),
	}
	paid := domain.Payment{
		ID: uuid.New(), Kind: domain.PaymentKindPayment, Number: "PMT25-26/1",
		Date: day(time.April, 2), PartyID: party, Amount: dec("200"),
	}

	rows := BuildPaymentRegister([]domain.Payment{receipt, paid}, nil, parties,
		&domain.ReportFilters{View: domain.ReportViewPurchase})
	require.Len(t, rows, 1)
	assert.Equal(t, "PMT25-26/1", rows[0].Number)
}
