package allocation

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstledger/internal/domain"
	"gstledger/internal/outstanding"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func open(number string, d time.Time, outstandingAmt string) outstanding.BillBalance {
	return outstanding.BillBalance{
		Bill: &domain.Bill{
			ID:       uuid.New(),
			BillType: domain.BillTypeSalesInvoice,
			Number:   number,
			Date:     d,
		},
		Outstanding: dec(outstandingAmt),
	}
}

func TestAllocate_TargetedPartial(t *testing.T) {
	target := open("INV25-26/1", day(time.April, 1), "10000")
	res, err := Allocate(Request{
		Amount: dec("4000"),
		Target: &target,
	})
	require.NoError(t, err)
	require.Len(t, res.Allocations, 1)

	a := res.Allocations[0]
	assert.Equal(t, target.Bill.ID, a.BillID)
	assert.True(t, a.Amount.Equal(dec("4000")))
	assert.True(t, a.BillOutstanding.Equal(dec("10000")))
	assert.False(t, a.IsFullPayment)
	assert.Empty(t, res.AdvanceAllocations)
	assert.True(t, res.Remainder.IsZero())
}

func TestAllocate_TargetedFullSettlement(t *testing.T) {
	target := open("INV25-26/1", day(time.April, 1), "6000")
	res, err := Allocate(Request{Amount: dec("6000"), Target: &target})
	require.NoError(t, err)
	require.Len(t, res.Allocations, 1)
	assert.True(t, res.Allocations[0].IsFullPayment)
}

func TestAllocate_TargetedExcessRejected(t *testing.T) {
	target := open("INV25-26/1", day(time.April, 1), "6000")
	res, err := Allocate(Request{Amount: dec("6001"), Target: &target})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, domain.ErrExcessPayment))

	var excess *domain.ExcessPaymentError
	require.True(t, errors.As(err, &excess))
	assert.Equal(t, "INV25-26/1", excess.BillNumber)
	assert.Equal(t, "6000.00", excess.Outstanding)
}

func TestAllocate_AdvanceFirst(t *testing.T) {
	target := open("INV25-26/5", day(time.May, 1), "5000")
	src1 := uuid.New()
	src2 := uuid.New()

	// Zero cash: the payment purely applies existing credit to the bill.
	res, err := Allocate(Request{
		Amount: decimal.Zero,
		Target: &target,
		AdvanceSources: []AdvanceSource{
			{PaymentID: src1, Number: "RCP25-26/1", Available: dec("1000")},
			{PaymentID: src2, Number: "RCP25-26/2", Available: dec("9000")},
		},
	})
	require.NoError(t, err)

	// Sources consumed oldest-first, second source only up to the bill's
	// outstanding.
	require.Len(t, res.AdvanceAllocations, 2)
	assert.True(t, res.AdvanceAllocations[0].Amount.Equal(dec("1000")))
	assert.Equal(t, src1, res.AdvanceAllocations[0].SourcePaymentID)
	assert.True(t, res.AdvanceAllocations[1].Amount.Equal(dec("4000")))
	assert.Equal(t, src2, res.AdvanceAllocations[1].SourcePaymentID)
	assert.True(t, res.AdvanceUsed.Equal(dec("5000")))

	assert.True(t, res.ConsumedBySource[src1].Equal(dec("1000")))
	assert.True(t, res.ConsumedBySource[src2].Equal(dec("4000")))

	// Bill fully covered by advance: no cash fits.
	assert.Empty(t, res.Allocations)
}

func TestAllocate_AdvanceThenCash(t *testing.T) {
	target := open("INV25-26/5", day(time.May, 1), "5000")
	src := uuid.New()

	res, err := Allocate(Request{
		Amount: dec("3000"),
		Target: &target,
		AdvanceSources: []AdvanceSource{
			{PaymentID: src, Number: "RCP25-26/1", Available: dec("2000")},
		},
	})
	require.NoError(t, err)
	assert.True(t, res.AdvanceUsed.Equal(dec("2000")))
	require.Len(t, res.Allocations, 1)
	assert.True(t, res.Allocations[0].Amount.Equal(dec("3000")))
	// Outstanding recorded at the moment the cash hits, after advance.
	assert.True(t, res.Allocations[0].BillOutstanding.Equal(dec("3000")))
	assert.True(t, res.Allocations[0].IsFullPayment)
}

func TestAllocate_CashExceedingPostAdvanceOutstandingRejected(t *testing.T) {
	target := open("INV25-26/5", day(time.May, 1), "5000")
	src := uuid.New()

	_, err := Allocate(Request{
		Amount: dec("3001"),
		Target: &target,
		AdvanceSources: []AdvanceSource{
			{PaymentID: src, Number: "RCP25-26/1", Available: dec("2000")},
		},
	})
	assert.True(t, errors.Is(err, domain.ErrExcessPayment))
}

func TestAllocate_FIFO(t *testing.T) {
	b1 := open("INV25-26/1", day(time.April, 1), "1000")
	b2 := open("INV25-26/2", day(time.April, 15), "2000")
	b3 := open("INV25-26/3", day(time.May, 1), "3000")

	res, err := Allocate(Request{
		Amount:    dec("4500"),
		OpenBills: []outstanding.BillBalance{b1, b2, b3},
	})
	require.NoError(t, err)
	require.Len(t, res.Allocations, 3)

	// Oldest settled in full before the next is touched.
	assert.True(t, res.Allocations[0].Amount.Equal(dec("1000")))
	assert.True(t, res.Allocations[0].IsFullPayment)
	assert.True(t, res.Allocations[1].Amount.Equal(dec("2000")))
	assert.True(t, res.Allocations[1].IsFullPayment)
	assert.True(t, res.Allocations[2].Amount.Equal(dec("1500")))
	assert.False(t, res.Allocations[2].IsFullPayment)
	assert.True(t, res.Remainder.IsZero())

	// Allocated sum equals the payment amount exactly.
	sum := decimal.Zero
	for _, a := range res.Allocations {
		sum = sum.Add(a.Amount)
	}
	assert.True(t, sum.Equal(dec("4500")))
}

func TestAllocate_FIFORemainderBecomesAdvance(t *testing.T) {
	b1 := open("INV25-26/1", day(time.April, 1), "6000")

	res, err := Allocate(Request{
		Amount:    dec("7000"),
		OpenBills: []outstanding.BillBalance{b1},
	})
	require.NoError(t, err)
	require.Len(t, res.Allocations, 1)
	assert.True(t, res.Allocations[0].Amount.Equal(dec("6000")))
	assert.True(t, res.Allocations[0].IsFullPayment)
	assert.True(t, res.Remainder.Equal(dec("1000")))
}

func TestAllocate_FIFONoBills(t *testing.T) {
	res, err := Allocate(Request{Amount: dec("500")})
	require.NoError(t, err)
	assert.Empty(t, res.Allocations)
	assert.True(t, res.Remainder.Equal(dec("500")))
}

// End-to-end scenario: ₹10,000 bill, ₹4,000 targeted payment, then an
// untargeted ₹7,000 with only that bill outstanding.
func TestAllocate_EndToEndScenario(t *testing.T) {
	billID := uuid.New()
	bill := domain.Bill{
		ID:          billID,
		BillType:    domain.BillTypeSalesInvoice,
		Number:      "INV25-26/1",
		Date:        day(time.April, 1),
		TotalAmount: dec("10000"),
	}

	target := outstanding.Balance(&bill, decimal.Zero)
	first, err := Allocate(Request{Amount: dec("4000"), Target: &target})
	require.NoError(t, err)
	require.Len(t, first.Allocations, 1)
	assert.False(t, first.Allocations[0].IsFullPayment)

	// Outstanding after the first payment.
	after := outstanding.Balance(&bill, dec("4000"))
	assert.True(t, after.Outstanding.Equal(dec("6000")))

	second, err := Allocate(Request{
		Amount:    dec("7000"),
		OpenBills: []outstanding.BillBalance{after},
	})
	require.NoError(t, err)
	require.Len(t, second.Allocations, 1)
	assert.True(t, second.Allocations[0].Amount.Equal(dec("6000")))
	assert.True(t, second.Allocations[0].IsFullPayment)
	assert.True(t, second.Remainder.Equal(dec("1000")))
}
