package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstledger/internal/domain"
)

func TestBuildNetTax_Regular(t *testing.T) {
	party := uuid.New()
	sale := salesBill("INV25-26/1", day(time.April, 5), party,
		line("8471", "18", "1000", "90", "90", "0"),
	)
	purchase := salesBill("PRB25-26/1", day(time.April, 10), party,
		line("8471", "18", "400", "36", "36", "0"),
	)
	purchase.BillType = domain.BillTypePurchaseBill

	s := BuildNetTax([]domain.Bill{sale, purchase}, &domain.ReportFilters{Scheme: domain.SchemeRegular})

	assert.True(t, s.OutwardCGST.Equal(dec("90")))
	assert.True(t, s.ITCCGST.Equal(dec("36")))
	assert.True(t, s.NetCGST.Equal(dec("54")))
	assert.True(t, s.NetSGST.Equal(dec("54")))
	assert.True(t, s.NetIGST.IsZero())
	assert.True(t, s.OutwardTaxable.Equal(dec("1000")))
	assert.True(t, s.InwardTaxable.Equal(dec("400")))
	assert.True(t, s.CompositionTax.IsZero())
	assert.Empty(t, s.Warnings)
}

func TestBuildNetTax_Composition(t *testing.T) {
	party := uuid.New()
	// Composition halves per line: 1% goods rate on 1000 → 5 + 5.
	b1 := salesBill("INV25-26/1", day(time.April, 5), party,
		line("8471", "1", "1000", "5", "5", "0"),
	)
	b2 := salesBill("INV25-26/2", day(time.April, 6), party,
		line("9983", "6", "500", "15", "15", "0"),
	)
	b1.Scheme = domain.SchemeComposition
	b2.Scheme = domain.SchemeComposition

	s := BuildNetTax([]domain.Bill{b1, b2}, &domain.ReportFilters{Scheme: domain.SchemeComposition})

	// Top line: 1000×1% + 500×6% = 10 + 30.
	assert.True(t, s.CompositionTax.Equal(dec("40")), "got %s", s.CompositionTax)
	require.Len(t, s.Breakdown, 2)

	// Critical invariant: top line equals the sum of its own breakdown.
	sum := decimal.Zero
	for _, b := range s.Breakdown {
		sum = sum.Add(b.CGST).Add(b.SGST)
	}
	assert.True(t, s.CompositionTax.Equal(sum))
	assert.Empty(t, s.Warnings)
}

func TestBuildNetTax_CompositionDivergenceSurfaced(t *testing.T) {
	party := uuid.New()
	// Tampered halves that no longer add up to taxable×rate.
	b := salesBill("INV25-26/1", day(time.April, 5), party,
		line("8471", "1", "1000", "3", "3", "0"),
	)
	b.Scheme = domain.SchemeComposition

	s := BuildNetTax([]domain.Bill{b}, &domain.ReportFilters{Scheme: domain.SchemeComposition})
	require.Len(t, s.Warnings, 1)
	assert.Equal(t, domain.WarnCompositionDivergence, s.Warnings[0].Kind)
	// The top-line figure is still the computed one, not clamped to match.
	assert.True(t, s.CompositionTax.Equal(dec("10")))
}

func TestBuildNetTax_PeriodFilter(t *testing.T) {
	party := uuid.New()
	old := salesBill("INV25-26/1", day(time.April, 5), party,
		line("8471", "18", "1000", "90", "90", "0"),
	)
	from := day(time.May, 1)
	s := BuildNetTax([]domain.Bill{old}, &domain.ReportFilters{Scheme: domain.SchemeRegular, From: &from})
	assert.True(t, s.OutwardCGST.IsZero())
	assert.Empty(t, s.Breakdown)
}
