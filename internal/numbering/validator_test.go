package numbering

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstledger/internal/domain"
)

func ref(t domain.BillType, number string, d time.Time) BillRef {
	return BillRef{ID: uuid.New(), BillType: t, Number: number, Date: d}
}

func TestPropose(t *testing.T) {
	snap := Snapshot{Bills: []BillRef{
		ref(domain.BillTypeSalesInvoice, "INV25-26/1", date(2025, time.April, 5)),
		ref(domain.BillTypeSalesInvoice, "INV25-26/7", date(2025, time.June, 1)),
		ref(domain.BillTypePurchaseBill, "PRB25-26/12", date(2025, time.May, 2)),
		ref(domain.BillTypeSalesInvoice, "INV24-25/40", date(2025, time.January, 10)),
	}}

	t.Run("next_after_max_in_prefix_and_fy", func(t *testing.T) {
		got := Propose(domain.BillTypeSalesInvoice, date(2025, time.July, 1), snap)
		assert.Equal(t, "INV25-26/8", got)
	})

	t.Run("other_types_do_not_leak", func(t *testing.T) {
		got := Propose(domain.BillTypePurchaseBill, date(2025, time.July, 1), snap)
		assert.Equal(t, "PRB25-26/13", got)
	})

	t.Run("fresh_fy_starts_at_one", func(t *testing.T) {
		got := Propose(domain.BillTypeQuotation, date(2025, time.July, 1), snap)
		assert.Equal(t, "QT25-26/1", got)
	})

	t.Run("fy_from_bill_date_not_today", func(t *testing.T) {
		got := Propose(domain.BillTypeSalesInvoice, date(2025, time.February, 1), snap)
		assert.Equal(t, "INV24-25/41", got)
	})
}

func TestValidate_DuplicateAcrossTypes(t *testing.T) {
	owner := ref(domain.BillTypePurchaseBill, "PRB25-26/7", date(2025, time.May, 1))
	snap := Snapshot{Bills: []BillRef{owner}}

	// A second document may not reuse the number even from another type.
	err := Validate(Candidate{
		BillType: domain.BillTypeSalesInvoice,
		Number:   "PRB25-26/7",
		Date:     date(2025, time.May, 2),
	}, snap)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateNumber))

	var dup *domain.DuplicateNumberError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "PRB25-26/7", dup.Number)
	assert.Equal(t, domain.BillTypePurchaseBill, dup.OwnerType)
	assert.Equal(t, owner.ID, dup.OwnerID)
}

func TestValidate_EditingBillExcludedFromDuplicateScan(t *testing.T) {
	owner := ref(domain.BillTypeSalesInvoice, "INV25-26/3", date(2025, time.May, 1))
	snap := Snapshot{Bills: []BillRef{owner}}

	err := Validate(Candidate{
		BillType:  domain.BillTypeSalesInvoice,
		Number:    "INV25-26/3",
		Date:      date(2025, time.May, 1),
		EditingID: owner.ID,
	}, snap)
	assert.NoError(t, err)
}

func TestValidate_DateOrder(t *testing.T) {
	snap := Snapshot{Bills: []BillRef{
		ref(domain.BillTypeSalesInvoice, "INV25-26/1", date(2025, time.April, 10)),
		ref(domain.BillTypeSalesInvoice, "INV25-26/2", date(2025, time.May, 10)),
		ref(domain.BillTypeSalesInvoice, "INV25-26/4", date(2025, time.June, 10)),
	}}

	t.Run("within_bounds_passes", func(t *testing.T) {
		err := Validate(Candidate{
			BillType: domain.BillTypeSalesInvoice,
			Number:   "INV25-26/3",
			Date:     date(2025, time.May, 20),
		}, snap)
		assert.NoError(t, err)
	})

	t.Run("equal_to_neighbor_date_passes", func(t *testing.T) {
		// Inclusive bounds: a serial-3 bill may share serial-2's date. The
		// same-day rule short-circuits first, which is the same outcome.
		err := Validate(Candidate{
			BillType: domain.BillTypeSalesInvoice,
			Number:   "INV25-26/3",
			Date:     date(2025, time.May, 10),
		}, snap)
		assert.NoError(t, err)
	})

	t.Run("before_lower_serial_fails", func(t *testing.T) {
		err := Validate(Candidate{
			BillType: domain.BillTypeSalesInvoice,
			Number:   "INV25-26/3",
			Date:     date(2025, time.April, 20),
		}, snap)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDateOrder))

		var ord *domain.DateOrderError
		require.True(t, errors.As(err, &ord))
		assert.Equal(t, "INV25-26/2", ord.NeighborNumber)
		assert.Equal(t, date(2025, time.May, 10), ord.NeighborDate)
		assert.Equal(t, "before", ord.Position)
	})

	t.Run("after_higher_serial_fails", func(t *testing.T) {
		err := Validate(Candidate{
			BillType: domain.BillTypeSalesInvoice,
			Number:   "INV25-26/3",
			Date:     date(2025, time.July, 1),
		}, snap)
		require.Error(t, err)

		var ord *domain.DateOrderError
		require.True(t, errors.As(err, &ord))
		assert.Equal(t, "INV25-26/4", ord.NeighborNumber)
		assert.Equal(t, "after", ord.Position)
	})

	t.Run("same_day_sibling_skips_check", func(t *testing.T) {
		// A same-calendar-date bill anywhere in the FY means dates may
		// repeat, so ordering is not enforced.
		err := Validate(Candidate{
			BillType: domain.BillTypeSalesInvoice,
			Number:   "INV25-26/3",
			Date:     date(2025, time.April, 10),
		}, snap)
		assert.NoError(t, err)
	})

	t.Run("other_fy_ignored", func(t *testing.T) {
		err := Validate(Candidate{
			BillType: domain.BillTypeSalesInvoice,
			Number:   "INV24-25/9",
			Date:     date(2025, time.February, 1),
		}, snap)
		assert.NoError(t, err)
	})

	t.Run("other_type_ignored_for_ordering", func(t *testing.T) {
		err := Validate(Candidate{
			BillType: domain.BillTypePurchaseBill,
			Number:   "PRB25-26/1",
			Date:     date(2025, time.April, 30),
		}, snap)
		assert.NoError(t, err)
	})
}
