package numbering

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"gstledger/internal/domain"
)

// BillRef is the slice of a bill the validator needs. Snapshots carry every
// bill across all document types.
type BillRef struct {
	ID       uuid.UUID
	BillType domain.BillType
	Number   string
	Date     time.Time
}

// Snapshot is a point-in-time read of all bill collections.
type Snapshot struct {
	Bills []BillRef
}

// Candidate is a bill number about to be committed. EditingID is the bill
// being edited (excluded from the duplicate scan) or uuid.Nil for a new bill.
type Candidate struct {
	BillType  domain.BillType
	Number    string
	Date      time.Time
	EditingID uuid.UUID
}

// FormatNumber builds PREFIX + FYshort + "/" + serial.
func FormatNumber(t domain.BillType, fy FY, serial int) string {
	return fmt.Sprintf("%s%s/%d", t.Prefix(), fy.Short(), serial)
}

// Propose returns the next document number for the type and the FY of the
// given date: one past the highest serial already used under that prefix+FY.
func Propose(t domain.BillType, date time.Time, snap Snapshot) string {
	fy := FinancialYear(date)
	prefix := t.Prefix() + fy.Short() + "/"

	max := 0
	for _, b := range snap.Bills {
		if b.BillType != t || !strings.HasPrefix(b.Number, prefix) {
			continue
		}
		if s := domain.SerialFromNumber(b.Number); s > max {
			max = s
		}
	}
	return FormatNumber(t, fy, max+1)
}

// Validate runs both commit gates: the cross-type duplicate scan and the
// FY serial/date ordering check. A nil return means the candidate may be
// committed; the caller must have read the snapshot immediately before.
func Validate(c Candidate, snap Snapshot) error {
	if err := checkDuplicate(c, snap); err != nil {
		return err
	}
	return checkDateOrder(c, snap)
}

// checkDuplicate scans every bill collection: a sales invoice and a purchase
// bill may not share a number.
func checkDuplicate(c Candidate, snap Snapshot) error {
	for _, b := range snap.Bills {
		if b.ID == c.EditingID {
			continue
		}
		if b.Number == c.Number {
			return &domain.DuplicateNumberError{
				Number:    c.Number,
				OwnerType: b.BillType,
				OwnerID:   b.ID,
			}
		}
	}
	return nil
}

// checkDateOrder enforces serial/date monotonicity within the candidate's
// type and financial year. When any bill in the FY shares the candidate's
// calendar date the check is skipped entirely, because dates may repeat.
// Otherwise the candidate's date must fall inclusively between the dates of
// the nearest lower- and higher-serial bills.
func checkDateOrder(c Candidate, snap Snapshot) error {
	fy := FinancialYear(c.Date)
	serial := domain.SerialFromNumber(c.Number)
	if serial == 0 {
		return nil
	}

	var siblings []BillRef
	for _, b := range snap.Bills {
		if b.ID == c.EditingID || b.BillType != c.BillType {
			continue
		}
		if !fy.Contains(b.Date) {
			continue
		}
		if sameDay(b.Date, c.Date) {
			return nil
		}
		siblings = append(siblings, b)
	}

	sort.Slice(siblings, func(i, j int) bool {
		return domain.SerialFromNumber(siblings[i].Number) < domain.SerialFromNumber(siblings[j].Number)
	})

	var lower, higher *BillRef
	for i := range siblings {
		s := domain.SerialFromNumber(siblings[i].Number)
		if s == 0 || s == serial {
			continue
		}
		if s < serial {
			lower = &siblings[i]
		} else {
			higher = &siblings[i]
			break
		}
	}

	if lower != nil && c.Date.Before(lower.Date) {
		return &domain.DateOrderError{
			Number:         c.Number,
			Date:           c.Date,
			NeighborNumber: lower.Number,
			NeighborDate:   lower.Date,
			Position:       "before",
		}
	}
	if higher != nil && c.Date.After(higher.Date) {
		return &domain.DateOrderError{
			Number:         c.Number,
			Date:           c.Date,
			NeighborNumber: higher.Number,
			NeighborDate:   higher.Date,
			Position:       "after",
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
