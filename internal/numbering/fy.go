// Package numbering assigns and verifies document numbers against the
// per-financial-year serial sequence, and checks date ordering within that
// sequence. It works over in-memory snapshots of all bill collections; the
// bill service reads a fresh snapshot immediately before committing.
package numbering

import (
	"fmt"
	"time"
)

// FY is an Indian financial year, April 1 through March 31.
type FY struct {
	StartYear int
}

// FinancialYear derives the FY from a document's own date, not the current
// date: a bill dated 2026-02-10 belongs to FY 2025-26.
func FinancialYear(date time.Time) FY {
	year := date.Year()
	if date.Month() < time.April {
		year--
	}
	return FY{StartYear: year}
}

// Label is the statutory "YYYY-YY" form, e.g. "2025-26".
func (fy FY) Label() string {
	return fmt.Sprintf("%d-%02d", fy.StartYear, (fy.StartYear+1)%100)
}

// Short is the form embedded in document numbers, e.g. "25-26".
func (fy FY) Short() string {
	return fmt.Sprintf("%02d-%02d", fy.StartYear%100, (fy.StartYear+1)%100)
}

// Start returns April 1 of the FY.
func (fy FY) Start() time.Time {
	return time.Date(fy.StartYear, time.April, 1, 0, 0, 0, 0, time.UTC)
}

// End returns March 31 of the following calendar year.
func (fy FY) End() time.Time {
	return time.Date(fy.StartYear+1, time.March, 31, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether a date falls inside the FY.
func (fy FY) Contains(date time.Time) bool {
	return FinancialYear(date) == fy
}
