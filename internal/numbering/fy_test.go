package numbering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFinancialYear(t *testing.T) {
	tests := []struct {
		date  time.Time
		start int
		label string
		short string
	}{
		{date(2025, time.April, 1), 2025, "2025-26", "25-26"},
		{date(2025, time.March, 31), 2024, "2024-25", "24-25"},
		{date(2026, time.February, 10), 2025, "2025-26", "25-26"},
		{date(2025, time.December, 31), 2025, "2025-26", "25-26"},
		{date(2099, time.June, 1), 2099, "2099-00", "99-00"},
	}
	for _, tc := range tests {
		fy := FinancialYear(tc.date)
		assert.Equal(t, tc.start, fy.StartYear, "date %s", tc.date)
		assert.Equal(t, tc.label, fy.Label())
		assert.Equal(t, tc.short, fy.Short())
	}
}

func TestFY_Bounds(t *testing.T) {
	fy := FY{StartYear: 2025}
	assert.Equal(t, date(2025, time.April, 1), fy.Start())
	assert.Equal(t, date(2026, time.March, 31), fy.End())
	assert.True(t, fy.Contains(date(2025, time.April, 1)))
	assert.True(t, fy.Contains(date(2026, time.March, 31)))
	assert.False(t, fy.Contains(date(2026, time.April, 1)))
	assert.False(t, fy.Contains(date(2025, time.March, 31)))
}
