package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds a monetary amount to 2 decimal places, half up. All currency
// values in the ledger follow this convention.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Rupees formats a monetary amount with 2 fixed decimals.
func Rupees(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// SerialFromNumber extracts the serial from a document number of the form
// PREFIX + FYshort + "/" + serial. Returns 0 for any other shape.
func SerialFromNumber(number string) int {
	idx := strings.LastIndex(number, "/")
	if idx < 0 || idx == len(number)-1 {
		return 0
	}
	serial, err := strconv.Atoi(number[idx+1:])
	if err != nil || serial < 0 {
		return 0
	}
	return serial
}
