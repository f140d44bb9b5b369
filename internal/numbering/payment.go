package numbering

import (
	"fmt"
	"strings"
	"time"

	"gstledger/internal/domain"
)

// PaymentRef is the slice of a payment the proposer needs.
type PaymentRef struct {
	Kind   domain.PaymentKind
	Number string
}

// FormatPaymentNumber builds PREFIX + FYshort + "/" + serial, e.g. "RCP25-26/3".
func FormatPaymentNumber(k domain.PaymentKind, fy FY, serial int) string {
	return fmt.Sprintf("%s%s/%d", k.Prefix(), fy.Short(), serial)
}

// ProposePayment returns the next receipt number for the kind and the FY of
// the given date. Receipts and payments run independent sequences.
func ProposePayment(k domain.PaymentKind, date time.Time, payments []PaymentRef) string {
	fy := FinancialYear(date)
	prefix := k.Prefix() + fy.Short() + "/"

	max := 0
	for _, p := range payments {
		if p.Kind != k || !strings.HasPrefix(p.Number, prefix) {
			continue
		}
		if s := domain.SerialFromNumber(p.Number); s > max {
			max = s
		}
	}
	return FormatPaymentNumber(k, fy, max+1)
}
