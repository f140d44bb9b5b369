package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"gstledger/internal/domain"
)

// BuildPaymentRegister produces one row per payment: amount, an
// applied-to-bills text naming each allocation, and the unapplied remainder.
// Status is derived from the applied sum, never stored.
func BuildPaymentRegister(
	payments []domain.Payment,
	billNumbers map[uuid.UUID]string,
	parties map[uuid.UUID]domain.Party,
	f *domain.ReportFilters,
) []domain.PaymentRegisterRow {
	var rows []domain.PaymentRegisterRow
	for i := range payments {
		p := &payments[i]
		if !f.InPeriod(p.Date) {
			continue
		}
		if f.PartyID != nil && *f.PartyID != p.PartyID {
			continue
		}
		switch f.View {
		case domain.ReportViewSales:
			if p.Kind != domain.PaymentKindReceipt {
				continue
			}
		case domain.ReportViewPurchase:
			if p.Kind != domain.PaymentKindPayment {
				continue
			}
		}

		rows = append(rows, domain.PaymentRegisterRow{
			PaymentID: p.ID,
			Kind:      p.Kind,
			Number:    p.Number,
			Date:      p.Date,
			PartyName: parties[p.PartyID].FirmName,
			Amount:    p.Amount,
			AppliedTo: appliedToText(p, billNumbers),
			Applied:   p.AppliedAmount(),
			Unapplied: p.UnappliedAmount(),
			Status:    p.Status(),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return domain.SerialFromNumber(rows[i].Number) < domain.SerialFromNumber(rows[j].Number)
	})
	return rows
}

// appliedToText renders "INV25-26/1 (4000.00); INV25-26/2 (2000.00)", with
// advance consumptions suffixed so the register shows where credit went.
func appliedToText(p *domain.Payment, billNumbers map[uuid.UUID]string) string {
	parts := make([]string, 0, len(p.Allocations)+len(p.AdvanceAllocations))
	for _, a := range p.Allocations {
		parts = append(parts, fmt.Sprintf("%s (%s)", billNumber(billNumbers, a.BillID), domain.Rupees(a.Amount)))
	}
	for _, a := range p.AdvanceAllocations {
		parts = append(parts, fmt.Sprintf("%s (%s via advance %s)",
			billNumber(billNumbers, a.BillID), domain.Rupees(a.Amount), a.SourceNumber))
	}
	return strings.Join(parts, "; ")
}

func billNumber(numbers map[uuid.UUID]string, id uuid.UUID) string {
	if n, ok := numbers[id]; ok {
		return n
	}
	return id.String()
}
