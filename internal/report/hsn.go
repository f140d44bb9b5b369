package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
)

// BuildHSNSummary groups line items across both sales and purchases by
// (HSN code, rate), aggregating taxable value and tax components. Groups
// shared by more than one item expose an item-level breakdown.
func BuildHSNSummary(bills []domain.Bill, f *domain.ReportFilters) []domain.HSNRow {
	type key struct {
		hsn  string
		rate string
	}

	groups := make(map[key]*domain.HSNRow)
	items := make(map[key]map[string]*domain.HSNItemRow)

	for i := range bills {
		bill := &bills[i]
		if !f.MatchesType(bill.BillType) || !f.InPeriod(bill.Date) {
			continue
		}
		for _, l := range bill.Lines {
			k := key{hsn: l.HSNCode, rate: l.TaxRate.String()}
			row, ok := groups[k]
			if !ok {
				row = &domain.HSNRow{
					HSNCode:  l.HSNCode,
					Rate:     l.TaxRate,
					Quantity: decimal.Zero,
					Taxable:  decimal.Zero,
					CGST:     decimal.Zero,
					SGST:     decimal.Zero,
					IGST:     decimal.Zero,
				}
				groups[k] = row
				items[k] = make(map[string]*domain.HSNItemRow)
			}
			row.Quantity = row.Quantity.Add(l.Quantity)
			row.Taxable = row.Taxable.Add(l.Amount)
			row.CGST = row.CGST.Add(l.CGSTAmount)
			row.SGST = row.SGST.Add(l.SGSTAmount)
			row.IGST = row.IGST.Add(l.IGSTAmount)

			item, ok := items[k][l.ItemName]
			if !ok {
				item = &domain.HSNItemRow{
					ItemName: l.ItemName,
					Unit:     l.Unit,
					Quantity: decimal.Zero,
					Taxable:  decimal.Zero,
				}
				items[k][l.ItemName] = item
			}
			item.Quantity = item.Quantity.Add(l.Quantity)
			item.Taxable = item.Taxable.Add(l.Amount)
		}
	}

	rows := make([]domain.HSNRow, 0, len(groups))
	for k, row := range groups {
		if len(items[k]) > 1 {
			for _, item := range items[k] {
				row.Items = append(row.Items, *item)
			}
			sort.Slice(row.Items, func(i, j int) bool {
				return row.Items[i].ItemName < row.Items[j].ItemName
			})
		}
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].HSNCode != rows[j].HSNCode {
			return rows[i].HSNCode < rows[j].HSNCode
		}
		return rows[i].Rate.LessThan(rows[j].Rate)
	})
	return rows
}
