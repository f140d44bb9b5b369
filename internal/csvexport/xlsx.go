package csvexport

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"gstledger/internal/domain"
)

const hsnSheet = "HSN Summary"

var hsnHeader = []interface{}{
	"HSN Code", "Rate", "Quantity", "Taxable Amount", "CGST", "SGST", "IGST", "Item",
}

// BuildHSNWorkbook renders the HSN summary as a spreadsheet: one row per
// (HSN, rate) group, with the per-item breakdown on indented child rows when
// a group mixes items.
func BuildHSNWorkbook(rows []domain.HSNRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", hsnSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, hsnHeader); err != nil {
		return nil, err
	}

	rowNum := 2
	for i := range rows {
		r := &rows[i]
		err := setRow(f, rowNum, []interface{}{
			r.HSNCode,
			r.Rate.String(),
			r.Quantity.String(),
			domain.Rupees(r.Taxable),
			domain.Rupees(r.CGST),
			domain.Rupees(r.SGST),
			domain.Rupees(r.IGST),
			"",
		})
		if err != nil {
			return nil, err
		}
		rowNum++

		for _, item := range r.Items {
			err := setRow(f, rowNum, []interface{}{
				"", "",
				item.Quantity.String() + " " + item.Unit,
				domain.Rupees(item.Taxable),
				"", "", "",
				item.ItemName,
			})
			if err != nil {
				return nil, err
			}
			rowNum++
		}
	}
	return f, nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(hsnSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
