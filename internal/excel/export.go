package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ksomany/supply-chain-dashboard/internal/domain"
)

const rollupSheet = "Purchase Lines"

var rollupHeaders = []string{
	"Month",
	"SKU",
	"Product",
	"Category",
	"UoM",
	"Qty Ordered",
	"Qty Received",
	"Qty Invoiced",
	"Ordered Value",
	"Avg Price",
}

// WriteLineRollup renders the rollup rows as an xlsx workbook with a frozen,
// bold header row.
func WriteLineRollup(w io.Writer, rows []domain.LineRollupRow) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if err := file.SetSheetName(sheet, rollupSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, header := range rollupHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := file.SetCellValue(rollupSheet, cell, header); err != nil {
			return fmt.Errorf("write header cell: %w", err)
		}
	}
	if err := file.SetCellStyle(rollupSheet, "A1", "J1", headerStyle); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}
	if err := file.SetPanes(rollupSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header row: %w", err)
	}

	for i, row := range rows {
		values := []any{
			row.Month,
			row.SKU,
			row.ProductName,
			row.Category,
			row.Uom,
			row.QtyOrdered,
			row.QtyReceived,
			row.QtyInvoiced,
			row.OrderedValue,
			row.AvgPrice,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("data cell name: %w", err)
			}
			if err := file.SetCellValue(rollupSheet, cell, value); err != nil {
				return fmt.Errorf("write data cell: %w", err)
			}
		}
	}

	if err := file.SetColWidth(rollupSheet, "A", "E", 18); err != nil {
		return fmt.Errorf("set column widths: %w", err)
	}
	if err := file.SetColWidth(rollupSheet, "F", "J", 14); err != nil {
		return fmt.Errorf("set column widths: %w", err)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
