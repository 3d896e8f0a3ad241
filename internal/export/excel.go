package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/barcut/internal/model"
)

// ExportExcel writes the cutting plan as a workbook with two sheets: a
// cutting list for the saw operator and a summary with the run metrics.
func ExportExcel(path string, result model.Result) error {
	if len(result.Cuts) == 0 {
		return fmt.Errorf("no cutting plan to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const listSheet = "Cutting List"
	if err := f.SetSheetName("Sheet1", listSheet); err != nil {
		return err
	}

	headers := []string{"Bar", "Profile", "Stock (mm)", "Piece (mm)", "Qty", "Position (mm)", "Work Order"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(listSheet, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for _, cut := range result.Cuts {
		for _, seg := range cut.Segments {
			values := []any{cut.ID, cut.Profile, cut.StockLength, seg.Length, seg.Quantity, seg.Position, seg.WorkOrderID}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(listSheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}
		// Waste row per bar
		values := []any{cut.ID, cut.Profile, cut.StockLength,
			fmt.Sprintf("waste %.0f (%s)", cut.RemainingLength, cut.WasteCategory.String()), "", "", ""}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(listSheet, cell, v); err != nil {
				return err
			}
		}
		row++
	}

	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	m := result.Metrics
	summary := [][]any{
		{"Algorithm", string(result.Algorithm)},
		{"Stock bars", m.StockCount},
		{"Total stock (mm)", m.TotalStockLength},
		{"Used (mm)", m.UsedLength},
		{"Total cuts", m.TotalCuts},
		{"Waste (mm)", m.TotalWaste},
		{"Waste (%)", m.WastePercent},
		{"Efficiency", m.Efficiency},
		{"Reclaimable (mm)", m.ReclaimableLength},
		{"Material cost", m.MaterialCost},
		{"Waste cost", m.WasteCost},
		{"Labor cost", m.LaborCost},
		{"Total cost", m.TotalCost},
		{"Quality score", m.QualityScore},
	}
	for i, pair := range summary {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(summarySheet, keyCell, pair[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, valCell, pair[1]); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
