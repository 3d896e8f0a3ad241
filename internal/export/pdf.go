// Package export provides functionality for exporting cutting plans to
// various file formats.
package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/barcut/internal/model"
)

// segmentColor represents an RGB color for a rendered segment.
type segmentColor struct {
	R, G, B int
}

// segmentColors cycles per demand line so pieces from the same item share a
// color across bars.
var segmentColors = []segmentColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0

	barRowHeight   = 22.0 // vertical space per bar row
	barHeight      = 12.0 // drawn bar thickness
	barLabelHeight = 5.0
	barsPerPage    = 7
)

// ExportPDF generates a PDF document with the cutting plan: bar diagrams
// drawn to scale, followed by a summary page with the run metrics.
func ExportPDF(path string, result model.Result) error {
	if len(result.Cuts) == 0 {
		return fmt.Errorf("no cutting plan to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, cut := range result.Cuts {
		if i%barsPerPage == 0 {
			pdf.AddPage()
			renderPageHeader(pdf, result, i/barsPerPage+1)
		}
		rowY := marginTop + headerHeight + float64(i%barsPerPage)*barRowHeight
		renderBarRow(pdf, cut, rowY)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

func renderPageHeader(pdf *fpdf.Fpdf, result model.Result, pageNum int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Cutting Plan (%s) - page %d", string(result.Algorithm), pageNum)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 8, title, "", 0, "L", false, 0, "")
}

// renderBarRow draws one stock bar to scale: colored segments at their cut
// positions, gray tail for the remaining length.
func renderBarRow(pdf *fpdf.Fpdf, cut model.Cut, y float64) {
	drawWidth := pageWidth - marginLeft - marginRight
	scale := drawWidth / cut.StockLength

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	label := fmt.Sprintf("%s  %s  %.0fmm stock, %.0fmm remaining (%s)",
		cut.ID, cut.Profile, cut.StockLength, cut.RemainingLength, cut.WasteCategory.String())
	pdf.CellFormat(drawWidth, barLabelHeight, label, "", 0, "L", false, 0, "")

	barY := y + barLabelHeight + 1

	// Stock background (aluminum gray)
	pdf.SetFillColor(225, 228, 232)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.4)
	pdf.Rect(marginLeft, barY, cut.StockLength*scale, barHeight, "FD")

	for _, seg := range cut.Segments {
		col := segmentColors[seg.ItemIndex%len(segmentColors)]
		pos := seg.Position
		for q := 0; q < seg.Quantity; q++ {
			px := marginLeft + pos*scale
			pw := seg.Length * scale

			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.2)
			pdf.Rect(px, barY, pw, barHeight, "FD")

			dims := fmt.Sprintf("%.0f", seg.Length)
			if pdf.GetStringWidth(dims) < pw-1 {
				pdf.SetFont("Helvetica", "", 7)
				pdf.SetXY(px, barY+barHeight/2-2)
				pdf.CellFormat(pw, 4, dims, "", 0, "C", false, 0, "")
			}
			pos += seg.Length
		}
	}
}

// renderSummaryPage draws the overall run statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.Result) {
	m := result.Metrics

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Summary", "", 0, "L", false, 0, "")

	lines := []string{
		fmt.Sprintf("Algorithm: %s", string(result.Algorithm)),
		fmt.Sprintf("Stock bars: %d (%.0f mm total)", m.StockCount, m.TotalStockLength),
		fmt.Sprintf("Cuts: %d", m.TotalCuts),
		fmt.Sprintf("Efficiency: %.1f%%", m.Efficiency*100),
		fmt.Sprintf("Waste: %.0f mm (%.1f%%), reclaimable %.0f mm", m.TotalWaste, m.WastePercent, m.ReclaimableLength),
		fmt.Sprintf("Material cost: %.2f | Waste cost: %.2f | Labor cost: %.2f | Total: %.2f",
			m.MaterialCost, m.WasteCost, m.LaborCost, m.TotalCost),
		fmt.Sprintf("Quality score: %.1f / 100", m.QualityScore),
		fmt.Sprintf("Optimization time: %d ms", result.ExecutionTimeMs),
	}

	pdf.SetFont("Helvetica", "", 11)
	y := marginTop + 14.0
	for _, line := range lines {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 6, line, "", 0, "L", false, 0, "")
		y += 7
	}

	// Waste distribution table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y+4)
	pdf.CellFormat(100, 8, "Waste distribution", "", 0, "L", false, 0, "")
	y += 12

	pdf.SetFont("Helvetica", "", 10)
	for i, bucket := range m.WasteDistribution {
		pdf.SetXY(marginLeft, y)
		row := fmt.Sprintf("%-10s %3d bars  %8.0f mm", model.WasteCategory(i).String(), bucket.Count, bucket.Length)
		pdf.CellFormat(120, 5, row, "", 0, "L", false, 0, "")
		y += 5.5
	}

	if len(result.Recommendations) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y+4)
		pdf.CellFormat(100, 8, "Recommendations", "", 0, "L", false, 0, "")
		y += 12

		pdf.SetFont("Helvetica", "", 10)
		for _, rec := range result.Recommendations {
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, fmt.Sprintf("[%s] %s", rec.Severity, rec.Message), "", 0, "L", false, 0, "")
			y += 5.5
		}
	}
}
