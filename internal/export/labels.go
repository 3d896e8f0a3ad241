package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/barcut/internal/model"
)

// LabelInfo holds the data encoded into each piece label's QR code.
type LabelInfo struct {
	BarID       string  `json:"bar"`
	Profile     string  `json:"profile"`
	Length      float64 `json:"length_mm"`
	Position    float64 `json:"position_mm"`
	WorkOrderID string  `json:"work_order_id,omitempty"`
	Piece       int     `json:"piece"` // 1-based piece number on the bar
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows
// per page). Each label cell is approximately 66.7mm x 25.4mm on US Letter.
const (
	labelPageWidth  = 215.9
	labelPageHeight = 279.4
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// ExportLabels generates a PDF of QR-coded labels, one per cut piece. Each
// label carries the bar, position and work order so a scanned piece can be
// traced back to its demand line. Labels are laid out for a standard label
// sheet (Avery 5160, 3 columns x 10 rows on US Letter).
func ExportLabels(path string, result model.Result) error {
	labels := collectLabels(result.Cuts)
	if len(labels) == 0 {
		return fmt.Errorf("no pieces to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for bar %s piece %d: %w", label.BarID, label.Piece, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// collectLabels expands the cutting plan into one label per physical piece.
func collectLabels(cuts []model.Cut) []LabelInfo {
	var labels []LabelInfo
	for _, cut := range cuts {
		piece := 0
		for _, seg := range cut.Segments {
			pos := seg.Position
			for q := 0; q < seg.Quantity; q++ {
				piece++
				labels = append(labels, LabelInfo{
					BarID:       cut.ID,
					Profile:     cut.Profile,
					Length:      seg.Length,
					Position:    pos,
					WorkOrderID: seg.WorkOrderID,
					Piece:       piece,
				})
				pos += seg.Length
			}
		}
	}
	return labels
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.BarID, info.Piece)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text block on the left
	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(textX, y+labelPadding+1)
	pdf.CellFormat(textW, 5, info.Profile, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(textX, y+labelPadding+7)
	pdf.CellFormat(textW, 4, fmt.Sprintf("%.1f mm", info.Length), "", 0, "L", false, 0, "")

	pdf.SetXY(textX, y+labelPadding+12)
	pdf.CellFormat(textW, 4, fmt.Sprintf("%s / piece %d", info.BarID, info.Piece), "", 0, "L", false, 0, "")

	if info.WorkOrderID != "" {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(textX, y+labelPadding+17)
		pdf.CellFormat(textW, 4, "WO "+info.WorkOrderID, "", 0, "L", false, 0, "")
	}

	return nil
}
