// Package importer provides CSV and Excel import of demand rows. It supports
// automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/barcut/internal/model"
)

// ImportResult holds the results of an import operation. Rows are raw,
// unvalidated inputs; the normalizer applies the business bounds later.
type ImportResult struct {
	Rows     []model.ItemInput
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Profile   int
	Length    int
	Quantity  int
	Tolerance int
	Priority  int
	WorkOrder int
	Color     int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"profile":   {"profile", "profile type", "profile_type", "material", "extrusion", "section", "type"},
	"length":    {"length", "len", "l", "size", "mm"},
	"quantity":  {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"tolerance": {"tolerance", "tol", "+/-"},
	"priority":  {"priority", "prio", "rank"},
	"workorder": {"work order", "work_order", "workorder", "wo", "order", "order id", "job"},
	"color":     {"color", "colour", "finish", "coating"},
}

// DetectCSVDelimiter determines the most likely CSV delimiter by trying
// comma, semicolon, tab, and pipe. The delimiter producing the most
// consistent multi-column row shape wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping. Matching
// is case-insensitive against the known aliases. Returns the mapping and
// true if a header was detected, or a default positional mapping and false
// if not.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Profile:   -1,
		Length:    -1,
		Quantity:  -1,
		Tolerance: -1,
		Priority:  -1,
		WorkOrder: -1,
		Color:     -1,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					switch role {
					case "profile":
						if mapping.Profile == -1 {
							mapping.Profile = i
						}
					case "length":
						if mapping.Length == -1 {
							mapping.Length = i
						}
					case "quantity":
						if mapping.Quantity == -1 {
							mapping.Quantity = i
						}
					case "tolerance":
						if mapping.Tolerance == -1 {
							mapping.Tolerance = i
						}
					case "priority":
						if mapping.Priority == -1 {
							mapping.Priority = i
						}
					case "workorder":
						if mapping.WorkOrder == -1 {
							mapping.WorkOrder = i
						}
					case "color":
						if mapping.Color == -1 {
							mapping.Color = i
						}
					}
				}
			}
		}
	}

	if !isHeader {
		// Positional fallback: Profile, Length, Quantity, Tolerance, Priority, WorkOrder, Color
		return ColumnMapping{
			Profile:   0,
			Length:    1,
			Quantity:  2,
			Tolerance: 3,
			Priority:  4,
			WorkOrder: 5,
			Color:     6,
		}, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts an ItemInput from a row using the given column mapping.
// Returns the row, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.ItemInput, string, string) {
	profile := getCell(row, mapping.Profile)
	if profile == "" {
		return model.ItemInput{}, fmt.Sprintf("%s: Missing profile type", rowLabel), ""
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return model.ItemInput{}, fmt.Sprintf("%s: Missing length value", rowLabel), ""
	}
	length, err := strconv.ParseFloat(lengthStr, 64)
	if err != nil {
		return model.ItemInput{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr), ""
	}

	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr == "" {
		return model.ItemInput{}, fmt.Sprintf("%s: Missing quantity value", rowLabel), ""
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil {
		return model.ItemInput{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
	}

	if length <= 0 || qty <= 0 {
		return model.ItemInput{}, fmt.Sprintf("%s: Length and quantity must be positive", rowLabel), ""
	}

	item := model.ItemInput{
		Profile:     profile,
		Length:      length,
		Quantity:    qty,
		WorkOrderID: getCell(row, mapping.WorkOrder),
		Color:       getCell(row, mapping.Color),
	}

	var warning string
	if tolStr := getCell(row, mapping.Tolerance); tolStr != "" {
		tol, err := strconv.ParseFloat(tolStr, 64)
		if err != nil || tol < 0 {
			warning = fmt.Sprintf("%s: Invalid tolerance '%s', ignoring", rowLabel, tolStr)
		} else {
			item.Tolerance = tol
		}
	}
	if prioStr := getCell(row, mapping.Priority); prioStr != "" {
		prio, err := strconv.Atoi(prioStr)
		if err != nil || prio < 0 {
			warning = fmt.Sprintf("%s: Invalid priority '%s', ignoring", rowLabel, prioStr)
		} else {
			item.Priority = prio
		}
	}

	return item, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// importFromRows runs the shared row pipeline for both CSV and Excel input.
func importFromRows(records [][]string, rowKind string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}

	mapping, hasHeader := DetectColumns(records[0])
	start := 0
	if hasHeader {
		start = 1
	} else {
		result.Warnings = append(result.Warnings, "No header row detected, using positional columns")
	}

	for i := start; i < len(records); i++ {
		row := records[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowKind, i+1)

		item, errMsg, warning := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Rows = append(result.Rows, item)
	}

	if len(result.Rows) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}

// ImportCSV imports demand rows from a CSV file. It automatically detects
// the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports demand rows from a CSV reader with a known
// delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports demand rows from an Excel (.xlsx) file. Reads the
// first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Excel file is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}
