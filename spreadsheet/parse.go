package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FailedRow describes one invalid row: the validation failure kind plus the
// cell addresses (e.g. "B3") that caused it.
type FailedRow struct {
	Type      string   `json:"type"`
	Addresses []string `json:"addresses"`
}

// Outcome is the per-sheet parse result. Error is set for structural
// problems ("Missing sheet ...", "Missing header ..."); otherwise rows are
// split into failures and normalized successes.
type Outcome struct {
	Error       string              `json:"error,omitempty"`
	FailedRows  []FailedRow         `json:"failed_rows,omitempty"`
	SuccessRows []map[string]string `json:"success_rows,omitempty"`
}

// Template declares what one sheet must look like. Validate is supplied by
// the caller and normalizes a raw row; it returns the formatted row or the
// failures found in it.
type Template struct {
	SheetName string
	Headers   []string
	Validate  func(raw map[string]string, rowIndex int) (map[string]string, []FailedRow)
}

// Parse opens a workbook and applies each template to its sheet. The result
// is keyed by sheet name. Structural errors (missing sheet/header) are
// reported in the Outcome, not as a Go error; the error return is reserved
// for unreadable files.
func Parse(r io.Reader, templates []Template) (map[string]*Outcome, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	results := make(map[string]*Outcome, len(templates))
	for _, tmpl := range templates {
		results[tmpl.SheetName] = parseSheet(f, tmpl)
	}
	return results, nil
}

func parseSheet(f *excelize.File, tmpl Template) *Outcome {
	outcome := &Outcome{}

	sheetIndex, err := f.GetSheetIndex(tmpl.SheetName)
	if err != nil || sheetIndex < 0 {
		outcome.Error = "Missing sheet " + tmpl.SheetName
		return outcome
	}

	rows, err := f.GetRows(tmpl.SheetName)
	if err != nil {
		outcome.Error = "Missing sheet " + tmpl.SheetName
		return outcome
	}
	if len(rows) == 0 {
		return outcome
	}

	header := rows[0]
	colIndex := make(map[string]int, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name != "" {
			colIndex[name] = i
		}
	}
	for _, want := range tmpl.Headers {
		if _, ok := colIndex[want]; !ok {
			outcome.Error = "Missing header " + want
			return outcome
		}
	}

	for i, row := range rows[1:] {
		if rowIsEmpty(row) {
			continue
		}
		// rowIndex is the 1-based workbook row (header is row 1).
		rowIndex := i + 2

		raw := make(map[string]string, len(tmpl.Headers))
		for _, h := range tmpl.Headers {
			idx := colIndex[h]
			if idx < len(row) {
				raw[h] = strings.TrimSpace(row[idx])
			} else {
				raw[h] = ""
			}
		}

		if tmpl.Validate == nil {
			outcome.SuccessRows = append(outcome.SuccessRows, raw)
			continue
		}
		formatted, failures := tmpl.Validate(raw, rowIndex)
		if len(failures) > 0 {
			outcome.FailedRows = append(outcome.FailedRows, failures...)
			continue
		}
		outcome.SuccessRows = append(outcome.SuccessRows, formatted)
	}

	return outcome
}

// CellAddress converts a zero-based column and a 1-based workbook row to an
// A1-style reference.
func CellAddress(col int, row int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return ""
	}
	return name
}

// ColumnIndex returns the zero-based position of a header within a template,
// or -1 when absent.
func ColumnIndex(tmpl Template, header string) int {
	for i, h := range tmpl.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
