package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheet string, rows [][]string) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("NewSheet: %v", err)
		}
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("DeleteSheet: %v", err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return &buf
}

func passthroughTemplate(sheet string, headers ...string) Template {
	return Template{
		SheetName: sheet,
		Headers:   headers,
		Validate: func(raw map[string]string, rowIndex int) (map[string]string, []FailedRow) {
			return raw, nil
		},
	}
}

func TestParseMissingSheet(t *testing.T) {
	buf := buildWorkbook(t, "Other", [][]string{{"Name"}})

	results, err := Parse(buf, []Template{passthroughTemplate("Current Employees", "Name")})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	outcome := results["Current Employees"]
	if outcome == nil {
		t.Fatal("expected outcome for declared sheet")
	}
	if !strings.Contains(outcome.Error, "Missing sheet Current Employees") {
		t.Errorf("error = %q, want missing sheet marker", outcome.Error)
	}
}

func TestParseMissingHeader(t *testing.T) {
	buf := buildWorkbook(t, "Current Employees", [][]string{
		{"Name", "Email"},
		{"Ada", "ada@example.com"},
	})

	results, err := Parse(buf, []Template{passthroughTemplate("Current Employees", "Name", "Email", "Title")})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	outcome := results["Current Employees"]
	if !strings.Contains(outcome.Error, "Missing header Title") {
		t.Errorf("error = %q, want missing header marker", outcome.Error)
	}
}

func TestParseEmptyFile(t *testing.T) {
	buf := buildWorkbook(t, "Current Employees", [][]string{
		{"Name", "Email"},
	})

	results, err := Parse(buf, []Template{passthroughTemplate("Current Employees", "Name", "Email")})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	outcome := results["Current Employees"]
	if outcome.Error != "" {
		t.Fatalf("unexpected error: %q", outcome.Error)
	}
	if len(outcome.SuccessRows) != 0 || len(outcome.FailedRows) != 0 {
		t.Errorf("expected empty outcome, got %d success %d failed",
			len(outcome.SuccessRows), len(outcome.FailedRows))
	}
}

func TestParseSkipsBlankRowsAndCollectsFailures(t *testing.T) {
	buf := buildWorkbook(t, "Current Employees", [][]string{
		{"Name", "Email"},
		{"Ada", "ada@example.com"},
		{"", ""},
		{"", "no-name@example.com"},
	})

	tmpl := Template{
		SheetName: "Current Employees",
		Headers:   []string{"Name", "Email"},
		Validate: func(raw map[string]string, rowIndex int) (map[string]string, []FailedRow) {
			if raw["Name"] == "" {
				return nil, []FailedRow{{
					Type:      "required_field",
					Addresses: []string{CellAddress(0, rowIndex)},
				}}
			}
			return raw, nil
		},
	}

	results, err := Parse(buf, []Template{tmpl})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	outcome := results["Current Employees"]
	if len(outcome.SuccessRows) != 1 {
		t.Fatalf("success rows = %d, want 1", len(outcome.SuccessRows))
	}
	if outcome.SuccessRows[0]["Name"] != "Ada" {
		t.Errorf("success row = %v", outcome.SuccessRows[0])
	}
	if len(outcome.FailedRows) != 1 {
		t.Fatalf("failed rows = %d, want 1", len(outcome.FailedRows))
	}
	if got := outcome.FailedRows[0].Addresses[0]; got != "A4" {
		t.Errorf("failed address = %q, want A4", got)
	}
}

func TestCellAddress(t *testing.T) {
	if got := CellAddress(0, 1); got != "A1" {
		t.Errorf("CellAddress(0,1) = %q", got)
	}
	if got := CellAddress(3, 12); got != "D12" {
		t.Errorf("CellAddress(3,12) = %q", got)
	}
}
