package models

import "testing"

func TestValidateRowCollectsAllErrors(t *testing.T) {
	schema, err := GetManualSchema(PopulationDisplayIdCurrentEmployees)
	if err != nil {
		t.Fatalf("GetManualSchema: %v", err)
	}

	raw := map[string]string{
		"Name":            "",
		"Email":           "not-an-email",
		"Title":           "Engineer",
		"Employment Type": "Volunteer",
		"Start Date":      "bad date",
	}
	formatted, rowErrors := ValidateRow(schema, raw, 3, FieldContext{})
	if formatted != nil {
		t.Fatalf("invalid row should not produce formatted output")
	}
	if len(rowErrors) != 4 {
		t.Fatalf("expected 4 row errors, got %d: %v", len(rowErrors), rowErrors)
	}
	for _, re := range rowErrors {
		if re.RowIndex != 3 {
			t.Errorf("row error index = %d, want 3", re.RowIndex)
		}
		if re.Address == "" {
			t.Errorf("row error for %s has no cell address", re.Field)
		}
	}
}

func TestValidateRowFormatsValidRow(t *testing.T) {
	schema, err := GetManualSchema(PopulationDisplayIdCurrentEmployees)
	if err != nil {
		t.Fatalf("GetManualSchema: %v", err)
	}
	fc := FieldContext{UserExists: func(email string) bool { return true }}

	raw := map[string]string{
		"Name":            " Ana Gomez ",
		"Email":           "Ana@Example.com",
		"Title":           "Engineer",
		"Employment Type": "FULL-TIME",
		"Start Date":      "2025-01-15",
	}
	formatted, rowErrors := ValidateRow(schema, raw, 2, fc)
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	want := JSONMap{
		"Name":            "Ana Gomez",
		"Email":           "ana@example.com",
		"Title":           "Engineer",
		"Employment Type": "Full-time",
		"Start Date":      "01/15/2025",
	}
	if len(formatted) != len(want) {
		t.Fatalf("formatted = %v, want %v", formatted, want)
	}
	for k, v := range want {
		if formatted[k] != v {
			t.Errorf("formatted[%q] = %q, want %q", k, formatted[k], v)
		}
	}
}
