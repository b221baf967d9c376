package models

import (
	"testing"
	"time"
)

func directoryUsers() []*User {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	ft := EmploymentTypeFullTime
	ct := EmploymentTypeContractor
	ana := "ana@example.com"
	bob := "bob@example.com"

	return []*User{
		{FirstName: "Ana", LastName: "Gomez", Email: &ana, Title: "Engineer", EmploymentType: &ft, StartDate: &start},
		{FirstName: "Bob", Email: &bob, Title: "Analyst", EmploymentType: &ct, StartDate: &start, EndDate: &end},
	}
}

func TestGeneratePeopleRowsPartitionsByEndDate(t *testing.T) {
	current, err := GetLaikaSchema(PopulationDisplayIdCurrentEmployees)
	if err != nil {
		t.Fatalf("GetLaikaSchema: %v", err)
	}
	terminated, err := GetLaikaSchema(PopulationDisplayIdTerminatedEmployees)
	if err != nil {
		t.Fatalf("GetLaikaSchema: %v", err)
	}
	users := directoryUsers()

	currentRows, rowErrors := generatePeopleRows(current, users, FieldContext{})
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	if len(currentRows) != 1 {
		t.Fatalf("expected 1 current employee, got %d", len(currentRows))
	}
	row := currentRows[0]
	if row["Name"] != "Ana Gomez" || row["Email"] != "ana@example.com" {
		t.Fatalf("unexpected current row: %v", row)
	}
	if row["Employment Type"] != "Full-time" {
		t.Fatalf("employment type = %q, want Full-time", row["Employment Type"])
	}
	if row["Start Date"] != "03/01/2024" {
		t.Fatalf("start date = %q, want 03/01/2024", row["Start Date"])
	}

	terminatedRows, rowErrors := generatePeopleRows(terminated, users, FieldContext{})
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	if len(terminatedRows) != 1 {
		t.Fatalf("expected 1 terminated employee, got %d", len(terminatedRows))
	}
	if terminatedRows[0]["Name"] != "Bob" {
		t.Fatalf("unexpected terminated row: %v", terminatedRows[0])
	}
	if terminatedRows[0]["End Date"] != "02/28/2025" {
		t.Fatalf("end date = %q, want 02/28/2025", terminatedRows[0]["End Date"])
	}
}

func TestGeneratePeopleRowsKeysMatchSchema(t *testing.T) {
	schema, err := GetLaikaSchema(PopulationDisplayIdCurrentEmployees)
	if err != nil {
		t.Fatalf("GetLaikaSchema: %v", err)
	}
	rows, rowErrors := generatePeopleRows(schema, directoryUsers(), FieldContext{})
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	for _, row := range rows {
		if len(row) != len(schema.Fields) {
			t.Fatalf("row has %d keys, schema has %d fields", len(row), len(schema.Fields))
		}
		for _, field := range schema.Fields {
			if _, ok := row[field.Name]; !ok {
				t.Fatalf("row missing schema key %q", field.Name)
			}
		}
	}
}

func TestGeneratePeopleRowsRejectsBatchOnInvalidUser(t *testing.T) {
	schema, err := GetLaikaSchema(PopulationDisplayIdCurrentEmployees)
	if err != nil {
		t.Fatalf("GetLaikaSchema: %v", err)
	}
	users := directoryUsers()
	users[0].Title = ""

	rows, rowErrors := generatePeopleRows(schema, users, FieldContext{})
	if len(rowErrors) == 0 {
		t.Fatal("blank required Title should fail validation")
	}
	if rows != nil {
		t.Fatalf("no rows may survive a failed batch, got %d", len(rows))
	}
	if rowErrors[0].Field != "Title" {
		t.Fatalf("error field = %q, want Title", rowErrors[0].Field)
	}
}

func TestGetSourceGeneratorUnknownKind(t *testing.T) {
	if GetSourceGenerator("Payroll") != nil {
		t.Fatal("unknown kinds must resolve to no generator")
	}
}
