package models

import (
	"errors"
	"testing"

	"github.com/laikahq/audit_backend/utils"
)

func TestFieldValidateRequired(t *testing.T) {
	field := Field{Name: "Name", Type: FieldTypeText, Required: true}

	if err := field.Validate("  ", FieldContext{}); !errors.Is(err, utils.ErrorRequiredField) {
		t.Fatalf("expected required-field error, got %v", err)
	}
	field.Required = false
	if err := field.Validate("", FieldContext{}); err != nil {
		t.Fatalf("optional empty cell should pass, got %v", err)
	}
}

func TestFieldValidateDate(t *testing.T) {
	field := Field{Name: "Start Date", Type: FieldTypeDate, Required: true}

	valid := []string{"2025-01-15", "01/15/2025", "1/5/2025", "Jan 2, 2025", "2-Jan-06"}
	for _, v := range valid {
		if err := field.Validate(v, FieldContext{}); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", v, err)
		}
	}
	invalid := []string{"15/01/2025", "not a date", "2025-13-01"}
	for _, v := range invalid {
		if err := field.Validate(v, FieldContext{}); !errors.Is(err, utils.ErrorInvalidDate) {
			t.Errorf("Validate(%q) = %v, want invalid-date", v, err)
		}
	}
}

func TestFieldValidateUser(t *testing.T) {
	field := Field{Name: "Email", Type: FieldTypeUser, Required: true}
	fc := FieldContext{UserExists: func(email string) bool {
		return email == "ana@example.com"
	}}

	if err := field.Validate("Ana@Example.com", fc); err != nil {
		t.Fatalf("directory match should pass regardless of case, got %v", err)
	}
	if err := field.Validate("bob@example.com", fc); !errors.Is(err, utils.ErrorUnknownUser) {
		t.Fatalf("expected unknown-user error, got %v", err)
	}
	if err := field.Validate("not-an-email", fc); !errors.Is(err, utils.ErrorUnknownUser) {
		t.Fatalf("expected unknown-user error for malformed address, got %v", err)
	}
}

func TestFieldValidateEmploymentType(t *testing.T) {
	field := Field{Name: "Employment Type", Type: FieldTypeEmploymentType, Required: true}

	if err := field.Validate("full-time", FieldContext{}); err != nil {
		t.Fatalf("case-insensitive option match should pass, got %v", err)
	}
	if err := field.Validate("Volunteer", FieldContext{}); !errors.Is(err, utils.ErrorInvalidEnumeration) {
		t.Fatalf("expected enumeration error, got %v", err)
	}
}

func TestFieldFormat(t *testing.T) {
	tests := []struct {
		field Field
		in    string
		want  string
	}{
		{Field{Type: FieldTypeDate}, "2025-01-15", "01/15/2025"},
		{Field{Type: FieldTypeDate}, "1/5/2025", "01/05/2025"},
		{Field{Type: FieldTypeUser}, "Ana@Example.COM", "ana@example.com"},
		{Field{Type: FieldTypeBoolean}, "Yes", "true"},
		{Field{Type: FieldTypeBoolean}, "no", "false"},
		{Field{Type: FieldTypeEmploymentType}, "full-time", "Full-time"},
		{Field{Type: FieldTypeText}, "  Ana  ", "Ana"},
	}
	for _, tc := range tests {
		if got := tc.field.Format(tc.in); got != tc.want {
			t.Errorf("Format(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSchemaRegistry(t *testing.T) {
	schema, err := GetManualSchema(PopulationDisplayIdCurrentEmployees)
	if err != nil {
		t.Fatalf("GetManualSchema: %v", err)
	}
	wantHeaders := []string{"Name", "Email", "Title", "Employment Type", "Start Date"}
	headers := schema.Headers()
	if len(headers) != len(wantHeaders) {
		t.Fatalf("headers = %v, want %v", headers, wantHeaders)
	}
	for i := range headers {
		if headers[i] != wantHeaders[i] {
			t.Fatalf("headers = %v, want %v", headers, wantHeaders)
		}
	}

	terminated, err := GetLaikaSchema(PopulationDisplayIdTerminatedEmployees)
	if err != nil {
		t.Fatalf("GetLaikaSchema: %v", err)
	}
	if terminated.Fields[len(terminated.Fields)-1].Name != "End Date" {
		t.Fatalf("terminated schema should end with End Date, got %v", terminated.Headers())
	}

	if _, err := GetManualSchema("POP-99"); !errors.Is(err, utils.ErrorPopulationNotFound) {
		t.Fatalf("unknown display id should fail, got %v", err)
	}
}
