package models

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/laikahq/audit_backend/spreadsheet"
	"github.com/laikahq/audit_backend/utils"
)

func TestPopulationStatusTransitions(t *testing.T) {
	tests := []struct {
		current PopulationStatus
		next    PopulationStatus
		reopen  int
		wantErr bool
	}{
		{PopulationStatusOpen, PopulationStatusOpen, 0, false},
		{PopulationStatusOpen, PopulationStatusSubmitted, 0, false},
		{PopulationStatusOpen, PopulationStatusAccepted, 0, false},
		{PopulationStatusSubmitted, PopulationStatusAccepted, 0, false},
		{PopulationStatusSubmitted, PopulationStatusOpen, 1, false},
		{PopulationStatusAccepted, PopulationStatusSubmitted, 0, false},
		{PopulationStatusAccepted, PopulationStatusOpen, 1, false},
	}
	for _, tc := range tests {
		reopen, err := transitionPopulationStatus(tc.current, tc.next)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s -> %s should be rejected", tc.current, tc.next)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tc.current, tc.next, err)
			continue
		}
		if reopen != tc.reopen {
			t.Errorf("%s -> %s: reopen delta = %d, want %d", tc.current, tc.next, reopen, tc.reopen)
		}
	}
}

func TestCheckFrozen(t *testing.T) {
	auditorCtx := utils.SetUserRoleInContext(context.Background(), string(UserRoleAuditor))
	auditeeCtx := utils.SetUserRoleInContext(context.Background(), string(UserRoleAuditee))

	open := AuditPopulation{Status: PopulationStatusOpen}
	if err := open.CheckFrozen(auditeeCtx); err != nil {
		t.Fatalf("open population should accept changes: %v", err)
	}

	submitted := AuditPopulation{Status: PopulationStatusSubmitted}
	if err := submitted.CheckFrozen(auditeeCtx); !errors.Is(err, utils.ErrorPopulationFrozen) {
		t.Fatalf("submitted population must be frozen for auditees: %v", err)
	}
	if err := submitted.CheckFrozen(auditorCtx); err != nil {
		t.Fatalf("auditors keep working on submitted populations: %v", err)
	}

	// Accepted freezes sampling and edits for everyone.
	accepted := AuditPopulation{Status: PopulationStatusAccepted}
	if err := accepted.CheckFrozen(auditorCtx); !errors.Is(err, utils.ErrorPopulationFrozen) {
		t.Fatalf("accepted population must be frozen for auditors: %v", err)
	}
	if err := accepted.CheckFrozen(auditeeCtx); !errors.Is(err, utils.ErrorPopulationFrozen) {
		t.Fatalf("accepted population must be frozen for auditees: %v", err)
	}
}

func TestDefaultSourceAllows(t *testing.T) {
	population := AuditPopulation{DefaultSource: "People, Payroll"}

	if !population.DefaultSourceAllows("People") {
		t.Fatal("People is in the default source list")
	}
	if !population.DefaultSourceAllows("Payroll") {
		t.Fatal("Payroll is in the default source list (comma separated)")
	}
	if population.DefaultSourceAllows("Contracts") {
		t.Fatal("Contracts is not in the default source list")
	}
	if (AuditPopulation{}).DefaultSourceAllows("People") {
		t.Fatal("an empty default source allows nothing")
	}
}

func TestCheckUploadOutcomeWrongTemplate(t *testing.T) {
	schema, err := GetManualSchema("POP-1")
	if err != nil {
		t.Fatal(err)
	}

	for _, outcome := range []*spreadsheet.Outcome{
		nil,
		{Error: "Missing sheet Current Employees"},
	} {
		err := checkUploadOutcome(schema, outcome)
		if !errors.Is(err, utils.ErrorIncorrectTemplate) {
			t.Fatalf("outcome %v: got %v, want incorrect template", outcome, err)
		}
		want := "Incorrect file. This population only accepts the template for Current Employees."
		if !strings.Contains(err.Error(), want) {
			t.Errorf("message = %q, want it to contain %q", err.Error(), want)
		}
	}
}

func TestCheckUploadOutcomeMissingHeaderAndEmpty(t *testing.T) {
	schema, err := GetManualSchema("POP-2")
	if err != nil {
		t.Fatal(err)
	}

	err = checkUploadOutcome(schema, &spreadsheet.Outcome{Error: "Missing header Termination Date"})
	if !errors.Is(err, utils.ErrorMissingSection) {
		t.Fatalf("missing header: got %v", err)
	}

	err = checkUploadOutcome(schema, &spreadsheet.Outcome{})
	if !errors.Is(err, utils.ErrorEmptyFile) {
		t.Fatalf("empty outcome: got %v", err)
	}

	err = checkUploadOutcome(schema, &spreadsheet.Outcome{
		SuccessRows: []map[string]string{{"Name": "Ada"}},
	})
	if err != nil {
		t.Fatalf("valid outcome: got %v", err)
	}
}
