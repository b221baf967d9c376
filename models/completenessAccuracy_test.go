package models

import (
	"errors"
	"testing"

	"github.com/laikahq/audit_backend/utils"
)

func TestCheckFileCapacity(t *testing.T) {
	tests := []struct {
		live    int
		adding  int
		wantErr bool
	}{
		{0, 5, false},
		{4, 1, false},
		{5, 1, true},
		{3, 3, true},
	}
	for _, tc := range tests {
		err := checkFileCapacity(tc.live, tc.adding)
		if tc.wantErr && !errors.Is(err, utils.ErrorMaxFilesExceeded) {
			t.Errorf("checkFileCapacity(%d, %d) = %v, want max files exceeded", tc.live, tc.adding, err)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("checkFileCapacity(%d, %d) = %v, want nil", tc.live, tc.adding, err)
		}
	}
}

func TestNextAvailableName(t *testing.T) {
	taken := map[string]bool{
		"report.xlsx":    true,
		"report(1).xlsx": true,
	}

	if got := nextAvailableName("fresh.xlsx", taken); got != "fresh.xlsx" {
		t.Fatalf("free name should pass through, got %q", got)
	}
	if got := nextAvailableName("report.xlsx", taken); got != "report(2).xlsx" {
		t.Fatalf("expected report(2).xlsx, got %q", got)
	}
	// Collision checks are case-insensitive.
	if got := nextAvailableName("Report.xlsx", taken); got != "Report(2).xlsx" {
		t.Fatalf("expected Report(2).xlsx, got %q", got)
	}
	// Names without an extension suffix the same way.
	taken["summary"] = true
	if got := nextAvailableName("summary", taken); got != "summary(1)" {
		t.Fatalf("expected summary(1), got %q", got)
	}
}
