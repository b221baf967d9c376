package models

import (
	"testing"
	"time"
)

func TestBuildFiltersFromQuestions(t *testing.T) {
	questions := QuestionList{
		{
			Question:     "Which employment types are in scope?",
			AnswerColumn: StringList{"Employment Type"},
			Type:         QuestionTypeMultiselect,
			Answer:       StringList{"Full-time", "Part-time"},
		},
		{
			Question:     "Unanswered text question",
			AnswerColumn: StringList{"Title"},
			Type:         QuestionTypeText,
		},
	}

	filters := BuildFiltersFromQuestions(questions, nil)
	if len(filters) != 1 {
		t.Fatalf("expected 1 filter, got %d: %v", len(filters), filters)
	}
	f := filters[0]
	if f.Column != "Employment Type" || f.Condition != FilterConditionIsAnyOf {
		t.Fatalf("unexpected filter: %+v", f)
	}
	if len(f.Value) != 2 {
		t.Fatalf("filter should carry both answers, got %v", f.Value)
	}
}

func TestBuildFiltersDateRangeFallsBackToAuditWindow(t *testing.T) {
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	audit := &Audit{
		AsOfDate:      &asOf,
		Configuration: JSONMap{"review_period_start": "01/01/2025"},
	}
	questions := QuestionList{
		{
			Question:     "What period does this population cover?",
			AnswerColumn: StringList{"Start Date"},
			Type:         QuestionTypeDateRange,
		},
	}

	filters := BuildFiltersFromQuestions(questions, audit)
	if len(filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(filters))
	}
	f := filters[0]
	if f.Condition != FilterConditionIsBetween {
		t.Fatalf("condition = %s, want is_between", f.Condition)
	}
	if len(f.Value) != 1 || f.Value[0] != "01/01/2025,06/30/2025" {
		t.Fatalf("value = %v, want audit window", f.Value)
	}

	// No audit window means the unanswered question is skipped.
	if got := BuildFiltersFromQuestions(questions, nil); len(got) != 0 {
		t.Fatalf("expected no filters without an audit, got %v", got)
	}
}

func TestBuildFiltersHonorsOperatorAndColumns(t *testing.T) {
	op := FilterConditionIsBefore
	questions := QuestionList{
		{
			Question:     "Hired before?",
			AnswerColumn: StringList{"Start Date", "End Date"},
			Type:         QuestionTypeDateRange,
			Operator:     &op,
			Answer:       StringList{"03/01/2025"},
		},
	}

	filters := BuildFiltersFromQuestions(questions, nil)
	if len(filters) != 2 {
		t.Fatalf("one filter per answer column, got %d", len(filters))
	}
	for _, f := range filters {
		if f.Condition != FilterConditionIsBefore {
			t.Fatalf("condition = %s, want is_before", f.Condition)
		}
	}
	if filters[0].Column != "Start Date" || filters[1].Column != "End Date" {
		t.Fatalf("columns = %s,%s", filters[0].Column, filters[1].Column)
	}
}
