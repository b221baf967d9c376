package models

import "testing"

func filterRow(values JSONMap) *PopulationData {
	return &PopulationData{Data: values}
}

func TestFilterMatchesConditions(t *testing.T) {
	row := JSONMap{
		"Title":      "Senior Engineer",
		"Email":      "ana@example.com",
		"Start Date": "01/15/2025",
		"Notes":      "",
	}

	tests := []struct {
		name   string
		filter ConfigurationFilter
		want   bool
	}{
		{"is match", ConfigurationFilter{Column: "Email", Condition: FilterConditionIs, Value: StringList{"ANA@example.com"}}, true},
		{"is miss", ConfigurationFilter{Column: "Email", Condition: FilterConditionIs, Value: StringList{"bob@example.com"}}, false},
		{"is_not", ConfigurationFilter{Column: "Email", Condition: FilterConditionIsNot, Value: StringList{"bob@example.com"}}, true},
		{"contains", ConfigurationFilter{Column: "Title", Condition: FilterConditionContains, Value: StringList{"engineer"}}, true},
		{"does_not_contain", ConfigurationFilter{Column: "Title", Condition: FilterConditionDoesNotContain, Value: StringList{"manager"}}, true},
		{"is_empty", ConfigurationFilter{Column: "Notes", Condition: FilterConditionIsEmpty}, true},
		{"is_not_empty", ConfigurationFilter{Column: "Title", Condition: FilterConditionIsNotEmpty}, true},
		{"is_any_of", ConfigurationFilter{Column: "Title", Condition: FilterConditionIsAnyOf, Value: StringList{"Manager", "senior engineer"}}, true},
		{"is_none_of", ConfigurationFilter{Column: "Title", Condition: FilterConditionIsNoneOf, Value: StringList{"Senior Engineer"}}, false},
		{"is_before", ConfigurationFilter{Column: "Start Date", Condition: FilterConditionIsBefore, Value: StringList{"02/01/2025"}}, true},
		{"is_after", ConfigurationFilter{Column: "Start Date", Condition: FilterConditionIsAfter, Value: StringList{"02/01/2025"}}, false},
		{"is_between", ConfigurationFilter{Column: "Start Date", Condition: FilterConditionIsBetween, Value: StringList{"01/01/2025", "01/31/2025"}}, true},
		{"is_between comma operand", ConfigurationFilter{Column: "Start Date", Condition: FilterConditionIsBetween, Value: StringList{"01/01/2025,01/31/2025"}}, true},
		{"is_between swapped bounds", ConfigurationFilter{Column: "Start Date", Condition: FilterConditionIsBetween, Value: StringList{"01/31/2025", "01/01/2025"}}, true},
		{"is_between outside", ConfigurationFilter{Column: "Start Date", Condition: FilterConditionIsBetween, Value: StringList{"02/01/2025", "02/28/2025"}}, false},
	}
	for _, tc := range tests {
		if got := tc.filter.Matches(row); got != tc.want {
			t.Errorf("%s: Matches = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFilterDateAgainstUnparsableCell(t *testing.T) {
	filter := ConfigurationFilter{Column: "Start Date", Condition: FilterConditionIsBefore, Value: StringList{"02/01/2025"}}
	if filter.Matches(JSONMap{"Start Date": "n/a"}) {
		t.Fatal("unparsable date cell should never match a date condition")
	}
}

func TestApplyFiltersConjunction(t *testing.T) {
	rows := []*PopulationData{
		filterRow(JSONMap{"Title": "Engineer", "Employment Type": "Full-time"}),
		filterRow(JSONMap{"Title": "Engineer", "Employment Type": "Intern"}),
		filterRow(JSONMap{"Title": "Manager", "Employment Type": "Full-time"}),
	}
	filters := []ConfigurationFilter{
		{Column: "Title", Condition: FilterConditionIs, Value: StringList{"Engineer"}},
		{Column: "Employment Type", Condition: FilterConditionIs, Value: StringList{"Full-time"}},
	}

	matched := ApplyFilters(rows, filters)
	if len(matched) != 1 {
		t.Fatalf("expected 1 row to survive both filters, got %d", len(matched))
	}
	if matched[0] != rows[0] {
		t.Fatal("wrong row survived")
	}

	// No filters is the identity view.
	if got := ApplyFilters(rows, nil); len(got) != len(rows) {
		t.Fatalf("no filters should return all rows, got %d", len(got))
	}

	// Applying the same filters twice yields the same view.
	again := ApplyFilters(matched, filters)
	if len(again) != len(matched) {
		t.Fatalf("re-filtering changed the view: %d vs %d", len(again), len(matched))
	}
}
