package models

import (
	"strings"
	"time"
)

// ConfigurationFilter is one stored predicate over a population column. Value
// carries zero, one, or many operands depending on the condition (is_between
// takes two dates, is_any_of takes a set).
type ConfigurationFilter struct {
	Column    string          `json:"column"`
	Condition FilterCondition `json:"condition"`
	Value     StringList      `json:"value"`
}

func (f ConfigurationFilter) firstValue() string {
	if len(f.Value) == 0 {
		return ""
	}
	return f.Value[0]
}

// Matches evaluates the filter against one stored row. Stored rows hold
// already-normalized values, so comparisons are plain; dates parse from the
// storage layout.
func (f ConfigurationFilter) Matches(row JSONMap) bool {
	value := strings.TrimSpace(row[f.Column])

	switch f.Condition {
	case FilterConditionIs:
		return strings.EqualFold(value, f.firstValue())
	case FilterConditionIsNot:
		return !strings.EqualFold(value, f.firstValue())
	case FilterConditionContains:
		return strings.Contains(strings.ToLower(value), strings.ToLower(f.firstValue()))
	case FilterConditionDoesNotContain:
		return !strings.Contains(strings.ToLower(value), strings.ToLower(f.firstValue()))
	case FilterConditionIsEmpty:
		return value == ""
	case FilterConditionIsNotEmpty:
		return value != ""
	case FilterConditionIsAnyOf:
		for _, v := range f.Value {
			if strings.EqualFold(value, v) {
				return true
			}
		}
		return false
	case FilterConditionIsNoneOf:
		for _, v := range f.Value {
			if strings.EqualFold(value, v) {
				return false
			}
		}
		return true
	case FilterConditionIsBefore, FilterConditionIsAfter, FilterConditionIsBetween:
		return f.matchesDate(value)
	}
	return false
}

func (f ConfigurationFilter) matchesDate(value string) bool {
	t, ok := parseDateValue(value)
	if !ok {
		return false
	}

	switch f.Condition {
	case FilterConditionIsBefore:
		bound, ok := parseDateValue(f.firstValue())
		return ok && t.Before(bound)
	case FilterConditionIsAfter:
		bound, ok := parseDateValue(f.firstValue())
		return ok && t.After(bound)
	case FilterConditionIsBetween:
		start, end, ok := f.betweenBounds()
		if !ok {
			return false
		}
		return !t.Before(start) && !t.After(end)
	}
	return false
}

func (f ConfigurationFilter) betweenBounds() (time.Time, time.Time, bool) {
	operands := f.Value
	// a single comma-separated operand is also accepted; date-range answers
	// arrive that way
	if len(operands) == 1 && strings.Contains(operands[0], ",") {
		operands = strings.SplitN(operands[0], ",", 2)
	}
	if len(operands) != 2 {
		return time.Time{}, time.Time{}, false
	}
	start, okStart := parseDateValue(strings.TrimSpace(operands[0]))
	end, okEnd := parseDateValue(strings.TrimSpace(operands[1]))
	if !okStart || !okEnd {
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		start, end = end, start
	}
	return start, end, true
}

// ApplyFilters is the conjunctive filter engine: a row survives only when it
// matches every filter. Filtering never mutates rows, so applying the same
// filters twice yields the same view.
func ApplyFilters(rows []*PopulationData, filters []ConfigurationFilter) []*PopulationData {
	if len(filters) == 0 {
		return rows
	}
	matched := make([]*PopulationData, 0, len(rows))
	for _, row := range rows {
		ok := true
		for _, filter := range filters {
			if !filter.Matches(row.Data) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, row)
		}
	}
	return matched
}
