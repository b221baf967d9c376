package models

import (
	"strings"
)

// ConfigurationQuestion is one saved population question. AnswerColumn names
// the population columns the answer constrains (usually one). Operator is
// only meaningful for DATE_RANGE questions and defaults to is_between.
type ConfigurationQuestion struct {
	Question     string           `json:"question"`
	AnswerColumn StringList       `json:"answer_column"`
	Type         QuestionType     `json:"type"`
	Operator     *FilterCondition `json:"operator,omitempty"`
	Answer       StringList       `json:"answer,omitempty"`
}

func (q ConfigurationQuestion) answered() bool {
	for _, a := range q.Answer {
		if strings.TrimSpace(a) != "" {
			return true
		}
	}
	return false
}

// BuildFiltersFromQuestions translates answered questions into stored
// filters. Unanswered questions contribute nothing, except DATE_RANGE
// questions, which fall back to the audit's review window.
func BuildFiltersFromQuestions(questions QuestionList, audit *Audit) FilterList {
	filters := FilterList{}
	for _, q := range questions {
		answer := q.Answer
		if !q.answered() {
			if q.Type != QuestionTypeDateRange || audit == nil {
				continue
			}
			window := audit.AsOfDateRange()
			if window == "" {
				continue
			}
			answer = StringList{window}
		}

		condition := questionCondition(q)
		for _, column := range q.AnswerColumn {
			filters = append(filters, ConfigurationFilter{
				Column:    column,
				Condition: condition,
				Value:     answer,
			})
		}
	}
	return filters
}

func questionCondition(q ConfigurationQuestion) FilterCondition {
	switch q.Type {
	case QuestionTypeMultiselect:
		return FilterConditionIsAnyOf
	case QuestionTypeDateRange:
		if q.Operator != nil {
			return *q.Operator
		}
		return FilterConditionIsBetween
	}
	return FilterConditionIs
}
