package models

import (
	"errors"
	"io"
	"strconv"
)

type PopulationStatus string

const (
	PopulationStatusOpen      PopulationStatus = "open"
	PopulationStatusSubmitted PopulationStatus = "submitted"
	PopulationStatusAccepted  PopulationStatus = "accepted"
)

// convert enum to send response
func (t PopulationStatus) MarshalGQL(w io.Writer) {
	w.Write([]byte(strconv.Quote(string(t))))
}

// convert input to enum type
func (t *PopulationStatus) UnmarshalGQL(i interface{}) error {
	str, ok := i.(string)
	if !ok {
		return errors.New("population status must be string")
	}
	switch str {
	case "open":
		*t = PopulationStatusOpen
	case "submitted":
		*t = PopulationStatusSubmitted
	case "accepted":
		*t = PopulationStatusAccepted
	default:
		return errors.New("invalid population status")
	}
	return nil
}

type PopulationSource string

const (
	PopulationSourceManual PopulationSource = "manual"
	PopulationSourceLaika  PopulationSource = "laika_source"
)

func (t PopulationSource) MarshalGQL(w io.Writer) {
	w.Write([]byte(strconv.Quote(string(t))))
}

func (t *PopulationSource) UnmarshalGQL(i interface{}) error {
	str, ok := i.(string)
	if !ok {
		return errors.New("population source must be string")
	}
	switch str {
	case "manual":
		*t = PopulationSourceManual
	case "laika_source":
		*t = PopulationSourceLaika
	default:
		return errors.New("invalid population source")
	}
	return nil
}

type EvidenceStatus string

const (
	EvidenceStatusOpen            EvidenceStatus = "open"
	EvidenceStatusSubmitted       EvidenceStatus = "submitted"
	EvidenceStatusAuditorAccepted EvidenceStatus = "auditor_accepted"
	EvidenceStatusPending         EvidenceStatus = "pending"
)

func (t EvidenceStatus) MarshalGQL(w io.Writer) {
	w.Write([]byte(strconv.Quote(string(t))))
}

func (t *EvidenceStatus) UnmarshalGQL(i interface{}) error {
	str, ok := i.(string)
	if !ok {
		return errors.New("evidence status must be string")
	}
	evidenceStatuses := map[string]EvidenceStatus{
		"open":             EvidenceStatusOpen,
		"submitted":        EvidenceStatusSubmitted,
		"auditor_accepted": EvidenceStatusAuditorAccepted,
		"pending":          EvidenceStatusPending,
	}
	*t, ok = evidenceStatuses[str]
	if !ok {
		return errors.New("invalid evidence status")
	}
	return nil
}

type EvidenceType string

const (
	EvidenceTypeSample   EvidenceType = "sample"
	EvidenceTypeDocument EvidenceType = "document"
)

func (t EvidenceType) MarshalGQL(w io.Writer) {
	w.Write([]byte(strconv.Quote(string(t))))
}

func (t *EvidenceType) UnmarshalGQL(i interface{}) error {
	str, ok := i.(string)
	if !ok {
		return errors.New("evidence type must be string")
	}
	switch str {
	case "sample":
		*t = EvidenceTypeSample
	case "document":
		*t = EvidenceTypeDocument
	default:
		return errors.New("invalid evidence type")
	}
	return nil
}

// FieldType classifies a schema column for validation and formatting.
type FieldType string

const (
	FieldTypeText           FieldType = "TEXT"
	FieldTypeDate           FieldType = "DATE"
	FieldTypeUser           FieldType = "USER"
	FieldTypeBoolean        FieldType = "BOOLEAN"
	FieldTypeEmploymentType FieldType = "EMPLOYMENT_TYPE"
	FieldTypeMultiselect    FieldType = "MULTISELECT"
)

func (t FieldType) MarshalGQL(w io.Writer) {
	w.Write([]byte(strconv.Quote(string(t))))
}

func (t *FieldType) UnmarshalGQL(i interface{}) error {
	str, ok := i.(string)
	if !ok {
		return errors.New("field type must be string")
	}
	fieldTypes := map[string]FieldType{
		"TEXT":            FieldTypeText,
		"DATE":            FieldTypeDate,
		"USER":            FieldTypeUser,
		"BOOLEAN":         FieldTypeBoolean,
		"EMPLOYMENT_TYPE": FieldTypeEmploymentType,
		"MULTISELECT":     FieldTypeMultiselect,
	}
	*t, ok = fieldTypes[str]
	if !ok {
		return errors.New("invalid field type")
	}
	return nil
}

// QuestionType is the tagged variant for configuration questions. DATE_RANGE
// is the only type that carries an operator.
type QuestionType string

const (
	QuestionTypeText        QuestionType = "TEXT"
	QuestionTypeDate        QuestionType = "DATE"
	QuestionTypeDateRange   QuestionType = "DATE_RANGE"
	QuestionTypeMultiselect QuestionType = "MULTISELECT"
	QuestionTypeUser        QuestionType = "USER"
	QuestionTypeBoolean     QuestionType = "BOOLEAN"
)

func (t QuestionType) MarshalGQL(w io.Writer) {
	w.Write([]byte(strconv.Quote(string(t))))
}

func (t *QuestionType) UnmarshalGQL(i interface{}) error {
	str, ok := i.(string)
	if !ok {
		return errors.New("question type must be string")
	}
	questionTypes := map[string]QuestionType{
		"TEXT":        QuestionTypeText,
		"DATE":        QuestionTypeDate,
		"DATE_RANGE":  QuestionTypeDateRange,
		"MULTISELECT": QuestionTypeMultiselect,
		"USER":        QuestionTypeUser,
		"BOOLEAN":     QuestionTypeBoolean,
	}
	*t, ok = questionTypes[str]
	if !ok {
		return errors.New("invalid question type")
	}
	return nil
}

// FilterCondition is the canonical operator set. UI strings ("does not
// contain") are canonicalized on ingest, never on read.
type FilterCondition string

const (
	FilterConditionContains       FilterCondition = "contains"
	FilterConditionDoesNotContain FilterCondition = "does_not_contain"
	FilterConditionIs             FilterCondition = "is"
	FilterConditionIsNot          FilterCondition = "is_not"
	FilterConditionIsEmpty        FilterCondition = "is_empty"
	FilterConditionIsNotEmpty     FilterCondition = "is_not_empty"
	FilterConditionIsBefore       FilterCondition = "is_before"
	FilterConditionIsAfter        FilterCondition = "is_after"
	FilterConditionIsBetween      FilterCondition = "is_between"
	FilterConditionIsAnyOf        FilterCondition = "is_any_of"
	FilterConditionIsNoneOf       FilterCondition = "is_none_of"
)

func (t FilterCondition) MarshalGQL(w io.Writer) {
	w.Write([]byte(strconv.Quote(string(t))))
}

func (t *FilterCondition) UnmarshalGQL(i interface{}) error {
	str, ok := i.(string)
	if !ok {
		return errors.New("filter condition must be string")
	}
	cond, ok := CanonicalFilterCondition(str)
	if !ok {
		return errors.New("invalid filter condition")
	}
	*t = cond
	return nil
}

// CanonicalFilterCondition accepts both the canonical spelling and the UI
// operator labels.
func CanonicalFilterCondition(s string) (FilterCondition, bool) {
	conditions := map[string]FilterCondition{
		"contains":         FilterConditionContains,
		"does_not_contain": FilterConditionDoesNotContain,
		"does not contain": FilterConditionDoesNotContain,
		"is":               FilterConditionIs,
		"is_not":           FilterConditionIsNot,
		"is not":           FilterConditionIsNot,
		"is_empty":         FilterConditionIsEmpty,
		"is empty":         FilterConditionIsEmpty,
		"is_not_empty":     FilterConditionIsNotEmpty,
		"is not empty":     FilterConditionIsNotEmpty,
		"is_before":        FilterConditionIsBefore,
		"is before":        FilterConditionIsBefore,
		"is_after":         FilterConditionIsAfter,
		"is after":         FilterConditionIsAfter,
		"is_between":       FilterConditionIsBetween,
		"is between":       FilterConditionIsBetween,
		"is_any_of":        FilterConditionIsAnyOf,
		"is any of":        FilterConditionIsAnyOf,
		"is_none_of":       FilterConditionIsNoneOf,
		"is none of":       FilterConditionIsNoneOf,
	}
	cond, ok := conditions[s]
	return cond, ok
}

type EmploymentType string

const (
	EmploymentTypeFullTime   EmploymentType = "Full-time"
	EmploymentTypePartTime   EmploymentType = "Part-time"
	EmploymentTypeContractor EmploymentType = "Contractor"
	EmploymentTypeIntern     EmploymentType = "Intern"
)

// EmploymentTypeValues is the allowed set for EMPLOYMENT_TYPE columns.
func EmploymentTypeValues() []string {
	return []string{
		string(EmploymentTypeFullTime),
		string(EmploymentTypePartTime),
		string(EmploymentTypeContractor),
		string(EmploymentTypeIntern),
	}
}

func (t EmploymentType) MarshalGQL(w io.Writer) {
	w.Write([]byte(strconv.Quote(string(t))))
}

func (t *EmploymentType) UnmarshalGQL(i interface{}) error {
	str, ok := i.(string)
	if !ok {
		return errors.New("employment type must be string")
	}
	employmentTypes := map[string]EmploymentType{
		"Full-time":  EmploymentTypeFullTime,
		"Part-time":  EmploymentTypePartTime,
		"Contractor": EmploymentTypeContractor,
		"Intern":     EmploymentTypeIntern,
	}
	*t, ok = employmentTypes[str]
	if !ok {
		return errors.New("invalid employment type")
	}
	return nil
}

type UserRole string

const (
	UserRoleAuditee   UserRole = "auditee"
	UserRoleAuditor   UserRole = "auditor"
	UserRoleConcierge UserRole = "concierge"
)

func (t UserRole) MarshalGQL(w io.Writer) {
	w.Write([]byte(strconv.Quote(string(t))))
}

func (t *UserRole) UnmarshalGQL(i interface{}) error {
	str, ok := i.(string)
	if !ok {
		return errors.New("user role must be string")
	}
	switch str {
	case "auditee":
		*t = UserRoleAuditee
	case "auditor":
		*t = UserRoleAuditor
	case "concierge":
		*t = UserRoleConcierge
	default:
		return errors.New("invalid user role")
	}
	return nil
}

// PopulationJobType names the background jobs dispatched through the outbox.
type PopulationJobType string

const (
	PopulationJobTypeCAGeneration PopulationJobType = "ca_generation"
)

type OutboxPublishStatus string

const (
	OutboxPublishStatusPending    OutboxPublishStatus = "pending"
	OutboxPublishStatusProcessing OutboxPublishStatus = "processing"
	OutboxPublishStatusPublished  OutboxPublishStatus = "published"
	OutboxPublishStatusFailed     OutboxPublishStatus = "failed"
	OutboxPublishStatusDead       OutboxPublishStatus = "dead"
)
