package models

import (
	"strings"
	"time"

	"github.com/laikahq/audit_backend/utils"
)

// Field is one column of a population schema. Options holds the allowed set
// for enumerated types (MULTISELECT, EMPLOYMENT_TYPE).
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Options  []string
}

// Schema is the per-population definition of ordered fields. SearchField is
// the column whose value names samples and backs substring search.
type Schema struct {
	DisplayId   string
	SheetName   string
	HeaderTitle string
	SearchField string
	Fields      []Field
}

func (s Schema) Headers() []string {
	headers := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		headers[i] = f.Name
	}
	return headers
}

func (s Schema) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// FieldContext carries the external lookups field validation needs. UserExists
// resolves an email against the audit's organization directory (super-admin
// excluded).
type FieldContext struct {
	UserExists func(email string) bool
}

// RowError is one structured validation failure.
type RowError struct {
	Field    string `json:"field"`
	RowIndex int    `json:"row_index"`
	Address  string `json:"address"`
	Kind     error  `json:"-"`
	Message  string `json:"message"`
}

func newRowError(field string, rowIndex int, address string, kind error) RowError {
	return RowError{
		Field:    field,
		RowIndex: rowIndex,
		Address:  address,
		Kind:     kind,
		Message:  kind.Error(),
	}
}

// dateInputLayouts are the accepted spellings for DATE cells. The first match
// wins; output is always normalized to MM/DD/YYYY.
var dateInputLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"Jan 2, 2006",
	"2-Jan-06",
	"2006-01-02T15:04:05Z07:00",
}

const dateOutputLayout = "01/02/2006"

func parseDateValue(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Validate checks one cell against the field's rules. Empty optional cells
// pass; everything else is type-checked.
func (f Field) Validate(value string, fc FieldContext) error {
	value = strings.TrimSpace(value)
	if value == "" {
		if f.Required {
			return utils.ErrorRequiredField
		}
		return nil
	}

	switch f.Type {
	case FieldTypeText:
		return nil
	case FieldTypeDate:
		if _, ok := parseDateValue(value); !ok {
			return utils.ErrorInvalidDate
		}
		return nil
	case FieldTypeUser:
		if !utils.IsValidEmail(value) {
			return utils.ErrorUnknownUser
		}
		if fc.UserExists != nil && !fc.UserExists(strings.ToLower(value)) {
			return utils.ErrorUnknownUser
		}
		return nil
	case FieldTypeBoolean:
		switch strings.ToLower(value) {
		case "true", "false", "yes", "no":
			return nil
		}
		return utils.ErrorInvalidEnumeration
	case FieldTypeEmploymentType, FieldTypeMultiselect:
		options := f.Options
		if f.Type == FieldTypeEmploymentType && len(options) == 0 {
			options = EmploymentTypeValues()
		}
		for _, opt := range options {
			if strings.EqualFold(opt, value) {
				return nil
			}
		}
		return utils.ErrorInvalidEnumeration
	}
	return nil
}

// Format normalizes a validated cell for storage.
func (f Field) Format(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	switch f.Type {
	case FieldTypeDate:
		if t, ok := parseDateValue(value); ok {
			return t.Format(dateOutputLayout)
		}
		return value
	case FieldTypeUser:
		return strings.ToLower(value)
	case FieldTypeBoolean:
		switch strings.ToLower(value) {
		case "true", "yes":
			return "true"
		default:
			return "false"
		}
	case FieldTypeEmploymentType, FieldTypeMultiselect:
		options := f.Options
		if f.Type == FieldTypeEmploymentType && len(options) == 0 {
			options = EmploymentTypeValues()
		}
		for _, opt := range options {
			if strings.EqualFold(opt, value) {
				return opt
			}
		}
		return value
	}
	return value
}

/* schema registries */

const (
	PopulationDisplayIdCurrentEmployees    = "POP-1"
	PopulationDisplayIdTerminatedEmployees = "POP-2"
)

func currentEmployeeFields(dateColumn string) []Field {
	return []Field{
		{Name: "Name", Type: FieldTypeText, Required: true},
		{Name: "Email", Type: FieldTypeUser, Required: true},
		{Name: "Title", Type: FieldTypeText, Required: true},
		{Name: "Employment Type", Type: FieldTypeEmploymentType, Required: true},
		{Name: dateColumn, Type: FieldTypeDate, Required: true},
	}
}

var manualSchemas = map[string]Schema{
	PopulationDisplayIdCurrentEmployees: {
		DisplayId:   PopulationDisplayIdCurrentEmployees,
		SheetName:   "Current Employees",
		HeaderTitle: "Current Employees",
		SearchField: "Name",
		Fields:      currentEmployeeFields("Start Date"),
	},
	PopulationDisplayIdTerminatedEmployees: {
		DisplayId:   PopulationDisplayIdTerminatedEmployees,
		SheetName:   "Terminated Employees",
		HeaderTitle: "Terminated Employees",
		SearchField: "Name",
		Fields:      currentEmployeeFields("End Date"),
	},
}

var laikaSchemas = map[string]Schema{
	PopulationDisplayIdCurrentEmployees: {
		DisplayId:   PopulationDisplayIdCurrentEmployees,
		SheetName:   "Current Employees",
		HeaderTitle: "Current Employees",
		SearchField: "Name",
		Fields:      currentEmployeeFields("Start Date"),
	},
	PopulationDisplayIdTerminatedEmployees: {
		DisplayId:   PopulationDisplayIdTerminatedEmployees,
		SheetName:   "Terminated Employees",
		HeaderTitle: "Terminated Employees",
		SearchField: "Name",
		Fields:      currentEmployeeFields("End Date"),
	},
}

// GetManualSchema returns the upload schema for a population display id.
func GetManualSchema(displayId string) (*Schema, error) {
	schema, ok := manualSchemas[displayId]
	if !ok {
		return nil, utils.ErrorPopulationNotFound
	}
	return &schema, nil
}

// GetLaikaSchema returns the generated-source schema for a display id.
func GetLaikaSchema(displayId string) (*Schema, error) {
	schema, ok := laikaSchemas[displayId]
	if !ok {
		return nil, utils.ErrorPopulationNotFound
	}
	return &schema, nil
}
