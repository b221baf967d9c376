package models

import (
	"context"
	"errors"

	"github.com/laikahq/audit_backend/utils"
)

// SourceGenerator produces population rows from a Laika-managed data source
// instead of an uploaded spreadsheet. Rows come back already shaped to the
// population's schema (formatted values, schema field names as keys).
type SourceGenerator interface {
	Kind() string
	Generate(ctx context.Context, organizationId string, displayId string) ([]JSONMap, error)
}

const SourceKindPeople = "People"

var sourceGenerators = map[string]SourceGenerator{
	SourceKindPeople: peopleGenerator{},
}

// GetSourceGenerator returns nil for unknown kinds; callers treat that as an
// unconnectable source.
func GetSourceGenerator(kind string) SourceGenerator {
	return sourceGenerators[kind]
}

// LaikaSourceDataExists reports whether a source would yield at least one
// valid row for this population. Unknown kinds and validation failures read
// as "no data detected" rather than errors.
func LaikaSourceDataExists(ctx context.Context, populationId int, sourceKind string) (bool, error) {
	population, err := GetAuditeePopulation(ctx, populationId)
	if err != nil {
		return false, err
	}

	generator := GetSourceGenerator(sourceKind)
	if generator == nil {
		return false, nil
	}

	rows, err := generator.Generate(ctx, population.OrganizationId, population.DisplayId)
	if err != nil {
		if errors.Is(err, utils.ErrorRowValidationFailed) {
			return false, nil
		}
		return false, err
	}
	return len(rows) > 0, nil
}

// peopleGenerator maps the organization directory onto the employee
// populations: current employees are people without an end date, terminated
// employees are people with one.
type peopleGenerator struct{}

func (peopleGenerator) Kind() string { return SourceKindPeople }

func (peopleGenerator) Generate(ctx context.Context, organizationId string, displayId string) ([]JSONMap, error) {
	schema, err := GetLaikaSchema(displayId)
	if err != nil {
		return nil, err
	}
	users, err := GetUsersInOrg(ctx, organizationId, true)
	if err != nil {
		return nil, err
	}
	fc := FieldContext{UserExists: DirectoryUserExists(ctx, organizationId)}
	rows, rowErrors := generatePeopleRows(schema, users, fc)
	if len(rowErrors) > 0 {
		return nil, utils.ErrorRowValidationFailed
	}
	return rows, nil
}

// generatePeopleRows is the pure core of the People generator. Every row goes
// through the row validator; a single invalid user rejects the whole batch so
// the caller persists nothing.
func generatePeopleRows(schema *Schema, users []*User, fc FieldContext) ([]JSONMap, []RowError) {
	terminated := schema.DisplayId == PopulationDisplayIdTerminatedEmployees

	rows := []JSONMap{}
	var rowErrors []RowError
	rowIndex := 2
	for _, user := range users {
		if terminated != (user.EndDate != nil) {
			continue
		}

		raw := make(map[string]string, len(schema.Fields))
		for _, field := range schema.Fields {
			raw[field.Name] = peopleFieldValue(field, user)
		}
		formatted, errs := ValidateRow(schema, raw, rowIndex, fc)
		rowIndex++
		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}
		rows = append(rows, formatted)
	}
	if len(rowErrors) > 0 {
		return nil, rowErrors
	}
	return rows, nil
}

func peopleFieldValue(field Field, user *User) string {
	switch field.Name {
	case "Name":
		return user.FullName()
	case "Email":
		return utils.DereferencePtr(user.Email)
	case "Title":
		return user.Title
	case "Employment Type":
		if user.EmploymentType != nil {
			return string(*user.EmploymentType)
		}
		return ""
	case "Start Date":
		if user.StartDate != nil {
			return user.StartDate.Format(dateOutputLayout)
		}
		return ""
	case "End Date":
		if user.EndDate != nil {
			return user.EndDate.Format(dateOutputLayout)
		}
		return ""
	}
	return ""
}
