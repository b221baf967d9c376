package models

import (
	"github.com/laikahq/audit_backend/spreadsheet"
)

// ValidateRow applies a schema to one raw row. Errors are collected for every
// field (no short-circuit); the formatted row is only returned when the row
// is fully valid, and its keys are exactly the schema's field names.
func ValidateRow(schema *Schema, raw map[string]string, rowIndex int, fc FieldContext) (JSONMap, []RowError) {
	var rowErrors []RowError

	for col, field := range schema.Fields {
		value := raw[field.Name]
		if err := field.Validate(value, fc); err != nil {
			address := spreadsheet.CellAddress(col, rowIndex)
			rowErrors = append(rowErrors, newRowError(field.Name, rowIndex, address, err))
		}
	}
	if len(rowErrors) > 0 {
		return nil, rowErrors
	}

	formatted := make(JSONMap, len(schema.Fields))
	for _, field := range schema.Fields {
		formatted[field.Name] = field.Format(raw[field.Name])
	}
	return formatted, nil
}

// rowValidatorTemplate adapts a schema into the spreadsheet parser's template
// contract, batching failures as typed failed rows.
func rowValidatorTemplate(schema *Schema, fc FieldContext) spreadsheet.Template {
	return spreadsheet.Template{
		SheetName: schema.SheetName,
		Headers:   schema.Headers(),
		Validate: func(raw map[string]string, rowIndex int) (map[string]string, []spreadsheet.FailedRow) {
			formatted, rowErrors := ValidateRow(schema, raw, rowIndex, fc)
			if len(rowErrors) > 0 {
				failures := make([]spreadsheet.FailedRow, 0, len(rowErrors))
				for _, re := range rowErrors {
					failures = append(failures, spreadsheet.FailedRow{
						Type:      re.Message,
						Addresses: []string{re.Address},
					})
				}
				return nil, failures
			}
			return formatted, nil
		},
	}
}
