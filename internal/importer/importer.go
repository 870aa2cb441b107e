package importer

import (
	"errors"
	"fmt"
	"strings"
)

// Field is a logical redemption attribute a CSV column can be mapped to.
type Field string

const (
	FieldDate           Field = "date"
	FieldSource         Field = "source"
	FieldPoints         Field = "points"
	FieldValue          Field = "value"
	FieldTaxes          Field = "taxes"
	FieldNotes          Field = "notes"
	FieldIsTravelCredit Field = "is_travel_credit"
)

type FieldDefinition struct {
	Key         Field  `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type FieldDefinitions struct {
	Required []FieldDefinition `json:"required"`
	Optional []FieldDefinition `json:"optional"`
}

var Catalog = FieldDefinitions{
	Required: []FieldDefinition{
		{Key: FieldSource, Label: "Source", Description: "Credit card or loyalty program name"},
		{Key: FieldPoints, Label: "Points", Description: "Number of points used (0 for travel credits)"},
	},
	Optional: []FieldDefinition{
		{Key: FieldDate, Label: "Date", Description: "Redemption date (YYYY-MM-DD or MM/DD/YYYY)"},
		{Key: FieldValue, Label: "Value", Description: "Cash value of the redemption in dollars"},
		{Key: FieldTaxes, Label: "Taxes & Fees", Description: "Taxes and fees paid out of pocket"},
		{Key: FieldNotes, Label: "Notes", Description: "Free-form notes"},
		{Key: FieldIsTravelCredit, Label: "Travel Credit/Free Night", Description: "Whether this is a travel credit or free night award"},
	},
}

// requiredFields is ordered; MissingMappingsError lists fields in this order.
var requiredFields = []Field{FieldSource, FieldPoints}

func knownField(f Field) bool {
	for _, group := range [][]FieldDefinition{Catalog.Required, Catalog.Optional} {
		for _, d := range group {
			if d.Key == f {
				return true
			}
		}
	}

	return false
}

var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidMappings = errors.New("invalid column mappings")
)

// MissingMappingsError reports required fields that have no column assigned.
type MissingMappingsError struct {
	Fields []Field
}

func (e *MissingMappingsError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}

	return "missing required field mappings: " + strings.Join(names, ", ")
}

// ValidationError rejects a whole import. Warnings are the non-fatal findings
// collected up to that point.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("found %d validation error(s)", len(e.Errors))
}
