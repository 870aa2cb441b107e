package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Mappings assigns zero-based column indexes to fields. Absent fields are skipped.
type Mappings map[Field]int

type suggestRule struct {
	field Field
	match func(h string) bool
}

func containsAny(subs ...string) func(string) bool {
	return func(h string) bool {
		for _, s := range subs {
			if strings.Contains(h, s) {
				return true
			}
		}

		return false
	}
}

// suggestRules is ordered; the first matching rule claims the header.
var suggestRules = []suggestRule{
	{FieldDate, containsAny("date")},
	{FieldSource, containsAny("source", "program", "card")},
	{FieldPoints, func(h string) bool { return strings.Contains(h, "point") && !strings.Contains(h, "cpp") }},
	{FieldValue, containsAny("value", "amount", "cost")},
	{FieldTaxes, containsAny("tax", "fee")},
	{FieldNotes, containsAny("note", "description", "comment")},
	{FieldIsTravelCredit, containsAny("credit", "free", "award")},
}

// SuggestMappings guesses a field for each header. When two headers match the same
// field the later one wins.
func SuggestMappings(headers []string) Mappings {
	m := make(Mappings)

	for i, h := range headers {
		lower := strings.ToLower(h)

		for _, rule := range suggestRules {
			if rule.match(lower) {
				m[rule.field] = i
				break
			}
		}
	}

	return m
}

// Missing returns the required fields without a column, in catalog order.
func (m Mappings) Missing() []Field {
	var missing []Field

	for _, f := range requiredFields {
		if _, ok := m[f]; !ok {
			missing = append(missing, f)
		}
	}

	return missing
}

// ParseMappings decodes the columnMappings form value. Values may be integers or
// numeric strings; null and "" skip the field. Unknown keys are ignored.
func ParseMappings(raw string) (Mappings, error) {
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMappings, err)
	}

	m := make(Mappings)

	for key, val := range decoded {
		f := Field(key)
		if !knownField(f) {
			continue
		}

		idx, skip, err := parseIndex(val)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidMappings, key, err)
		}

		if skip {
			continue
		}

		m[f] = idx
	}

	return m, nil
}

func parseIndex(val json.RawMessage) (idx int, skip bool, err error) {
	var v any
	if err := json.Unmarshal(val, &v); err != nil {
		return 0, false, err
	}

	var s string

	switch x := v.(type) {
	case nil:
		return 0, true, nil
	case string:
		s = strings.TrimSpace(x)
		if s == "" {
			return 0, true, nil
		}
	case float64:
		s = string(val)
	default:
		return 0, false, fmt.Errorf("unexpected value %s", val)
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("column index %q is not an integer", s)
	}

	if n < 0 {
		return 0, false, fmt.Errorf("column index %d is negative", n)
	}

	return n, false, nil
}
