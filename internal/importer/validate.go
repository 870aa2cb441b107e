package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
)

// rowCells holds the raw mapped cells of one data row.
type rowCells map[Field]string

func extract(row []string, m Mappings) rowCells {
	cells := make(rowCells, len(m))

	for f, idx := range m {
		if idx < len(row) {
			cells[f] = strings.TrimSpace(row[idx])
		}
	}

	return cells
}

// rowResult is the outcome of validating one row. params is only meaningful when
// errs is empty.
type rowResult struct {
	params   redemption.CreateParams
	errs     []string
	warnings []string
}

func (r *rowResult) errorf(row int, format string, args ...any) {
	r.errs = append(r.errs, fmt.Sprintf("Row %d: ", row)+fmt.Sprintf(format, args...))
}

func (r *rowResult) warnf(row int, format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf("Row %d: ", row)+fmt.Sprintf(format, args...))
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func validateRow(row int, cells rowCells, today time.Time) rowResult {
	var res rowResult

	res.params.Date = parseDateCell(&res, row, cells[FieldDate], today)

	res.params.Source = cells[FieldSource]
	if res.params.Source == "" {
		res.errorf(row, "Source is required")
	}

	travelCredit := parseBoolCell(&res, row, cells[FieldIsTravelCredit])
	res.params.IsTravelCredit = travelCredit

	res.params.Points = parsePointsCell(&res, row, cells[FieldPoints], travelCredit)

	res.params.Value = parseMoneyCell(&res, row, "value", cells[FieldValue])
	res.params.Taxes = parseMoneyCell(&res, row, "taxes", cells[FieldTaxes])
	res.params.Notes = cells[FieldNotes]

	return res
}

func parseDateCell(res *rowResult, row int, raw string, today time.Time) time.Time {
	if raw == "" {
		return today
	}

	s := raw
	if strings.Contains(s, "/") {
		s = rewriteSlashDate(s)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}

	res.warnf(row, "Invalid date %q, using today's date", raw)

	return today
}

// rewriteSlashDate turns MM/DD/YYYY or MM/DD/YY into YYYY-MM-DD. Anything else is
// returned unchanged and fails to parse later.
func rewriteSlashDate(s string) string {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return s
	}

	month, day, year := parts[0], parts[1], parts[2]
	if len(year) == 2 {
		year = "20" + year
	}

	return fmt.Sprintf("%s-%s-%s", year, leftPad(month), leftPad(day))
}

func leftPad(s string) string {
	if len(s) == 1 {
		return "0" + s
	}

	return s
}

func cleanNumber(s string) string {
	return strings.NewReplacer(",", "", "$", "").Replace(s)
}

func parsePointsCell(res *rowResult, row int, raw string, travelCredit bool) int64 {
	if raw == "" {
		if !travelCredit {
			res.errorf(row, "Points is required")
		}

		return 0
	}

	d, err := decimal.NewFromString(cleanNumber(raw))
	if err != nil || d.IsNegative() || d.Round(0).GreaterThan(decimal.NewFromInt(redemption.MaxPoints)) {
		res.errorf(row, "Points must be a valid number >= 0")
		return 0
	}

	points := d.Round(0).IntPart()
	if points == 0 && !travelCredit {
		res.errorf(row, "Points must be greater than 0 unless this is a travel credit")
	}

	return points
}

func parseMoneyCell(res *rowResult, row int, name, raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(cleanNumber(raw))
	if err != nil || d.IsNegative() {
		res.warnf(row, "Invalid %s %q, defaulting to 0", name, raw)
		return decimal.Zero
	}

	return d
}

func parseBoolCell(res *rowResult, row int, raw string) bool {
	switch strings.ToLower(raw) {
	case "":
		return false
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}

	res.warnf(row, "Invalid travel credit flag %q, defaulting to false", raw)

	return false
}
