package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
)

var errNoLegacyTable = errors.New("legacy database has no redemptions table")

// legacyColumns are read in this order. Optional ones fall back to the default
// expression when the legacy table predates them.
var legacyColumns = []struct {
	name     string
	fallback string // empty means required
}{
	{name: "id"},
	{name: "date"},
	{name: "source"},
	{name: "points"},
	{name: "value"},
	{name: "taxes", fallback: "0"},
	{name: "notes", fallback: "NULL"},
	{name: "is_travel_credit", fallback: "0"},
}

// ReadLegacy opens the SQLite file read-only and returns its redemptions ordered
// by id. Trip links did not exist in the legacy schema.
func ReadLegacy(ctx context.Context, path string) ([]*redemption.Redemption, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening legacy database: %w", err)
	}
	defer db.Close()

	query, err := legacyQuery(ctx, db)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reading legacy redemptions: %w", err)
	}
	defer rows.Close()

	var out []*redemption.Redemption

	for rows.Next() {
		r, err := scanLegacy(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating legacy redemptions: %w", err)
	}

	return out, nil
}

func legacyQuery(ctx context.Context, db *sql.DB) (string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info('redemptions')`)
	if err != nil {
		return "", fmt.Errorf("inspecting legacy table: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool)

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", fmt.Errorf("inspecting legacy table: %w", err)
		}

		present[strings.ToLower(name)] = true
	}

	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("inspecting legacy table: %w", err)
	}

	if len(present) == 0 {
		return "", errNoLegacyTable
	}

	exprs := make([]string, 0, len(legacyColumns))

	for _, c := range legacyColumns {
		switch {
		case present[c.name]:
			exprs = append(exprs, c.name)
		case c.fallback != "":
			exprs = append(exprs, c.fallback)
		default:
			return "", fmt.Errorf("legacy redemptions table is missing column %q", c.name)
		}
	}

	return "SELECT " + strings.Join(exprs, ", ") + " FROM redemptions ORDER BY id", nil
}

func scanLegacy(rows *sql.Rows) (*redemption.Redemption, error) {
	var (
		id           int64
		date         any
		source       sql.NullString
		points       sql.NullFloat64
		value, taxes sql.NullString
		notes        sql.NullString
		travelCredit any
	)

	if err := rows.Scan(&id, &date, &source, &points, &value, &taxes, &notes, &travelCredit); err != nil {
		return nil, fmt.Errorf("scanning legacy redemption: %w", err)
	}

	d, err := legacyDate(date)
	if err != nil {
		return nil, fmt.Errorf("legacy redemption %d: %w", id, err)
	}

	v, err := legacyDecimal(value)
	if err != nil {
		return nil, fmt.Errorf("legacy redemption %d value: %w", id, err)
	}

	t, err := legacyDecimal(taxes)
	if err != nil {
		return nil, fmt.Errorf("legacy redemption %d taxes: %w", id, err)
	}

	return &redemption.Redemption{
		Date:           d,
		Source:         source.String,
		Points:         int64(math.Round(points.Float64)),
		Value:          v,
		Taxes:          t,
		Notes:          notes.String,
		IsTravelCredit: legacyBool(travelCredit),
	}, nil
}

func legacyDecimal(s sql.NullString) (decimal.Decimal, error) {
	if !s.Valid || strings.TrimSpace(s.String) == "" {
		return decimal.Zero, nil
	}

	return decimal.NewFromString(strings.TrimSpace(s.String))
}

func legacyBool(v any) bool {
	switch x := v.(type) {
	case int64:
		return x == 1
	case bool:
		return x
	case string:
		return x == "1" || strings.EqualFold(x, "true")
	case []byte:
		return string(x) == "1" || strings.EqualFold(string(x), "true")
	}

	return false
}

var legacyDateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02T15:04:05",
}

// legacyDate normalizes text dates and unix timestamps (seconds or milliseconds)
// to a UTC calendar date.
func legacyDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return dateOnly(x), nil
	case int64:
		return dateOnly(unixAuto(x)), nil
	case float64:
		return dateOnly(unixAuto(int64(x))), nil
	case []byte:
		return legacyDate(string(x))
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && len(s) > len("20060102") {
			return dateOnly(unixAuto(n)), nil
		}

		for _, layout := range legacyDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return dateOnly(t), nil
			}
		}

		return time.Time{}, fmt.Errorf("unparseable date %q", x)
	}

	return time.Time{}, fmt.Errorf("unsupported date value %v", v)
}

func unixAuto(n int64) time.Time {
	if n > 1e11 {
		return time.UnixMilli(n)
	}

	return time.Unix(n, 0)
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
