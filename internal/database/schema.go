package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

type objectKind int

const (
	kindTable objectKind = iota
	kindColumn
	kindIndex
)

// schemaStep is one additive structural change. It is applied only when the object
// it creates is missing.
type schemaStep struct {
	kind  objectKind
	table string
	name  string // column or index name; empty for tables
	ddl   string
}

func (s schemaStep) String() string {
	switch s.kind {
	case kindColumn:
		return fmt.Sprintf("column %s.%s", s.table, s.name)
	case kindIndex:
		return fmt.Sprintf("index %s", s.name)
	}

	return fmt.Sprintf("table %s", s.table)
}

func (s schemaStep) existsQuery() (string, []any) {
	switch s.kind {
	case kindColumn:
		return `SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2
		)`, []any{s.table, s.name}
	case kindIndex:
		return `SELECT EXISTS (
			SELECT 1 FROM pg_indexes
			WHERE schemaname = current_schema() AND indexname = $1
		)`, []any{s.name}
	}

	return `SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1
	)`, []any{s.table}
}

// schemaSteps is ordered: trips must exist before redemptions references it.
var schemaSteps = []schemaStep{
	{
		kind:  kindTable,
		table: "trips",
		ddl: `CREATE TABLE trips (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			image TEXT,
			start_date DATE,
			end_date DATE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		kind:  kindTable,
		table: "redemptions",
		ddl: `CREATE TABLE redemptions (
			id SERIAL PRIMARY KEY,
			date DATE NOT NULL,
			source VARCHAR(255) NOT NULL,
			points INTEGER NOT NULL DEFAULT 0,
			value DECIMAL(10,2) NOT NULL DEFAULT 0,
			taxes DECIMAL(10,2) DEFAULT 0,
			notes TEXT,
			is_travel_credit BOOLEAN DEFAULT FALSE,
			trip_id INTEGER REFERENCES trips(id) ON DELETE SET NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		kind: kindColumn, table: "redemptions", name: "taxes",
		ddl: `ALTER TABLE redemptions ADD COLUMN taxes DECIMAL(10,2) DEFAULT 0`,
	},
	{
		kind: kindColumn, table: "redemptions", name: "notes",
		ddl: `ALTER TABLE redemptions ADD COLUMN notes TEXT`,
	},
	{
		kind: kindColumn, table: "redemptions", name: "is_travel_credit",
		ddl: `ALTER TABLE redemptions ADD COLUMN is_travel_credit BOOLEAN DEFAULT FALSE`,
	},
	{
		kind: kindColumn, table: "redemptions", name: "trip_id",
		ddl: `ALTER TABLE redemptions ADD COLUMN trip_id INTEGER REFERENCES trips(id) ON DELETE SET NULL`,
	},
	{
		kind: kindColumn, table: "redemptions", name: "created_at",
		ddl: `ALTER TABLE redemptions ADD COLUMN created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP`,
	},
	{
		kind: kindColumn, table: "redemptions", name: "updated_at",
		ddl: `ALTER TABLE redemptions ADD COLUMN updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP`,
	},
	{
		kind: kindIndex, table: "redemptions", name: "idx_redemptions_date",
		ddl: `CREATE INDEX IF NOT EXISTS idx_redemptions_date ON redemptions(date)`,
	},
	{
		kind: kindIndex, table: "redemptions", name: "idx_redemptions_source",
		ddl: `CREATE INDEX IF NOT EXISTS idx_redemptions_source ON redemptions(source)`,
	},
	{
		kind: kindIndex, table: "redemptions", name: "idx_redemptions_trip_id",
		ddl: `CREATE INDEX IF NOT EXISTS idx_redemptions_trip_id ON redemptions(trip_id)`,
	},
}

// Migrate brings the schema up to date. Every step runs in its own transaction so a
// failing step does not prevent the others from being applied; the failures are
// returned together and the caller should refuse to start.
func Migrate(ctx context.Context, db *sql.DB) error {
	var errs []error

	for _, step := range schemaSteps {
		applied, err := applyStep(ctx, db, step)
		if err != nil {
			slog.Error("schema change failed", "step", step.String(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", step, err))

			continue
		}

		if applied {
			slog.Info("applied schema change", "step", step.String())
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	return nil
}

func applyStep(ctx context.Context, db *sql.DB, step schemaStep) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query, args := step.existsQuery()

	var exists bool
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking existence: %w", err)
	}

	if exists {
		return false, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, step.ddl); err != nil {
		return false, fmt.Errorf("applying: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing: %w", err)
	}

	return true, nil
}
