package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `
	id, date, source, points, value, COALESCE(taxes, 0), notes,
	COALESCE(is_travel_credit, FALSE), trip_id, created_at, updated_at
`

// scanRedemption expects the column order of selectColumns.
func scanRedemption(s scanner) (*redemption.Redemption, error) {
	var r redemption.Redemption

	var notes sql.NullString

	var createdAt, updatedAt sql.NullTime

	if err := s.Scan(
		&r.ID, &r.Date, &r.Source, &r.Points, &r.Value, &r.Taxes, &notes,
		&r.IsTravelCredit, &r.TripID, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	r.Notes = notes.String
	r.CreatedAt = createdAt.Time
	r.UpdatedAt = updatedAt.Time

	return &r, nil
}

const insertQuery = `
	INSERT INTO redemptions (date, source, points, value, taxes, notes, is_travel_credit, trip_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

func insertArgs(r *redemption.Redemption) []any {
	return []any{
		r.Date,
		r.Source,
		r.Points,
		r.Value,
		r.Taxes,
		r.Notes,
		r.IsTravelCredit,
		r.TripID,
	}
}

func (s *Store) CreateRedemption(ctx context.Context, r *redemption.Redemption) error {
	err := s.db.QueryRowContext(ctx, insertQuery, insertArgs(r)...).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating redemption: %w", err)
	}

	return nil
}

func (s *Store) GetRedemption(ctx context.Context, id int64) (*redemption.Redemption, error) {
	query := `SELECT ` + selectColumns + ` FROM redemptions WHERE id = $1`

	r, err := scanRedemption(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, redemption.ErrNotFound
		}

		return nil, fmt.Errorf("getting redemption: %w", err)
	}

	return r, nil
}

func (s *Store) ListRedemptions(ctx context.Context, filter redemption.ListFilter) ([]*redemption.Redemption, error) {
	query := `SELECT ` + selectColumns + ` FROM redemptions WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.TripID != nil {
		query += fmt.Sprintf(" AND trip_id = $%d", argIdx)

		args = append(args, *filter.TripID)
		argIdx++
	}

	if filter.Source != nil {
		query += fmt.Sprintf(" AND source = $%d", argIdx)

		args = append(args, *filter.Source)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY date DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing redemptions: %w", err)
	}
	defer rows.Close()

	var rs []*redemption.Redemption

	for rows.Next() {
		r, err := scanRedemption(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning redemption: %w", err)
		}

		rs = append(rs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating redemptions: %w", err)
	}

	return rs, nil
}

func (s *Store) UpdateRedemption(ctx context.Context, r *redemption.Redemption) error {
	query := `
		UPDATE redemptions
		SET date = $1, source = $2, points = $3, value = $4, taxes = $5, notes = $6,
			is_travel_credit = $7, trip_id = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING created_at, updated_at
	`

	args := append(insertArgs(r), r.ID)

	err := s.db.QueryRowContext(ctx, query, args...).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return redemption.ErrNotFound
		}

		return fmt.Errorf("updating redemption: %w", err)
	}

	return nil
}

func (s *Store) DeleteRedemption(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM redemptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting redemption: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting redemption: %w", err)
	}

	if n == 0 {
		return redemption.ErrNotFound
	}

	return nil
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context) (redemption.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

// Insert wraps each row in a savepoint: Postgres aborts the whole transaction on a
// failed statement, so the savepoint is what lets later rows still go in.
func (itx *importTx) Insert(ctx context.Context, r *redemption.Redemption) error {
	if _, err := itx.tx.ExecContext(ctx, "SAVEPOINT import_row"); err != nil {
		return fmt.Errorf("creating savepoint: %w", err)
	}

	err := itx.tx.QueryRowContext(ctx, insertQuery, insertArgs(r)...).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if _, rbErr := itx.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT import_row"); rbErr != nil {
			return errors.Join(fmt.Errorf("creating redemption: %w", err), rbErr)
		}

		return fmt.Errorf("creating redemption: %w", err)
	}

	if _, err := itx.tx.ExecContext(ctx, "RELEASE SAVEPOINT import_row"); err != nil {
		return fmt.Errorf("releasing savepoint: %w", err)
	}

	return nil
}
