package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/centsperpoint/internal/trip"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `id, name, description, image, start_date, end_date, created_at, updated_at`

func scanTrip(s scanner) (*trip.Trip, error) {
	var t trip.Trip

	var description, image sql.NullString

	var createdAt, updatedAt sql.NullTime

	if err := s.Scan(
		&t.ID, &t.Name, &description, &image, &t.StartDate, &t.EndDate, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	t.Description = description.String
	t.Image = image.String
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) CreateTrip(ctx context.Context, t *trip.Trip) error {
	query := `
		INSERT INTO trips (name, description, image, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		t.Name, nullable(t.Description), nullable(t.Image), t.StartDate, t.EndDate,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating trip: %w", err)
	}

	return nil
}

func (s *Store) GetTrip(ctx context.Context, id int64) (*trip.Trip, error) {
	query := `SELECT ` + selectColumns + ` FROM trips WHERE id = $1`

	t, err := scanTrip(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trip.ErrNotFound
		}

		return nil, fmt.Errorf("getting trip: %w", err)
	}

	return t, nil
}

func (s *Store) ListTrips(ctx context.Context) ([]*trip.Trip, error) {
	query := `SELECT ` + selectColumns + ` FROM trips ORDER BY name, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	defer rows.Close()

	var trips []*trip.Trip

	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning trip: %w", err)
		}

		trips = append(trips, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trips: %w", err)
	}

	return trips, nil
}

func (s *Store) UpdateTrip(ctx context.Context, t *trip.Trip) error {
	query := `
		UPDATE trips
		SET name = $1, description = $2, image = $3, start_date = $4, end_date = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		t.Name, nullable(t.Description), nullable(t.Image), t.StartDate, t.EndDate, t.ID,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return trip.ErrNotFound
		}

		return fmt.Errorf("updating trip: %w", err)
	}

	return nil
}

func (s *Store) SetImage(ctx context.Context, id int64, imageURL string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE trips SET image = $1, updated_at = NOW() WHERE id = $2`, imageURL, id)
	if err != nil {
		return fmt.Errorf("setting trip image: %w", err)
	}

	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}

	if n == 0 {
		return trip.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteTrip(ctx context.Context, id int64, mode trip.DeleteMode) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	var count int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM redemptions WHERE trip_id = $1`, id).Scan(&count); err != nil {
		return fmt.Errorf("counting trip redemptions: %w", err)
	}

	if count > 0 {
		switch mode {
		case trip.DeleteCascade:
			if _, err := tx.ExecContext(ctx, `DELETE FROM redemptions WHERE trip_id = $1`, id); err != nil {
				return fmt.Errorf("deleting trip redemptions: %w", err)
			}
		case trip.DeleteDetach:
			if _, err := tx.ExecContext(ctx,
				`UPDATE redemptions SET trip_id = NULL, updated_at = NOW() WHERE trip_id = $1`, id); err != nil {
				return fmt.Errorf("detaching trip redemptions: %w", err)
			}
		default:
			return trip.ErrHasRedemptions
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}

	if err := expectRow(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing trip delete: %w", err)
	}

	return nil
}

func (s *Store) DeleteRedemptions(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM redemptions WHERE trip_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("deleting trip redemptions: %w", err)
	}

	return res.RowsAffected()
}

func (s *Store) DetachRedemptions(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE redemptions SET trip_id = NULL, updated_at = NOW() WHERE trip_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("detaching trip redemptions: %w", err)
	}

	return res.RowsAffected()
}

// statsColumns yields count, points, value and the net value and points of the
// rows that carry a cents-per-point figure.
const statsColumns = `
	COUNT(*),
	COALESCE(SUM(points), 0),
	COALESCE(SUM(value), 0),
	COALESCE(SUM(value - COALESCE(taxes, 0)) FILTER (WHERE points > 0 AND NOT COALESCE(is_travel_credit, FALSE)), 0),
	COALESCE(SUM(points) FILTER (WHERE points > 0 AND NOT COALESCE(is_travel_credit, FALSE)), 0)
`

func scanStats(s scanner, dest ...any) (trip.Stats, error) {
	var (
		st          trip.Stats
		netValue    decimal.Decimal
		eligiblePts int64
	)

	dest = append(dest, &st.TotalRedemptions, &st.TotalPoints, &st.TotalValue, &netValue, &eligiblePts)
	if err := s.Scan(dest...); err != nil {
		return trip.Stats{}, err
	}

	if eligiblePts > 0 {
		avg := netValue.Div(decimal.NewFromInt(eligiblePts)).Mul(decimal.NewFromInt(100)).Round(2)
		st.AverageCPP = &avg
	}

	return st, nil
}

func (s *Store) Stats(ctx context.Context, id int64) (trip.Stats, error) {
	query := `SELECT ` + statsColumns + ` FROM redemptions WHERE trip_id = $1`

	st, err := scanStats(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return trip.Stats{}, fmt.Errorf("computing trip stats: %w", err)
	}

	return st, nil
}

func (s *Store) AllStats(ctx context.Context) (map[int64]trip.Stats, error) {
	query := `SELECT trip_id, ` + statsColumns + ` FROM redemptions WHERE trip_id IS NOT NULL GROUP BY trip_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("computing trip stats: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]trip.Stats)

	for rows.Next() {
		var id int64

		st, err := scanStats(rows, &id)
		if err != nil {
			return nil, fmt.Errorf("scanning trip stats: %w", err)
		}

		out[id] = st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trip stats: %w", err)
	}

	return out, nil
}
