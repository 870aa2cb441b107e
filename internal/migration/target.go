package migration

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
)

//go:generate mockgen -source=target.go -destination=target_mock.go -package=migration
type Target interface {
	Begin(ctx context.Context) (TargetTx, error)
}

// TargetTx is the transaction the whole legacy import runs in.
type TargetTx interface {
	CountRedemptions(ctx context.Context) (int64, error)
	Insert(ctx context.Context, r *redemption.Redemption) error
	Commit() error
	Rollback() error
}

// PostgresTarget writes into the redemptions table of the primary database.
type PostgresTarget struct {
	db *sql.DB
}

func NewPostgresTarget(db *sql.DB) *PostgresTarget {
	return &PostgresTarget{db: db}
}

func (t *PostgresTarget) Begin(ctx context.Context) (TargetTx, error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning migration tx: %w", err)
	}

	return &postgresTx{tx: tx}, nil
}

type postgresTx struct {
	tx *sql.Tx
}

func (p *postgresTx) CountRedemptions(ctx context.Context) (int64, error) {
	var n int64
	if err := p.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM redemptions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting redemptions: %w", err)
	}

	return n, nil
}

func (p *postgresTx) Insert(ctx context.Context, r *redemption.Redemption) error {
	query := `
		INSERT INTO redemptions (date, source, points, value, taxes, notes, is_travel_credit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`

	notes := sql.NullString{String: r.Notes, Valid: r.Notes != ""}

	if _, err := p.tx.ExecContext(ctx, query,
		r.Date, r.Source, r.Points, r.Value, r.Taxes, notes, r.IsTravelCredit,
	); err != nil {
		return fmt.Errorf("inserting %s redemption from %s: %w", r.Source, r.Date.Format("2006-01-02"), err)
	}

	return nil
}

func (p *postgresTx) Commit() error   { return p.tx.Commit() }
func (p *postgresTx) Rollback() error { return p.tx.Rollback() }
