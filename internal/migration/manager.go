package migration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
)

// Manager performs the one-time import of a legacy SQLite database. It assumes a
// single instance runs it at startup; there is no cross-process lock.
type Manager struct {
	store  StateStore
	target Target
	paths  []string
	now    func() time.Time
	read   func(ctx context.Context, path string) ([]*redemption.Redemption, error)
	log    *slog.Logger
}

type Option func(*Manager)

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store StateStore, target Target, paths []string, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		target: target,
		paths:  paths,
		now:    time.Now,
		read:   ReadLegacy,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Status reports the recorded state without attempting anything.
func (m *Manager) Status(ctx context.Context) State {
	st, found, err := m.store.Load(ctx)
	if err != nil {
		return State{Status: StatusUnknown, Error: err.Error()}
	}

	if !found {
		return State{Status: StatusPending}
	}

	return st
}

// Run returns the recorded state if there is one. Otherwise it attempts the import
// and records the outcome. Failures end up in the returned State, never as an error.
func (m *Manager) Run(ctx context.Context) State {
	st, found, err := m.store.Load(ctx)
	if err != nil {
		m.log.Error("failed to read migration flag, skipping legacy migration", "error", err)
		return State{Status: StatusUnknown, Error: err.Error()}
	}

	if found {
		m.log.Info("legacy migration already recorded", "status", st.Status)
		return st
	}

	path := FindLegacy(m.paths)
	if path == "" {
		return m.record(ctx, State{Status: StatusNoSQLiteFound, Message: "Started fresh with PostgreSQL"})
	}

	m.log.Info("legacy sqlite database found, migrating", "path", path)

	rows, err := m.read(ctx, path)
	if err != nil {
		return m.fail(ctx, path, err)
	}

	if len(rows) == 0 {
		return m.record(ctx, State{
			Status:         StatusEmptySQLite,
			Message:        "SQLite database was empty",
			SQLiteLocation: path,
		})
	}

	return m.migrate(ctx, path, rows)
}

func (m *Manager) migrate(ctx context.Context, path string, rows []*redemption.Redemption) State {
	tx, err := m.target.Begin(ctx)
	if err != nil {
		return m.fail(ctx, path, err)
	}
	defer tx.Rollback()

	existing, err := tx.CountRedemptions(ctx)
	if err != nil {
		return m.fail(ctx, path, err)
	}

	if existing > 0 {
		return m.record(ctx, State{
			Status:         StatusSkippedExistingData,
			Message:        fmt.Sprintf("PostgreSQL already had %d redemptions", existing),
			ExistingCount:  &existing,
			SQLiteLocation: path,
		})
	}

	for _, r := range rows {
		if err := tx.Insert(ctx, r); err != nil {
			return m.fail(ctx, path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return m.fail(ctx, path, fmt.Errorf("committing migration: %w", err))
	}

	count := len(rows)
	st := State{
		Status:         StatusCompleted,
		MigratedCount:  &count,
		Message:        fmt.Sprintf("Migrated %d redemptions from SQLite", count),
		Source:         SourceSQLite,
		Target:         TargetPostgreSQL,
		SQLiteLocation: path,
	}

	backup := path + ".backup"
	if err := CopyFile(path, backup); err != nil {
		m.log.Error("failed to back up legacy database", "path", path, "error", err)
		st.Message += fmt.Sprintf(" (backup failed: %v)", err)
	} else {
		st.BackupLocation = backup
	}

	return m.record(ctx, st)
}

// FindLegacy returns the first of paths that is a regular file, or "".
func FindLegacy(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}

	return ""
}

func (m *Manager) fail(ctx context.Context, path string, err error) State {
	// An interrupted run is not an outcome; leave the flag absent so the next start retries.
	if ctx.Err() != nil {
		m.log.Warn("legacy migration interrupted", "path", path, "error", err)
		return State{Status: StatusPending, Error: err.Error(), SQLiteLocation: path}
	}

	m.log.Error("legacy migration failed", "path", path, "error", err)

	return m.record(ctx, State{
		Status:         StatusFailed,
		Error:          err.Error(),
		SQLiteLocation: path,
	})
}

func (m *Manager) record(ctx context.Context, st State) State {
	st.Timestamp = timestamp(m.now())

	if err := m.store.Save(ctx, st); err != nil {
		m.log.Error("failed to write migration flag", "status", st.Status, "error", err)
	}

	m.log.Info("legacy migration finished", "status", st.Status, "message", st.Message)

	return st
}

// CopyFile copies src to dst, replacing dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}

	return out.Close()
}

// Backup copies the legacy file next to itself with a timestamp suffix and returns
// the new path.
func Backup(path string, now time.Time) (string, error) {
	dst := fmt.Sprintf("%s.backup-%s", path, now.UTC().Format("20060102T150405Z"))
	if err := CopyFile(path, dst); err != nil {
		return "", err
	}

	return dst, nil
}
