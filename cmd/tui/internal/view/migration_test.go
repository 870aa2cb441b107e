package view

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/centsperpoint/internal/migration"
)

func TestDescribeState(t *testing.T) {
	st := migration.State{
		Status:         migration.StatusCompleted,
		Timestamp:      "2024-06-01T12:00:00.000Z",
		Message:        "Migrated 2 redemptions from SQLite",
		MigratedCount:  new(2),
		SQLiteLocation: "/data/database.sqlite",
	}

	assert.Equal(t, []string{
		"Status: completed",
		"Recorded: 2024-06-01T12:00:00.000Z",
		"Message: Migrated 2 redemptions from SQLite",
		"Migrated: 2",
		"SQLite file: /data/database.sqlite",
	}, describeState(st))

	assert.Equal(t, []string{"Status: pending"}, describeState(migration.State{Status: migration.StatusPending}))
}

func TestMigrationModel_RunStopsWhenSchemaFails(t *testing.T) {
	store := migration.NewFileStateStore(filepath.Join(t.TempDir(), ".migrated"))
	manager := migration.NewManager(store, nil, nil, migration.WithLogger(slog.New(slog.DiscardHandler)))

	m := NewMigrationModel(manager, func(context.Context) error {
		return errors.New("connection refused")
	})

	msg, ok := m.runCmd()().(migrationStateMsg)
	require.True(t, ok)
	assert.Equal(t, migration.StatusPending, msg.state.Status)
	assert.Equal(t, "schema not ready: connection refused", msg.state.Error)

	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}
