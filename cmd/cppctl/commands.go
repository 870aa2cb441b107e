package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/centsperpoint/internal/config"
	"github.com/MrJamesThe3rd/centsperpoint/internal/database"
	"github.com/MrJamesThe3rd/centsperpoint/internal/migration"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create or upgrade the PostgreSQL schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := connectDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")

			return nil
		},
	}
}

func newLegacyCmd() *cobra.Command {
	var paths []string

	cmd := &cobra.Command{
		Use:   "legacy",
		Short: "Import the legacy SQLite database unless a migration is already recorded",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if len(paths) == 0 {
				paths = cfg.LegacyPaths()
			}

			db, err := connectDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			st, err := runLegacy(cmd.Context(), db, migration.NewManager(
				migration.NewFileStateStore(cfg.FlagPath()),
				migration.NewPostgresTarget(db),
				paths,
			))
			if err != nil {
				return err
			}

			if err := writeJSON(cmd.OutOrStdout(), st); err != nil {
				return err
			}

			if st.Status == migration.StatusFailed {
				return fmt.Errorf("legacy migration failed: %s", st.Error)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&paths, "path", nil, "Legacy SQLite file(s) to probe, in order (default from config)")

	return cmd
}

// runLegacy brings the schema up to date before the manager counts existing rows,
// so a fresh database cannot record a failed migration.
func runLegacy(ctx context.Context, db *sql.DB, m *migration.Manager) (migration.State, error) {
	if err := database.Migrate(ctx, db); err != nil {
		return migration.State{}, err
	}

	return m.Run(ctx), nil
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the recorded legacy migration state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			st := migration.NewManager(migration.NewFileStateStore(cfg.FlagPath()), nil, nil).
				Status(cmd.Context())

			return writeJSON(cmd.OutOrStdout(), st)
		},
	}
}

func newResetFlagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-flag",
		Short: "Delete the migration flag so the legacy import runs again on next start",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store := migration.NewFileStateStore(cfg.FlagPath())
			if err := store.Remove(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", store.Path())

			return nil
		},
	}
}

var errNoLegacyFile = errors.New("no legacy SQLite file found")

func newBackupCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the legacy SQLite file to a timestamped backup next to it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if path == "" {
				path = migration.FindLegacy(cfg.LegacyPaths())
			}

			if path == "" {
				return errNoLegacyFile
			}

			dst, err := migration.Backup(path, time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "backed up %s to %s\n", path, dst)

			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Legacy SQLite file (default: first existing configured path)")

	return cmd
}
