package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/centsperpoint/internal/config"
	"github.com/MrJamesThe3rd/centsperpoint/internal/database"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cppctl",
		Short:        "Operational tasks for the Cents Per Point database",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newSchemaCmd(),
		newLegacyCmd(),
		newStatusCmd(),
		newResetFlagCmd(),
		newBackupCmd(),
	)

	return cmd
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxOpenConns)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return db, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
