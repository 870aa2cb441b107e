package migration

import "time"

// Status is the outcome of the one-time legacy import. Every status except
// StatusPending and StatusUnknown is terminal: once recorded, the import is never
// attempted again automatically.
type Status string

const (
	StatusPending             Status = "pending"
	StatusNoSQLiteFound       Status = "no_sqlite_found"
	StatusEmptySQLite         Status = "empty_sqlite"
	StatusSkippedExistingData Status = "skipped_existing_data"
	StatusCompleted           Status = "completed"
	StatusFailed              Status = "failed"
	StatusUnknown             Status = "unknown"
)

const (
	SourceSQLite     = "sqlite"
	TargetPostgreSQL = "postgresql"
)

// State is the persisted flag record.
type State struct {
	Timestamp      string `json:"timestamp"`
	Status         Status `json:"status"`
	MigratedCount  *int   `json:"migratedCount,omitempty"`
	ExistingCount  *int64 `json:"existingCount,omitempty"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
	Source         string `json:"source,omitempty"`
	Target         string `json:"target,omitempty"`
	SQLiteLocation string `json:"sqliteLocation,omitempty"`
	BackupLocation string `json:"backupLocation,omitempty"`
}

func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
