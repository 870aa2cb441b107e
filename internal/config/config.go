package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name    string `envconfig:"APP_NAME" default:"Cents Per Point"`
		Port    int    `envconfig:"PORT" default:"5000"`
		DataDir string `envconfig:"DATA_DIR" default:"./data"`
	}

	DB struct {
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Port         int    `envconfig:"DB_PORT" default:"5432"`
		User         string `envconfig:"DB_USER" default:"postgres"`
		Password     string `envconfig:"DB_PASSWORD" default:""`
		Name         string `envconfig:"DB_NAME" default:"cpp_database"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	RateLimit struct {
		Requests int64         `envconfig:"RATE_LIMIT_REQUESTS" default:"100"`
		Period   time.Duration `envconfig:"RATE_LIMIT_PERIOD" default:"15m"`
	}

	Import struct {
		MaxBytes int64 `envconfig:"IMPORT_MAX_BYTES" default:"5242880"`
	}

	Legacy struct {
		Enabled bool `envconfig:"LEGACY_MIGRATION_ENABLED" default:"true"`
		// Probed in order; empty means DefaultLegacyPaths.
		Paths []string `envconfig:"LEGACY_SQLITE_PATHS"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// FlagPath is where the legacy migration state is persisted.
func (c *Config) FlagPath() string {
	return filepath.Join(c.App.DataDir, ".migrated")
}

// UploadDir holds trip images.
func (c *Config) UploadDir() string {
	return filepath.Join(c.App.DataDir, "uploads")
}

// LegacyPaths returns the candidate SQLite locations in probe order.
func (c *Config) LegacyPaths() []string {
	if len(c.Legacy.Paths) > 0 {
		return c.Legacy.Paths
	}

	return DefaultLegacyPaths(c.App.DataDir)
}

// DefaultLegacyPaths lists the standard location, the docker volume mount and the
// working-directory relative path.
func DefaultLegacyPaths(dataDir string) []string {
	return []string{
		filepath.Join(dataDir, "database.sqlite"),
		"/app/data/database.sqlite",
		"./data/database.sqlite",
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
