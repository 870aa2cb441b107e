package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/MrJamesThe3rd/centsperpoint/internal/http/respond"
	"github.com/MrJamesThe3rd/centsperpoint/internal/migration"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// MigrationStatus is satisfied by *migration.Manager.
type MigrationStatus interface {
	Status(ctx context.Context) migration.State
}

type Handler struct {
	db        Pinger
	migration MigrationStatus
}

func NewHandler(db Pinger, migration MigrationStatus) *Handler {
	return &Handler{db: db, migration: migration}
}

type okResponse struct {
	Status    string          `json:"status"`
	Database  string          `json:"database"`
	Migration migration.State `json:"migration"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		slog.Error("health check failed", "error", err)
		respond.JSON(w, http.StatusServiceUnavailable, errorResponse{
			Status: "ERROR",
			Error:  "Database connection failed",
		})

		return
	}

	respond.JSON(w, http.StatusOK, okResponse{
		Status:    "OK",
		Database:  "connected",
		Migration: h.migration.Status(r.Context()),
	})
}
