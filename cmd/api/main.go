package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/ulule/limiter/v3"

	"github.com/MrJamesThe3rd/centsperpoint/internal/config"
	"github.com/MrJamesThe3rd/centsperpoint/internal/database"
	"github.com/MrJamesThe3rd/centsperpoint/internal/export"
	cppHttp "github.com/MrJamesThe3rd/centsperpoint/internal/http"
	calculatorHandler "github.com/MrJamesThe3rd/centsperpoint/internal/http/calculator"
	healthHandler "github.com/MrJamesThe3rd/centsperpoint/internal/http/health"
	importExportHandler "github.com/MrJamesThe3rd/centsperpoint/internal/http/importexport"
	redemptionHandler "github.com/MrJamesThe3rd/centsperpoint/internal/http/redemption"
	tripHandler "github.com/MrJamesThe3rd/centsperpoint/internal/http/trip"
	"github.com/MrJamesThe3rd/centsperpoint/internal/importer"
	"github.com/MrJamesThe3rd/centsperpoint/internal/migration"
	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
	redemptionStore "github.com/MrJamesThe3rd/centsperpoint/internal/redemption/store"
	"github.com/MrJamesThe3rd/centsperpoint/internal/trip"
	tripStore "github.com/MrJamesThe3rd/centsperpoint/internal/trip/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxOpenConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate schema", "error", err)
		os.Exit(1)
	}

	migrationManager := migration.NewManager(
		migration.NewFileStateStore(cfg.FlagPath()),
		migration.NewPostgresTarget(db),
		cfg.LegacyPaths(),
	)

	if cfg.Legacy.Enabled {
		st := migrationManager.Run(ctx)
		slog.Info("legacy migration state", "status", st.Status)
	}

	var (
		redemptionService = redemption.NewService(redemptionStore.New(db))
		tripService       = trip.NewService(tripStore.New(db))
		importService     = importer.NewService(redemptionService)
		exportService     = export.NewService(redemptionService)
	)

	router := cppHttp.New(
		cppHttp.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RateLimit:      limiter.Rate{Period: cfg.RateLimit.Period, Limit: cfg.RateLimit.Requests},
			UploadDir:      cfg.UploadDir(),
		},
		redemptionHandler.NewHandler(redemptionService),
		tripHandler.NewHandler(tripService, cfg.UploadDir()),
		importExportHandler.NewHandler(importService, exportService, cfg.Import.MaxBytes),
		calculatorHandler.NewHandler(),
		healthHandler.NewHandler(db, migrationManager),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
