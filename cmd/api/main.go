// Package main is the entry point for the stay tracker API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/schengen-tracker/internal/config"
	"github.com/pkordes/schengen-tracker/internal/handler"
	"github.com/pkordes/schengen-tracker/internal/middleware"
	"github.com/pkordes/schengen-tracker/internal/repo"
	"github.com/pkordes/schengen-tracker/internal/service"
	"github.com/pkordes/schengen-tracker/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	trips, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open trip store", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("trip store ready", "driver", cfg.StorageDriver, "auto_migrate", cfg.AutoMigrate)

	// --- Services ---------------------------------------------------------
	tripSvc := service.NewTripService(trips, service.WithRuleEnforcement(cfg.EnforceRule))
	complianceSvc := service.NewComplianceService(trips, nil)
	exportSvc := service.NewExportService(trips)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → CORS →
	// MaxBodySize → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(chimiddleware.Recoverer)

	srvHandlers := handler.NewServer(tripSvc, complianceSvc, exportSvc, logger)
	r.Mount("/", srvHandlers.Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore connects to the configured trip store, applies migrations when
// AutoMigrate is set, and returns the repo with its cleanup function.
func openStore(ctx context.Context, cfg config.Config) (repo.TripRepo, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		db, err := repo.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if cfg.AutoMigrate {
			if err := migrate(ctx, goose.DialectSQLite3, db); err != nil {
				db.Close()
				return nil, nil, err
			}
		}
		return repo.NewSQLiteTripRepo(db), func() { db.Close() }, nil

	default:
		// New() does not open connections immediately; the Ping below does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		if cfg.AutoMigrate {
			// goose speaks database/sql; borrow a handle backed by the same pool.
			db := stdlib.OpenDBFromPool(pool)
			err := migrate(ctx, goose.DialectPostgres, db)
			db.Close()
			if err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return repo.NewTripRepo(pool), pool.Close, nil
	}
}

func migrate(ctx context.Context, dialect goose.Dialect, db *sql.DB) error {
	n, err := migrations.Up(ctx, dialect, db)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "dialect", string(dialect), "count", n)
	return nil
}
