package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sitebook/internal/amqp"
	"sitebook/internal/config"
	"sitebook/internal/core"
	apphttp "sitebook/internal/http"
	"sitebook/internal/ledger"
	"sitebook/internal/services"
	"sitebook/internal/storage"
)

// repository is the full persistence surface the server wires together:
// the service-facing methods plus the ledger mirror and startup seeding.
type repository interface {
	services.Repository
	SaveEntries(ctx context.Context, projectID string, entries []core.LedgerEntry) error
	LoadEntries(ctx context.Context, projectID string) ([]core.LedgerEntry, error)
	Close() error
}

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting sitebook")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var repo repository
	switch cfg.DataBackend {
	case "sqlite":
		sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		repo = sqliteRepo
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		repo = storage.NewMemoryRepository()
		logger.Info("Initialized memory backend")
	}
	defer repo.Close()

	// The in-memory ledger is the source of truth for entries; the
	// repository mirrors it and re-seeds it on startup.
	entries := ledger.NewStore(repo)
	if err := seedEntries(context.Background(), repo, entries); err != nil {
		logger.Error("Failed to seed ledger from repository", "error", err)
		os.Exit(1)
	}

	// AMQP is optional; without it, exports rely on the worker's sweep.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, exports will wait for the worker sweep", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - exports will wait for the worker sweep")
	}

	projectService := services.NewProjectService(repo, entries)
	dashboardService := services.NewDashboardService(repo, entries)
	exportService := services.NewExportService(repo, amqpClient)

	srv := apphttp.NewServer(":"+cfg.Port, projectService, dashboardService, exportService, entries)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting sitebook server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// seedEntries restores every project's mirrored entry list into the
// in-memory store.
func seedEntries(ctx context.Context, repo repository, entries *ledger.Store) error {
	projects, err := repo.ListProjects(ctx)
	if err != nil {
		return err
	}
	for _, p := range projects {
		list, err := repo.LoadEntries(ctx, p.ID)
		if err != nil {
			return err
		}
		entries.Load(p.ID, list)
		slog.InfoContext(ctx, "Seeded project ledger",
			"project_id", p.ID,
			"entries", len(list))
	}
	return nil
}
