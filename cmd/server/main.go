// HoneyGuard - Scam Honeypot Engagement Server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/nkurella/honeyguard/internal/alert"
	"github.com/nkurella/honeyguard/internal/api"
	"github.com/nkurella/honeyguard/internal/classify"
	"github.com/nkurella/honeyguard/internal/config"
	"github.com/nkurella/honeyguard/internal/detect"
	"github.com/nkurella/honeyguard/internal/engage"
	"github.com/nkurella/honeyguard/internal/intel"
	"github.com/nkurella/honeyguard/internal/journal"
	"github.com/nkurella/honeyguard/internal/middleware"
	"github.com/nkurella/honeyguard/internal/pipeline"
	"github.com/nkurella/honeyguard/internal/session"
	"github.com/nkurella/honeyguard/internal/settings"
	"github.com/nkurella/honeyguard/internal/store"
	"github.com/nkurella/honeyguard/internal/ws"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// Runtime settings: config defaults overlaid with persisted values.
	settingsMgr := settings.NewManager(repo, settings.Settings{
		AutoEngage:  cfg.AutoEngage,
		APIEndpoint: cfg.ClassifierURL,
		APIKey:      cfg.ClassifierAPIKey,
	})
	if err := settingsMgr.Load(context.Background()); err != nil {
		slog.Error("Failed to load settings", "error", err)
		os.Exit(1)
	}
	settingsMgr.Subscribe(func(s settings.Settings) {
		slog.Info("Runtime settings applied", "auto_engage", s.AutoEngage)
	})

	journalLogger, err := journal.NewLogger(journal.Config{
		Enabled:       cfg.Journal.Enabled,
		Dir:           cfg.Journal.Dir,
		GlobalEnabled: cfg.Journal.GlobalEnabled,
		GlobalPath:    cfg.Journal.GlobalPath,
		QueueSize:     cfg.Journal.QueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize journal", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := journalLogger.Close(); closeErr != nil {
			slog.Error("Failed to close journal", "error", closeErr)
		}
	}()

	// Initialize the engine.
	connMgr := ws.NewManager()
	classifier := classify.NewHTTPClient(
		&http.Client{Timeout: cfg.RequestTimeout},
		settingsMgr,
		logger,
	)
	analyzer := pipeline.New(pipeline.Config{
		Classifier: classifier,
		Sessions:   session.NewStore(),
		Intel:      intel.NewStore(),
		Alerts:     alert.NewLog(alert.DefaultCapacity),
		Dedupe:     detect.NewIndex(),
		Sink:       connMgr,
		Journal:    journalLogger,
		Logger:     logger,
	})

	// Restore persisted state from a previous run.
	snap, err := repo.LoadState(context.Background())
	if err != nil {
		slog.Error("Failed to load persisted state", "error", err)
		os.Exit(1)
	}
	if snap != nil {
		analyzer.Restore(snap)
		slog.Info("Persisted state restored",
			"total_scams", snap.TotalScams,
			"sessions", len(snap.Sessions))
	}

	scheduler := engage.NewScheduler(settingsMgr, logger)

	// Initialize handlers.
	apiHandler := api.NewHandler(analyzer, scheduler, settingsMgr, connMgr)
	wsHandler := ws.NewHandler(analyzer, scheduler, connMgr, cfg.AllowedOrigin, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{cfg.AllowedOrigin}))

	apiHandler.RegisterRoutes(r)

	// WebSocket endpoint for the message watcher.
	r.Get("/ws/channel", wsHandler.ServeHTTP)

	// Create server.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket connections stay open indefinitely
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persist accumulated state in the background.
	store.StartSnapshotWorker(ctx, repo, analyzer, cfg.SnapshotInterval)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Final state write so nothing observed this run is lost.
	if err := repo.SaveState(shutdownCtx, analyzer.Snapshot()); err != nil {
		slog.Error("Failed to save final state", "error", err)
	}

	slog.Info("Server stopped successfully")
}
