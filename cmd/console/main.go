// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/ocms-console/internal/backend"
	"github.com/olegiv/ocms-console/internal/cache"
	"github.com/olegiv/ocms-console/internal/config"
	"github.com/olegiv/ocms-console/internal/geoip"
	"github.com/olegiv/ocms-console/internal/handler"
	"github.com/olegiv/ocms-console/internal/i18n"
	"github.com/olegiv/ocms-console/internal/logging"
	"github.com/olegiv/ocms-console/internal/middleware"
	"github.com/olegiv/ocms-console/internal/render"
	"github.com/olegiv/ocms-console/internal/scheduler"
	"github.com/olegiv/ocms-console/internal/session"
	"github.com/olegiv/ocms-console/internal/store"
	"github.com/olegiv/ocms-console/internal/submit"
	"github.com/olegiv/ocms-console/internal/version"
	"github.com/olegiv/ocms-console/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "oCMS Console - admin console for the oCMS REST backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONSOLE_API_BASE_URL      Backend REST API root (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONSOLE_ASSET_BASE_URL    Base URL for image paths (default: API base URL)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONSOLE_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONSOLE_SESSION_DB_PATH   SQLite session store (default: ./data/console.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONSOLE_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONSOLE_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONSOLE_LOG_FILE          Rotating log file for warnings and errors (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONSOLE_REDIS_URL         Redis URL for shared login throttling (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONSOLE_GEOIP_DB_PATH     MaxMind country database for login logs (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CONSOLE_BACKEND_PROBE_SCHEDULE  Cron schedule of the backend probe, or off (default: @every 1m)\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Printf("console %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// parseLogLevel maps CONSOLE_LOG_LEVEL to a slog level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Setup logger; warnings and errors also go to the rotating file
	logLevel := parseLogLevel(cfg.LogLevel)
	var logHandler slog.Handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	if cfg.LogFileEnabled() {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		logFile := logging.NewRotatingWriter(logging.RotationConfig{
			Path:       cfg.LogFile,
			MaxSizeMB:  cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAgeDays: cfg.LogMaxAgeDays,
		})
		defer func() { _ = logFile.Close() }()
		logHandler = logging.NewFileHandler(logHandler, logFile)
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	// Initialize i18n system for admin UI localization
	if err := i18n.Init(logger, cfg.DefaultLang); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n system initialized", "languages", i18n.SupportedLanguages, "default", i18n.GetDefaultLanguage())

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.SessionDBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Session store database
	slog.Info("initializing session store", "path", cfg.SessionDBPath)
	db, err := store.NewDB(cfg.SessionDBPath)
	if err != nil {
		return fmt.Errorf("initializing session store: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing session store", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	sessionManager := session.New(db, session.Options{
		Lifetime: cfg.SessionLifetime,
		Secure:   !cfg.IsDevelopment(),
	})
	middleware.SetSessionManager(sessionManager)
	slog.Info("session manager initialized", "lifetime", cfg.SessionLifetime.String())

	// Login throttling state: Redis when configured, memory otherwise
	throttleStore, cacheInfo, err := cache.New(context.Background(), cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       time.Hour,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	})
	if err != nil {
		return fmt.Errorf("initializing throttle store: %w", err)
	}
	defer func() { _ = throttleStore.Close() }()
	slog.Info("login throttling initialized", "backend", cacheInfo.Backend, "fallback", cacheInfo.Fallback)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig(), throttleStore)
	defer loginProtection.Stop()

	// Initialize template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		AssetBaseURL:   cfg.AssetBaseURL,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	api, err := backend.New(cfg.APIBaseURL)
	if err != nil {
		return fmt.Errorf("initializing backend client: %w", err)
	}
	slog.Info("backend client initialized", "base_url", api.BaseURL())

	healthHandler := handler.NewHealthHandler(db, versionInfo)

	// Periodic jobs
	sched := scheduler.New(logger)
	if cfg.BackendProbeEnabled() {
		probe := scheduler.NewBackendProbe(api, cfg.BackendProbeTimeout, logger)
		if err := sched.Add("backend-probe", cfg.BackendProbeSchedule, func(ctx context.Context) {
			probe.Run(ctx)
		}); err != nil {
			return err
		}
		healthHandler.SetBackendStatus(probe)
		go probe.Run(context.Background())
	}

	authHandler := handler.NewAuthHandler(api, renderer, sessionManager, loginProtection)
	if cfg.GeoIPEnabled() {
		locator, err := geoip.Open(cfg.GeoIPDBPath)
		if err != nil {
			slog.Warn("geoip disabled", "error", err)
		} else {
			defer func() { _ = locator.Close() }()
			authHandler.SetCountryLocator(locator)
			if err := sched.Add("geoip-reload", "@daily", func(context.Context) {
				if err := locator.Reload(); err != nil {
					slog.Error("geoip reload failed", "error", err)
				}
			}); err != nil {
				return err
			}
			slog.Info("geoip enabled", "path", cfg.GeoIPDBPath)
		}
	}

	sched.Start()
	defer sched.Stop()

	router, err := newRouter(routerConfig{
		sessionManager:  sessionManager,
		loginProtection: loginProtection,
		submitGuard:     submit.NewGuard(),
		csrfKey:         []byte(cfg.SessionSecret),
		isDev:           cfg.IsDevelopment(),
		serverAddr:      cfg.ServerAddr(),
		assetBaseURL:    cfg.AssetBaseURL,
	}, handlers{
		auth:       authHandler,
		admin:      handler.NewAdminHandler(api, renderer, sessionManager),
		health:     healthHandler,
		categories: handler.NewCategoriesHandler(api, renderer, sessionManager),
		blogs:      handler.NewBlogsHandler(api, renderer, sessionManager),
		pages:      handler.NewPagesHandler(api, renderer, sessionManager),
		sections:   handler.NewSectionsHandler(api, renderer, sessionManager),
		surveys:    handler.NewSurveysHandler(api, renderer, sessionManager),
		messages:   handler.NewMessagesHandler(api, renderer, sessionManager),
		users:      handler.NewUsersHandler(api, renderer, sessionManager),
	})
	if err != nil {
		return err
	}

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
