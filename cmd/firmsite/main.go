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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/firmsite/internal/auth"
	"github.com/olegiv/firmsite/internal/cache"
	"github.com/olegiv/firmsite/internal/config"
	"github.com/olegiv/firmsite/internal/content"
	"github.com/olegiv/firmsite/internal/handler"
	"github.com/olegiv/firmsite/internal/handler/api"
	"github.com/olegiv/firmsite/internal/logging"
	"github.com/olegiv/firmsite/internal/media"
	"github.com/olegiv/firmsite/internal/middleware"
	"github.com/olegiv/firmsite/internal/render"
	"github.com/olegiv/firmsite/internal/roster"
	"github.com/olegiv/firmsite/internal/scheduler"
	"github.com/olegiv/firmsite/internal/service"
	"github.com/olegiv/firmsite/internal/session"
	"github.com/olegiv/firmsite/internal/storage"
	"github.com/olegiv/firmsite/internal/store"
	"github.com/olegiv/firmsite/internal/version"
	"github.com/olegiv/firmsite/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// Routes that authenticate with bearer tokens instead of the session cookie.
var bearerPrefixes = []string{"/api/", "/functions/", handler.RouteToken}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "firmsite - personal injury law firm website\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FIRMSITE_SESSION_SECRET        Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FIRMSITE_TOKEN_SECRET          Bearer token signing key (default: session secret)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FIRMSITE_DB_PATH               SQLite database path (default: ./data/firmsite.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FIRMSITE_SERVER_PORT           Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FIRMSITE_ENV                   Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FIRMSITE_MEDIA_DIR             Image bucket directory (default: ./media)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FIRMSITE_PUBLIC_URL            Base URL for public image links (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FIRMSITE_REDIS_URL             Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FIRMSITE_EVENT_RETENTION_DAYS  Days of event log to keep (default: 90)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FIRMSITE_DO_SEED               Seed content and the first admin (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// WARN and ERROR records are also persisted to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if cfg.DoSeed {
		err := store.Seed(ctx, db, store.SeedOptions{
			AdminEmail:    cfg.SeedAdminEmail,
			AdminPassword: cfg.SeedAdminPassword,
			Sections:      content.SeedSections(),
		})
		if err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	queries := store.New(db)

	backend, backendType := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTLDuration(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	defer func() { _ = backend.Close() }()
	slog.Info("cache initialized", "backend", backendType)

	contentCache := content.NewCache(backend, cfg.CacheTTLDuration())
	resolver := content.NewResolver(queries, contentCache, logger)
	mutator := content.NewMutator(queries, resolver, contentCache, logger)

	bucket, err := storage.NewLocalBucket(cfg.MediaDir, cfg.PublicURL+"/media")
	if err != nil {
		return fmt.Errorf("initializing media bucket: %w", err)
	}
	uploader := media.NewUploader(queries, bucket, logger)
	admins := roster.NewService(queries, logger)

	tokens := auth.NewTokenIssuer(cfg.SigningSecret(), cfg.TokenTTL)
	bearer := middleware.NewBearerAuth(tokens, queries)
	gate := middleware.NewAdminGate(queries, handler.RouteAdmin+handler.RouteLogin, handler.RouteRoot)

	sessionManager := session.New(db, cfg.IsDevelopment())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Close()

	sched := scheduler.New(service.NewEventService(db), cfg.EventRetentionDays, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	frontendHandler := handler.NewFrontendHandler(db, renderer, resolver)
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, loginProtection, tokens, resolver)
	adminHandler := handler.NewAdminHandler(handler.AdminConfig{
		DB:            db,
		Renderer:      renderer,
		Resolver:      resolver,
		Mutator:       mutator,
		Uploader:      uploader,
		Roster:        admins,
		RetentionDays: cfg.EventRetentionDays,
	})
	adminUsersHandler := handler.NewAdminUsersHandler(db, bearer, admins)
	healthHandler := handler.NewHealthHandler(handler.HealthConfig{
		DB:       db,
		Bearer:   bearer,
		Cache:    backend,
		MediaDir: bucket.Dir(),
		Version:  info.Label(),
	})
	apiHandler := api.NewHandler(db, resolver, mutator, uploader)

	formLimiter := middleware.NewRateLimiter(0.2, 5)
	apiLimiter := middleware.NewRateLimiter(10, 20)
	cors := middleware.CORS(cfg.CORSAllowedOrigins)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), bearerPrefixes...)))
	r.Use(middleware.LoadUser(sessionManager, queries))

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", middleware.StaticCache(365*24*time.Hour)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))
	r.Handle("/media/*", middleware.StaticCache(time.Hour)(http.StripPrefix("/media/", http.FileServer(http.Dir(bucket.Dir())))))

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Get(handler.RouteRoot, frontendHandler.Home)
	r.Get(handler.RouteAbout, frontendHandler.About)
	r.Get(handler.RouteServices, frontendHandler.Services)
	r.Get(handler.RouteTestimonials, frontendHandler.Testimonials)
	r.Get(handler.RouteContact, frontendHandler.Contact)
	r.With(formLimiter.HTML).Post(handler.RouteContact, frontendHandler.SubmitContact)

	r.Get(handler.RouteAdmin+handler.RouteLogin, authHandler.LoginForm)
	r.With(loginProtection.Middleware()).Post(handler.RouteAdmin+handler.RouteLogin, authHandler.Login)
	r.Post(handler.RouteAdmin+handler.RouteLogout, authHandler.Logout)
	r.With(formLimiter.HTML).Post(handler.RouteSignup, authHandler.Signup)
	r.With(cors, middleware.NoStore, loginProtection.Middleware()).Post(handler.RouteToken, authHandler.Token)

	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(gate.Middleware)
		r.Use(middleware.NoStore)

		r.Get(handler.RouteRoot, adminHandler.Dashboard)
		r.Get(handler.RouteContent, adminHandler.ContentEditor)
		r.Post(handler.RouteContent+handler.RouteParamKey, adminHandler.UpdateContent)
		r.Get(handler.RouteImages, adminHandler.Images)
		r.Post(handler.RouteImages+handler.RouteParamSlot, adminHandler.UploadImage)
		r.Get(handler.RouteUsers, adminHandler.Users)
		r.Post(handler.RouteUsers+"/add", adminHandler.AddAdmin)
		r.Post(handler.RouteUsers+"/remove", adminHandler.RemoveAdmin)
		r.Get(handler.RouteEvents, adminHandler.Events)
	})

	r.With(cors, middleware.NoStore).Handle(handler.RouteAdminUsers, adminUsersHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors)
		r.Use(middleware.NoStore)
		r.Use(apiLimiter.JSON)

		r.Get("/status", apiHandler.Status)
		r.Get("/content", apiHandler.ListPublicContent)

		r.Route("/admin", func(r chi.Router) {
			r.Use(bearer.RequireBearer)

			r.Get("/content", apiHandler.ListAdminContent)
			r.Patch("/content"+handler.RouteParamKey, apiHandler.UpdateContent)
			r.Post("/images", apiHandler.UploadImage)
		})
	})

	r.NotFound(frontendHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Label())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
