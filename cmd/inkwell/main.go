// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Inkwell API server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/handlers"
	"inkwell/internal/mail"
	"inkwell/internal/middleware"
	"inkwell/internal/router"
	"inkwell/internal/storage"
	"inkwell/internal/store"
	"inkwell/internal/workflow"
)

func main() {
	// Load configuration first so the logger format can follow the env.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger — JSON in production, text in development.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey. The response cache degrades to a no-op without
	// it, so a missing cache is a warning rather than a startup failure.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, response caching disabled", "error", err)
		valkeyClient = nil
	} else {
		defer valkeyClient.Close()
	}
	respCache := cache.NewResponseCache(valkeyClient, cache.DefaultResponseTTL)

	// Connect to S3-compatible object storage (optional — uploads fall
	// back to local disk only).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket,
	)
	if err != nil {
		slog.Error("failed to initialize s3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 mirror connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Info("s3 not configured, media stays on local disk")
	}

	// Outbound mail. An empty SMTP host drops mail with a debug log.
	mailer := mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	if !mailer.Enabled() {
		slog.Warn("smtp not configured, verification mail disabled")
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	tagStore := store.NewTagStore(db)
	commentStore := store.NewCommentStore(db)
	socialStore := store.NewSocialStore(db)
	notificationStore := store.NewNotificationStore(db)
	statusLogStore := store.NewStatusLogStore(db)
	mediaStore := store.NewMediaStore(db)
	reportStore := store.NewReportStore(db)
	newsletterStore := store.NewNewsletterStore(db)
	activityStore := store.NewActivityStore(db)
	statsStore := store.NewStatsStore(db)

	// Publication workflow over the post store.
	manager := workflow.NewManager(postStore, statusLogStore, notificationStore)

	// Auth primitives.
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiry)
	totp := auth.NewTOTPVerifier(cfg.TOTPIssuer)

	// Login and registration share one per-IP rate limiter.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer authLimiter.Stop()

	// Create handler groups with their dependencies.
	deps := router.Deps{
		Auth:          handlers.NewAuth(cfg, tokens, totp, userStore, mailer),
		Posts:         handlers.NewPosts(postStore, tagStore, commentStore, socialStore, statusLogStore, manager, respCache),
		Comments:      handlers.NewComments(commentStore, postStore, notificationStore),
		Users:         handlers.NewUsers(userStore, socialStore, notificationStore),
		Taxonomy:      handlers.NewTaxonomy(categoryStore, tagStore),
		Bookmarks:     handlers.NewBookmarks(socialStore, postStore),
		Notifications: handlers.NewNotifications(notificationStore),
		Media:         handlers.NewMedia(mediaStore, storageClient, cfg),
		Reports:       handlers.NewReports(reportStore),
		Newsletter:    handlers.NewNewsletter(newsletterStore, mailer),
		Admin:         handlers.NewAdmin(statsStore, userStore, postStore, activityStore, notificationStore, manager, respCache),
		Authn:         middleware.NewAuthenticator(tokens, userStore),
		Activity:      middleware.NewActivityRecorder(activityStore),
		AuthLimiter:   authLimiter,
		UploadsDir:    cfg.UploadsDir,
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(deps)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
