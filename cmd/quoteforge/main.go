// Package main is the entry point for the QuoteForge server.
// It loads configuration, connects to the optional backings, sets up
// routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"quoteforge/internal/ai"
	"quoteforge/internal/cache"
	"quoteforge/internal/config"
	"quoteforge/internal/content"
	"quoteforge/internal/database"
	"quoteforge/internal/drive"
	"quoteforge/internal/handlers"
	"quoteforge/internal/ratelimit"
	"quoteforge/internal/router"
	"quoteforge/internal/storyboard"
)

func main() {
	// Local development convenience; missing .env is not an error.
	_ = godotenv.Load()

	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.IsDev() {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Valkey — optional. When present it backs the rate limiter and the
	// session store so multiple instances agree on both.
	var valkeyClient *redis.Client
	if cfg.HasValkey() {
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		valkeyClient = client
	}

	// PostgreSQL — optional. When present, storyboard sessions survive
	// restarts.
	var db *sql.DB
	if cfg.HasPostgres() {
		conn, err := database.Connect(cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		if err := database.Migrate(conn); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		db = conn
	}

	// Rate limiter: shared through Valkey when available, per-process
	// otherwise.
	var limiter ratelimit.Limiter
	if valkeyClient != nil {
		limiter = ratelimit.NewRedis(valkeyClient, cfg.RateLimitCapacity, cfg.RateLimitRefill)
		slog.Info("rate limiter backed by valkey")
	} else {
		mem := ratelimit.NewMemory(cfg.RateLimitCapacity, cfg.RateLimitRefill)
		defer mem.Stop()
		limiter = mem
	}

	// Storyboard session store: Valkey first (TTL-native), then Postgres,
	// then in-process memory.
	var store storyboard.Store
	switch {
	case valkeyClient != nil:
		store = storyboard.NewRedisStore(valkeyClient)
		slog.Info("storyboard store backed by valkey")
	case db != nil:
		pg := storyboard.NewPostgresStore(db)
		store = pg
		go sweepLoop(pg)
		slog.Info("storyboard store backed by postgres")
	default:
		mem := storyboard.NewMemoryStore()
		defer mem.Stop()
		store = mem
		slog.Info("storyboard store in memory")
	}

	// Initialize the AI provider registry.
	aiRegistry := ai.NewRegistry("gemini", map[string]ai.ProviderConfig{
		"gemini": {
			APIKey:     cfg.GeminiKey,
			Model:      cfg.GeminiModel,
			ModelImage: cfg.GeminiModelImage,
			BaseURL:    cfg.GeminiBaseURL,
		},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	contentSvc := content.NewService(aiRegistry)
	boardSvc := storyboard.NewService(store, contentSvc)
	uploader := drive.NewUploader()

	api := handlers.NewAPI(contentSvc, boardSvc, uploader, limiter, cfg.OAuthClientID, cfg.OAuthRedirectURI)

	// Set up the Chi router with all middleware and routes.
	r := router.New(api)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate image generation calls that wait on
	// the model (typically 10-60s, up to 120s for the two-call pair).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
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

// sweepLoop periodically deletes expired Postgres-backed sessions; the
// other stores expire natively.
func sweepLoop(pg *storyboard.PostgresStore) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		n, err := pg.Sweep(ctx)
		cancel()
		if err != nil {
			slog.Warn("storyboard sweep failed", "error", err)
			continue
		}
		if n > 0 {
			slog.Info("expired storyboards swept", "count", n)
		}
	}
}
