package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/ShakerZed/bjjfanaticsdb/internal/adapter/httpserver"
	"github.com/ShakerZed/bjjfanaticsdb/internal/adapter/postgres"
	"github.com/ShakerZed/bjjfanaticsdb/internal/adapter/reddit"
	"github.com/ShakerZed/bjjfanaticsdb/internal/app"
	"github.com/ShakerZed/bjjfanaticsdb/internal/domain"
	"github.com/ShakerZed/bjjfanaticsdb/internal/platform/config"
	"github.com/ShakerZed/bjjfanaticsdb/internal/platform/logging"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func pipelineConfig(cfg *config.Config) app.PipelineConfig {
	return app.PipelineConfig{
		Channel:         cfg.Subreddit,
		SubmissionLimit: cfg.SubmissionLimit,
		CommentLimit:    cfg.CommentLimit,
		DedupMode:       domain.DedupMode(cfg.DedupMode),
		TopN:            cfg.TrendsTopN,
		CapK:            cfg.TrendsCapK,
		Normalize:       cfg.TrendsNormalize,
		SmoothWindow:    cfg.TrendsSmoothWindow,
	}
}

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	catalogRepo := postgres.NewCatalogRepo(pool)
	mentionRepo := postgres.NewMentionRepo(pool)
	feed := reddit.NewClient(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent)

	appSvc := app.NewService(catalogRepo, mentionRepo, feed, clock, pipelineConfig(cfg))

	healthChecks := []httpserver.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
	}

	srv := httpserver.NewServer(cfg, appSvc, healthChecks)

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
