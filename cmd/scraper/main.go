package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

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

func main() {
	once := flag.Bool("once", false, "run a single scrape pass and exit")
	verify := flag.Bool("verify", false, "clamp future timestamps and exit")
	flag.Parse()

	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Scraper starting", "env", cfg.AppEnv, "subreddit", cfg.Subreddit, "dedup_mode", cfg.DedupMode)

	pool := setupDB(cfg)
	defer pool.Close()

	catalogRepo := postgres.NewCatalogRepo(pool)
	mentionRepo := postgres.NewMentionRepo(pool)
	feed := reddit.NewClient(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent)

	svc := app.NewService(catalogRepo, mentionRepo, feed, clock, pipelineConfig(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *verify {
		clamped, err := svc.VerifyTimestamps(ctx)
		if err != nil {
			slog.Error("Timestamp verification failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Timestamp verification finished", "clamped", clamped)
		return
	}

	if *once {
		report, err := svc.RunPass(ctx)
		if err != nil {
			slog.Error("Scrape pass finished with errors",
				"scanned", report.Scanned, "recorded", report.Recorded, "error", err)
			os.Exit(1)
		}
		slog.Info("Scrape pass finished", "scanned", report.Scanned, "recorded", report.Recorded)
		return
	}

	poller := app.NewPoller(svc, cfg.PollInterval, clock)
	slog.Info("Polling", "interval", cfg.PollInterval)
	poller.Run(ctx)
}
