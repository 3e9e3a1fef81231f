package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"

	"github.com/ShakerZed/bjjfanaticsdb/internal/domain"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	RedditClientID     string `env:"REDDIT_CLIENT_ID"`
	RedditClientSecret string `env:"REDDIT_CLIENT_SECRET"`
	RedditUserAgent    string `env:"REDDIT_USER_AGENT" default:"bjjfanaticsdb/1.0"`

	Subreddit       string `env:"SUBREDDIT" default:"judo"`
	SubmissionLimit int    `env:"SUBMISSION_LIMIT" default:"100"`
	CommentLimit    int    `env:"COMMENT_LIMIT" default:"100"`

	PollInterval time.Duration `env:"POLL_INTERVAL" default:"15m"`
	DedupMode    string        `env:"DEDUP_MODE" default:"exact"`

	TrendsTopN         int     `env:"TRENDS_TOP_N" default:"5"`
	TrendsCapK         float64 `env:"TRENDS_CAP_K" default:"4"`
	TrendsNormalize    bool    `env:"TRENDS_NORMALIZE" default:"false"`
	TrendsSmoothWindow int     `env:"TRENDS_SMOOTH_WINDOW" default:"0"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DATABASE_URL":         cfg.DatabaseURL,
		"REDDIT_CLIENT_ID":     cfg.RedditClientID,
		"REDDIT_CLIENT_SECRET": cfg.RedditClientSecret,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if !domain.DedupMode(cfg.DedupMode).Valid() {
		return fmt.Errorf("DEDUP_MODE must be one of none, exact, soft; got %q", cfg.DedupMode)
	}

	if cfg.SubmissionLimit <= 0 || cfg.SubmissionLimit > 100 {
		return fmt.Errorf("SUBMISSION_LIMIT must be between 1 and 100, got %d", cfg.SubmissionLimit)
	}
	if cfg.CommentLimit <= 0 || cfg.CommentLimit > 100 {
		return fmt.Errorf("COMMENT_LIMIT must be between 1 and 100, got %d", cfg.CommentLimit)
	}
	if cfg.PollInterval < time.Minute {
		return fmt.Errorf("POLL_INTERVAL must be at least 1m, got %s", cfg.PollInterval)
	}
	if cfg.TrendsTopN <= 0 {
		return fmt.Errorf("TRENDS_TOP_N must be positive, got %d", cfg.TrendsTopN)
	}

	if cfg.AppEnv == "production" {
		lower := strings.ToLower(cfg.DatabaseURL)
		for _, mode := range []string{"disable", "allow"} {
			if strings.Contains(lower, "sslmode="+mode) {
				return fmt.Errorf("DATABASE_URL uses sslmode=%s which is not allowed in production", mode)
			}
		}
	}

	return nil
}
