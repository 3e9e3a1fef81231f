package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ShakerZed/bjjfanaticsdb/internal/adapter/postgres"
	"github.com/ShakerZed/bjjfanaticsdb/internal/platform/config"
	"github.com/ShakerZed/bjjfanaticsdb/internal/platform/logging"
)

// defaultCatalog is the built-in throw list used when no file is given.
var defaultCatalog = []string{
	"Seoi Nage",
	"Uchi Mata",
	"O Soto Gari",
	"O Goshi",
	"Harai Goshi",
	"Tai Otoshi",
	"Ko Uchi Gari",
	"O Uchi Gari",
	"Tomoe Nage",
	"Hiza Guruma",
	"Sasae Tsurikomi Ashi",
	"Kata Guruma",
	"Sumi Gaeshi",
	"Ura Nage",
	"Uki Goshi",
}

func loadNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		names = append(names, name)
	}
	return names, scanner.Err()
}

func main() {
	file := flag.String("file", "", "newline-separated catalog file (default: built-in throw list)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	names := defaultCatalog
	if *file != "" {
		names, err = loadNames(*file)
		if err != nil {
			slog.Error("Failed to read catalog file", "file", *file, "error", err)
			os.Exit(1)
		}
	}
	if len(names) == 0 {
		slog.Error("Catalog is empty, nothing to seed")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	repo := postgres.NewCatalogRepo(pool)
	inserted, err := repo.Seed(ctx, names)
	if err != nil {
		slog.Error("Failed to seed catalog", "inserted", inserted, "error", err)
		os.Exit(1)
	}

	slog.Info("Catalog seeded", "entries", len(names), "inserted", inserted)
}
