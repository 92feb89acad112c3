package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/vncsmyrnk/pollkit/internal/bootstrap"
	"github.com/vncsmyrnk/pollkit/internal/config"
	"github.com/vncsmyrnk/pollkit/internal/core/services"
)

func main() {
	var (
		configPath  string
		concurrency int
		timeout     time.Duration
	)
	flag.StringVar(&configPath, "config", "", "Optional YAML configuration file")
	flag.IntVar(&concurrency, "concurrency", 0, "Polls summarized in parallel (defaults to SUMMARY_CONCURRENCY)")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Maximum job duration")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr)
	if concurrency < 1 {
		concurrency = cfg.Summary.Concurrency
	}

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	repos, err := bootstrap.OpenPersistentRepositories(ctx, cfg)
	if err != nil {
		logger.Error("failed to open repositories", "error", err)
		os.Exit(1)
	}
	defer repos.Close()

	summaryService := services.NewSummaryService(repos.Polls, repos.Responses, repos.Results, nil, concurrency)

	logger.Info("starting results summarization job", "concurrency", concurrency)
	start := time.Now()

	if err := summaryService.SummarizeAll(ctx); err != nil {
		logger.Error("results summarization failed", "error", err)
		repos.Close()
		os.Exit(1)
	}

	logger.Info("results summarization completed", "elapsed", time.Since(start))
}
