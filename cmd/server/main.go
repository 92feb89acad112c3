package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/vncsmyrnk/pollkit/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollkit/internal/adapters/metrics"
	"github.com/vncsmyrnk/pollkit/internal/bootstrap"
	"github.com/vncsmyrnk/pollkit/internal/config"
	"github.com/vncsmyrnk/pollkit/internal/core/services"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := bootstrap.OpenRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close()

	m := metrics.NewPrometheusMetrics(prometheus.DefaultRegisterer)

	pollService := services.NewPollService(repos.Polls, m)
	responseService := services.NewResponseService(repos.Polls, repos.Responses, m)
	resultsService := services.NewResultsService(repos.Polls, repos.Responses, repos.Results, m)

	trustedProxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return err
	}

	handler := http.NewHandler(
		http.NewPollHandler(pollService),
		http.NewResponseHandler(responseService),
		http.NewResultsHandler(resultsService),
		http.RouterOptions{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			SubmitRate:     rate.Limit(cfg.RateLimit.RPS),
			SubmitBurst:    cfg.RateLimit.Burst,
			TrustedProxies: trustedProxies,
			MetricsHandler: promhttp.Handler(),
		},
	)
	server := &stdhttp.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", server.Addr, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	slog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
