package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/repology-tools/outdated-notifier/internal/common/httputil"
	"github.com/repology-tools/outdated-notifier/internal/common/metrics"
	"github.com/repology-tools/outdated-notifier/internal/config"
	"github.com/repology-tools/outdated-notifier/internal/feed"
	"github.com/repology-tools/outdated-notifier/internal/notify"
	"github.com/repology-tools/outdated-notifier/internal/poller"
	"github.com/repology-tools/outdated-notifier/internal/runner"
	"github.com/repology-tools/outdated-notifier/pkg"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	appLogger := pkg.NewLogger(os.Stdout)

	cfg := config.LoadConfig()

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err == nil {
		appLogger = pkg.NewLoggerWithLevel(os.Stdout, logLevel)
	} else {
		appLogger.Warn("Unknown log level, using info",
			"level", cfg.LogLevel,
		)
	}

	if err := cfg.Validate(); err != nil {
		appLogger.Error("Invalid configuration",
			"error", err,
		)

		return err
	}

	if cfg.NotifyEmail != "" {
		if err := notify.ValidateMailRelay(cfg.SendmailPath); err != nil {
			appLogger.Error("Mail relay validation failed",
				"error", err,
			)

			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLogger.Info("Received termination signal",
			"signal", sig.String(),
		)
		cancel()
	}()

	feedClient := feed.NewClient(
		cfg.FeedBaseURL,
		httputil.CreateResilientTransportClient(cfg, appLogger, "repology_feed"),
		appLogger,
	)

	updatePoller := poller.NewPoller(feedClient, cfg.Maintainer, cfg.Repository, cfg.DedupWindowSize, appLogger)

	var notifiers []notify.Notifier

	if cfg.NotifyEmail != "" {
		notifiers = append(notifiers, notify.NewEmailNotifier(cfg.NotifyEmail, cfg.SendmailPath, appLogger))
	}

	if cfg.GitHubRepo != "" {
		notifiers = append(notifiers, notify.NewGitHubNotifier(
			cfg.GitHubRepo,
			cfg.GitHubToken,
			cfg.GitHubAPIBaseURL,
			cfg,
			appLogger,
		))
	}

	if len(notifiers) == 0 {
		appLogger.Warn("No notification channels configured, updates will only be logged")
	}

	dispatcher := notify.NewDispatcher(appLogger, notifiers...)

	loop := runner.NewRunner(
		updatePoller,
		dispatcher,
		cfg.PollInterval,
		cfg.BackoffBase,
		cfg.BackoffCap,
		appLogger,
	)

	metricsServer := metrics.NewMetricsServer(cfg.MetricsPort, appLogger)

	go func() {
		if err := metricsServer.Start(ctx); err != nil {
			appLogger.Error("Metrics server error",
				"error", err,
			)
		}
	}()

	appLogger.Info("Notifier started",
		"maintainer", cfg.Maintainer,
		"repository", cfg.Repository,
		"interval", cfg.PollInterval.String(),
		"email", cfg.NotifyEmail != "",
		"github", cfg.GitHubRepo != "",
	)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	appLogger.Info("Notifier stopped")

	return nil
}
