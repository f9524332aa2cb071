// Package runner drives the polling loop: repeated cycles on a fixed
// interval, with exponential backoff on consecutive failures.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/repology-tools/outdated-notifier/internal/common/metrics"
	"github.com/repology-tools/outdated-notifier/internal/domain/models"
	"github.com/repology-tools/outdated-notifier/internal/notify"
)

type UpdateChecker interface {
	CheckForUpdates(ctx context.Context) ([]models.Update, error)
}

type UpdateDispatcher interface {
	Dispatch(ctx context.Context, update *models.Update) []notify.ChannelResult
}

type Runner struct {
	checker     UpdateChecker
	dispatcher  UpdateDispatcher
	interval    time.Duration
	backoffBase time.Duration
	backoffCap  time.Duration
	failures    int
	logger      *slog.Logger
}

func NewRunner(
	checker UpdateChecker,
	dispatcher UpdateDispatcher,
	interval time.Duration,
	backoffBase time.Duration,
	backoffCap time.Duration,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		checker:     checker,
		dispatcher:  dispatcher,
		interval:    interval,
		backoffBase: backoffBase,
		backoffCap:  backoffCap,
		logger:      logger,
	}
}

// Run executes polling cycles until ctx is cancelled. A failed cycle
// increments the consecutive-failure counter and schedules a delayed
// retry; the fixed interval applies again after the next success. The
// returned error is always the context's cancellation cause.
func (r *Runner) Run(ctx context.Context) error {
	for {
		start := time.Now()
		err := r.runCycle(ctx)
		metrics.RecordPollCycle(err, time.Since(start))

		var delay time.Duration

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			r.failures++
			delay = BackoffDelay(r.backoffBase, r.backoffCap, r.failures)
			metrics.BackoffDelaySeconds.Set(delay.Seconds())

			r.logger.Error("Error occurred during polling cycle",
				"error", err,
				"consecutiveFailures", r.failures,
				"retryIn", delay.String(),
			)
		} else {
			r.failures = 0
			delay = r.interval
			metrics.BackoffDelaySeconds.Set(0)
		}

		if err := sleepCtx(ctx, delay); err != nil {
			return err
		}
	}
}

// runCycle performs one fetch-classify-notify pass. A panic anywhere
// inside the cycle is converted into a cycle failure so a single bad
// cycle never terminates the process. Window state already mutated by
// the poller stays mutated; partial progress is kept.
func (r *Runner) runCycle(ctx context.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic during polling cycle: %v", rec)
		}
	}()

	r.logger.Info("Polling for updates")

	updates, err := r.checker.CheckForUpdates(ctx)
	if err != nil {
		return err
	}

	for i := range updates {
		update := &updates[i]

		r.logger.Info("Update found", "update", update.String())

		results := r.dispatcher.Dispatch(ctx, update)

		// Channel failures are best-effort and never escalate to
		// backoff; the dispatcher has already logged each one.
		if combined := notify.CombineErrors(results); combined != nil {
			r.logger.Warn("Some notification channels failed",
				"update", update.String(),
				"error", combined,
			)
		}
	}

	return nil
}

// BackoffDelay computes min(base * 2^attempt, maxDelay).
func BackoffDelay(base, maxDelay time.Duration, attempt int) time.Duration {
	delay := base
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= maxDelay {
			return maxDelay
		}
	}

	if delay > maxDelay {
		return maxDelay
	}

	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
