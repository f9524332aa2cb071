// Package notify contains the notification channels and the
// best-effort dispatcher that fans one update out to all of them.
package notify

import (
	"context"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/repology-tools/outdated-notifier/internal/common/metrics"
	"github.com/repology-tools/outdated-notifier/internal/domain/models"
)

type Notifier interface {
	Channel() string
	Send(ctx context.Context, update *models.Update) error
}

// ChannelResult tags one channel's outcome for a dispatched update.
type ChannelResult struct {
	Channel string
	Err     error
}

type Dispatcher struct {
	notifiers []Notifier
	logger    *slog.Logger
}

func NewDispatcher(logger *slog.Logger, notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{
		notifiers: notifiers,
		logger:    logger,
	}
}

// Dispatch attempts every configured channel, never short-circuiting:
// one channel failing must not block the others. Failures are logged
// and absorbed here; a failed notification is not re-attempted since
// the update's id is already recorded as seen.
func (d *Dispatcher) Dispatch(ctx context.Context, update *models.Update) []ChannelResult {
	results := make([]ChannelResult, 0, len(d.notifiers))

	for _, notifier := range d.notifiers {
		err := notifier.Send(ctx, update)

		metrics.RecordNotification(notifier.Channel(), err)

		if err != nil {
			d.logger.Error("Failed to send notification",
				"channel", notifier.Channel(),
				"update", update.String(),
				"error", err,
			)
		}

		results = append(results, ChannelResult{
			Channel: notifier.Channel(),
			Err:     err,
		})
	}

	return results
}

// CombineErrors folds the per-channel outcomes into a single error for
// reporting. Nil when every channel succeeded.
func CombineErrors(results []ChannelResult) error {
	errs := make([]error, 0, len(results))

	for _, result := range results {
		errs = append(errs, result.Err)
	}

	return multierr.Combine(errs...)
}
