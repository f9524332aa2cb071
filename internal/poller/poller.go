// Package poller implements the feed-diffing core: classifying feed
// entries against the dedup window and turning newly seen outdated
// entries into updates.
package poller

import (
	"context"
	"log/slog"

	"github.com/repology-tools/outdated-notifier/internal/common/metrics"
	"github.com/repology-tools/outdated-notifier/internal/domain/models"
)

const categoryOutdated = "outdated"

type EntryFetcher interface {
	FetchEntries(ctx context.Context, maintainer, repository string) ([]models.FeedEntry, error)
}

type Poller struct {
	fetcher    EntryFetcher
	maintainer string
	repository string
	window     *Window
	logger     *slog.Logger
}

func NewPoller(fetcher EntryFetcher, maintainer, repository string, windowSize int, logger *slog.Logger) *Poller {
	return &Poller{
		fetcher:    fetcher,
		maintainer: maintainer,
		repository: repository,
		window:     NewWindow(windowSize),
		logger:     logger,
	}
}

// CheckForUpdates runs one polling cycle: fetch the feed and classify
// every entry in feed order. The very first cycle against an empty
// window only seeds seen ids, so pre-existing outdated packages are
// not all reported as new on startup. A parse failure skips that entry
// only; the rest of the cycle continues.
func (p *Poller) CheckForUpdates(ctx context.Context) ([]models.Update, error) {
	entries, err := p.fetcher.FetchEntries(ctx, p.maintainer, p.repository)
	if err != nil {
		return nil, err
	}

	firstRun := p.window.Len() == 0

	var updates []models.Update

	for _, entry := range entries {
		if p.window.Seen(entry.ID) {
			metrics.FeedEntriesTotal.WithLabelValues("seen").Inc()
			continue
		}

		// An entry counts as seen the first time it is observed,
		// even if a later step rejects it.
		p.window.Record(entry.ID)

		if firstRun {
			metrics.FeedEntriesTotal.WithLabelValues("baseline").Inc()
			continue
		}

		if entry.Category != categoryOutdated {
			metrics.FeedEntriesTotal.WithLabelValues("filtered").Inc()
			continue
		}

		parsed, err := ParseTitle(entry.Title)
		if err != nil {
			p.logger.Error("Could not parse entry title",
				"title", entry.Title,
				"error", err,
			)

			metrics.FeedEntriesTotal.WithLabelValues("unparsed").Inc()

			continue
		}

		metrics.FeedEntriesTotal.WithLabelValues("new").Inc()
		metrics.UpdatesDetectedTotal.Inc()

		updates = append(updates, models.Update{
			Repository: p.repository,
			Package:    parsed.Package,
			OldVersion: parsed.OldVersion,
			NewVersion: parsed.NewVersion,
			DetailsURL: entry.Link,
		})
	}

	return updates, nil
}
