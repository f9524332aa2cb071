// Package feed implements the transport for the Repology maintainer
// update feed: URL construction, fetching and parsing the Atom document
// into entries.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mmcdole/gofeed"

	"github.com/repology-tools/outdated-notifier/internal/domain/errors"
	"github.com/repology-tools/outdated-notifier/internal/domain/models"
)

type Client struct {
	parser  *gofeed.Parser
	baseURL string
	logger  *slog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://repology.org"
	}

	parser := gofeed.NewParser()
	if httpClient != nil {
		parser.Client = httpClient
	}

	return &Client{
		parser:  parser,
		baseURL: baseURL,
		logger:  logger,
	}
}

// FeedURL builds the per-maintainer, per-repository Atom feed address.
func (c *Client) FeedURL(maintainer, repository string) string {
	return fmt.Sprintf("%s/maintainer/%s/feed-for-repo/%s/atom",
		c.baseURL, url.PathEscape(maintainer), url.PathEscape(repository))
}

// FetchEntries downloads and parses the feed, preserving feed order.
func (c *Client) FetchEntries(ctx context.Context, maintainer, repository string) ([]models.FeedEntry, error) {
	feedURL := c.FeedURL(maintainer, repository)

	parsed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, &errors.ErrFeedFetch{URL: feedURL, Cause: err}
	}

	entries := make([]models.FeedEntry, 0, len(parsed.Items))

	for _, item := range parsed.Items {
		entry := models.FeedEntry{
			ID:    item.GUID,
			Title: item.Title,
			Link:  item.Link,
		}

		// Atom entries may carry no id at all; the link is the next
		// most stable identifier.
		if entry.ID == "" {
			entry.ID = item.Link
		}

		if len(item.Categories) > 0 {
			entry.Category = item.Categories[0]
		}

		entries = append(entries, entry)
	}

	c.logger.Debug("Feed fetched",
		"url", feedURL,
		"entries", len(entries),
	)

	return entries, nil
}
