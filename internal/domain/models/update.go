package models

import (
	"fmt"
)

// Update describes one package that became outdated in the tracked
// repository. Immutable once constructed from a parsed feed entry.
type Update struct {
	Repository string
	Package    string
	OldVersion string
	NewVersion string
	DetailsURL string
}

// Summary is the short human-readable form used in email subjects and
// issue titles.
func (u *Update) Summary() string {
	return fmt.Sprintf("(%s) %s: %s -> %s", u.Repository, u.Package, u.OldVersion, u.NewVersion)
}

func (u *Update) String() string {
	return "<" + u.Summary() + ">"
}

// FeedEntry is the read-only view of one item in the maintainer feed.
// Malformed entries are valid inputs; the poller rejects them entry by
// entry without aborting the cycle.
type FeedEntry struct {
	ID       string
	Category string
	Title    string
	Link     string
}
