package poller

import (
	"regexp"

	"github.com/repology-tools/outdated-notifier/internal/domain/errors"
)

// Feed entry titles for outdated packages have the fixed form
// "<package> <old_version> is outdated by <new_version>".
var titleRegexp = regexp.MustCompile(`^(\S+) (\S+) is outdated by (\S+)$`)

type ParsedTitle struct {
	Package    string
	OldVersion string
	NewVersion string
}

// ParseTitle extracts the package and version transition from an entry
// title. Titles that do not match the expected format produce an
// ErrParseTitle; the caller logs and skips the entry.
func ParseTitle(title string) (ParsedTitle, error) {
	m := titleRegexp.FindStringSubmatch(title)
	if m == nil {
		return ParsedTitle{}, &errors.ErrParseTitle{Title: title}
	}

	return ParsedTitle{
		Package:    m[1],
		OldVersion: m[2],
		NewVersion: m[3],
	}, nil
}
