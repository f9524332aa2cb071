package poller_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repology-tools/outdated-notifier/internal/domain/errors"
	"github.com/repology-tools/outdated-notifier/internal/poller"
)

func TestParseTitle(t *testing.T) {
	t.Run("valid title", func(t *testing.T) {
		parsed, err := poller.ParseTitle("foo 1.0 is outdated by 2.0")

		require.NoError(t, err)
		assert.Equal(t, "foo", parsed.Package)
		assert.Equal(t, "1.0", parsed.OldVersion)
		assert.Equal(t, "2.0", parsed.NewVersion)
	})

	t.Run("version strings with suffixes", func(t *testing.T) {
		parsed, err := poller.ParseTitle("libxml2 2.9.14-r1 is outdated by 2.12.6")

		require.NoError(t, err)
		assert.Equal(t, "libxml2", parsed.Package)
		assert.Equal(t, "2.9.14-r1", parsed.OldVersion)
		assert.Equal(t, "2.12.6", parsed.NewVersion)
	})

	t.Run("missing tokens", func(t *testing.T) {
		_, err := poller.ParseTitle("foo is outdated")

		require.Error(t, err)
		assert.ErrorIs(t, err, &errors.ErrParseTitle{})
		assert.Contains(t, err.Error(), "foo is outdated")
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := poller.ParseTitle("")

		require.Error(t, err)
	})

	t.Run("trailing garbage", func(t *testing.T) {
		_, err := poller.ParseTitle("foo 1.0 is outdated by 2.0 somehow")

		require.Error(t, err)
	})
}
