package pkg_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/repology-tools/outdated-notifier/pkg"
)

func TestNewLogger_EmitsJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := pkg.NewLogger(&buf)
	logger.Info("polling for updates", "repository", "freebsd")

	output := buf.String()

	assert.Contains(t, output, `"msg":"polling for updates"`)
	assert.Contains(t, output, `"repository":"freebsd"`)
}

func TestNewLoggerWithLevel_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := pkg.NewLoggerWithLevel(&buf, slog.LevelWarn)

	logger.Info("suppressed")
	logger.Warn("emitted")

	output := buf.String()

	assert.NotContains(t, output, "suppressed")
	assert.Contains(t, output, "emitted")
}

func TestNewLoggerWithLevel_DebugEnabled(t *testing.T) {
	var buf bytes.Buffer

	logger := pkg.NewLoggerWithLevel(&buf, slog.LevelDebug)

	logger.Debug("feed fetched", "entries", 2)

	assert.Contains(t, buf.String(), "feed fetched")
}
