package notify_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repology-tools/outdated-notifier/internal/domain/models"
	"github.com/repology-tools/outdated-notifier/internal/notify"
)

type fakeNotifier struct {
	name string
	err  error
	sent []*models.Update
}

func (f *fakeNotifier) Channel() string {
	return f.name
}

func (f *fakeNotifier) Send(_ context.Context, update *models.Update) error {
	f.sent = append(f.sent, update)
	return f.err
}

func newTestUpdate() *models.Update {
	return &models.Update{
		Repository: "freebsd",
		Package:    "foo",
		OldVersion: "1.0",
		NewVersion: "2.0",
		DetailsURL: "https://repology.org/project/foo/versions",
	}
}

func TestDispatcher_AllChannelsAttempted(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	email := &fakeNotifier{name: "email"}
	github := &fakeNotifier{name: "github"}

	dispatcher := notify.NewDispatcher(logger, email, github)

	results := dispatcher.Dispatch(context.Background(), newTestUpdate())

	require.Len(t, results, 2)
	assert.Len(t, email.sent, 1)
	assert.Len(t, github.sent, 1)
	require.NoError(t, notify.CombineErrors(results))
}

func TestDispatcher_FailingChannelDoesNotBlockOthers(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	sendErr := errors.New("relay unavailable")

	email := &fakeNotifier{name: "email", err: sendErr}
	github := &fakeNotifier{name: "github"}

	dispatcher := notify.NewDispatcher(logger, email, github)

	results := dispatcher.Dispatch(context.Background(), newTestUpdate())

	require.Len(t, results, 2)
	assert.Len(t, email.sent, 1)
	assert.Len(t, github.sent, 1)

	assert.Equal(t, "email", results[0].Channel)
	assert.ErrorIs(t, results[0].Err, sendErr)
	assert.NoError(t, results[1].Err)

	combined := notify.CombineErrors(results)
	require.Error(t, combined)
	assert.ErrorIs(t, combined, sendErr)
}

func TestDispatcher_NoChannelsConfigured(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	dispatcher := notify.NewDispatcher(logger)

	results := dispatcher.Dispatch(context.Background(), newTestUpdate())

	assert.Empty(t, results)
	assert.NoError(t, notify.CombineErrors(results))
}
