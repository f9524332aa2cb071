package notify_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repology-tools/outdated-notifier/internal/config"
	"github.com/repology-tools/outdated-notifier/internal/domain/errors"
	"github.com/repology-tools/outdated-notifier/internal/notify"
)

func newTestConfig() *config.Config {
	return &config.Config{
		ExternalRequestTimeout:     5 * time.Second,
		RetryCount:                 0,
		RetryBackoff:               10 * time.Millisecond,
		RetryableStatusCodes:       []int{502, 503, 504},
		RateLimitRequests:          0,
		RateLimitWindow:            0,
		CBSlidingWindowSize:        100,
		CBMinimumRequiredCalls:     100,
		CBFailureRateThreshold:     90,
		CBPermittedCallsInHalfOpen: 3,
		CBWaitDurationInOpenState:  10 * time.Second,
	}
}

func TestGitHubNotifier_IssueCreated(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var (
		gotPath    string
		gotAuth    string
		gotPayload map[string]string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"number": 1}`))
	}))
	defer server.Close()

	notifier := notify.NewGitHubNotifier("delroth/maintained-packages", "secret-token", server.URL, newTestConfig(), logger)

	err := notifier.Send(context.Background(), newTestUpdate())

	require.NoError(t, err)
	assert.Equal(t, "/repos/delroth/maintained-packages/issues", gotPath)
	assert.Equal(t, "token secret-token", gotAuth)
	assert.Equal(t, "(freebsd) foo: 1.0 -> 2.0", gotPayload["title"])
	assert.Equal(t, "[Details](https://repology.org/project/foo/versions)", gotPayload["body"])
}

func TestGitHubNotifier_BadCredentials(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	notifier := notify.NewGitHubNotifier("owner/repo", "bad-token", server.URL, newTestConfig(), logger)

	err := notifier.Send(context.Background(), newTestUpdate())

	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.ErrBadCredentials{})
}

func TestGitHubNotifier_RateLimited(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	notifier := notify.NewGitHubNotifier("owner/repo", "token", server.URL, newTestConfig(), logger)

	err := notifier.Send(context.Background(), newTestUpdate())

	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.ErrRateLimited{})
}

func TestGitHubNotifier_UnexpectedStatus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "Validation Failed"}`))
	}))
	defer server.Close()

	notifier := notify.NewGitHubNotifier("owner/repo", "token", server.URL, newTestConfig(), logger)

	err := notifier.Send(context.Background(), newTestUpdate())

	require.Error(t, err)

	var httpErr *errors.HTTPError

	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "Validation Failed")
}

func TestGitHubNotifier_NetworkFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	server.Close()

	notifier := notify.NewGitHubNotifier("owner/repo", "token", server.URL, newTestConfig(), logger)

	err := notifier.Send(context.Background(), newTestUpdate())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create GitHub issue")
}
