package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/repology-tools/outdated-notifier/internal/common/httputil"
	"github.com/repology-tools/outdated-notifier/internal/config"
	"github.com/repology-tools/outdated-notifier/internal/domain/errors"
	"github.com/repology-tools/outdated-notifier/internal/domain/models"
)

// GitHubNotifier creates one issue per update in the configured
// repository. Outbound requests are paced by a rate limiter since the
// issues API is rate-limited server side.
type GitHubNotifier struct {
	client  *resty.Client
	repo    string
	token   string
	baseURL string
	limiter *rate.Limiter
	logger  *slog.Logger
}

type issueRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func NewGitHubNotifier(repo, token, baseURL string, cfg *config.Config, logger *slog.Logger) *GitHubNotifier {
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}

	limit := rate.Inf
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow > 0 {
		limit = rate.Every(cfg.RateLimitWindow / time.Duration(cfg.RateLimitRequests))
	}

	return &GitHubNotifier{
		client:  httputil.CreateResilientHTTPClient(cfg, logger, "github"),
		repo:    repo,
		token:   token,
		baseURL: baseURL,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

func (n *GitHubNotifier) Channel() string {
	return "github"
}

func (n *GitHubNotifier) Send(ctx context.Context, update *models.Update) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait interrupted: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/issues", n.baseURL, n.repo)

	payload := issueRequest{
		Title: update.Summary(),
		Body:  fmt.Sprintf("[Details](%s)", update.DetailsURL),
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.github.v3+json").
		SetHeader("Authorization", "token "+n.token).
		SetBody(payload).
		Post(url)

	if err != nil {
		return fmt.Errorf("failed to create GitHub issue: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusCreated:
		n.logger.Info("GitHub issue created successfully",
			"repo", n.repo,
			"update", update.String(),
		)

		return nil
	case http.StatusUnauthorized:
		return &errors.ErrBadCredentials{}
	case http.StatusForbidden:
		return &errors.ErrRateLimited{}
	default:
		return &errors.HTTPError{
			StatusCode: resp.StatusCode(),
			Body:       string(resp.Body()),
		}
	}
}
