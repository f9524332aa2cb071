package httputil

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/repology-tools/outdated-notifier/internal/config"
	"github.com/repology-tools/outdated-notifier/internal/domain/errors"
)

type ResilientHTTPClient struct {
	circuitBreaker *gobreaker.CircuitBreaker
	logger         *slog.Logger
	serviceName    string
}

// CreateResilientHTTPClient builds a resty client with retries on
// transient statuses and a circuit breaker guarding the transport.
func CreateResilientHTTPClient(cfg *config.Config, logger *slog.Logger, serviceName string) *resty.Client {
	client := resty.New()

	client.SetTimeout(cfg.ExternalRequestTimeout)

	client.SetRetryCount(cfg.RetryCount)
	client.SetRetryWaitTime(cfg.RetryBackoff)
	client.SetRetryMaxWaitTime(cfg.RetryBackoff * 5)

	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}

		for _, status := range cfg.RetryableStatusCodes {
			if r.StatusCode() == status {
				return true
			}
		}

		return false
	})

	client.SetTransport(newCircuitBreakerTransport(cfg, logger, serviceName, http.DefaultTransport))

	if logger != nil {
		client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			if resp.Request.Attempt > 1 {
				logger.Info("HTTP client retry attempt",
					"service", serviceName,
					"url", resp.Request.URL,
					"attempt", resp.Request.Attempt,
					"status", resp.StatusCode(),
				)
			}

			return nil
		})
	}

	return client
}

// CreateResilientTransportClient builds a plain net/http client around
// the same circuit breaker transport, for consumers that take an
// *http.Client instead of resty (the feed parser).
func CreateResilientTransportClient(cfg *config.Config, logger *slog.Logger, serviceName string) *http.Client {
	return &http.Client{
		Timeout:   cfg.ExternalRequestTimeout,
		Transport: newCircuitBreakerTransport(cfg, logger, serviceName, http.DefaultTransport),
	}
}

func newCircuitBreakerTransport(
	cfg *config.Config,
	logger *slog.Logger,
	serviceName string,
	original http.RoundTripper,
) *CircuitBreakerTransport {
	circuitBreakerSettings := gobreaker.Settings{
		Name:        serviceName + "_circuit_breaker",
		MaxRequests: uint32(cfg.CBPermittedCallsInHalfOpen), //nolint:gosec // G115: value comes from config
		Interval:    time.Duration(cfg.CBSlidingWindowSize) * time.Second,
		Timeout:     cfg.CBWaitDurationInOpenState,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= uint32(cfg.CBMinimumRequiredCalls) && //nolint:gosec // G115: value comes from config
				failureRatio >= float64(cfg.CBFailureRateThreshold)/100.0
		},
	}

	resilientClient := &ResilientHTTPClient{
		circuitBreaker: gobreaker.NewCircuitBreaker(circuitBreakerSettings),
		logger:         logger,
		serviceName:    serviceName,
	}

	return &CircuitBreakerTransport{
		resilientClient:   resilientClient,
		originalTransport: original,
	}
}

type CircuitBreakerTransport struct {
	resilientClient   *ResilientHTTPClient
	originalTransport http.RoundTripper
}

func (t *CircuitBreakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	result, err := t.resilientClient.circuitBreaker.Execute(func() (interface{}, error) {
		resp, err := t.originalTransport.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, &errors.HTTPError{StatusCode: resp.StatusCode}
		}

		return resp, nil
	})

	if err != nil {
		if err == gobreaker.ErrOpenState {
			if t.resilientClient.logger != nil {
				t.resilientClient.logger.Warn("Circuit breaker is open",
					"service", t.resilientClient.serviceName,
					"url", req.URL.String(),
				)
			}
		}

		return nil, err
	}

	return result.(*http.Response), nil
}
