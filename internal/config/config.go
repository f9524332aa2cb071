package config

import (
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/repology-tools/outdated-notifier/internal/domain/errors"
)

type Config struct {
	Maintainer string `mapstructure:"MAINTAINER"`
	Repository string `mapstructure:"REPOSITORY"`

	PollInterval time.Duration `mapstructure:"POLL_INTERVAL"`
	FeedBaseURL  string        `mapstructure:"FEED_BASE_URL"`

	NotifyEmail  string `mapstructure:"NOTIFY_EMAIL"`
	SendmailPath string `mapstructure:"SENDMAIL_PATH"`

	GitHubRepo       string `mapstructure:"GITHUB_REPO"`
	GitHubToken      string `mapstructure:"GITHUB_TOKEN"`
	GitHubAPIBaseURL string `mapstructure:"GITHUB_API_BASE_URL"`

	DedupWindowSize int `mapstructure:"DEDUP_WINDOW_SIZE"`

	BackoffBase time.Duration `mapstructure:"BACKOFF_BASE"`
	BackoffCap  time.Duration `mapstructure:"BACKOFF_CAP"`

	MetricsPort int `mapstructure:"METRICS_PORT"`

	LogLevel string `mapstructure:"LOG_LEVEL"`

	ExternalRequestTimeout time.Duration `mapstructure:"EXTERNAL_REQUEST_TIMEOUT"`

	RetryCount           int           `mapstructure:"RETRY_COUNT"`
	RetryBackoff         time.Duration `mapstructure:"RETRY_BACKOFF"`
	RetryableStatusCodes []int         `mapstructure:"RETRYABLE_STATUS_CODES"`

	RateLimitRequests int           `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`

	CBSlidingWindowSize        int           `mapstructure:"CB_SLIDING_WINDOW_SIZE"`
	CBMinimumRequiredCalls     int           `mapstructure:"CB_MINIMUM_REQUIRED_CALLS"`
	CBFailureRateThreshold     int           `mapstructure:"CB_FAILURE_RATE_THRESHOLD"`
	CBPermittedCallsInHalfOpen int           `mapstructure:"CB_PERMITTED_CALLS_IN_HALF_OPEN"`
	CBWaitDurationInOpenState  time.Duration `mapstructure:"CB_WAIT_DURATION_IN_OPEN_STATE"`
}

func LoadConfig() *Config {
	setDefaults()

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	_ = viper.ReadInConfig()

	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return getDefaultConfig()
	}

	return config
}

// Validate reports configuration errors that must stop the process
// before the polling loop starts.
func (c *Config) Validate() error {
	if c.Maintainer == "" {
		return &errors.ErrMissingRequiredField{FieldName: "MAINTAINER"}
	}

	if c.Repository == "" {
		return &errors.ErrMissingRequiredField{FieldName: "REPOSITORY"}
	}

	if c.GitHubRepo != "" && c.GitHubToken == "" {
		return &errors.ErrMissingToken{}
	}

	if c.DedupWindowSize <= 0 {
		return &errors.ErrInvalidValue{
			FieldName: "DEDUP_WINDOW_SIZE",
			Value:     strconv.Itoa(c.DedupWindowSize),
		}
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("POLL_INTERVAL", "300s")
	viper.SetDefault("FEED_BASE_URL", "https://repology.org")

	viper.SetDefault("SENDMAIL_PATH", "sendmail")

	viper.SetDefault("GITHUB_API_BASE_URL", "https://api.github.com")

	viper.SetDefault("DEDUP_WINDOW_SIZE", 500)

	viper.SetDefault("BACKOFF_BASE", "30s")
	viper.SetDefault("BACKOFF_CAP", "1h")

	viper.SetDefault("METRICS_PORT", 9095)

	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("EXTERNAL_REQUEST_TIMEOUT", "10s")

	viper.SetDefault("RETRY_COUNT", 3)
	viper.SetDefault("RETRY_BACKOFF", "1s")
	viper.SetDefault("RETRYABLE_STATUS_CODES", []int{502, 503, 504})

	viper.SetDefault("RATE_LIMIT_REQUESTS", 30)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")

	viper.SetDefault("CB_SLIDING_WINDOW_SIZE", 10)
	viper.SetDefault("CB_MINIMUM_REQUIRED_CALLS", 5)
	viper.SetDefault("CB_FAILURE_RATE_THRESHOLD", 50)
	viper.SetDefault("CB_PERMITTED_CALLS_IN_HALF_OPEN", 2)
	viper.SetDefault("CB_WAIT_DURATION_IN_OPEN_STATE", "10s")
}

func getDefaultConfig() *Config {
	return &Config{
		PollInterval: 300 * time.Second,
		FeedBaseURL:  "https://repology.org",

		SendmailPath: "sendmail",

		GitHubAPIBaseURL: "https://api.github.com",

		DedupWindowSize: 500,

		BackoffBase: 30 * time.Second,
		BackoffCap:  1 * time.Hour,

		MetricsPort: 9095,

		LogLevel: "info",

		ExternalRequestTimeout: 10 * time.Second,

		RetryCount:           3,
		RetryBackoff:         1 * time.Second,
		RetryableStatusCodes: []int{502, 503, 504},

		RateLimitRequests: 30,
		RateLimitWindow:   1 * time.Minute,

		CBSlidingWindowSize:        10,
		CBMinimumRequiredCalls:     5,
		CBFailureRateThreshold:     50,
		CBPermittedCallsInHalfOpen: 2,
		CBWaitDurationInOpenState:  10 * time.Second,
	}
}
