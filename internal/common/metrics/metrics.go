package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "repology_notifier"

	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	PollCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "poll_cycles_total",
			Help:      "Total number of polling cycles by outcome",
		},
		[]string{"status"},
	)

	PollCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "poll_cycle_duration_seconds",
			Help:      "Duration of one polling cycle in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	FeedEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "feed_entries_total",
			Help:      "Total number of feed entries observed by classification",
		},
		[]string{"classification"},
	)

	UpdatesDetectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "updates_detected_total",
			Help:      "Total number of newly detected outdated packages",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "notifications_total",
			Help:      "Total number of notification attempts by channel and outcome",
		},
		[]string{"channel", "status"},
	)

	BackoffDelaySeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "backoff_delay_seconds",
			Help:      "Delay applied after the most recent failed cycle, zero after success",
		},
	)
)

func RecordPollCycle(err error, duration time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}

	PollCyclesTotal.WithLabelValues(status).Inc()
	PollCycleDuration.Observe(duration.Seconds())
}

func RecordNotification(channel string, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}

	NotificationsTotal.WithLabelValues(channel, status).Inc()
}
