// Package metrics records anti-captcha client activity as Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	anticaptcha "github.com/anatolykoptev/go-anticaptcha"
)

// Collector holds the client metrics.
type Collector struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Polls           *prometheus.CounterVec
	PollAttempts    *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "anticaptcha_requests_total",
				Help: "Total number of anti-captcha API requests",
			},
			[]string{"method", "success"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "anticaptcha_request_duration_seconds",
				Help:    "Anti-captcha API request duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
			[]string{"method"},
		),
		Polls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "anticaptcha_task_polls_total",
				Help: "Total number of task result polls by outcome",
			},
			[]string{"outcome"},
		),
		PollAttempts: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "anticaptcha_task_poll_attempts",
				Help:    "Result queries issued per task result poll",
				Buckets: prometheus.LinearBuckets(1, 1, 15),
			},
			[]string{"outcome"},
		),
	}
}

// ObserveRequest matches ClientConfig.MetricsHook.
func (c *Collector) ObserveRequest(method string, success bool, elapsed time.Duration) {
	c.Requests.WithLabelValues(method, strconv.FormatBool(success)).Inc()
	c.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObservePoll matches ClientConfig.PollHook.
func (c *Collector) ObservePoll(attempts int, outcome string) {
	c.Polls.WithLabelValues(outcome).Inc()
	c.PollAttempts.WithLabelValues(outcome).Observe(float64(attempts))
}

// Attach installs the collector's hooks into cfg.
func (c *Collector) Attach(cfg *anticaptcha.ClientConfig) {
	cfg.MetricsHook = c.ObserveRequest
	cfg.PollHook = c.ObservePoll
}
