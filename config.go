package anticaptcha

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-stealth/ratelimit"
)

// ClientConfig holds all configuration for the anti-captcha client.
type ClientConfig struct {
	// ClientKey is the account key from the customer panel. Required.
	ClientKey string

	// BaseURL overrides the API root. Default: https://api.anti-captcha.com
	BaseURL string

	// HTTPClient is used for requests when Proxy is empty.
	// Default: a client with Timeout.
	HTTPClient *http.Client

	// Timeout bounds a single API request, on the proxy path too.
	Timeout time.Duration

	// Proxy routes API traffic through a browser-fingerprinted client
	// with this proxy URL. HTTPClient is ignored when set.
	Proxy string

	// LanguagePool is the default worker pool for CreateTask.
	LanguagePool LanguagePool

	// MaxRetries is the default number of extra result queries after the first.
	// Nil means 12; point it at 0 for a single query.
	MaxRetries *int

	// RetryInterval is the default wait before each result query.
	RetryInterval time.Duration

	// RateLimit throttles requests per API method. Zero value disables throttling.
	RateLimit ratelimit.Config

	// MetricsHook is called after each API request for external metrics collection.
	// method is the API method name, success is false on any error.
	MetricsHook func(method string, success bool, elapsed time.Duration)

	// PollHook is called once per GetTaskResult call with the number of
	// queries issued and the outcome: "ready", "timeout", "error" or "canceled".
	PollHook func(attempts int, outcome string)

	// Debug promotes task lifecycle logs from Debug to Info level.
	Debug bool
}

const defaultMaxRetries = 12

// defaults fills in zero-value config fields with sensible defaults.
func (cfg *ClientConfig) defaults() {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.LanguagePool == "" {
		cfg.LanguagePool = LanguageEnglish
	}
	retries := defaultMaxRetries
	if cfg.MaxRetries != nil {
		retries = *cfg.MaxRetries
	}
	cfg.MaxRetries = &retries
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = 10 * time.Second
	}
}
