package anticaptcha

import (
	"errors"
	"log/slog"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/ratelimit"
)

// Client is the anti-captcha API client. It is safe for concurrent use;
// concurrent polls for different tasks are the caller's to compose.
type Client struct {
	key       string
	cfg       ClientConfig
	transport transport
	limiter   *ratelimit.Limiter
}

// NewClient creates a client for the account identified by cfg.ClientKey.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.ClientKey == "" {
		return nil, errors.New("anticaptcha: client key is required")
	}
	cfg.defaults()

	c := &Client{
		key: cfg.ClientKey,
		cfg: cfg,
	}

	if cfg.Proxy != "" {
		st, err := newStealthTransport(cfg.Proxy, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		c.transport = st
		slog.Info("anticaptcha: routing API traffic through proxy", slog.String("proxy", stealth.MaskProxy(cfg.Proxy)))
	} else {
		c.transport = &httpTransport{client: cfg.HTTPClient}
	}

	if cfg.RateLimit.RequestsPerWindow > 0 {
		c.limiter = ratelimit.NewLimiter(cfg.RateLimit)
	}

	return c, nil
}

// recordAPICall calls the metrics hook if configured.
func (c *Client) recordAPICall(method string, success bool, elapsed time.Duration) {
	if c.cfg.MetricsHook != nil {
		c.cfg.MetricsHook(method, success, elapsed)
	}
}

// recordPoll calls the poll hook if configured.
func (c *Client) recordPoll(attempts int, outcome string) {
	if c.cfg.PollHook != nil {
		c.cfg.PollHook(attempts, outcome)
	}
}

// logLifecycle logs task lifecycle events, at Info level in debug mode.
func (c *Client) logLifecycle(msg string, attrs ...any) {
	if c.cfg.Debug {
		slog.Info(msg, attrs...)
		return
	}
	slog.Debug(msg, attrs...)
}
