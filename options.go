package anticaptcha

import "time"

// Option tunes a single CreateTask, GetTaskResult or Solve call.
type Option func(*callOptions)

type callOptions struct {
	languagePool LanguagePool
	maxRetries   int
	interval     time.Duration
}

// options starts from the client configuration and applies opts.
func (c *Client) options(opts []Option) callOptions {
	o := callOptions{
		languagePool: c.cfg.LanguagePool,
		maxRetries:   *c.cfg.MaxRetries,
		interval:     c.cfg.RetryInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxRetries < 0 {
		o.maxRetries = 0
	}
	return o
}

// WithLanguagePool routes a created task to the given worker pool.
func WithLanguagePool(p LanguagePool) Option {
	return func(o *callOptions) {
		o.languagePool = p
	}
}

// WithMaxRetries sets how many result queries may follow the first one.
// With n retries at most n+1 queries are issued.
func WithMaxRetries(n int) Option {
	return func(o *callOptions) {
		o.maxRetries = n
	}
}

// WithRetryInterval sets the wait before each result query.
func WithRetryInterval(d time.Duration) Option {
	return func(o *callOptions) {
		o.interval = d
	}
}
