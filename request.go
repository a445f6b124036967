package anticaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	// minThrottleWait is the shortest sleep while waiting on the rate limiter.
	minThrottleWait = 50 * time.Millisecond

	// throttledFor is how long a method stays blocked after an HTTP 429.
	throttledFor = time.Minute
)

// call POSTs params plus the credential to an API method and returns the raw
// 2xx response body, which parse turns into the result. Vendor failures come
// back from parse as *APIError. Nothing is retried here.
func (c *Client) call(ctx context.Context, method string, params map[string]any, parse func([]byte) error) error {
	start := time.Now()
	data, err := c.do(ctx, method, params)
	if err == nil {
		err = parse(data)
	}
	c.recordAPICall(method, err == nil, time.Since(start))
	return err
}

func (c *Client) do(ctx context.Context, method string, params map[string]any) ([]byte, error) {
	if err := c.wait(ctx, method); err != nil {
		return nil, err
	}

	req := make(map[string]any, len(params)+1)
	for k, v := range params {
		req[k] = v
	}
	req["clientKey"] = c.key

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", method, err)
	}

	status, data, err := c.transport.post(ctx, methodURL(c.cfg.BaseURL, method), body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, method, err)
	}

	switch {
	case status == http.StatusTooManyRequests:
		if c.limiter != nil {
			c.limiter.MarkRateLimited(method, time.Now().Add(throttledFor))
		}
		return nil, fmt.Errorf("%w: %s HTTP 429 rate limited", ErrTransport, method)
	case status < 200 || status > 299:
		slog.Warn("anticaptcha: non-2xx response", slog.String("method", method), slog.Int("status", status), slog.String("body", truncateBytes(data, 500)))
		return nil, fmt.Errorf("%w: %s HTTP %d: %s", ErrTransport, method, status, truncateBytes(data, 200))
	}

	return data, nil
}

// wait blocks until the rate limiter admits a request for method.
func (c *Client) wait(ctx context.Context, method string) error {
	if c.limiter == nil {
		return nil
	}
	for !c.limiter.Allow(method) {
		delay := max(time.Until(c.limiter.AvailableAt(method)), minThrottleWait)
		slog.Debug("anticaptcha: throttled", slog.String("method", method), slog.Duration("wait", delay))
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
