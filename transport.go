package anticaptcha

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
)

const userAgent = "go-anticaptcha/1.0"

// transport sends one JSON POST and returns the status code and raw body.
type transport interface {
	post(ctx context.Context, url string, body []byte) (int, []byte, error)
}

// apiHeaders returns the headers sent with every API request.
// The credential travels in the body, never in a header.
func apiHeaders() map[string]string {
	return map[string]string{
		"content-type": "application/json",
		"accept":       "application/json",
		"user-agent":   userAgent,
	}
}

// apiHeaderOrder keeps header order stable for the fingerprinted client.
var apiHeaderOrder = []string{
	"content-type",
	"accept",
	"user-agent",
}

type httpTransport struct {
	client *http.Client
}

func (t *httpTransport) post(ctx context.Context, url string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	for k, v := range apiHeaders() {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

// headerOrderDoer is the part of *stealth.BrowserClient the proxy path uses.
type headerOrderDoer interface {
	DoWithHeaderOrder(method, url string, headers map[string]string, body io.Reader, order []string) ([]byte, map[string]string, int, error)
}

// stealthTransport sends requests through a browser-fingerprinted client,
// used when the API must be reached through a proxy.
type stealthTransport struct {
	bc      headerOrderDoer
	timeout time.Duration
}

func newStealthTransport(proxy string, timeout time.Duration) (*stealthTransport, error) {
	bc, err := stealth.NewClient(
		stealth.WithProxy(proxy),
		stealth.WithHeaderOrder(apiHeaderOrder),
	)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}
	return &stealthTransport{bc: bc, timeout: timeout}, nil
}

type stealthResult struct {
	status int
	data   []byte
	err    error
}

// post runs the request in its own goroutine, since DoWithHeaderOrder takes no
// context. On cancel or timeout it returns at once; the abandoned request
// finishes in the background and its result is dropped.
func (t *stealthTransport) post(ctx context.Context, url string, body []byte) (int, []byte, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	done := make(chan stealthResult, 1)
	go func() {
		data, _, status, err := t.bc.DoWithHeaderOrder(http.MethodPost, url, apiHeaders(), bytes.NewReader(body), apiHeaderOrder)
		done <- stealthResult{status: status, data: data, err: err}
	}()

	select {
	case r := <-done:
		return r.status, r.data, r.err
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}
