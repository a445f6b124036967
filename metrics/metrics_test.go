package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	anticaptcha "github.com/anatolykoptev/go-anticaptcha"
)

func TestCollectorRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	assert.NotNil(t, c.Requests)
	assert.NotNil(t, c.RequestDuration)
	assert.NotNil(t, c.Polls)
	assert.NotNil(t, c.PollAttempts)

	// Registering the same names twice must fail.
	assert.Panics(t, func() { New(reg) })
}

func TestObserveRequest(t *testing.T) {
	c := New(nil)

	c.ObserveRequest("getBalance", true, 120*time.Millisecond)
	c.ObserveRequest("getBalance", true, 80*time.Millisecond)
	c.ObserveRequest("createTask", false, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Requests.WithLabelValues("getBalance", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Requests.WithLabelValues("createTask", "false")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.RequestDuration))
}

func TestObservePoll(t *testing.T) {
	c := New(nil)

	c.ObservePoll(3, "ready")
	c.ObservePoll(13, "timeout")
	c.ObservePoll(1, "ready")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Polls.WithLabelValues("ready")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Polls.WithLabelValues("timeout")))
}

func TestAttach(t *testing.T) {
	c := New(nil)
	cfg := anticaptcha.ClientConfig{ClientKey: "key"}
	c.Attach(&cfg)

	require.NotNil(t, cfg.MetricsHook)
	require.NotNil(t, cfg.PollHook)

	cfg.MetricsHook("getQueueStats", true, time.Millisecond)
	cfg.PollHook(2, "error")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Requests.WithLabelValues("getQueueStats", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Polls.WithLabelValues("error")))
}
