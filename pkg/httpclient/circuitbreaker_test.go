package httpclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBreakerClient(t *testing.T, cfg CircuitBreakerConfig) *CircuitBreakerClient {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCircuitBreakerClient(New(fastConfig(0)), cfg, logger)
}

func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newBreakerClient(t, DefaultCircuitBreakerConfig("test-ok"))

	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, c.State())
}

func TestCircuitBreaker_5xxCountsAsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newBreakerClient(t, DefaultCircuitBreakerConfig("test-5xx"))

	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error 502")
}

func TestCircuitBreaker_OpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := CircuitBreakerConfig{
		Name:         "test-open",
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  3,
	}
	c := newBreakerClient(t, cfg)

	for i := 0; i < 3; i++ {
		_, err := c.Get(context.Background(), srv.URL)
		require.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, c.State())

	_, err := c.Get(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}
