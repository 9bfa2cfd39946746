package helpers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ofertasflash/dealbot/pkg/retry"

	"github.com/stretchr/testify/assert"
)

func noSleep(_ context.Context, _ time.Duration) error { return nil }

func TestFetchWithRandomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Equal(t, "es-ES,es;q=0.9,en;q=0.8", r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>ofertas</body></html>"))
	}))
	defer server.Close()

	body, err := FetchWithRandomHeaders(context.Background(), server.URL)
	assert.NoError(t, err)
	assert.NotNil(t, body)
}

func TestFetchWithRandomHeaders_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := FetchWithRandomHeaders(context.Background(), server.URL)
	assert.Error(t, err)
	assert.False(t, IsThrottleStatus(err))
}

func TestFetchWithRetry_ThrottleThenOK(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	policy := retry.Policy{
		MaxAttempts: 3,
		Backoff:     retry.LinearBackoff(time.Second),
		Sleep:       noSleep,
	}

	body, err := FetchWithRetry(context.Background(), server.URL, policy)
	assert.NoError(t, err)
	assert.NotNil(t, body)
	assert.Equal(t, 3, calls)
}

func TestFetchWithRetry_ServerErrorThenOK(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	policy := retry.Policy{
		MaxAttempts: 3,
		Backoff:     retry.LinearBackoff(time.Second),
		Sleep:       noSleep,
	}

	body, err := FetchWithRetry(context.Background(), server.URL, policy)
	assert.NoError(t, err)
	assert.NotNil(t, body)
	assert.Equal(t, 3, calls)
}

func TestFetchWithRetry_PersistentFailureExhausts(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	policy := retry.Policy{
		MaxAttempts: 3,
		Backoff:     retry.LinearBackoff(time.Second),
		Sleep:       noSleep,
	}

	_, err := FetchWithRetry(context.Background(), server.URL, policy)
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestIsThrottleStatus(t *testing.T) {
	assert.True(t, IsThrottleStatus(&StatusError{Code: http.StatusTooManyRequests}))
	assert.True(t, IsThrottleStatus(&StatusError{Code: http.StatusServiceUnavailable}))
	assert.False(t, IsThrottleStatus(&StatusError{Code: http.StatusBadGateway}))
}
