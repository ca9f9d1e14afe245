package application_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ericfisherdev/reviewrelay/internal/application"
	"github.com/stretchr/testify/assert"
)

func TestHeartbeat_Disabled(t *testing.T) {
	h := application.NewHeartbeat("", time.Second)

	done := make(chan struct{})
	go func() {
		h.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("heartbeat with no endpoint should return immediately")
	}
}

func TestHeartbeat_PingsAndStopsOnCancel(t *testing.T) {
	var pings atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pings.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	h := application.NewHeartbeat(server.URL, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		h.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return pings.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("heartbeat did not stop on context cancellation")
	}
}

// TestHeartbeat_SurvivesFailures verifies that non-200 responses are logged
// but never stop the loop.
func TestHeartbeat_SurvivesFailures(t *testing.T) {
	var pings atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pings.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("monitor exploded"))
	}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := application.NewHeartbeat(server.URL, 10*time.Millisecond)
	go h.Start(ctx)

	assert.Eventually(t, func() bool { return pings.Load() >= 3 }, time.Second, 5*time.Millisecond)
}
