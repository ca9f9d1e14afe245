package application

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// heartbeatTimeout bounds each outbound ping independently of the interval.
const heartbeatTimeout = 10 * time.Second

// Heartbeat periodically pings an external monitoring endpoint to signal
// liveness. A failed ping is logged and never stops the loop; the loop itself
// stops only when the context is canceled at process shutdown.
type Heartbeat struct {
	url      string
	interval time.Duration
	client   *http.Client
}

// NewHeartbeat creates a Heartbeat for the given endpoint. An empty URL
// disables the service.
func NewHeartbeat(url string, interval time.Duration) *Heartbeat {
	return &Heartbeat{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: heartbeatTimeout},
	}
}

// Start begins the heartbeat loop. It pings immediately, then on the
// configured interval. Start blocks until the context is canceled. When no
// endpoint is configured it logs and returns immediately.
func (h *Heartbeat) Start(ctx context.Context) {
	if h.url == "" {
		slog.Info("heartbeat disabled, no endpoint configured")
		return
	}

	h.ping(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("heartbeat stopped")
			return
		case <-ticker.C:
			h.ping(ctx)
		}
	}
}

// ping issues a single GET to the monitoring endpoint and logs any failure.
func (h *Heartbeat) ping(ctx context.Context) {
	slog.Debug("sending heartbeat", "url", h.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		slog.Error("building heartbeat request failed", "error", err)
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		slog.Error("heartbeat request failed", "error", err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Error("heartbeat request failed",
			"status", resp.StatusCode,
			"body", string(body),
		)
	}
}
