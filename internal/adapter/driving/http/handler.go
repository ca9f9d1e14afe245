// Package httphandler is the HTTP driving adapter serving the webhook
// receiver, the OAuth login flow, and the liveness endpoint.
package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ericfisherdev/reviewrelay/internal/domain/model"
)

// indexBody is the liveness/identity string served at the root.
const indexBody = "PR review notifier"

// EventDispatcher handles a classified webhook event. Satisfied by
// application.Dispatcher.
type EventDispatcher interface {
	HandleEvent(ctx context.Context, event model.PullRequestEvent) error
}

// Handler is the HTTP driving adapter.
type Handler struct {
	dispatcher EventDispatcher
	auth       *AuthHandler
	logger     *slog.Logger
}

// NewHandler creates a Handler. auth may be nil when OAuth credentials are
// not configured; the /auth route then responds 404.
func NewHandler(dispatcher EventDispatcher, auth *AuthHandler, logger *slog.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		auth:       auth,
		logger:     logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /auth", h.Auth)
	mux.HandleFunc("POST /payload", h.HandlePayload)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Index serves the liveness/identity string.
func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(indexBody))
}

// Auth serves the OAuth login flow, or 404 when OAuth is not configured.
func (h *Handler) Auth(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		http.NotFound(w, r)
		return
	}
	h.auth.ServeHTTP(w, r)
}

// HandlePayload receives GitHub webhook payloads. Undecodable bodies and
// payloads missing required fields get a 400; everything else is
// acknowledged with 200 "Ok" regardless of the dispatch outcome, since the
// webhook sender has no actionable recovery path. Dispatch failures are
// logged only.
func (h *Handler) HandlePayload(w http.ResponseWriter, r *http.Request) {
	var event model.PullRequestEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.dispatcher.HandleEvent(r.Context(), event); err != nil {
		if errors.Is(err, model.ErrInvalidPayload) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("event dispatch failed", "action", event.Action, "error", err)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Ok"))
}
