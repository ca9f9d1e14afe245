package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/reviewrelay/internal/adapter/driven/github"
	slackadapter "github.com/ericfisherdev/reviewrelay/internal/adapter/driven/slack"
	httphandler "github.com/ericfisherdev/reviewrelay/internal/adapter/driving/http"
	"github.com/ericfisherdev/reviewrelay/internal/application"
	"github.com/ericfisherdev/reviewrelay/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"repo", cfg.RepoFullName(),
		"label", cfg.Label,
		"channel", cfg.SlackChannel,
		"healthcheck_interval", cfg.HealthcheckInterval,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Wire driven adapters.
	notifier := slackadapter.NewNotifier(cfg.SlackToken, cfg.BotIcon)
	ghClient := githubadapter.NewClient(cfg.GitHubToken)

	// 4. Create the event dispatcher.
	dispatcher := application.NewDispatcher(
		ghClient,
		notifier,
		cfg.RepoFullName(),
		cfg.Label,
		cfg.SlackChannel,
		cfg.RequiredApproves,
	)

	// 5. Start the heartbeat loop (no-op when no endpoint is configured).
	heartbeat := application.NewHeartbeat(cfg.HealthcheckURL, cfg.HealthcheckInterval)
	go heartbeat.Start(ctx)

	// 6. Create the OAuth handler when credentials are configured.
	var auth *httphandler.AuthHandler
	if cfg.HasOAuthCredentials() {
		auth = httphandler.NewAuthHandler(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.SessionKey, slog.Default())
		slog.Info("oauth login enabled")
	} else {
		slog.Info("no oauth credentials configured, /auth disabled")
	}

	// 7. Create the HTTP handler and register routes with middleware.
	h := httphandler.NewHandler(dispatcher, auth, slog.Default())
	handler := httphandler.NewServeMux(h, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 8. Log startup complete.
	slog.Info("reviewrelay started",
		"listen_addr", cfg.ListenAddr,
		"repo", cfg.RepoFullName(),
	)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for HTTP server drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	// 11. Log shutdown complete.
	slog.Info("shutdown complete")
	return nil
}
