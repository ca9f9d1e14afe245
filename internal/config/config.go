// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	RepoOwner    string
	RepoName     string
	Label        string
	SlackChannel string
	SlackToken   string
	BotIcon      string
	GitHubToken  string

	RequiredApproves int

	GitHubClientID     string
	GitHubClientSecret string

	HealthcheckURL      string
	HealthcheckInterval time.Duration

	ListenAddr string

	// SessionKey is the 32-byte cookie encryption key decoded from
	// REVIEWRELAY_SESSION_KEY. Nil when unset; the composition root then
	// generates a per-process key and sessions do not survive restarts.
	SessionKey []byte
}

// RepoFullName returns the watched repository in "owner/repo" form.
func (c *Config) RepoFullName() string {
	return c.RepoOwner + "/" + c.RepoName
}

// HasOAuthCredentials returns true when both the GitHub OAuth client ID and
// secret are non-empty. Used by the composition root to decide whether the
// /auth route is served at all.
func (c *Config) HasOAuthCredentials() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. Repository, label, channel, and API token variables are required;
// missing values fail at startup rather than at first use. The OAuth client
// ID/secret pair is optional but must be set together. Optional variables with
// defaults: REVIEWRELAY_BOT_ICON (:robot_face:), REVIEWRELAY_REQUIRED_APPROVES (2),
// REVIEWRELAY_HEALTHCHECK_INTERVAL (60s), REVIEWRELAY_LISTEN_ADDR (127.0.0.1:8080).
func Load() (*Config, error) {
	cfg := &Config{}

	required := []struct {
		key  string
		dest *string
	}{
		{"REVIEWRELAY_REPO_OWNER", &cfg.RepoOwner},
		{"REVIEWRELAY_REPO_NAME", &cfg.RepoName},
		{"REVIEWRELAY_LABEL", &cfg.Label},
		{"REVIEWRELAY_SLACK_CHANNEL", &cfg.SlackChannel},
		{"REVIEWRELAY_SLACK_TOKEN", &cfg.SlackToken},
		{"REVIEWRELAY_GITHUB_TOKEN", &cfg.GitHubToken},
	}
	for _, r := range required {
		v := os.Getenv(r.key)
		if v == "" {
			return nil, fmt.Errorf("%s is required", r.key)
		}
		*r.dest = v
	}

	cfg.BotIcon = ":robot_face:"
	if v, ok := os.LookupEnv("REVIEWRELAY_BOT_ICON"); ok && v != "" {
		cfg.BotIcon = v
	}

	cfg.RequiredApproves = 2
	if v, ok := os.LookupEnv("REVIEWRELAY_REQUIRED_APPROVES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("REVIEWRELAY_REQUIRED_APPROVES has invalid value %q", v)
		}
		cfg.RequiredApproves = n
	}

	cfg.GitHubClientID = os.Getenv("REVIEWRELAY_GITHUB_CLIENT_ID")
	cfg.GitHubClientSecret = os.Getenv("REVIEWRELAY_GITHUB_CLIENT_SECRET")
	if (cfg.GitHubClientID == "") != (cfg.GitHubClientSecret == "") {
		return nil, fmt.Errorf("REVIEWRELAY_GITHUB_CLIENT_ID and REVIEWRELAY_GITHUB_CLIENT_SECRET must be set together")
	}

	cfg.HealthcheckURL = os.Getenv("REVIEWRELAY_HEALTHCHECK_URL")

	cfg.HealthcheckInterval = 60 * time.Second
	if v, ok := os.LookupEnv("REVIEWRELAY_HEALTHCHECK_INTERVAL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("REVIEWRELAY_HEALTHCHECK_INTERVAL has invalid duration %q: %w", v, err)
		}
		cfg.HealthcheckInterval = parsed
	}

	cfg.ListenAddr = "127.0.0.1:8080"
	if v, ok := os.LookupEnv("REVIEWRELAY_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}

	if v, ok := os.LookupEnv("REVIEWRELAY_SESSION_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("REVIEWRELAY_SESSION_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("REVIEWRELAY_SESSION_KEY must decode to 32 bytes, got %d", len(key))
		}
		cfg.SessionKey = key
	}

	return cfg, nil
}
