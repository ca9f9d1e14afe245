// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/reviewrelay/internal/domain/port/driven"
)

// requestTimeout bounds every outbound GitHub call so a hung upstream
// cannot pin a webhook-handling goroutine indefinitely.
const requestTimeout = 30 * time.Second

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth in the Authorization header)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	rateLimitClient.Timeout = requestTimeout
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// SearchApprovedPRs returns how many open PRs in the repository match the
// given title and carry at least one approved review. The title is embedded
// in the search query verbatim, mirroring how review approval has always
// been detected here.
func (c *Client) SearchApprovedPRs(ctx context.Context, repoFullName string, title string) (int, error) {
	if _, _, err := splitRepo(repoFullName); err != nil {
		return 0, err
	}

	query := fmt.Sprintf("%s repo:%s is:pr is:open review:approved", title, repoFullName)
	slog.Debug("checking pr approval", "repo", repoFullName, "query", query)

	result, resp, err := c.gh.Search.Issues(ctx, query, &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("searching approved PRs in %s: %w", repoFullName, err)
	}

	logRateLimit(resp, repoFullName+"/search", result.GetTotal())

	return result.GetTotal(), nil
}

// RemoveLabel deletes a label from the given issue. Response handling:
// 404 means the label is already absent and is treated as success; any other
// API error is logged with the API-provided message and swallowed, since the
// caller has no retry path. Only transport-level failures are returned.
func (c *Client) RemoveLabel(ctx context.Context, repoFullName string, issueNumber int, label string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	resp, err := c.gh.Issues.RemoveLabelForIssue(ctx, owner, repo, issueNumber, label)
	if err != nil {
		var ghErr *gh.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil {
			if ghErr.Response.StatusCode == http.StatusNotFound {
				slog.Info("label already removed", "repo", repoFullName, "issue", issueNumber, "label", label)
				return nil
			}
			slog.Error("unexpected response removing label",
				"repo", repoFullName,
				"issue", issueNumber,
				"label", label,
				"status", ghErr.Response.StatusCode,
				"message", ghErr.Message,
			)
			return nil
		}
		return fmt.Errorf("removing label %q from %s#%d: %w", label, repoFullName, issueNumber, err)
	}

	logRateLimit(resp, repoFullName+"/labels", 1)
	slog.Debug("label removed", "repo", repoFullName, "issue", issueNumber, "label", label)

	return nil
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
