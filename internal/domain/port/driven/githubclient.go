package driven

import "context"

// GitHubClient defines the driven port for interacting with the GitHub API.
type GitHubClient interface {
	// SearchApprovedPRs returns the number of open PRs in the repository
	// matching the given title that have at least one approved review.
	SearchApprovedPRs(ctx context.Context, repoFullName string, title string) (int, error)

	// RemoveLabel deletes a label from the given issue. A label that is
	// already absent (404) is treated as success; only transport failures
	// are returned as errors.
	RemoveLabel(ctx context.Context, repoFullName string, issueNumber int, label string) error
}
