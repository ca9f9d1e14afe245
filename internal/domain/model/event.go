// Package model defines the webhook event types received from GitHub.
package model

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload is the sentinel for webhook payloads missing required
// fields. Handlers match it with errors.Is to return a 400 instead of
// acknowledging the event.
var ErrInvalidPayload = errors.New("invalid payload")

// Event actions this service acts on. Any other action is a logged no-op.
const (
	ActionLabeled   = "labeled"
	ActionSubmitted = "submitted"
)

// ReviewStateApproved is the review.state value that triggers the approval check.
const ReviewStateApproved = "approved"

// PullRequestEvent is the subset of the GitHub pull_request and
// pull_request_review webhook payloads this service reads.
type PullRequestEvent struct {
	Action      string       `json:"action"`
	Label       *Label       `json:"label,omitempty"`
	PullRequest *PullRequest `json:"pull_request,omitempty"`
	Review      *Review      `json:"review,omitempty"`
}

// Label is a tag attached to an issue or PR, used as a review-request marker.
type Label struct {
	Name string `json:"name"`
}

// PullRequest carries the PR fields embedded in notifications.
type PullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
	User    User   `json:"user"`
}

// User identifies the PR author.
type User struct {
	Login string `json:"login"`
}

// Review carries the submitted review's state.
type Review struct {
	State string `json:"state"`
}

// Validate checks that the fields required for the event's action are present.
// Unknown actions validate trivially since they are dispatched as no-ops.
// Every failure wraps ErrInvalidPayload and names the missing field.
func (e *PullRequestEvent) Validate() error {
	switch e.Action {
	case ActionLabeled:
		if e.Label == nil || e.Label.Name == "" {
			return fmt.Errorf("%w: missing label.name", ErrInvalidPayload)
		}
		if err := e.validatePullRequest(); err != nil {
			return err
		}
		if e.PullRequest.HTMLURL == "" {
			return fmt.Errorf("%w: missing pull_request.html_url", ErrInvalidPayload)
		}
		if e.PullRequest.User.Login == "" {
			return fmt.Errorf("%w: missing pull_request.user.login", ErrInvalidPayload)
		}
	case ActionSubmitted:
		if e.Review == nil || e.Review.State == "" {
			return fmt.Errorf("%w: missing review.state", ErrInvalidPayload)
		}
		if err := e.validatePullRequest(); err != nil {
			return err
		}
	}
	return nil
}

func (e *PullRequestEvent) validatePullRequest() error {
	if e.PullRequest == nil {
		return fmt.Errorf("%w: missing pull_request", ErrInvalidPayload)
	}
	if e.PullRequest.Number == 0 {
		return fmt.Errorf("%w: missing pull_request.number", ErrInvalidPayload)
	}
	if e.PullRequest.Title == "" {
		return fmt.Errorf("%w: missing pull_request.title", ErrInvalidPayload)
	}
	return nil
}
