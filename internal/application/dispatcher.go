// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/reviewrelay/internal/domain/model"
	"github.com/ericfisherdev/reviewrelay/internal/domain/port/driven"
)

// Dispatcher classifies incoming pull-request webhook events and orchestrates
// the GitHub and notifier clients for the single configured repository,
// label, and channel. It holds no mutable state; every event is handled
// independently.
type Dispatcher struct {
	ghClient driven.GitHubClient
	notifier driven.Notifier

	repoFullName     string
	label            string
	channel          string
	requiredApproves int
}

// NewDispatcher creates a Dispatcher with all required dependencies.
func NewDispatcher(
	ghClient driven.GitHubClient,
	notifier driven.Notifier,
	repoFullName string,
	label string,
	channel string,
	requiredApproves int,
) *Dispatcher {
	return &Dispatcher{
		ghClient:         ghClient,
		notifier:         notifier,
		repoFullName:     repoFullName,
		label:            label,
		channel:          channel,
		requiredApproves: requiredApproves,
	}
}

// HandleEvent validates the event and dispatches on its action. Events with
// unrecognized actions are logged no-ops. Returned errors are for the
// caller's log only; the webhook sender is acknowledged regardless.
func (d *Dispatcher) HandleEvent(ctx context.Context, event model.PullRequestEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	switch event.Action {
	case model.ActionLabeled:
		return d.handleLabeled(ctx, event)
	case model.ActionSubmitted:
		return d.handleReviewed(ctx, event)
	default:
		slog.Debug("unknown action", "action", event.Action)
		return nil
	}
}

// handleLabeled notifies the channel when the configured review label is
// attached to a PR. Other labels are ignored.
func (d *Dispatcher) handleLabeled(ctx context.Context, event model.PullRequestEvent) error {
	pr := event.PullRequest
	if event.Label.Name != d.label {
		slog.Debug("ignoring label", "label", event.Label.Name, "pr", pr.Number)
		return nil
	}

	message := fmt.Sprintf("@here PR _%s_ by *%s* is waiting for review <%s>",
		pr.Title, pr.User.Login, pr.HTMLURL)

	slog.Debug("sending notification", "url", pr.HTMLURL)
	if err := d.notifier.Send(ctx, d.channel, message); err != nil {
		return fmt.Errorf("notifying review request for %s#%d: %w", d.repoFullName, pr.Number, err)
	}

	return nil
}

// handleReviewed reacts to a submitted review. Only approvals trigger the
// approval search; when any approved match exists the review label is removed
// and a ready-to-merge notification is sent. The gate is presence of any
// approved match, not a count against requiredApproves, which appears in the
// log and message text only.
func (d *Dispatcher) handleReviewed(ctx context.Context, event model.PullRequestEvent) error {
	if event.Review.State != model.ReviewStateApproved {
		return nil
	}

	pr := event.PullRequest

	count, err := d.ghClient.SearchApprovedPRs(ctx, d.repoFullName, pr.Title)
	if err != nil {
		return fmt.Errorf("checking approval for %s#%d: %w", d.repoFullName, pr.Number, err)
	}
	if count == 0 {
		slog.Debug("pr not yet approved", "pr", pr.Number, "title", pr.Title)
		return nil
	}

	slog.Info("pr has required approves, removing label",
		"pr", pr.Number,
		"title", pr.Title,
		"required_approves", d.requiredApproves,
	)
	if err := d.ghClient.RemoveLabel(ctx, d.repoFullName, pr.Number, d.label); err != nil {
		return fmt.Errorf("removing label from %s#%d: %w", d.repoFullName, pr.Number, err)
	}

	message := fmt.Sprintf(":green_check_mark: PR _%s_ has %d approves and can be merged!",
		pr.Title, d.requiredApproves)
	if err := d.notifier.Send(ctx, d.channel, message); err != nil {
		return fmt.Errorf("notifying ready to merge for %s#%d: %w", d.repoFullName, pr.Number, err)
	}

	return nil
}
