package model_test

import (
	"encoding/json"
	"testing"

	"github.com/ericfisherdev/reviewrelay/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPullRequestEvent_DecodeLabeled verifies the JSON field mapping against
// a realistic webhook payload fragment.
func TestPullRequestEvent_DecodeLabeled(t *testing.T) {
	payload := `{
		"action": "labeled",
		"label": {"name": "needs review", "color": "d4c5f9"},
		"pull_request": {
			"number": 42,
			"title": "Add feature X",
			"html_url": "https://github.com/acme/widgets/pull/42",
			"state": "open",
			"user": {"login": "alice", "id": 1}
		},
		"sender": {"login": "bob"}
	}`

	var event model.PullRequestEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &event))

	assert.Equal(t, "labeled", event.Action)
	require.NotNil(t, event.Label)
	assert.Equal(t, "needs review", event.Label.Name)
	require.NotNil(t, event.PullRequest)
	assert.Equal(t, 42, event.PullRequest.Number)
	assert.Equal(t, "Add feature X", event.PullRequest.Title)
	assert.Equal(t, "https://github.com/acme/widgets/pull/42", event.PullRequest.HTMLURL)
	assert.Equal(t, "alice", event.PullRequest.User.Login)
	assert.Nil(t, event.Review)
	require.NoError(t, event.Validate())
}

func TestPullRequestEvent_DecodeSubmitted(t *testing.T) {
	payload := `{
		"action": "submitted",
		"review": {"state": "approved", "body": "LGTM"},
		"pull_request": {"number": 42, "title": "Add feature X"}
	}`

	var event model.PullRequestEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &event))

	assert.Equal(t, "submitted", event.Action)
	require.NotNil(t, event.Review)
	assert.Equal(t, "approved", event.Review.State)
	require.NoError(t, event.Validate())
}

func TestValidate_UnknownActionIsTrivial(t *testing.T) {
	event := model.PullRequestEvent{Action: "synchronize"}
	assert.NoError(t, event.Validate())
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		missing string
	}{
		{"labeled no label", `{"action": "labeled", "pull_request": {"number": 1, "title": "t", "html_url": "u", "user": {"login": "l"}}}`, "label.name"},
		{"labeled no url", `{"action": "labeled", "label": {"name": "needs review"}, "pull_request": {"number": 1, "title": "t", "user": {"login": "l"}}}`, "pull_request.html_url"},
		{"submitted no state", `{"action": "submitted", "review": {}, "pull_request": {"number": 1, "title": "t"}}`, "review.state"},
		{"submitted no title", `{"action": "submitted", "review": {"state": "approved"}, "pull_request": {"number": 1}}`, "pull_request.title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var event model.PullRequestEvent
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &event))

			err := event.Validate()

			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidPayload)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}
