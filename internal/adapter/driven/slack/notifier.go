// Package slack implements the Notifier port using the slack-go library.
package slack

import (
	"context"
	"fmt"
	"net/http"
	"time"

	goslack "github.com/slack-go/slack"

	"github.com/ericfisherdev/reviewrelay/internal/domain/port/driven"
)

// botName is the fixed bot identity every notification is posted as.
const botName = "gitbot"

const requestTimeout = 30 * time.Second

// Compile-time interface satisfaction check.
var _ driven.Notifier = (*Notifier)(nil)

// Notifier implements the driven.Notifier port against the Slack Web API.
// Delivery is best-effort: there are no retries, and callers are expected
// to log failures rather than act on them.
type Notifier struct {
	api  *goslack.Client
	icon string
}

// NewNotifier creates a Notifier posting as the fixed bot identity with the
// given icon emoji.
func NewNotifier(token, icon string) *Notifier {
	api := goslack.New(token, goslack.OptionHTTPClient(&http.Client{Timeout: requestTimeout}))
	return &Notifier{api: api, icon: icon}
}

// NewNotifierWithAPIURL creates a Notifier against a custom API base URL.
// This constructor is intended for testing, allowing injection of an
// httptest server. apiURL must end with a trailing slash.
func NewNotifierWithAPIURL(token, icon, apiURL string, httpClient *http.Client) *Notifier {
	api := goslack.New(token,
		goslack.OptionAPIURL(apiURL),
		goslack.OptionHTTPClient(httpClient),
	)
	return &Notifier{api: api, icon: icon}
}

// Send posts text to the given channel with full-markdown parsing.
func (n *Notifier) Send(ctx context.Context, channel string, text string) error {
	params := goslack.PostMessageParameters{
		Username:  botName,
		IconEmoji: n.icon,
		Parse:     "full",
	}

	_, _, err := n.api.PostMessageContext(ctx, channel,
		goslack.MsgOptionText(text, false),
		goslack.MsgOptionPostMessageParameters(params),
	)
	if err != nil {
		return fmt.Errorf("posting message to %s: %w", channel, err)
	}

	return nil
}
