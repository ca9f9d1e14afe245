package driven

import "context"

// Notifier defines the driven port for posting messages to a chat channel.
// Implementations send as a fixed bot identity; delivery is best-effort and
// failures are surfaced to the caller for logging only.
type Notifier interface {
	Send(ctx context.Context, channel string, text string) error
}
