// Package intake produces requests for the single-worker queue from one
// of two mutually exclusive input sources: the local terminal prompt or
// the coordination hub's mention stream. The source variant is chosen
// once at startup, never per request.
package intake

import (
	"context"
	"errors"
	"time"
)

// ErrExit signals that the operator asked the process to stop. It is a
// normal shutdown path, not a failure.
var ErrExit = errors.New("exit requested")

// Source is a producer loop feeding the request queue. Run blocks until
// the context is cancelled, the source is exhausted, or (manual mode) the
// operator types the exit keyword.
type Source interface {
	Run(ctx context.Context) error
}

// Hub is the subset of the hub client the mention source needs. Kept
// small so tests can substitute a fake.
type Hub interface {
	WaitForMentions(ctx context.Context, timeout time.Duration) (string, error)
	SendMessage(ctx context.Context, threadID, content string, mentions []string) error
	ResourceSummary(ctx context.Context) (string, error)
}

// BusyNotice is the reply sent when a request arrives while another is
// already executing. The request is still queued; busy is informational.
const BusyNotice = "Busy: your request was queued behind a task already in progress and will be handled next."

// missingFieldsReply answers mentions that arrived without a complete
// thread/sender/content triple.
const missingFieldsReply = "Error: Missing message fields"

// unauthorizedReply answers mentions from senders outside the whitelist.
const unauthorizedReply = "Error: sender is not authorized to task this agent"
