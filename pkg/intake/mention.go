package intake

import (
	"context"
	"errors"
	"time"

	"github.com/entrhq/surf/pkg/config"
	"github.com/entrhq/surf/pkg/hub"
	"github.com/entrhq/surf/pkg/logging"
	"github.com/entrhq/surf/pkg/queue"
	"github.com/entrhq/surf/pkg/retry"
)

// MentionSource polls the coordination hub for mentions addressed to this
// agent and turns them into queued requests.
type MentionSource struct {
	queue          *queue.Queue
	hub            Hub
	whitelist      *config.SenderWhitelist
	mentionTimeout time.Duration
	pollDelay      retry.Policy
	errorDelay     retry.Policy
	log            *logging.Logger
}

// NewMentionSource creates a mention source. whitelist may be nil to
// allow every sender.
func NewMentionSource(q *queue.Queue, h Hub, whitelist *config.SenderWhitelist, cfg *config.Config, log *logging.Logger) *MentionSource {
	return &MentionSource{
		queue:          q,
		hub:            h,
		whitelist:      whitelist,
		mentionTimeout: cfg.MentionTimeout,
		pollDelay:      retry.Fixed(cfg.PollInterval),
		errorDelay:     retry.Fixed(cfg.ErrorRetryInterval),
		log:            log,
	}
}

// Run polls until cancellation. A transient hub failure is logged and
// retried after the error backoff; the loop only exits on cancellation.
func (s *MentionSource) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.pollOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			s.log.Errorf("mention poll failed: %v", err)
			s.log.Debugf("mention poll failure detail: %+v", err)
			if werr := s.errorDelay.Wait(ctx); werr != nil {
				return werr
			}
		}
	}
}

// pollOnce performs one wait-for-mentions round trip and enqueues at most
// one request.
func (s *MentionSource) pollOnce(ctx context.Context) error {
	s.logResources(ctx)

	raw, err := s.hub.WaitForMentions(ctx, s.mentionTimeout)
	if err != nil {
		return err
	}

	mentions := hub.ParseMentions(raw)
	if len(mentions) == 0 || mentions[0].ThreadID == "" {
		// Timeout, sentinel, or an unaddressable message: idle briefly
		// and poll again.
		return s.pollDelay.Wait(ctx)
	}

	// Only the first mention of a batch is taken; the hub redelivers the
	// rest on subsequent polls.
	m := mentions[0]

	if m.SenderID == "" || m.Content == "" {
		s.log.Warnf("mention missing fields: thread=%s sender=%s", m.ThreadID, m.SenderID)
		s.reply(ctx, m, missingFieldsReply)
		return s.pollDelay.Wait(ctx)
	}

	if s.whitelist != nil && !s.whitelist.Allows(m.SenderID) {
		s.log.Warnf("rejected mention from unauthorized sender %s", m.SenderID)
		s.reply(ctx, m, unauthorizedReply)
		return s.pollDelay.Wait(ctx)
	}

	if s.queue.Busy() {
		// Informational only: the request is still queued below.
		s.reply(ctx, m, BusyNotice)
	}

	s.log.Infof("accepted mention from %s on thread %s", m.SenderID, m.ThreadID)
	s.queue.Enqueue(queue.NewRequest(m.Content, &queue.Correlation{
		ThreadID: m.ThreadID,
		SenderID: m.SenderID,
	}))
	return nil
}

// reply sends a best-effort notice back to the mention's thread using
// whatever identifiers the mention carried. Failures are logged, never
// propagated.
func (s *MentionSource) reply(ctx context.Context, m hub.Mention, content string) {
	var mentions []string
	if m.SenderID != "" {
		mentions = []string{m.SenderID}
	}

	if err := s.hub.SendMessage(ctx, m.ThreadID, content, mentions); err != nil {
		s.log.Errorf("failed to send notice to thread %s: %v", m.ThreadID, err)
	}
}

// logResources records the hub's resource listing at debug level. The
// listing is observational; polling proceeds regardless of its outcome.
func (s *MentionSource) logResources(ctx context.Context) {
	summary, err := s.hub.ResourceSummary(ctx)
	if err != nil {
		s.log.Debugf("hub resource listing failed: %v", err)
		return
	}
	s.log.Debugf("hub resources:\n%s", summary)
}
