package hub

import (
	"encoding/json"
	"strings"
)

// NoNewMessages is the sentinel the hub returns when the wait window
// elapsed without a mention.
const NoNewMessages = "No new messages"

// Mention is one inbound message addressed to this agent. Any field may
// be empty in a malformed mention; validation is the intake layer's job.
type Mention struct {
	ThreadID string `json:"threadId"`
	SenderID string `json:"senderId"`
	Content  string `json:"content"`
}

// mentionEnvelope covers hubs that wrap the message list in an object.
type mentionEnvelope struct {
	Messages []Mention `json:"messages"`
}

// ParseMentions extracts mentions from a raw wait_for_mentions response.
// Accepted shapes: the no-messages sentinel, a bare JSON array of
// messages, an object with a "messages" array, or free text with a JSON
// array embedded in it. Anything else parses to zero mentions.
func ParseMentions(raw string) []Mention {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, NoNewMessages) {
		return nil
	}

	var list []Mention
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}

	var envelope mentionEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err == nil && len(envelope.Messages) > 0 {
		return envelope.Messages
	}

	// Some hubs prefix the JSON payload with log-style text.
	if start, end := strings.Index(raw, "["), strings.LastIndex(raw, "]"); start >= 0 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &list); err == nil {
			return list
		}
	}

	return nil
}
