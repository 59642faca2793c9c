package config

import (
	"fmt"

	"github.com/gobwas/glob"
)

// SenderWhitelist decides which remote senders may task this agent.
// Patterns use glob syntax ("planner-*", "ops?"). An empty whitelist
// allows every sender.
type SenderWhitelist struct {
	patterns []glob.Glob
}

// NewSenderWhitelist compiles the given glob patterns.
func NewSenderWhitelist(patterns []string) (*SenderWhitelist, error) {
	w := &SenderWhitelist{}

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid sender pattern '%s': %w", pattern, err)
		}
		w.patterns = append(w.patterns, g)
	}

	return w, nil
}

// Allows returns true if the sender matches the whitelist. Empty sender
// IDs are never allowed.
func (w *SenderWhitelist) Allows(senderID string) bool {
	if senderID == "" {
		return false
	}

	if len(w.patterns) == 0 {
		return true
	}

	for _, pattern := range w.patterns {
		if pattern.Match(senderID) {
			return true
		}
	}

	return false
}
