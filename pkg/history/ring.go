// Package history maintains the bounded rolling conversation log used as
// LLM context. The ring holds at most N request/response pairs and evicts
// the oldest pair when a new one arrives at capacity.
package history

import (
	"fmt"
	"strings"
)

// Entry is one completed exchange. Error responses are recorded the same
// way as successful ones.
type Entry struct {
	Request  string
	Response string
}

// Ring is a fixed-capacity FIFO of entries. It is not safe for concurrent
// use; the single worker is the only writer and the only reader during
// request processing.
type Ring struct {
	capacity int
	entries  []Entry
}

// NewRing creates a ring holding at most capacity entries. Capacity below
// one is clamped to one.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{
		capacity: capacity,
		entries:  make([]Entry, 0, capacity),
	}
}

// Append records a completed exchange, evicting the oldest entry if the
// ring is full.
func (r *Ring) Append(request, response string) {
	if len(r.entries) == r.capacity {
		copy(r.entries, r.entries[1:])
		r.entries = r.entries[:len(r.entries)-1]
	}
	r.entries = append(r.entries, Entry{Request: request, Response: response})
}

// Len returns the number of entries currently held.
func (r *Ring) Len() int {
	return len(r.entries)
}

// Capacity returns the maximum number of entries the ring holds.
func (r *Ring) Capacity() int {
	return r.capacity
}

// Entries returns a copy of the held entries, oldest first.
func (r *Ring) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Format renders the history for inclusion in the LLM prompt: entries
// oldest first, numbered from 1.
func (r *Ring) Format() string {
	if len(r.entries) == 0 {
		return "No previous conversation."
	}
	return formatEntries(r.entries)
}

// FormatBudget renders the history like Format but drops oldest entries
// until the rendered text fits within maxTokens as measured by counter.
// At least the newest entry is always kept.
func (r *Ring) FormatBudget(counter *Counter, maxTokens int) string {
	if len(r.entries) == 0 || counter == nil || maxTokens <= 0 {
		return r.Format()
	}

	for start := 0; start < len(r.entries); start++ {
		text := formatEntries(r.entries[start:])
		if counter.Count(text) <= maxTokens || start == len(r.entries)-1 {
			return text
		}
	}
	return r.Format()
}

func formatEntries(entries []Entry) string {
	var sb strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. Request: %s\n   Response: %s\n", i+1, e.Request, e.Response)
	}
	return strings.TrimRight(sb.String(), "\n")
}
