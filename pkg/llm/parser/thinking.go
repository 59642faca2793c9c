// Package parser cleans model output before it is shown to a requester.
//
// Some OpenAI-compatible endpoints serve reasoning models that interleave
// <think>/<thinking> blocks with the answer. Those blocks are internal
// deliberation and are stripped from the final response text.
package parser

import (
	"strings"
)

var thinkingTags = [][2]string{
	{"<thinking>", "</thinking>"},
	{"<think>", "</think>"},
}

// StripThinking removes thinking blocks from s. A block whose closing tag
// never arrives is treated as thinking to the end of the text. The result
// is trimmed of surrounding whitespace.
func StripThinking(s string) string {
	for _, tags := range thinkingTags {
		s = stripBlocks(s, tags[0], tags[1])
	}
	return strings.TrimSpace(s)
}

func stripBlocks(s, open, close string) string {
	var sb strings.Builder
	for {
		start := strings.Index(s, open)
		if start < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		sb.WriteString(s[:start])

		rest := s[start+len(open):]
		end := strings.Index(rest, close)
		if end < 0 {
			// Unterminated block: everything after the tag is thinking.
			return sb.String()
		}
		s = rest[end+len(close):]
	}
}
