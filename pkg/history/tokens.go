package history

import (
	"github.com/pkoukk/tiktoken-go"
)

// encodingName is the BPE table used for counting. cl100k covers the
// GPT-4 family and is a close enough proxy for other chat models.
const encodingName = "cl100k_base"

// estimateBytesPerToken is the fallback ratio when the BPE table is not
// available (offline environments): roughly four bytes per token for
// English text.
const estimateBytesPerToken = 4

// Counter counts prompt tokens for history budgeting. When the tiktoken
// encoding cannot be loaded it degrades to a byte-length estimate rather
// than failing.
type Counter struct {
	encoding *tiktoken.Tiktoken
}

// NewCounter creates a token counter. The returned counter is always
// usable; the error only reports that the exact encoding was unavailable
// and the estimate fallback is in effect.
func NewCounter() (*Counter, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return &Counter{}, err
	}
	return &Counter{encoding: encoding}, nil
}

// Count returns the token count for text.
func (c *Counter) Count(text string) int {
	if c == nil {
		return 0
	}
	if c.encoding == nil {
		return (len(text) + estimateBytesPerToken - 1) / estimateBytesPerToken
	}
	return len(c.encoding.Encode(text, nil, nil))
}
