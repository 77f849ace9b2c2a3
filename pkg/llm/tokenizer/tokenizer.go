// Package tokenizer counts tokens so reasoning-call payloads can be
// bounded before they are sent.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const encodingName = "cl100k_base"

// Tokenizer wraps a tiktoken encoding.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer. Initialization downloads or loads the encoding
// tables and can fail; callers should fall back to EstimateTokens.
func New() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", encodingName, err)
	}
	return &Tokenizer{encoding: enc}, nil
}

// CountTokens returns the exact token count of text.
func (t *Tokenizer) CountTokens(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// EstimateTokens approximates a token count without an encoding, using
// the common four-characters-per-token heuristic.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// Truncate cuts text so it fits within maxTokens, using the tokenizer
// when available and the estimate otherwise. A nil receiver is valid.
func (t *Tokenizer) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	if t == nil || t.encoding == nil {
		if EstimateTokens(text) <= maxTokens {
			return text
		}
		return text[:maxTokens*4]
	}
	tokens := t.encoding.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return t.encoding.Decode(tokens[:maxTokens])
}
