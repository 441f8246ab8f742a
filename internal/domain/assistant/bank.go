package assistant

import (
	"errors"
	"fmt"
	"strings"
)

// FallbackText is the reply when no entry matches
const FallbackText = "I couldn't find a specific answer for that. Could you please try rephrasing or selecting one of the suggested questions below?"

// Context selects which bank answers: the consolidation FAQ or the
// management financial Q&A
type Context string

const (
	ContextConsolidated Context = "consolidated"
	ContextManagement   Context = "management"
)

// IsValid reports whether c is a known chat context
func (c Context) IsValid() bool {
	return c == ContextConsolidated || c == ContextManagement
}

// ErrDuplicateEntry is returned when two entries share an ID
var ErrDuplicateEntry = errors.New("duplicate bank entry")

// Entry is one question with its prepared answer
type Entry struct {
	ID       string
	Topic    string
	Question string
	Answer   Answer
}

// Bank is an ordered, read-only list of entries.
// Order matters: the first matching entry wins.
type Bank struct {
	entries []Entry
	lowered []string
}

// NewBank builds a bank, keeping the given order
func NewBank(entries []Entry) (*Bank, error) {
	seen := make(map[string]bool, len(entries))
	b := &Bank{
		entries: make([]Entry, len(entries)),
		lowered: make([]string, len(entries)),
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Question) == "" {
			return nil, fmt.Errorf("entry %s has no question", e.ID)
		}
		if e.Answer == nil {
			return nil, fmt.Errorf("entry %s has no answer", e.ID)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, e.ID)
		}
		seen[e.ID] = true
		b.entries[i] = e
		b.lowered[i] = strings.ToLower(e.Question)
	}
	return b, nil
}

// Len returns the number of entries
func (b *Bank) Len() int { return len(b.entries) }

// Match returns the first entry whose question contains the input or is
// contained in it, ignoring case. Blank input never matches.
func (b *Bank) Match(input string) (Entry, bool) {
	if strings.TrimSpace(input) == "" {
		return Entry{}, false
	}
	q := strings.ToLower(input)
	for i, question := range b.lowered {
		if strings.Contains(question, q) || strings.Contains(q, question) {
			return b.entries[i], true
		}
	}
	return Entry{}, false
}

// Reply returns the matched answer or the fallback text
func (b *Bank) Reply(input string) (Answer, bool) {
	if e, ok := b.Match(input); ok {
		return e.Answer, true
	}
	return TextAnswer{Text: FallbackText}, false
}

// Suggestions returns the questions in bank order
func (b *Bank) Suggestions() []string {
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Question
	}
	return out
}
