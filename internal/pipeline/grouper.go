package pipeline

import (
	"fmt"
	"strings"
)

// Grouping policy names accepted by GrouperFor.
const (
	PolicyPair  = "pair"
	PolicySmart = "smart"
)

// Grouper splits caption text into ordered display chunks. Timing is attached
// afterwards by Distribute.
type Grouper interface {
	Group(text string) []string
}

// PairGrouper emits consecutive word pairs, with a trailing single word when
// the word count is odd.
type PairGrouper struct{}

// Group implements Grouper.
func (PairGrouper) Group(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	chunks := make([]string, 0, (len(words)+1)/2)
	for i := 0; i < len(words); i += 2 {
		end := min(i+2, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// SmartGrouper shows one word at a time, pairing a word with its successor
// only when both are at most MaxShortLen characters long.
type SmartGrouper struct {
	MaxShortLen int
}

// NewSmartGrouper returns a SmartGrouper using the three-character threshold.
func NewSmartGrouper() SmartGrouper {
	return SmartGrouper{MaxShortLen: 3}
}

// Group implements Grouper. Pairing is greedy left to right and a consumed
// word is never re-paired.
func (g SmartGrouper) Group(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	for i := 0; i < len(words); {
		current := words[i]
		if i+1 < len(words) && g.short(current) && g.short(words[i+1]) {
			chunks = append(chunks, current+" "+words[i+1])
			i += 2
			continue
		}
		chunks = append(chunks, current)
		i++
	}
	return chunks
}

func (g SmartGrouper) short(word string) bool {
	return len([]rune(word)) <= g.MaxShortLen
}

// GrouperFor returns the grouper for a named policy.
func GrouperFor(policy string) (Grouper, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case PolicyPair, "":
		return PairGrouper{}, nil
	case PolicySmart:
		return NewSmartGrouper(), nil
	default:
		return nil, fmt.Errorf("unknown grouping policy %q", policy)
	}
}
