package pipeline

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const timingSeparator = " --> "

const (
	reasonTooFewLines      = "too few lines"
	reasonMissingSeparator = "missing timing separator"
	reasonInvalidTimestamp = "invalid timestamp"
	reasonEndBeforeStart   = "end before start"
)

var (
	blockSeparator = regexp.MustCompile(`\n(?:[ \t]*\n)+`)
	markupTag      = regexp.MustCompile(`<[^>]+>`)
)

// Parse splits an SRT document into captions in source order. Malformed
// blocks are dropped and reported in the result, never aborting the batch.
// Tokens are left empty; see Tokenize.
func Parse(raw string) ParseResult {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	raw = strings.TrimSpace(raw)

	var result ParseResult
	if raw == "" {
		return result
	}

	for i, block := range blockSeparator.Split(raw, -1) {
		caption, reason := parseBlock(block)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedCue{Block: i + 1, Reason: reason})
			continue
		}
		result.Captions = append(result.Captions, caption)
	}
	return result
}

// parseBlock decodes one cue. A non-empty reason means the block is malformed.
func parseBlock(block string) (Caption, string) {
	lines := strings.Split(block, "\n")
	if len(lines) < 3 {
		return Caption{}, reasonTooFewLines
	}

	// lines[0] is the cue ordinal and is not validated.
	startText, rest, ok := strings.Cut(lines[1], timingSeparator)
	endText, _, _ := strings.Cut(rest, timingSeparator)
	// Cue settings such as "X1:100 X2:200" may follow the end timestamp.
	endFields := strings.Fields(endText)
	if !ok || strings.TrimSpace(startText) == "" || len(endFields) == 0 {
		return Caption{}, reasonMissingSeparator
	}
	endText = endFields[0]

	startMs, err := ParseTimestamp(startText)
	if err != nil {
		return Caption{}, reasonInvalidTimestamp
	}
	endMs, err := ParseTimestamp(endText)
	if err != nil {
		return Caption{}, reasonInvalidTimestamp
	}
	if endMs < startMs {
		return Caption{}, reasonEndBeforeStart
	}

	return Caption{
		StartMs: startMs,
		EndMs:   endMs,
		Text:    NormalizeText(strings.Join(lines[2:], " ")),
	}, ""
}

// NormalizeText strips inline markup tags and collapses whitespace runs to
// single spaces. Tags are removed without checking that they are balanced.
func NormalizeText(text string) string {
	text = markupTag.ReplaceAllString(text, "")
	text = norm.NFC.String(text)
	return strings.Join(strings.Fields(text), " ")
}
