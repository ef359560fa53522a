package pipeline

import (
	"bytes"
	"encoding/json"
)

// ConvertResult is the output of the offline conversion pipeline.
type ConvertResult struct {
	Captions []Caption
	Skipped  []SkippedCue
}

// Convert runs the offline pipeline: parse the SRT document, then group and
// time every caption's text with the given grouper.
func Convert(raw string, grouper Grouper) ConvertResult {
	parsed := Parse(raw)
	return ConvertResult{
		Captions: Tokenize(parsed.Captions, grouper),
		Skipped:  parsed.Skipped,
	}
}

// Tokenize returns copies of captions with tokens computed from their text.
// The input slice is not modified.
func Tokenize(captions []Caption, grouper Grouper) []Caption {
	out := make([]Caption, len(captions))
	for i, c := range captions {
		c.Tokens = Distribute(c.StartMs, c.EndMs, grouper.Group(c.Text))
		out[i] = c
	}
	return out
}

// BuildPages groups and times captions that carry no tokens of their own.
func BuildPages(captions []Caption, grouper Grouper) []Page {
	return PagesFromTokens(Tokenize(captions, grouper))
}

// PagesFromTokens adapts captions whose tokens were computed ahead of time.
// Token ends are carried through unchanged.
func PagesFromTokens(captions []Caption) []Page {
	pages := make([]Page, 0, len(captions))
	for _, c := range captions {
		tokens := make([]Token, len(c.Tokens))
		copy(tokens, c.Tokens)
		pages = append(pages, Page{
			Text:       c.Text,
			StartMs:    c.StartMs,
			EndMs:      c.EndMs,
			DurationMs: c.EndMs - c.StartMs,
			Tokens:     tokens,
		})
	}
	return pages
}

// artifactCaption is the persisted shape of a caption.
type artifactCaption struct {
	StartMs    int64   `json:"startMs"`
	EndMs      int64   `json:"endMs"`
	Text       string  `json:"text"`
	Confidence int     `json:"confidence"`
	Tokens     []Token `json:"tokens"`
}

// EncodeCaptions serializes captions as the two-space indented JSON artifact.
// Output is deterministic for a given input.
func EncodeCaptions(captions []Caption) ([]byte, error) {
	out := make([]artifactCaption, len(captions))
	for i, c := range captions {
		tokens := c.Tokens
		if tokens == nil {
			tokens = []Token{}
		}
		out[i] = artifactCaption{
			StartMs:    c.StartMs,
			EndMs:      c.EndMs,
			Text:       c.Text,
			Confidence: 1,
			Tokens:     tokens,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
