// Package source loads caption lists for runtime playback from local files or
// HTTP endpoints and normalizes the accepted JSON shapes into one batch type.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/engrbugs/ticktok/internal/pipeline"
)

var (
	// ErrNoCaptions reports that no caption file exists for the media. Callers
	// show a "no captions available" state instead of failing.
	ErrNoCaptions = errors.New("no captions available")
	// ErrMixedBatch reports a batch where only some captions carry tokens.
	ErrMixedBatch = errors.New("mixed caption batch: some captions have tokens and some do not")
)

// Shape tells the loader whether fetched captions carry precomputed tokens.
type Shape int

const (
	// ShapeAuto validates the whole batch and picks prebaked or plain.
	ShapeAuto Shape = iota
	// ShapePrebaked captions carry tokens that are used as-is.
	ShapePrebaked
	// ShapePlain captions carry only text and timing; tokens are computed.
	ShapePlain
)

func (s Shape) String() string {
	switch s {
	case ShapePrebaked:
		return "prebaked"
	case ShapePlain:
		return "plain"
	default:
		return "auto"
	}
}

// ParseShape maps a config value to a Shape.
func ParseShape(value string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return ShapeAuto, nil
	case "prebaked":
		return ShapePrebaked, nil
	case "plain":
		return ShapePlain, nil
	default:
		return ShapeAuto, fmt.Errorf("unknown caption shape %q", value)
	}
}

// Batch is one fetched caption list with its resolved shape.
type Batch struct {
	Shape    Shape
	Captions []pipeline.Caption
}

// Pages turns the batch into presentation pages. Plain batches are grouped
// and timed with grouper; prebaked tokens are adapted directly.
func (b Batch) Pages(grouper pipeline.Grouper) []pipeline.Page {
	if b.Shape == ShapePrebaked {
		return pipeline.PagesFromTokens(b.Captions)
	}
	return pipeline.BuildPages(b.Captions, grouper)
}

// Source is a collaborator that returns the current caption batch.
type Source interface {
	Fetch(ctx context.Context) (Batch, error)
	Location() string
}

// rawToken accepts both startMs/endMs and fromMs/toMs field names.
type rawToken struct {
	Text    string `json:"text"`
	StartMs *int64 `json:"startMs"`
	EndMs   *int64 `json:"endMs"`
	FromMs  *int64 `json:"fromMs"`
	ToMs    *int64 `json:"toMs"`
}

type rawCaption struct {
	StartMs int64      `json:"startMs"`
	EndMs   int64      `json:"endMs"`
	Text    string     `json:"text"`
	Tokens  []rawToken `json:"tokens"`
}

// Decode parses a fetched caption list. With ShapeAuto every caption is
// inspected: all with tokens is prebaked, none is plain, anything else is
// ErrMixedBatch. A declared shape is trusted.
func Decode(data []byte, declared Shape) (Batch, error) {
	var raw []rawCaption
	if err := json.Unmarshal(data, &raw); err != nil {
		return Batch{}, fmt.Errorf("decode captions: %w", err)
	}

	shape := declared
	if shape == ShapeAuto {
		withTokens := 0
		for _, c := range raw {
			if len(c.Tokens) > 0 {
				withTokens++
			}
		}
		switch withTokens {
		case 0:
			shape = ShapePlain
		case len(raw):
			shape = ShapePrebaked
		default:
			return Batch{}, fmt.Errorf("%w (%d of %d)", ErrMixedBatch, withTokens, len(raw))
		}
	}

	captions := make([]pipeline.Caption, 0, len(raw))
	for i, c := range raw {
		caption := pipeline.Caption{StartMs: c.StartMs, EndMs: c.EndMs, Text: c.Text}
		if shape == ShapePrebaked {
			tokens, err := normalizeTokens(c.Tokens)
			if err != nil {
				return Batch{}, fmt.Errorf("caption %d: %w", i, err)
			}
			caption.Tokens = tokens
		}
		captions = append(captions, caption)
	}
	return Batch{Shape: shape, Captions: captions}, nil
}

func normalizeTokens(raw []rawToken) ([]pipeline.Token, error) {
	tokens := make([]pipeline.Token, 0, len(raw))
	for i, t := range raw {
		start := firstSet(t.StartMs, t.FromMs)
		end := firstSet(t.EndMs, t.ToMs)
		if start == nil || end == nil {
			return nil, fmt.Errorf("token %d: missing start or end time", i)
		}
		tokens = append(tokens, pipeline.Token{Text: t.Text, StartMs: *start, EndMs: *end})
	}
	return tokens, nil
}

func firstSet(values ...*int64) *int64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
