// Package timeline resolves which caption token is on screen for every frame
// of a video.
package timeline

import (
	"github.com/engrbugs/ticktok/internal/pipeline"
)

// Segment is a run of consecutive frames showing the same token.
type Segment struct {
	FirstFrame int     `json:"firstFrame"`
	LastFrame  int     `json:"lastFrame"`
	StartMs    float64 `json:"startMs"`
	EndMs      float64 `json:"endMs"`
	Text       string  `json:"text"`
}

// tokenRef identifies a token by position, so distinct tokens with the same
// text stay distinct.
type tokenRef struct {
	page, token int
}

var noToken = tokenRef{-1, -1}

// activeRef returns the token on screen at tMs. The first active page wins
// when captions overlap.
func activeRef(pages []pipeline.Page, tMs float64) tokenRef {
	for pi, p := range pages {
		if tMs < float64(p.StartMs) || tMs >= float64(p.EndMs) {
			continue
		}
		for ti, tok := range p.Tokens {
			if float64(tok.StartMs) <= tMs && tMs < float64(tok.EndMs) {
				return tokenRef{pi, ti}
			}
		}
	}
	return noToken
}

// Frames returns the active token text per frame, "" where nothing shows.
func Frames(pages []pipeline.Page, fps float64, frames int) []string {
	out := make([]string, frames)
	for f := range out {
		if ref := activeRef(pages, pipeline.FrameToMs(f, fps)); ref != noToken {
			out[f] = pages[ref.page].Tokens[ref.token].Text
		}
	}
	return out
}

// Build collapses the per-frame schedule into segments, one per displayed
// token. Frames with no active token produce no segment; a token whose
// window falls between two frames is never shown.
func Build(pages []pipeline.Page, fps float64, frames int) []Segment {
	var segments []Segment
	prev := noToken
	for f := 0; f < frames; f++ {
		ref := activeRef(pages, pipeline.FrameToMs(f, fps))
		switch {
		case ref == noToken:
		case ref == prev:
			cur := &segments[len(segments)-1]
			cur.LastFrame = f
			cur.EndMs = pipeline.FrameToMs(f+1, fps)
		default:
			segments = append(segments, Segment{
				FirstFrame: f,
				LastFrame:  f,
				StartMs:    pipeline.FrameToMs(f, fps),
				EndMs:      pipeline.FrameToMs(f+1, fps),
				Text:       pages[ref.page].Tokens[ref.token].Text,
			})
		}
		prev = ref
	}
	return segments
}
