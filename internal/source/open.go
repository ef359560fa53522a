package source

import (
	"time"
)

// Options configures Open.
type Options struct {
	Shape           Shape
	Timeout         time.Duration
	MaxBytes        int64
	RateLimitPerMin int
}

// Open returns the source for a caption location: HTTP for http(s) URLs and
// a local file otherwise. Media filenames are mapped to their caption JSON.
func Open(location string, opts Options) Source {
	location = CaptionPathFor(location)
	if IsRemote(location) {
		h := NewHTTP(location, opts.Shape, opts.RateLimitPerMin)
		h.Timeout = opts.Timeout
		h.MaxBytes = opts.MaxBytes
		return h
	}
	return &File{Path: location, Shape: opts.Shape}
}
