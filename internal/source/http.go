package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultMaxBytes  = 10_000_000
	defaultUserAgent = "ticktok/1.0"
)

// HTTP fetches captions from a URL. Requests are paced by a rate limiter so
// a burst of reload triggers cannot flood the server.
type HTTP struct {
	URL      string
	Shape    Shape
	Timeout  time.Duration
	MaxBytes int64
	Client   *http.Client

	limiter *rate.Limiter
}

// NewHTTP returns an HTTP source allowing perMinute requests per minute.
func NewHTTP(rawURL string, shape Shape, perMinute int) *HTTP {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(float64(perMinute) / 60.0)
	}
	return &HTTP{
		URL:     rawURL,
		Shape:   shape,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Location implements Source.
func (h *HTTP) Location() string { return h.URL }

// Fetch implements Source. A 404 yields ErrNoCaptions; any other failure is
// returned as a fatal error for this load.
func (h *HTTP) Fetch(ctx context.Context) (Batch, error) {
	if _, err := url.ParseRequestURI(h.URL); err != nil {
		return Batch{}, fmt.Errorf("invalid caption url %q: %w", h.URL, err)
	}
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return Batch{}, fmt.Errorf("rate limiter: %w", err)
		}
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBytes := h.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return Batch{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Batch{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Batch{}, fmt.Errorf("%w: %s", ErrNoCaptions, h.URL)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Batch{}, fmt.Errorf("caption server returned status %d: %s", resp.StatusCode, string(body))
	}
	if resp.ContentLength > maxBytes {
		return Batch{}, fmt.Errorf("content-length %d exceeds limit %d", resp.ContentLength, maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return Batch{}, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return Batch{}, fmt.Errorf("body too large (>%d bytes)", maxBytes)
	}
	return Decode(data, h.Shape)
}
