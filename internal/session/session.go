// Package session holds the caption pages currently used for playback. Loads
// replace the page list atomically and a load superseded by a later one is
// discarded.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/engrbugs/ticktok/internal/pipeline"
	"github.com/engrbugs/ticktok/internal/source"
)

// State is an immutable snapshot of the loaded captions.
type State struct {
	Pages     []pipeline.Page
	Available bool
	Shape     source.Shape
	Location  string
	LoadID    string
	LoadedAt  time.Time

	generation uint64
}

// Session owns the current State for one caption source.
type Session struct {
	src     source.Source
	grouper pipeline.Grouper
	logger  *slog.Logger

	current atomic.Pointer[State]
	gen     atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a session with an empty, unavailable state.
func New(src source.Source, grouper pipeline.Grouper, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		src:     src,
		grouper: grouper,
		logger:  logger.With("source", src.Location()),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.current.Store(&State{Location: src.Location()})
	return s
}

// Current returns the latest published state. It is never nil.
func (s *Session) Current() *State {
	return s.current.Load()
}

// Load fetches the source and publishes the resulting pages. A missing
// caption file publishes an unavailable state and is not an error. Any other
// fetch failure is returned and the current state is kept.
func (s *Session) Load(ctx context.Context) error {
	gen := s.gen.Add(1)
	loadID := uuid.NewString()
	logger := s.logger.With("load_id", loadID)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	logger.Debug("loading captions")
	batch, err := s.src.Fetch(ctx)
	if s.ctx.Err() != nil {
		logger.Debug("session closed, discarding load")
		return nil
	}

	next := &State{
		Location:   s.src.Location(),
		LoadID:     loadID,
		LoadedAt:   time.Now(),
		generation: gen,
	}
	switch {
	case errors.Is(err, source.ErrNoCaptions):
		logger.Warn("no captions available")
	case err != nil:
		if s.gen.Load() != gen {
			logger.Debug("discarding superseded failed load", "generation", gen, "err", err)
			return nil
		}
		logger.Error("caption load failed", "err", err)
		return err
	default:
		next.Available = true
		next.Shape = batch.Shape
		next.Pages = batch.Pages(s.grouper)
	}

	if !s.publish(next) {
		logger.Debug("discarding superseded load", "generation", gen)
		return nil
	}
	logger.Info("captions loaded",
		"available", next.Available,
		"shape", next.Shape.String(),
		"pages", len(next.Pages))
	return nil
}

// publish stores next unless a later-started load already published.
func (s *Session) publish(next *State) bool {
	for {
		cur := s.current.Load()
		if cur.generation > next.generation {
			return false
		}
		if s.current.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// Close cancels in-flight loads; their results are discarded.
func (s *Session) Close() {
	s.cancel()
}
