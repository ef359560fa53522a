package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/engrbugs/ticktok/internal/pipeline"
	"github.com/engrbugs/ticktok/internal/source"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubSource returns queued responses; a response with a non-nil release
// channel blocks until the channel is closed.
type stubSource struct {
	mu        sync.Mutex
	responses []stubResponse
	started   chan struct{}
}

type stubResponse struct {
	batch   source.Batch
	err     error
	release chan struct{}
}

func (s *stubSource) Location() string { return "stub.json" }

func (s *stubSource) Fetch(ctx context.Context) (source.Batch, error) {
	s.mu.Lock()
	if len(s.responses) == 0 {
		s.mu.Unlock()
		return source.Batch{}, errors.New("no response queued")
	}
	r := s.responses[0]
	s.responses = s.responses[1:]
	s.mu.Unlock()

	if s.started != nil {
		s.started <- struct{}{}
	}
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return source.Batch{}, ctx.Err()
		}
	}
	return r.batch, r.err
}

func plainBatch(text string) source.Batch {
	return source.Batch{
		Shape:    source.ShapePlain,
		Captions: []pipeline.Caption{{StartMs: 0, EndMs: 1000, Text: text}},
	}
}

func TestSession_InitialState(t *testing.T) {
	s := New(&stubSource{}, pipeline.NewSmartGrouper(), quietLogger())
	st := s.Current()
	if st == nil || st.Available || len(st.Pages) != 0 {
		t.Fatalf("unexpected initial state %+v", st)
	}
}

func TestSession_Load(t *testing.T) {
	src := &stubSource{responses: []stubResponse{{batch: plainBatch("I am so very happy today")}}}
	s := New(src, pipeline.NewSmartGrouper(), quietLogger())

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	st := s.Current()
	if !st.Available || len(st.Pages) != 1 {
		t.Fatalf("state = %+v", st)
	}
	if len(st.Pages[0].Tokens) != 5 {
		t.Errorf("expected 5 tokens, got %d", len(st.Pages[0].Tokens))
	}
	if st.LoadID == "" {
		t.Error("expected a load id")
	}
}

func TestSession_NoCaptionsIsNotFatal(t *testing.T) {
	src := &stubSource{responses: []stubResponse{
		{batch: plainBatch("hello")},
		{err: fmt.Errorf("%w: stub.json", source.ErrNoCaptions)},
	}}
	s := New(src, pipeline.PairGrouper{}, quietLogger())
	ctx := context.Background()

	if err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(ctx); err != nil {
		t.Fatalf("missing captions should not be an error, got %v", err)
	}
	st := s.Current()
	if st.Available || len(st.Pages) != 0 {
		t.Errorf("expected unavailable empty state, got %+v", st)
	}
}

func TestSession_FetchErrorKeepsState(t *testing.T) {
	src := &stubSource{responses: []stubResponse{
		{batch: plainBatch("hello")},
		{err: errors.New("network down")},
	}}
	s := New(src, pipeline.PairGrouper{}, quietLogger())
	ctx := context.Background()

	if err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}
	before := s.Current()
	if err := s.Load(ctx); err == nil {
		t.Fatal("expected fetch error")
	}
	if s.Current() != before {
		t.Error("failed load replaced the current state")
	}
}

func TestSession_SupersededLoadDiscarded(t *testing.T) {
	slow := make(chan struct{})
	src := &stubSource{
		started: make(chan struct{}, 2),
		responses: []stubResponse{
			{batch: plainBatch("old"), release: slow},
			{batch: plainBatch("new")},
		},
	}
	s := New(src, pipeline.PairGrouper{}, quietLogger())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.Load(ctx) }()
	<-src.started

	if err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}
	close(slow)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	if got := s.Current().Pages[0].Text; got != "new" {
		t.Errorf("current text = %q, want new", got)
	}
}

func TestSession_CloseDiscardsInFlight(t *testing.T) {
	block := make(chan struct{})
	src := &stubSource{
		started:   make(chan struct{}, 1),
		responses: []stubResponse{{batch: plainBatch("late"), release: block}},
	}
	s := New(src, pipeline.PairGrouper{}, quietLogger())

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()
	<-src.started
	s.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("closed load returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("load did not return after Close")
	}
	if s.Current().Available {
		t.Error("closed session published a result")
	}
}

func TestSession_WatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "video.json")
	write := func(text string) {
		data := fmt.Sprintf(`[{"startMs":0,"endMs":1000,"text":%q}]`, text)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("first")

	s := New(&source.File{Path: path}, pipeline.PairGrouper{}, quietLogger())
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *State, 16)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- s.Watch(ctx, path, func(st *State, err error) {
			if err != nil {
				return
			}
			select {
			case reloaded <- st:
			default:
			}
		})
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case st := <-reloaded:
			if st.Available && len(st.Pages) == 1 && st.Pages[0].Text == "second" {
				cancel()
				if err := <-watchErr; err != nil {
					t.Errorf("Watch returned %v", err)
				}
				return
			}
		case <-tick.C:
			write("second")
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestSession_SupersededFailureNotReported(t *testing.T) {
	slow := make(chan struct{})
	src := &stubSource{
		started: make(chan struct{}, 2),
		responses: []stubResponse{
			{err: errors.New("connection reset"), release: slow},
			{batch: plainBatch("fresh")},
		},
	}
	s := New(src, pipeline.PairGrouper{}, quietLogger())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.Load(ctx) }()
	<-src.started

	if err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}
	close(slow)
	if err := <-done; err != nil {
		t.Errorf("superseded load returned %v, want nil", err)
	}
	if got := s.Current().Pages[0].Text; got != "fresh" {
		t.Errorf("current text = %q, want fresh", got)
	}
}

func TestSession_WatchRemovedFileBecomesUnavailable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "video.json")
	write := func(text string) {
		data := fmt.Sprintf(`[{"startMs":0,"endMs":1000,"text":%q}]`, text)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("first")

	s := New(&source.File{Path: path}, pipeline.PairGrouper{}, quietLogger())
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	watchErr := make(chan error, 1)
	go func() { watchErr <- s.Watch(ctx, path, nil) }()
	defer func() {
		cancel()
		<-watchErr
	}()

	waitFor := func(what string, cond func(*State) bool, poke func()) {
		t.Helper()
		deadline := time.After(5 * time.Second)
		tick := time.NewTicker(100 * time.Millisecond)
		defer tick.Stop()
		for !cond(s.Current()) {
			select {
			case <-tick.C:
				if poke != nil {
					poke()
				}
			case <-deadline:
				t.Fatalf("timed out waiting for %s", what)
			}
		}
	}

	// Rewrite until the watcher is observed to be running.
	waitFor("reload of second", func(st *State) bool {
		return st.Available && len(st.Pages) == 1 && st.Pages[0].Text == "second"
	}, func() { write("second") })

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitFor("unavailable state", func(st *State) bool {
		return !st.Available && len(st.Pages) == 0
	}, nil)
}
