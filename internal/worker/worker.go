package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/engrbugs/ticktok/internal/pipeline"
)

// ErrInputNotFound is returned when a job's subtitle file does not exist.
var ErrInputNotFound = errors.New("subtitle file not found")

const lockRetryDelay = 50 * time.Millisecond

// Job converts one SRT file into one caption JSON artifact.
type Job struct {
	InputPath  string
	OutputPath string
}

// JobFor returns a job writing next to the input with a .json extension.
func JobFor(inputPath string) Job {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return Job{InputPath: inputPath, OutputPath: base + ".json"}
}

// Result summarizes a finished job.
type Result struct {
	Job
	Captions  int
	Skipped   int
	Bytes     int
	Unchanged bool
}

// Options configures the worker.
type Options struct {
	Jobs          []Job
	Policy        string
	NoAsync       bool
	MaxConcurrent int
}

// Run is the top-level orchestrator for offline conversion. Results are
// returned in job order.
func Run(ctx context.Context, opts Options) ([]Result, error) {
	if len(opts.Jobs) == 0 {
		return nil, fmt.Errorf("no conversion jobs")
	}
	grouper, err := pipeline.GrouperFor(opts.Policy)
	if err != nil {
		return nil, err
	}

	if !opts.NoAsync && len(opts.Jobs) > 1 {
		return processConcurrent(ctx, opts.Jobs, grouper, opts.MaxConcurrent)
	}
	return processSequential(ctx, opts.Jobs, grouper)
}

// ConvertFile converts a single SRT file. A missing input is fatal; malformed
// cues are dropped and counted.
func ConvertFile(ctx context.Context, job Job, grouper pipeline.Grouper) (Result, error) {
	result := Result{Job: job}

	raw, err := os.ReadFile(job.InputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("%w at %s", ErrInputNotFound, job.InputPath)
		}
		return result, fmt.Errorf("read subtitle file: %w", err)
	}

	converted := pipeline.Convert(string(raw), grouper)
	for _, skip := range converted.Skipped {
		slog.Debug("skipped malformed cue",
			"file", filepath.Base(job.InputPath),
			"block", skip.Block,
			"reason", skip.Reason)
	}

	data, err := pipeline.EncodeCaptions(converted.Captions)
	if err != nil {
		return result, fmt.Errorf("encode captions: %w", err)
	}

	unchanged, err := writeArtifact(ctx, job.OutputPath, data)
	if err != nil {
		return result, err
	}

	result.Captions = len(converted.Captions)
	result.Skipped = len(converted.Skipped)
	result.Bytes = len(data)
	result.Unchanged = unchanged

	slog.Info("converted subtitles",
		"input", job.InputPath,
		"output", job.OutputPath,
		"captions", result.Captions,
		"skipped", result.Skipped,
		"unchanged", unchanged)
	return result, nil
}

// writeArtifact writes data to path under an exclusive file lock, replacing
// the file atomically. The lock file is left in place; unlinking it would let
// a waiter and a newcomer lock different inodes. Identical content is left untouched so file watchers
// are not triggered.
func writeArtifact(ctx context.Context, path string, data []byte) (bool, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create output dir: %w", err)
	}

	lockPath := path + ".lock"
	lock := flock.New(lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return false, fmt.Errorf("lock output: %w", err)
	}
	if !locked {
		return false, fmt.Errorf("lock output: %s is busy", path)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return true, nil
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return false, fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return false, fmt.Errorf("write output file: %w", err)
	}
	return false, nil
}
