package worker

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/engrbugs/ticktok/internal/pipeline"
)

// processConcurrent converts jobs with bounded parallelism. The first failure
// cancels the jobs that have not started yet.
func processConcurrent(ctx context.Context, jobs []Job, grouper pipeline.Grouper, maxConcurrent int) ([]Result, error) {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	slog.Info("starting concurrent conversion",
		"jobs", len(jobs),
		"max_concurrent", maxConcurrent)

	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			r, err := ConvertFile(gctx, job, grouper)
			if err != nil {
				return fmt.Errorf("job %d/%d: %w", i+1, len(jobs), err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
