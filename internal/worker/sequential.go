package worker

import (
	"context"
	"fmt"

	"github.com/engrbugs/ticktok/internal/pipeline"
)

// processSequential converts jobs one at a time, stopping at the first failure.
func processSequential(ctx context.Context, jobs []Job, grouper pipeline.Grouper) ([]Result, error) {
	results := make([]Result, 0, len(jobs))
	for i, job := range jobs {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		r, err := ConvertFile(ctx, job, grouper)
		if err != nil {
			if len(jobs) == 1 {
				return results, err
			}
			return results, fmt.Errorf("job %d/%d: %w", i+1, len(jobs), err)
		}
		results = append(results, r)
	}
	return results, nil
}
