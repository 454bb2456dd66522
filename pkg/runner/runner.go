package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/rtn/pkg/check"
)

// Runner checks the files of a run through a check.Pipeline.
type Runner struct {
	Pipeline *check.Pipeline
}

// New creates a Runner with the given pipeline.
func New(pipeline *check.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// job is one discovered file and its position in discovery order.
type job struct {
	index int
	path  string
}

// Run discovers files under opts.Paths and checks them with a pool of
// workers. Outcomes keep discovery order whatever order the workers finish
// in; files not reached before cancellation are left out.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	workers := opts.Jobs
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(files))

	jobs := make(chan job)
	slots := make([]*FileOutcome, len(files))

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for j := range jobs {
				if ctx.Err() != nil {
					continue
				}
				outcome := FileOutcome{Path: j.path}
				outcome.Report, outcome.Error = r.Pipeline.ProcessFile(ctx, j.path)
				// Each index is written by exactly one worker.
				slots[j.index] = &outcome
			}
		})
	}

feed:
	for i, path := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{index: i, path: path}:
		}
	}
	close(jobs)
	wg.Wait()

	for _, outcome := range slots {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}
