package chain

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"quadform/internal/form"
)

// Job is one chain in a batch.
type Job struct {
	Name   string
	Params Params
	Start  form.Form // zero value means Params.Generator
	Steps  uint64
}

// RunBatch runs jobs concurrently on at most workers goroutines (GOMAXPROCS
// when workers <= 0). base supplies Hook, Sink, Every, Store and SaveEvery
// for every job; its Name and Params are replaced per job. The first
// failing job cancels the others. Results are in job order.
func RunBatch(ctx context.Context, jobs []Job, workers int, base Squarer) ([]Result, error) {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	for _, job := range jobs {
		if base.Sink != nil {
			base.Sink.OnEvent(Event{Name: job.Name, Total: job.Steps, Status: StatusQueued})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(jobs)))

	for i, job := range jobs {
		g.Go(func() error {
			sq := base
			sq.Name = job.Name
			sq.Params = job.Params

			start := job.Start
			if start.A == nil {
				start = job.Params.Generator
			}

			res, err := sq.Run(gctx, start, job.Steps)
			// index i is owned by this goroutine
			results[i] = res
			if err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
