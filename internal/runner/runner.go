package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/torosent/httpperf/internal/validation"
)

// Result captures every finished worker and the wall time of the run.
type Result struct {
	Workers  []WorkerResult
	Duration time.Duration
}

// Runner starts a fixed set of workers together and waits for all of them.
type Runner struct {
	opt     Options
	workers []*Worker
}

// New validates opts and builds every worker. No traffic is generated until
// Run.
func New(opt Options) (*Runner, error) {
	opt.normalize()
	if opt.Workers < 1 {
		return nil, errors.New("workers must be >= 1")
	}
	if opt.RequestsPerWorker < 0 {
		return nil, errors.New("requests per worker must be >= 0")
	}
	if err := checkRequests(opt.Requests); err != nil {
		return nil, err
	}
	if err := validation.Prepare(opt.Requests, opt.Validations); err != nil {
		return nil, err
	}

	workers := make([]*Worker, opt.Workers)
	for i := range workers {
		w, err := NewWorker(i, opt)
		if err != nil {
			return nil, err
		}
		workers[i] = w
	}
	return &Runner{opt: opt, workers: workers}, nil
}

// Run releases all workers at once and returns after the last one finishes.
func (r *Runner) Run(ctx context.Context) Result {
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]WorkerResult, len(r.workers))
	gate := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(len(r.workers))
	for i, w := range r.workers {
		go func() {
			defer wg.Done()
			<-gate
			results[i] = w.Run(ctx)
		}()
	}

	start := time.Now()
	close(gate)
	wg.Wait()

	return Result{
		Workers:  results,
		Duration: time.Since(start),
	}
}
