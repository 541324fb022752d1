package gridsearch

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Job describes one independent search for SolveAll.
type Job struct {
	Name     string
	Grid     *Grid
	Start    State
	Goal     State
	Strategy Strategy
	// Options are applied after the options passed to SolveAll.
	Options []Option
}

// JobResult is the outcome of one Job.
type JobResult struct {
	Job      Job
	Result   Result
	Err      error
	Duration time.Duration
}

// SolveAll runs jobs on a pool of workers, one search per worker at a time,
// and returns results in job order. Grids may be shared between jobs since
// searches only read them. Progress subscribers passed here are called from
// several goroutines and must be safe for that.
//
// Jobs not yet started when ctx is done are reported as cancelled.
func SolveAll(ctx context.Context, jobs []Job, options ...Option) []JobResult {
	results := make([]JobResult, len(jobs))
	if len(jobs) == 0 {
		return results
	}
	numberOfWorkers := newOptions(options).NumberOfWorkers
	if numberOfWorkers > len(jobs) {
		numberOfWorkers = len(jobs)
	}

	taskChannel := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < numberOfWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range taskChannel {
				job := jobs[index]
				jobOptions := append(append([]Option(nil), options...), job.Options...)
				started := time.Now()
				res, err := Solve(ctx, job.Grid, job.Start, job.Goal, job.Strategy, jobOptions...)
				results[index] = JobResult{Job: job, Result: res, Err: err, Duration: time.Since(started)}
			}
		}()
	}

	dispatched := 0
dispatch:
	for dispatched < len(jobs) {
		select {
		case <-ctx.Done():
			break dispatch
		case taskChannel <- dispatched:
			dispatched++
		}
	}
	close(taskChannel)
	wg.Wait()

	for index := dispatched; index < len(jobs); index++ {
		job := jobs[index]
		results[index] = JobResult{
			Job:    job,
			Result: Result{Strategy: job.Strategy, Status: StatusCancelled, Start: job.Start, Goal: job.Goal},
			Err:    fmt.Errorf("%w: %w", ErrCancelled, ctx.Err()),
		}
	}
	return results
}
