package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/RyanBlaney/sonido-eeg/logging"
	"github.com/RyanBlaney/sonido-eeg/signal"
)

// AnalyzeBatch analyzes independent signals on a worker pool. Item i uses
// seed Seed+i, so results do not depend on scheduling.
//
// The batch is all-or-nothing: the first item to fail cancels the rest and its
// error is returned; a cancelled parent context returns ctx.Err(). Either way
// no results are returned. Items aborted only because a sibling failed do not
// contribute an error.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, sigs []signal.Signal) ([]*Analysis, error) {
	if len(sigs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	numWorkers := p.workerCount(len(sigs))
	p.logger.WithContext(ctx).Debug("Starting batch analysis", logging.Fields{
		"signals": len(sigs),
		"workers": numWorkers,
	})

	results := make([]*Analysis, len(sigs))
	var (
		failOnce sync.Once
		firstErr error
	)
	fail := func(err error) {
		failOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	jobs := make(chan int, len(sigs))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				itemCtx := logging.ContextWithFields(ctx, logging.Fields{"item": i})
				res, err := p.analyze(itemCtx, sigs[i], p.config.Seed+uint64(i))
				if err != nil {
					if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
						continue
					}
					fail(fmt.Errorf("signal %d: %w", i, err))
					continue
				}
				results[i] = res
			}
		}()
	}

	for i := range sigs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// workerCount follows the configured bound, or sizes the pool from the CPU
// count without exceeding the number of jobs.
func (p *Pipeline) workerCount(jobs int) int {
	if p.config.Workers > 0 {
		return min(p.config.Workers, jobs)
	}
	return max(1, min(runtime.NumCPU(), jobs))
}
