// Package testutil holds helpers shared by concurrency-heavy tests.
package testutil

import (
	"errors"
	"sync"
	"sync/atomic"

	"proxyauth/internal/sentinel"
)

// ConcurrentResult summarizes the outcomes of RunConcurrent.
type ConcurrentResult struct {
	Successes int32
	NotFounds int32
	Errors    int32
}

// Total is the number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.NotFounds + r.Errors
}

// RunConcurrent runs fn from the given number of goroutines at once and
// tallies outcomes, replacing the WaitGroup-plus-atomic-counter boilerplate
// in tests. Not-found errors count separately since several stores return
// them as expected outcomes under contention.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, notFounds, other atomic.Int32

	for i := range goroutines {
		wg.Go(func() {
			switch err := fn(i); {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrNotFound):
				notFounds.Add(1)
			default:
				other.Add(1)
			}
		})
	}
	wg.Wait()

	return &ConcurrentResult{
		Successes: successes.Load(),
		NotFounds: notFounds.Load(),
		Errors:    other.Load(),
	}
}
