package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	dErrors "github.com/Consent-Management-Platform/consent-management-api/pkg/domain-errors"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes        int32
	Errors           int32
	AlreadyExists    int32
	VersionConflicts int32
	NotFounds        int32
}

// Total returns the total number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Errors + r.AlreadyExists + r.VersionConflicts + r.NotFounds
}

// RunConcurrent executes fn in parallel goroutines and buckets each outcome
// by its domain error code.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, errs, exists, conflicts, notFounds atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			err := fn(idx)
			switch {
			case err == nil:
				successes.Add(1)
			case dErrors.HasCode(err, dErrors.CodeAlreadyExists):
				exists.Add(1)
			case dErrors.HasCode(err, dErrors.CodeVersionConflict):
				conflicts.Add(1)
			case dErrors.HasCode(err, dErrors.CodeNotFound):
				notFounds.Add(1)
			default:
				errs.Add(1)
			}
		}(i)
	}

	wg.Wait()

	return &ConcurrentResult{
		Successes:        successes.Load(),
		Errors:           errs.Load(),
		AlreadyExists:    exists.Load(),
		VersionConflicts: conflicts.Load(),
		NotFounds:        notFounds.Load(),
	}
}

// RunConcurrentCtx executes fn in parallel goroutines with a shared context.
func RunConcurrentCtx(ctx context.Context, goroutines int, fn func(ctx context.Context, idx int) error) *ConcurrentResult {
	return RunConcurrent(goroutines, func(idx int) error {
		return fn(ctx, idx)
	})
}
