package build

import (
	"context"
	"sync"
)

type orderedResult[R any] struct {
	Value R
	Err   error
	// Done is false for items never dispatched because ctx ended first.
	Done bool
}

// runOrdered calls fn for every item on at most concurrency goroutines and
// returns the results in item order. Once ctx is done no further items are
// dispatched; items already running complete.
func runOrdered[T any, R any](ctx context.Context, items []T, concurrency int, fn func(T) (R, error)) []orderedResult[R] {
	if len(items) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	sem := make(chan struct{}, concurrency)
	results := make([]orderedResult[R], len(items))

	var wg sync.WaitGroup
dispatch:
	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break dispatch
		}
		// A slot may free up in the same instant ctx ends.
		if ctx.Err() != nil {
			<-sem
			break
		}

		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			defer func() { <-sem }()
			v, err := fn(item)
			results[i] = orderedResult[R]{Value: v, Err: err, Done: true}
		}(i, item)
	}
	wg.Wait()
	return results
}
