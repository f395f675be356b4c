package bson

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

func concurrencyOrDefault(concurrency int) int {
	if concurrency <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return concurrency
}

// ValidateAll validates every document in docs concurrently, bounded by
// concurrency (or GOMAXPROCS if concurrency <= 0), and returns every
// failure combined via multierr rather than stopping at the first one.
func ValidateAll(docs []*Document, flags Flags, concurrency int) error {
	var g errgroup.Group
	g.SetLimit(concurrencyOrDefault(concurrency))
	var mu sync.Mutex
	var combined error
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if _, err := Validate(doc, flags); err != nil {
				mu.Lock()
				combined = multierr.Append(combined, fmt.Errorf("document %d: %w", i, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return combined
}

// RenderAll renders every document in docs to extended JSON concurrently,
// returning the results in input order alongside every rendering failure
// combined via multierr. A document that failed to render has an empty
// string in its slot.
func RenderAll(docs []*Document, concurrency int) ([]string, error) {
	out := make([]string, len(docs))
	var g errgroup.Group
	g.SetLimit(concurrencyOrDefault(concurrency))
	var mu sync.Mutex
	var combined error
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			s, err := ToJSON(doc)
			if err != nil {
				mu.Lock()
				combined = multierr.Append(combined, fmt.Errorf("document %d: %w", i, err))
				mu.Unlock()
				return nil
			}
			out[i] = s
			return nil
		})
	}
	_ = g.Wait()
	return out, combined
}
