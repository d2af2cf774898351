// Package assets runs startup loads off the render goroutine and hands their
// results back to it.
package assets

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one load.
type Result struct {
	Name     string
	Required bool
	Value    any
	Err      error
}

// Loader runs load functions concurrently. Results are queued and only
// delivered by Poll, so they are applied on the polling goroutine.
//
// Go, Poll and Ready must be called from the same goroutine.
type Loader struct {
	g   *errgroup.Group
	ctx context.Context

	mu   sync.Mutex
	done []Result

	pending  int
	required int
}

// NewLoader returns a loader whose loads are cancelled with ctx or when a
// required load fails.
func NewLoader(ctx context.Context) *Loader {
	g, gctx := errgroup.WithContext(ctx)
	return &Loader{g: g, ctx: gctx}
}

// Go starts fn. A failing required load cancels the others.
func (l *Loader) Go(name string, required bool, fn func(ctx context.Context) (any, error)) {
	l.pending++
	if required {
		l.required++
	}
	l.g.Go(func() error {
		v, err := fn(l.ctx)
		l.mu.Lock()
		l.done = append(l.done, Result{Name: name, Required: required, Value: v, Err: err})
		l.mu.Unlock()
		if err != nil && required {
			return fmt.Errorf("load %s: %w", name, err)
		}
		return nil
	})
}

// Poll hands every finished result to apply, in completion order. It returns
// the first error from apply or from a failed required load.
func (l *Loader) Poll(apply func(Result) error) error {
	l.mu.Lock()
	done := l.done
	l.done = nil
	l.mu.Unlock()

	for i, r := range done {
		l.pending--
		if r.Required {
			l.required--
		}
		if r.Err != nil && r.Required {
			l.requeue(done[i+1:])
			return fmt.Errorf("load %s: %w", r.Name, r.Err)
		}
		if err := apply(r); err != nil {
			l.requeue(done[i+1:])
			return fmt.Errorf("apply %s: %w", r.Name, err)
		}
	}
	return nil
}

func (l *Loader) requeue(rest []Result) {
	if len(rest) == 0 {
		return
	}
	l.mu.Lock()
	l.done = append(rest, l.done...)
	l.mu.Unlock()
}

// Ready reports whether every required load has been delivered.
func (l *Loader) Ready() bool { return l.required == 0 }

// Pending returns the number of loads not yet delivered by Poll.
func (l *Loader) Pending() int { return l.pending }

// Wait blocks until every load returned and reports the first required
// failure.
func (l *Loader) Wait() error { return l.g.Wait() }
