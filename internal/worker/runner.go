// Package worker provides a small supervised runner for fire-and-forget
// background tasks, so process shutdown can wait for in-flight work.
package worker

import (
	"context"
	"log"
	"sync"
)

// Runner launches detached tasks on its own context. Tasks outlive the
// HTTP requests that trigger them; only Shutdown cancels them.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New derives the runner's task context from parent.
func New(parent context.Context) *Runner {
	ctx, cancel := context.WithCancel(parent)
	return &Runner{ctx: ctx, cancel: cancel}
}

// Go launches fn as a supervised task. Panics are logged, never fatal.
func (r *Runner) Go(name string, fn func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[worker] task %s panicked: %v", name, rec)
			}
		}()
		fn(r.ctx)
	}()
}

// Shutdown drains running tasks until ctx expires, then cancels whatever
// is still in flight. Deliberations in progress get a chance to finish.
func (r *Runner) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()
		return nil
	case <-ctx.Done():
		r.cancel()
		return ctx.Err()
	}
}
