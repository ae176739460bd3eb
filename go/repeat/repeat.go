// Package repeat runs a function on a fixed interval until the owning
// task is stopped.
package repeat

import (
	"context"
	"time"
)

// Task is a handle to a running repeating function. Each Task owns its
// own goroutine; callers are expected to Stop the Task when the thing
// it maintains goes away.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start runs fn immediately and then once per interval until Stop is
// called or ctx is canceled. fn receives a context derived from ctx.
func Start(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		fn(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
	return t
}

// Stop cancels the task and waits for any in-flight invocation of fn to
// finish. It is safe to call more than once.
func (t *Task) Stop() {
	t.cancel()
	<-t.done
}
