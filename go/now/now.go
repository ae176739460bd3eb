// Package now returns the current time in a way that tests can
// override through the context.
package now

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type contextKeyType string

// ContextKey is the context key under which tests can store an override
// for the time returned by Now. The stored value may be either a fixed
// time.Time or a NowProvider that is evaluated on every call.
//
//	ctx = context.WithValue(ctx, now.ContextKey, time.Unix(0, 12).UTC())
const ContextKey contextKeyType = "overwriteNow"

// NowProvider is a function that supplies the current time. A
// NowProvider stored under ContextKey must be threadsafe if the context
// crosses goroutines. Tests that need the time to move should use
// TimeTravelCtx instead of writing their own provider.
type NowProvider func() time.Time

// Now returns the current time, or the override carried by ctx.
func Now(ctx context.Context) time.Time {
	if v := ctx.Value(ContextKey); v != nil {
		switch t := v.(type) {
		case NowProvider:
			return t()
		case time.Time:
			return t
		default:
			panic(fmt.Sprintf("Unknown value for ContextKey: %v", v))
		}
	}
	return time.Now()
}

// TimeTravelCtx is a context whose apparent time can be moved by tests:
//
//	ctx := now.TimeTravelingContext(start)
//	first := doSomething(ctx)
//	ctx.SetTime(start.Add(2 * time.Minute))
//	second := doSomething(ctx)
type TimeTravelCtx struct {
	context.Context

	mutex sync.RWMutex
	ts    time.Time
}

// TimeTravelingContext returns a *TimeTravelCtx that reports the given
// time until SetTime is called. It derives from the background context.
func TimeTravelingContext(start time.Time) *TimeTravelCtx {
	t := &TimeTravelCtx{
		ts: start,
	}
	t.Context = context.WithValue(context.Background(), ContextKey, NowProvider(t.now))
	return t
}

func (t *TimeTravelCtx) now() time.Time {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.ts
}

// SetTime changes the time reported by the context. It is threadsafe.
func (t *TimeTravelCtx) SetTime(newTime time.Time) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.ts = newTime
}
