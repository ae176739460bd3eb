package repeat

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStart_RunsImmediatelyAndOnInterval(t *testing.T) {
	var count int64
	task := Start(context.Background(), time.Millisecond, func(ctx context.Context) {
		atomic.AddInt64(&count, 1)
	})
	defer task.Stop()

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&count) >= 3
	}, 5*time.Second, time.Millisecond)
}

func TestStop_WaitsForInFlightTick(t *testing.T) {
	running := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	task := Start(context.Background(), time.Hour, func(ctx context.Context) {
		close(running)
		<-release
		finished.Store(true)
	})

	<-running
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()
	task.Stop()
	require.True(t, finished.Load())
}

func TestStop_Twice_DoesNotPanic(t *testing.T) {
	task := Start(context.Background(), time.Hour, func(ctx context.Context) {})
	task.Stop()
	task.Stop()
}

func TestStart_ParentContextCancel_StopsTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var count int64
	task := Start(ctx, time.Millisecond, func(ctx context.Context) {
		atomic.AddInt64(&count, 1)
	})

	cancel()
	task.Stop()
	after := atomic.LoadInt64(&count)
	time.Sleep(5 * time.Millisecond)
	require.Equal(t, after, atomic.LoadInt64(&count))
}
