package now

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNow_ConstValue_Success(t *testing.T) {
	mockTime := time.Unix(12, 11).UTC()
	backgroundCtx := context.Background()
	ctx := context.WithValue(backgroundCtx, ContextKey, mockTime)

	require.NotEqual(t, mockTime, Now(backgroundCtx))
	require.Equal(t, mockTime, Now(ctx))
}

func TestNow_NowProvider_Success(t *testing.T) {
	var monotonicTime int64 = 0
	mockTimeProvider := func() time.Time {
		monotonicTime += 1
		return time.Unix(monotonicTime, 0).UTC()
	}
	ctx := context.WithValue(context.Background(), ContextKey, NowProvider(mockTimeProvider))

	// Each call with ctx re-evaluates the provider.
	require.Equal(t, int64(1), Now(ctx).Unix())
	require.Equal(t, int64(2), Now(ctx).Unix())
	require.Equal(t, int64(2), monotonicTime)
}

func TestNow_InvalidValue_Panics(t *testing.T) {
	ctx := context.WithValue(context.Background(), ContextKey, "strings are not valid types for ContextKey")

	require.Panics(t, func() {
		Now(ctx)
	})
}

func TestTimeTravelingContext_SetTime_MovesClock(t *testing.T) {
	start := time.Unix(1000, 0).UTC()
	ctx := TimeTravelingContext(start)

	require.Equal(t, start, Now(ctx))
	ctx.SetTime(start.Add(time.Hour))
	require.Equal(t, start.Add(time.Hour), Now(ctx))
}
