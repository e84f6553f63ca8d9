package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarmerRunsImmediatelyAndOnTicks(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	w := NewWarmer(10 * time.Millisecond)
	w.Start(context.Background(), func(context.Context, time.Time) { runs.Add(1) })

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	w.Stop()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "no runs after Stop")
}

func TestWarmerDisabledWithoutInterval(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	w := NewWarmer(0)
	w.Start(context.Background(), func(context.Context, time.Time) { runs.Add(1) })
	time.Sleep(20 * time.Millisecond)
	w.Stop()

	assert.Zero(t, runs.Load())
}

func TestWarmerStopsWithContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{}, 1)
	w := NewWarmer(time.Hour)
	w.Start(ctx, func(context.Context, time.Time) {
		select {
		case started <- struct{}{}:
		default:
		}
	})

	<-started
	cancel()
	w.Stop()
}

func TestWarmerDoubleStartIsNoop(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	w := NewWarmer(time.Hour)
	job := func(context.Context, time.Time) { runs.Add(1) }
	w.Start(context.Background(), job)
	w.Start(context.Background(), job)

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	w.Stop()
	w.Stop()
	assert.Equal(t, int32(1), runs.Load())
}
