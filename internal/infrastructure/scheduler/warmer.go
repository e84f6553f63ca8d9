package scheduler

import (
	"context"
	"sync"
	"time"
)

// Warmer runs a job once at start and then on every tick until stopped.
type Warmer struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewWarmer builds a warmer ticking every interval. A non-positive interval makes Start a no-op.
func NewWarmer(interval time.Duration) *Warmer {
	return &Warmer{interval: interval}
}

// Start launches the ticking goroutine; a second Start while running does nothing.
func (w *Warmer) Start(ctx context.Context, job func(context.Context, time.Time)) {
	if job == nil || w.interval <= 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stop != nil {
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	w.stop, w.done = stop, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		job(ctx, time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(ctx, t)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the goroutine and waits for an in-flight job to return.
func (w *Warmer) Stop() {
	w.mu.Lock()
	stop, done := w.stop, w.done
	w.stop, w.done = nil, nil
	w.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
