package retry

import (
	"context"
	"time"
)

// Sleeper suspends the calling goroutine between attempts. Only the
// caller is suspended; other goroutines in the process keep running.
type Sleeper interface {
	// Sleep completes after at least d, or earlier with ctx.Err() when
	// the context is cancelled.
	Sleep(ctx context.Context, d time.Duration) error
}

// StandardSleeper pauses on the wall clock.
type StandardSleeper struct{}

// Sleep implements Sleeper.
func (StandardSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
