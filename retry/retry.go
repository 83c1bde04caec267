// Package retry runs a bounded, fixed-interval poll loop.
//
// The loop is deliberately narrow: attempts run sequentially, the pause
// between attempts never grows, and errors from an attempt stop the loop
// immediately. It exists to wait for eventually consistent state to
// appear, not to paper over failing calls.
package retry

import (
	"context"
	"errors"
	"time"
)

// Defaults applied when no policy is supplied.
const (
	DefaultAttempts = 10
	DefaultPause    = 2 * time.Second
)

// ErrExhausted is returned when every attempt in the budget completed
// without the success condition holding.
var ErrExhausted = errors.New("awaitkit: retry attempts exhausted")

// Policy bounds a poll loop: how many attempts to make and how long to
// pause between them.
type Policy struct {
	// Attempts is the maximum number of attempts. Values below 1 are
	// clamped to 1.
	Attempts int

	// Pause is the suspension between attempts. Negative values are
	// clamped to zero; an explicit zero means no pause.
	Pause time.Duration
}

// DefaultPolicy returns the standard budget: 10 attempts, 2s apart.
func DefaultPolicy() *Policy {
	return &Policy{Attempts: DefaultAttempts, Pause: DefaultPause}
}

// normalize resolves a possibly-nil policy to legal bounds.
func (p *Policy) normalize() Policy {
	if p == nil {
		return *DefaultPolicy()
	}
	out := *p
	if out.Attempts < 1 {
		out.Attempts = 1
	}
	if out.Pause < 0 {
		out.Pause = 0
	}
	return out
}

// AttemptFunc performs one attempt. A returned error aborts the loop
// immediately; it is never treated as transient.
type AttemptFunc[T any] func(ctx context.Context) (T, error)

// Do runs attempt up to policy.Attempts times, sequentially, returning
// the first value for which done holds. After every attempt where done
// does not hold the loop pauses for policy.Pause, including after the
// final attempt, before ErrExhausted is returned.
//
// A nil policy means DefaultPolicy; a nil sleeper means StandardSleeper.
func Do[T any](ctx context.Context, policy *Policy, sleeper Sleeper, attempt AttemptFunc[T], done func(T) bool) (T, error) {
	p := policy.normalize()
	if sleeper == nil {
		sleeper = StandardSleeper{}
	}

	var zero T
	for i := 1; i <= p.Attempts; i++ {
		v, err := attempt(ctx)
		if err != nil {
			return zero, err
		}
		if done(v) {
			return v, nil
		}
		if err := sleeper.Sleep(ctx, p.Pause); err != nil {
			return zero, err
		}
	}
	return zero, ErrExhausted
}
