package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Policy bounds a retry loop. MaxRetries counts attempts after the first;
// BaseDelay is doubled on each retry and jittered by ±30%.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// Backoff returns the jittered delay before retry number attempt (1-based).
func (p Policy) Backoff(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as final. Do returns the wrapped error without retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type waitError struct {
	err   error
	after time.Duration
}

func (e *waitError) Error() string { return e.err.Error() }
func (e *waitError) Unwrap() error { return e.err }

// After marks err as retryable once d has passed, overriding the backoff.
// Used when the remote side names its own delay, e.g. Retry-After.
func After(err error, d time.Duration) error {
	if err == nil {
		return nil
	}
	return &waitError{err: err, after: d}
}

// Do calls fn until it succeeds, returns a Permanent error, or the policy
// runs out. onRetry, when set, is called before each wait. Cancellation of
// ctx by the caller is never retried.
func Do(ctx context.Context, p Policy, fn func(context.Context) error, onRetry func(attempt int, delay time.Duration, err error)) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if errors.Is(err, context.Canceled) || attempt >= p.MaxRetries {
			return unwrapWait(err)
		}

		delay := p.Backoff(attempt + 1)
		var w *waitError
		if errors.As(err, &w) {
			delay = w.after
		}
		if onRetry != nil {
			onRetry(attempt+1, delay, unwrapWait(err))
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-t.C:
		}
	}
}

func unwrapWait(err error) error {
	if w, ok := err.(*waitError); ok {
		return w.err
	}
	return err
}
