package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_PermanentStopsImmediately(t *testing.T) {
	bad := errors.New("slack returned 400")
	calls := 0
	err := Do(context.Background(), Policy{MaxRetries: 3, BaseDelay: time.Millisecond}, func(context.Context) error {
		calls++
		return Permanent(bad)
	}, nil)
	if err != bad {
		t.Fatalf("err = %v, want the unwrapped permanent error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDo_AfterOverridesBackoff(t *testing.T) {
	calls := 0
	var delays []time.Duration
	start := time.Now()
	err := Do(context.Background(), Policy{MaxRetries: 1, BaseDelay: time.Hour}, func(context.Context) error {
		calls++
		if calls == 1 {
			return After(errors.New("rate limited"), 5*time.Millisecond)
		}
		return nil
	}, func(_ int, d time.Duration, _ error) {
		delays = append(delays, d)
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(delays) != 1 || delays[0] != 5*time.Millisecond {
		t.Errorf("delays = %v, want [5ms]", delays)
	}
	if time.Since(start) > time.Second {
		t.Error("backoff delay was used instead of the requested wait")
	}
}

func TestDo_ReturnsUnwrappedLastError(t *testing.T) {
	limited := errors.New("slack returned 429")
	err := Do(context.Background(), Policy{MaxRetries: 1}, func(context.Context) error {
		return After(limited, time.Millisecond)
	}, nil)
	if err != limited {
		t.Fatalf("err = %v, want %v", err, limited)
	}
}

func TestDo_NegativeRetriesRunsOnce(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), Policy{MaxRetries: -1}, func(context.Context) error {
		calls++
		return errors.New("boom")
	}, nil)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestPolicy_BackoffDoublesWithinJitter(t *testing.T) {
	p := Policy{BaseDelay: 100 * time.Millisecond}
	for attempt, base := range map[int]time.Duration{1: 100 * time.Millisecond, 3: 400 * time.Millisecond} {
		d := p.Backoff(attempt)
		lo, hi := time.Duration(float64(base)*0.7), time.Duration(float64(base)*1.3)
		if d < lo || d > hi {
			t.Errorf("Backoff(%d) = %v, want within [%v, %v]", attempt, d, lo, hi)
		}
	}
}
