package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amishk599/autoapply/internal/pagetest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// flakyPage fails Navigate according to fn, tracking call count.
type flakyPage struct {
	pagetest.Page
	calls int
	fn    func(attempt int) error
}

func (p *flakyPage) Navigate(_ context.Context, _ string) error {
	p.calls++
	return p.fn(p.calls)
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	page := &flakyPage{fn: func(int) error { return nil }}
	rp := NewRetryPage(page, 2, 10*time.Millisecond, discardLogger())

	if err := rp.Navigate(context.Background(), "https://app.example"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.calls != 1 {
		t.Fatalf("expected 1 call, got %d", page.calls)
	}
}

func TestRetry_SucceedsOnSecondAttempt(t *testing.T) {
	page := &flakyPage{fn: func(attempt int) error {
		if attempt == 1 {
			return errors.New("net::ERR_CONNECTION_RESET")
		}
		return nil
	}}
	rp := NewRetryPage(page, 2, 10*time.Millisecond, discardLogger())

	if err := rp.Navigate(context.Background(), "https://app.example"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", page.calls)
	}
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	page := &flakyPage{fn: func(int) error { return errors.New("net::ERR_NAME_NOT_RESOLVED") }}
	rp := NewRetryPage(page, 2, 10*time.Millisecond, discardLogger())

	if err := rp.Navigate(context.Background(), "https://app.example"); err == nil {
		t.Fatal("expected error after max retries, got nil")
	}
	// 1 initial + 2 retries = 3
	if page.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", page.calls)
	}
}

func TestRetry_DoesNotRetryCancellation(t *testing.T) {
	page := &flakyPage{fn: func(int) error { return context.Canceled }}
	rp := NewRetryPage(page, 2, 10*time.Millisecond, discardLogger())

	err := rp.Navigate(context.Background(), "https://app.example")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if page.calls != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", page.calls)
	}
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	page := &flakyPage{fn: func(int) error { return errors.New("timeout") }}

	ctx, cancel := context.WithCancel(context.Background())
	// Cancel immediately so the backoff sleep is interrupted.
	cancel()

	rp := NewRetryPage(page, 2, time.Second, discardLogger())
	err := rp.Navigate(ctx, "https://app.example")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if page.calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", page.calls)
	}
}

func TestRetry_OtherCapabilitiesPassThrough(t *testing.T) {
	page := &flakyPage{Page: pagetest.Page{Texts: map[string]string{"job-title": "Engineer"}}}
	rp := NewRetryPage(page, 2, time.Millisecond, discardLogger())

	if got := rp.Text(context.Background(), "job-title"); got != "Engineer" {
		t.Errorf("Text = %q, want Engineer", got)
	}
}
