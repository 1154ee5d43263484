package model

import (
	"context"
	"time"
)

// Page is the capability set the workflow needs from a page-automation driver.
//
// Reads never fail: an absent field yields "" (or nil, or ok=false). Field IDs are
// data-testid values; selectors accept CSS or XPath.
type Page interface {
	Text(ctx context.Context, fieldID string) string
	TextList(ctx context.Context, fieldID string) []string
	Attribute(ctx context.Context, selector, attr string) (string, bool)

	Click(ctx context.Context, selector string) error
	TypeInto(ctx context.Context, selector, text string) error
	Navigate(ctx context.Context, url string) error
	Location(ctx context.Context) (string, error)

	// WaitFor polls cond until it returns true or timeout elapses.
	WaitFor(ctx context.Context, cond func(ctx context.Context) bool, timeout time.Duration) error
}

// Pauser hands control to the operator for manual inspection.
type Pauser interface {
	Pause(ctx context.Context, reason string) error
}
