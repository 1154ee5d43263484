package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/amishk599/autoapply/internal/model"
)

// Pacer enforces a minimum delay between consecutive page actions so the
// session never drives the site faster than a person would.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a pacer allowing one action per minDelay. A non-positive
// delay disables pacing.
func NewPacer(minDelay time.Duration) *Pacer {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &Pacer{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next action is allowed.
// Returns an error if the context is cancelled while waiting.
func (p *Pacer) Wait(ctx context.Context, action string) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("pacing %s: %w", action, err)
	}
	return nil
}

// PacedPage is a decorator that paces clicks, typing and navigation before
// delegating to the wrapped Page. Reads are not paced.
type PacedPage struct {
	model.Page
	pacer *Pacer
}

// NewPacedPage wraps a Page with action pacing.
func NewPacedPage(inner model.Page, pacer *Pacer) *PacedPage {
	return &PacedPage{Page: inner, pacer: pacer}
}

func (p *PacedPage) Click(ctx context.Context, selector string) error {
	if err := p.pacer.Wait(ctx, "click"); err != nil {
		return err
	}
	return p.Page.Click(ctx, selector)
}

func (p *PacedPage) TypeInto(ctx context.Context, selector, text string) error {
	if err := p.pacer.Wait(ctx, "typing"); err != nil {
		return err
	}
	return p.Page.TypeInto(ctx, selector, text)
}

func (p *PacedPage) Navigate(ctx context.Context, url string) error {
	if err := p.pacer.Wait(ctx, "navigation"); err != nil {
		return err
	}
	return p.Page.Navigate(ctx, url)
}
