package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/amishk599/autoapply/internal/model"
)

// Feed moves through the listing feed.
type Feed struct {
	page   model.Page
	url    string
	settle time.Duration
}

// NewFeed returns a feed rooted at url. settle is how long to let the next
// listing render after skipping.
func NewFeed(page model.Page, url string, settle time.Duration) *Feed {
	return &Feed{page: page, url: url, settle: settle}
}

// Restart returns to the start of the feed, where the next unapplied listing shows.
func (f *Feed) Restart(ctx context.Context) error {
	if err := f.page.Navigate(ctx, f.url); err != nil {
		return fmt.Errorf("open feed: %w", err)
	}
	return nil
}

// Next skips the current listing without applying.
func (f *Feed) Next(ctx context.Context) error {
	if err := f.page.Click(ctx, byTestID(FieldNextButton)); err != nil {
		return fmt.Errorf("skip listing: %w", err)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(f.settle):
	}
	return nil
}

func byTestID(id string) string {
	return "//*[@data-testid='" + id + "']"
}
