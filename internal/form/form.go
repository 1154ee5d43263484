package form

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/amishk599/autoapply/internal/model"
)

// data-testid values of the application form.
const (
	FieldActionPanel  = "desktop-action-panel"
	FieldApplyContent = "apply-content"
	FieldQuestionCard = "application-questions-card"
	FieldSend         = "send-application"
)

// applySegment is the URL path segment present while the application form is
// open, e.g. /jobs/abc123/apply. The feed itself lives under /jobs/theme/apply-via-otta.
const applySegment = "apply"

// Form drives the application form of the current listing.
type Form struct {
	page model.Page
	wait time.Duration
}

// New returns a form driver that waits up to wait for rendering and submission.
func New(page model.Page, wait time.Duration) *Form {
	return &Form{page: page, wait: wait}
}

// Open goes from the listing page to its application form.
func (f *Form) Open(ctx context.Context) error {
	if err := f.page.Click(ctx, "("+byTestID(FieldActionPanel)+"//button)[2]"); err != nil {
		return fmt.Errorf("open apply panel: %w", err)
	}
	if err := f.page.Click(ctx, "("+byTestID(FieldApplyContent)+"//button)[1]"); err != nil {
		return fmt.Errorf("start application: %w", err)
	}
	err := f.page.WaitFor(ctx, func(ctx context.Context) bool {
		return len(f.page.TextList(ctx, FieldQuestionCard)) > 0 || f.page.Text(ctx, FieldSend) != ""
	}, f.wait)
	if err != nil {
		return fmt.Errorf("application form did not render: %w", err)
	}
	return nil
}

// Prompts returns the raw text of each question card, in page order.
func (f *Form) Prompts(ctx context.Context) []string {
	return f.page.TextList(ctx, FieldQuestionCard)
}

// FillText answers the free-text question at index (0-based).
func (f *Form) FillText(ctx context.Context, index int, answer string) error {
	card := fmt.Sprintf("(%s)[%d]", byTestID(FieldQuestionCard), index+1)
	if err := f.page.Click(ctx, card); err != nil {
		return fmt.Errorf("question %d: expand: %w", index+1, err)
	}
	if answer != "" {
		if err := f.page.TypeInto(ctx, card+"//textarea", answer); err != nil {
			return fmt.Errorf("question %d: type answer: %w", index+1, err)
		}
	}
	if err := f.page.Click(ctx, "("+card+"//button)[2]"); err != nil {
		return fmt.Errorf("question %d: save: %w", index+1, err)
	}
	return nil
}

// Submit sends the application and waits for the page to leave the form.
func (f *Form) Submit(ctx context.Context) error {
	if err := f.page.Click(ctx, byTestID(FieldSend)); err != nil {
		return fmt.Errorf("send application: %w", err)
	}
	var last string
	err := f.page.WaitFor(ctx, func(ctx context.Context) bool {
		loc, err := f.page.Location(ctx)
		if err != nil {
			return false
		}
		last = loc
		return !OnForm(loc)
	}, f.wait)
	if err != nil {
		return fmt.Errorf("%w: still at %q after %s", model.ErrSubmissionUnconfirmed, last, f.wait)
	}
	return nil
}

// OnForm reports whether rawURL is an application form page: one of its path
// segments is exactly "apply".
func OnForm(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.Contains(rawURL, "/"+applySegment)
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == applySegment {
			return true
		}
	}
	return false
}

func byTestID(id string) string {
	return "//*[@data-testid='" + id + "']"
}
