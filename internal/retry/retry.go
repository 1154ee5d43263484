package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/autoapply/internal/model"
)

// RetryPage is a decorator that retries failed navigations with exponential
// backoff and jitter. All other page capabilities pass straight through.
type RetryPage struct {
	model.Page
	policy Policy
	logger *slog.Logger
}

// NewRetryPage wraps a Page with navigation retries.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewRetryPage(inner model.Page, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryPage {
	return &RetryPage{
		Page:   inner,
		policy: Policy{MaxRetries: maxRetries, BaseDelay: baseDelay},
		logger: logger,
	}
}

// Navigate loads url, retrying transient failures.
func (p *RetryPage) Navigate(ctx context.Context, url string) error {
	return Do(ctx, p.policy, func(ctx context.Context) error {
		return p.Page.Navigate(ctx, url)
	}, func(attempt int, delay time.Duration, err error) {
		p.logger.Warn("retrying navigation after error",
			"url", url,
			"attempt", attempt,
			"max_retries", p.policy.MaxRetries,
			"delay", delay,
			"error", err,
		)
	})
}
