package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/amishk599/autoapply/internal/model"
)

const (
	pollInterval   = 250 * time.Millisecond
	defaultTimeout = 30 * time.Second
)

var _ model.Page = (*Browser)(nil)

// Options configure the browser process.
type Options struct {
	ProfileDir string        // user data dir holding the logged-in session
	Headless   bool          // unattended runs
	ExecPath   string        // optional browser binary
	Timeout    time.Duration // upper bound for a single action
}

// Browser is a model.Page backed by a Chrome instance driven over the DevTools
// protocol. Reads parse a snapshot of the rendered DOM so that absent fields
// return immediately instead of waiting for an element to appear.
type Browser struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	logger  *slog.Logger
}

// New starts a browser using the configured profile.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Browser, error) {
	if opts.ProfileDir == "" {
		return nil, model.ErrNoProfile
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(opts.ProfileDir),
		chromedp.Flag("headless", opts.Headless),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	bctx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			logger.Debug("devtools", "message", fmt.Sprintf(format, args...))
		}),
	)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	// the first Run launches the process
	if err := chromedp.Run(bctx); err != nil {
		cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	logger.Info("browser started", "profile", opts.ProfileDir, "headless", opts.Headless)

	return &Browser{ctx: bctx, cancel: cancel, timeout: opts.Timeout, logger: logger}, nil
}

// Close shuts the browser down.
func (b *Browser) Close() error {
	b.cancel()
	return nil
}

// run executes actions on the browser, bounded by the caller's context and the action timeout.
func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(b.ctx, b.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (b *Browser) document(ctx context.Context) *Document {
	var html string
	if err := b.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		b.logger.Debug("could not read page", "error", err)
		return nil
	}
	doc, err := ParseDocument(html)
	if err != nil {
		b.logger.Debug("could not parse page", "error", err)
		return nil
	}
	return doc
}

func (b *Browser) Text(ctx context.Context, fieldID string) string {
	if doc := b.document(ctx); doc != nil {
		return doc.Text(fieldID)
	}
	return ""
}

func (b *Browser) TextList(ctx context.Context, fieldID string) []string {
	if doc := b.document(ctx); doc != nil {
		return doc.TextList(fieldID)
	}
	return nil
}

func (b *Browser) Attribute(ctx context.Context, selector, attr string) (string, bool) {
	if doc := b.document(ctx); doc != nil {
		return doc.Attribute(selector, attr)
	}
	return "", false
}

func (b *Browser) Click(ctx context.Context, selector string) error {
	return b.run(ctx, chromedp.Click(selector, chromedp.BySearch))
}

func (b *Browser) TypeInto(ctx context.Context, selector, text string) error {
	return b.run(ctx, chromedp.SendKeys(selector, text, chromedp.BySearch))
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	return b.run(ctx, chromedp.Navigate(url))
}

func (b *Browser) Location(ctx context.Context) (string, error) {
	var url string
	if err := b.run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

func (b *Browser) WaitFor(ctx context.Context, cond func(ctx context.Context) bool, timeout time.Duration) error {
	return poll(ctx, cond, timeout, pollInterval)
}

// poll checks cond immediately and then every interval until it holds or timeout elapses.
func poll(ctx context.Context, cond func(ctx context.Context) bool, timeout, interval time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if cond(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("condition not met within %s", timeout)
		case <-ticker.C:
		}
	}
}
