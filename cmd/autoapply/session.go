package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/autoapply/internal/answer"
	"github.com/amishk599/autoapply/internal/browser"
	"github.com/amishk599/autoapply/internal/classifier"
	"github.com/amishk599/autoapply/internal/config"
	"github.com/amishk599/autoapply/internal/content"
	"github.com/amishk599/autoapply/internal/form"
	"github.com/amishk599/autoapply/internal/listing"
	"github.com/amishk599/autoapply/internal/model"
	"github.com/amishk599/autoapply/internal/ratelimit"
	"github.com/amishk599/autoapply/internal/retry"
	"github.com/amishk599/autoapply/internal/store"
	"github.com/amishk599/autoapply/internal/tui"
	"github.com/amishk599/autoapply/internal/workflow"
)

// app holds what every session of a process shares.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	assembler *content.Assembler
	store     model.RecordStore
	notifier  model.Notifier
	pauser    model.Pauser
	close     func() error
}

// buildApp loads the content library and opens the record store.
func buildApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	lib, err := content.Load(cfg.Library)
	if err != nil {
		return nil, fmt.Errorf("load content library: %w", err)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		assembler: content.NewAssembler(lib),
		notifier:  setupNotifier(cfg, &http.Client{Timeout: 30 * time.Second}, logger),
		close:     func() error { return nil },
	}

	// In dry-run mode, use a NopStore so nothing is persisted.
	if dryRun {
		logger.Info("dry-run mode enabled, applications will not be recorded")
		a.store = store.NewNopStore()
	} else {
		sqlStore, err := store.NewSQLiteStore(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.store = sqlStore
		a.close = sqlStore.Close
	}

	if diagnostic {
		a.pauser = tui.NewPrompt()
	}
	return a, nil
}

// openPage starts the browser and layers pacing and navigation retries over it.
func (a *app) openPage(ctx context.Context, logger *slog.Logger) (model.Page, func() error, error) {
	b, err := browser.New(ctx, browser.Options{
		ProfileDir: a.cfg.Browser.ProfileDir,
		Headless:   a.cfg.Browser.Headless || autoMode,
		ExecPath:   a.cfg.Browser.ExecPath,
		Timeout:    a.cfg.Wait,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	var page model.Page = b
	page = ratelimit.NewPacedPage(page, ratelimit.NewPacer(a.cfg.RateLimit.MinDelay))
	page = retry.NewRetryPage(page, a.cfg.Retry.MaxRetries, a.cfg.Retry.BaseDelay, logger)
	return page, b.Close, nil
}

// runSession opens a browser and walks the feed once.
func (a *app) runSession(ctx context.Context) error {
	sess := workflow.NewSession(uuid.NewString())
	logger := a.logger.With("session", sess.ID)

	page, closePage, err := a.openPage(ctx, logger)
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer closePage()

	deps := workflow.Deps{
		Source:     listing.NewExtractor(page, a.cfg.Wait, logger),
		Feed:       listing.NewFeed(page, a.cfg.FeedURL, a.cfg.SettleDelay),
		Form:       form.New(page, a.cfg.Wait),
		Classifier: classifier.New(logger),
		Resolver:   answer.NewResolver(a.assembler, a.cfg.Answers.Pronouns),
		Store:      a.store,
		Notifier:   a.notifier,
		Pauser:     a.pauser,
	}
	ctrl := workflow.NewController(deps, workflow.Options{Method: method(), Diagnostic: diagnostic}, a.logger)

	summary, err := ctrl.Run(ctx, sess)
	logger.Info("session summary",
		"submitted", summary.Submitted,
		"skipped", summary.Skipped,
		"failed_companies", summary.FailedCompanies,
	)
	return err
}
