package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/autoapply/internal/answer"
	"github.com/amishk599/autoapply/internal/model"
)

// SnapshotSource reads the listing currently on screen.
type SnapshotSource interface {
	Snapshot(ctx context.Context) model.ListingSnapshot
}

// Feed moves between listings.
type Feed interface {
	Restart(ctx context.Context) error
	Next(ctx context.Context) error
}

// ApplicationForm drives the application form of the current listing.
type ApplicationForm interface {
	Open(ctx context.Context) error
	Prompts(ctx context.Context) []string
	FillText(ctx context.Context, index int, answer string) error
	Submit(ctx context.Context) error
}

// QuestionClassifier turns prompt text into a question.
type QuestionClassifier interface {
	Classify(text string) model.Question
}

// AnswerResolver answers classified questions for a listing.
type AnswerResolver interface {
	Resolve(s model.ListingSnapshot, questions []model.Question) ([]string, error)
}

// Deps are the collaborators a Controller drives. Pauser may be nil.
type Deps struct {
	Source     SnapshotSource
	Feed       Feed
	Form       ApplicationForm
	Classifier QuestionClassifier
	Resolver   AnswerResolver
	Store      model.RecordStore
	Notifier   model.Notifier
	Pauser     model.Pauser
	Clock      func() time.Time
}

// Options control run-wide behaviour.
type Options struct {
	Method model.Method

	// Diagnostic turns listing failures into session errors and enables operator pauses.
	Diagnostic bool
}

// Controller walks the feed one listing at a time: gather, skip known-failed
// companies, open the form, classify, answer, submit, record, advance.
type Controller struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
}

// NewController wires a controller.
func NewController(deps Deps, opts Options, logger *slog.Logger) *Controller {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Controller{deps: deps, opts: opts, logger: logger}
}

// attempt carries one listing through the states.
type attempt struct {
	snapshot  model.ListingSnapshot
	questions []model.Question
	answers   []string
}

// Run processes listings until the feed is exhausted. It returns an error only
// for session-level failures, context cancellation, or any listing failure in
// diagnostic mode.
func (c *Controller) Run(ctx context.Context, sess *Session) (Summary, error) {
	logger := c.logger.With("session", sess.ID)
	logger.Info("session started", "method", c.opts.Method, "diagnostic", c.opts.Diagnostic)

	state := StateIdle
	var cur attempt
	for state != StateExhausted {
		if err := ctx.Err(); err != nil {
			return sess.summary(), err
		}

		next, err := c.step(ctx, logger, sess, state, &cur)
		if err != nil {
			if !state.listingScoped() || c.opts.Diagnostic || ctx.Err() != nil || errors.Is(err, model.ErrOperatorAbort) {
				return sess.summary(), fmt.Errorf("%s: %w", state, err)
			}
			sess.markFailed(cur.snapshot.CompanyTitle)
			logger.Warn("failed to apply, continuing with next listing",
				"listing", cur.snapshot.String(),
				"state", state.String(),
				"error", err,
			)
			next = StateAdvancing
		}
		logger.Debug("transition", "from", state.String(), "to", next.String())
		state = next
	}

	summary := sess.summary()
	c.finish(ctx, logger, sess)
	return summary, nil
}

func (c *Controller) step(ctx context.Context, logger *slog.Logger, sess *Session, state State, cur *attempt) (State, error) {
	switch state {
	case StateIdle:
		if err := c.deps.Feed.Restart(ctx); err != nil {
			return state, err
		}
		return StateGathering, nil

	case StateGathering:
		*cur = attempt{snapshot: c.deps.Source.Snapshot(ctx)}
		if !cur.snapshot.Complete() {
			logger.Info("no further listings")
			return StateExhausted, nil
		}
		if sess.HasFailed(cur.snapshot.CompanyTitle) {
			return StateSkipped, nil
		}
		return StateNavigating, nil

	case StateSkipped:
		logger.Warn("company failed earlier in this session, skipping", "company", cur.snapshot.CompanyTitle)
		sess.skipped++
		if err := c.deps.Feed.Next(ctx); err != nil {
			return state, err
		}
		return StateGathering, nil

	case StateNavigating:
		if err := c.pause(ctx, fmt.Sprintf("at listing page for %s", cur.snapshot)); err != nil {
			return state, err
		}
		if err := c.deps.Form.Open(ctx); err != nil {
			return state, err
		}
		return StateClassifying, nil

	case StateClassifying:
		prompts := c.deps.Form.Prompts(ctx)
		cur.questions = make([]model.Question, len(prompts))
		for i, p := range prompts {
			cur.questions[i] = c.deps.Classifier.Classify(p)
		}
		logger.Debug("questions classified", "listing", cur.snapshot.String(), "questions", cur.questions)
		return StateAnswering, nil

	case StateAnswering:
		answers, err := c.deps.Resolver.Resolve(cur.snapshot, cur.questions)
		if err != nil {
			return state, err
		}
		cur.answers = answers
		return StateSubmitting, nil

	case StateSubmitting:
		if err := c.pause(ctx, fmt.Sprintf("at application page for %s", cur.snapshot)); err != nil {
			return state, err
		}
		if err := c.fill(ctx, logger, cur); err != nil {
			return state, err
		}
		if err := c.deps.Form.Submit(ctx); err != nil {
			return state, err
		}
		return StateRecording, nil

	case StateRecording:
		record := model.NewApplicationRecord(cur.snapshot, c.opts.Method, c.deps.Clock())
		if err := c.deps.Store.Append(ctx, record); err != nil {
			if c.opts.Diagnostic {
				return state, err
			}
			logger.Error("application sent but not recorded", "listing", cur.snapshot.String(), "error", err)
		}
		sess.record(record)
		logger.Info("applied", "job_title", record.JobTitle, "company", record.CompanyTitle)
		return StateAdvancing, nil

	case StateAdvancing:
		if err := c.deps.Feed.Restart(ctx); err != nil {
			return state, err
		}
		return StateGathering, nil
	}
	return state, fmt.Errorf("unexpected state %s", state)
}

// fill answers each question by position. Only free-text inputs with a known
// answer policy are filled; the rest are left for the form's defaults.
func (c *Controller) fill(ctx context.Context, logger *slog.Logger, cur *attempt) error {
	for i, q := range cur.questions {
		if q.Kind != model.InputFreeText {
			logger.Info("input kind not supported, leaving unanswered", "question", i+1, "kind", q.Kind.String())
			continue
		}
		if !answer.Supported(q.Intent) {
			logger.Info("no answer policy, leaving unanswered", "question", i+1, "intent", q.Intent.String())
			continue
		}
		if err := c.deps.Form.FillText(ctx, i, cur.answers[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) finish(ctx context.Context, logger *slog.Logger, sess *Session) {
	if sess.Submitted() == 0 {
		logger.Warn("no job applications made, there may be an error or new listings may have run out")
		if err := c.pause(ctx, "no applications made this session"); err != nil {
			logger.Debug("pause ended", "error", err)
		}
		return
	}

	logger.Info("session complete", "applications", sess.Submitted(), "skipped", sess.skipped, "failed_companies", len(sess.failed))
	if c.deps.Notifier == nil {
		return
	}
	if err := c.deps.Notifier.Notify(sess.Records()); err != nil {
		logger.Error("session notification failed", "error", err)
	}
}

func (c *Controller) pause(ctx context.Context, reason string) error {
	if !c.opts.Diagnostic || c.deps.Pauser == nil {
		return nil
	}
	return c.deps.Pauser.Pause(ctx, reason)
}
