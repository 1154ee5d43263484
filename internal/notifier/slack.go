package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/autoapply/internal/model"
	"github.com/amishk599/autoapply/internal/ratelimit"
	"github.com/amishk599/autoapply/internal/retry"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// slackSpacing keeps consecutive webhook posts under Slack's one message per
// second guidance.
const slackSpacing = 500 * time.Millisecond

// SlackNotifier posts submitted applications to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	pacer      *ratelimit.Pacer
	policy     retry.Policy
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts each application to Slack via webhook.
// A 429 is retried once after the server's Retry-After.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		pacer:      ratelimit.NewPacer(slackSpacing),
		policy:     retry.Policy{MaxRetries: 1, BaseDelay: time.Second},
		logger:     logger,
	}
}

// Notify posts one Block Kit message per record. Failed records are logged;
// the error is non-nil only when none were delivered.
func (s *SlackNotifier) Notify(records []model.ApplicationRecord) error {
	ctx := context.Background()
	var failed []string
	for _, r := range records {
		err := s.pacer.Wait(ctx, "slack post")
		if err == nil {
			err = s.post(ctx, r)
		}
		if err != nil {
			s.logger.Error("slack notification failed", "company", r.CompanyTitle, "title", r.JobTitle, "error", err)
			failed = append(failed, r.CompanyTitle)
			continue
		}
		s.logger.Info("slack message sent", "company", r.CompanyTitle, "title", r.JobTitle)
	}

	if len(records) > 0 && len(failed) == len(records) {
		return fmt.Errorf("all %d slack notifications failed", len(failed))
	}
	if len(records) > 0 {
		s.logger.Info("slack notifications complete", "sent", len(records)-len(failed), "failed", len(failed))
	}
	return nil
}

func (s *SlackNotifier) post(ctx context.Context, r model.ApplicationRecord) error {
	body, err := json.Marshal(buildPayload(r))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	return retry.Do(ctx, s.policy, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(fmt.Errorf("build slack request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("post to slack: %w", err)
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		switch {
		case resp.StatusCode == http.StatusOK:
			return nil
		case resp.StatusCode == http.StatusTooManyRequests:
			return retry.After(fmt.Errorf("slack returned %d", resp.StatusCode), retryAfter(resp.Header))
		default:
			return retry.Permanent(fmt.Errorf("slack returned %d", resp.StatusCode))
		}
	}, func(attempt int, delay time.Duration, err error) {
		s.logger.Warn("slack rate limited, retrying", "company", r.CompanyTitle, "attempt", attempt, "delay", delay, "error", err)
	})
}

// retryAfter reads the Retry-After seconds header, defaulting to one second.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url,omitempty"`
	Style string    `json:"style,omitempty"`
}

// SendTestMessage sends a dummy application notification to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	salary := "0K"
	test := model.ApplicationRecord{
		JobTitle:     "Test Notification, Integration Verified",
		CompanyTitle: "Autoapply Test",
		Salary:       &salary,
		AppliedAt:    time.Now(),
		WebLink:      "https://app.otta.com/jobs",
		Method:       model.MethodManual,
	}
	return n.Notify([]model.ApplicationRecord{test})
}

func buildPayload(r model.ApplicationRecord) slackPayload {
	salary := "Not listed"
	if r.Salary != nil {
		salary = *r.Salary
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "✅ Applied: " + r.CompanyTitle + ": " + r.JobTitle},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Company:*\n" + r.CompanyTitle},
				{Type: "mrkdwn", Text: "*Salary:*\n" + salary},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Applied:*\n" + r.AppliedAt.Format(time.RFC1123)},
				{Type: "mrkdwn", Text: "*Method:*\n" + string(r.Method)},
			},
		},
	}

	if r.WebLink != "" {
		blocks = append(blocks, slackBlock{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "Company Site"},
					URL:   r.WebLink,
					Style: "primary",
				},
			},
		})
	}
	blocks = append(blocks, slackBlock{Type: "divider"})

	return slackPayload{Blocks: blocks}
}
