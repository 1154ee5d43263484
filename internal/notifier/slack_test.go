package notifier

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/autoapply/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRecord(title, company string) model.ApplicationRecord {
	salary := "65K"
	return model.ApplicationRecord{
		JobTitle:     title,
		CompanyTitle: company,
		Salary:       &salary,
		AppliedAt:    time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		WebLink:      "https://example.com",
		Method:       model.MethodAuto,
	}
}

func TestSlackNotifier_EmptyRecords(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())

	if err := n.Notify(nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if err := n.Notify([]model.ApplicationRecord{}); err != nil {
		t.Errorf("Notify([]) = %v, want nil", err)
	}
	if c := calls.Load(); c != 0 {
		t.Errorf("expected 0 HTTP calls, got %d", c)
	}
}

func TestSlackNotifier_SingleRecord(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())

	if err := n.Notify([]model.ApplicationRecord{sampleRecord("Backend Engineer", "Acme Corp")}); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	if got := payload.Blocks[0].Text.Text; got != "✅ Applied: Acme Corp: Backend Engineer" {
		t.Errorf("header text = %q", got)
	}
	if got := payload.Blocks[1].Fields[1].Text; got != "*Salary:*\n65K" {
		t.Errorf("salary field = %q", got)
	}
	if got := payload.Blocks[2].Fields[1].Text; got != "*Method:*\notta-auto" {
		t.Errorf("method field = %q", got)
	}
	if got := payload.Blocks[3].Elements[0].URL; got != "https://example.com" {
		t.Errorf("action URL = %q", got)
	}
}

func TestSlackNotifier_MultipleRecords(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	records := []model.ApplicationRecord{
		sampleRecord("Engineer 1", "A"),
		sampleRecord("Engineer 2", "B"),
		sampleRecord("Engineer 3", "C"),
	}

	if err := n.Notify(records); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}
	if c := calls.Load(); c != 3 {
		t.Errorf("expected 3 HTTP calls, got %d", c)
	}
}

func TestSlackNotifier_AllFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	records := []model.ApplicationRecord{
		sampleRecord("A", "X"),
		sampleRecord("B", "Y"),
	}

	if err := n.Notify(records); err == nil {
		t.Error("expected error when all messages fail, got nil")
	}
}

func TestSlackNotifier_PartialFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
		} else {
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	records := []model.ApplicationRecord{
		sampleRecord("Fails", "A"),
		sampleRecord("Succeeds", "B"),
	}

	if err := n.Notify(records); err != nil {
		t.Errorf("expected nil (partial success), got %v", err)
	}
}

func TestSlackNotifier_RateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
		} else {
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify([]model.ApplicationRecord{sampleRecord("Rate Limited Job", "Test")}); err != nil {
		t.Fatalf("expected nil after retry, got %v", err)
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("expected 2 HTTP calls (initial + retry), got %d", c)
	}
}

func TestSlackNotifier_RateLimitedTwiceFails(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify([]model.ApplicationRecord{sampleRecord("Busy", "Test")}); err == nil {
		t.Fatal("expected error when the retry is also rate limited")
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("expected 2 HTTP calls, got %d", c)
	}
}

func TestSlackNotifier_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Notify([]model.ApplicationRecord{sampleRecord("Bad", "Test")}); err == nil {
		t.Fatal("expected error for 400")
	}
	if c := calls.Load(); c != 1 {
		t.Errorf("expected 1 HTTP call, got %d", c)
	}
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"3", 3 * time.Second},
		{"", time.Second},
		{"0", time.Second},
		{"soon", time.Second},
	}
	for _, tt := range tests {
		h := http.Header{}
		h.Set("Retry-After", tt.header)
		if got := retryAfter(h); got != tt.want {
			t.Errorf("retryAfter(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestSlackNotifier_PayloadWithoutSalaryOrLink(t *testing.T) {
	r := model.ApplicationRecord{
		JobTitle:     "SRE",
		CompanyTitle: "TestCo",
		AppliedAt:    time.Now(),
		Method:       model.MethodManual,
	}

	payload := buildPayload(r)

	// header, two sections, divider; no actions without a link
	if len(payload.Blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(payload.Blocks))
	}
	if got := payload.Blocks[1].Fields[1].Text; got != "*Salary:*\nNot listed" {
		t.Errorf("salary field = %q, want 'Not listed' for nil salary", got)
	}
	if payload.Blocks[3].Type != "divider" {
		t.Errorf("block[3] type = %q, want divider", payload.Blocks[3].Type)
	}
}

func TestSendTestMessage(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := SendTestMessage(NewSlackNotifier(srv.URL, srv.Client(), discardLogger())); err != nil {
		t.Fatalf("SendTestMessage() = %v", err)
	}
	if c := calls.Load(); c != 1 {
		t.Errorf("expected 1 HTTP call, got %d", c)
	}
}
