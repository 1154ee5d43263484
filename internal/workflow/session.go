package workflow

import "github.com/amishk599/autoapply/internal/model"

// Session is the state of one run from feed start to exhaustion. It is owned by
// a single Controller and never shared.
type Session struct {
	ID      string
	records []model.ApplicationRecord
	failed  map[string]struct{}
	skipped int
}

// NewSession starts an empty session.
func NewSession(id string) *Session {
	return &Session{ID: id, failed: make(map[string]struct{})}
}

// Submitted is the number of applications sent this session.
func (s *Session) Submitted() int { return len(s.records) }

// Records returns the applications sent this session, oldest first.
func (s *Session) Records() []model.ApplicationRecord { return s.records }

// HasFailed reports whether an application to company already failed this session.
func (s *Session) HasFailed(company string) bool {
	_, ok := s.failed[company]
	return ok
}

func (s *Session) markFailed(company string) { s.failed[company] = struct{}{} }

func (s *Session) record(r model.ApplicationRecord) { s.records = append(s.records, r) }

// Summary is the end-of-run report.
type Summary struct {
	SessionID       string
	Submitted       int
	Skipped         int
	FailedCompanies int
}

func (s *Session) summary() Summary {
	return Summary{
		SessionID:       s.ID,
		Submitted:       len(s.records),
		Skipped:         s.skipped,
		FailedCompanies: len(s.failed),
	}
}
