package model

import (
	"context"
	"time"
)

// Method tags how an application was submitted.
type Method string

const (
	MethodAuto   Method = "otta-auto"
	MethodManual Method = "otta-manual"
)

// ApplicationRecord is one successfully submitted application.
type ApplicationRecord struct {
	JobTitle     string
	CompanyTitle string
	Salary       *string // e.g. "65K", nil when the listing shows no salary
	AppliedAt    time.Time
	WebLink      string
	Method       Method
}

// NewApplicationRecord builds the record for a listing submitted at the given time.
func NewApplicationRecord(s ListingSnapshot, method Method, at time.Time) ApplicationRecord {
	r := ApplicationRecord{
		JobTitle:     s.JobTitle,
		CompanyTitle: s.CompanyTitle,
		AppliedAt:    at,
		WebLink:      s.WebLink,
		Method:       method,
	}
	if s.Salary != "" {
		salary := s.Salary + "K"
		r.Salary = &salary
	}
	return r
}

// RecordStore persists submitted applications. Append-only.
type RecordStore interface {
	Append(ctx context.Context, r ApplicationRecord) error
}

// Notifier announces the applications submitted in a session.
type Notifier interface {
	Notify(records []ApplicationRecord) error
}
