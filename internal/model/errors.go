package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingValue is returned when a required cover-letter value ($company, $title) is empty.
	ErrMissingValue = errors.New("missing required template value")

	// ErrSubmissionUnconfirmed is returned when the page never left the application form.
	ErrSubmissionUnconfirmed = errors.New("submission not confirmed")

	// ErrNoProfile is returned at startup when no browser profile is configured.
	ErrNoProfile = errors.New("browser profile is required to reuse a logged-in session")

	// ErrOperatorAbort is returned when the operator ends the run from a pause prompt.
	ErrOperatorAbort = errors.New("aborted by operator")
)

// ReferenceError reports a @category//key# placeholder with no matching library passage.
type ReferenceError struct {
	Category string
	Key      string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("unknown content reference @%s//%s#", e.Category, e.Key)
}
