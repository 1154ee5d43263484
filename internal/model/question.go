package model

import "fmt"

// InputKind is the form control a question expects its answer through.
type InputKind int

const (
	InputUnknown InputKind = iota
	InputFreeText
	InputMultiSelect
	InputSingleSelect
)

func (k InputKind) String() string {
	switch k {
	case InputFreeText:
		return "free-text"
	case InputMultiSelect:
		return "multi-select"
	case InputSingleSelect:
		return "single-select"
	default:
		return "unknown"
	}
}

// Intent is the semantic category of a form question.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentCoverLetter
	IntentRightToWork
	IntentNeedSponsorship
	IntentHowDidYouHear
	IntentPronouns
	IntentSalaryExpectation
)

func (i Intent) String() string {
	switch i {
	case IntentCoverLetter:
		return "cover-letter"
	case IntentRightToWork:
		return "affirm-right-to-work"
	case IntentNeedSponsorship:
		return "need-sponsorship"
	case IntentHowDidYouHear:
		return "how-did-you-hear"
	case IntentPronouns:
		return "pronouns"
	case IntentSalaryExpectation:
		return "salary-expectation"
	default:
		return "unknown"
	}
}

// Question is what a form prompt asks for (Intent) and how to enter it (Kind).
type Question struct {
	Kind   InputKind
	Intent Intent
}

func (q Question) String() string {
	return fmt.Sprintf("(input: %s, intent: %s)", q.Kind, q.Intent)
}
