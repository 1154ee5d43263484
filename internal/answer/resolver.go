package answer

import (
	"fmt"

	"github.com/amishk599/autoapply/internal/model"
)

// Canned answers for the fixed-policy intents.
const (
	RightToWork     = "yes"
	NeedSponsorship = "no"
	HowDidYouHear   = "other"
)

// CoverLetterWriter produces a cover letter for a listing.
type CoverLetterWriter interface {
	CoverLetter(s model.ListingSnapshot) (string, error)
}

// Resolver maps classified questions to answer strings.
type Resolver struct {
	letters  CoverLetterWriter
	pronouns string
}

// NewResolver returns a resolver that writes cover letters with letters and
// answers pronoun questions with the configured pronouns.
func NewResolver(letters CoverLetterWriter, pronouns string) *Resolver {
	return &Resolver{letters: letters, pronouns: pronouns}
}

// Resolve returns one answer per question, in order. Salary expectations and
// unrecognised intents are left empty. The cover letter is generated at most
// once per call.
func (r *Resolver) Resolve(s model.ListingSnapshot, questions []model.Question) ([]string, error) {
	answers := make([]string, len(questions))
	var letter *string

	for i, q := range questions {
		switch q.Intent {
		case model.IntentCoverLetter:
			if letter == nil {
				l, err := r.letters.CoverLetter(s)
				if err != nil {
					return nil, fmt.Errorf("cover letter for %s: %w", s, err)
				}
				letter = &l
			}
			answers[i] = *letter
		case model.IntentRightToWork:
			answers[i] = RightToWork
		case model.IntentNeedSponsorship:
			answers[i] = NeedSponsorship
		case model.IntentHowDidYouHear:
			answers[i] = HowDidYouHear
		case model.IntentPronouns:
			answers[i] = r.pronouns
		default:
			answers[i] = ""
		}
	}
	return answers, nil
}

// Supported reports whether the resolver has an answer policy for the intent.
func Supported(intent model.Intent) bool {
	switch intent {
	case model.IntentSalaryExpectation, model.IntentUnknown:
		return false
	}
	return true
}
