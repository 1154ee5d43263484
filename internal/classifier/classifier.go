package classifier

import (
	"log/slog"
	"strings"

	"github.com/amishk599/autoapply/internal/model"
)

// clueSet lists the substrings that suggest an intent. Order matters: on equal
// hit counts the earlier intent wins.
type clueSet struct {
	intent model.Intent
	clues  []string
}

var defaultClues = []clueSet{
	{model.IntentCoverLetter, []string{"why do you want to work"}},
	{model.IntentRightToWork, []string{"right to work", "do have", "do you have", "citizenship", "confirm the right", "confirm you are", "legally authorised"}},
	{model.IntentNeedSponsorship, []string{"will you need", "sponsor", "sponsorship", "immigration"}},
	{model.IntentPronouns, []string{"preferred name", "pronouns"}},
	{model.IntentHowDidYouHear, []string{"how did you hear"}},
	{model.IntentSalaryExpectation, []string{"salary", "expectations", "expectation"}},
}

// Classifier turns raw question text into a model.Question.
// It is stateless apart from its logger and safe to reuse.
type Classifier struct {
	clues  []clueSet
	logger *slog.Logger
}

// New returns a classifier using the built-in clue table.
func New(logger *slog.Logger) *Classifier {
	return &Classifier{clues: defaultClues, logger: logger}
}

// Classify infers the input kind from the instruction line and the intent from the whole text.
func (c *Classifier) Classify(text string) model.Question {
	return model.Question{
		Kind:   c.InputKind(text),
		Intent: c.Intent(text),
	}
}

// InputKind looks only at the last line, where the form renders its instructions.
func (c *Classifier) InputKind(text string) model.InputKind {
	lines := strings.Split(text, "\n")
	last := strings.ToLower(lines[len(lines)-1])

	switch {
	case strings.Contains(last, "choose an option"):
		return model.InputSingleSelect
	case strings.Contains(last, "check all"):
		return model.InputMultiSelect
	case strings.Contains(last, "type your answer"):
		return model.InputFreeText
	}
	c.logger.Warn("could not identify input kind for question", "question", text)
	return model.InputUnknown
}

// Intent picks the intent with the most clue hits. A later intent replaces the
// leader only with a strictly greater count.
func (c *Classifier) Intent(text string) model.Intent {
	lower := strings.ToLower(text)

	best := model.IntentUnknown
	threshold := 0
	for _, set := range c.clues {
		hits := 0
		for _, clue := range set.clues {
			if strings.Contains(lower, clue) {
				hits++
			}
		}
		if hits > threshold {
			threshold = hits
			best = set.intent
		}
	}

	if threshold == 0 {
		c.logger.Warn("could not identify intent for question", "question", text)
	}
	return best
}
