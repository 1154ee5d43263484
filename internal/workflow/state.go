package workflow

// State is a step of the per-listing workflow.
type State int

const (
	StateIdle State = iota
	StateGathering
	StateSkipped
	StateNavigating
	StateClassifying
	StateAnswering
	StateSubmitting
	StateRecording
	StateAdvancing
	StateExhausted
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StateGathering:   "gathering",
	StateSkipped:     "skipped-failed-company",
	StateNavigating:  "navigating",
	StateClassifying: "classifying",
	StateAnswering:   "answering",
	StateSubmitting:  "submitting",
	StateRecording:   "recording",
	StateAdvancing:   "advancing",
	StateExhausted:   "exhausted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// listingScoped states fail one listing, not the session.
func (s State) listingScoped() bool {
	switch s {
	case StateNavigating, StateClassifying, StateAnswering, StateSubmitting:
		return true
	}
	return false
}
