package frame

// Outcome is how a run ended when it did not fail.
type Outcome int

// Run outcomes.
const (
	OutcomeDisplayed Outcome = iota
	OutcomeDebugReachable
	OutcomeDebugUnreachable
	OutcomeArtModeUnsupported
	OutcomeNoCandidates
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDisplayed:
		return "displayed"
	case OutcomeDebugReachable:
		return "debug: reachable"
	case OutcomeDebugUnreachable:
		return "debug: unreachable"
	case OutcomeArtModeUnsupported:
		return "art mode unsupported"
	case OutcomeNoCandidates:
		return "no candidates"
	}
	return "unknown"
}
