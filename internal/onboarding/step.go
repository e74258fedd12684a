package onboarding

// Step is one stage of the onboarding sequence. The zero value is Welcome and
// the constants are declared in traversal order.
type Step int

const (
	StepWelcome Step = iota
	StepNickname
	StepName
	StepEmail
	StepPassword
	StepBio
	StepReview
	StepSubmitting
)

// Steps lists every step in order.
var Steps = []Step{
	StepWelcome,
	StepNickname,
	StepName,
	StepEmail,
	StepPassword,
	StepBio,
	StepReview,
	StepSubmitting,
}

func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "welcome"
	case StepNickname:
		return "nickname"
	case StepName:
		return "name"
	case StepEmail:
		return "email"
	case StepPassword:
		return "password"
	case StepBio:
		return "bio"
	case StepReview:
		return "review"
	case StepSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Valid reports whether s is a member of the step enumeration.
func (s Step) Valid() bool {
	return s >= StepWelcome && s <= StepSubmitting
}

// DataEntry reports whether s collects user input, i.e. whether Review can
// send the user back to it.
func (s Step) DataEntry() bool {
	return s >= StepNickname && s <= StepBio
}

// Terminal reports whether s is the final step.
func (s Step) Terminal() bool {
	return s == StepSubmitting
}

// Index returns the 1-based position of a data-entry step among data-entry
// steps, or 0 for other steps.
func (s Step) Index() int {
	if !s.DataEntry() {
		return 0
	}
	return int(s - StepNickname + 1)
}

// DataEntryCount is the number of data-entry steps.
const DataEntryCount = int(StepBio - StepNickname + 1)

func (s Step) next() Step {
	if s >= StepSubmitting {
		return StepSubmitting
	}
	return s + 1
}
