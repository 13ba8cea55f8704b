package colorize

// Phase enumerates the mutually exclusive workflow states. Exactly one is
// active at any time and it alone determines what the result panel shows.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLoading   Phase = "loading"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// FallbackFailureMessage is surfaced when a provider failure carries no
// usable description.
const FallbackFailureMessage = "Failed to colorize image. Please try again."

// Result is the displayable colorized image produced by the provider.
type Result struct {
	URI    string `json:"uri"`
	Format string `json:"format,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// RequestState is a tagged variant: Result is set only while Succeeded and
// ErrorMessage only while Failed.
type RequestState struct {
	Phase        Phase   `json:"phase"`
	Result       *Result `json:"result,omitempty"`
	ErrorMessage string  `json:"error,omitempty"`
}

func idleState() RequestState {
	return RequestState{Phase: PhaseIdle}
}
