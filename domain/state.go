package domain

import "time"

// Phase is the position of the quote workflow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseQuoted
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseQuoted:
		return "quoted"
	default:
		return "idle"
	}
}

// EngineState is the observable state of a LoanCalculatorEngine.
// LoanTerm is expressed in years. An empty LastError means no error.
type EngineState struct {
	LoanAmount    float64
	LoanTerm      float64
	HasQuoted     bool
	IsSubmitting  bool
	LastError     string
	LastErrorKind ErrorKind
	LastResult    *QuoteResult
}

// Phase derives the workflow phase from the state flags.
func (s EngineState) Phase() Phase {
	switch {
	case s.IsSubmitting:
		return PhaseSubmitting
	case s.HasQuoted:
		return PhaseQuoted
	default:
		return PhaseIdle
	}
}

// Snapshot is the persisted form of an EngineState.
type Snapshot struct {
	LoanAmount float64   `json:"loanAmount"`
	LoanTerm   float64   `json:"loanTerm"`
	HasQuoted  bool      `json:"hasQuoted"`
	SavedAt    time.Time `json:"savedAt"`
}
