package quote

import (
	"context"
	"errors"
)

// Failure reasons for a fetch. Outcome.Err wraps one of these.
var (
	ErrTransport      = errors.New("transport failure")
	ErrSectionMissing = errors.New("metadata section missing")
	ErrFieldMissing   = errors.New("field missing")
)

// State is a step of the per-instrument fetch.
type State int

const (
	Idle State = iota
	RequestSent
	ResponseOK
	SectionFound
	FieldsExtracted
	Populated
	Failed
)

var stateNames = []string{"Idle", "RequestSent", "ResponseOK", "SectionFound", "FieldsExtracted", "Populated", "Failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Populated || s == Failed
}

// Outcome is the result of fetching one instrument in one cycle.
type Outcome struct {
	State         State
	Current       float64
	PreviousClose float64
	Err           error
}

// OK reports whether the fetch reached Populated.
func (o Outcome) OK() bool {
	return o.State == Populated
}

// Populate returns a successful outcome.
func Populate(current, previousClose float64) Outcome {
	return Outcome{State: Populated, Current: current, PreviousClose: previousClose}
}

// Fail returns a failed outcome carrying err.
func Fail(err error) Outcome {
	return Outcome{State: Failed, Err: err}
}

// Source fetches one instrument. Implementations block until the outcome is
// known and never return a non-terminal state.
type Source interface {
	Fetch(ctx context.Context, inst Instrument) Outcome
}
