package chain

// State is the position of a single routing pass in its lifecycle.
// A Result only ever carries one of the terminal states; StateNotStarted and
// StateEvaluating name the intermediate steps of a pass and are never returned.
type State int

const (
	StateNotStarted State = iota
	StateEvaluating
	StateAccepted  // terminal: a handler accepted and its action ran
	StateExhausted // terminal: every handler declined
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NOT-STARTED"
	case StateEvaluating:
		return "EVALUATING"
	case StateAccepted:
		return "ACCEPTED"
	case StateExhausted:
		return "EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of routing one request.
type Result[O any] struct {
	State State
	// Handler is the accepting handler's name, empty when exhausted.
	Handler string
	// Position is the accepting handler's index, -1 when exhausted.
	Position int
	Output   O
	// Evaluated counts the predicates consulted, including the accepting one.
	Evaluated int
}

// Handled reports whether a handler accepted the request.
func (r Result[O]) Handled() bool {
	return r.State == StateAccepted
}

func unhandled[O any](evaluated int) Result[O] {
	return Result[O]{
		State:     StateExhausted,
		Position:  -1,
		Evaluated: evaluated,
	}
}
