package chain

// Handler is a single decision unit in a chain.
//
// Accepts must be free of side effects: it is called for every handler up to
// and including the accepting one. Handle is called at most once per Route,
// and only on the handler that accepted.
type Handler[R, O any] interface {
	Name() string
	Accepts(req R) bool
	Handle(req R) O
}

type funcHandler[R, O any] struct {
	name    string
	accepts func(R) bool
	action  func(R) O
}

// NewHandler adapts a predicate and an action into a Handler.
// A nil predicate never accepts. A nil action returns the zero value of O.
func NewHandler[R, O any](name string, accepts func(R) bool, action func(R) O) Handler[R, O] {
	return &funcHandler[R, O]{
		name:    name,
		accepts: accepts,
		action:  action,
	}
}

func (h *funcHandler[R, O]) Name() string {
	return h.name
}

func (h *funcHandler[R, O]) Accepts(req R) bool {
	if h.accepts == nil {
		return false
	}
	return h.accepts(req)
}

func (h *funcHandler[R, O]) Handle(req R) O {
	var out O
	if h.action == nil {
		return out
	}
	return h.action(req)
}
