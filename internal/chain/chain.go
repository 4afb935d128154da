package chain

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Chain is an ordered, position-indexed sequence of handlers.
type Chain[R, O any] struct {
	mutex    sync.Mutex
	sealed   atomic.Bool
	handlers []Handler[R, O]
	names    map[string]int
}

// Build constructs a chain from handlers in the given order.
// It fails with a *ConfigurationError when handlers is empty, when a handler
// is nil or unnamed, or when two handlers share a name.
func Build[R, O any](handlers ...Handler[R, O]) (*Chain[R, O], error) {
	if len(handlers) == 0 {
		return nil, configErr(-1, "", ErrEmptyChain)
	}

	c := &Chain[R, O]{
		handlers: make([]Handler[R, O], 0, len(handlers)),
		names:    make(map[string]int, len(handlers)),
	}

	for _, h := range handlers {
		if err := c.add(h); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Append adds a handler at the end of the chain. It is only allowed before
// the chain has routed its first request.
func (c *Chain[R, O]) Append(h Handler[R, O]) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.sealed.Load() {
		return configErr(len(c.handlers), handlerName(h), ErrChainSealed)
	}

	return c.add(h)
}

// add must be called with the mutex held or before the chain is shared.
func (c *Chain[R, O]) add(h Handler[R, O]) error {
	pos := len(c.handlers)

	if isNil(h) {
		return configErr(pos, "", ErrNilHandler)
	}

	name := h.Name()
	if name == "" {
		return configErr(pos, "", ErrUnnamedHandler)
	}

	if _, exists := c.names[name]; exists {
		return configErr(pos, name, ErrDuplicate)
	}

	c.names[name] = pos
	c.handlers = append(c.handlers, h)
	return nil
}

// Route evaluates req against the handlers in order and runs the action of
// the first one that accepts. Handlers after the accepting one are never
// consulted. When no handler accepts, the result is in StateExhausted.
func (c *Chain[R, O]) Route(req R) Result[O] {
	c.seal()

	for i, h := range c.handlers {
		if !h.Accepts(req) {
			continue
		}

		return Result[O]{
			State:     StateAccepted,
			Handler:   h.Name(),
			Position:  i,
			Output:    h.Handle(req),
			Evaluated: i + 1,
		}
	}

	return unhandled[O](len(c.handlers))
}

func (c *Chain[R, O]) seal() {
	if c.sealed.Load() {
		return
	}

	c.mutex.Lock()
	c.sealed.Store(true)
	c.mutex.Unlock()
}

// Handlers returns the handler names in routing order.
func (c *Chain[R, O]) Handlers() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	names := make([]string, len(c.handlers))
	for i, h := range c.handlers {
		names[i] = h.Name()
	}
	return names
}

// Len returns the number of handlers in the chain.
func (c *Chain[R, O]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.handlers)
}

// Sealed reports whether the chain has routed a request and can no longer
// be extended.
func (c *Chain[R, O]) Sealed() bool {
	return c.sealed.Load()
}

// isNil also catches an interface holding a typed nil pointer, map, slice,
// func or chan.
func isNil[R, O any](h Handler[R, O]) bool {
	if h == nil {
		return true
	}

	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

func handlerName[R, O any](h Handler[R, O]) string {
	if isNil(h) {
		return ""
	}
	return h.Name()
}
