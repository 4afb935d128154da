package chain

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration  = errors.New("chain configuration error")
	ErrEmptyChain     = errors.New("chain has no handlers")
	ErrNilHandler     = errors.New("handler is nil")
	ErrUnnamedHandler = errors.New("handler has no name")
	ErrDuplicate      = errors.New("duplicate handler")
	ErrChainSealed    = errors.New("chain is sealed after first use")
)

// ConfigurationError reports a chain that cannot be built or extended.
// It matches ErrConfiguration and its underlying cause with errors.Is.
type ConfigurationError struct {
	Position int
	Handler  string
	Err      error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Handler != "":
		return fmt.Sprintf("%s: handler %q at position %d: %v", ErrConfiguration, e.Handler, e.Position, e.Err)
	case e.Position >= 0:
		return fmt.Sprintf("%s: position %d: %v", ErrConfiguration, e.Position, e.Err)
	default:
		return fmt.Sprintf("%s: %v", ErrConfiguration, e.Err)
	}
}

func (e *ConfigurationError) Unwrap() []error {
	return []error{ErrConfiguration, e.Err}
}

func configErr(pos int, name string, err error) error {
	return &ConfigurationError{Position: pos, Handler: name, Err: err}
}
