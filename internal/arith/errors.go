package arith

import (
	"errors"
	"fmt"
)

var (
	// ErrNotExact indicates that a divisor does not evenly divide the dividend.
	ErrNotExact = errors.New("dividend is not a multiple of divisor")
	// ErrDomain indicates an argument outside the domain of a routine.
	ErrDomain = errors.New("argument outside routine domain")
	// ErrNoSolution indicates that a linear equation has no integer solution.
	ErrNoSolution = errors.New("linear equation has no integer solution")
	// ErrPrecondition indicates a violated routine precondition or a broken
	// internal identity. It is never recovered from.
	ErrPrecondition = errors.New("precondition violated")
	// ErrNotInvertible indicates that an element has no modular inverse.
	ErrNotInvertible = fmt.Errorf("%w: element is not invertible", ErrPrecondition)
)

// InvariantError is the panic value used when an identity that must hold by
// construction is found to be false. Seeing one means an arithmetic bug.
type InvariantError struct {
	Routine string
	Detail  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: invariant violated: %s", e.Routine, e.Detail)
}

// Unwrap lets errors.Is match ErrPrecondition on recovered panics.
func (e *InvariantError) Unwrap() error { return ErrPrecondition }
