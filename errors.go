package multibuffer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariantViolation is wrapped by every InvariantError. The index
	// panics with it: a broken invariant means the tree can no longer be
	// trusted by any later operation.
	ErrInvariantViolation = errors.New("multibuffer: invariant violation")

	// ErrOffsetOutOfRange is wrapped by the panic raised for an offset past
	// the end of a snapshot.
	ErrOffsetOutOfRange = errors.New("multibuffer: offset out of range")
)

// InvariantError describes a failed consistency check.
type InvariantError struct {
	Check  string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvariantViolation, e.Check, e.Detail)
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolation }

func violation(check, format string, args ...any) {
	panic(&InvariantError{Check: check, Detail: fmt.Sprintf(format, args...)})
}

// OffsetError reports an offset that does not fit a snapshot.
type OffsetError struct {
	Offset int
	Len    int
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("offset %d out of range for length %d", e.Offset, e.Len)
}

func (e *OffsetError) Unwrap() error { return ErrOffsetOutOfRange }
