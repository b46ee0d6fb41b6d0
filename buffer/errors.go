package buffer

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is wrapped by every RangeError.
var ErrOutOfRange = errors.New("buffer: position out of range")

// RangeError describes a position or range that does not fit a snapshot.
// Buffers panic with a *RangeError since it means the caller holds a stale
// position.
type RangeError struct {
	Op    string
	Start int
	End   int
	Len   int
}

func (e *RangeError) Error() string {
	if e.Start == e.End {
		return fmt.Sprintf("%s: offset %d out of range for length %d", e.Op, e.Start, e.Len)
	}
	return fmt.Sprintf("%s: range [%d,%d) out of range for length %d", e.Op, e.Start, e.End, e.Len)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

func checkRange(op string, r Range, n int) {
	if r.Start < 0 || r.End > n || r.Start > r.End {
		panic(&RangeError{Op: op, Start: r.Start, End: r.End, Len: n})
	}
}
