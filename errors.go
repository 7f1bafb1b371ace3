package memstr

import (
	"errors"
	"fmt"
)

var (
	// ErrOverlap is returned when a copy that requires disjoint regions
	// is given overlapping ones. Use Move for overlapping regions.
	ErrOverlap = errors.New("regions overlap")

	// ErrNegativeCount is returned when a signed byte count is negative.
	ErrNegativeCount = errors.New("negative byte count")

	// ErrInvalidSize is returned when a space cannot be created with the
	// requested size or base address.
	ErrInvalidSize = errors.New("invalid space size")
)

// ErrOutOfBounds indicates that an operation would touch bytes outside
// the space.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrOutOfBounds struct {
	Op    string
	Addr  Addr
	Len   uint64
	cause error
}

func (e *ErrOutOfBounds) Error() string {
	return fmt.Sprintf("%s: range [%#x, %#x) out of bounds", e.Op, uint64(e.Addr), uint64(e.Addr)+e.Len)
}

func (e *ErrOutOfBounds) Unwrap() error { return e.cause }

// ErrUnterminated indicates that a string has no terminator before the
// end of the space.
type ErrUnterminated struct {
	Op   string
	Addr Addr
}

func (e *ErrUnterminated) Error() string {
	return fmt.Sprintf("%s: string at %#x is not terminated", e.Op, uint64(e.Addr))
}

func overlapError(op string, dst, src Addr) error {
	return fmt.Errorf("%s: dst %#x, src %#x: %w", op, uint64(dst), uint64(src), ErrOverlap)
}
