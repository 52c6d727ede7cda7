// Package errs defines the sentinel errors returned by wordwire packages.
//
// Errors are grouped into four categories. Every specific error wraps exactly one
// category, so callers can branch either on the precise condition or on the
// category with errors.Is:
//
//	if errors.Is(err, errs.ErrLimitExceeded) {
//	    // traversal or nesting budget exhausted
//	}
//
//   - ErrAllocation: a build request cannot be represented in the wire format.
//   - ErrBounds: a pointer in a received message is malformed or points outside
//     its segment.
//   - ErrLimitExceeded: a reader's traversal or nesting budget ran out.
//   - ErrFraming: the byte stream around the segments is inconsistent.
package errs

import (
	"errors"
	"fmt"
)

// Categories.
var (
	ErrAllocation    = errors.New("wordwire: allocation error")
	ErrBounds        = errors.New("wordwire: bounds error")
	ErrLimitExceeded = errors.New("wordwire: read limit exceeded")
	ErrFraming       = errors.New("wordwire: framing error")
)

// ErrInvalidOption is returned when a reader or builder option is out of range.
var ErrInvalidOption = errors.New("wordwire: invalid option")

// Allocation errors.
var (
	// ErrSegmentTooLarge is returned when a single allocation exceeds the largest segment
	// a far pointer can address.
	ErrSegmentTooLarge = fmt.Errorf("%w: allocation exceeds maximum segment size", ErrAllocation)
	// ErrListTooLarge is returned when a list element count does not fit the list pointer.
	ErrListTooLarge = fmt.Errorf("%w: list element count overflows pointer", ErrAllocation)
	// ErrOffsetOverflow is returned when a pointer offset does not fit its field.
	ErrOffsetOverflow = fmt.Errorf("%w: pointer offset overflows field", ErrAllocation)
)

// Bounds errors.
var (
	ErrSegmentNotFound    = fmt.Errorf("%w: segment does not exist", ErrBounds)
	ErrPointerOutOfBounds = fmt.Errorf("%w: pointer target outside segment", ErrBounds)
	ErrPointerKind        = fmt.Errorf("%w: unexpected pointer kind", ErrBounds)
	ErrTextNotTerminated  = fmt.Errorf("%w: text is not NUL-terminated", ErrBounds)
)

// Limit errors.
var (
	ErrTraversalLimit = fmt.Errorf("%w: traversal limit", ErrLimitExceeded)
	ErrNestingLimit   = fmt.Errorf("%w: nesting limit", ErrLimitExceeded)
)

// Framing errors.
var (
	ErrEmptyMessage     = fmt.Errorf("%w: empty message", ErrFraming)
	ErrShortHeader      = fmt.Errorf("%w: short segment table", ErrFraming)
	ErrShortData        = fmt.Errorf("%w: short segment data", ErrFraming)
	ErrTooManySegments  = fmt.Errorf("%w: too many segments", ErrFraming)
	ErrMessageTooLarge  = fmt.Errorf("%w: message exceeds size ceiling", ErrFraming)
	ErrUnalignedInput   = fmt.Errorf("%w: input is not word aligned", ErrFraming)
	ErrTruncatedPacked  = fmt.Errorf("%w: truncated packed stream", ErrFraming)
	ErrInvalidEnvelope  = fmt.Errorf("%w: invalid envelope header", ErrFraming)
	ErrChecksumMismatch = fmt.Errorf("%w: checksum mismatch", ErrFraming)
)
