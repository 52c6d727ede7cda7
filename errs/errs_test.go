package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	tests := []struct {
		err      error
		category error
	}{
		{ErrSegmentTooLarge, ErrAllocation},
		{ErrListTooLarge, ErrAllocation},
		{ErrOffsetOverflow, ErrAllocation},
		{ErrSegmentNotFound, ErrBounds},
		{ErrPointerOutOfBounds, ErrBounds},
		{ErrPointerKind, ErrBounds},
		{ErrTextNotTerminated, ErrBounds},
		{ErrTraversalLimit, ErrLimitExceeded},
		{ErrNestingLimit, ErrLimitExceeded},
		{ErrEmptyMessage, ErrFraming},
		{ErrShortHeader, ErrFraming},
		{ErrShortData, ErrFraming},
		{ErrTooManySegments, ErrFraming},
		{ErrMessageTooLarge, ErrFraming},
		{ErrUnalignedInput, ErrFraming},
		{ErrTruncatedPacked, ErrFraming},
		{ErrInvalidEnvelope, ErrFraming},
		{ErrChecksumMismatch, ErrFraming},
	}

	categories := []error{ErrAllocation, ErrBounds, ErrLimitExceeded, ErrFraming}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("%w: segment 3", tt.err)
			require.ErrorIs(t, wrapped, tt.err)
			require.ErrorIs(t, wrapped, tt.category)

			for _, other := range categories {
				if other == tt.category {
					continue
				}
				require.False(t, errors.Is(wrapped, other), "%v must not match %v", tt.err, other)
			}
		})
	}
}
