package segment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegment_Allocate(t *testing.T) {
	s := New(3, 4)
	require.Equal(t, uint32(3), s.ID())
	require.Equal(t, 0, s.Len())
	require.Equal(t, 4, s.Cap())

	off, ok := s.Allocate(3)
	require.True(t, ok)
	require.Equal(t, 0, off)
	require.Equal(t, 3, s.Len())
	require.Equal(t, 1, s.Available())

	off, ok = s.Allocate(1)
	require.True(t, ok)
	require.Equal(t, 3, off)

	_, ok = s.Allocate(1)
	require.False(t, ok)

	_, ok = s.Allocate(-1)
	require.False(t, ok)
}

func TestSegment_AllocateIsZeroed(t *testing.T) {
	s := New(0, 2)
	off, ok := s.Allocate(1)
	require.True(t, ok)
	s.SetWord(off, 0xdeadbeef)

	// Write into spare capacity behind the length, then allocate over it.
	spare := s.data[:16]
	spare[8] = 0xff

	off, ok = s.Allocate(1)
	require.True(t, ok)
	require.Zero(t, s.Word(off))
	require.Equal(t, uint64(0xdeadbeef), s.Word(0))
}

func TestSegment_NeverMoves(t *testing.T) {
	s := New(0, 8)
	_, _ = s.Allocate(1)
	first := &s.Bytes()[0]

	for range 7 {
		_, ok := s.Allocate(1)
		require.True(t, ok)
	}
	require.Same(t, first, &s.Bytes()[0])
}

func TestSegment_WordAccess(t *testing.T) {
	s := New(0, 2)
	_, _ = s.Allocate(2)
	s.SetWord(1, 0x0102030405060708)

	require.Equal(t, uint64(0x0102030405060708), s.Word(1))
	require.Equal(t, byte(0x08), s.Bytes()[8])
	require.Len(t, s.Slice(1, 1), 8)
	require.Equal(t, []byte{0x08, 0x07, 0x06}, s.ByteSlice(1, 3))
}

func TestSegment_InBounds(t *testing.T) {
	s := Wrap(0, make([]byte, 32))
	require.Equal(t, 4, s.Len())
	require.Equal(t, 0, s.Available())

	require.True(t, s.InBounds(0, 4))
	require.True(t, s.InBounds(4, 0))
	require.True(t, s.InBounds(2, 2))
	require.False(t, s.InBounds(2, 3))
	require.False(t, s.InBounds(-1, 1))
	require.False(t, s.InBounds(1, ^uint64(0)))
	require.False(t, s.InBounds(4, ^uint64(0)-2))
	require.False(t, s.InBounds(5, 0))
	require.False(t, s.InBounds(0, 5))
}
