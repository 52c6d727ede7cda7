package message

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// seg encodes words as little-endian segment bytes.
func seg(words ...uint64) []byte {
	out := make([]byte, 0, len(words)*8)
	for _, w := range words {
		out = binary.LittleEndian.AppendUint64(out, w)
	}

	return out
}

// must unwraps a pointer encoding result.
func must(t *testing.T) func(uint64, error) uint64 {
	t.Helper()

	return func(w uint64, err error) uint64 {
		require.NoError(t, err)
		return w
	}
}

func newBuilder(t *testing.T, opts ...BuilderOption) *Builder {
	t.Helper()
	b, err := NewBuilder(opts...)
	require.NoError(t, err)

	return b
}

func readBack(t *testing.T, b *Builder, opts ...ReaderOption) StructReader {
	t.Helper()
	r, err := b.Reader(opts...)
	require.NoError(t, err)
	root, err := r.Root()
	require.NoError(t, err)

	return root
}

func binaryWord(b []byte, i int) uint64 {
	return binary.LittleEndian.Uint64(b[i*8:])
}
