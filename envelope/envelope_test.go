package envelope

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/wordwire/compress"
	"github.com/arloliu/wordwire/errs"
	"github.com/arloliu/wordwire/format"
	"github.com/arloliu/wordwire/message"
	"github.com/arloliu/wordwire/section"
)

var entryLayout = message.StructLayout{DataWords: 1, PointerCount: 1}

// book builds a root with a list of n named entries.
func book(t *testing.T, n int) *message.Builder {
	t.Helper()

	b, err := message.NewBuilder()
	require.NoError(t, err)
	root, err := b.InitRoot(message.StructLayout{PointerCount: 1})
	require.NoError(t, err)
	entries, err := root.NewCompositeList(0, entryLayout, n)
	require.NoError(t, err)
	for i := range n {
		e := entries.Struct(i)
		e.SetUint64(0, uint64(i))
		require.NoError(t, e.SetText(0, fmt.Sprintf("entry-%04d", i)))
	}

	return b
}

func requireBook(t *testing.T, r *message.Reader, n int) {
	t.Helper()

	root, err := r.Root()
	require.NoError(t, err)
	entries, err := root.List(0)
	require.NoError(t, err)
	require.Equal(t, n, entries.Len())
	for i, e := range entries.Structs() {
		require.Equal(t, uint64(i), e.Uint64(0))
		name, err := e.Text(0)
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("entry-%04d", i), name)
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	b := book(t, 200)

	for _, ct := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		for _, isPacked := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/packed=%v", ct, isPacked), func(t *testing.T) {
				sealed, err := Seal(b, WithCompression(ct), WithPacking(isPacked))
				require.NoError(t, err)

				header, err := section.ParseEnvelopeHeader(sealed)
				require.NoError(t, err)
				require.Equal(t, ct, header.Compression)
				require.Equal(t, isPacked, header.IsPacked())

				r, err := Open(sealed)
				require.NoError(t, err)
				requireBook(t, r, 200)
			})
		}
	}
}

func TestSeal_Defaults(t *testing.T) {
	sealed, err := Seal(book(t, 3))
	require.NoError(t, err)

	header, err := section.ParseEnvelopeHeader(sealed)
	require.NoError(t, err)
	require.True(t, header.IsPacked())
	require.Equal(t, format.CompressionNone, header.Compression)
	require.Equal(t, int(header.Length), len(sealed)-section.EnvelopeHeaderSize)
}

func TestSeal_InvalidOption(t *testing.T) {
	_, err := Seal(book(t, 1), WithCompression(format.CompressionType(0x7f)))
	require.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestOpen_ChecksumMismatch(t *testing.T) {
	sealed, err := Seal(book(t, 10), WithPacking(false))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0x01
	_, err = Open(sealed)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	require.ErrorIs(t, err, errs.ErrFraming)
}

func TestOpen_Errors(t *testing.T) {
	sealed, err := Seal(book(t, 10), WithCompression(format.CompressionS2))
	require.NoError(t, err)

	t.Run("short header", func(t *testing.T) {
		_, err := Open(sealed[:10])
		require.ErrorIs(t, err, errs.ErrInvalidEnvelope)
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte{}, sealed...)
		bad[0] = 0
		_, err := Open(bad)
		require.ErrorIs(t, err, errs.ErrInvalidEnvelope)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, err := Open(sealed[:len(sealed)-4])
		require.ErrorIs(t, err, errs.ErrInvalidEnvelope)
	})

	t.Run("stream over ceiling", func(t *testing.T) {
		_, err := Open(sealed, message.WithMaxMessageWords(4), message.WithMaxSegments(1))
		require.ErrorIs(t, err, errs.ErrMessageTooLarge)
	})

	t.Run("invalid option", func(t *testing.T) {
		_, err := Open(sealed, message.WithTraversalLimit(0))
		require.ErrorIs(t, err, errs.ErrInvalidOption)
	})
}

func TestOpen_PayloadLargerThanDeclared(t *testing.T) {
	stream, err := Seal(book(t, 1), WithPacking(false))
	require.NoError(t, err)
	declared := len(stream) - section.EnvelopeHeaderSize

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2} {
		t.Run(ct.String(), func(t *testing.T) {
			payload, _, err := compress.Compress(ct, make([]byte, 64<<20))
			require.NoError(t, err)

			h := section.NewEnvelopeHeader(ct, false)
			h.Length = uint32(declared)
			h.Checksum = 0x1234
			bomb := append(h.Bytes(), payload...)

			_, err = Open(bomb)
			require.ErrorIs(t, err, errs.ErrInvalidEnvelope)
			require.ErrorIs(t, err, compress.ErrSizeMismatch)
		})
	}
}

func TestOpen_ZeroCopyWhenPlain(t *testing.T) {
	sealed, err := Seal(book(t, 1), WithPacking(false))
	require.NoError(t, err)

	r, err := Open(sealed)
	require.NoError(t, err)
	seg0 := r.Segments()[0]
	// segment table of one segment is one word
	require.Same(t, &sealed[section.EnvelopeHeaderSize+8], &seg0[0])
}

func TestStreamLimit(t *testing.T) {
	o := message.DefaultReaderOptions()
	plain := StreamLimit(o, false)
	require.Equal(t, o.TraversalLimitWords*8+uint64(section.StreamHeaderSize(o.MaxSegments)), plain)
	require.Greater(t, StreamLimit(o, true), plain)
}
