package packed

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/wordwire/errs"
)

var packingCases = []struct {
	name     string
	unpacked []byte
	packed   []byte
}{
	{"empty", []byte{}, []byte{}},
	{"zero word", make([]byte, 8), []byte{0, 0}},
	{"two zero words", make([]byte, 16), []byte{0, 1}},
	{"sparse word", []byte{0, 0, 12, 0, 0, 34, 0, 0}, []byte{0x24, 12, 34}},
	{"dense word", []byte{1, 3, 2, 4, 5, 7, 6, 8}, []byte{0xff, 1, 3, 2, 4, 5, 7, 6, 8, 0}},
	{
		"zero then dense",
		[]byte{0, 0, 0, 0, 0, 0, 0, 0, 1, 3, 2, 4, 5, 7, 6, 8},
		[]byte{0, 0, 0xff, 1, 3, 2, 4, 5, 7, 6, 8, 0},
	},
	{
		"sparse then dense",
		[]byte{0, 0, 12, 0, 0, 34, 0, 0, 1, 3, 2, 4, 5, 7, 6, 8},
		[]byte{0x24, 12, 34, 0xff, 1, 3, 2, 4, 5, 7, 6, 8, 0},
	},
	{
		"dense run",
		[]byte{1, 3, 2, 4, 5, 7, 6, 8, 8, 6, 7, 4, 5, 2, 3, 1},
		[]byte{0xff, 1, 3, 2, 4, 5, 7, 6, 8, 1, 8, 6, 7, 4, 5, 2, 3, 1},
	},
	{
		"run ends at word with several zeros",
		[]byte{
			1, 2, 3, 4, 5, 6, 7, 8,
			1, 2, 3, 4, 5, 6, 7, 8,
			1, 2, 3, 4, 5, 6, 7, 8,
			1, 2, 3, 4, 5, 6, 7, 8,
			0, 2, 4, 0, 9, 0, 5, 1,
		},
		[]byte{
			0xff, 1, 2, 3, 4, 5, 6, 7, 8,
			3,
			1, 2, 3, 4, 5, 6, 7, 8,
			1, 2, 3, 4, 5, 6, 7, 8,
			1, 2, 3, 4, 5, 6, 7, 8,
			0xd6, 2, 4, 9, 5, 1,
		},
	},
	{
		"run absorbs word with one zero",
		[]byte{
			1, 2, 3, 4, 5, 6, 7, 8,
			1, 2, 3, 4, 5, 6, 7, 8,
			6, 2, 4, 3, 9, 0, 5, 1,
			1, 2, 3, 4, 5, 6, 7, 8,
			0, 2, 4, 0, 9, 0, 5, 1,
		},
		[]byte{
			0xff, 1, 2, 3, 4, 5, 6, 7, 8,
			3,
			1, 2, 3, 4, 5, 6, 7, 8,
			6, 2, 4, 3, 9, 0, 5, 1,
			1, 2, 3, 4, 5, 6, 7, 8,
			0xd6, 2, 4, 9, 5, 1,
		},
	},
	{
		"zero run between sparse words",
		[]byte{
			8, 0, 100, 6, 0, 1, 1, 2,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 1, 0, 2, 0, 3, 1,
		},
		[]byte{0xed, 8, 100, 6, 1, 1, 2, 0, 2, 0xd4, 1, 2, 3, 1},
	},
}

func TestPack(t *testing.T) {
	for _, tt := range packingCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Pack(nil, tt.unpacked)
			require.NoError(t, err)
			require.Equal(t, tt.packed, append([]byte{}, got...))
			require.LessOrEqual(t, len(got), MaxPackedSize(len(tt.unpacked)))
		})
	}
}

func TestUnpack(t *testing.T) {
	for _, tt := range packingCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unpack(nil, tt.packed)
			require.NoError(t, err)
			require.Equal(t, tt.unpacked, append([]byte{}, got...))
		})
	}
}

func TestPack_AppendsToDst(t *testing.T) {
	dst := []byte{0xaa}
	got, err := Pack(dst, []byte{0, 0, 12, 0, 0, 34, 0, 0})
	require.NoError(t, err)
	require.Equal(t, []byte{0xaa, 0x24, 12, 34}, got)
}

func TestPack_Unaligned(t *testing.T) {
	_, err := Pack(nil, []byte{1, 2, 3})
	require.ErrorIs(t, err, errs.ErrUnalignedInput)
	require.ErrorIs(t, err, errs.ErrFraming)
}

func TestPack_LongRuns(t *testing.T) {
	t.Run("zero run splits at 256 words", func(t *testing.T) {
		got, err := Pack(nil, make([]byte, 300*8))
		require.NoError(t, err)
		require.Equal(t, []byte{0, 255, 0, 43}, got)
	})

	t.Run("verbatim run splits at 256 words", func(t *testing.T) {
		src := bytes.Repeat([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 300)
		got, err := Pack(nil, src)
		require.NoError(t, err)
		require.Equal(t, 2+256*8+2+44*8, len(got))
		require.Equal(t, byte(255), got[9])

		back, err := Unpack(nil, got)
		require.NoError(t, err)
		require.Equal(t, src, back)
	})
}

func TestUnpack_Truncated(t *testing.T) {
	tests := []struct {
		name   string
		packed []byte
	}{
		{"missing word byte", []byte{0x24, 12}},
		{"missing zero count", []byte{0x00}},
		{"missing verbatim count", []byte{0xff, 1, 2, 3, 4, 5, 6, 7, 8}},
		{"short verbatim run", []byte{0xff, 1, 2, 3, 4, 5, 6, 7, 8, 1, 1, 2, 3}},
		{"tag only", []byte{0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unpack(nil, tt.packed)
			require.ErrorIs(t, err, errs.ErrTruncatedPacked)
			require.ErrorIs(t, err, errs.ErrFraming)
		})
	}
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	src := make([]byte, 0, 4096*8)
	for i := range 4096 {
		word := make([]byte, 8)
		switch i % 5 {
		case 0:
		case 1:
			word[i%8] = byte(i)
		case 2, 3:
			for b := range word {
				word[b] = byte(i + b + 1)
			}
		case 4:
			word[0], word[7] = 0xff, byte(i>>8)
		}
		src = append(src, word...)
	}

	packed, err := Pack(nil, src)
	require.NoError(t, err)
	require.Less(t, len(packed), len(src))

	got, err := Unpack(nil, packed)
	require.NoError(t, err)
	require.Equal(t, src, got)
}
