package packed

import (
	"fmt"
	"slices"

	"github.com/arloliu/wordwire/endian"
	"github.com/arloliu/wordwire/errs"
)

const (
	wordSize = 8
	// maxRun is the largest run count that fits the count byte.
	maxRun = 255

	tagZero     = 0x00
	tagVerbatim = 0xFF
)

var (
	wire = endian.Wire()

	zeroRun [maxRun * wordSize]byte
)

// MaxPackedSize returns the largest packed size of n unpacked bytes.
func MaxPackedSize(n int) int {
	return n + (n+3)/4
}

// Pack appends the packed form of src to dst.
//
// Parameters:
//   - dst: destination buffer, may be nil
//   - src: unpacked stream, must be a multiple of 8 bytes
//
// Returns:
//   - []byte: dst extended with the packed bytes
//   - error: ErrUnalignedInput if src is not word aligned
func Pack(dst, src []byte) ([]byte, error) {
	if len(src)%wordSize != 0 {
		return dst, fmt.Errorf("%w: %d bytes", errs.ErrUnalignedInput, len(src))
	}

	dst = slices.Grow(dst, MaxPackedSize(len(src)))
	for i := 0; i < len(src); {
		word := src[i : i+wordSize]
		i += wordSize

		tagPos := len(dst)
		dst = append(dst, 0)

		var tag byte
		for b, v := range word {
			if v != 0 {
				tag |= 1 << b
				dst = append(dst, v)
			}
		}
		dst[tagPos] = tag

		switch tag {
		case tagZero:
			run := 0
			for i < len(src) && run < maxRun && wire.Uint64(src[i:]) == 0 {
				run++
				i += wordSize
			}
			dst = append(dst, byte(run))
		case tagVerbatim:
			start := i
			run := 0
			for i < len(src) && run < maxRun && zeroBytes(src[i:i+wordSize]) <= 1 {
				run++
				i += wordSize
			}
			dst = append(dst, byte(run))
			dst = append(dst, src[start:i]...)
		}
	}

	return dst, nil
}

// Unpack appends the unpacked form of src to dst. Empty input unpacks to nothing.
//
// Parameters:
//   - dst: destination buffer, may be nil
//   - src: packed stream
//
// Returns:
//   - []byte: dst extended with the unpacked words
//   - error: ErrTruncatedPacked if src ends inside a word or a run
func Unpack(dst, src []byte) ([]byte, error) {
	for i := 0; i < len(src); {
		tag := src[i]
		i++

		var word [wordSize]byte
		for b := range wordSize {
			if tag&(1<<b) == 0 {
				continue
			}
			if i >= len(src) {
				return dst, fmt.Errorf("%w: word ends after %d bytes", errs.ErrTruncatedPacked, len(src))
			}
			word[b] = src[i]
			i++
		}
		dst = append(dst, word[:]...)

		if tag != tagZero && tag != tagVerbatim {
			continue
		}
		if i >= len(src) {
			return dst, fmt.Errorf("%w: missing run count", errs.ErrTruncatedPacked)
		}
		n := int(src[i]) * wordSize
		i++

		if tag == tagZero {
			dst = append(dst, zeroRun[:n]...)
			continue
		}
		if len(src)-i < n {
			return dst, fmt.Errorf("%w: verbatim run needs %d bytes, have %d", errs.ErrTruncatedPacked, n, len(src)-i)
		}
		dst = append(dst, src[i:i+n]...)
		i += n
	}

	return dst, nil
}

func zeroBytes(word []byte) int {
	n := 0
	for _, v := range word {
		if v == 0 {
			n++
		}
	}

	return n
}
