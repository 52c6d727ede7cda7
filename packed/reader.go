package packed

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/wordwire/errs"
)

// Reader unpacks a packed stream read from an underlying io.Reader.
//
// Read returns io.EOF only when the underlying stream ends exactly at a tag
// boundary; ending anywhere else yields ErrTruncatedPacked. Reader buffers the
// underlying stream and may read past the end of the packed data it returns.
type Reader struct {
	r *bufio.Reader

	word    [wordSize]byte
	wordOff int // unread bytes are word[wordOff:]
	zeros   int // zero words still owed
	raw     int // verbatim bytes still owed
	err     error
}

var _ io.Reader = (*Reader)(nil)

// NewReader creates a Reader unpacking r.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	return &Reader{r: br, wordOff: wordSize}
}

// Read fills p with unpacked bytes.
func (r *Reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if r.err != nil {
			break
		}

		switch {
		case r.wordOff < wordSize:
			c := copy(p[n:], r.word[r.wordOff:])
			r.wordOff += c
			n += c
		case r.zeros > 0:
			if k := min(r.zeros, (len(p)-n)/wordSize); k > 0 {
				clear(p[n : n+k*wordSize])
				r.zeros -= k
				n += k * wordSize
				continue
			}
			r.word = [wordSize]byte{}
			r.wordOff = 0
			r.zeros--
		case r.raw > 0:
			c := min(r.raw, len(p)-n)
			got, err := io.ReadFull(r.r, p[n:n+c])
			n += got
			r.raw -= got
			if err != nil {
				r.err = truncated(err, "verbatim run")
			}
		default:
			if n > 0 && r.r.Buffered() == 0 {
				return n, nil
			}
			r.err = r.next()
		}
	}

	if n > 0 {
		return n, nil
	}

	return 0, r.err
}

// next decodes the following tag and its word into r.word.
func (r *Reader) next() error {
	tag, err := r.r.ReadByte()
	if err != nil {
		return err
	}

	r.word = [wordSize]byte{}
	for b := range wordSize {
		if tag&(1<<b) == 0 {
			continue
		}
		v, err := r.r.ReadByte()
		if err != nil {
			return truncated(err, "word")
		}
		r.word[b] = v
	}
	r.wordOff = 0

	if tag != tagZero && tag != tagVerbatim {
		return nil
	}

	count, err := r.r.ReadByte()
	if err != nil {
		return truncated(err, "run count")
	}
	if tag == tagZero {
		r.zeros = int(count)
	} else {
		r.raw = int(count) * wordSize
	}

	return nil
}

func truncated(err error, where string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: stream ends inside %s", errs.ErrTruncatedPacked, where)
	}

	return err
}
