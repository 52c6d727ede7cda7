// Package segment implements the word-addressed memory that backs a message.
//
// A Segment is an append-only buffer of 8-byte words whose capacity is fixed when it is
// created. Allocation bumps its length and never reallocates, so word offsets handed
// out earlier stay valid for the life of the message. A Table orders the segments of
// one message and decides where each new allocation goes.
//
// Segments built for reading wrap received bytes without copying; their length equals
// their capacity, so nothing can be allocated in them.
package segment

import (
	"github.com/arloliu/wordwire/endian"
	"github.com/arloliu/wordwire/pointer"
)

const wordSize = pointer.WordSize

// MaxWords is the largest segment, in words, that far pointers can address.
const MaxWords = pointer.MaxPadOffset + 1

var wire = endian.Wire()

// Segment is one contiguous, append-only region of words.
type Segment struct {
	id   uint32
	data []byte
}

// New creates an empty segment able to hold capacityWords words.
func New(id uint32, capacityWords int) *Segment {
	return &Segment{
		id:   id,
		data: make([]byte, 0, capacityWords*wordSize),
	}
}

// Wrap creates a full, read-only segment over data without copying.
// len(data) must be a multiple of the word size.
func Wrap(id uint32, data []byte) *Segment {
	return &Segment{id: id, data: data[:len(data):len(data)]}
}

// ID returns the index of the segment within its message.
func (s *Segment) ID() uint32 {
	return s.id
}

// Len returns the number of words in use.
func (s *Segment) Len() int {
	return len(s.data) / wordSize
}

// Cap returns the capacity in words.
func (s *Segment) Cap() int {
	return cap(s.data) / wordSize
}

// Available returns the number of words that can still be allocated.
func (s *Segment) Available() int {
	return s.Cap() - s.Len()
}

// Allocate reserves words zeroed words at the end of the segment and returns the word
// offset of the first one. It reports false when the segment lacks capacity.
func (s *Segment) Allocate(words int) (int, bool) {
	if words < 0 || words > s.Available() {
		return 0, false
	}

	off := s.Len()
	end := len(s.data) + words*wordSize
	space := s.data[len(s.data):end]
	clear(space)
	s.data = s.data[:end]

	return off, true
}

// Bytes returns the words in use. The slice aliases the segment.
func (s *Segment) Bytes() []byte {
	return s.data
}

// InBounds reports whether the words in [off, off+words) lie inside the segment.
func (s *Segment) InBounds(off int, words uint64) bool {
	n := uint64(s.Len())
	if off < 0 || words > n {
		return false
	}

	return uint64(off) <= n-words
}

// Word returns the word at off. It panics if off is out of range.
func (s *Segment) Word(off int) uint64 {
	return wire.Uint64(s.data[off*wordSize:])
}

// SetWord stores v at off. It panics if off is out of range.
func (s *Segment) SetWord(off int, v uint64) {
	wire.PutUint64(s.data[off*wordSize:], v)
}

// Slice returns the bytes of words [off, off+words). It panics if the range is out of
// bounds; check with InBounds first when the range comes from untrusted input.
func (s *Segment) Slice(off, words int) []byte {
	start := off * wordSize
	end := start + words*wordSize

	return s.data[start:end:end]
}

// ByteSlice returns n bytes starting at word off.
func (s *Segment) ByteSlice(off int, n int) []byte {
	start := off * wordSize

	return s.data[start : start+n : start+n]
}
