package section

import (
	"fmt"

	"github.com/arloliu/wordwire/endian"
	"github.com/arloliu/wordwire/errs"
)

const wordSize = 8

// StreamHeader is the segment table that precedes the segments of a framed message:
//
//	[u32 segment count - 1][u32 segment size in words] x count [zero pad to 8 bytes]
type StreamHeader struct {
	// SegmentSizes holds the size of each segment in words.
	SegmentSizes []uint32
}

// StreamHeaderSize returns the size in bytes of the header for count segments.
func StreamHeaderSize(count int) int {
	return (SegmentCountSize + count*SegmentSizeFieldSize + wordSize - 1) &^ (wordSize - 1)
}

// SegmentCount decodes the segment count from the first four bytes of a header.
// The result can be 2^32, so it is returned as uint64.
func SegmentCount(data []byte) uint64 {
	return uint64(endian.Wire().Uint32(data)) + 1
}

// NewStreamHeader creates the header describing segs.
func NewStreamHeader(segs [][]byte) StreamHeader {
	sizes := make([]uint32, len(segs))
	for i, s := range segs {
		sizes[i] = uint32(len(s) / wordSize)
	}

	return StreamHeader{SegmentSizes: sizes}
}

// Parse parses a header from data, which must begin with a complete header.
//
// Parameters:
//   - data: bytes starting at the segment count field
//   - maxSegments: largest segment count accepted
//
// Returns:
//   - error: ErrShortHeader if data ends inside the header, ErrTooManySegments if the
//     count exceeds maxSegments
func (h *StreamHeader) Parse(data []byte, maxSegments int) error {
	if len(data) < SegmentCountSize {
		return fmt.Errorf("%w: %d bytes", errs.ErrShortHeader, len(data))
	}

	count := SegmentCount(data)
	if count > uint64(maxSegments) {
		return fmt.Errorf("%w: %d segments, limit %d", errs.ErrTooManySegments, count, maxSegments)
	}

	size := StreamHeaderSize(int(count))
	if len(data) < size {
		return fmt.Errorf("%w: need %d bytes, have %d", errs.ErrShortHeader, size, len(data))
	}

	engine := endian.Wire()
	h.SegmentSizes = make([]uint32, count)
	for i := range h.SegmentSizes {
		off := SegmentCountSize + i*SegmentSizeFieldSize
		h.SegmentSizes[i] = engine.Uint32(data[off:])
	}

	return nil
}

// NumSegments returns the number of segments.
func (h *StreamHeader) NumSegments() int {
	return len(h.SegmentSizes)
}

// Size returns the encoded size of the header in bytes.
func (h *StreamHeader) Size() int {
	return StreamHeaderSize(len(h.SegmentSizes))
}

// TotalWords returns the combined size of all segments in words.
func (h *StreamHeader) TotalWords() uint64 {
	var total uint64
	for _, s := range h.SegmentSizes {
		total += uint64(s)
	}

	return total
}

// AppendTo appends the encoded header to dst.
func (h *StreamHeader) AppendTo(dst []byte) []byte {
	engine := endian.Wire()

	start := len(dst)
	dst = engine.AppendUint32(dst, uint32(len(h.SegmentSizes)-1))
	for _, s := range h.SegmentSizes {
		dst = engine.AppendUint32(dst, s)
	}

	for len(dst)-start < h.Size() {
		dst = append(dst, 0)
	}

	return dst
}

// Bytes serializes the header.
func (h *StreamHeader) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, h.Size()))
}

// ParseStreamHeader parses a StreamHeader from the start of data.
//
// Parameters:
//   - data: bytes starting at the segment count field
//   - maxSegments: largest segment count accepted
//
// Returns:
//   - StreamHeader: parsed header
//   - error: ErrShortHeader or ErrTooManySegments
func ParseStreamHeader(data []byte, maxSegments int) (StreamHeader, error) {
	h := StreamHeader{}
	if err := h.Parse(data, maxSegments); err != nil {
		return StreamHeader{}, err
	}

	return h, nil
}
