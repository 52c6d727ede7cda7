package serialize

import (
	"bytes"
	"fmt"

	"github.com/arloliu/wordwire/errs"
	"github.com/arloliu/wordwire/internal/pool"
	"github.com/arloliu/wordwire/message"
	"github.com/arloliu/wordwire/packed"
	"github.com/arloliu/wordwire/section"
)

const wordSize = 8

// Message is anything made of segments: a *message.Builder being written or a
// *message.Reader that was received.
type Message interface {
	Segments() [][]byte
}

var (
	_ Message = (*message.Builder)(nil)
	_ Message = (*message.Reader)(nil)
)

// SerializedSize returns the framed size of msg in bytes.
func SerializedSize(msg Message) int {
	segs := msg.Segments()
	size := section.StreamHeaderSize(len(segs))
	for _, s := range segs {
		size += len(s)
	}

	return size
}

// Marshal frames msg into a new byte slice.
func Marshal(msg Message) ([]byte, error) {
	return AppendMessage(make([]byte, 0, SerializedSize(msg)), msg)
}

// AppendMessage appends the framed form of msg to dst.
//
// Parameters:
//   - dst: destination buffer, may be nil
//   - msg: message to frame
//
// Returns:
//   - []byte: dst extended with the segment table and segments
//   - error: ErrEmptyMessage if msg has no root word
func AppendMessage(dst []byte, msg Message) ([]byte, error) {
	segs := msg.Segments()
	if len(segs) == 0 || len(segs[0]) < wordSize {
		return dst, errs.ErrEmptyMessage
	}

	header := section.NewStreamHeader(segs)
	dst = header.AppendTo(dst)
	for _, s := range segs {
		dst = append(dst, s...)
	}

	return dst, nil
}

// Unmarshal reads a framed message from the start of data. Trailing bytes after
// the message are ignored.
//
// The returned Reader aliases data, which must not be modified while the Reader is
// in use.
func Unmarshal(data []byte, opts ...message.ReaderOption) (*message.Reader, error) {
	r, _, err := UnmarshalPrefix(data, opts...)
	return r, err
}

// UnmarshalPrefix reads one framed message from the start of data and returns the
// bytes that follow it.
//
// Parameters:
//   - data: buffer starting with a segment table
//   - opts: reader limits, also applied to the segment table
//
// Returns:
//   - *message.Reader: view over the segments, aliasing data
//   - []byte: the rest of data after the message
//   - error: a framing error, ErrMessageTooLarge, or ErrInvalidOption
func UnmarshalPrefix(data []byte, opts ...message.ReaderOption) (*message.Reader, []byte, error) {
	o, err := message.NewReaderOptions(opts...)
	if err != nil {
		return nil, nil, err
	}
	if len(data) == 0 {
		return nil, nil, errs.ErrEmptyMessage
	}

	header, err := section.ParseStreamHeader(data, o.MaxSegments)
	if err != nil {
		return nil, nil, err
	}
	if err := checkCeiling(&header, o); err != nil {
		return nil, nil, err
	}

	body := data[header.Size():]
	need := header.TotalWords() * wordSize
	if uint64(len(body)) < need {
		return nil, nil, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrShortData, need, len(body))
	}

	segs := make([][]byte, header.NumSegments())
	off := 0
	for i, words := range header.SegmentSizes {
		end := off + int(words)*wordSize
		segs[i] = body[off:end:end]
		off = end
	}

	r, err := message.NewReader(segs, message.WithReaderOptions(o))
	if err != nil {
		return nil, nil, err
	}

	return r, body[off:], nil
}

// MarshalPacked frames msg and packs the result.
func MarshalPacked(msg Message) ([]byte, error) {
	bb := pool.GetFrameBuffer()
	defer pool.PutFrameBuffer(bb)

	bb.Grow(SerializedSize(msg))
	frame, err := AppendMessage(bb.B[:0], msg)
	if err != nil {
		return nil, err
	}
	bb.B = frame

	return packed.Pack(nil, frame)
}

// UnmarshalPacked unpacks and reads a packed framed message. Unlike Unmarshal the
// result owns its memory, since unpacking produces new bytes.
func UnmarshalPacked(data []byte, opts ...message.ReaderOption) (*message.Reader, error) {
	if len(data) == 0 {
		return nil, errs.ErrEmptyMessage
	}

	return NewPackedDecoder(bytes.NewReader(data), opts...).Decode()
}

func checkCeiling(h *section.StreamHeader, o message.ReaderOptions) error {
	total := h.TotalWords()
	if ceiling := o.MessageCeilingWords(); total > ceiling {
		return fmt.Errorf("%w: %d words, limit %d", errs.ErrMessageTooLarge, total, ceiling)
	}

	return nil
}
