package serialize

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/wordwire/errs"
	"github.com/arloliu/wordwire/internal/pool"
	"github.com/arloliu/wordwire/message"
	"github.com/arloliu/wordwire/packed"
	"github.com/arloliu/wordwire/section"
)

// Encoder writes framed messages to an io.Writer.
type Encoder struct {
	w  io.Writer
	pw *packed.Writer
}

// NewEncoder creates an Encoder writing unpacked frames to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// NewPackedEncoder creates an Encoder writing packed frames to w. Each Encode call
// emits a complete packed frame.
func NewPackedEncoder(w io.Writer) *Encoder {
	pw := packed.NewWriter(w)
	return &Encoder{w: pw, pw: pw}
}

// Encode writes one framed message.
func (e *Encoder) Encode(msg Message) error {
	bb := pool.GetFrameBuffer()
	defer pool.PutFrameBuffer(bb)

	bb.Grow(SerializedSize(msg))
	frame, err := AppendMessage(bb.B[:0], msg)
	if err != nil {
		return err
	}
	bb.B = frame

	if _, err := bb.WriteTo(e.w); err != nil {
		return err
	}
	if e.pw != nil {
		return e.pw.Flush()
	}

	return nil
}

// Decoder reads framed messages from an io.Reader.
type Decoder struct {
	r      io.Reader
	opts   []message.ReaderOption
	packed bool
}

// NewDecoder creates a Decoder reading unpacked frames from r.
func NewDecoder(r io.Reader, opts ...message.ReaderOption) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// NewPackedDecoder creates a Decoder reading packed frames from r. The Decoder
// buffers r and may read past the end of the last frame it returns.
func NewPackedDecoder(r io.Reader, opts ...message.ReaderOption) *Decoder {
	return &Decoder{r: packed.NewReader(r), opts: opts, packed: true}
}

// Decode reads the next message.
//
// Returns:
//   - *message.Reader: the message, owning freshly allocated segments
//   - error: io.EOF if the stream ended before the first byte of a frame; a framing
//     error if it ended inside one or the segment table exceeds the limits
func (d *Decoder) Decode() (*message.Reader, error) {
	o, err := message.NewReaderOptions(d.opts...)
	if err != nil {
		return nil, err
	}

	var first [section.SegmentCountSize]byte
	if _, err := io.ReadFull(d.r, first[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, d.short(err, errs.ErrShortHeader)
	}

	count := section.SegmentCount(first[:])
	if count > uint64(o.MaxSegments) {
		return nil, fmt.Errorf("%w: %d segments, limit %d", errs.ErrTooManySegments, count, o.MaxSegments)
	}

	raw := make([]byte, section.StreamHeaderSize(int(count)))
	copy(raw, first[:])
	if _, err := io.ReadFull(d.r, raw[len(first):]); err != nil {
		return nil, d.short(err, errs.ErrShortHeader)
	}

	header, err := section.ParseStreamHeader(raw, o.MaxSegments)
	if err != nil {
		return nil, err
	}
	if err := checkCeiling(&header, o); err != nil {
		return nil, err
	}

	body := make([]byte, header.TotalWords()*wordSize)
	if _, err := io.ReadFull(d.r, body); err != nil {
		return nil, d.short(err, errs.ErrShortData)
	}

	segs := make([][]byte, header.NumSegments())
	off := 0
	for i, words := range header.SegmentSizes {
		end := off + int(words)*wordSize
		segs[i] = body[off:end:end]
		off = end
	}

	return message.NewReader(segs, message.WithReaderOptions(o))
}

// short maps an early end of stream to the framing error for the part being read.
func (d *Decoder) short(err error, unpacked error) error {
	if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	if d.packed {
		return fmt.Errorf("%w: stream ends inside a frame", errs.ErrTruncatedPacked)
	}

	return fmt.Errorf("%w: stream ends inside a frame", unpacked)
}
