package packed

import (
	"fmt"
	"io"

	"github.com/arloliu/wordwire/errs"
	"github.com/arloliu/wordwire/internal/pool"
)

// DefaultWriterBufferSize is the number of unpacked bytes a Writer collects before
// packing them.
const DefaultWriterBufferSize = 64 * 1024

// Writer packs everything written to it onto an underlying io.Writer.
//
// Input is collected until the buffer fills or Flush is called; partial words wait
// for the rest of their bytes. Runs never span two flushes, which only costs a few
// bytes of packing efficiency.
type Writer struct {
	w   io.Writer
	buf []byte
	err error
}

var _ io.WriteCloser = (*Writer)(nil)

// NewWriter creates a Writer packing onto w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, buf: make([]byte, 0, DefaultWriterBufferSize)}
}

// Write buffers p, packing and emitting whole words whenever the buffer is full.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}

	written := 0
	for len(p) > 0 {
		c := min(len(p), cap(w.buf)-len(w.buf))
		w.buf = append(w.buf, p[:c]...)
		p = p[c:]
		written += c

		if len(w.buf) == cap(w.buf) {
			if err := w.emit(len(w.buf) &^ (wordSize - 1)); err != nil {
				return written, err
			}
		}
	}

	return written, nil
}

// Flush packs and emits all buffered words. It fails with ErrUnalignedInput when
// a partial word is buffered.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if len(w.buf)%wordSize != 0 {
		return fmt.Errorf("%w: %d trailing bytes", errs.ErrUnalignedInput, len(w.buf)%wordSize)
	}

	return w.emit(len(w.buf))
}

// Close flushes the Writer. It does not close the underlying writer.
func (w *Writer) Close() error {
	return w.Flush()
}

func (w *Writer) emit(n int) error {
	if n == 0 {
		return nil
	}

	bb := pool.GetPackBuffer()
	defer pool.PutPackBuffer(bb)

	out, err := Pack(bb.B[:0], w.buf[:n])
	if err != nil {
		return err
	}
	bb.B = out

	if _, err := bb.WriteTo(w.w); err != nil {
		w.err = err
		return err
	}

	rest := copy(w.buf, w.buf[n:])
	w.buf = w.buf[:rest]

	return nil
}
