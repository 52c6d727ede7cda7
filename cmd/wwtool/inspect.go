package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/arloliu/wordwire/format"
	"github.com/arloliu/wordwire/message"
)

// walker prints the object tree of a message.
type walker struct {
	w io.Writer
	// maxElements bounds how many list elements are printed per list.
	maxElements int
}

func (wk *walker) printf(depth int, f string, args ...any) {
	fmt.Fprintf(wk.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(f, args...))
}

// message prints segment sizes followed by the root struct.
func (wk *walker) message(r *message.Reader) error {
	sizes := make([]string, 0, r.NumSegments())
	for _, s := range r.Segments() {
		sizes = append(sizes, strconv.Itoa(len(s)/8))
	}
	wk.printf(0, "segments: %d [%s] words, total %d", r.NumSegments(), strings.Join(sizes, " "), r.SizeWords())

	root, err := r.Root()
	if err != nil {
		return err
	}
	wk.printf(0, "root:")

	return wk.structure(root, 1)
}

func (wk *walker) structure(s message.StructReader, depth int) error {
	layout := s.Layout()
	wk.printf(depth, "struct %s", layout)

	for i := range int(layout.DataWords) {
		wk.printf(depth+1, "data[%d] = %#016x", i, s.Uint64(i*8))
	}
	for i := range int(layout.PointerCount) {
		if err := wk.pointer(s, i, depth+1); err != nil {
			return err
		}
	}

	return nil
}

func (wk *walker) pointer(s message.StructReader, i int, depth int) error {
	kind, err := s.PointerKind(i)
	if err != nil {
		return err
	}

	switch kind {
	case format.KindNull:
		wk.printf(depth, "ptr[%d] = null", i)
		return nil
	case format.KindStruct:
		child, err := s.Struct(i)
		if err != nil {
			return err
		}
		wk.printf(depth, "ptr[%d] ->", i)

		return wk.structure(child, depth+1)
	default:
		l, err := s.List(i)
		if err != nil {
			return err
		}
		wk.printf(depth, "ptr[%d] ->", i)

		return wk.list(l, depth+1)
	}
}

func (wk *walker) list(l message.ListReader, depth int) error {
	size := l.ElementSize()
	if size == format.SizeComposite {
		wk.printf(depth, "list<%s %s> len %d", size, l.ElementLayout(), l.Len())
	} else {
		wk.printf(depth, "list<%s> len %d", size, l.Len())
	}

	shown := min(l.Len(), wk.maxElements)
	switch size {
	case format.SizeVoid:
		return nil
	case format.SizeByte:
		b := l.Bytes()
		if text, ok := asText(b); ok {
			wk.printf(depth+1, "text %q", text)
			return nil
		}
		wk.printf(depth+1, "data %x", b[:shown])
	case format.SizeComposite, format.SizePointer:
		for i := range shown {
			elem := l.Struct(i)
			if size == format.SizePointer {
				if err := wk.pointer(elem, 0, depth+1); err != nil {
					return err
				}
				continue
			}
			wk.printf(depth+1, "[%d]", i)
			if err := wk.structure(elem, depth+2); err != nil {
				return err
			}
		}
	case format.SizeBit:
		var sb strings.Builder
		for i := range shown {
			if l.Bool(i) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		wk.printf(depth+1, "bits %s", sb.String())
	default:
		vals := make([]string, shown)
		for i := range shown {
			vals[i] = strconv.FormatUint(element(l, size, i), 10)
		}
		wk.printf(depth+1, "values [%s]", strings.Join(vals, " "))
	}

	if shown < l.Len() {
		wk.printf(depth+1, "... %d more", l.Len()-shown)
	}

	return nil
}

func element(l message.ListReader, size format.ElementSize, i int) uint64 {
	switch size {
	case format.SizeTwoBytes:
		return uint64(l.Uint16(i))
	case format.SizeFourBytes:
		return uint64(l.Uint32(i))
	default:
		return l.Uint64(i)
	}
}

// asText reports whether b is a NUL-terminated, valid UTF-8 string.
func asText(b []byte) (string, bool) {
	if len(b) == 0 || b[len(b)-1] != 0 {
		return "", false
	}
	text := b[:len(b)-1]
	if !utf8.Valid(text) {
		return "", false
	}

	return string(text), true
}
