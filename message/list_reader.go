package message

import (
	"iter"
	"math"

	"github.com/arloliu/wordwire/format"
)

// ListReader is a read-only view of a list. The zero value is the empty list.
//
// Element accessors read the first data field of each element, so a list of
// primitives that a newer schema turned into a list of structs still reads back
// through its original accessor. Reading a field wider than the element returns zero.
// Accessors panic on an index outside [0, Len()).
type ListReader struct {
	ctx   *readCtx
	shape listShape
	depth int
}

// Len returns the number of elements.
func (l ListReader) Len() int {
	return l.shape.count
}

// ElementSize returns the element size class stored on the wire.
func (l ListReader) ElementSize() format.ElementSize {
	return l.shape.size
}

// ElementLayout returns the per-element struct shape of a composite list.
func (l ListReader) ElementLayout() StructLayout {
	if l.shape.size != format.SizeComposite {
		return StructLayout{}
	}

	return StructLayout{DataWords: uint16(l.shape.dataBits / 64), PointerCount: l.shape.ptrs}
}

func (l ListReader) Uint8(i int) uint8 {
	if b := l.shape.elem(i, 1); b != nil {
		return b[0]
	}

	return 0
}

func (l ListReader) Uint16(i int) uint16 {
	if b := l.shape.elem(i, 2); b != nil {
		return wire.Uint16(b)
	}

	return 0
}

func (l ListReader) Uint32(i int) uint32 {
	if b := l.shape.elem(i, 4); b != nil {
		return wire.Uint32(b)
	}

	return 0
}

func (l ListReader) Uint64(i int) uint64 {
	if b := l.shape.elem(i, 8); b != nil {
		return wire.Uint64(b)
	}

	return 0
}

func (l ListReader) Int8(i int) int8   { return int8(l.Uint8(i)) }
func (l ListReader) Int16(i int) int16 { return int16(l.Uint16(i)) }
func (l ListReader) Int32(i int) int32 { return int32(l.Uint32(i)) }
func (l ListReader) Int64(i int) int64 { return int64(l.Uint64(i)) }

func (l ListReader) Float32(i int) float32 { return math.Float32frombits(l.Uint32(i)) }
func (l ListReader) Float64(i int) float64 { return math.Float64frombits(l.Uint64(i)) }

// Bool returns element i of a bit list, or the low bit of a wider element.
func (l ListReader) Bool(i int) bool {
	b, bit, ok := l.shape.bit(i)

	return ok && b[0]&(1<<bit) != 0
}

// Struct returns element i as a struct. Elements of composite lists are the inline
// structs; elements of primitive lists are structs whose data section is the element;
// elements of pointer lists are structs holding that one pointer.
func (l ListReader) Struct(i int) StructReader {
	return StructReader{ctx: l.ctx, shape: l.shape.structAt(i), depth: l.depth}
}

// Structs iterates over the elements as structs.
func (l ListReader) Structs() iter.Seq2[int, StructReader] {
	return func(yield func(int, StructReader) bool) {
		for i := range l.shape.count {
			if !yield(i, l.Struct(i)) {
				return
			}
		}
	}
}

// StructPointer dereferences the pointer of element i as a struct.
func (l ListReader) StructPointer(i int) (StructReader, error) {
	pos, ok := l.shape.pointerPos(i)
	if !ok {
		return StructReader{}, nil
	}

	return l.ctx.readStruct(l.shape.seg, pos, l.depth)
}

// List dereferences the pointer of element i as a list.
func (l ListReader) List(i int) (ListReader, error) {
	pos, ok := l.shape.pointerPos(i)
	if !ok {
		return ListReader{}, nil
	}

	return l.ctx.readList(l.shape.seg, pos, l.depth)
}

// Text dereferences the pointer of element i as text.
func (l ListReader) Text(i int) (string, error) {
	b, err := l.TextBytes(i)

	return string(b), err
}

// TextBytes dereferences the pointer of element i as text without copying.
func (l ListReader) TextBytes(i int) ([]byte, error) {
	pos, ok := l.shape.pointerPos(i)
	if !ok {
		return nil, nil
	}

	return l.ctx.readText(l.shape.seg, pos, l.depth)
}

// Data dereferences the pointer of element i as a byte list without copying.
func (l ListReader) Data(i int) ([]byte, error) {
	pos, ok := l.shape.pointerPos(i)
	if !ok {
		return nil, nil
	}

	b, _, err := l.ctx.readBytes(l.shape.seg, pos, l.depth)

	return b, err
}

// Texts iterates over a text list, stopping at the first malformed element.
func (l ListReader) Texts() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for i := range l.shape.count {
			s, err := l.Text(i)
			if !yield(s, err) || err != nil {
				return
			}
		}
	}
}

// Bytes returns the elements of a byte list without copying, or nil for other lists.
func (l ListReader) Bytes() []byte {
	return l.shape.bytes()
}
