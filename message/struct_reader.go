package message

import (
	"math"

	"github.com/arloliu/wordwire/format"
	"github.com/arloliu/wordwire/pointer"
)

// StructReader is a read-only view of a struct. The zero value is the empty struct
// that null pointers decode to: every field reads as zero and every pointer as null.
type StructReader struct {
	ctx   *readCtx
	shape structShape
	depth int
}

// IsZero reports whether s is the empty default struct.
func (s StructReader) IsZero() bool {
	return s.shape.seg == nil && s.shape.narrow == nil
}

// Layout returns the shape of the struct as stored on the wire.
func (s StructReader) Layout() StructLayout {
	return s.shape.layout()
}

// DataBytes returns the data section. The slice aliases the message.
func (s StructReader) DataBytes() []byte {
	return s.shape.data()
}

// Uint8 returns the byte at byte offset off of the data section.
func (s StructReader) Uint8(off int) uint8 {
	return getUint8(s.shape.data(), off)
}

// Uint16 returns the uint16 at byte offset off.
func (s StructReader) Uint16(off int) uint16 {
	return getUint16(s.shape.data(), off)
}

// Uint32 returns the uint32 at byte offset off.
func (s StructReader) Uint32(off int) uint32 {
	return getUint32(s.shape.data(), off)
}

// Uint64 returns the uint64 at byte offset off.
func (s StructReader) Uint64(off int) uint64 {
	return getUint64(s.shape.data(), off)
}

func (s StructReader) Int8(off int) int8   { return int8(s.Uint8(off)) }
func (s StructReader) Int16(off int) int16 { return int16(s.Uint16(off)) }
func (s StructReader) Int32(off int) int32 { return int32(s.Uint32(off)) }
func (s StructReader) Int64(off int) int64 { return int64(s.Uint64(off)) }

// Float32 returns the float32 at byte offset off.
func (s StructReader) Float32(off int) float32 {
	return math.Float32frombits(s.Uint32(off))
}

// Float64 returns the float64 at byte offset off.
func (s StructReader) Float64(off int) float64 {
	return math.Float64frombits(s.Uint64(off))
}

// Bool returns the bit at bit offset bit of the data section.
func (s StructReader) Bool(bit int) bool {
	return getBool(s.shape.data(), bit)
}

// HasPointer reports whether pointer i is present and non-null.
func (s StructReader) HasPointer(i int) bool {
	pos, ok := s.shape.pointerPos(i)

	return ok && s.shape.seg.Word(pos) != 0
}

// Pointer returns pointer i undecoded; pointers beyond the struct read as null.
func (s StructReader) Pointer(i int) pointer.Pointer {
	pos, ok := s.shape.pointerPos(i)
	if !ok {
		return pointer.Null()
	}

	return pointer.Decode(s.shape.seg.Word(pos))
}

// PointerKind returns the kind of object pointer i refers to, following far pointers.
func (s StructReader) PointerKind(i int) (format.PointerKind, error) {
	pos, ok := s.shape.pointerPos(i)
	if !ok {
		return format.KindNull, nil
	}

	return s.ctx.pointerKind(s.shape.seg, pos)
}

// Struct dereferences pointer i as a struct.
func (s StructReader) Struct(i int) (StructReader, error) {
	pos, ok := s.shape.pointerPos(i)
	if !ok {
		return StructReader{}, nil
	}

	return s.ctx.readStruct(s.shape.seg, pos, s.depth)
}

// List dereferences pointer i as a list.
func (s StructReader) List(i int) (ListReader, error) {
	pos, ok := s.shape.pointerPos(i)
	if !ok {
		return ListReader{}, nil
	}

	return s.ctx.readList(s.shape.seg, pos, s.depth)
}

// Text dereferences pointer i as text.
func (s StructReader) Text(i int) (string, error) {
	b, err := s.TextBytes(i)

	return string(b), err
}

// TextBytes dereferences pointer i as text without copying. The slice excludes the
// NUL terminator and aliases the message.
func (s StructReader) TextBytes(i int) ([]byte, error) {
	pos, ok := s.shape.pointerPos(i)
	if !ok {
		return nil, nil
	}

	return s.ctx.readText(s.shape.seg, pos, s.depth)
}

// Data dereferences pointer i as a byte list without copying.
func (s StructReader) Data(i int) ([]byte, error) {
	pos, ok := s.shape.pointerPos(i)
	if !ok {
		return nil, nil
	}

	b, _, err := s.ctx.readBytes(s.shape.seg, pos, s.depth)

	return b, err
}
