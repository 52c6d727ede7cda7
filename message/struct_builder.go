package message

import (
	"math"

	"github.com/arloliu/wordwire/format"
)

// StructBuilder is a mutable view of a struct in builder memory.
//
// Data setters panic when the field lies outside the struct's data section, and
// pointer operations panic on a pointer index outside the pointer section.
type StructBuilder struct {
	b     *Builder
	shape structShape
}

// Layout returns the shape of the struct.
func (s StructBuilder) Layout() StructLayout {
	return s.shape.layout()
}

// DataBytes returns the data section. The slice aliases the message.
func (s StructBuilder) DataBytes() []byte {
	return s.shape.data()
}

// AsReader returns a read-only view of the struct. Views over builder memory are not
// subject to traversal limits.
func (s StructBuilder) AsReader() StructReader {
	if s.b == nil {
		return StructReader{}
	}

	return StructReader{ctx: unlimited(s.b.table), shape: s.shape, depth: unlimitedDepth}
}

func (s StructBuilder) Uint8(off int) uint8   { return getUint8(s.shape.data(), off) }
func (s StructBuilder) Uint16(off int) uint16 { return getUint16(s.shape.data(), off) }
func (s StructBuilder) Uint32(off int) uint32 { return getUint32(s.shape.data(), off) }
func (s StructBuilder) Uint64(off int) uint64 { return getUint64(s.shape.data(), off) }
func (s StructBuilder) Int8(off int) int8     { return int8(s.Uint8(off)) }
func (s StructBuilder) Int16(off int) int16   { return int16(s.Uint16(off)) }
func (s StructBuilder) Int32(off int) int32   { return int32(s.Uint32(off)) }
func (s StructBuilder) Int64(off int) int64   { return int64(s.Uint64(off)) }
func (s StructBuilder) Bool(bit int) bool     { return getBool(s.shape.data(), bit) }

func (s StructBuilder) Float32(off int) float32 {
	return math.Float32frombits(s.Uint32(off))
}

func (s StructBuilder) Float64(off int) float64 {
	return math.Float64frombits(s.Uint64(off))
}

// SetUint8 stores v at byte offset off of the data section.
func (s StructBuilder) SetUint8(off int, v uint8) {
	s.shape.data()[off] = v
}

// SetUint16 stores v at byte offset off.
func (s StructBuilder) SetUint16(off int, v uint16) {
	wire.PutUint16(s.shape.data()[off:], v)
}

// SetUint32 stores v at byte offset off.
func (s StructBuilder) SetUint32(off int, v uint32) {
	wire.PutUint32(s.shape.data()[off:], v)
}

// SetUint64 stores v at byte offset off.
func (s StructBuilder) SetUint64(off int, v uint64) {
	wire.PutUint64(s.shape.data()[off:], v)
}

func (s StructBuilder) SetInt8(off int, v int8)   { s.SetUint8(off, uint8(v)) }
func (s StructBuilder) SetInt16(off int, v int16) { s.SetUint16(off, uint16(v)) }
func (s StructBuilder) SetInt32(off int, v int32) { s.SetUint32(off, uint32(v)) }
func (s StructBuilder) SetInt64(off int, v int64) { s.SetUint64(off, uint64(v)) }

func (s StructBuilder) SetFloat32(off int, v float32) {
	s.SetUint32(off, math.Float32bits(v))
}

func (s StructBuilder) SetFloat64(off int, v float64) {
	s.SetUint64(off, math.Float64bits(v))
}

// SetBool stores v at bit offset bit of the data section.
func (s StructBuilder) SetBool(bit int, v bool) {
	setBool(s.shape.data(), bit, v)
}

func (s StructBuilder) slot(i int) slot {
	pos, ok := s.shape.pointerPos(i)
	if !ok {
		panic("message: pointer index out of range")
	}

	return slot{b: s.b, seg: s.shape.seg, pos: pos}
}

// HasPointer reports whether pointer i is non-null.
func (s StructBuilder) HasPointer(i int) bool {
	return !s.slot(i).isNull()
}

// ClearPointer sets pointer i to null. The object it referred to stays allocated.
func (s StructBuilder) ClearPointer(i int) {
	s.slot(i).clear()
}

// NewStruct allocates a struct and stores a pointer to it in pointer i.
func (s StructBuilder) NewStruct(i int, layout StructLayout) (StructBuilder, error) {
	return s.slot(i).newStruct(layout)
}

// Struct returns the struct pointer i refers to, initializing it with layout when
// the pointer is null.
func (s StructBuilder) Struct(i int, layout StructLayout) (StructBuilder, error) {
	return s.slot(i).structOrInit(layout)
}

// NewList allocates a list of count elements of a non-composite size class.
func (s StructBuilder) NewList(i int, size format.ElementSize, count int) (ListBuilder, error) {
	return s.slot(i).newList(size, count)
}

// NewCompositeList allocates a list of count structs with the given layout.
func (s StructBuilder) NewCompositeList(i int, layout StructLayout, count int) (ListBuilder, error) {
	return s.slot(i).newCompositeList(layout, count)
}

// NewPointerList allocates a list of count null pointers.
func (s StructBuilder) NewPointerList(i int, count int) (ListBuilder, error) {
	return s.slot(i).newList(format.SizePointer, count)
}

// NewTextList allocates a list of count texts, each initially empty.
func (s StructBuilder) NewTextList(i int, count int) (ListBuilder, error) {
	return s.NewPointerList(i, count)
}

// NewDataList allocates a list of count byte blobs, each initially empty.
func (s StructBuilder) NewDataList(i int, count int) (ListBuilder, error) {
	return s.NewPointerList(i, count)
}

// List returns the list pointer i refers to, or the empty list if it is null.
func (s StructBuilder) List(i int) (ListBuilder, error) {
	return s.slot(i).list()
}

// SetText stores v as NUL-terminated text in pointer i.
func (s StructBuilder) SetText(i int, v string) error {
	return s.slot(i).setBytes([]byte(v), true)
}

// SetTextBytes stores v as NUL-terminated text in pointer i.
func (s StructBuilder) SetTextBytes(i int, v []byte) error {
	return s.slot(i).setBytes(v, true)
}

// SetData stores a copy of v as a byte list in pointer i.
func (s StructBuilder) SetData(i int, v []byte) error {
	return s.slot(i).setBytes(v, false)
}

// Text returns the text in pointer i.
func (s StructBuilder) Text(i int) (string, error) {
	return s.AsReader().Text(i)
}

// Data returns the bytes in pointer i. The slice aliases the message.
func (s StructBuilder) Data(i int) ([]byte, error) {
	return s.AsReader().Data(i)
}
