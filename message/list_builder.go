package message

import (
	"math"

	"github.com/arloliu/wordwire/format"
)

// ListBuilder is a mutable view of a list in builder memory.
//
// Element setters panic on an index outside [0, Len()) or when the element is too
// narrow for the value, for example SetUint64 on a byte list.
type ListBuilder struct {
	b     *Builder
	shape listShape
}

// Len returns the number of elements.
func (l ListBuilder) Len() int {
	return l.shape.count
}

// ElementSize returns the element size class.
func (l ListBuilder) ElementSize() format.ElementSize {
	return l.shape.size
}

// AsReader returns a read-only view of the list.
func (l ListBuilder) AsReader() ListReader {
	if l.b == nil {
		return ListReader{}
	}

	return ListReader{ctx: unlimited(l.b.table), shape: l.shape, depth: unlimitedDepth}
}

func (l ListBuilder) mustElem(i int, width int) []byte {
	b := l.shape.elem(i, width)
	if b == nil {
		panic("message: list element too narrow for value")
	}

	return b
}

func (l ListBuilder) SetUint8(i int, v uint8)   { l.mustElem(i, 1)[0] = v }
func (l ListBuilder) SetUint16(i int, v uint16) { wire.PutUint16(l.mustElem(i, 2), v) }
func (l ListBuilder) SetUint32(i int, v uint32) { wire.PutUint32(l.mustElem(i, 4), v) }
func (l ListBuilder) SetUint64(i int, v uint64) { wire.PutUint64(l.mustElem(i, 8), v) }
func (l ListBuilder) SetInt8(i int, v int8)     { l.SetUint8(i, uint8(v)) }
func (l ListBuilder) SetInt16(i int, v int16)   { l.SetUint16(i, uint16(v)) }
func (l ListBuilder) SetInt32(i int, v int32)   { l.SetUint32(i, uint32(v)) }
func (l ListBuilder) SetInt64(i int, v int64)   { l.SetUint64(i, uint64(v)) }

func (l ListBuilder) SetFloat32(i int, v float32) { l.SetUint32(i, math.Float32bits(v)) }
func (l ListBuilder) SetFloat64(i int, v float64) { l.SetUint64(i, math.Float64bits(v)) }

// SetBool stores element i of a bit list, or the low bit of a wider element.
func (l ListBuilder) SetBool(i int, v bool) {
	b, bit, ok := l.shape.bit(i)
	if !ok {
		panic("message: list element too narrow for value")
	}
	if v {
		b[0] |= 1 << bit
	} else {
		b[0] &^= 1 << bit
	}
}

func (l ListBuilder) Uint8(i int) uint8     { return l.AsReader().Uint8(i) }
func (l ListBuilder) Uint16(i int) uint16   { return l.AsReader().Uint16(i) }
func (l ListBuilder) Uint32(i int) uint32   { return l.AsReader().Uint32(i) }
func (l ListBuilder) Uint64(i int) uint64   { return l.AsReader().Uint64(i) }
func (l ListBuilder) Float32(i int) float32 { return l.AsReader().Float32(i) }
func (l ListBuilder) Float64(i int) float64 { return l.AsReader().Float64(i) }
func (l ListBuilder) Bool(i int) bool       { return l.AsReader().Bool(i) }

// Struct returns element i as a struct; see ListReader.Struct.
func (l ListBuilder) Struct(i int) StructBuilder {
	return StructBuilder{b: l.b, shape: l.shape.structAt(i)}
}

func (l ListBuilder) slot(i int) slot {
	pos, ok := l.shape.pointerPos(i)
	if !ok {
		panic("message: list elements hold no pointers")
	}

	return slot{b: l.b, seg: l.shape.seg, pos: pos}
}

// NewStruct allocates a struct and stores a pointer to it in element i.
func (l ListBuilder) NewStruct(i int, layout StructLayout) (StructBuilder, error) {
	return l.slot(i).newStruct(layout)
}

// NewList allocates a list in element i.
func (l ListBuilder) NewList(i int, size format.ElementSize, count int) (ListBuilder, error) {
	return l.slot(i).newList(size, count)
}

// NewCompositeList allocates a list of structs in element i.
func (l ListBuilder) NewCompositeList(i int, layout StructLayout, count int) (ListBuilder, error) {
	return l.slot(i).newCompositeList(layout, count)
}

// SetText stores v as text in element i.
func (l ListBuilder) SetText(i int, v string) error {
	return l.slot(i).setBytes([]byte(v), true)
}

// SetData stores a copy of v in element i.
func (l ListBuilder) SetData(i int, v []byte) error {
	return l.slot(i).setBytes(v, false)
}

// Text returns the text in element i.
func (l ListBuilder) Text(i int) (string, error) {
	return l.AsReader().Text(i)
}

// Data returns the bytes in element i.
func (l ListBuilder) Data(i int) ([]byte, error) {
	return l.AsReader().Data(i)
}

// List returns the list in element i.
func (l ListBuilder) List(i int) (ListBuilder, error) {
	return l.slot(i).list()
}
