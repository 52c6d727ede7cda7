package message

import (
	"github.com/arloliu/wordwire/endian"
	"github.com/arloliu/wordwire/format"
	"github.com/arloliu/wordwire/pointer"
	"github.com/arloliu/wordwire/segment"
)

const wordSize = pointer.WordSize

var wire = endian.Wire()

// structShape locates a struct inside a segment. The zero value is the empty struct.
type structShape struct {
	seg       *segment.Segment
	off       int // first word of the data section
	dataWords uint16
	ptrCount  uint16

	// narrow is the data of a primitive list element viewed as a struct.
	narrow []byte
}

func (s structShape) data() []byte {
	if s.narrow != nil {
		return s.narrow
	}
	if s.seg == nil || s.dataWords == 0 {
		return nil
	}

	return s.seg.ByteSlice(s.off, int(s.dataWords)*wordSize)
}

func (s structShape) layout() StructLayout {
	return StructLayout{DataWords: s.dataWords, PointerCount: s.ptrCount}
}

// pointerPos returns the word position of pointer i, or false if the struct has no
// such pointer.
func (s structShape) pointerPos(i int) (int, bool) {
	if s.seg == nil || i < 0 || i >= int(s.ptrCount) {
		return 0, false
	}

	return s.off + int(s.dataWords) + i, true
}

// listShape locates a list inside a segment. The zero value is the empty list.
type listShape struct {
	seg      *segment.Segment
	off      int // first word of the first element
	size     format.ElementSize
	count    int
	stepBits uint64 // distance between elements
	dataBits uint64 // data bits per element
	ptrs     uint16 // pointers per element
}

func primitiveShape(seg *segment.Segment, off int, size format.ElementSize, count int) listShape {
	data := uint64(size.DataBits())
	ptrs := uint16(size.Pointers())

	return listShape{
		seg:      seg,
		off:      off,
		size:     size,
		count:    count,
		stepBits: data + uint64(ptrs)*64,
		dataBits: data,
		ptrs:     ptrs,
	}
}

func compositeShape(seg *segment.Segment, off int, count int, layout StructLayout) listShape {
	return listShape{
		seg:      seg,
		off:      off,
		size:     format.SizeComposite,
		count:    count,
		stepBits: uint64(layout.Words()) * 64,
		dataBits: uint64(layout.DataWords) * 64,
		ptrs:     layout.PointerCount,
	}
}

func (l listShape) checkIndex(i int) {
	if i < 0 || i >= l.count {
		panic("message: list index out of range")
	}
}

// elem returns width bytes of element i's data, or nil when the element has fewer
// data bits than requested.
func (l listShape) elem(i int, width int) []byte {
	l.checkIndex(i)
	if l.dataBits < uint64(width)*8 {
		return nil
	}

	start := l.off*wordSize + int(uint64(i)*l.stepBits/8)

	return l.seg.Bytes()[start : start+width : start+width]
}

// bit returns the byte holding the boolean of element i and the bit within it.
func (l listShape) bit(i int) ([]byte, uint8, bool) {
	l.checkIndex(i)
	if l.dataBits == 0 {
		return nil, 0, false
	}

	pos := uint64(i) * l.stepBits
	start := l.off*wordSize + int(pos/8)

	return l.seg.Bytes()[start : start+1], uint8(pos % 8), true
}

// structAt returns element i viewed as a struct. Primitive elements become structs
// whose data section is the element; pointer elements become structs with one
// pointer.
func (l listShape) structAt(i int) structShape {
	l.checkIndex(i)

	switch {
	case l.size == format.SizeComposite:
		words := int(l.stepBits / 64)
		dataWords := uint16(l.dataBits / 64)

		return structShape{seg: l.seg, off: l.off + i*words, dataWords: dataWords, ptrCount: l.ptrs}
	case l.size == format.SizePointer:
		return structShape{seg: l.seg, off: l.off + i, ptrCount: 1}
	case l.dataBits >= 8:
		return structShape{narrow: l.elem(i, int(l.dataBits/8))}
	default:
		return structShape{}
	}
}

// pointerPos returns the word position of the first pointer of element i.
func (l listShape) pointerPos(i int) (int, bool) {
	l.checkIndex(i)
	if l.ptrs == 0 {
		return 0, false
	}

	return l.off + int(uint64(i)*l.stepBits/64) + int(l.dataBits/64), true
}

func (l listShape) bytes() []byte {
	if l.seg == nil || l.size != format.SizeByte {
		return nil
	}

	return l.seg.ByteSlice(l.off, l.count)
}

// Field accessors shared by struct readers and builders. Reads beyond data return
// zero.

func getUint8(data []byte, off int) uint8 {
	if off < 0 || off >= len(data) {
		return 0
	}

	return data[off]
}

func getUint16(data []byte, off int) uint16 {
	if off < 0 || off+2 > len(data) {
		return 0
	}

	return wire.Uint16(data[off:])
}

func getUint32(data []byte, off int) uint32 {
	if off < 0 || off+4 > len(data) {
		return 0
	}

	return wire.Uint32(data[off:])
}

func getUint64(data []byte, off int) uint64 {
	if off < 0 || off+8 > len(data) {
		return 0
	}

	return wire.Uint64(data[off:])
}

func getBool(data []byte, bit int) bool {
	if bit < 0 {
		return false
	}

	return getUint8(data, bit/8)&(1<<(bit%8)) != 0
}

func setBool(data []byte, bit int, v bool) {
	mask := byte(1) << (bit % 8)
	if v {
		data[bit/8] |= mask
	} else {
		data[bit/8] &^= mask
	}
}
