// Package pointer encodes and decodes the one-word pointers that link objects inside a
// message.
//
// A pointer is a tagged variant. The two low bits of the little-endian word select
// the wire kind:
//
//	struct: [ offset:30 | 00 ] [ data words:16 ] [ pointer count:16 ]
//	list:   [ offset:30 | 01 ] [ element size:3 | element count:29 ]
//	far:    [ pad offset:29 | double:1 | 10 ] [ segment:32 ]
//	other:  [ ... | 11 ] (capabilities; not interpreted here)
//
// Struct and list offsets are signed word offsets measured from the word following
// the pointer. The all-zero word is the null pointer. Decode never fails: validating
// an offset against a segment is the caller's job, since only the caller knows the
// pointer's position and the segment length.
package pointer

import (
	"fmt"

	"github.com/arloliu/wordwire/errs"
	"github.com/arloliu/wordwire/format"
)

const (
	// WordSize is the size of one word in bytes.
	WordSize = 8

	// MinOffset and MaxOffset bound the signed 30-bit struct/list offset field.
	MinOffset = -(1 << 29)
	MaxOffset = 1<<29 - 1

	// MaxElementCount is the largest list element count (29 bits).
	MaxElementCount = 1<<29 - 1

	// MaxPadOffset is the largest landing pad offset in a far pointer (29 bits).
	MaxPadOffset = 1<<29 - 1

	// MaxSectionWords is the largest struct data section or pointer section.
	MaxSectionWords = 1<<16 - 1
)

const (
	wireStruct = 0
	wireList   = 1
	wireFar    = 2
	wireOther  = 3
)

// Pointer is a decoded pointer word. Which fields are meaningful depends on Kind.
type Pointer struct {
	Kind format.PointerKind

	// Offset is the signed word offset of the target, for struct and list pointers.
	// In a composite list tag it holds the element count.
	Offset int32

	// Struct shape.
	DataWords    uint16
	PointerCount uint16

	// List shape.
	ElementSize  format.ElementSize
	ElementCount uint32

	// Far target.
	Segment   uint32
	PadOffset uint32
	DoubleFar bool

	// Raw is the undecoded word, kept for KindOther.
	Raw uint64
}

// Null returns the null pointer.
func Null() Pointer {
	return Pointer{Kind: format.KindNull}
}

// IsNull reports whether p is the null pointer.
func (p Pointer) IsNull() bool {
	return p.Kind == format.KindNull
}

// StructWords returns the total size of the struct a struct pointer refers to.
func (p Pointer) StructWords() uint32 {
	return uint32(p.DataWords) + uint32(p.PointerCount)
}

// Target returns the word position addressed by a struct or list pointer located at pos.
func (p Pointer) Target(pos int) int {
	return pos + 1 + int(p.Offset)
}

// Encode encodes p back into a word.
func (p Pointer) Encode() (uint64, error) {
	switch p.Kind {
	case format.KindNull:
		return 0, nil
	case format.KindStruct:
		return EncodeStruct(p.Offset, p.DataWords, p.PointerCount)
	case format.KindList:
		return EncodeList(p.Offset, p.ElementSize, p.ElementCount)
	case format.KindFar:
		return EncodeFar(p.Segment, p.PadOffset, p.DoubleFar)
	default:
		return p.Raw, nil
	}
}

func (p Pointer) String() string {
	switch p.Kind {
	case format.KindStruct:
		return fmt.Sprintf("struct{offset=%d data=%d ptrs=%d}", p.Offset, p.DataWords, p.PointerCount)
	case format.KindList:
		return fmt.Sprintf("list{offset=%d size=%s count=%d}", p.Offset, p.ElementSize, p.ElementCount)
	case format.KindFar:
		return fmt.Sprintf("far{segment=%d pad=%d double=%t}", p.Segment, p.PadOffset, p.DoubleFar)
	case format.KindOther:
		return fmt.Sprintf("other{%#016x}", p.Raw)
	default:
		return "null"
	}
}

// FitsOffset reports whether offset can be stored in a struct or list pointer.
func FitsOffset(offset int) bool {
	return offset >= MinOffset && offset <= MaxOffset
}

// EncodeStruct encodes a struct pointer.
func EncodeStruct(offset int32, dataWords, pointerCount uint16) (uint64, error) {
	if !FitsOffset(int(offset)) {
		return 0, fmt.Errorf("%w: struct offset %d", errs.ErrOffsetOverflow, offset)
	}

	lo := uint64(uint32(offset)<<2) | wireStruct
	hi := uint64(dataWords) | uint64(pointerCount)<<16

	return lo | hi<<32, nil
}

// EncodeList encodes a list pointer. For composite lists count is the number of words
// following the tag.
func EncodeList(offset int32, size format.ElementSize, count uint32) (uint64, error) {
	if !FitsOffset(int(offset)) {
		return 0, fmt.Errorf("%w: list offset %d", errs.ErrOffsetOverflow, offset)
	}
	if count > MaxElementCount {
		return 0, fmt.Errorf("%w: %d elements", errs.ErrListTooLarge, count)
	}
	if size > format.SizeComposite {
		return 0, fmt.Errorf("%w: element size %d", errs.ErrAllocation, size)
	}

	lo := uint64(uint32(offset)<<2) | wireList
	hi := uint64(size) | uint64(count)<<3

	return lo | hi<<32, nil
}

// EncodeFar encodes a far pointer to the landing pad at padOffset in segment.
func EncodeFar(segment uint32, padOffset uint32, double bool) (uint64, error) {
	if padOffset > MaxPadOffset {
		return 0, fmt.Errorf("%w: landing pad offset %d", errs.ErrOffsetOverflow, padOffset)
	}

	lo := uint64(padOffset)<<3 | wireFar
	if double {
		lo |= 1 << 2
	}

	return lo | uint64(segment)<<32, nil
}

// EncodeCompositeTag encodes the tag word that precedes the elements of a composite
// list. The tag has the shape of a struct pointer whose offset field holds the element
// count.
func EncodeCompositeTag(count uint32, dataWords, pointerCount uint16) (uint64, error) {
	if count > MaxElementCount {
		return 0, fmt.Errorf("%w: %d elements", errs.ErrListTooLarge, count)
	}

	return EncodeStruct(int32(count), dataWords, pointerCount)
}

// Decode decodes a pointer word.
func Decode(word uint64) Pointer {
	if word == 0 {
		return Null()
	}

	lo := uint32(word)
	hi := uint32(word >> 32)

	switch lo & 3 {
	case wireStruct:
		return Pointer{
			Kind:         format.KindStruct,
			Offset:       int32(lo) >> 2,
			DataWords:    uint16(hi),
			PointerCount: uint16(hi >> 16),
			Raw:          word,
		}
	case wireList:
		return Pointer{
			Kind:         format.KindList,
			Offset:       int32(lo) >> 2,
			ElementSize:  format.ElementSize(hi & 7),
			ElementCount: hi >> 3,
			Raw:          word,
		}
	case wireFar:
		return Pointer{
			Kind:      format.KindFar,
			PadOffset: lo >> 3,
			DoubleFar: lo&4 != 0,
			Segment:   hi,
			Raw:       word,
		}
	default:
		return Pointer{Kind: format.KindOther, Raw: word}
	}
}
