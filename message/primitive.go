package message

import (
	"fmt"
	"iter"
	"math"
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/arloliu/wordwire/endian"
	"github.com/arloliu/wordwire/errs"
	"github.com/arloliu/wordwire/format"
)

// Number is the set of element types of primitive lists.
type Number interface {
	constraints.Integer | constraints.Float
}

// sizeOf returns the list element size class for T.
func sizeOf[T Number]() format.ElementSize {
	var zero T
	switch unsafe.Sizeof(zero) {
	case 1:
		return format.SizeByte
	case 2:
		return format.SizeTwoBytes
	case 4:
		return format.SizeFourBytes
	default:
		return format.SizeEightBytes
	}
}

func isFloat[T Number]() bool {
	var v T = 1
	v /= 2

	return v != 0
}

func put[T Number](b []byte, v T) {
	switch len(b) {
	case 1:
		b[0] = uint8(v)
	case 2:
		wire.PutUint16(b, uint16(v))
	case 4:
		if isFloat[T]() {
			wire.PutUint32(b, math.Float32bits(float32(v)))
		} else {
			wire.PutUint32(b, uint32(v))
		}
	default:
		if isFloat[T]() {
			wire.PutUint64(b, math.Float64bits(float64(v)))
		} else {
			wire.PutUint64(b, uint64(v))
		}
	}
}

func get[T Number](b []byte) T {
	switch len(b) {
	case 1:
		return T(b[0])
	case 2:
		return T(int16(wire.Uint16(b)))
	case 4:
		if isFloat[T]() {
			return T(math.Float32frombits(wire.Uint32(b)))
		}
		return T(int32(wire.Uint32(b)))
	default:
		if isFloat[T]() {
			return T(math.Float64frombits(wire.Uint64(b)))
		}
		return T(int64(wire.Uint64(b)))
	}
}

// PrimitiveListBuilder is a typed view of a list of numbers in builder memory.
type PrimitiveListBuilder[T Number] struct {
	list  ListBuilder
	width int
}

// NewPrimitiveList allocates a list of count T values in pointer ptrIndex of s.
func NewPrimitiveList[T Number](s StructBuilder, ptrIndex int, count int) (PrimitiveListBuilder[T], error) {
	l, err := s.NewList(ptrIndex, sizeOf[T](), count)
	if err != nil {
		return PrimitiveListBuilder[T]{}, err
	}

	return PrimitiveListBuilder[T]{list: l, width: int(sizeOf[T]().DataBits() / 8)}, nil
}

// Len returns the number of elements.
func (p PrimitiveListBuilder[T]) Len() int {
	return p.list.Len()
}

// Set stores v at index i.
func (p PrimitiveListBuilder[T]) Set(i int, v T) {
	put(p.list.mustElem(i, p.width), v)
}

// At returns the value at index i.
func (p PrimitiveListBuilder[T]) At(i int) T {
	return get[T](p.list.mustElem(i, p.width))
}

// CopyFrom stores src starting at index 0 and returns the number of values copied.
func (p PrimitiveListBuilder[T]) CopyFrom(src []T) int {
	n := min(len(src), p.Len())
	for i := range n {
		p.Set(i, src[i])
	}

	return n
}

// List returns the untyped view.
func (p PrimitiveListBuilder[T]) List() ListBuilder {
	return p.list
}

// PrimitiveList is a typed read-only view of a list of numbers. It also reads
// composite lists whose elements start with a field of type T.
type PrimitiveList[T Number] struct {
	list  ListReader
	width int
}

// PrimitiveListOf returns a typed view of l. It fails when the elements of l are
// narrower than T.
func PrimitiveListOf[T Number](l ListReader) (PrimitiveList[T], error) {
	width := int(sizeOf[T]().DataBits() / 8)
	if l.Len() > 0 && l.shape.dataBits < uint64(width)*8 {
		return PrimitiveList[T]{}, fmt.Errorf("%w: %s list cannot hold %d-byte values", errs.ErrPointerKind, l.ElementSize(), width)
	}

	return PrimitiveList[T]{list: l, width: width}, nil
}

// ReadPrimitiveList dereferences pointer ptrIndex of s as a list of T.
func ReadPrimitiveList[T Number](s StructReader, ptrIndex int) (PrimitiveList[T], error) {
	l, err := s.List(ptrIndex)
	if err != nil {
		return PrimitiveList[T]{}, err
	}

	return PrimitiveListOf[T](l)
}

// Len returns the number of elements.
func (p PrimitiveList[T]) Len() int {
	return p.list.Len()
}

// At returns the value at index i.
func (p PrimitiveList[T]) At(i int) T {
	return get[T](p.list.shape.elem(i, p.width))
}

// All iterates over index and value pairs.
func (p PrimitiveList[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range p.Len() {
			if !yield(i, p.At(i)) {
				return
			}
		}
	}
}

// Slice returns the values as a []T. On little-endian hosts a tightly packed list is
// returned without copying, aliasing the message; otherwise the values are copied.
func (p PrimitiveList[T]) Slice() []T {
	n := p.Len()
	if n == 0 {
		return nil
	}

	sh := p.list.shape
	if endian.IsNativeWireOrder() && sh.stepBits == uint64(p.width)*8 {
		start := sh.off * wordSize
		data := sh.seg.Bytes()[start : start+n*p.width]
		if uintptr(unsafe.Pointer(&data[0]))%uintptr(p.width) == 0 {
			return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), n)
		}
	}

	out := make([]T, n)
	for i := range n {
		out[i] = p.At(i)
	}

	return out
}

// List returns the untyped view.
func (p PrimitiveList[T]) List() ListReader {
	return p.list
}
