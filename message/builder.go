package message

import (
	"fmt"

	"github.com/arloliu/wordwire/errs"
	"github.com/arloliu/wordwire/format"
	"github.com/arloliu/wordwire/internal/options"
	"github.com/arloliu/wordwire/pointer"
	"github.com/arloliu/wordwire/segment"
)

// Builder constructs a message in place. The root pointer occupies word 0 of
// segment 0.
//
// Note: Builder is NOT thread-safe.
type Builder struct {
	table *segment.Table
}

// NewBuilder creates an empty message.
//
// Parameters:
//   - opts: allocation settings (WithInitialSegmentWords, WithAllocationStrategy)
//
// Returns:
//   - *Builder: a builder whose root pointer is null
//   - error: ErrInvalidOption if an option is out of range
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	cfg := DefaultBuilderConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	table := segment.NewTable(cfg.InitialSegmentWords, cfg.Strategy)
	if _, _, err := table.Allocate(1); err != nil {
		return nil, err
	}

	return &Builder{table: table}, nil
}

// Table returns the segment table backing the message.
func (b *Builder) Table() *segment.Table {
	return b.table
}

// Segments returns the used bytes of each segment for output. The slices alias the
// builder and stay valid until it is modified again.
func (b *Builder) Segments() [][]byte {
	return b.table.Bytes()
}

// NumSegments returns the number of segments.
func (b *Builder) NumSegments() int {
	return b.table.NumSegments()
}

// SizeWords returns the number of words allocated so far, root pointer included.
func (b *Builder) SizeWords() int {
	return b.table.UsedWords()
}

func (b *Builder) rootSlot() slot {
	seg, _ := b.table.Segment(0)

	return slot{b: b, seg: seg, pos: 0}
}

// InitRoot allocates a new struct with the given layout and makes it the root.
// A previous root becomes unreachable.
func (b *Builder) InitRoot(layout StructLayout) (StructBuilder, error) {
	return b.rootSlot().newStruct(layout)
}

// Root returns the existing root struct, or initializes one with layout when the
// root pointer is null. An existing root keeps the shape it was created with.
func (b *Builder) Root(layout StructLayout) (StructBuilder, error) {
	return b.rootSlot().structOrInit(layout)
}

// Reader returns a read-only view that borrows the builder's segments.
func (b *Builder) Reader(opts ...ReaderOption) (*Reader, error) {
	o, err := NewReaderOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Reader{table: b.table, opts: o}, nil
}

// slot is a pointer word in builder memory.
type slot struct {
	b   *Builder
	seg *segment.Segment
	pos int
}

func (s slot) isNull() bool {
	return s.seg.Word(s.pos) == 0
}

func (s slot) clear() {
	s.seg.SetWord(s.pos, 0)
}

// place allocates words for an object referenced from the slot and links the slot to
// it. encode returns the struct or list pointer word for a given offset.
//
// The object goes into the slot's segment when it has room. Otherwise it goes
// wherever the table puts it, followed by a one-word landing pad reached through a
// far pointer; if the object's segment cannot hold the pad either, a two-word
// double-far pad is allocated separately.
func (s slot) place(words int, encode func(offset int32) (uint64, error)) (*segment.Segment, int, error) {
	// Encoding errors do not depend on the offset, so check before allocating.
	if _, err := encode(0); err != nil {
		return nil, 0, err
	}

	table := s.b.table
	if off, ok := table.AllocateIn(s.seg.ID(), words); ok {
		rel := off - (s.pos + 1)
		if !pointer.FitsOffset(rel) {
			return nil, 0, fmt.Errorf("%w: offset %d", errs.ErrOffsetOverflow, rel)
		}
		w, err := encode(int32(rel))
		if err != nil {
			return nil, 0, err
		}
		s.seg.SetWord(s.pos, w)

		return s.seg, off, nil
	}

	segID, off, err := table.Allocate(words)
	if err != nil {
		return nil, 0, err
	}
	objSeg, err := table.Segment(segID)
	if err != nil {
		return nil, 0, err
	}

	if pad, ok := table.AllocateIn(segID, 1); ok {
		landing, err := encode(int32(off - (pad + 1)))
		if err != nil {
			return nil, 0, err
		}
		far, err := pointer.EncodeFar(segID, uint32(pad), false)
		if err != nil {
			return nil, 0, err
		}
		objSeg.SetWord(pad, landing)
		s.seg.SetWord(s.pos, far)

		return objSeg, off, nil
	}

	padID, pad, err := table.Allocate(2)
	if err != nil {
		return nil, 0, err
	}
	padSeg, err := table.Segment(padID)
	if err != nil {
		return nil, 0, err
	}

	start, err := pointer.EncodeFar(segID, uint32(off), false)
	if err != nil {
		return nil, 0, err
	}
	tag, err := encode(0)
	if err != nil {
		return nil, 0, err
	}
	far, err := pointer.EncodeFar(padID, uint32(pad), true)
	if err != nil {
		return nil, 0, err
	}
	padSeg.SetWord(pad, start)
	padSeg.SetWord(pad+1, tag)
	s.seg.SetWord(s.pos, far)

	return objSeg, off, nil
}

func (s slot) newStruct(layout StructLayout) (StructBuilder, error) {
	encode := func(offset int32) (uint64, error) {
		return pointer.EncodeStruct(offset, layout.DataWords, layout.PointerCount)
	}

	if layout.IsZero() {
		w, _ := encode(-1)
		s.seg.SetWord(s.pos, w)

		return StructBuilder{b: s.b, shape: structShape{seg: s.seg, off: s.pos}}, nil
	}

	seg, off, err := s.place(layout.Words(), encode)
	if err != nil {
		return StructBuilder{}, err
	}

	return StructBuilder{
		b:     s.b,
		shape: structShape{seg: seg, off: off, dataWords: layout.DataWords, ptrCount: layout.PointerCount},
	}, nil
}

func (s slot) structOrInit(layout StructLayout) (StructBuilder, error) {
	if s.isNull() {
		return s.newStruct(layout)
	}

	seg, off, p, err := follow(s.b.table, s.seg, s.pos)
	if err != nil {
		return StructBuilder{}, err
	}
	if p.Kind != format.KindStruct {
		return StructBuilder{}, fmt.Errorf("%w: want struct, found %s", errs.ErrPointerKind, p.Kind)
	}

	return StructBuilder{
		b:     s.b,
		shape: structShape{seg: seg, off: off, dataWords: p.DataWords, ptrCount: p.PointerCount},
	}, nil
}

func (s slot) newList(size format.ElementSize, count int) (ListBuilder, error) {
	if size == format.SizeComposite {
		return ListBuilder{}, fmt.Errorf("%w: composite lists need an element layout", errs.ErrAllocation)
	}
	if count < 0 || count > pointer.MaxElementCount {
		return ListBuilder{}, fmt.Errorf("%w: %d elements", errs.ErrListTooLarge, count)
	}

	words := size.ListWords(uint32(count))
	seg, off, err := s.place(int(words), func(offset int32) (uint64, error) {
		return pointer.EncodeList(offset, size, uint32(count))
	})
	if err != nil {
		return ListBuilder{}, err
	}

	return ListBuilder{b: s.b, shape: primitiveShape(seg, off, size, count)}, nil
}

func (s slot) newCompositeList(layout StructLayout, count int) (ListBuilder, error) {
	if count < 0 || count > pointer.MaxElementCount {
		return ListBuilder{}, fmt.Errorf("%w: %d elements", errs.ErrListTooLarge, count)
	}

	words := uint64(count) * uint64(layout.Words())
	if words > pointer.MaxElementCount || words+1 > segment.MaxWords {
		return ListBuilder{}, fmt.Errorf("%w: %d elements of %s", errs.ErrListTooLarge, count, layout)
	}

	tag, err := pointer.EncodeCompositeTag(uint32(count), layout.DataWords, layout.PointerCount)
	if err != nil {
		return ListBuilder{}, err
	}

	seg, off, err := s.place(int(words)+1, func(offset int32) (uint64, error) {
		return pointer.EncodeList(offset, format.SizeComposite, uint32(words))
	})
	if err != nil {
		return ListBuilder{}, err
	}
	seg.SetWord(off, tag)

	return ListBuilder{b: s.b, shape: compositeShape(seg, off+1, count, layout)}, nil
}

func (s slot) setBytes(b []byte, terminate bool) error {
	n := len(b)
	if terminate {
		n++
	}

	l, err := s.newList(format.SizeByte, n)
	if err != nil {
		return err
	}
	copy(l.shape.seg.ByteSlice(l.shape.off, n), b)

	return nil
}

func (s slot) list() (ListBuilder, error) {
	if s.isNull() {
		return ListBuilder{}, nil
	}

	seg, off, p, err := follow(s.b.table, s.seg, s.pos)
	if err != nil {
		return ListBuilder{}, err
	}
	if p.Kind != format.KindList {
		return ListBuilder{}, fmt.Errorf("%w: want list, found %s", errs.ErrPointerKind, p.Kind)
	}

	if p.ElementSize != format.SizeComposite {
		return ListBuilder{b: s.b, shape: primitiveShape(seg, off, p.ElementSize, int(p.ElementCount))}, nil
	}

	tag := pointer.Decode(seg.Word(off))
	layout := StructLayout{DataWords: tag.DataWords, PointerCount: tag.PointerCount}

	return ListBuilder{b: s.b, shape: compositeShape(seg, off+1, int(tag.Offset), layout)}, nil
}
