package message

import (
	"fmt"
	"math"

	"github.com/arloliu/wordwire/errs"
	"github.com/arloliu/wordwire/format"
	"github.com/arloliu/wordwire/pointer"
	"github.com/arloliu/wordwire/segment"
)

// Reader is a read-only view over the segments of a received message.
//
// A Reader never copies segment data; the views it hands out alias the slices
// passed to NewReader, which must not be modified while they are in use.
type Reader struct {
	table *segment.Table
	opts  ReaderOptions
}

// NewReader wraps segs, which must each be a whole number of words, as a message.
//
// Parameters:
//   - segs: segment bytes in segment order; segment 0 holds the root pointer
//   - opts: limits for the traversals started by Root
//
// Returns:
//   - *Reader: the message view
//   - error: a framing error when segs cannot hold a message or exceed the limits
func NewReader(segs [][]byte, opts ...ReaderOption) (*Reader, error) {
	o, err := NewReaderOptions(opts...)
	if err != nil {
		return nil, err
	}

	if len(segs) == 0 || len(segs[0]) < wordSize {
		return nil, errs.ErrEmptyMessage
	}
	if len(segs) > o.MaxSegments {
		return nil, fmt.Errorf("%w: %d segments, limit %d", errs.ErrTooManySegments, len(segs), o.MaxSegments)
	}

	var total uint64
	for _, s := range segs {
		total += uint64(len(s) / wordSize)
	}
	if ceiling := o.MessageCeilingWords(); total > ceiling {
		return nil, fmt.Errorf("%w: %d words, limit %d", errs.ErrMessageTooLarge, total, ceiling)
	}

	table, err := segment.NewReadOnlyTable(segs)
	if err != nil {
		return nil, err
	}

	return &Reader{table: table, opts: o}, nil
}

// Options returns the limits of the reader.
func (r *Reader) Options() ReaderOptions {
	return r.opts
}

// NumSegments returns the number of segments.
func (r *Reader) NumSegments() int {
	return r.table.NumSegments()
}

// Segments returns the segment bytes. The slices alias the message.
func (r *Reader) Segments() [][]byte {
	return r.table.Bytes()
}

// SizeWords returns the message size in words.
func (r *Reader) SizeWords() int {
	return r.table.UsedWords()
}

// RootPointer returns the undecoded root pointer.
func (r *Reader) RootPointer() pointer.Pointer {
	seg, err := r.table.Segment(0)
	if err != nil || seg.Len() == 0 {
		return pointer.Null()
	}

	return pointer.Decode(seg.Word(0))
}

// Root starts a new traversal and returns the root struct. Every view derived from
// the returned struct draws on the same traversal budget and nesting depth.
func (r *Reader) Root() (StructReader, error) {
	ctx := &readCtx{table: r.table, trav: newTraversal(r.opts.TraversalLimitWords)}

	seg, err := r.table.Segment(0)
	if err != nil {
		return StructReader{}, err
	}
	if seg.Len() == 0 {
		return StructReader{}, errs.ErrEmptyMessage
	}

	return ctx.readStruct(seg, 0, r.opts.NestingLimit)
}

// readCtx carries the state of one traversal.
type readCtx struct {
	table *segment.Table
	trav  *traversal
}

// unlimited returns a context for views over a builder's own memory.
func unlimited(table *segment.Table) *readCtx {
	return &readCtx{table: table}
}

// unlimitedDepth is the nesting depth given to views over a builder's own memory.
const unlimitedDepth = math.MaxInt32

func (c *readCtx) resolve(seg *segment.Segment, pos int, depth int, want format.PointerKind) (*segment.Segment, int, pointer.Pointer, error) {
	if depth <= 0 {
		return nil, 0, pointer.Pointer{}, fmt.Errorf("%w: at %d:%d", errs.ErrNestingLimit, seg.ID(), pos)
	}

	tseg, off, p, err := follow(c.table, seg, pos)
	if err != nil {
		return nil, 0, p, err
	}
	if p.Kind != want {
		return nil, 0, p, fmt.Errorf("%w: want %s, found %s at %d:%d", errs.ErrPointerKind, want, p.Kind, seg.ID(), pos)
	}

	return tseg, off, p, nil
}

// readStruct dereferences the struct pointer at pos. depth is the remaining nesting
// depth available to the pointer.
func (c *readCtx) readStruct(seg *segment.Segment, pos int, depth int) (StructReader, error) {
	if seg.Word(pos) == 0 {
		return StructReader{}, nil
	}

	tseg, off, p, err := c.resolve(seg, pos, depth, format.KindStruct)
	if err != nil {
		return StructReader{}, err
	}

	words := uint64(p.StructWords())
	if !tseg.InBounds(off, words) {
		return StructReader{}, fmt.Errorf("%w: struct of %d words at %d:%d", errs.ErrPointerOutOfBounds, words, tseg.ID(), off)
	}
	if err := c.trav.charge(words); err != nil {
		return StructReader{}, err
	}

	return StructReader{
		ctx:   c,
		shape: structShape{seg: tseg, off: off, dataWords: p.DataWords, ptrCount: p.PointerCount},
		depth: depth - 1,
	}, nil
}

// readList dereferences the list pointer at pos.
func (c *readCtx) readList(seg *segment.Segment, pos int, depth int) (ListReader, error) {
	if seg.Word(pos) == 0 {
		return ListReader{}, nil
	}

	tseg, off, p, err := c.resolve(seg, pos, depth, format.KindList)
	if err != nil {
		return ListReader{}, err
	}

	var shape listShape
	if p.ElementSize == format.SizeComposite {
		shape, err = c.compositeList(tseg, off, uint64(p.ElementCount))
	} else {
		shape, err = c.primitiveList(tseg, off, p.ElementSize, p.ElementCount)
	}
	if err != nil {
		return ListReader{}, err
	}

	return ListReader{ctx: c, shape: shape, depth: depth - 1}, nil
}

func (c *readCtx) primitiveList(seg *segment.Segment, off int, size format.ElementSize, count uint32) (listShape, error) {
	words := size.ListWords(count)
	if !seg.InBounds(off, words) {
		return listShape{}, fmt.Errorf("%w: %s list of %d at %d:%d", errs.ErrPointerOutOfBounds, size, count, seg.ID(), off)
	}

	// Void elements occupy no memory but still cost the reader one word each.
	charge := words
	if size == format.SizeVoid {
		charge = uint64(count)
	}
	if err := c.trav.charge(charge); err != nil {
		return listShape{}, err
	}

	return primitiveShape(seg, off, size, int(count)), nil
}

func (c *readCtx) compositeList(seg *segment.Segment, off int, words uint64) (listShape, error) {
	if !seg.InBounds(off, words+1) {
		return listShape{}, fmt.Errorf("%w: composite list of %d words at %d:%d", errs.ErrPointerOutOfBounds, words, seg.ID(), off)
	}

	tag := pointer.Decode(seg.Word(off))
	if tag.Kind != format.KindStruct || tag.Offset < 0 {
		return listShape{}, fmt.Errorf("%w: composite list tag %s at %d:%d", errs.ErrPointerKind, tag, seg.ID(), off)
	}

	count := uint64(tag.Offset)
	elemWords := uint64(tag.StructWords())
	if count*elemWords > words {
		return listShape{}, fmt.Errorf("%w: %d elements of %d words exceed list of %d words",
			errs.ErrPointerOutOfBounds, count, elemWords, words)
	}

	// Zero-sized elements cost one word each.
	charge := count * max(elemWords, 1)
	if err := c.trav.charge(charge); err != nil {
		return listShape{}, err
	}

	layout := StructLayout{DataWords: tag.DataWords, PointerCount: tag.PointerCount}

	return compositeShape(seg, off+1, int(count), layout), nil
}

// readBytes dereferences a byte list.
func (c *readCtx) readBytes(seg *segment.Segment, pos int, depth int) ([]byte, bool, error) {
	l, err := c.readList(seg, pos, depth)
	if err != nil {
		return nil, false, err
	}
	if l.shape.seg == nil {
		return nil, false, nil
	}
	if l.shape.size != format.SizeByte {
		return nil, false, fmt.Errorf("%w: want byte list, found %s list", errs.ErrPointerKind, l.shape.size)
	}

	return l.shape.bytes(), true, nil
}

// readText dereferences a NUL-terminated byte list and returns it without the NUL.
func (c *readCtx) readText(seg *segment.Segment, pos int, depth int) ([]byte, error) {
	b, ok, err := c.readBytes(seg, pos, depth)
	if err != nil || !ok {
		return nil, err
	}
	if len(b) == 0 || b[len(b)-1] != 0 {
		return nil, fmt.Errorf("%w: at %d:%d", errs.ErrTextNotTerminated, seg.ID(), pos)
	}

	return b[:len(b)-1], nil
}

// pointerKind reports the kind of object the pointer at pos refers to, resolving far
// pointers. It does not charge the traversal budget.
func (c *readCtx) pointerKind(seg *segment.Segment, pos int) (format.PointerKind, error) {
	if seg.Word(pos) == 0 {
		return format.KindNull, nil
	}

	_, _, p, err := follow(c.table, seg, pos)
	if err != nil {
		return format.KindNull, err
	}

	return p.Kind, nil
}
