package segment

import (
	"fmt"

	"github.com/arloliu/wordwire/errs"
	"github.com/arloliu/wordwire/format"
)

// DefaultInitialWords is the default size of the first segment of a new message.
const DefaultInitialWords = 1024

// Table is the ordered set of segments making up one message.
//
// Note: Table is NOT thread-safe. A message under construction has a single writer.
type Table struct {
	segments     []*Segment
	initialWords int
	strategy     format.AllocationStrategy
	capWords     int
	readOnly     bool
}

// NewTable creates an empty table for building. initialWords sizes the first segment;
// strategy decides the size of the following ones.
func NewTable(initialWords int, strategy format.AllocationStrategy) *Table {
	if initialWords <= 0 {
		initialWords = DefaultInitialWords
	}
	if initialWords > MaxWords {
		initialWords = MaxWords
	}
	if strategy != format.FixedSize {
		strategy = format.GrowHeuristically
	}

	return &Table{
		initialWords: initialWords,
		strategy:     strategy,
	}
}

// NewReadOnlyTable wraps received segment bytes without copying.
func NewReadOnlyTable(segs [][]byte) (*Table, error) {
	t := &Table{
		segments: make([]*Segment, len(segs)),
		readOnly: true,
	}

	for i, data := range segs {
		if len(data)%wordSize != 0 {
			return nil, fmt.Errorf("%w: segment %d has %d bytes", errs.ErrUnalignedInput, i, len(data))
		}
		t.segments[i] = Wrap(uint32(i), data)
		t.capWords += len(data) / wordSize
	}

	return t, nil
}

// Strategy returns the allocation strategy.
func (t *Table) Strategy() format.AllocationStrategy {
	return t.strategy
}

// ReadOnly reports whether the table wraps received data.
func (t *Table) ReadOnly() bool {
	return t.readOnly
}

// NumSegments returns the number of segments.
func (t *Table) NumSegments() int {
	return len(t.segments)
}

// Segment returns the segment with the given index.
func (t *Table) Segment(id uint32) (*Segment, error) {
	if uint64(id) >= uint64(len(t.segments)) {
		return nil, fmt.Errorf("%w: segment %d of %d", errs.ErrSegmentNotFound, id, len(t.segments))
	}

	return t.segments[id], nil
}

// UsedWords returns the number of words allocated across all segments.
func (t *Table) UsedWords() int {
	total := 0
	for _, s := range t.segments {
		total += s.Len()
	}

	return total
}

// CapacityWords returns the capacity reserved across all segments.
func (t *Table) CapacityWords() int {
	return t.capWords
}

// Allocate reserves words zeroed words and returns their location. The last segment is
// used when it has room; otherwise a new segment is opened.
func (t *Table) Allocate(words int) (uint32, int, error) {
	if t.readOnly {
		return 0, 0, fmt.Errorf("%w: table is read-only", errs.ErrAllocation)
	}
	if words < 0 || words > MaxWords {
		return 0, 0, fmt.Errorf("%w: %d words", errs.ErrSegmentTooLarge, words)
	}

	if n := len(t.segments); n > 0 {
		last := t.segments[n-1]
		if off, ok := last.Allocate(words); ok {
			return last.id, off, nil
		}
	}

	seg := t.openSegment(words)
	off, _ := seg.Allocate(words)

	return seg.id, off, nil
}

// AllocateIn reserves words zeroed words in the segment id, reporting false when it
// does not have room.
func (t *Table) AllocateIn(id uint32, words int) (int, bool) {
	if t.readOnly || uint64(id) >= uint64(len(t.segments)) {
		return 0, false
	}

	return t.segments[id].Allocate(words)
}

// Bytes returns the used bytes of every segment, in order. The slices alias the table.
func (t *Table) Bytes() [][]byte {
	out := make([][]byte, len(t.segments))
	for i, s := range t.segments {
		out[i] = s.Bytes()
	}

	return out
}

// openSegment appends a segment big enough for minWords.
func (t *Table) openSegment(minWords int) *Segment {
	size := t.nextSize()
	if size < minWords {
		size = minWords
	}
	if size > MaxWords {
		size = MaxWords
	}

	seg := New(uint32(len(t.segments)), size)
	t.segments = append(t.segments, seg)
	t.capWords += size

	return seg
}

// nextSize returns the capacity of the next segment under the configured strategy.
//
// The growth strategy is as follows:
//   - The first segment always uses the initial size hint.
//   - FixedSize keeps using the hint for every later segment.
//   - GrowHeuristically makes each new segment as large as everything before it,
//     so the total capacity doubles with each segment.
func (t *Table) nextSize() int {
	if len(t.segments) == 0 || t.strategy == format.FixedSize {
		return t.initialWords
	}

	if t.capWords > t.initialWords {
		return t.capWords
	}

	return t.initialWords
}
