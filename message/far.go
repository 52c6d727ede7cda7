package message

import (
	"fmt"

	"github.com/arloliu/wordwire/errs"
	"github.com/arloliu/wordwire/format"
	"github.com/arloliu/wordwire/pointer"
	"github.com/arloliu/wordwire/segment"
)

// follow resolves the non-null pointer stored at pos in seg, chasing far pointers
// through their landing pads. It returns the segment holding the object, the word
// offset of the object and the struct or list pointer describing its shape.
func follow(table *segment.Table, seg *segment.Segment, pos int) (*segment.Segment, int, pointer.Pointer, error) {
	p := pointer.Decode(seg.Word(pos))

	switch p.Kind {
	case format.KindStruct, format.KindList:
		return seg, p.Target(pos), p, nil
	case format.KindFar:
	default:
		return nil, 0, p, fmt.Errorf("%w: %s pointer at %d:%d", errs.ErrPointerKind, p.Kind, seg.ID(), pos)
	}

	padSeg, err := table.Segment(p.Segment)
	if err != nil {
		return nil, 0, p, err
	}

	pad := int(p.PadOffset)
	padWords := uint64(1)
	if p.DoubleFar {
		padWords = 2
	}
	if !padSeg.InBounds(pad, padWords) {
		return nil, 0, p, fmt.Errorf("%w: landing pad %d:%d", errs.ErrPointerOutOfBounds, p.Segment, pad)
	}

	if !p.DoubleFar {
		landing := pointer.Decode(padSeg.Word(pad))
		if landing.Kind != format.KindStruct && landing.Kind != format.KindList {
			return nil, 0, landing, fmt.Errorf("%w: %s pointer in landing pad %d:%d", errs.ErrPointerKind, landing.Kind, p.Segment, pad)
		}

		return padSeg, landing.Target(pad), landing, nil
	}

	// A double-far pad holds a far pointer to the object start and a tag describing it.
	start := pointer.Decode(padSeg.Word(pad))
	if start.Kind != format.KindFar || start.DoubleFar {
		return nil, 0, start, fmt.Errorf("%w: double-far pad %d:%d does not start with a far pointer", errs.ErrPointerKind, p.Segment, pad)
	}

	tag := pointer.Decode(padSeg.Word(pad + 1))
	if tag.Kind != format.KindStruct && tag.Kind != format.KindList {
		return nil, 0, tag, fmt.Errorf("%w: %s tag in double-far pad %d:%d", errs.ErrPointerKind, tag.Kind, p.Segment, pad)
	}

	objSeg, err := table.Segment(start.Segment)
	if err != nil {
		return nil, 0, tag, err
	}

	return objSeg, int(start.PadOffset), tag, nil
}
