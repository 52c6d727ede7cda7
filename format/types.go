package format

type (
	ElementSize        uint8
	PointerKind        uint8
	CompressionType    uint8
	AllocationStrategy uint8
)

// List element size classes, as stored in bits 32-34 of a list pointer.
const (
	SizeVoid       ElementSize = 0 // SizeVoid represents a list of zero-width elements.
	SizeBit        ElementSize = 1 // SizeBit represents a bit-packed boolean list.
	SizeByte       ElementSize = 2 // SizeByte represents 1-byte elements.
	SizeTwoBytes   ElementSize = 3 // SizeTwoBytes represents 2-byte elements.
	SizeFourBytes  ElementSize = 4 // SizeFourBytes represents 4-byte elements.
	SizeEightBytes ElementSize = 5 // SizeEightBytes represents 8-byte elements.
	SizePointer    ElementSize = 6 // SizePointer represents one pointer word per element.
	SizeComposite  ElementSize = 7 // SizeComposite represents inline structs prefixed by a tag word.
)

// Pointer kinds. The wire carries struct, list, far and other in the two low bits;
// null is the all-zero word.
const (
	KindNull   PointerKind = 0x0 // KindNull represents an unset pointer.
	KindStruct PointerKind = 0x1 // KindStruct represents a struct pointer.
	KindList   PointerKind = 0x2 // KindList represents a list pointer.
	KindFar    PointerKind = 0x3 // KindFar represents an inter-segment pointer.
	KindOther  PointerKind = 0x4 // KindOther represents capability and reserved pointers.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

const (
	// GrowHeuristically sizes each new segment to at least the total allocated so far.
	GrowHeuristically AllocationStrategy = 0x1
	// FixedSize allocates every new segment with the initial size hint.
	FixedSize AllocationStrategy = 0x2
)

// DataBits returns the number of data bits per element.
func (s ElementSize) DataBits() uint32 {
	switch s {
	case SizeBit:
		return 1
	case SizeByte:
		return 8
	case SizeTwoBytes:
		return 16
	case SizeFourBytes:
		return 32
	case SizeEightBytes:
		return 64
	default:
		return 0
	}
}

// Pointers returns the number of pointer words per element.
func (s ElementSize) Pointers() uint32 {
	if s == SizePointer {
		return 1
	}

	return 0
}

// ListWords returns the number of words occupied by count elements of size s.
// Composite lists are sized by their tag, so the result for SizeComposite is 0.
func (s ElementSize) ListWords(count uint32) uint64 {
	switch s {
	case SizeVoid, SizeComposite:
		return 0
	case SizePointer:
		return uint64(count)
	default:
		bits := uint64(count) * uint64(s.DataBits())
		return (bits + 63) / 64
	}
}

func (s ElementSize) String() string {
	switch s {
	case SizeVoid:
		return "Void"
	case SizeBit:
		return "Bit"
	case SizeByte:
		return "Byte"
	case SizeTwoBytes:
		return "TwoBytes"
	case SizeFourBytes:
		return "FourBytes"
	case SizeEightBytes:
		return "EightBytes"
	case SizePointer:
		return "Pointer"
	case SizeComposite:
		return "Composite"
	default:
		return "Unknown"
	}
}

func (k PointerKind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindStruct:
		return "Struct"
	case KindList:
		return "List"
	case KindFar:
		return "Far"
	case KindOther:
		return "Other"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (a AllocationStrategy) String() string {
	switch a {
	case GrowHeuristically:
		return "GrowHeuristically"
	case FixedSize:
		return "FixedSize"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a case-sensitive lower-case name ("none", "zstd", "s2",
// "lz4") to its CompressionType.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

// ParseAllocationStrategy maps "grow" or "fixed" to its AllocationStrategy.
func ParseAllocationStrategy(name string) (AllocationStrategy, bool) {
	switch name {
	case "grow":
		return GrowHeuristically, true
	case "fixed":
		return FixedSize, true
	default:
		return 0, false
	}
}
