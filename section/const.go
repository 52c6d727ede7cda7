package section

const (
	// SegmentCountSize is the size of the leading segment count field of a stream header.
	SegmentCountSize = 4
	// SegmentSizeFieldSize is the size of each per-segment size field.
	SegmentSizeFieldSize = 4

	// EnvelopeHeaderSize is the fixed size of a sealed envelope header.
	EnvelopeHeaderSize = 24
	// EnvelopeMagic identifies a sealed envelope ("WW" little-endian).
	EnvelopeMagic uint16 = 0x5757
	// EnvelopeVersion is the current envelope layout version.
	EnvelopeVersion uint8 = 1

	// EnvelopeFlagPacked marks an envelope whose payload is a packed stream.
	EnvelopeFlagPacked uint8 = 0x01
	// envelopeFlagsMask holds every defined flag bit.
	envelopeFlagsMask = EnvelopeFlagPacked
)
