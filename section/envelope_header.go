package section

import (
	"fmt"

	"github.com/arloliu/wordwire/endian"
	"github.com/arloliu/wordwire/errs"
	"github.com/arloliu/wordwire/format"
)

// EnvelopeHeader is the fixed-size header of a sealed envelope.
//
// Layout (little-endian):
//
//	[0:2]   magic 0x5757
//	[2]     version
//	[3]     flags
//	[4]     compression type
//	[5:8]   reserved, zero
//	[8:12]  uncompressed stream length in bytes
//	[12:16] reserved, zero
//	[16:24] xxHash64 of the uncompressed stream
type EnvelopeHeader struct {
	// Flags is a bit set of EnvelopeFlag* values.
	Flags uint8
	// Compression is the codec applied to the payload.
	Compression format.CompressionType
	// Length is the size of the payload after decompression.
	Length uint32
	// Checksum is the xxHash64 of the payload after decompression.
	Checksum uint64
}

// NewEnvelopeHeader creates a header for the given payload encoding.
func NewEnvelopeHeader(compression format.CompressionType, packed bool) EnvelopeHeader {
	h := EnvelopeHeader{Compression: compression}
	if packed {
		h.Flags |= EnvelopeFlagPacked
	}

	return h
}

// IsPacked reports whether the payload is a packed stream.
func (h *EnvelopeHeader) IsPacked() bool {
	return h.Flags&EnvelopeFlagPacked != 0
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: byte slice containing the header (must be exactly EnvelopeHeaderSize bytes)
//
// Returns:
//   - error: ErrInvalidEnvelope on a wrong size, magic, version, flag or compression
//     type
func (h *EnvelopeHeader) Parse(data []byte) error {
	if len(data) != EnvelopeHeaderSize {
		return fmt.Errorf("%w: header is %d bytes", errs.ErrInvalidEnvelope, len(data))
	}

	engine := endian.Wire()
	if magic := engine.Uint16(data[0:2]); magic != EnvelopeMagic {
		return fmt.Errorf("%w: magic %#04x", errs.ErrInvalidEnvelope, magic)
	}
	if data[2] != EnvelopeVersion {
		return fmt.Errorf("%w: version %d", errs.ErrInvalidEnvelope, data[2])
	}
	if data[3]&^envelopeFlagsMask != 0 {
		return fmt.Errorf("%w: flags %#02x", errs.ErrInvalidEnvelope, data[3])
	}

	compression := format.CompressionType(data[4])
	switch compression {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
	default:
		return fmt.Errorf("%w: compression type %d", errs.ErrInvalidEnvelope, data[4])
	}

	h.Flags = data[3]
	h.Compression = compression
	h.Length = engine.Uint32(data[8:12])
	h.Checksum = engine.Uint64(data[16:24])

	return nil
}

// Bytes serializes the header.
func (h *EnvelopeHeader) Bytes() []byte {
	b := make([]byte, EnvelopeHeaderSize)

	engine := endian.Wire()
	engine.PutUint16(b[0:2], EnvelopeMagic)
	b[2] = EnvelopeVersion
	b[3] = h.Flags
	b[4] = uint8(h.Compression)
	engine.PutUint32(b[8:12], h.Length)
	engine.PutUint64(b[16:24], h.Checksum)

	return b
}

// ParseEnvelopeHeader parses an EnvelopeHeader from the start of data.
//
// Parameters:
//   - data: byte slice starting with the header (must be at least EnvelopeHeaderSize bytes)
//
// Returns:
//   - EnvelopeHeader: parsed header
//   - error: ErrInvalidEnvelope
func ParseEnvelopeHeader(data []byte) (EnvelopeHeader, error) {
	if len(data) < EnvelopeHeaderSize {
		return EnvelopeHeader{}, fmt.Errorf("%w: %d bytes", errs.ErrInvalidEnvelope, len(data))
	}

	h := EnvelopeHeader{}
	if err := h.Parse(data[:EnvelopeHeaderSize]); err != nil {
		return EnvelopeHeader{}, err
	}

	return h, nil
}
