// Package envelope seals framed messages into self-describing, checksummed blobs.
//
// A sealed envelope is a section.EnvelopeHeader followed by the payload: the framed
// message stream, optionally packed, then compressed with one of the codecs from
// package compress. The header records the stream length and its xxHash64, so Open
// can reject oversized or corrupted input before any message is read.
package envelope

import (
	"fmt"
	"math"

	"github.com/arloliu/wordwire/compress"
	"github.com/arloliu/wordwire/errs"
	"github.com/arloliu/wordwire/format"
	"github.com/arloliu/wordwire/internal/hash"
	"github.com/arloliu/wordwire/internal/options"
	"github.com/arloliu/wordwire/message"
	"github.com/arloliu/wordwire/packed"
	"github.com/arloliu/wordwire/section"
	"github.com/arloliu/wordwire/serialize"
)

// Config selects how Seal encodes the payload.
type Config struct {
	// Compression is the codec applied to the stream. Default: CompressionNone.
	Compression format.CompressionType
	// Packed applies the packing transform before compression. Default: true.
	Packed bool
}

// Option configures Seal.
type Option = options.Option[*Config]

// DefaultConfig returns the Seal defaults.
func DefaultConfig() Config {
	return Config{
		Compression: format.CompressionNone,
		Packed:      true,
	}
}

// WithCompression selects the payload codec.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrInvalidOption, err)
		}
		c.Compression = ct

		return nil
	})
}

// WithPacking enables or disables the packing transform.
func WithPacking(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.Packed = enabled
	})
}

// Seal encodes msg into a sealed envelope.
//
// Parameters:
//   - msg: message to seal
//   - opts: payload encoding options
//
// Returns:
//   - []byte: header followed by the payload
//   - error: ErrEmptyMessage, ErrMessageTooLarge if the stream exceeds 4GiB, or a
//     codec error
func Seal(msg serialize.Message, opts ...Option) ([]byte, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	var stream []byte
	var err error
	if cfg.Packed {
		stream, err = serialize.MarshalPacked(msg)
	} else {
		stream, err = serialize.Marshal(msg)
	}
	if err != nil {
		return nil, err
	}
	if uint64(len(stream)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d byte stream", errs.ErrMessageTooLarge, len(stream))
	}

	codec, err := compress.GetCodec(cfg.Compression)
	if err != nil {
		return nil, err
	}
	payload, err := codec.Compress(stream)
	if err != nil {
		return nil, err
	}

	header := section.NewEnvelopeHeader(cfg.Compression, cfg.Packed)
	header.Length = uint32(len(stream))
	header.Checksum = hash.Checksum(stream)

	out := make([]byte, 0, section.EnvelopeHeaderSize+len(payload))
	out = append(out, header.Bytes()...)

	return append(out, payload...), nil
}

// Open verifies a sealed envelope and reads the message inside.
//
// The declared stream length is checked against the reader limits before the
// payload is decompressed. For uncompressed, unpacked envelopes the returned Reader
// aliases data.
//
// Parameters:
//   - data: sealed envelope
//   - opts: reader limits
//
// Returns:
//   - *message.Reader: the message
//   - error: ErrInvalidEnvelope, ErrMessageTooLarge, ErrChecksumMismatch, or any
//     error from reading the framed stream
func Open(data []byte, opts ...message.ReaderOption) (*message.Reader, error) {
	o, err := message.NewReaderOptions(opts...)
	if err != nil {
		return nil, err
	}

	header, err := section.ParseEnvelopeHeader(data)
	if err != nil {
		return nil, err
	}
	if limit := StreamLimit(o, header.IsPacked()); uint64(header.Length) > limit {
		return nil, fmt.Errorf("%w: %d byte stream, limit %d", errs.ErrMessageTooLarge, header.Length, limit)
	}

	codec, err := compress.GetCodec(header.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidEnvelope, err)
	}
	stream, err := codec.Decompress(data[section.EnvelopeHeaderSize:], int(header.Length))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidEnvelope, err)
	}

	if sum := hash.Checksum(stream); sum != header.Checksum {
		return nil, fmt.Errorf("%w: got %#016x, want %#016x", errs.ErrChecksumMismatch, sum, header.Checksum)
	}

	readerOpt := message.WithReaderOptions(o)
	if header.IsPacked() {
		return serialize.UnmarshalPacked(stream, readerOpt)
	}

	return serialize.Unmarshal(stream, readerOpt)
}

// StreamLimit returns the largest stream length, in bytes, that can frame a message
// within the ceiling of o.
func StreamLimit(o message.ReaderOptions, isPacked bool) uint64 {
	limit := o.MessageCeilingWords()*8 + uint64(section.StreamHeaderSize(o.MaxSegments))
	if isPacked {
		limit = uint64(packed.MaxPackedSize(int(min(limit, math.MaxInt32))))
	}

	return limit
}
