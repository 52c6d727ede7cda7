// Package wordwire provides a zero-copy binary message format in which data is laid
// out in memory exactly as it appears on the wire.
//
// A message is a set of word-aligned segments. Structs and lists are written in
// place into segments by a message.Builder and are read in place from received bytes
// by a message.Reader, so there is no encode pass on write and no decode pass on
// read. Pointers between objects are relative word offsets, or far pointers when an
// object lives in another segment.
//
// # Core Features
//
//   - Arena allocation across fixed or geometrically growing segments
//   - Struct, primitive, bit, pointer and composite lists with upgrade-compatible reads
//   - Traversal and nesting limits checked while reading untrusted input
//   - Flat framing and the packing transform for transport and storage
//   - Sealed envelopes with optional Zstd, S2 or LZ4 compression and xxHash64 checks
//
// # Basic Usage
//
// Building a message:
//
//	layout := message.StructLayout{DataWords: 1, PointerCount: 1}
//	msg, person, _ := wordwire.NewRootMessage(layout)
//	person.SetUint32(0, 123)
//	_ = person.SetText(0, "Alice")
//
//	data, _ := wordwire.Marshal(msg)
//
// Reading it back:
//
//	reader, _ := wordwire.Unmarshal(data)
//	person, _ := reader.Root()
//	id := person.Uint32(0)
//	name, _ := person.Text(0)
//
// # Package Structure
//
// This package wraps the most common calls. The message, serialize, packed,
// envelope and schema packages expose the full API.
package wordwire

import (
	"github.com/arloliu/wordwire/envelope"
	"github.com/arloliu/wordwire/message"
	"github.com/arloliu/wordwire/schema"
	"github.com/arloliu/wordwire/serialize"
)

// NewMessage creates an empty message builder.
//
// Parameters:
//   - opts: builder options (message.WithInitialSegmentWords, message.WithAllocationStrategy)
//
// Returns:
//   - *message.Builder: builder with the root pointer allocated
//   - error: ErrInvalidOption if an option is invalid
func NewMessage(opts ...message.BuilderOption) (*message.Builder, error) {
	return message.NewBuilder(opts...)
}

// NewRootMessage creates a builder and initializes its root struct.
//
// Example:
//
//	msg, root, err := wordwire.NewRootMessage(message.StructLayout{DataWords: 2})
//	if err != nil {
//	    return err
//	}
//	root.SetUint64(0, 42)
func NewRootMessage(layout message.StructLayout, opts ...message.BuilderOption) (*message.Builder, message.StructBuilder, error) {
	b, err := message.NewBuilder(opts...)
	if err != nil {
		return nil, message.StructBuilder{}, err
	}

	root, err := b.InitRoot(layout)
	if err != nil {
		return nil, message.StructBuilder{}, err
	}

	return b, root, nil
}

// Marshal frames a message. See serialize.Marshal.
func Marshal(msg serialize.Message) ([]byte, error) {
	return serialize.Marshal(msg)
}

// Unmarshal reads a framed message without copying. See serialize.Unmarshal.
func Unmarshal(data []byte, opts ...message.ReaderOption) (*message.Reader, error) {
	return serialize.Unmarshal(data, opts...)
}

// MarshalPacked frames and packs a message. See serialize.MarshalPacked.
func MarshalPacked(msg serialize.Message) ([]byte, error) {
	return serialize.MarshalPacked(msg)
}

// UnmarshalPacked reads a packed framed message. See serialize.UnmarshalPacked.
func UnmarshalPacked(data []byte, opts ...message.ReaderOption) (*message.Reader, error) {
	return serialize.UnmarshalPacked(data, opts...)
}

// Seal encodes a message into a checksummed, optionally compressed envelope.
//
// Example:
//
//	sealed, err := wordwire.Seal(msg,
//	    envelope.WithCompression(format.CompressionZstd),
//	)
func Seal(msg serialize.Message, opts ...envelope.Option) ([]byte, error) {
	return envelope.Seal(msg, opts...)
}

// Open verifies and reads an envelope produced by Seal.
func Open(data []byte, opts ...message.ReaderOption) (*message.Reader, error) {
	return envelope.Open(data, opts...)
}

// TypeID computes the 64-bit identifier of a fully qualified type name using
// xxHash64. IDs are stable across processes and releases.
func TypeID(name string) schema.ID {
	return schema.TypeID(name)
}
