// Package section defines the fixed binary headers that frame wordwire messages.
//
// Two headers are defined:
//
//  1. StreamHeader: the segment table in front of every framed message
//  2. EnvelopeHeader: the header of a sealed, checksummed envelope
//
// # Framed Message
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Segment count - 1 (u32)                                 │
//	│ Segment sizes in words (u32 each)                       │
//	│ Zero padding to a word boundary                         │
//	├─────────────────────────────────────────────────────────┤
//	│ Segment 0 (holds the root pointer in its first word)    │
//	│ Segment 1 ...                                           │
//	└─────────────────────────────────────────────────────────┘
//
// # Sealed Envelope
//
//	┌─────────────────────────────────────────────────────────┐
//	│ EnvelopeHeader (24 bytes, fixed)                        │
//	│  - Magic, version, flags, compression                   │
//	│  - Uncompressed stream length (u32)                     │
//	│  - xxHash64 of the uncompressed stream                  │
//	├─────────────────────────────────────────────────────────┤
//	│ Payload: framed stream, optionally packed, compressed   │
//	└─────────────────────────────────────────────────────────┘
//
// All multi-byte fields are little-endian.
package section
