// Package compress provides the general-purpose codecs applied to sealed envelopes.
//
// Envelopes carry a framed (optionally packed) message stream. Packing removes the
// zero bytes that dominate the wire format; these codecs then squeeze whatever
// redundancy is left, such as repeated text and similar structs in long lists.
//
// Supported algorithms:
//   - None: payload stored as is
//   - Zstd: best ratio, moderate speed (klauspost/compress, or valyala/gozstd when
//     built with cgo and the gozstd tag)
//   - S2: balanced speed and ratio (klauspost/compress/s2)
//   - LZ4: fastest decompression (pierrec/lz4)
//
// Every Decompress call is told the exact decompressed size recorded in the envelope
// header and fails rather than produce more than that, so a hostile payload cannot
// expand past the ceiling the caller already checked.
//
// All codecs are stateless values and safe for concurrent use.
package compress
