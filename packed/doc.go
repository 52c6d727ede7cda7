// Package packed implements the packing transform for word-aligned message streams.
//
// Each 8-byte word is written as a tag byte, whose bit i is set when byte i of the
// word is non-zero, followed by the non-zero bytes in order. Two tags carry a run
// count byte after the word:
//
//   - 0x00: the count of additional all-zero words that follow
//   - 0xFF: the count of additional words copied verbatim after the tagged word
//
// Pack and Unpack transform whole buffers. Reader and Writer do the same for
// streams and produce byte-identical results to Unpack and Pack for inputs that fit
// in one Writer buffer.
package packed
