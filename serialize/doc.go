// Package serialize frames messages for storage and transport.
//
// A framed message is a segment table followed by the raw segments:
//
//	[u32 segment count - 1][u32 size in words] x count [pad to 8 bytes][segments...]
//
// Unmarshal returns a message.Reader whose segments alias the input bytes; nothing
// is copied or decoded until fields are read. Every size in the table is checked
// against the reader limits before any memory is allocated for the message.
//
// The packed variants apply the packing transform from package packed to the whole
// framed stream.
package serialize
