//go:build cgo && gozstd

package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/valyala/gozstd"
)

// Compress compresses data using Zstandard level 3.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress streams a Zstandard frame into a buffer of exactly size bytes and fails
// if the frame holds any more.
func (c ZstdCompressor) Decompress(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return nil, checkSize("zstd", 0, size)
	}

	zr := gozstd.NewReader(bytes.NewReader(data))
	defer zr.Release()

	out := make([]byte, size)
	n, err := io.ReadFull(zr, out)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, checkSize("zstd", n, size)
	}
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	var extra [1]byte
	m, err := zr.Read(extra[:])
	if m > 0 {
		return nil, fmt.Errorf("%w: zstd output exceeds %d bytes", ErrSizeMismatch, size)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return out, nil
}
