package pool

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer(t *testing.T) {
	bb := NewByteBuffer(16)
	require.Zero(t, bb.Len())
	require.Equal(t, 16, bb.Cap())

	n, err := bb.Write([]byte("segment"))
	require.NoError(t, err)
	require.Equal(t, 7, n)
	require.Equal(t, []byte("segment"), bb.Bytes())
	require.Same(t, &bb.B[0], &bb.Bytes()[0])

	capBefore := bb.Cap()
	bb.Reset()
	require.Zero(t, bb.Len())
	require.Equal(t, capBefore, bb.Cap())
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("enough capacity", func(t *testing.T) {
		bb := NewByteBuffer(64)
		bb.Grow(64)
		require.Equal(t, 64, bb.Cap())
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(8)
		_, _ = bb.Write([]byte("12345678"))
		bb.Grow(1)
		require.Equal(t, 8+FrameBufferDefaultSize, bb.Cap())
		require.Equal(t, []byte("12345678"), bb.Bytes())
	})

	t.Run("large request", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(FrameBufferDefaultSize * 3)
		require.Equal(t, FrameBufferDefaultSize*3, bb.Cap())
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		size := 8 * FrameBufferDefaultSize
		bb := NewByteBuffer(size)
		bb.B = bb.B[:size]
		bb.Grow(1)
		require.Equal(t, size+size/4, bb.Cap())
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte("frame"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	require.Equal(t, "frame", out.String())

	_, err = bb.WriteTo(failingWriter{})
	require.Error(t, err)
}

func TestByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(32, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Zero(t, bb.Len())
	_, _ = bb.Write([]byte("reuse me"))
	p.Put(bb)

	again := p.Get()
	require.Zero(t, again.Len(), "pooled buffers come back empty")

	p.Put(nil)
	p.Put(NewByteBuffer(128))
}

func TestDefaultPools(t *testing.T) {
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				fb := GetFrameBuffer()
				_, _ = fb.Write([]byte{1, 2, 3})
				PutFrameBuffer(fb)

				pb := GetPackBuffer()
				if pb.Len() != 0 {
					t.Error("pooled pack buffer is not empty")
				}
				PutPackBuffer(pb)
			}
		}()
	}
	wg.Wait()
}
