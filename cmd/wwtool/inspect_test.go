package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/wordwire/format"
	"github.com/arloliu/wordwire/message"
)

func TestWalker_ListKinds(t *testing.T) {
	b, err := message.NewBuilder()
	require.NoError(t, err)
	root, err := b.InitRoot(message.StructLayout{PointerCount: 5})
	require.NoError(t, err)

	bits, err := root.NewList(0, format.SizeBit, 4)
	require.NoError(t, err)
	bits.SetBool(1, true)
	bits.SetBool(3, true)

	shorts, err := root.NewList(1, format.SizeTwoBytes, 2)
	require.NoError(t, err)
	shorts.SetUint16(0, 7)
	shorts.SetUint16(1, 9)

	require.NoError(t, root.SetData(2, []byte{0xde, 0xad}))

	texts, err := root.NewTextList(3, 2)
	require.NoError(t, err)
	require.NoError(t, texts.SetText(0, "x"))

	_, err = root.NewList(4, format.SizeVoid, 3)
	require.NoError(t, err)

	r, err := b.Reader()
	require.NoError(t, err)

	var out bytes.Buffer
	wk := &walker{w: &out, maxElements: 8}
	require.NoError(t, wk.message(r))

	got := out.String()
	require.Contains(t, got, "list<Bit> len 4")
	require.Contains(t, got, "bits 0101")
	require.Contains(t, got, "values [7 9]")
	require.Contains(t, got, "data dead")
	require.Contains(t, got, "list<Pointer> len 2")
	require.Contains(t, got, `text "x"`)
	require.Contains(t, got, "ptr[0] = null")
	require.Contains(t, got, "list<Void> len 3")
}

func TestAsText(t *testing.T) {
	text, ok := asText([]byte("hi\x00"))
	require.True(t, ok)
	require.Equal(t, "hi", text)

	_, ok = asText([]byte("hi"))
	require.False(t, ok)
	_, ok = asText([]byte{0xff, 0x00})
	require.False(t, ok)
	_, ok = asText(nil)
	require.False(t, ok)
}
