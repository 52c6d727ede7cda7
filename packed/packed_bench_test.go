package packed

import (
	"bytes"
	"io"
	"testing"
)

func benchInput() []byte {
	return bytes.Repeat([]byte{
		0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
		0x7b, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00, 0x32, 0x00, 0x00, 0x00,
		0x41, 0x6c, 0x69, 0x63, 0x65, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}, 2048)
}

func BenchmarkPack(b *testing.B) {
	src := benchInput()
	dst := make([]byte, 0, MaxPackedSize(len(src)))

	b.SetBytes(int64(len(src)))
	b.ReportAllocs()
	for b.Loop() {
		var err error
		if dst, err = Pack(dst[:0], src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnpack(b *testing.B) {
	src := benchInput()
	packed, err := Pack(nil, src)
	if err != nil {
		b.Fatal(err)
	}
	dst := make([]byte, 0, len(src))

	b.SetBytes(int64(len(src)))
	b.ReportAllocs()
	for b.Loop() {
		if dst, err = Unpack(dst[:0], packed); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReader(b *testing.B) {
	src := benchInput()
	packed, err := Pack(nil, src)
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]byte, len(src))

	b.SetBytes(int64(len(src)))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := io.ReadFull(NewReader(bytes.NewReader(packed)), buf); err != nil {
			b.Fatal(err)
		}
	}
}
