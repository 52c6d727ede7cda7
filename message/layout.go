package message

import "fmt"

// StructLayout describes the shape of a struct: the size of its data section in words
// and the number of pointers that follow it.
type StructLayout struct {
	DataWords    uint16
	PointerCount uint16
}

// Words returns the total size of a struct with this layout.
func (l StructLayout) Words() int {
	return int(l.DataWords) + int(l.PointerCount)
}

// DataBytes returns the size of the data section in bytes.
func (l StructLayout) DataBytes() int {
	return int(l.DataWords) * wordSize
}

// IsZero reports whether the layout describes an empty struct.
func (l StructLayout) IsZero() bool {
	return l.DataWords == 0 && l.PointerCount == 0
}

func (l StructLayout) String() string {
	return fmt.Sprintf("{data=%d ptrs=%d}", l.DataWords, l.PointerCount)
}
