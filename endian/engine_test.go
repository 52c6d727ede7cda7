package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	require := require.New(t)

	result := CheckEndianness()

	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		require.Equal(binary.BigEndian, result)
		require.False(IsNativeLittleEndian())
	case 0x02:
		require.Equal(binary.LittleEndian, result)
		require.True(IsNativeLittleEndian())
	default:
		require.Failf("Unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestIsNativeWireOrder(t *testing.T) {
	require.Equal(t, IsNativeLittleEndian(), IsNativeWireOrder())
}

func TestWire(t *testing.T) {
	engine := Wire()
	require.Equal(t, binary.LittleEndian, engine)

	buf := engine.AppendUint32(nil, 0x11223344)
	require.Equal(t, []byte{0x44, 0x33, 0x22, 0x11}, buf)
	require.Equal(t, uint32(0x11223344), engine.Uint32(buf))

	word := make([]byte, 8)
	engine.PutUint64(word, 0x0102030405060708)
	require.Equal(t, byte(0x08), word[0])
	require.Equal(t, byte(0x01), word[7])
}
