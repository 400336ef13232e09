package manchester

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeKnownPattern(t *testing.T) {
	// Symbols: 1,0,1,1,0 encoded as low-high,high-low,low-high,low-high,high-low
	// i.e. raw bits: 01 10 01 01 10 -> 0110010110, padded to 2 bytes.
	src := []byte{0b01100101, 0b10000000}
	dst := make([]byte, 1)

	Decode(dst, src, 5)

	require.Equal(t, byte(0b10110000), dst[0])
}

func TestDecodeAllZerosOnInvalidTransitions(t *testing.T) {
	src := []byte{0b00001111} // 00, 00, 11, 11 -> all invalid
	dst := make([]byte, 1)

	Decode(dst, src, 4)

	require.Equal(t, byte(0), dst[0])
}
