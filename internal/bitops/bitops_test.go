package bitops

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBitmergeMatchesManualRead(t *testing.T) {
	src := []byte{0b10110100, 0b01100111, 0b11110000, 0b00001111, 0b10101010, 0b01010101, 0b11001100, 0b00110011, 0xFF}

	for n := 1; n <= 64; n++ {
		got := Bitmerge(src, n)

		var want uint64
		for i := 0; i < n; i++ {
			byteIdx := i / 8
			bitIdx := 7 - (i % 8)
			bit := (src[byteIdx] >> bitIdx) & 1
			want = (want << 1) | uint64(bit)
		}

		require.Equalf(t, want, got, "bitmerge(%d)", n)
	}
}

// explodeBits turns a byte buffer into one LSB-valued byte per bit, MSB-first,
// the layout Bitpack expects as input.
func explodeBits(src []byte) []byte {
	out := make([]byte, 0, len(src)*8)
	for _, b := range src {
		for i := 7; i >= 0; i-- {
			out = append(out, (b>>i)&1)
		}
	}
	return out
}

func TestBitpackThenBitcpyRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bufLen := rapid.IntRange(1, 16).Draw(t, "bufLen")
		source := rapid.SliceOfN(rapid.Byte(), bufLen, bufLen).Draw(t, "source")

		totalBits := 8 * bufLen
		offset := rapid.IntRange(0, totalBits-1).Draw(t, "offset")
		numBits := rapid.IntRange(1, totalBits-offset).Draw(t, "numBits")

		bits := explodeBits(source)[offset : offset+numBits]

		packed := make([]byte, bufLen)
		Bitpack(packed, bits, 0, numBits)

		recovered := make([]byte, bufLen)
		Bitcpy(recovered, packed, 0, numBits)

		want := make([]byte, bufLen)
		Bitcpy(want, source, offset, numBits)

		require.Equal(t, want, recovered)
	})
}

func TestBitclearPreservesOutsideRange(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFF}
	Bitclear(buf, 4, 12)
	require.Equal(t, []byte{0xF0, 0x00, 0xFF}, buf)
}

func TestCountOnes(t *testing.T) {
	require.Equal(t, 0, CountOnes([]byte{0, 0, 0}))
	require.Equal(t, 24, CountOnes([]byte{0xFF, 0xFF, 0xFF}))
	require.Equal(t, 4, CountOnes([]byte{0b10110100}))
}

func TestBitcpySelfOverlapRealign(t *testing.T) {
	// Mirrors the framer's in-place realignment: bitcpy(dst, dst, offset, n).
	buf := []byte{0b00001111, 0b00110011, 0b01010101}
	// out starts as a copy so the byte past the 16 copied bits matches the
	// in-place buffer, which Bitcpy leaves untouched there.
	out := make([]byte, len(buf))
	copy(out, buf)
	Bitcpy(out, buf, 4, 16)
	Bitcpy(buf, buf, 4, 16)
	require.Equal(t, out, buf)
}
