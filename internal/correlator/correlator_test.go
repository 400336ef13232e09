package correlator

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const testSyncWord = uint64(0x086d53884469481f)

func setBit(buf []byte, bitOffset int, v byte) {
	byteIdx := bitOffset / 8
	bit := uint(7 - bitOffset%8)
	if v != 0 {
		buf[byteIdx] |= 1 << bit
	} else {
		buf[byteIdx] &^= 1 << bit
	}
}

func writeSyncAt(buf []byte, bitOffset int, word uint64, inverted bool) {
	for i := 0; i < 64; i++ {
		bit := byte((word >> (63 - i)) & 1)
		if inverted {
			bit ^= 1
		}
		setBit(buf, bitOffset+i, bit)
	}
}

func TestCorrelateExactMatchAtZero(t *testing.T) {
	c := New(testSyncWord, 8)
	buf := make([]byte, 8)
	writeSyncAt(buf, 0, testSyncWord, false)

	offset, inverted := Correlate(c, buf)
	require.Equal(t, 0, offset)
	require.False(t, inverted)
}

func TestCorrelateFindsOffsetAndPolarity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		shift := rapid.IntRange(0, 40).Draw(t, "shift")
		inverted := rapid.Bool().Draw(t, "inverted")
		flips := rapid.IntRange(0, 3).Draw(t, "flips")

		buf := make([]byte, (shift+64)/8+2)
		writeSyncAt(buf, shift, testSyncWord, inverted)

		flipPositions := rapid.SliceOfN(rapid.IntRange(0, 63), flips, flips).Draw(t, "flipPositions")
		for _, p := range flipPositions {
			pos := shift + p
			byteIdx := pos / 8
			bit := uint(7 - pos%8)
			buf[byteIdx] ^= 1 << bit
		}

		c := New(testSyncWord, 8)
		offset, gotInverted := Correlate(c, buf)

		require.Equal(t, shift, offset)
		require.Equal(t, inverted, gotInverted)
	})
}

func TestCorrelateShortSyncWord(t *testing.T) {
	c := New(0xacd9, 2)
	buf := []byte{0xFF, 0xFF, 0xAC, 0xD9, 0x00}
	offset, inverted := Correlate(c, buf)
	require.Equal(t, 16, offset)
	require.False(t, inverted)
}
