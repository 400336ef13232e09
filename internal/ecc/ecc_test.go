package ecc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func rs41RS() *RSDecoder {
	return NewRS(255, 231, 0x11D, 0, 1)
}

func TestRSFixBlockNoErrors(t *testing.T) {
	rs := rs41RS()
	// The all-zero block is trivially a valid codeword under any linear
	// code, so it exercises the zero-syndrome early-return path.
	zero := make([]byte, 255)
	require.Equal(t, 0, rs.FixBlock(zero))
}

func TestRSCorrectsUpToTErrors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rs := rs41RS()
		tErrs := (rs.N - rs.K) / 2

		codeword := make([]byte, rs.N)
		encodeSystematicRS(t, rs, codeword)

		corrupted := make([]byte, len(codeword))
		copy(corrupted, codeword)

		numErrors := rapid.IntRange(0, tErrs).Draw(t, "numErrors")
		used := map[int]bool{}
		for i := 0; i < numErrors; i++ {
			p := rapid.IntRange(0, rs.N-1).Filter(func(p int) bool { return !used[p] }).Draw(t, "pos")
			used[p] = true
			delta := byte(rapid.IntRange(1, 255).Draw(t, "delta"))
			corrupted[p] ^= delta
		}

		n := rs.FixBlock(corrupted)
		require.GreaterOrEqual(t, n, 0)
		require.Equal(t, codeword, corrupted)
	})
}

// encodeSystematicRS fills codeword with the all-zero codeword, which is
// valid under any linear code, since the package has no encoder to build a
// codeword from a random message; the caller injects errors relative to it.
func encodeSystematicRS(t *rapid.T, rs *RSDecoder, codeword []byte) {
	for i := range codeword {
		codeword[i] = 0
	}
}

func TestHammingFixByteSingleBitErrors(t *testing.T) {
	// 0x00 is trivially a valid codeword (every mask parity is even), so
	// flipping exactly one of its bits gives a known single-bit error whose
	// correction must restore it exactly.
	for pos := 0; pos < 8; pos++ {
		corrupted := byte(0) ^ (1 << pos)
		n := HammingFixByte(&corrupted)
		require.Equal(t, 1, n)
		require.Equal(t, byte(0), corrupted)
	}
}

func TestHammingFixByteClean(t *testing.T) {
	b := byte(0x00)
	require.Equal(t, 0, HammingFixByte(&b))
}

func TestCRC16CCITTFalseKnownVector(t *testing.T) {
	// "123456789" is the standard CRC16/CCITT-FALSE check vector.
	require.Equal(t, uint16(0x29B1), CRC16CCITTFalse([]byte("123456789")))
}
