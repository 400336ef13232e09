package dfm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeinterleaveBlockPreservesBitCount(t *testing.T) {
	block := []byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde}
	original := append([]byte(nil), block...)

	deinterleaveBlock(block, interleavingPTU)
	require.NotEqual(t, original, block)

	// Re-running the same permutation on an identity-constructed inverse
	// isn't available directly, so instead verify the permutation is a
	// bijection: deinterleaving is invertible, i.e. every output bit maps
	// back to exactly one input bit. We check this indirectly by
	// confirming population count is preserved (a permutation of bits
	// never changes how many are set).
	require.Equal(t, popcount(original), popcount(block))
}

func popcount(b []byte) int {
	n := 0
	for _, v := range b {
		for v != 0 {
			v &= v - 1
			n++
		}
	}
	return n
}

func TestUnpackPTUExtractsTypeAndPayload(t *testing.T) {
	raw := [7]byte{0x3A, 0xF1, 0x23, 0x45, 0x67, 0x89, 0xAB}
	s := unpackPTU(raw)

	require.Equal(t, byte(0x3), s.typ)
	require.Equal(t, byte(0xF2), s.data[0])
	require.Equal(t, byte(0x46), s.data[1])
	require.Equal(t, byte(0x8A), s.data[2])
}

func TestReconstructTempZeroOnMissingReference(t *testing.T) {
	require.Equal(t, float32(0), reconstructTemp(0x012345, 0, 0x012345))
}

func TestGPSLatLonRoundtripScale(t *testing.T) {
	gps := gpsSubframe{data: [6]byte{0x02, 0xfa, 0xf0, 0x80, 0x00, 0x00}}
	lat := gpsLat(gps)
	require.InDelta(t, float64(int32(0x02faf080))/1e7, float64(lat), 1e-3)
}
