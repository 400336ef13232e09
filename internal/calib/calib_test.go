package calib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitmapPercentMonotonic(t *testing.T) {
	b := New(8, 16)
	frag := make([]byte, 16)

	last := float32(-1)
	for i := 0; i < 8; i++ {
		b.Put(i, frag)
		p := b.Percent()
		require.GreaterOrEqual(t, p, last)
		last = p
	}
	require.Equal(t, float32(100), last)
	require.True(t, b.Complete())
}

func TestBitmapDuplicateOverwritesDoesNotUnmark(t *testing.T) {
	b := New(2, 4)
	b.Put(0, []byte{1, 2, 3, 4})
	b.Put(0, []byte{5, 6, 7, 8})
	require.Equal(t, []byte{5, 6, 7, 8}, b.Storage()[0:4])
	require.False(t, b.Complete())
	b.Put(1, []byte{9, 9, 9, 9})
	require.True(t, b.Complete())
}

func TestCoverageCompleteGatesOnSubsetMask(t *testing.T) {
	b := New(4, 2)
	mask := []int{0, 2}
	require.False(t, b.CoverageComplete(mask))
	b.Put(0, []byte{1, 1})
	require.False(t, b.CoverageComplete(mask))
	b.Put(2, []byte{2, 2})
	require.True(t, b.CoverageComplete(mask))
	require.False(t, b.Complete())
}
