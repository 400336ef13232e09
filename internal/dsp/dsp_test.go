package dsp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAGCConvergesTowardTarget(t *testing.T) {
	agc := NewAGC()
	var last float32
	for i := 0; i < 10000; i++ {
		last = agc.Apply(2.0)
	}
	require.InDelta(t, floatTargetMag, last, 0.5)
}

func TestAGCPassesZeroThrough(t *testing.T) {
	agc := NewAGC()
	require.Equal(t, float32(0), agc.Apply(0))
}

func TestFilterCenterTapDominatesImpulse(t *testing.T) {
	f := NewFilter(24, 0.1, 0.4)
	// Push the impulse in, then shift it to the middle of the delay line so
	// it lines up with the center coefficient.
	f.Forward(1)
	for i := 0; i < len(f.mem)/2; i++ {
		f.Forward(0)
	}
	out := f.Get()
	require.Greater(t, out, float32(0))
}

func TestTimingAdvanceSlotCadence(t *testing.T) {
	timing := NewTiming(0.25, 0.01)
	seen := map[int]int{}
	for i := 0; i < 1000; i++ {
		seen[timing.AdvanceSlot()]++
	}
	require.Greater(t, seen[1], 0)
	require.Greater(t, seen[2], 0)
}
