// Package dsp implements the GFSK and AFSK demodulation front ends shared by
// every protocol decoder: automatic gain control, a raised-cosine FIR
// filter, Gardner/Mueller-Müller symbol timing recovery, and the two
// slicers (GFSK's single mixer, AFSK's mark/space pair) built on top of
// them.
package dsp

import "math"

const (
	floatTargetMag = 5
	agcGainPole    = 0.001
)

// AGC tracks a moving average of the input magnitude and rescales each
// sample so that average sits at floatTargetMag.
type AGC struct {
	movingAvg float32
}

// NewAGC returns an AGC primed with the target magnitude as its initial
// moving average, so early samples aren't over-amplified before the
// average has had a chance to converge.
func NewAGC() *AGC {
	return &AGC{movingAvg: floatTargetMag}
}

// Apply rescales sample by the current gain estimate and folds its
// magnitude into the moving average.
func (a *AGC) Apply(sample float32) float32 {
	if sample == 0 {
		return 0
	}

	gain := float32(floatTargetMag) / a.movingAvg
	a.movingAvg = a.movingAvg*(1-agcGainPole) + float32(math.Abs(float64(sample)))*agcGainPole

	return sample * gain
}
