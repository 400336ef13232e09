package dsp

import (
	"math"
	"math/cmplx"

	"github.com/dbrief/sondecore/sonde"
)

const (
	afskFilterOrder       = 24
	afskMinSamplesPerSym  = 8
	afskSymZeta           = 0.707
)

// AFSK demodulates an audio frequency-shift-keyed baseband signal: complex
// mark/space mixers integrated over one symbol period via circular boxcar
// histories, fed through the same timing loop and slicer as GFSK. It
// implements framer.Demodulator.
type AFSK struct {
	agc *AGC
	lpf *Filter

	timing *Timing
	interm float32

	fMark, fSpace float64
	pMark, pSpace float64

	markHistory, spaceHistory []complex128
	markSum, spaceSum         complex128
	idx                       int
}

// NewAFSK builds an AFSK front end for the given sample rate, symbol rate,
// and mark/space tone frequencies (Hz).
func NewAFSK(sampleRate, symRate int, fMark, fSpace float32) *AFSK {
	symFreq := float32(symRate) / float32(sampleRate)
	numPhases := 1 + int(afskMinSamplesPerSym*symFreq)
	histLen := int(1.0 / symFreq)
	if histLen < 1 {
		histLen = 1
	}

	return &AFSK{
		agc:          NewAGC(),
		lpf:          NewFilter(afskFilterOrder, 3*symFreq, 0.4),
		timing:       NewTiming(symFreq/float32(numPhases), symFreq/float32(numPhases)/100),
		fMark:        2 * math.Pi * float64(fMark) / float64(sampleRate),
		fSpace:       2 * math.Pi * float64(fSpace) / float64(sampleRate),
		markHistory:  make([]complex128, histLen),
		spaceHistory: make([]complex128, histLen),
	}
}

// Demod consumes src sample-by-sample through the mark/space boxcar
// correlators and the shared timing loop, writing one decision bit per
// symbol into dst starting at *bitOffset. Semantics otherwise match
// GFSK.Demod.
func (d *AFSK) Demod(dst []byte, bitOffset *int, frameLen int, src []float32) sonde.ParserStatus {
	histLen := len(d.markHistory)

	for i := range src {
		sample := complex(float64(d.agc.Apply(src[i])), 0)

		out := sample * cmplx.Exp(complex(0, -d.pMark))
		d.markSum += out - d.markHistory[d.idx]
		d.markHistory[d.idx] = out

		out = sample * cmplx.Exp(complex(0, -d.pSpace))
		d.spaceSum += out - d.spaceHistory[d.idx]
		d.spaceHistory[d.idx] = out

		mixed := float32(cmplx.Abs(d.markSum) - cmplx.Abs(d.spaceSum))

		d.idx = (d.idx + 1) % histLen
		d.pMark = math.Mod(d.pMark+d.fMark, 2*math.Pi)
		d.pSpace = math.Mod(d.pSpace+d.fSpace, 2*math.Pi)

		d.lpf.Forward(mixed)

		for phase := 0; phase < 1; phase++ {
			switch d.timing.AdvanceSlot() {
			case 1:
				d.interm = d.lpf.Get()
			case 2:
				decision := d.lpf.Get()
				d.timing.Retime(d.interm, decision)

				bit := byte(0)
				if decision > 0 {
					bit = 1
				}
				setBit(dst, *bitOffset, bit)
				*bitOffset++

				if *bitOffset >= frameLen {
					return sonde.Parsed
				}
			}
		}
	}

	return sonde.Proceed
}
