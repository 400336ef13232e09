package dsp

import "github.com/dbrief/sondecore/sonde"

const (
	gfskFilterOrder = 24
	gfskRCAlpha     = 0.4
)

// GFSK demodulates a Gaussian frequency-shift-keyed baseband signal: AGC,
// raised-cosine lowpass filter, symbol timing recovery, hard-decision
// slicing. It implements framer.Demodulator.
type GFSK struct {
	agc    *AGC
	lpf    *Filter
	timing *Timing

	interm float32
}

// NewGFSK builds a GFSK front end for the given sample rate and symbol
// (baud) rate.
func NewGFSK(sampleRate, symRate int) *GFSK {
	symFreq := float32(symRate) / float32(sampleRate)
	return &GFSK{
		agc:    NewAGC(),
		lpf:    NewFilter(gfskFilterOrder, symFreq, gfskRCAlpha),
		timing: NewTiming(symFreq, symFreq/100),
	}
}

// Demod consumes src sample-by-sample, AGC- and filter-conditioning each one
// and feeding it through the timing loop, writing one decision bit per
// symbol into dst starting at *bitOffset. It returns Parsed once frameLen
// bits have been written, or Proceed if src runs out first — in which case
// all internal state (including *bitOffset) is left such that the next call
// resumes exactly where this one stopped.
func (g *GFSK) Demod(dst []byte, bitOffset *int, frameLen int, src []float32) sonde.ParserStatus {
	for i := range src {
		sample := g.agc.Apply(src[i])
		g.lpf.Forward(sample)

		switch g.timing.AdvanceSlot() {
		case 1:
			g.interm = g.lpf.Get()
		case 2:
			decision := g.lpf.Get()
			g.timing.Retime(g.interm, decision)

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

	return sonde.Proceed
}

func setBit(buf []byte, bitOffset int, v byte) {
	idx := bitOffset / 8
	shift := uint(7 - bitOffset%8)
	if v != 0 {
		buf[idx] |= 1 << shift
	} else {
		buf[idx] &^= 1 << shift
	}
}
