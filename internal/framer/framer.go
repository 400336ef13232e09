// Package framer turns a continuous demodulated bit stream into aligned,
// fixed-length frames. It owns the bit-level synchronization state machine
// shared by every protocol: accumulate bits, locate the sync word, realign
// the buffer so the frame starts at bit 0, undo polarity inversion.
package framer

import (
	"github.com/dbrief/sondecore/internal/bitops"
	"github.com/dbrief/sondecore/internal/correlator"
	"github.com/dbrief/sondecore/sonde"
)

// Demodulator is implemented by the GFSK and AFSK front ends. Demod advances
// demodulation, writing decision bits into dst starting at *bitOffset until
// either frameLen bits have accumulated (returning Parsed and leaving
// *bitOffset == frameLen) or src is exhausted first (returning Proceed,
// *bitOffset updated to reflect progress so the next call resumes cleanly).
type Demodulator interface {
	Demod(dst []byte, bitOffset *int, frameLen int, src []float32) sonde.ParserStatus
}

type state int

const (
	stateReadPre state = iota
	stateRead
	stateRealign
)

// Framer implements the three-state alignment FSM described for every
// protocol: ReadPre, Read, Realign.
type Framer struct {
	demod Demodulator
	corr  correlator.Correlator

	state              state
	bitOffset          int
	offset, syncOffset int
	inverted           bool

	frameLen int // bits
	syncLen  int // bytes

	buf []byte
}

// New builds a Framer that demodulates via demod, synchronizes on corr, and
// yields frames of frameLenBits bits once aligned.
func New(demod Demodulator, corr correlator.Correlator, syncLenBytes, frameLenBits int) *Framer {
	// Realign may demodulate up to frameLenBits+syncOffset bits (syncOffset
	// is at most frameLenBits), and ReadPre copies one byte past the tail it
	// carries over to the next frame.
	bufBits := 2*frameLenBits + 8*syncLenBytes
	return &Framer{
		demod:    demod,
		corr:     corr,
		state:    stateRead,
		frameLen: frameLenBits,
		syncLen:  syncLenBytes,
		buf:      make([]byte, (bufBits+7)/8+1),
	}
}

// Read advances the alignment FSM, consuming from src and writing frame bits
// into dst (which must be at least frameLenBits/8 bytes). It returns Proceed
// while more samples are needed, and Parsed once a full frame has been
// demodulated, synchronized, and realigned into dst starting at bit 0.
func (f *Framer) Read(dst []byte, src []float32) sonde.ParserStatus {
	switch f.state {
	case stateReadPre:
		copy(f.buf, f.buf[f.frameLen/8:f.frameLen/8+f.bitOffset/8+1])
		f.state = stateRead
		fallthrough
	case stateRead:
		if f.demod.Demod(f.buf, &f.bitOffset, f.frameLen+8*f.syncLen, src) == sonde.Proceed {
			return sonde.Proceed
		}

		f.syncOffset, f.inverted = correlator.Correlate(f.corr, f.buf[:f.frameLen/8+f.syncLen])
		f.offset = f.frameLen + 8*f.syncLen
		f.bitOffset = max(8*f.syncLen, f.syncOffset)

		f.state = stateRealign
		fallthrough
	case stateRealign:
		if f.syncOffset > f.syncLen*8 {
			if f.demod.Demod(f.buf, &f.offset, f.frameLen+f.syncOffset, src) == sonde.Proceed {
				return sonde.Proceed
			}
		}

		if f.syncOffset != 0 {
			bitops.Bitcpy(f.buf, f.buf, f.syncOffset, f.frameLen)
		}

		if f.inverted {
			for i := 0; i < (f.frameLen-7)/8+1; i++ {
				f.buf[i] ^= 0xFF
			}
		}

		copy(dst, f.buf[:(f.frameLen+7)/8])

		f.state = stateReadPre
		return sonde.Parsed
	}

	return sonde.Proceed
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
