package framer

import (
	"testing"

	"github.com/dbrief/sondecore/internal/correlator"
	"github.com/dbrief/sondecore/sonde"
	"github.com/stretchr/testify/require"
)

// bitFeedDemod is a test double standing in for the DSP front end: the full
// sample stream carries one decision bit per sample (>0 means 1), and the
// whole stream is replayed on every call, with pos tracking how far into it
// this demod has already consumed, mirroring how a real demod persists its
// read cursor across suspend/resume calls.
type bitFeedDemod struct {
	pos int
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

func (d *bitFeedDemod) Demod(dst []byte, bitOffset *int, frameLen int, src []float32) sonde.ParserStatus {
	for *bitOffset < frameLen && d.pos < len(src) {
		bit := byte(0)
		if src[d.pos] > 0 {
			bit = 1
		}
		setBit(dst, *bitOffset, bit)
		*bitOffset++
		d.pos++
	}
	if *bitOffset >= frameLen {
		return sonde.Parsed
	}
	return sonde.Proceed
}

func bitsToFloats(bits []byte) []float32 {
	out := make([]float32, len(bits))
	for i, b := range bits {
		if b != 0 {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}

func bytesToBits(b []byte) []byte {
	out := make([]byte, 0, len(b)*8)
	for _, by := range b {
		for i := 7; i >= 0; i-- {
			out = append(out, (by>>i)&1)
		}
	}
	return out
}

func TestFramerIdempotence(t *testing.T) {
	const syncWord = uint64(0x086d53884469481f)
	syncBytes := []byte{0x08, 0x6d, 0x53, 0x88, 0x44, 0x69, 0x48, 0x1f}
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03, 0x04}

	frame := append(append([]byte{}, syncBytes...), payload...)
	// The framer reads 8*syncLen bits past a frame before aligning it, so one
	// more sync word follows the third frame as slack.
	stream := append(append(append(append([]byte{}, frame...), frame...), frame...), syncBytes...)

	corr := correlator.New(syncWord, 8)
	fr := New(&bitFeedDemod{}, corr, 8, len(frame)*8)

	src := bitsToFloats(bytesToBits(stream))

	// Framer output starts at the sync word, so each read yields the whole frame.
	dst := make([]byte, len(frame))
	var results [][]byte
	for i := 0; i < 3; i++ {
		status := fr.Read(dst, src)
		require.Equal(t, sonde.Parsed, status)
		got := make([]byte, len(dst))
		copy(got, dst)
		results = append(results, got)
	}

	require.Len(t, results, 3)
	require.Equal(t, results[0], results[1])
	require.Equal(t, results[1], results[2])
	require.Equal(t, frame, results[0])
}
