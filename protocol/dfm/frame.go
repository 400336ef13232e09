package dfm

import "github.com/dbrief/sondecore/internal/ecc"

// eccFrame is the Manchester-decoded, still-interleaved frame: a 2-byte
// sync remnant (left over from the correlator's shorter raw-bit match, and
// otherwise unused), a 7-byte PTU block, and a 26-byte GPS block.
type eccFrame struct {
	ptu [7]byte
	gps [26]byte
}

const (
	eccSyncLen = 2
	eccPTULen  = 7
	eccGPSLen  = 26
)

func parseECCFrame(raw []byte) eccFrame {
	var f eccFrame
	copy(f.ptu[:], raw[eccSyncLen:eccSyncLen+eccPTULen])
	copy(f.gps[:], raw[eccSyncLen+eccPTULen:eccSyncLen+eccPTULen+eccGPSLen])
	return f
}

// deinterleaveBlock undoes the bit-level interleaving DFM spreads across a
// block: bit j of byte i moves to byte (i*8+j)%interleaving+(i-i%interleaving),
// bit position unchanged within its destination byte.
func deinterleaveBlock(block []byte, interleaving int) {
	out := make([]byte, len(block))
	for i := range block {
		for j := 0; j < 8; j++ {
			idx := (i*8+j)%interleaving + (i - i%interleaving)
			out[idx] = out[idx]<<1 | (block[i]>>(7-j))&1
		}
	}
	copy(block, out)
}

func (f *eccFrame) deinterleave() {
	deinterleaveBlock(f.ptu[:], interleavingPTU)
	deinterleaveBlock(f.gps[:], interleavingGPS)
}

// correct Hamming(8,4)-corrects every byte of the PTU and GPS blocks,
// returning the total number of corrected bit errors or -1 if either block
// was uncorrectable.
func (f *eccFrame) correct() int {
	ptuErr := ecc.HammingFixBlock(f.ptu[:])
	gpsErr := ecc.HammingFixBlock(f.gps[:])
	if ptuErr < 0 || gpsErr < 0 {
		return -1
	}
	return ptuErr + gpsErr
}

type ptuSubframe struct {
	typ  byte
	data [3]byte
}

type gpsSubframe struct {
	typ  byte
	data [6]byte
}

// unpackPTU strips the Hamming parity nibbles from the PTU block, leaving
// just its type and 3 payload bytes.
func unpackPTU(ptu [7]byte) ptuSubframe {
	var s ptuSubframe
	s.typ = ptu[0] >> 4
	for i := range s.data {
		s.data[i] = (ptu[1+2*i] & 0xF0) | (ptu[1+2*i+1] >> 4)
	}
	return s
}

// unpackGPS strips the Hamming parity nibbles from the GPS block, which
// packs two independent 7-byte GPS subframes back to back.
func unpackGPS(gps [26]byte) [2]gpsSubframe {
	var out [2]gpsSubframe

	out[0].typ = gps[12] >> 4
	for i := range out[0].data {
		out[0].data[i] = (gps[2*i] & 0xF0) | (gps[2*i+1] >> 4)
	}

	out[1].typ = gps[25] >> 4
	for i := range out[1].data {
		out[1].data[i] = (gps[13+2*i] & 0xF0) | (gps[13+2*i+1] >> 4)
	}

	return out
}
