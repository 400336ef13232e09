// Package ims100 decodes Meisei iMS-100/RS-11G radiosonde telemetry: GFSK
// 2400 baud, Manchester coded, 1200-bit frames split into four
// 300-bit subframes, each protected per-message by a BCH(63,51) code and
// carrying alternating even/odd content (position+time vs. PTU).
package ims100

const (
	Baudrate = 2400

	SyncWord uint64 = 0xaaa56a659a99559a
	SyncLen         = 8

	// frameLenBits is the decoded (post-Manchester) bit count the
	// subframe/message layout below is expressed in; the framer reads
	// twice that many raw bits off the baseband stream.
	frameLenBits    = 1200
	rawFrameLenBits = 2 * frameLenBits
	subframeLenBits = 300
	syncRemnantBits = 8 * 3 // trailing bytes of the correlator sync word folded into each subframe

	bchN       = 63
	bchK       = 51
	bchGenPoly = 0x61
	valueLen   = 17
	messageLen = 2*valueLen + 12 // two 17-bit values plus 12 bits of BCH parity

	// calibFragments is the number of calibration fragments indexed by
	// the 6-bit fragment counter.
	calibFragments = 64
)

var bchRoots = []byte{0x2, 0x4, 0x8, 0xf, 0x10, 0x1a, 0x21, 0x27, 0x2a, 0x2d, 0x34, 0x3e}
