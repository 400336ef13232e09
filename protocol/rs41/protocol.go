// Package rs41 decodes Vaisala RS41 radiosonde telemetry: GFSK 4800 baud,
// PRN-descrambled, Reed-Solomon(255,231) interleave-2 protected frames
// carrying a small set of TLV subframes.
package rs41

const (
	Baudrate = 4800

	SyncWord = 0x086d53884469481f
	SyncLen  = 8

	rsN          = 255
	rsK          = 231
	rsT          = rsN - rsK
	rsPoly       = 0x11D
	rsFirstRoot  = 0
	rsRootSkip   = 1
	interleaving = 2

	dataLen     = 263
	xdataLen    = 198
	flagExt     = 0xF0
	maxFrameLen = SyncLen + rsT*interleaving + 1 + dataLen + xdataLen

	calibFragSize = 16
	serialLen     = 8
)

// Subframe type bytes.
const (
	sfEmpty   = 0x76
	sfInfo    = 0x79
	sfPTU     = 0x7A
	sfGPSPos  = 0x7B
	sfGPSInfo = 0x7C
	sfGPSRaw  = 0x7D
	sfXData   = 0x7E
)

// prn is the fixed 64-byte pseudo-random sequence RS41 frames are XORed
// against after bit reversal, obtained by autocorrelating the extra data
// present in ozonesonde transmissions.
var prn = [64]byte{
	0x96, 0x83, 0x3e, 0x51, 0xb1, 0x49, 0x08, 0x98,
	0x32, 0x05, 0x59, 0x0e, 0xf9, 0x44, 0xc6, 0x26,
	0x21, 0x60, 0xc2, 0xea, 0x79, 0x5d, 0x6d, 0xa1,
	0x54, 0x69, 0x47, 0x0c, 0xdc, 0xe8, 0x5c, 0xf1,
	0xf7, 0x76, 0x82, 0x7f, 0x07, 0x99, 0xa2, 0x2c,
	0x93, 0x7c, 0x30, 0x63, 0xf5, 0x10, 0x2e, 0x61,
	0xd0, 0xbc, 0xb4, 0xb6, 0x06, 0xaa, 0xf4, 0x23,
	0x78, 0x6e, 0x3b, 0xae, 0xbf, 0x7b, 0x4c, 0xc1,
}

// descramble bit-reverses every byte of frame, then XORs it against the
// repeating PRN sequence. frame holds only the post-syncword portion of the
// on-air frame (the decoder skips the 8-byte sync marker that heads the
// framer's output), so the PRN phase is advanced by SyncLen bytes up front to
// stay aligned with the position the sequence would occupy counting from
// the start of the full on-air frame.
func descramble(frame []byte) {
	for i := range frame {
		var tmp byte
		b := frame[i]
		for j := 0; j < 8; j++ {
			tmp |= ((b >> (7 - j)) & 1) << j
		}
		frame[i] = tmp ^ prn[(i+SyncLen)%len(prn)]
	}
}
