// Package dfm decodes Graw DFM06/DFM09 radiosonde telemetry: GFSK 2500
// baud, Manchester-coded, bit-interleaved frames protected by a
// Hamming(8,4) code over each byte, carrying PTU and GPS nibble-packed
// subframes.
package dfm

const (
	Baudrate = 2500

	SyncWord = 0x9a995a55
	SyncLen  = 4

	// frameLen is the number of raw (pre-Manchester) bits the framer
	// assembles per frame; Manchester decoding halves it into eccFrameLen
	// bits of payload.
	frameLen    = 560
	eccFrameLen = frameLen / 2 // 280 bits = 35 bytes

	interleavingPTU = 7
	interleavingGPS = 13

	dfm06SerialType = 0x06
)
