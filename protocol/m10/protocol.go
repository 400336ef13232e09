// Package m10 decodes Meteomodem M10 and M20 radiosonde telemetry: GFSK
// 9600 baud, Manchester coded, self-XOR descrambled frames protected by a
// proprietary byte-wise CRC, carrying a single variable-layout subframe per
// frame distinguished by a type byte (0x9F for M10, 0x20 for M20).
package m10

const (
	Baudrate = 9600

	SyncWord uint64 = 0x66666666b366
	SyncLen         = 6

	// frameLen is the number of raw (pre-Manchester) bits the framer
	// assembles per frame.
	frameLen    = 1664
	eccFrameLen = frameLen / 2 // 832 bits = 104 bytes

	m10FTypeData = 0x9F
	m20FTypeData = 0x20

	// headerLen is sync_mark[3]+len[1]+type[1], present ahead of the
	// type-specific body in every frame.
	headerLen = 5
	crcLen    = 2
)
