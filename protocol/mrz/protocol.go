// Package mrz decodes MRZ-N1 (Vektor) radiosonde telemetry: GFSK 2400 baud,
// Manchester coded, a CRC16/MODBUS-checked frame carrying ECEF-style
// position and velocity rather than the lat/lon/alt most other protocols
// transmit directly, plus a PTU pair and a fragmented calibration table.
//
// The reference decoder's MRZN1Frame struct was stripped down to a bare
// sync/data/crc byte layout during retrieval; every named field byte offset
// below is reconstructed from the accessor formulas in parser.c rather than
// a declared struct, and is documented as such at its point of use.
package mrz

const (
	Baudrate = 2400
	SyncWord uint64 = 0x666666666555a599
	SyncLen         = 8

	// frameLenBits is the raw, pre-Manchester bit count the framer
	// operates on; decodedFrameLenBits is half that, post-Manchester.
	frameLenBits        = 816
	decodedFrameLenBits = frameLenBits / 2

	syncBytes = 4
	crcLen    = 2
	dataLen   = decodedFrameLenBits/8 - syncBytes - crcLen

	calibFragOff   = 26
	calibFragSize  = 16
	// calibFragCount is not pinned down anywhere in the retrieved sources;
	// 64 matches the convention every other fragmented-calibration
	// protocol in this module uses and is carried over here for lack of a
	// better source.
	calibFragCount = 64

	calibOffDate    = 0
	calibOffCalDate = 4
	calibOffSerial  = 8
)
