// Package imet4 decodes InterMet iMet-4 radiosonde telemetry: AFSK 1200
// baud (mark 1200 Hz, space 2200 Hz), per-byte bit-reversed, carrying a
// sequence of type-length-checksummed subframes (PTU, GPS, their
// extended XDATA-bearing counterparts, and raw XDATA) with no transmitted
// date, so day rollover is inferred from the system clock.
package imet4

const (
	Baudrate  = 1200
	MarkFreq  = 1200.0
	SpaceFreq = 2200.0

	SyncWord uint32 = 0xffffa024
	SyncLen         = 4

	frameLenBits = 600

	startOfHeader = 0x01

	// Subframe type bytes; the reference decoder's type enum was not
	// present in the retrieved sources, so these follow the ordering its
	// call sites imply (PTU and GPS first, their XDATA-capable
	// counterparts next, then raw XDATA).
	sfTypePTU   = 0x10
	sfTypeGPS   = 0x20
	sfTypePTUX  = 0x11
	sfTypeGPSX  = 0x21
	sfTypeXData = 0x30

	headerLen = 2 // start-of-header + type
	crcLen    = 2
)
