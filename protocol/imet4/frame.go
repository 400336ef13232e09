package imet4

// descramble reverses the bit order of every byte in frame, undoing the
// iMet-4's LSB-first-over-the-air framing.
func descramble(frame []byte) {
	for i, b := range frame {
		var out byte
		for j := 0; j < 8; j++ {
			out |= ((b >> (7 - j)) & 1) << j
		}
		frame[i] = out
	}
}

// subframeDataLen returns how many payload bytes (excluding the
// start-of-header, type, and trailing CRC) a subframe of the given type
// carries. For XDATA subframes, the length is one plus the payload's own
// binary length-prefix byte.
func subframeDataLen(typ byte, body []byte) int {
	switch typ {
	case sfTypePTU:
		return ptuLen
	case sfTypeGPS:
		return gpsLen
	case sfTypePTUX:
		return ptuxLen
	case sfTypeGPSX:
		return gpsxLen
	case sfTypeXData:
		if len(body) == 0 {
			return 0
		}
		return 1 + int(body[0])
	default:
		return 0
	}
}
