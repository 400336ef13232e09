// Package manchester decodes Manchester-coded bit streams, as used by
// DFM09, iMS-100, and M10/M20 telemetry: each output bit is carried by two
// raw bits, low-then-high for a 1 and high-then-low for a 0.
package manchester

import "github.com/dbrief/sondecore/internal/bitops"

// Decode reads 2*outBits bits from src and writes outBits decoded bits into
// dst starting at bit 0. An invalid two-bit pattern (00 or 11, a missed
// transition) decodes as 0 rather than erroring, matching how noisy frames
// fall through error correction downstream instead of aborting here.
func Decode(dst, src []byte, outBits int) {
	for i := range dst[:(outBits+7)/8] {
		dst[i] = 0
	}

	var window [1]byte
	for i := 0; i < outBits; i++ {
		bitops.Bitcpy(window[:], src, 2*i, 2)
		bit := byte(0)
		if window[0]>>6 == 0x1 { // low-high
			bit = 1
		}
		setBit(dst, i, bit)
	}
}

func setBit(dst []byte, bitOffset int, v byte) {
	idx := bitOffset / 8
	shift := uint(7 - bitOffset%8)
	if v != 0 {
		dst[idx] |= 1 << shift
	} else {
		dst[idx] &^= 1 << shift
	}
}
