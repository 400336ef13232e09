package ims100

import (
	"github.com/dbrief/sondecore/internal/bitops"
	"github.com/dbrief/sondecore/internal/ecc"
)

const (
	subframeCount    = frameLenBits / subframeLenBits
	messagesPerSub   = (subframeLenBits - syncRemnantBits) / messageLen
	unpackedPerFrame = subframeCount * messagesPerSub * 4 // 2 bytes per value x 2 values per message

	bchStartIdx = bchN - messageLen
)

// descramble undoes the iMS-100 self-referential scrambler: each byte is
// XORed with itself shifted left one bit, with the incoming bit 0 filled
// from the following byte's top bit (zero for the final byte).
func descramble(frame []byte) {
	out := make([]byte, len(frame))
	copy(out, frame)
	for i := range out {
		var nextTop byte
		if i+1 < len(out) {
			nextTop = frame[i+1] >> 7
		}
		out[i] = frame[i] ^ (frame[i]<<1 | nextTop)
	}
	copy(frame, out)
}

// errorCorrect BCH(63,51)-corrects every 46-bit message across the four
// subframes of frame, clearing a message's two data values to zero when
// it cannot be corrected, and returns the total corrected-bit count or -1
// if any message failed.
func errorCorrect(frame []byte, bch *ecc.RSDecoder) int {
	errcount := 0
	message := make([]byte, bchN)
	staging := make([]byte, messageLen/8+1)

	for sub := 0; sub < subframeCount; sub++ {
		subOff := sub * subframeLenBits
		for j := syncRemnantBits; j < subframeLenBits; j += messageLen {
			offset := subOff + j

			bitops.Bitcpy(staging, frame, offset, messageLen)
			for k := range message {
				message[k] = 0
			}
			for k := 0; k < messageLen; k++ {
				message[bchStartIdx+k] = (staging[k/8] >> (7 - uint(k%8))) & 1
			}

			delta := bch.FixBlock(message)
			if delta < 0 || errcount < 0 {
				errcount = -1
			} else if delta > 0 {
				for k := 0; k < bchStartIdx; k++ {
					if message[k] != 0 {
						errcount = -1
						delta = -1
						break
					}
				}
				if delta >= 0 {
					errcount += delta
				}
			}

			if delta < 0 {
				bitops.Bitclear(frame, offset, 2*valueLen)
			} else if delta > 0 {
				bitops.Bitpack(frame, message[bchStartIdx:], offset, messageLen)
			}
		}
	}

	return errcount
}

// unpack extracts the two 17-bit values out of every message across all
// four subframes, dropping the trailing parity bit and packing the
// remaining 16 bits as two bytes per value, and reports per-value parity
// validity as a bitmask (most recent check in the low bit).
func unpack(frame []byte) (data []byte, validmask uint64) {
	data = make([]byte, 0, unpackedPerFrame)
	staging := make([]byte, 3)

	for sub := 0; sub < subframeCount; sub++ {
		subOff := sub * subframeLenBits
		for j := syncRemnantBits; j < subframeLenBits; j += messageLen {
			offset := subOff + j

			bitops.Bitcpy(staging, frame, offset, valueLen)
			validmask = validmask<<1 | parityBit(staging)
			data = append(data, staging[0], staging[1])

			bitops.Bitcpy(staging, frame, offset+valueLen, valueLen)
			validmask = validmask<<1 | parityBit(staging)
			data = append(data, staging[0], staging[1])
		}
	}

	return data, validmask
}

// parityBit returns 1 when the 17-bit value in staging has even parity,
// i.e. its trailing witness bit matches the parity of the 16 data bits.
func parityBit(staging []byte) uint64 {
	if (bitops.CountOnes(staging[:2])&1 != 0) == (staging[2]>>7 != 0) {
		return 1
	}
	return 0
}
