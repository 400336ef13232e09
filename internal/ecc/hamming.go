package ecc

import "math/bits"

var hammingMasks = [4]byte{0xaa, 0x66, 0x1e, 0xff}

// HammingFixByte corrects a single bit error in one extended Hamming(8,4)-coded
// byte. The first three masks give the error location and the 0xff mask the
// overall parity (bit 3 of the syndrome). It returns 1 and flips the
// offending bit if exactly one error was found (odd overall parity), 0 if
// the byte was already clean, and -1 if a non-zero location comes with even
// overall parity (two errors).
func HammingFixByte(b *byte) int {
	errPos := 0
	for j, mask := range hammingMasks {
		errPos += (1 << j) * (bits.OnesCount8(*b&mask) % 2)
	}

	if errPos == 0 {
		return 0
	}
	if errPos < 8 {
		return -1
	}

	*b ^= 1 << ((16 - errPos) % 8)
	return 1
}

// HammingFixBlock applies HammingFixByte across every byte of data in place,
// returning the total number of bits corrected, or -1 on the first
// uncorrectable byte (data is left partially corrected in that case, as the
// caller is expected to discard the whole block).
func HammingFixBlock(data []byte) int {
	total := 0
	for i := range data {
		n := HammingFixByte(&data[i])
		if n < 0 {
			return -1
		}
		total += n
	}
	return total
}
