package rs41

import "github.com/dbrief/sondecore/internal/ecc"

const rsChecksumLen = rsT * interleaving // 48 bytes, RS41_RS_LEN

// isExtended reports whether frame's extended flag (the first byte of the
// post-checksum payload) selects the longer XDATA-carrying frame length.
func isExtended(frame []byte) bool {
	return frame[rsChecksumLen] == flagExt
}

// correctFrame deinterleaves frame's two RS(255,231) codewords (the
// extended flag and data payload interleaved with the trailing checksum
// bytes) and runs Reed-Solomon error correction on each in place. It
// returns the total number of symbol errors corrected, or -1 if either
// codeword was uncorrectable.
func correctFrame(frame []byte, rs *ecc.RSDecoder) int {
	rsChecksum := frame[:rsChecksumLen]
	payload := frame[rsChecksumLen:]

	chunkLen := (dataLen + 1) / interleaving
	if isExtended(frame) {
		chunkLen = rsK
	}

	totalErrors := 0
	rsBlock := make([]byte, rsN)
	for block := 0; block < interleaving; block++ {
		for i := range rsBlock {
			rsBlock[i] = 0
		}

		for i := 0; i < chunkLen; i++ {
			rsBlock[i] = payload[interleaving*i+block]
		}
		for i := 0; i < rsT; i++ {
			rsBlock[rsK+i] = rsChecksum[i+rsT*block]
		}

		n := rs.FixBlock(rsBlock)
		if n < 0 || totalErrors < 0 {
			totalErrors = -1
			continue
		}
		totalErrors += n

		for i := 0; i < chunkLen; i++ {
			payload[interleaving*i+block] = rsBlock[i]
		}
		for i := 0; i < rsT; i++ {
			rsChecksum[i+rsT*block] = rsBlock[rsK+i]
		}
	}

	return totalErrors
}
