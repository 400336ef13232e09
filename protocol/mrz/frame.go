package mrz

import "github.com/dbrief/sondecore/internal/ecc"

// verify checks the trailing CRC16/MODBUS against the data region, which
// runs from just after the sync word to just before the CRC itself, per
// mrzn1_frame_correct.
func verify(frame []byte) bool {
	body := frame[syncBytes : syncBytes+dataLen]
	trailer := frame[syncBytes+dataLen:]
	expected := uint16(trailer[0]) | uint16(trailer[1])<<8
	return ecc.CRC16Modbus(body) == expected
}
