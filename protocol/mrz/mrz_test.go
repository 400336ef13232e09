package mrz

import (
	"encoding/binary"
	"testing"

	"github.com/dbrief/sondecore/internal/ecc"
	"github.com/stretchr/testify/require"
)

func buildFrame(t *testing.T) []byte {
	t.Helper()
	frame := make([]byte, decodedFrameLenBits/8)
	body := frame[syncBytes : syncBytes+dataLen]

	body[offSeq] = 0x07
	body[offHour], body[offMin], body[offSec] = 12, 34, 56
	binary.BigEndian.PutUint32(body[offX:], uint32(int32(100000)))
	binary.BigEndian.PutUint32(body[offY:], uint32(int32(200000)))
	binary.BigEndian.PutUint32(body[offZ:], uint32(int32(630000000)))
	binary.BigEndian.PutUint16(body[offTemp:], uint16(int16(-500)))
	binary.BigEndian.PutUint16(body[offRH:], 4500)
	body[offCalibSeq] = 1

	crc := ecc.CRC16Modbus(body)
	binary.LittleEndian.PutUint16(frame[syncBytes+dataLen:], crc)

	return frame
}

func TestVerifyAcceptsMatchingCRC(t *testing.T) {
	frame := buildFrame(t)
	require.True(t, verify(frame))

	frame[syncBytes] ^= 0xFF
	require.False(t, verify(frame))
}

func TestSeqMasksLowNibble(t *testing.T) {
	data := make([]byte, dataLen)
	data[offSeq] = 0xF3
	require.Equal(t, 3, seq(data))
}

func TestPositionScaling(t *testing.T) {
	data := make([]byte, dataLen)
	binary.BigEndian.PutUint32(data[offX:], uint32(int32(-12345)))
	require.InDelta(t, -123.45, posX(data), 1e-5)
}

func TestTempAndRHScaling(t *testing.T) {
	data := make([]byte, dataLen)
	binary.BigEndian.PutUint16(data[offTemp:], uint16(int16(-1523)))
	binary.BigEndian.PutUint16(data[offRH:], 10500)

	require.InDelta(t, -15.23, temp(data), 1e-3)
	require.Equal(t, float32(100), rh(data)) // clamped
}

func TestCalibSeqIsOneIndexedOnAir(t *testing.T) {
	data := make([]byte, dataLen)
	data[offCalibSeq] = 5
	require.Equal(t, 4, calibSeq(data))
}

func TestDatePartsDecodesPackedDecimal(t *testing.T) {
	year, month, day := dateParts(300126)
	require.Equal(t, 2026, year)
	require.Equal(t, 1, month)
	require.Equal(t, 30, day)
}

func TestSerialStringFormat(t *testing.T) {
	c := Calibration{calDate: 300126, serial: 42}
	require.Equal(t, "MRZ-H11600042", c.serialString())
}
