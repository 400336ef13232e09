package m10

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescrambleChangesInput(t *testing.T) {
	original := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC}
	frame := append([]byte(nil), original...)

	descramble(frame)
	require.NotEqual(t, original, frame)
}

func TestCrcStepDeterministic(t *testing.T) {
	a := crcStep(0, 0x42)
	b := crcStep(0, 0x42)
	require.Equal(t, a, b)

	c := crcStep(a, 0x13)
	require.NotEqual(t, a, c)
}

func TestVerifyAcceptsMatchingTrailer(t *testing.T) {
	frame := make([]byte, headerLen+10+crcLen)
	for i := range frame[:len(frame)-crcLen] {
		frame[i] = byte(i * 7)
	}
	crc := checksum(frame)
	frame[len(frame)-2] = byte(crc >> 8)
	frame[len(frame)-1] = byte(crc)

	require.True(t, verify(frame))

	frame[len(frame)-1] ^= 0xFF
	require.False(t, verify(frame))
}

func TestM10LatLonScale(t *testing.T) {
	body := make([]byte, 99)
	// lat field at offset 12, representing +45 degrees scaled by 2^32/360
	raw := int32(45.0 * 4294967296.0 / 360.0)
	body[m10OffLat] = byte(raw >> 24)
	body[m10OffLat+1] = byte(raw >> 16)
	body[m10OffLat+2] = byte(raw >> 8)
	body[m10OffLat+3] = byte(raw)

	require.InDelta(t, 45.0, m10Lat(body), 1e-3)
}

func TestM20SerialFormat(t *testing.T) {
	body := make([]byte, 67)
	body[m20OffSN] = 0x06   // serial0 low byte: 6
	body[m20OffSN+1] = 0x00 // serial1 bits all zero
	body[m20OffSN+2] = 0x00

	s := m20Serial(body)
	require.Contains(t, s, "M20-")
}

func TestNTCTempMonotonicWithADC(t *testing.T) {
	low := ntcTemp(500, 1, 3100.0)
	high := ntcTemp(3500, 1, 3100.0)
	// A higher ADC reading means a higher NTC resistance, i.e. colder.
	require.Less(t, high, low)
}
