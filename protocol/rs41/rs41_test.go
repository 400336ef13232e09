package rs41

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func bitReverse(b byte) byte {
	var out byte
	for j := 0; j < 8; j++ {
		out |= ((b >> (7 - j)) & 1) << j
	}
	return out
}

func TestDescrambleMatchesBitReverseThenPRNXor(t *testing.T) {
	frame := make([]byte, 16)
	for i := range frame {
		frame[i] = byte(i * 17)
	}
	want := make([]byte, len(frame))
	for i, b := range frame {
		want[i] = bitReverse(b) ^ prn[(i+SyncLen)%len(prn)]
	}

	descramble(frame)
	require.Equal(t, want, frame)
}

func TestParseInfoSubframeExtractsSerialAndSeq(t *testing.T) {
	data := make([]byte, infoLen)
	binary.LittleEndian.PutUint16(data[infoFrameSeq:], 15340)
	copy(data[infoSerial:], "S3220650")
	data[infoFragCount] = 51
	data[infoFragSeq] = 3

	info, ok := parseInfoSubframe(data)
	require.True(t, ok)
	require.Equal(t, uint16(15340), info.frameSeq)
	require.Equal(t, "S3220650", info.serial)
	require.Equal(t, uint8(51), info.fragCount)
	require.Equal(t, uint8(3), info.fragSeq)
}

func TestParseInfoSubframeRejectsShortPayload(t *testing.T) {
	_, ok := parseInfoSubframe(make([]byte, infoLen-1))
	require.False(t, ok)
}

func TestParsePTUSubframeReadsADCFields(t *testing.T) {
	data := make([]byte, ptuLen)
	data[ptuTempMain], data[ptuTempMain+1], data[ptuTempMain+2] = 0x32, 0xee, 0x5f
	binary.LittleEndian.PutUint16(data[ptuPressureTemp:], uint16(int16(-500)))

	ptu, ok := parsePTUSubframe(data)
	require.True(t, ok)
	require.Equal(t, uint32(0x5fee32), ptu.tempMain)
	require.Equal(t, int16(-500), ptu.pressureTemp)
}

func TestReconstructTempRejectsZeroReadings(t *testing.T) {
	c := NewCalibration()
	_, ok := c.reconstructTemp(0, 0x5FED41, 0x5FECFD)
	require.False(t, ok)
}

func TestReconstructTempWithDefaultCalibration(t *testing.T) {
	c := NewCalibration()
	temp, ok := c.reconstructTemp(0x5FEE32, 0x5FED41, 0x5FECFD)
	require.True(t, ok)
	require.Greater(t, temp, float32(-90))
	require.Less(t, temp, float32(60))
	require.False(t, c.Calibrated())
	require.Less(t, c.Percent(), float32(100))
}

func TestReconstructHumidityClampsToValidRange(t *testing.T) {
	c := NewCalibration()
	temp, _ := c.reconstructTemp(0x5FEE32, 0x5FED41, 0x5FECFD)
	rh, ok := c.reconstructHumidity(0x400000, 0x300000, 0x500000, temp)
	require.True(t, ok)
	require.GreaterOrEqual(t, rh, float32(0))
	require.LessOrEqual(t, rh, float32(100))
}

func TestReconstructPressureRejectsZeroReadings(t *testing.T) {
	c := NewCalibration()
	_, ok := c.reconstructPressure(0, 0x300000, 0x500000, 0)
	require.False(t, ok)
}

func TestReconstructPressureWithDefaultCalibration(t *testing.T) {
	c := NewCalibration()
	temp, _ := c.reconstructTemp(0x5FEE32, 0x5FED41, 0x5FECFD)
	pressure, ok := c.reconstructPressure(0x700000, 0x600000, 0x900000, temp)
	require.True(t, ok)
	require.Greater(t, pressure, float32(0))
	require.Less(t, pressure, float32(1100))
}

func TestParseGPSPosAndInfoSubframes(t *testing.T) {
	pos := make([]byte, gpsPosLen)
	binary.LittleEndian.PutUint32(pos[gpsPosX:], 1000000)
	pos[gpsPosSVCount] = 9
	got, ok := parseGPSPosSubframe(pos)
	require.True(t, ok)
	require.Equal(t, uint32(1000000), got.x)
	require.Equal(t, uint8(9), got.svCount)

	info := make([]byte, gpsInfoLen)
	binary.LittleEndian.PutUint16(info[gpsInfoWeek:], 2250)
	binary.LittleEndian.PutUint32(info[gpsInfoMS:], 518400000)
	gi, ok := parseGPSInfoSubframe(info)
	require.True(t, ok)
	require.Equal(t, uint16(2250), gi.week)
	require.Equal(t, uint32(518400000), gi.ms)
}
