package imet4

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescrambleReversesBitsPerByte(t *testing.T) {
	frame := []byte{0b10000000, 0b00000001}
	descramble(frame)
	require.Equal(t, byte(0b00000001), frame[0])
	require.Equal(t, byte(0b10000000), frame[1])
}

func TestPTUFieldDecoding(t *testing.T) {
	body := make([]byte, ptuLen)
	binary.BigEndian.PutUint16(body[ptuOffTemp:], uint16(int16(1523))) // 15.23 C
	binary.BigEndian.PutUint16(body[ptuOffRH:], 6500)                 // 65.00 %

	require.InDelta(t, 15.23, ptuTemp(body), 1e-3)
	require.InDelta(t, 65.0, ptuRH(body), 1e-3)
}

func TestGPSAltitudeOffset(t *testing.T) {
	body := make([]byte, gpsLen)
	binary.BigEndian.PutUint32(body[gpsOffAlt:], math.Float32bits(5500.0))
	require.InDelta(t, 500.0, gpsAlt(body), 1e-3)
}

func TestOzoneCorrectionFactorInterpolates(t *testing.T) {
	f := o3CorrectionFactor(25)
	require.Greater(t, f, o3CorrectionFactors[6])
	require.Less(t, f, o3CorrectionFactors[5])
}

func TestDayRolloverHandlesMidnightCrossing(t *testing.T) {
	tm := dayRolloverTime(23, 59, 0)
	require.Equal(t, 23, tm.Hour())
}
