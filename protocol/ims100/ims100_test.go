package ims100

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescrambleChangesInput(t *testing.T) {
	original := []byte{0x12, 0x34, 0x56, 0x78, 0x9A}
	frame := append([]byte(nil), original...)
	descramble(frame)
	require.NotEqual(t, original, frame)
}

func TestFreqToResistancePolynomial(t *testing.T) {
	poly := [4]float32{100, 2, 0, 0}
	r := freqToResistance(50, 100, poly) // ratio = 4*50/100 = 2
	require.InDelta(t, 104.0, r, 1e-3)
}

func TestSplineTempReturnsFirstTempAtFirstResistance(t *testing.T) {
	resists := [12]float32{1000, 900, 800, 700, 600, 500, 400, 300, 200, 100, 50, 25}
	temps := [12]float32{-60, -50, -40, -30, -20, -10, 0, 10, 20, 30, 40, 50}

	got := splineTemp(1000, resists, temps)
	require.InDelta(t, -60.0, got, 1e-3)
}

func TestGPSLatDecimalConversion(t *testing.T) {
	// 45 degrees, 30 minutes -> NMEA-style raw = 45*1e6 + 30*1e4
	raw := int32(45*1000000 + 300000)
	require.InDelta(t, 45.5, gpsLat(raw), 1e-2)
}

func TestWaterVaporSatPressureIncreasesWithTemp(t *testing.T) {
	low := waterVaporSatPressure(0)
	high := waterVaporSatPressure(25)
	require.Greater(t, high, low)
}

func TestUnpackProducesExpectedLength(t *testing.T) {
	frame := make([]byte, frameLenBits/8) // decoded-domain bit count
	data, _ := unpack(frame)
	require.Equal(t, unpackedPerFrame, len(data))
}
