package imet4

import (
	"encoding/binary"
	"math"
)

// Field byte offsets, relative to the first byte after the
// start-of-header/type header.
const (
	ptuOffTemp     = 0
	ptuOffRH       = 2
	ptuOffPressure = 4
	ptuLen         = 7

	gpsOffLat  = 0
	gpsOffLon  = 4
	gpsOffAlt  = 8
	gpsOffHour = 12
	gpsOffMin  = 13
	gpsOffSec  = 14
	gpsLen     = 15

	gpsxOffHour  = 0
	gpsxOffMin   = 1
	gpsxOffSec   = 2
	gpsxOffDLat  = 3
	gpsxOffDLon  = 7
	gpsxOffClimb = 11
	gpsxLen      = 15

	ptuxOffTemp     = 0
	ptuxOffRH       = 2
	ptuxOffPressure = 4
	ptuxLen         = 7
)

func beFloat32(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

func ptuTemp(body []byte) float32 {
	return float32(int16(binary.BigEndian.Uint16(body[ptuOffTemp:]))) / 100.0
}

func ptuRH(body []byte) float32 {
	return float32(binary.BigEndian.Uint16(body[ptuOffRH:])) / 100.0
}

func ptuPressure(body []byte) float32 {
	raw := uint32(body[ptuOffPressure]) | uint32(body[ptuOffPressure+1])<<8 | uint32(body[ptuOffPressure+2])<<16
	return float32(raw) / 100.0
}

func gpsLat(body []byte) float32 { return beFloat32(body[gpsOffLat:]) }
func gpsLon(body []byte) float32 { return beFloat32(body[gpsOffLon:]) }
func gpsAlt(body []byte) float32 { return beFloat32(body[gpsOffAlt:]) - 5000.0 }

func gpsxDLat(body []byte) float32  { return beFloat32(body[gpsxOffDLat:]) }
func gpsxDLon(body []byte) float32  { return beFloat32(body[gpsxOffDLon:]) }
func gpsxClimb(body []byte) float32 { return beFloat32(body[gpsxOffClimb:]) }

func gpsxSpeed(body []byte) float32 {
	dlat, dlon := gpsxDLat(body), gpsxDLon(body)
	return float32(math.Sqrt(float64(dlat*dlat + dlon*dlon)))
}

func gpsxHeading(body []byte) float32 {
	dlat, dlon := gpsxDLat(body), gpsxDLon(body)
	h := float32(math.Atan2(float64(dlat), float64(dlon)) * 180 / math.Pi)
	if h < 0 {
		h += 360
	}
	return h
}

// o3CorrectionPressures/o3CorrectionFactors and ozonePPB give the ENSCI
// ozonesonde pressure correction, interpolated linearly between table
// points. The RS41 XDATA decoder keeps its own table for the same sensor,
// with different points and factors and no interpolation.
var o3CorrectionPressures = [12]float32{0, 3, 5, 10, 15, 20, 30, 40, 50, 70, 100, 1100}
var o3CorrectionFactors = [12]float32{1.241, 1.241, 1.224, 1.180, 1.140, 1.088, 1.000, 0.974, 0.988, 1.000, 1.000, 1.000}

func o3CorrectionFactor(pressureHPa float32) float32 {
	if pressureHPa <= o3CorrectionPressures[0] {
		return o3CorrectionFactors[0]
	}
	for i := 1; i < len(o3CorrectionPressures); i++ {
		if pressureHPa <= o3CorrectionPressures[i] {
			p0, p1 := o3CorrectionPressures[i-1], o3CorrectionPressures[i]
			f0, f1 := o3CorrectionFactors[i-1], o3CorrectionFactors[i]
			frac := (pressureHPa - p0) / (p1 - p0)
			return f0 + frac*(f1-f0)
		}
	}
	return o3CorrectionFactors[len(o3CorrectionFactors)-1]
}

// ozonePPB converts an ozone cell current reading into a concentration in
// ppb, combining the current/flowrate/pump-temperature partial pressure
// with the pressure-dependent correction factor, matching xdata_ozone_ppb.
func ozonePPB(pressureHPa, cellCurrentUA, flowrateSccm, pumpTempK float32) float32 {
	mpa := 4.307e-3 * cellCurrentUA * pumpTempK * flowrateSccm
	return mpa * o3CorrectionFactor(pressureHPa) * 1000.0 / pressureHPa
}

func xdataOzone(pressureHPa float32, body []byte) float32 {
	if len(body) < 4 {
		return 0
	}
	cellCurrentUA := float32(binary.BigEndian.Uint16(body[0:])) / 1000.0
	pumpTempK := float32(binary.BigEndian.Uint16(body[2:])) / 100.0
	const defaultFlowrate = 30.0
	return ozonePPB(pressureHPa, cellCurrentUA, defaultFlowrate, pumpTempK)
}
