package m10

import (
	"fmt"
	"math"
)

// Body offsets into an M10 0x9F frame, relative to the first byte after
// the type byte (frame[headerLen:]).
const (
	m10OffDLat    = 2
	m10OffDLon    = 4
	m10OffDAlt    = 6
	m10OffTime    = 8
	m10OffLat     = 12
	m10OffLon     = 16
	m10OffAlt     = 20
	m10OffWeek    = 30
	m10OffRHRef   = 48
	m10OffRHCnt   = 51
	m10OffTempRng = 60
	m10OffTempVal = 61
	m10OffBattVal = 67

	// The reference decoder derives the serial number from four bytes
	// that fall inside what protocol.h otherwise labels as padding and
	// the temperature ADC fields; it addresses them as raw offsets into
	// the frame body rather than through the named overlay, so the
	// names below describe position, not purpose.
	m10SerialA = 61
	m10SerialB = 59
	m10SerialC = 63
	m10SerialD = 62
)

// Body offsets into an M20 0x20 frame, relative to the first byte after
// the type byte.
const (
	m20OffAlt  = 6
	m20OffDLat = 9
	m20OffDLon = 11
	m20OffTime = 13
	m20OffSN   = 16
	m20OffDAlt = 22
	m20OffWeek = 24
	m20OffLat  = 26
	m20OffLon  = 30
	// m20OffTempVal is not present in the retrieved struct layout; the
	// trailing data block is the only remaining candidate for it.
	m20OffTempVal = 34
)

func be16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }
func be32(b []byte) uint32 { return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]) }

func m10Lat(body []byte) float32 {
	return float32(int32(be32(body[m10OffLat:]))) * 360.0 / 4294967296.0
}

func m10Lon(body []byte) float32 {
	return float32(int32(be32(body[m10OffLon:]))) * 360.0 / 4294967296.0
}

func m10Alt(body []byte) float32 {
	return float32(int32(be32(body[m10OffAlt:]))) / 1e3
}

func m10DLat(body []byte) float32 { return float32(int16(be16(body[m10OffDLat:]))) / 200.0 }
func m10DLon(body []byte) float32 { return float32(int16(be16(body[m10OffDLon:]))) / 200.0 }
func m10DAlt(body []byte) float32 { return float32(int16(be16(body[m10OffDAlt:]))) / 200.0 }

func m10Week(body []byte) uint16 { return be16(body[m10OffWeek:]) }
func m10TimeMs(body []byte) uint32 { return be32(body[m10OffTime:]) }

// m10Serial renders the M10 serial number from the four bytes the
// reference decoder pulls out of the frame body.
func m10Serial(body []byte) string {
	return fmt.Sprintf("ME%02X%01X%02X%02X",
		body[m10SerialA], body[m10SerialB], body[m10SerialC], body[m10SerialD])
}

// ntcResistance derives a thermistor resistance in ohms from a 12-bit ADC
// reading, a 0..2 range index selecting the series/parallel bias network,
// and the infinite-temperature resistance of the part.
func ntcResistance(adcVal uint16, rangeIdx uint8, rinf float32) float32 {
	const adcMax = float32((1 << 12) - 1)
	bias := [3]float32{12.1e3, 36.5e3, 475e3}
	parallel := [3]float32{math.MaxFloat32, 330e3, 2e6}

	percent := float32(adcVal&0xFFF) / adcMax

	switch rangeIdx {
	case 0:
		return percent * bias[0] / (1 - percent)
	case 1, 2:
		return percent * bias[rangeIdx] * parallel[rangeIdx] /
			(parallel[rangeIdx] - percent*(bias[rangeIdx]+parallel[rangeIdx]))
	default:
		return rinf
	}
}

func ntcTemp(adcVal uint16, rangeIdx uint8, beta float32) float32 {
	const r0 = 15000.0
	const t0 = 273.15
	rinf := r0 * float32(math.Exp(float64(-beta/t0)))
	resist := ntcResistance(adcVal, rangeIdx, rinf)
	return beta/float32(math.Log(float64(resist/rinf))) - 273.15
}

// m10Temp reconstructs temperature in Celsius from the M10 PB5-41E-K1 NTC
// ADC reading, using the beta value the reference firmware settled on
// after comparing against real sounding data.
func m10Temp(body []byte) float32 {
	adcVal := uint16(body[m10OffTempVal]) | uint16(body[m10OffTempVal+1])<<8
	rangeIdx := body[m10OffTempRng]
	return ntcTemp(adcVal&0xFFF, rangeIdx, 3100.0)
}

// m10RH derives relative humidity from the 555-oscillator frequency
// counter and its reference count at 55% RH, temperature-corrected at
// 400 ppm/°C and clamped to [0, 100].
func m10RH(body []byte) float32 {
	counts := float32(uint32(body[m10OffRHCnt+2])<<16 | uint32(body[m10OffRHCnt+1])<<8 | uint32(body[m10OffRHCnt]))
	ref := float32(uint32(body[m10OffRHRef+2])<<16 | uint32(body[m10OffRHRef+1])<<8 | uint32(body[m10OffRHRef]))

	tempCorr := 1.0 - 400.0e-6*m10Temp(body)
	rh := (counts*tempCorr/ref - 0.8955) / 0.002

	if rh < 0 {
		return 0
	}
	if rh > 100 {
		return 100
	}
	return rh
}

func m20Lat(body []byte) float32 { return float32(int32(be32(body[m20OffLat:]))) / 1e6 }
func m20Lon(body []byte) float32 { return float32(int32(be32(body[m20OffLon:]))) / 1e6 }

func m20Alt(body []byte) float32 {
	raw := uint32(body[m20OffAlt])<<16 | uint32(body[m20OffAlt+1])<<8 | uint32(body[m20OffAlt+2])
	return float32(int32(raw<<8)>>8) / 1e2
}

func m20DLat(body []byte) float32 { return float32(int16(be16(body[m20OffDLat:]))) / 100.0 }
func m20DLon(body []byte) float32 { return float32(int16(be16(body[m20OffDLon:]))) / 100.0 }
func m20DAlt(body []byte) float32 { return float32(int16(be16(body[m20OffDAlt:]))) / 100.0 }

func m20Week(body []byte) uint16 { return be16(body[m20OffWeek:]) }

func m20TimeMs(body []byte) uint32 {
	raw := uint32(body[m20OffTime])<<16 | uint32(body[m20OffTime+1])<<8 | uint32(body[m20OffTime+2])
	return raw * 1000
}

// m20Serial renders the serial number in the MMYY-#-##### form the M20
// firmware's own field decomposition yields.
func m20Serial(body []byte) string {
	raw := uint32(body[m20OffSN+2])<<16 | uint32(body[m20OffSN+1])<<8 | uint32(body[m20OffSN])
	serial0 := raw & 0x3F
	serial1 := (raw >> 6) & 0xF
	serial2 := raw >> 10

	month := serial0%12 + 1
	year := 2000 + serial0/12
	return fmt.Sprintf("M20-%02d%02d-%d-%05d", month, year%100, serial1, serial2)
}

// m20Temp reconstructs temperature for the M20's NTC, whose higher beta
// reflects a different thermistor batch than the M10's.
func m20Temp(body []byte) float32 {
	raw := uint16(body[m20OffTempVal]) | uint16(body[m20OffTempVal+1])<<8
	adcVal := raw & 0xFFF
	rangeIdx := uint8(raw >> 12)
	return ntcTemp(adcVal, rangeIdx, 3450.0)
}
