package dfm

import (
	"math"

	"github.com/dbrief/sondecore/internal/bitops"
)

// reconstructTemp derives a temperature in Celsius from a PTU type-0 raw
// reading and the two reference resistances cached from PTU subframe types
// 3 and 4, using the NTC thermistor model DFM radiosondes use: a gain
// derived from the high reference, a resistance derived from the
// difference against the low reference, and a single-term Steinhart-Hart
// approximation.
func reconstructTemp(rawTemp, rawRef1, rawRef2 uint32) float32 {
	const (
		bb0 = 3260.0
		t0  = 25 + 273.15
		r0  = 5.0e3
		rf  = 220e3
	)

	fTemp := scaledReading(rawTemp)
	fRef1 := scaledReading(rawRef1)
	fRef2 := scaledReading(rawRef2)

	g := fRef2 / rf
	r := (fTemp - fRef1) / g
	if rawTemp == 0 || rawRef1 == 0 || rawRef2 == 0 {
		r = 0
	}

	if r <= 0 {
		return 0
	}
	return float32(1.0/(1/t0+1/bb0*math.Log(float64(r/r0))) - 273.15)
}

// scaledReading unpacks a floating-point-like raw PTU ADC sample: the low
// 20 bits are the mantissa, the high 4 bits (of the 24-bit field) are a
// power-of-two exponent the mantissa is divided by.
func scaledReading(raw uint32) float32 {
	mantissa := raw & 0xFFFFF
	exp := raw >> 20
	return float32(mantissa) / float32(uint32(1)<<exp)
}

func gpsSeq(gps gpsSubframe) uint32 {
	return uint32(gps.data[3])
}

// gpsTimeOfDaySec returns the GPS seconds within the current minute, read
// from the type-1 GPS subframe as a 16-bit millisecond count.
func gpsTimeOfDaySec(gps gpsSubframe) int {
	return int(bitops.Bitmerge(gps.data[4:6], 16)) / 1000
}

type gpsDate struct {
	year, month, day, hour, min int
}

// gpsDateFields decodes the type-8 GPS subframe's packed date/time fields.
func gpsDateFields(gps gpsSubframe) gpsDate {
	raw := uint32(bitops.Bitmerge(gps.data[:4], 32))
	return gpsDate{
		year:  int((raw>>(32-12))&0xFFF) + 1900,
		month: int((raw>>(32-16))&0xF) - 1,
		day:   int((raw >> (32 - 21)) & 0x1F),
		hour:  int((raw >> (32 - 26)) & 0x1F),
		min:   int(raw & 0x3F),
	}
}

func gpsLat(gps gpsSubframe) float32 {
	return float32(int32(bitops.Bitmerge(gps.data[:4], 32))) / 1e7
}

func gpsLon(gps gpsSubframe) float32 {
	return float32(int32(bitops.Bitmerge(gps.data[:4], 32))) / 1e7
}

func gpsAlt(gps gpsSubframe) float32 {
	return float32(int32(bitops.Bitmerge(gps.data[:4], 32))) / 1e2
}

func gpsSpeed(gps gpsSubframe) float32 {
	return float32(bitops.Bitmerge(gps.data[4:6], 16)) / 1e2
}

func gpsHeading(gps gpsSubframe) float32 {
	return float32(bitops.Bitmerge(gps.data[4:6], 16)) / 1e2
}

func gpsClimb(gps gpsSubframe) float32 {
	return float32(int16(bitops.Bitmerge(gps.data[4:6], 16))) / 1e2
}
