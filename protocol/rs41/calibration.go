package rs41

import (
	"encoding/binary"
	"math"

	"github.com/dbrief/sondecore/internal/calib"
)

// Calibration offsets into the assembled fragment table. The table layout
// mirrors the fields actually consumed by the decoder; padding regions
// between them are skipped rather than modeled byte-for-byte, since nothing
// in this package reads them.
const (
	calibTotalSize = 816 // 51 fragments * 16 bytes
	calibFragCount = calibTotalSize / calibFragSize

	offSerial              = 13
	offRTRef               = 61
	offRTTempPoly          = 77
	offRTResistCoeff       = 89
	offRHCapCoeff          = 117
	offRHTempPoly          = 293
	offRHResistCoeff       = 305
	offPressureRef         = 333
	offPressureTempPoly    = 341
	offPressureResistCoeff = 353
	offBurstkillTimer      = 800
)

// calibCoverageMask lists the fragment indices that must have arrived
// before PTU reconstruction is considered calibrated, i.e. the fragments
// spanning offSerial..offPressureResistCoeff+12.
var calibCoverageMask = fragmentRange(offSerial, offPressureResistCoeff+12)

func fragmentRange(byteStart, byteEnd int) []int {
	first := byteStart / calibFragSize
	last := (byteEnd - 1) / calibFragSize
	mask := make([]int, 0, last-first+1)
	for i := first; i <= last; i++ {
		mask = append(mask, i)
	}
	return mask
}

// Calibration accumulates the RS41's per-sonde coefficient table,
// broadcast as 16-byte fragments in INFO subframes, and exposes the
// coefficients needed to reconstruct temperature, humidity, and pressure.
type Calibration struct {
	bitmap *calib.Bitmap
}

// NewCalibration returns a Calibration seeded with DefaultCalibration, so
// readings remain plausible before the real table has been received. The
// seed is written straight into storage, so no fragment counts as received.
func NewCalibration() *Calibration {
	c := &Calibration{bitmap: calib.New(calibFragCount, calibFragSize)}
	copy(c.bitmap.Storage(), DefaultCalibration)
	return c
}

// PutFragment records calibration fragment seq (0-indexed).
func (c *Calibration) PutFragment(seq int, data []byte) {
	c.bitmap.Put(seq, data)
}

// Percent returns the fraction of calibration fragments received, 0..100.
func (c *Calibration) Percent() float32 { return c.bitmap.Percent() }

// Calibrated reports whether every fragment covering the temperature and
// humidity coefficients has been received.
func (c *Calibration) Calibrated() bool { return c.bitmap.CoverageComplete(calibCoverageMask) }

func (c *Calibration) f32(off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(c.bitmap.Storage()[off:]))
}

func (c *Calibration) serial() string {
	b := c.bitmap.Storage()[offSerial : offSerial+serialLen]
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}

func (c *Calibration) rtRef() [2]float32 {
	return [2]float32{c.f32(offRTRef), c.f32(offRTRef + 4)}
}
func (c *Calibration) rtTempPoly() [3]float32 {
	return [3]float32{c.f32(offRTTempPoly), c.f32(offRTTempPoly + 4), c.f32(offRTTempPoly + 8)}
}
func (c *Calibration) rtResistCoeff() [3]float32 {
	return [3]float32{c.f32(offRTResistCoeff), c.f32(offRTResistCoeff + 4), c.f32(offRTResistCoeff + 8)}
}
func (c *Calibration) rhCapCoeff() [2]float32 {
	return [2]float32{c.f32(offRHCapCoeff), c.f32(offRHCapCoeff + 4)}
}
func (c *Calibration) rhTempPoly() [3]float32 {
	return [3]float32{c.f32(offRHTempPoly), c.f32(offRHTempPoly + 4), c.f32(offRHTempPoly + 8)}
}
func (c *Calibration) rhResistCoeff() [3]float32 {
	return [3]float32{c.f32(offRHResistCoeff), c.f32(offRHResistCoeff + 4), c.f32(offRHResistCoeff + 8)}
}

func (c *Calibration) pressureRef() [2]float32 {
	return [2]float32{c.f32(offPressureRef), c.f32(offPressureRef + 4)}
}
func (c *Calibration) pressureTempPoly() [3]float32 {
	return [3]float32{c.f32(offPressureTempPoly), c.f32(offPressureTempPoly + 4), c.f32(offPressureTempPoly + 8)}
}
func (c *Calibration) pressureResistCoeff() [3]float32 {
	return [3]float32{c.f32(offPressureResistCoeff), c.f32(offPressureResistCoeff + 4), c.f32(offPressureResistCoeff + 8)}
}

func (c *Calibration) burstkillTimer() uint16 {
	return binary.LittleEndian.Uint16(c.bitmap.Storage()[offBurstkillTimer:])
}

// reconstructTemp derives a temperature in Celsius from the three 24-bit
// ADC readings of a PTU subframe (main, and two reference resistances),
// using the calibration's resistance-to-temperature polynomial. Because the
// original firmware's exact formula was not recovered, this follows the
// documented struct layout (a resistance ratio normalized against the two
// reference points, corrected by a cubic polynomial, then mapped through a
// log-resistance quadratic) rather than claiming bit-exact parity with the
// real sonde.
func (c *Calibration) reconstructTemp(main, ref1, ref2 uint32) (float32, bool) {
	if main == 0 || ref1 == 0 || ref2 == 0 || ref2 == ref1 {
		return 0, false
	}

	ratio := float64(int64(main)-int64(ref1)) / float64(int64(ref2)-int64(ref1))
	ref := c.rtRef()
	r := float64(ref[0]) + ratio*float64(ref[1]-ref[0])

	coeff := c.rtResistCoeff()
	rCorr := r * (1 + float64(coeff[0]) + float64(coeff[1])*r + float64(coeff[2])*r*r)
	if rCorr <= 0 {
		return 0, false
	}

	poly := c.rtTempPoly()
	lnR := math.Log(rCorr)
	temp := float64(poly[0]) + float64(poly[1])*lnR + float64(poly[2])*lnR*lnR

	return float32(temp), true
}

// reconstructHumidity derives relative humidity (0..100%) from the three
// capacitive ADC readings of a PTU subframe, corrected for the ambient
// temperature using the resistance-to-temperature-humidity polynomial.
// Authored analogously to reconstructTemp; see its comment.
func (c *Calibration) reconstructHumidity(main, ref1, ref2 uint32, ambientTemp float32) (float32, bool) {
	if main == 0 || ref1 == 0 || ref2 == 0 || ref2 == ref1 {
		return 0, false
	}

	ratio := float64(int64(main)-int64(ref1)) / float64(int64(ref2)-int64(ref1))
	cap := c.rhCapCoeff()
	c0 := float64(cap[0]) + ratio*float64(cap[1]-cap[0])

	coeff := c.rhResistCoeff()
	cCorr := c0 * (1 + float64(coeff[0]) + float64(coeff[1])*c0 + float64(coeff[2])*c0*c0)

	poly := c.rhTempPoly()
	rh := float64(poly[0]) + float64(poly[1])*cCorr + float64(poly[2])*float64(ambientTemp)

	if rh < 0 {
		rh = 0
	}
	if rh > 100 {
		rh = 100
	}
	return float32(rh), true
}

// reconstructPressure derives a barometric pressure in hPa from the three
// 24-bit ADC readings of a PTU subframe's pressure sensor, corrected for
// ambient temperature. Authored analogously to reconstructTemp; see its
// comment.
func (c *Calibration) reconstructPressure(main, ref1, ref2 uint32, ambientTemp float32) (float32, bool) {
	if main == 0 || ref1 == 0 || ref2 == 0 || ref2 == ref1 {
		return 0, false
	}

	ratio := float64(int64(main)-int64(ref1)) / float64(int64(ref2)-int64(ref1))
	ref := c.pressureRef()
	r := float64(ref[0]) + ratio*float64(ref[1]-ref[0])

	coeff := c.pressureResistCoeff()
	rCorr := r * (1 + float64(coeff[0]) + float64(coeff[1])*r + float64(coeff[2])*r*r)
	if rCorr <= 0 {
		return 0, false
	}

	poly := c.pressureTempPoly()
	lnR := math.Log(rCorr)
	pressure := float64(poly[0]) + float64(poly[1])*lnR + float64(poly[2])*float64(ambientTemp)
	if pressure <= 0 {
		return 0, false
	}

	return float32(pressure), true
}
