package ims100

import (
	"encoding/binary"
	"math"

	"github.com/dbrief/sondecore/internal/calib"
)

const (
	calibFragSize  = 8
	calibTotalSize = calibFragSize * calibFragments

	offTempPoly    = 0
	offTempResists = offTempPoly + 4*4
	offTemps       = offTempResists + 12*4
	offRHTempPoly  = offTemps + 12*4
	offRHPoly      = offRHTempPoly + 3*4
)

// Calibration holds the per-sonde temperature/humidity sensor coefficients
// broadcast across 64 calibration-table fragments: a 4-term polynomial
// converting the temperature ADC's frequency ratio to thermistor
// resistance, a 12-point log-resistance-to-temperature spline, a 3-term
// polynomial for the humidity sensor's own reference thermistor, and a
// 4-term polynomial for the capacitive RH element itself.
type Calibration struct {
	bitmap *calib.Bitmap
}

// NewCalibration builds an empty calibration table awaiting fragments.
func NewCalibration() *Calibration {
	return &Calibration{bitmap: calib.New(calibFragments, calibFragSize)}
}

// PutFragment records calibration fragment seq (0..63).
func (c *Calibration) PutFragment(seq int, data []byte) {
	c.bitmap.Put(seq, data)
}

// Percent returns how much of the calibration table has arrived, 0..100.
func (c *Calibration) Percent() float32 {
	return c.bitmap.Percent()
}

// Complete reports whether every fragment has arrived.
func (c *Calibration) Complete() bool {
	return c.bitmap.Complete()
}

func (c *Calibration) f32(off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(c.bitmap.Storage()[off:]))
}

func (c *Calibration) tempPoly() [4]float32 {
	var p [4]float32
	for i := range p {
		p[i] = c.f32(offTempPoly + 4*i)
	}
	return p
}

func (c *Calibration) tempResists() [12]float32 {
	var r [12]float32
	for i := range r {
		r[i] = c.f32(offTempResists + 4*i)
	}
	return r
}

func (c *Calibration) temps() [12]float32 {
	var t [12]float32
	for i := range t {
		t[i] = c.f32(offTemps + 4*i)
	}
	return t
}

func (c *Calibration) rhTempPoly() [3]float32 {
	var p [3]float32
	for i := range p {
		p[i] = c.f32(offRHTempPoly + 4*i)
	}
	return p
}

func (c *Calibration) rhPoly() [4]float32 {
	var p [4]float32
	for i := range p {
		p[i] = c.f32(offRHPoly + 4*i)
	}
	return p
}
