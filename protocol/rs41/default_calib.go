package rs41

import (
	_ "embed"
	"encoding/binary"
	"math"

	"gopkg.in/yaml.v3"
)

//go:embed default_calib.yaml
var defaultCalibYAML []byte

type defaultCalibDoc struct {
	Serial              string     `yaml:"serial"`
	BurstkillTimer      uint16     `yaml:"burstkill_timer"`
	RTRef               [2]float32 `yaml:"rt_ref"`
	RTTempPoly          [3]float32 `yaml:"rt_temp_poly"`
	RTResistCoeff       [3]float32 `yaml:"rt_resist_coeff"`
	RHCapCoeff          [2]float32 `yaml:"rh_cap_coeff"`
	RHTempPoly          [3]float32 `yaml:"rh_temp_poly"`
	RHResistCoeff       [3]float32 `yaml:"rh_resist_coeff"`
	PressureRef         [2]float32 `yaml:"pressure_ref"`
	PressureTempPoly    [3]float32 `yaml:"pressure_temp_poly"`
	PressureResistCoeff [3]float32 `yaml:"pressure_resist_coeff"`
}

// DefaultCalibration is the flat fragment-table encoding of
// default_calib.yaml, laid out at the same byte offsets a real RS41's
// broadcast fragments would occupy, so it can seed a Calibration's bitmap
// fragment-for-fragment.
var DefaultCalibration = buildDefaultCalibration()

func buildDefaultCalibration() []byte {
	var doc defaultCalibDoc
	if err := yaml.Unmarshal(defaultCalibYAML, &doc); err != nil {
		panic("rs41: malformed embedded default calibration: " + err.Error())
	}

	buf := make([]byte, calibTotalSize)
	copy(buf[offSerial:offSerial+serialLen], doc.Serial)

	putF32 := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	}
	for i, v := range doc.RTRef {
		putF32(offRTRef+4*i, v)
	}
	for i, v := range doc.RTTempPoly {
		putF32(offRTTempPoly+4*i, v)
	}
	for i, v := range doc.RTResistCoeff {
		putF32(offRTResistCoeff+4*i, v)
	}
	for i, v := range doc.RHCapCoeff {
		putF32(offRHCapCoeff+4*i, v)
	}
	for i, v := range doc.RHTempPoly {
		putF32(offRHTempPoly+4*i, v)
	}
	for i, v := range doc.RHResistCoeff {
		putF32(offRHResistCoeff+4*i, v)
	}
	for i, v := range doc.PressureRef {
		putF32(offPressureRef+4*i, v)
	}
	for i, v := range doc.PressureTempPoly {
		putF32(offPressureTempPoly+4*i, v)
	}
	for i, v := range doc.PressureResistCoeff {
		putF32(offPressureResistCoeff+4*i, v)
	}
	binary.LittleEndian.PutUint16(buf[offBurstkillTimer:], doc.BurstkillTimer)

	return buf
}
