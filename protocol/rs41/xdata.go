package rs41

import (
	"fmt"

	"github.com/dbrief/sondecore/sonde"
)

const (
	xdataENSCIOzone = 0x05
	defaultO3Flowrate = 30 // seconds to force 100mL of air through the cell
)

// o3CorrectionPressures/o3CorrectionFactors are the pressure-dependent
// correction table for the ENSCI ozone cell, indexed by the first pressure
// bucket (hPa) the current reading falls under.
var (
	o3CorrectionPressures = [...]float32{3, 5, 7, 10, 15, 20, 30, 50, 70, 100, 150, 200}
	o3CorrectionFactors   = [...]float32{1.24, 1.124, 1.087, 1.066, 1.048, 1.041,
		1.029, 1.018, 1.013, 1.007, 1.002, 1.000}
)

func o3CorrectionFactor(pressure float32) float32 {
	for i, p := range o3CorrectionPressures {
		if pressure < p {
			return o3CorrectionFactors[i]
		}
	}
	return 1.0
}

// ozoneMPa derives the ozone partial pressure (mPa) from the ENSCI cell's
// current (A), the cell's air flowrate (s/100mL), and the pump temperature
// (K).
func ozoneMPa(currentA, flowrateS, pumpTempK float32) float32 {
	return 4.307e-3 * currentA * pumpTempK * flowrateS
}

// ozoneMPaToPPB converts an ozone partial pressure (mPa) at the given
// ambient pressure (hPa) into a concentration in parts per billion.
func ozoneMPaToPPB(o3MPa, pressureHPa float32) float32 {
	return o3MPa * o3CorrectionFactor(pressureHPa) * 1000.0 / pressureHPa
}

// decodeXData parses the ASCII instrument-ID/value tuples of an XDATA
// subframe. Only the ENSCI ozone instrument (id 0x05) is recognized; every
// other instrument's data is skipped as a fixed 17-character block so
// parsing can continue to the next tuple.
func decodeXData(ascii []byte, pressureHPa float32) (sonde.XData, bool) {
	var out sonde.XData
	found := false

	for len(ascii) >= 4 {
		var instrumentID, instrumentNum uint32
		if _, err := fmt.Sscanf(string(ascii[:4]), "%02X%02X", &instrumentID, &instrumentNum); err != nil {
			break
		}
		ascii = ascii[4:]

		switch instrumentID {
		case xdataENSCIOzone:
			if len(ascii) < 16 {
				return out, found
			}
			var rawPumpTemp, rawO3Current, rawBattV, rawPumpCurrent, rawExtV uint32
			n, err := fmt.Sscanf(string(ascii[:16]), "%04X%05X%02X%03X%02X",
				&rawPumpTemp, &rawO3Current, &rawBattV, &rawPumpCurrent, &rawExtV)
			if err != nil || n != 5 {
				ascii = ascii[min(17, len(ascii)):]
				continue
			}
			ascii = ascii[16:]

			sign := float32(1)
			if rawPumpTemp&0x8000 != 0 {
				sign = -1
			}
			pumpTempK := sign*0.001*float32(rawPumpTemp&0x7FFF) + 273.15
			o3CurrentA := float32(rawO3Current) * 1e-5

			mpa := ozoneMPa(o3CurrentA, float32(defaultO3Flowrate), pumpTempK)
			out.O3PPB = ozoneMPaToPPB(mpa, pressureHPa)
			found = true
		default:
			if len(ascii) >= 17 {
				ascii = ascii[17:]
			} else {
				ascii = nil
			}
		}
	}

	return out, found
}
