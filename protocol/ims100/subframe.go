package ims100

import "math"

// freqRatio is the frequency-ratio measurement every iMS-100 sensor
// channel reduces to before polynomial conversion: 4 times the sensor
// oscillator frequency over the reference oscillator frequency.
func freqRatio(sensorFreq, refFreq float32) float32 {
	if refFreq == 0 {
		return 0
	}
	return 4 * sensorFreq / refFreq
}

func poly3(coeffs [4]float32, x float32) float32 {
	return coeffs[0] + x*(coeffs[1]+x*(coeffs[2]+x*coeffs[3]))
}

// freqToResistance evaluates the cubic frequency-ratio-to-resistance
// polynomial shared by the temperature and humidity-reference channels.
func freqToResistance(sensorFreq, refFreq float32, poly [4]float32) float32 {
	return poly3(poly, freqRatio(sensorFreq, refFreq))
}

// splineTemp interpolates a temperature from a thermistor resistance by
// piecewise-linear interpolation in log-resistance space against the
// per-sonde 12-point calibration spline. The table is walked in ascending
// resistance order: a resistance at or below splineResists[0] returns
// splineTemps[0].
func splineTemp(resist float32, splineResists, splineTemps [12]float32) float32 {
	logR := float32(math.Log(float64(resist)))

	if logR <= float32(math.Log(float64(splineResists[0]))) {
		return splineTemps[0]
	}
	for i := 1; i < len(splineResists); i++ {
		r0, r1 := splineResists[i-1], splineResists[i]
		logR0, logR1 := float32(math.Log(float64(r0))), float32(math.Log(float64(r1)))
		if logR <= logR1 || i == len(splineResists)-1 {
			if logR1 == logR0 {
				return splineTemps[i]
			}
			frac := (logR - logR0) / (logR1 - logR0)
			return splineTemps[i-1] + frac*(splineTemps[i]-splineTemps[i-1])
		}
	}
	return splineTemps[len(splineTemps)-1]
}

// freqToTemp converts a temperature-channel frequency ratio into degrees
// Celsius via the resistance polynomial followed by the log-resistance
// spline.
func freqToTemp(sensorFreq, refFreq float32, poly [4]float32, splineResists, splineTemps [12]float32) float32 {
	resist := freqToResistance(sensorFreq, refFreq, poly)
	return splineTemp(resist, splineResists, splineTemps)
}

// freqToRHTemp converts the humidity sensor's own reference-thermistor
// frequency ratio into degrees Celsius via a direct quadratic fit against
// resistance rather than the full spline.
func freqToRHTemp(sensorFreq, refFreq float32, poly [4]float32, rToT [3]float32) float32 {
	resist := freqToResistance(sensorFreq, refFreq, poly)
	return rToT[0] + resist*(rToT[1]+resist*rToT[2])
}

// freqToRH converts the capacitive RH element's frequency ratio directly
// into a percentage via its own cubic fit.
func freqToRH(sensorFreq, refFreq float32, poly [4]float32) float32 {
	return poly3(poly, freqRatio(sensorFreq, refFreq))
}

// waterVaporSatPressure computes the saturation vapor pressure in hPa at
// temp degrees Celsius, used to correct the RH reading for the
// difference between the air and RH-sensor temperatures.
func waterVaporSatPressure(temp float32) float32 {
	coeffs := [4]float64{-0.493158, 1.0 + 4.6094296e-3, -1.3746454e-5, 1.2743214e-8}
	t := float64(temp) + 273.15

	var T float64
	for i := len(coeffs) - 1; i >= 0; i-- {
		T = T*t + coeffs[i]
	}

	p := math.Exp(-5800.2206/T + 1.3914993 + 6.5459673*math.Log(T) -
		4.8640239e-2*T + 4.1764768e-5*T*T - 1.4452093e-8*T*T*T)

	return float32(p / 100.0)
}

// gpsLat decodes the even-frame latitude, stored as NMEA-style
// degrees*1e6 + minutes-fraction rather than pure decimal degrees.
func gpsLat(raw int32) float32 {
	deg := raw / 1000000
	min := float32(raw%1000000) / 60.0 * 100.0 / 1e6
	return float32(deg) + min
}

func gpsLon(raw int32) float32 {
	return gpsLat(raw)
}

func gpsAlt(raw int32) float32 {
	return float32(raw) / 1e2
}

func gpsSpeed(raw uint16) float32 {
	return float32(raw) / 1.943844e2
}

func gpsHeading(raw int16) float32 {
	h := raw
	if h < 0 {
		h = -h
	}
	return float32(h) / 1e2
}
