package mrz

import (
	"time"

	"github.com/dbrief/sondecore/geo"
	"github.com/dbrief/sondecore/internal/calib"
	"github.com/dbrief/sondecore/internal/correlator"
	"github.com/dbrief/sondecore/internal/dsp"
	"github.com/dbrief/sondecore/internal/framer"
	"github.com/dbrief/sondecore/internal/manchester"
	"github.com/dbrief/sondecore/sonde"
	"github.com/golang/geo/r3"
)

// Decoder demodulates and decodes a stream of MRZ-N1 telemetry frames into
// SondeData records.
type Decoder struct {
	framer *framer.Framer
	calib  *calib.Bitmap

	raw     []byte
	decoded []byte
}

// NewDecoder builds an MRZ-N1 decoder for a baseband stream sampled at
// sampleRate Hz.
func NewDecoder(sampleRate int) *Decoder {
	gfsk := dsp.NewGFSK(sampleRate, Baudrate)
	corr := correlator.New(SyncWord, SyncLen)

	return &Decoder{
		framer:  framer.New(gfsk, corr, SyncLen, frameLenBits),
		calib:   calib.New(calibFragCount, calibFragSize),
		raw:     make([]byte, frameLenBits/8),
		decoded: make([]byte, decodedFrameLenBits/8),
	}
}

// Decode consumes src, returning Proceed while more samples are needed and
// Parsed once a frame has been demodulated, Manchester-decoded, CRC
// checked, and its fields written into dst.
func (d *Decoder) Decode(dst *sonde.Data, src []float32) sonde.ParserStatus {
	if d.framer.Read(d.raw, src) == sonde.Proceed {
		return sonde.Proceed
	}

	manchester.Decode(d.decoded, d.raw, decodedFrameLenBits)
	dst.Fields = 0

	if !verify(d.decoded) {
		return sonde.Parsed
	}

	data := d.decoded[syncBytes : syncBytes+dataLen]

	d.calib.Put(calibSeq(data), data[calibFragOff:calibFragOff+calibFragSize])

	dst.Fields |= sonde.FieldSeq
	dst.Seq = uint32(seq(data))

	pos := r3.Vector{X: float64(posX(data)), Y: float64(posY(data)), Z: float64(posZ(data))}
	lla := geo.ECEFToLLA(pos)
	dst.Fields |= sonde.FieldPos
	dst.Lat, dst.Lon, dst.Alt = float32(lla.Lat), float32(lla.Lon), float32(lla.Alt)

	vel := r3.Vector{X: float64(velDX(data)), Y: float64(velDY(data)), Z: float64(velDZ(data))}
	speed, heading, climb := geo.SpeedHeadingClimb(lla.Lat, lla.Lon, vel)
	dst.Fields |= sonde.FieldSpeed
	dst.Speed, dst.Heading, dst.Climb = float32(speed), float32(heading), float32(climb)

	dst.Fields |= sonde.FieldTime
	dst.Time = d.frameTime(data)

	dst.Fields |= sonde.FieldPTU
	dst.Temp = temp(data)
	dst.RH = rh(data)
	dst.Pressure = geo.AltitudeToPressure(float64(dst.Alt))
	dst.CalibPercent = d.calib.Percent()
	dst.Calibrated = d.calib.Complete()

	if d.calib.Complete() {
		dst.Fields |= sonde.FieldSerial
		dst.Serial = newCalibration(d.calib.Storage()).serialString()
	}

	return sonde.Parsed
}

// frameTime combines the transmitted hour/min/sec with the calibration
// table's packed decimal date when available, matching mrzn1_time; absent
// a date, it falls back to seconds-of-day, mirroring the reference
// decoder's own fallback for an incomplete calibration table.
func (d *Decoder) frameTime(data []byte) time.Time {
	hour, min, sec := int(data[offHour]), int(data[offMin]), int(data[offSec])

	if d.calib.Complete() {
		c := newCalibration(d.calib.Storage())
		if c.date != 0 {
			year, month, day := dateParts(c.date)
			return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
		}
	}

	return time.Unix(int64(hour)*3600+int64(min)*60+int64(sec), 0).UTC()
}
