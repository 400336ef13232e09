package m10

import (
	"math"

	"github.com/dbrief/sondecore/geo"
	"github.com/dbrief/sondecore/internal/correlator"
	"github.com/dbrief/sondecore/internal/dsp"
	"github.com/dbrief/sondecore/internal/framer"
	"github.com/dbrief/sondecore/internal/manchester"
	"github.com/dbrief/sondecore/sonde"
)

// northEastUpToSpeedHeadingClimb converts north/east/up velocity
// components (m/s) into ground speed, heading in degrees from true north,
// and climb rate. M10/M20 transmit velocity directly in this frame
// rather than as an ECEF vector, so the RS41 WGS-84 conversion doesn't
// apply here.
func northEastUpToSpeedHeadingClimb(vn, ve, vu float32) (speed, heading, climb float32) {
	speed = float32(math.Hypot(float64(vn), float64(ve)))
	heading = float32(math.Atan2(float64(ve), float64(vn)) * 180 / math.Pi)
	if heading < 0 {
		heading += 360
	}
	return speed, heading, vu
}

// Decoder demodulates and decodes a stream of Meteomodem M10/M20
// telemetry frames into SondeData records.
type Decoder struct {
	framer *framer.Framer

	raw     []byte
	decoded []byte
}

// NewDecoder builds an M10/M20 decoder for a baseband stream sampled at
// sampleRate Hz.
func NewDecoder(sampleRate int) *Decoder {
	gfsk := dsp.NewGFSK(sampleRate, Baudrate)
	corr := correlator.New(SyncWord, SyncLen)

	return &Decoder{
		framer:  framer.New(gfsk, corr, SyncLen, frameLen),
		raw:     make([]byte, frameLen/8),
		decoded: make([]byte, eccFrameLen/8),
	}
}

// Decode consumes src, returning Proceed while more samples are needed and
// Parsed once a frame has been demodulated, descrambled, checksummed, and
// decoded into dst.
func (d *Decoder) Decode(dst *sonde.Data, src []float32) sonde.ParserStatus {
	if d.framer.Read(d.raw, src) == sonde.Proceed {
		return sonde.Proceed
	}

	manchester.Decode(d.decoded, d.raw, eccFrameLen)
	dst.Fields = 0

	descramble(d.decoded)
	if !verify(d.decoded) {
		return sonde.Parsed
	}

	switch d.decoded[4] {
	case m10FTypeData:
		d.parseM10(dst, d.decoded[headerLen:])
	case m20FTypeData:
		d.parseM20(dst, d.decoded[headerLen:])
	}

	return sonde.Parsed
}

func (d *Decoder) parseM10(dst *sonde.Data, body []byte) {
	dst.Fields |= sonde.FieldSerial | sonde.FieldTime | sonde.FieldPos | sonde.FieldSpeed | sonde.FieldPTU

	dst.Serial = m10Serial(body)
	dst.Time = geo.TimeFromGPS(m10Week(body), m10TimeMs(body))

	dst.Lat = m10Lat(body)
	dst.Lon = m10Lon(body)
	dst.Alt = m10Alt(body)

	vn, ve, vd := m10DLat(body), m10DLon(body), m10DAlt(body)
	dst.Speed, dst.Heading, dst.Climb = northEastUpToSpeedHeadingClimb(vn, ve, vd)

	dst.Temp = m10Temp(body)
	dst.RH = m10RH(body)
	dst.Pressure = geo.AltitudeToPressure(float64(dst.Alt))
}

func (d *Decoder) parseM20(dst *sonde.Data, body []byte) {
	dst.Fields |= sonde.FieldSerial | sonde.FieldTime | sonde.FieldPos | sonde.FieldSpeed | sonde.FieldPTU

	dst.Serial = m20Serial(body)
	dst.Time = geo.TimeFromGPS(m20Week(body), m20TimeMs(body))

	dst.Lat = m20Lat(body)
	dst.Lon = m20Lon(body)
	dst.Alt = m20Alt(body)

	vn, ve, vd := m20DLat(body), m20DLon(body), m20DAlt(body)
	dst.Speed, dst.Heading, dst.Climb = northEastUpToSpeedHeadingClimb(vn, ve, vd)

	dst.Temp = m20Temp(body)
	dst.Pressure = geo.AltitudeToPressure(float64(dst.Alt))
}
