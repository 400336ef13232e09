package dfm

import (
	"fmt"
	"time"

	"github.com/dbrief/sondecore/internal/correlator"
	"github.com/dbrief/sondecore/internal/dsp"
	"github.com/dbrief/sondecore/internal/framer"
	"github.com/dbrief/sondecore/internal/manchester"
	"github.com/dbrief/sondecore/sonde"
)

// Decoder demodulates and decodes a stream of DFM06/DFM09 telemetry frames
// into SondeData records.
type Decoder struct {
	framer *framer.Framer

	raw       []byte
	decoded   []byte
	calib     [16]uint32
	ptuTypeSerial int

	rawSerial uint64
	serial    string

	gpsDate gpsDate
	gpsSec  int

	cachedTemp, cachedRH, cachedPressure float32
	cachedLat, cachedLon, cachedAlt      float32
	cachedSpeed, cachedHeading, cachedClimb float32
}

// NewDecoder builds a DFM decoder for a baseband stream sampled at
// sampleRate Hz.
func NewDecoder(sampleRate int) *Decoder {
	gfsk := dsp.NewGFSK(sampleRate, Baudrate)
	corr := correlator.New(SyncWord, SyncLen)

	return &Decoder{
		framer:        framer.New(gfsk, corr, SyncLen, frameLen),
		raw:           make([]byte, frameLen/8),
		decoded:       make([]byte, eccFrameLen/8),
		ptuTypeSerial: -1,
	}
}

// Decode consumes src, returning Proceed while more samples are needed and
// Parsed once a frame has been demodulated and decoded into dst, whose
// Fields is reset to 0 at the start of every Parsed result.
func (d *Decoder) Decode(dst *sonde.Data, src []float32) sonde.ParserStatus {
	if d.framer.Read(d.raw, src) == sonde.Proceed {
		return sonde.Proceed
	}

	manchester.Decode(d.decoded, d.raw, eccFrameLen)
	frame := parseECCFrame(d.decoded)
	frame.deinterleave()

	dst.Fields = 0

	errcount := frame.correct()
	if errcount < 0 || errcount > 8 {
		return sonde.Parsed
	}

	allZero := true
	for _, b := range frame.ptu {
		if b != 0 {
			allZero = false
			break
		}
	}
	for _, b := range frame.gps {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return sonde.Parsed
	}

	d.parsePTU(dst, unpackPTU(frame.ptu))
	for _, gps := range unpackGPS(frame.gps) {
		d.parseGPS(dst, gps)
	}

	return sonde.Parsed
}

func (d *Decoder) parsePTU(dst *sonde.Data, ptu ptuSubframe) {
	raw := uint32(ptu.data[0])<<16 | uint32(ptu.data[1])<<8 | uint32(ptu.data[2])
	d.calib[ptu.typ] = raw

	if raw&0xFFFF == 0 {
		d.ptuTypeSerial = int(ptu.typ) + 1
	}

	switch ptu.typ {
	case 0x00:
		dst.Fields |= sonde.FieldPTU
		dst.Calibrated = true
		dst.CalibPercent = 100.0
		dst.Temp, dst.RH, dst.Pressure = d.cachedTemp, d.cachedRH, d.cachedPressure

		d.cachedTemp = reconstructTemp(raw, d.calib[3], d.calib[4])

	case 0x01:
		d.cachedRH = 0

	case 0x02:
		d.cachedPressure = 0

	default:
		if int(ptu.typ) == d.ptuTypeSerial {
			d.updateSerial(ptu.typ, raw)
		}
	}
}

func (d *Decoder) updateSerial(typ byte, raw uint32) {
	if typ == dfm06SerialType {
		d.serial = fmt.Sprintf("D%06X", raw)
		return
	}

	serialIdx := 3 - (raw & 0xF)
	serialShard := (raw >> 4) & 0xFFFF

	d.rawSerial &^= uint64(0xFFFF) << (16 * serialIdx)
	d.rawSerial |= uint64(serialShard) << (16 * serialIdx)

	if raw&0xF == 0 {
		local := d.rawSerial
		for local != 0 && local&0xFFFF == 0 {
			local >>= 16
		}
		d.serial = fmt.Sprintf("D%08d", local)
	}
}

func (d *Decoder) parseGPS(dst *sonde.Data, gps gpsSubframe) {
	switch gps.typ {
	case 0x00:
		dst.Fields |= sonde.FieldSeq
		dst.Seq = gpsSeq(gps)
		if d.serial != "" {
			dst.Fields |= sonde.FieldSerial
			dst.Serial = d.serial
		}

	case 0x01:
		d.gpsSec = gpsTimeOfDaySec(gps)

	case 0x02:
		d.cachedLat = gpsLat(gps)
		d.cachedSpeed = gpsSpeed(gps)

	case 0x03:
		d.cachedLon = gpsLon(gps)
		d.cachedHeading = gpsHeading(gps)

	case 0x04:
		d.cachedAlt = gpsAlt(gps)
		d.cachedClimb = gpsClimb(gps)

		dst.Fields |= sonde.FieldPos | sonde.FieldSpeed
		dst.Lat, dst.Lon, dst.Alt = d.cachedLat, d.cachedLon, d.cachedAlt
		dst.Speed, dst.Heading, dst.Climb = d.cachedSpeed, d.cachedHeading, d.cachedClimb

	case 0x08:
		d.gpsDate = gpsDateFields(gps)

		dst.Fields |= sonde.FieldTime
		dst.Time = time.Date(d.gpsDate.year, time.Month(d.gpsDate.month+1), d.gpsDate.day,
			d.gpsDate.hour, d.gpsDate.min, d.gpsSec%60, 0, time.UTC)
	}
}
