package imet4

import (
	"time"

	"github.com/dbrief/sondecore/internal/correlator"
	"github.com/dbrief/sondecore/internal/dsp"
	"github.com/dbrief/sondecore/internal/ecc"
	"github.com/dbrief/sondecore/internal/framer"
	"github.com/dbrief/sondecore/sonde"
)

// Decoder demodulates and decodes a stream of InterMet iMet-4 telemetry
// frames into SondeData records.
type Decoder struct {
	framer *framer.Framer

	raw          []byte
	lastPressure float32
}

// NewDecoder builds an iMet-4 decoder for a baseband stream sampled at
// sampleRate Hz.
func NewDecoder(sampleRate int) *Decoder {
	afsk := dsp.NewAFSK(sampleRate, Baudrate, MarkFreq, SpaceFreq)
	corr := correlator.New(uint64(SyncWord), SyncLen)

	return &Decoder{
		framer:       framer.New(afsk, corr, SyncLen, frameLenBits),
		raw:          make([]byte, frameLenBits/8),
		lastPressure: 1013.25,
	}
}

// Decode consumes src, returning Proceed while more samples are needed and
// Parsed once a frame has been demodulated, bit-reversed, and its
// subframes dispatched into dst.
func (d *Decoder) Decode(dst *sonde.Data, src []float32) sonde.ParserStatus {
	if d.framer.Read(d.raw, src) == sonde.Proceed {
		return sonde.Proceed
	}

	descramble(d.raw)
	dst.Fields = 0

	// Subframes start right after the sync word at the head of the frame.
	pos := SyncLen
	for pos+headerLen+crcLen <= len(d.raw) {
		if d.raw[pos] != startOfHeader {
			break
		}
		typ := d.raw[pos+1]
		body := d.raw[pos+headerLen:]

		dataLen := subframeDataLen(typ, body)
		if dataLen <= 0 || pos+headerLen+dataLen+crcLen > len(d.raw) {
			break
		}

		sf := d.raw[pos : pos+headerLen+dataLen+crcLen]
		payload := sf[headerLen : len(sf)-crcLen]
		expected := uint16(sf[len(sf)-2])<<8 | uint16(sf[len(sf)-1])

		if ecc.CRC16CCITTFalse(sf[:len(sf)-crcLen]) == expected {
			d.parseSubframe(dst, typ, payload)
		}

		pos += len(sf)
	}

	return sonde.Parsed
}

func (d *Decoder) parseSubframe(dst *sonde.Data, typ byte, body []byte) {
	switch typ {
	case sfTypePTU, sfTypePTUX:
		dst.Fields |= sonde.FieldPTU
		dst.Temp = ptuTemp(body)
		dst.RH = ptuRH(body)
		dst.Pressure = ptuPressure(body)
		d.lastPressure = dst.Pressure

	case sfTypeGPS:
		dst.Fields |= sonde.FieldPos | sonde.FieldTime
		dst.Lat = gpsLat(body)
		dst.Lon = gpsLon(body)
		dst.Alt = gpsAlt(body)
		dst.Time = dayRolloverTime(int(body[gpsOffHour]), int(body[gpsOffMin]), int(body[gpsOffSec]))

	case sfTypeGPSX:
		dst.Fields |= sonde.FieldSpeed | sonde.FieldTime
		dst.Speed = gpsxSpeed(body)
		dst.Heading = gpsxHeading(body)
		dst.Climb = gpsxClimb(body)
		dst.Time = dayRolloverTime(int(body[gpsxOffHour]), int(body[gpsxOffMin]), int(body[gpsxOffSec]))

	case sfTypeXData:
		dst.Fields |= sonde.FieldXData
		dst.XData.O3PPB = xdataOzone(d.lastPressure, body[1:])
	}
}

// dayRolloverTime combines a transmitted hour/min/sec with the system's
// current UTC date, since iMet-4 never transmits the date itself. A
// transmitted hour more than 12 hours away from the system clock's hour
// is assumed to be on the other side of a midnight rollover.
func dayRolloverTime(hour, min, sec int) time.Time {
	now := time.Now().UTC()
	day := now

	delta := hour - now.Hour()
	if delta < 0 {
		delta = -delta
	}
	if delta > 12 {
		if hour < now.Hour() {
			day = day.Add(24 * time.Hour)
		} else {
			day = day.Add(-24 * time.Hour)
		}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, sec, 0, time.UTC)
}
