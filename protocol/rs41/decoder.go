package rs41

import (
	"encoding/binary"

	"github.com/dbrief/sondecore/geo"
	"github.com/dbrief/sondecore/internal/correlator"
	"github.com/dbrief/sondecore/internal/dsp"
	"github.com/dbrief/sondecore/internal/ecc"
	"github.com/dbrief/sondecore/internal/framer"
	"github.com/dbrief/sondecore/sonde"
	"github.com/golang/geo/r3"
)

// frameLenBits is the number of bits the framer assembles per frame: the
// 8-byte sync word it leaves at the start, the 48-byte RS checksum, the
// extended-data flag, and the worst-case (XDATA-carrying) data payload.
const frameLenBits = 8 * maxFrameLen

// Decoder demodulates and decodes a stream of RS41 telemetry frames into
// SondeData records.
type Decoder struct {
	framer *framer.Framer
	gfsk   *dsp.GFSK
	rs     *ecc.RSDecoder
	calib  *Calibration

	raw []byte
}

// NewDecoder builds an RS41 decoder for a baseband stream sampled at
// sampleRate Hz.
func NewDecoder(sampleRate int) *Decoder {
	gfsk := dsp.NewGFSK(sampleRate, Baudrate)
	corr := correlator.New(SyncWord, SyncLen)

	return &Decoder{
		framer: framer.New(gfsk, corr, SyncLen, frameLenBits),
		gfsk:   gfsk,
		rs:     ecc.NewRS(rsN, rsK, rsPoly, rsFirstRoot, rsRootSkip),
		calib:  NewCalibration(),
		raw:    make([]byte, frameLenBits/8),
	}
}

// Decode consumes src, returning Proceed while more samples are needed and
// Parsed once a frame has been demodulated, error-corrected, and dispatched
// into dst. dst accumulates across Proceed calls exactly as sonde.Data.Merge
// describes; callers should zero dst.Fields (or start a fresh sonde.Data)
// before a Parsed result if they want only that frame's fields.
func (d *Decoder) Decode(dst *sonde.Data, src []float32) sonde.ParserStatus {
	if d.framer.Read(d.raw, src) == sonde.Proceed {
		return sonde.Proceed
	}

	// The framer's output starts with the sync word; the rest works on the
	// bytes after it.
	frame := d.raw[SyncLen:]
	descramble(frame)
	if correctFrame(frame, d.rs) < 0 {
		return sonde.Parsed
	}

	dataLenActual := dataLen
	if isExtended(frame) {
		dataLenActual += xdataLen
	}

	payload := frame[rsChecksumLen+1 : rsChecksumLen+1+dataLenActual]

	offset := 0
	for offset+2 <= len(payload) {
		subType := payload[offset]
		subLen := int(payload[offset+1])
		if subLen == 0 {
			break
		}
		if offset+2+subLen+2 > len(payload) {
			break
		}

		body := payload[offset+2 : offset+2+subLen]
		crcGot := binary.LittleEndian.Uint16(payload[offset+2+subLen:])
		if ecc.CRC16CCITTFalse(body) == crcGot {
			d.parseSubframe(dst, subType, body)
		}

		offset += subLen + 4
	}

	return sonde.Parsed
}

func (d *Decoder) parseSubframe(dst *sonde.Data, subType byte, body []byte) {
	switch subType {
	case sfEmpty:
		// Padding, nothing to parse.

	case sfInfo:
		info, ok := parseInfoSubframe(body)
		if !ok {
			return
		}
		d.calib.PutFragment(int(info.fragSeq), info.fragData)

		dst.Fields |= sonde.FieldSerial | sonde.FieldSeq
		dst.Serial = info.serial
		dst.Seq = uint32(info.frameSeq)

		if burstkill := d.calib.burstkillTimer(); burstkill != 0xFFFF {
			dst.Fields |= sonde.FieldShutdown
			dst.ShutdownSeconds = uint32(burstkill)
		}

	case sfPTU:
		ptu, ok := parsePTUSubframe(body)
		if !ok {
			return
		}

		temp, _ := d.calib.reconstructTemp(ptu.tempMain, ptu.tempRef1, ptu.tempRef2)
		rh, _ := d.calib.reconstructHumidity(ptu.humidityMain, ptu.humidityRef1, ptu.humidityRef2, temp)
		pressure, pressureOK := d.calib.reconstructPressure(ptu.pressureMain, ptu.pressureRef1, ptu.pressureRef2, temp)

		dst.Fields |= sonde.FieldPTU
		dst.Temp = temp
		dst.RH = rh
		if pressureOK {
			dst.Pressure = pressure
		} else {
			dst.Pressure = geo.AltitudeToPressure(float64(dst.Alt))
		}
		dst.CalibPercent = d.calib.Percent()
		dst.Calibrated = d.calib.Calibrated()

	case sfGPSPos:
		pos, ok := parseGPSPosSubframe(body)
		if !ok {
			return
		}

		// Position and velocity are centimeter-resolution ECEF fixed-point
		// values; rescale to meters and m/s before running the WGS-84 math.
		ecef := r3.Vector{
			X: float64(int32(pos.x)) / 100.0,
			Y: float64(int32(pos.y)) / 100.0,
			Z: float64(int32(pos.z)) / 100.0,
		}
		vel := r3.Vector{
			X: float64(pos.dx) / 100.0,
			Y: float64(pos.dy) / 100.0,
			Z: float64(pos.dz) / 100.0,
		}

		lla := geo.ECEFToLLA(ecef)
		speed, heading, climb := geo.SpeedHeadingClimb(lla.Lat, lla.Lon, vel)

		dst.Fields |= sonde.FieldPos | sonde.FieldSpeed
		dst.Lat, dst.Lon, dst.Alt = float32(lla.Lat), float32(lla.Lon), float32(lla.Alt)
		dst.Speed, dst.Heading, dst.Climb = float32(speed), float32(heading), float32(climb)

	case sfGPSInfo:
		info, ok := parseGPSInfoSubframe(body)
		if !ok {
			return
		}
		dst.Fields |= sonde.FieldTime
		dst.Time = geo.TimeFromGPS(info.week, info.ms)

	case sfGPSRaw:
		// Raw pseudorange/carrier-phase data, not surfaced in SondeData.

	case sfXData:
		if len(body) < 1 {
			return
		}

		pressure := dst.Pressure
		if !(pressure > 0) {
			pressure = geo.AltitudeToPressure(float64(dst.Alt))
		}

		if xdata, ok := decodeXData(body[1:], pressure); ok {
			dst.Fields |= sonde.FieldXData
			dst.XData = xdata
		}
	}
}
