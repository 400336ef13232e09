package ims100

import (
	"fmt"
	"time"

	"github.com/dbrief/sondecore/geo"
	"github.com/dbrief/sondecore/internal/correlator"
	"github.com/dbrief/sondecore/internal/dsp"
	"github.com/dbrief/sondecore/internal/ecc"
	"github.com/dbrief/sondecore/internal/framer"
	"github.com/dbrief/sondecore/internal/manchester"
	"github.com/dbrief/sondecore/sonde"
)

// Unpacked even-frame (position+time) field offsets, bytes, within the
// per-frame unpacked data buffer.
const (
	evenOffDate    = 0
	evenOffMs      = 2
	evenOffHour    = 4
	evenOffMin     = 5
	evenOffLat     = 6
	evenOffLon     = 10
	evenOffAlt     = 14
	evenOffSpeed   = 17
	evenOffHeading = 19
)

// Unpacked odd-frame (PTU ADC) field offsets.
const (
	oddOffTempFreq   = 0
	oddOffRefFreq    = 2
	oddOffRHTempFreq = 4
	oddOffRHFreq     = 6
)

// Decoder demodulates and decodes a stream of Meisei iMS-100/RS-11G
// telemetry frames into SondeData records.
type Decoder struct {
	framer *framer.Framer
	bch    *ecc.RSDecoder
	calib  *Calibration

	raw     []byte
	decoded []byte

	serial  string
	lastAlt float32
}

// NewDecoder builds an iMS-100 decoder for a baseband stream sampled at
// sampleRate Hz.
func NewDecoder(sampleRate int) *Decoder {
	gfsk := dsp.NewGFSK(sampleRate, Baudrate)
	corr := correlator.New(SyncWord, SyncLen)

	return &Decoder{
		framer:  framer.New(gfsk, corr, SyncLen, rawFrameLenBits),
		bch:     ecc.NewBCH(bchN, bchK, bchGenPoly, bchRoots),
		calib:   NewCalibration(),
		raw:     make([]byte, rawFrameLenBits/8),
		decoded: make([]byte, frameLenBits/8),
	}
}

// Decode consumes src, returning Proceed while more samples are needed and
// Parsed once a frame has been demodulated, descrambled, BCH-corrected,
// and decoded into dst.
func (d *Decoder) Decode(dst *sonde.Data, src []float32) sonde.ParserStatus {
	if d.framer.Read(d.raw, src) == sonde.Proceed {
		return sonde.Proceed
	}

	manchester.Decode(d.decoded, d.raw, frameLenBits)
	dst.Fields = 0

	descramble(d.decoded)
	if errorCorrect(d.decoded, d.bch) < 0 {
		return sonde.Parsed
	}

	seq := uint16(d.decoded[3])<<8 | uint16(d.decoded[4])
	d.serial = fmt.Sprintf("IMS-%05d", seq/2)
	dst.Fields |= sonde.FieldSeq | sonde.FieldSerial
	dst.Seq = uint32(seq)
	dst.Serial = d.serial

	data, _ := unpack(d.decoded)

	if seq&1 == 0 {
		d.parseEven(dst, data)
	} else {
		d.parseOdd(dst, data)
	}

	return sonde.Parsed
}

func (d *Decoder) parseEven(dst *sonde.Data, data []byte) {
	if len(data) < evenOffHeading+2 {
		return
	}

	ms := int(data[evenOffMs])<<8 | int(data[evenOffMs+1])
	hour := int(data[evenOffHour])
	min := int(data[evenOffMin])

	now := time.Now().UTC()
	dst.Fields |= sonde.FieldTime
	dst.Time = time.Date(now.Year(), now.Month(), now.Day(), hour, min, ms/1000, 0, time.UTC)

	rawLat := int32(data[evenOffLat])<<24 | int32(data[evenOffLat+1])<<16 | int32(data[evenOffLat+2])<<8 | int32(data[evenOffLat+3])
	rawLon := int32(data[evenOffLon])<<24 | int32(data[evenOffLon+1])<<16 | int32(data[evenOffLon+2])<<8 | int32(data[evenOffLon+3])
	rawAlt := (int32(data[evenOffAlt])<<24 | int32(data[evenOffAlt+1])<<16 | int32(data[evenOffAlt+2])<<8) >> 8
	rawSpeed := uint16(data[evenOffSpeed])<<8 | uint16(data[evenOffSpeed+1])
	rawHeading := int16(data[evenOffHeading])<<8 | int16(data[evenOffHeading+1])

	dst.Fields |= sonde.FieldPos | sonde.FieldSpeed
	dst.Lat = gpsLat(rawLat)
	dst.Lon = gpsLon(rawLon)
	dst.Alt = gpsAlt(rawAlt)
	dst.Speed = gpsSpeed(rawSpeed)
	dst.Heading = gpsHeading(rawHeading)

	d.lastAlt = dst.Alt
}

// calibFragOff is where a calibration-table fragment rides within the
// unpacked odd-frame buffer, trailing the four ADC channel words; its
// index cycles with the frame sequence number.
const calibFragOff = oddOffRHFreq + 2

func (d *Decoder) parseOdd(dst *sonde.Data, data []byte) {
	if len(data) >= calibFragOff+calibFragSize {
		d.calib.PutFragment(int(dst.Seq/2)%calibFragments, data[calibFragOff:calibFragOff+calibFragSize])
	}

	if len(data) < oddOffRHFreq+2 || !d.calib.Complete() {
		return
	}

	tempFreq := float32(uint16(data[oddOffTempFreq])<<8 | uint16(data[oddOffTempFreq+1]))
	refFreq := float32(uint16(data[oddOffRefFreq])<<8 | uint16(data[oddOffRefFreq+1]))
	rhTempFreq := float32(uint16(data[oddOffRHTempFreq])<<8 | uint16(data[oddOffRHTempFreq+1]))
	rhFreq := float32(uint16(data[oddOffRHFreq])<<8 | uint16(data[oddOffRHFreq+1]))

	tempPoly := d.calib.tempPoly()
	airTemp := freqToTemp(tempFreq, refFreq, tempPoly, d.calib.tempResists(), d.calib.temps())
	rhTemp := freqToRHTemp(rhTempFreq, refFreq, tempPoly, d.calib.rhTempPoly())
	rh := freqToRH(rhFreq, refFreq, d.calib.rhPoly())

	if airTemp > -100 && airTemp < 100 {
		rh *= waterVaporSatPressure(rhTemp) / waterVaporSatPressure(airTemp)
	}
	if rh < 0 {
		rh = 0
	}
	if rh > 100 {
		rh = 100
	}

	dst.Fields |= sonde.FieldPTU
	dst.Calibrated = true
	dst.CalibPercent = d.calib.Percent()
	dst.Temp = airTemp
	dst.RH = rh
	dst.Pressure = geo.AltitudeToPressure(float64(d.lastAlt))
}
