package mrz

import (
	"encoding/binary"
	"fmt"
)

// Byte offsets within the data region (frame[syncBytes:syncBytes+dataLen]),
// reconstructed from parser.c's accessor formulas: mrzn1_seq masks the low
// nibble of a one-byte sequence counter, mrzn1_x/y/z and mrzn1_dx/dy/dz
// scale fixed-point position (cm) and velocity (cm/s) components, and
// mrzn1_temp/mrzn1_rh scale a one-hundredth-degree/percent pair. The
// calibration fragment trails the PTU pair, sized and counted per the
// convention documented in protocol.go.
const (
	offSeq  = 0
	offHour = 1
	offMin  = 2
	offSec  = 3

	offX = 4
	offY = 8
	offZ = 12

	offDX = 16
	offDY = 18
	offDZ = 20

	offTemp = 22
	offRH   = 24

	offCalibSeq = 26
)

func seq(data []byte) int { return int(data[offSeq] & 0x0F) }

func posX(data []byte) float32 { return float32(int32(binary.BigEndian.Uint32(data[offX:]))) / 100.0 }
func posY(data []byte) float32 { return float32(int32(binary.BigEndian.Uint32(data[offY:]))) / 100.0 }
func posZ(data []byte) float32 { return float32(int32(binary.BigEndian.Uint32(data[offZ:]))) / 100.0 }

func velDX(data []byte) float32 { return float32(int16(binary.BigEndian.Uint16(data[offDX:]))) / 100.0 }
func velDY(data []byte) float32 { return float32(int16(binary.BigEndian.Uint16(data[offDY:]))) / 100.0 }
func velDZ(data []byte) float32 { return float32(int16(binary.BigEndian.Uint16(data[offDZ:]))) / 100.0 }

func temp(data []byte) float32 {
	return float32(int16(binary.BigEndian.Uint16(data[offTemp:]))) / 100.0
}

func rh(data []byte) float32 {
	v := float32(binary.BigEndian.Uint16(data[offRH:])) / 100.0
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return v
}

// calibSeq returns the 0-indexed fragment slot, per mrzn1_calib_seq's
// "calib_frag_seq - 1" (fragments are numbered starting at 1 on air).
func calibSeq(data []byte) int { return int(data[offCalibSeq]) - 1 }

// Calibration holds the assembled MRZ-N1 calibration table: a manufacture
// date, a calibration date, and a serial number, each reconstructed from
// mrzn1_serial/mrzn1_time's arithmetic on a packed decimal date.
type Calibration struct {
	date, calDate, serial uint32
}

func newCalibration(storage []byte) Calibration {
	return Calibration{
		date:    binary.LittleEndian.Uint32(storage[calibOffDate:]),
		calDate: binary.LittleEndian.Uint32(storage[calibOffCalDate:]),
		serial:  binary.LittleEndian.Uint32(storage[calibOffSerial:]),
	}
}

// dateParts decodes a packed DDMMYY decimal date as used by mrzn1_time:
// day = date/10000, month = (date/100)%100, two-digit year = date%100.
func dateParts(packed uint32) (year, month, day int) {
	return 2000 + int(packed%100), int((packed/100)%100), int(packed / 10000)
}

// serialString renders the MRZ-N1 serial number, matching mrzn1_serial's
// "MRZ-H1%02d%05d" format built from the calibration date's year and a
// transmitted serial counter.
func (c Calibration) serialString() string {
	manufYear := int(c.calDate%100) - 10
	if manufYear < 0 {
		manufYear += 100
	}
	return fmt.Sprintf("MRZ-H1%02d%05d", manufYear, c.serial)
}
