package rs41

import "encoding/binary"

// Byte offsets of the fields of each subframe type, counted from the start
// of the subframe's payload (i.e. after the shared type/len TLV header).
const (
	infoFrameSeq    = 0
	infoSerial      = 2
	infoFlightState = 13
	infoPCBTemp     = 16
	infoFragCount   = 22
	infoFragSeq     = 23
	infoFragData    = 24
	infoLen         = 40

	ptuTempMain      = 0
	ptuTempRef1      = 3
	ptuTempRef2      = 6
	ptuHumidityMain  = 9
	ptuHumidityRef1  = 12
	ptuHumidityRef2  = 15
	ptuPressureMain  = 27
	ptuPressureRef1  = 30
	ptuPressureRef2  = 33
	ptuPressureTemp  = 39
	ptuLen           = 44

	gpsPosX        = 0
	gpsPosY        = 4
	gpsPosZ        = 8
	gpsPosDX       = 12
	gpsPosDY       = 14
	gpsPosDZ       = 16
	gpsPosSVCount  = 18
	gpsPosLen      = 21

	gpsInfoWeek = 0
	gpsInfoMS   = 2
	gpsInfoLen  = 6
)

// u24 reads a 24-bit little-endian unsigned integer, the ADC sample width
// used throughout the PTU subframe.
func u24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

type infoSubframe struct {
	frameSeq    uint16
	serial      string
	burstkill   uint16
	fragCount   uint8
	fragSeq     uint8
	fragData    []byte
}

func parseInfoSubframe(data []byte) (infoSubframe, bool) {
	if len(data) < infoLen {
		return infoSubframe{}, false
	}
	serialBytes := data[infoSerial : infoSerial+8]
	n := 0
	for n < len(serialBytes) && serialBytes[n] != 0 {
		n++
	}
	return infoSubframe{
		frameSeq:  binary.LittleEndian.Uint16(data[infoFrameSeq:]),
		serial:    string(serialBytes[:n]),
		fragCount: data[infoFragCount],
		fragSeq:   data[infoFragSeq],
		fragData:  data[infoFragData:infoLen],
	}, true
}

type ptuSubframe struct {
	tempMain, tempRef1, tempRef2       uint32
	humidityMain, humidityRef1, humidityRef2 uint32
	pressureMain, pressureRef1, pressureRef2 uint32
	pressureTemp int16
}

func parsePTUSubframe(data []byte) (ptuSubframe, bool) {
	if len(data) < ptuLen {
		return ptuSubframe{}, false
	}
	return ptuSubframe{
		tempMain: u24(data[ptuTempMain:]), tempRef1: u24(data[ptuTempRef1:]), tempRef2: u24(data[ptuTempRef2:]),
		humidityMain: u24(data[ptuHumidityMain:]), humidityRef1: u24(data[ptuHumidityRef1:]), humidityRef2: u24(data[ptuHumidityRef2:]),
		pressureMain: u24(data[ptuPressureMain:]), pressureRef1: u24(data[ptuPressureRef1:]), pressureRef2: u24(data[ptuPressureRef2:]),
		pressureTemp: int16(binary.LittleEndian.Uint16(data[ptuPressureTemp:])),
	}, true
}

type gpsPosSubframe struct {
	x, y, z    uint32
	dx, dy, dz int16
	svCount    uint8
}

func parseGPSPosSubframe(data []byte) (gpsPosSubframe, bool) {
	if len(data) < gpsPosLen {
		return gpsPosSubframe{}, false
	}
	return gpsPosSubframe{
		x: binary.LittleEndian.Uint32(data[gpsPosX:]),
		y: binary.LittleEndian.Uint32(data[gpsPosY:]),
		z: binary.LittleEndian.Uint32(data[gpsPosZ:]),
		dx: int16(binary.LittleEndian.Uint16(data[gpsPosDX:])),
		dy: int16(binary.LittleEndian.Uint16(data[gpsPosDY:])),
		dz: int16(binary.LittleEndian.Uint16(data[gpsPosDZ:])),
		svCount: data[gpsPosSVCount],
	}, true
}

type gpsInfoSubframe struct {
	week uint16
	ms   uint32
}

// parseGPSInfoSubframe reads the GPS week/time-of-week pair this subframe is
// timestamped with. The rest of the GPSINFO layout (satellite RSSIs) isn't
// reconstructed, since nothing in SondeData surfaces it.
func parseGPSInfoSubframe(data []byte) (gpsInfoSubframe, bool) {
	if len(data) < gpsInfoLen {
		return gpsInfoSubframe{}, false
	}
	return gpsInfoSubframe{
		week: binary.LittleEndian.Uint16(data[gpsInfoWeek:]),
		ms:   binary.LittleEndian.Uint32(data[gpsInfoMS:]),
	}, true
}
