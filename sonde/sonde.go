package sonde

import "time"

// Fields is a bitmask reporting which members of a SondeData record were
// populated by the most recent decode step. Consumers must not read a
// member whose bit is unset.
type Fields uint32

const (
	FieldSeq Fields = 1 << iota
	FieldSerial
	FieldPos
	FieldSpeed
	FieldTime
	FieldPTU
	FieldXData
	FieldShutdown
)

// Has reports whether every bit in want is set in f.
func (f Fields) Has(want Fields) bool {
	return f&want == want
}

// Any reports whether any bit in want is set in f.
func (f Fields) Any(want Fields) bool {
	return f&want != 0
}

// XData carries auxiliary-instrument readings, currently limited to the
// ENSCI ozone sensor payload described in the RS41 XDATA subframe.
type XData struct {
	O3PPB float32
}

// Data is the uniform record every protocol decoder yields. Only the
// members flagged in Fields are meaningful for a given instance; the rest
// may hold stale or zero values and must not be read.
type Data struct {
	Fields Fields

	Seq    uint32
	Serial string

	Lat, Lon, Alt    float32
	Speed, Heading   float32
	Climb            float32
	Time             time.Time
	Temp             float32
	RH               float32
	Pressure         float32
	CalibPercent     float32
	Calibrated       bool
	XData            XData
	ShutdownSeconds  uint32
}

// Merge copies every field flagged in src.Fields into d, setting the
// corresponding bits in d.Fields. It is the building block the supervisor's
// double buffer uses to accumulate a frame's worth of subframes into one
// record.
func (d *Data) Merge(src Data) {
	if src.Fields.Any(FieldSeq) {
		d.Seq = src.Seq
	}
	if src.Fields.Any(FieldSerial) {
		d.Serial = src.Serial
	}
	if src.Fields.Any(FieldPos) {
		d.Lat, d.Lon, d.Alt = src.Lat, src.Lon, src.Alt
	}
	if src.Fields.Any(FieldSpeed) {
		d.Speed, d.Heading, d.Climb = src.Speed, src.Heading, src.Climb
	}
	if src.Fields.Any(FieldTime) {
		d.Time = src.Time
	}
	if src.Fields.Any(FieldPTU) {
		d.Temp, d.RH, d.Pressure = src.Temp, src.RH, src.Pressure
		d.CalibPercent, d.Calibrated = src.CalibPercent, src.Calibrated
	}
	if src.Fields.Any(FieldXData) {
		d.XData = src.XData
	}
	if src.Fields.Any(FieldShutdown) {
		d.ShutdownSeconds = src.ShutdownSeconds
	}
	d.Fields |= src.Fields
}
