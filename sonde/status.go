// Package sonde defines the shared data model produced by every protocol
// decoder: the parser status contract used to suspend/resume decoding across
// sample batches, and the SondeData record that carries whatever subset of
// telemetry fields a given subframe populated.
package sonde

// ParserStatus reports whether a decode call consumed its input without
// producing anything yet (Proceed, meaning "call me again with more
// samples"), or completed a unit of work (Parsed).
type ParserStatus int

const (
	// Proceed means the decoder needs more input samples before it can make
	// progress; callers should not inspect output state.
	Proceed ParserStatus = iota
	// Parsed means the decoder produced a result (a frame, a record) that is
	// now ready to be read out.
	Parsed
)

func (s ParserStatus) String() string {
	switch s {
	case Proceed:
		return "proceed"
	case Parsed:
		return "parsed"
	default:
		return "unknown"
	}
}
