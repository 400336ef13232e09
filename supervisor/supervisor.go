// Package supervisor implements the thin switch sitting above the six
// per-protocol decoders: a single active decoder, or an Auto mode that
// speculatively races every decoder against the incoming sample buffer
// until one of them proves itself by producing a record.
package supervisor

import (
	"github.com/dbrief/sondecore/protocol/dfm"
	"github.com/dbrief/sondecore/protocol/imet4"
	"github.com/dbrief/sondecore/protocol/ims100"
	"github.com/dbrief/sondecore/protocol/m10"
	"github.com/dbrief/sondecore/protocol/mrz"
	"github.com/dbrief/sondecore/protocol/rs41"
	"github.com/dbrief/sondecore/sonde"
)

// Mode identifies which protocol decoder is active, or Auto for
// speculative detection.
type Mode int

const (
	Auto Mode = iota
	Rs41
	Dfm
	Ims100
	M10
	Imet4
	Mrz
)

// String names the mode for logging/debug output.
func (m Mode) String() string {
	switch m {
	case Auto:
		return "auto"
	case Rs41:
		return "rs41"
	case Dfm:
		return "dfm"
	case Ims100:
		return "ims100"
	case M10:
		return "m10"
	case Imet4:
		return "imet4"
	case Mrz:
		return "mrz"
	default:
		return "unknown"
	}
}

// protocolDecoder is satisfied by every protocol package's *Decoder: they
// all share this shape even though nothing declares it explicitly.
type protocolDecoder interface {
	Decode(dst *sonde.Data, src []float32) sonde.ParserStatus
}

// autoOrder is the sequence Auto mode tries each call; it has no bearing
// on correctness, only on which protocol wins a tie where two decoders
// happen to both validate the same sample buffer (practically impossible
// given how distinct each sync word and frame length is, but the order is
// still deterministic rather than accidental).
var autoOrder = []Mode{Rs41, Dfm, Ims100, M10, Imet4, Mrz}

// Supervisor owns one instance of every protocol decoder and a
// double-buffered output slot. It replaces the reference implementation's
// static active-decoder pointer with an explicit object so multiple
// independent streams can be supervised without shared mutable state.
type Supervisor struct {
	decoders map[Mode]protocolDecoder

	mode          Mode
	pendingSwitch bool

	working sonde.Data
	buf     [2]sonde.Data
	active  int
}

// New builds a Supervisor with one decoder of every protocol, all
// constructed for a baseband stream sampled at sampleRate Hz. It starts in
// Auto mode.
func New(sampleRate int) *Supervisor {
	return &Supervisor{
		mode: Auto,
		decoders: map[Mode]protocolDecoder{
			Rs41:   rs41.NewDecoder(sampleRate),
			Dfm:    dfm.NewDecoder(sampleRate),
			Ims100: ims100.NewDecoder(sampleRate),
			M10:    m10.NewDecoder(sampleRate),
			Imet4:  imet4.NewDecoder(sampleRate),
			Mrz:    mrz.NewDecoder(sampleRate),
		},
	}
}

// Mode reports the currently active decoder, Auto if still detecting.
func (s *Supervisor) Mode() Mode { return s.mode }

// SetMode changes the active decoder. Per the reference behavior, the
// change doesn't take effect until the next Decode call, which resets the
// double-buffered output slot and returns a single no-op Parsed (fields
// empty) before any new data is produced under the new mode.
func (s *Supervisor) SetMode(m Mode) {
	s.mode = m
	s.pendingSwitch = true
}

// Current returns the most recently completed, fully assembled record.
// The returned pointer is valid only until the next Decode call: Decode
// may swap which buffer slot it points into.
func (s *Supervisor) Current() *sonde.Data {
	return &s.buf[s.active]
}

// Decode advances whichever decoder(s) the current mode implies. In a
// fixed mode this is a direct pass-through to that protocol's Decode; in
// Auto it races every decoder against src and latches onto the first to
// produce a non-empty record.
func (s *Supervisor) Decode(src []float32) sonde.ParserStatus {
	if s.pendingSwitch {
		s.pendingSwitch = false
		s.resetBuffers()
		return sonde.Parsed
	}

	if s.mode == Auto {
		return s.decodeAuto(src)
	}

	return s.decodeActive(s.mode, src)
}

func (s *Supervisor) resetBuffers() {
	s.working = sonde.Data{}
	s.buf[0] = sonde.Data{}
	s.buf[1] = sonde.Data{}
	s.active = 0
}

// decodeActive feeds src through the single decoder for mode m, merging
// any newly-set fields into the double buffer and swapping on FrameEnd
// (a Parsed result with at least one field set).
func (s *Supervisor) decodeActive(m Mode, src []float32) sonde.ParserStatus {
	d := s.decoders[m]

	var frame sonde.Data
	status := d.Decode(&frame, src)
	if status == sonde.Proceed {
		return sonde.Proceed
	}

	if frame.Fields != 0 {
		s.working.Merge(frame)
		s.swap()
	}

	return sonde.Parsed
}

// decodeAuto implements the diagnostic-only interpretation of the Auto
// state documented as the preferred resolution to the reference's
// "stale non-selected decoder state" open question: every decoder is fed
// the same sample slice each call until one produces a non-empty record,
// at which point that protocol is latched as the active mode and its
// result becomes the supervisor's first output. Auto is not revisited
// once a protocol has been identified and the other five decoders stop
// being raced against future sample buffers; their instances are kept
// (not discarded), so a later SetMode back to one of them resumes
// whatever state it was last left in.
func (s *Supervisor) decodeAuto(src []float32) sonde.ParserStatus {
	completedAny := false

	for _, m := range autoOrder {
		var frame sonde.Data
		status := s.decoders[m].Decode(&frame, src)
		if status != sonde.Parsed {
			continue
		}
		completedAny = true

		if frame.Fields != 0 {
			s.mode = m
			s.working = sonde.Data{}
			s.working.Merge(frame)
			s.swap()
			return sonde.Parsed
		}
	}

	if completedAny {
		return sonde.Parsed
	}
	return sonde.Proceed
}

func (s *Supervisor) swap() {
	next := 1 - s.active
	s.buf[next] = s.working
	s.active = next
}
