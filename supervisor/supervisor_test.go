package supervisor

import (
	"testing"

	"github.com/dbrief/sondecore/sonde"
	"github.com/stretchr/testify/require"
)

type fakeDecoder struct {
	status sonde.ParserStatus
	fields sonde.Fields
	calls  int
}

func (f *fakeDecoder) Decode(dst *sonde.Data, src []float32) sonde.ParserStatus {
	f.calls++
	dst.Fields = f.fields
	if f.fields != 0 {
		dst.Seq = 42
		dst.Fields |= sonde.FieldSeq
	}
	return f.status
}

func newTestSupervisor() (*Supervisor, map[Mode]*fakeDecoder) {
	fakes := map[Mode]*fakeDecoder{
		Rs41:   {status: sonde.Parsed},
		Dfm:    {status: sonde.Parsed},
		Ims100: {status: sonde.Parsed},
		M10:    {status: sonde.Parsed},
		Imet4:  {status: sonde.Parsed},
		Mrz:    {status: sonde.Parsed},
	}
	s := &Supervisor{
		mode: Auto,
		decoders: map[Mode]protocolDecoder{
			Rs41:   fakes[Rs41],
			Dfm:    fakes[Dfm],
			Ims100: fakes[Ims100],
			M10:    fakes[M10],
			Imet4:  fakes[Imet4],
			Mrz:    fakes[Mrz],
		},
	}
	return s, fakes
}

func TestAutoLatchesOnFirstNonEmptyDecoder(t *testing.T) {
	s, fakes := newTestSupervisor()
	fakes[Ims100].fields = sonde.FieldSeq

	status := s.Decode(make([]float32, 8))
	require.Equal(t, sonde.Parsed, status)
	require.Equal(t, Ims100, s.Mode())
	require.Equal(t, uint32(42), s.Current().Seq)
}

func TestAutoReturnsProceedWhenNoDecoderCompletes(t *testing.T) {
	s, fakes := newTestSupervisor()
	for _, f := range fakes {
		f.status = sonde.Proceed
	}

	status := s.Decode(make([]float32, 8))
	require.Equal(t, sonde.Proceed, status)
	require.Equal(t, Auto, s.Mode())
}

func TestAutoReturnsParsedWithEmptyFieldsWhenNothingLatches(t *testing.T) {
	s, _ := newTestSupervisor()

	status := s.Decode(make([]float32, 8))
	require.Equal(t, sonde.Parsed, status)
	require.Equal(t, Auto, s.Mode())
	require.Equal(t, sonde.Fields(0), s.Current().Fields)
}

func TestSetModeResetsBufferAndEmitsNoOpParsed(t *testing.T) {
	s, fakes := newTestSupervisor()
	fakes[Rs41].fields = sonde.FieldSeq
	s.Decode(make([]float32, 8))
	require.Equal(t, Rs41, s.Mode())
	require.NotEqual(t, sonde.Fields(0), s.Current().Fields)

	s.SetMode(Dfm)
	status := s.Decode(make([]float32, 8))
	require.Equal(t, sonde.Parsed, status)
	require.Equal(t, sonde.Fields(0), s.Current().Fields)
	require.Equal(t, 0, fakes[Dfm].calls)
}

func TestFixedModeMergesAcrossCallsAndSwapsOnFrameEnd(t *testing.T) {
	s, fakes := newTestSupervisor()
	s.mode = M10
	fakes[M10].fields = sonde.FieldSeq

	s.Decode(make([]float32, 8))
	require.Equal(t, uint32(42), s.Current().Seq)

	fakes[M10].fields = 0
	status := s.Decode(make([]float32, 8))
	require.Equal(t, sonde.Parsed, status)
	// No new fields this call: the previously-assembled record is still
	// visible, since nothing was swapped in.
	require.Equal(t, uint32(42), s.Current().Seq)
}

func TestFixedModeProceedPassesThrough(t *testing.T) {
	s, fakes := newTestSupervisor()
	s.mode = Imet4
	fakes[Imet4].status = sonde.Proceed

	status := s.Decode(make([]float32, 8))
	require.Equal(t, sonde.Proceed, status)
}
