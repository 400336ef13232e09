// sondedump is a thin demonstration binary wiring a raw float32 baseband
// stream (stdin, or a file given as the sole positional argument) into the
// supervisor and printing every decoded record as structured log lines.
package main

import (
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/dbrief/sondecore/sonde"
	"github.com/dbrief/sondecore/supervisor"
)

var modeNames = map[string]supervisor.Mode{
	"auto":   supervisor.Auto,
	"rs41":   supervisor.Rs41,
	"dfm":    supervisor.Dfm,
	"ims100": supervisor.Ims100,
	"m10":    supervisor.M10,
	"imet4":  supervisor.Imet4,
	"mrz":    supervisor.Mrz,
}

func main() {
	sampleRate := pflag.IntP("sample-rate", "r", 48000, "Baseband sample rate, in Hz.")
	mode := pflag.StringP("mode", "m", "auto", "Decoder to use: auto, rs41, dfm, ims100, m10, imet4, or mrz.")
	chunkSize := pflag.IntP("chunk-size", "c", 4096, "Samples read per decode call.")
	verbose := pflag.BoolP("verbose", "v", false, "Log every decode call, not just completed records.")

	pflag.Usage = func() {
		os.Stderr.WriteString("sondedump - decode a raw float32 FM-demodulated baseband stream into SondeData records.\n\n")
		os.Stderr.WriteString("Usage: sondedump [options] [input-file]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	m, ok := modeNames[*mode]
	if !ok {
		log.Fatal("unknown mode", "mode", *mode)
	}

	var in io.Reader = os.Stdin
	if pflag.NArg() > 0 {
		f, err := os.Open(pflag.Arg(0))
		if err != nil {
			log.Fatal("opening input", "err", err)
		}
		defer f.Close()
		in = f
	}

	sup := supervisor.New(*sampleRate)
	sup.SetMode(m)

	logger := log.New(os.Stdout)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}
	buf := make([]byte, *chunkSize*4)
	samples := make([]float32, *chunkSize)

	for {
		n, err := io.ReadFull(in, buf)
		if n == 0 {
			break
		}
		nSamples := n / 4
		for i := 0; i < nSamples; i++ {
			samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		}

		status := sup.Decode(samples[:nSamples])
		if *verbose {
			logger.Debug("decode", "status", status, "mode", sup.Mode())
		}
		if status == sonde.Parsed {
			logRecord(logger, sup)
		}

		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			log.Fatal("reading input", "err", err)
		}
	}
}

func logRecord(logger *log.Logger, sup *supervisor.Supervisor) {
	data := sup.Current()
	if data.Fields == 0 {
		return
	}

	fields := []any{"mode", sup.Mode()}
	if data.Fields.Any(sonde.FieldSerial) {
		fields = append(fields, "serial", data.Serial)
	}
	if data.Fields.Any(sonde.FieldSeq) {
		fields = append(fields, "seq", data.Seq)
	}
	if data.Fields.Any(sonde.FieldPos) {
		fields = append(fields, "lat", data.Lat, "lon", data.Lon, "alt", data.Alt)
	}
	if data.Fields.Any(sonde.FieldSpeed) {
		fields = append(fields, "speed", data.Speed, "heading", data.Heading, "climb", data.Climb)
	}
	if data.Fields.Any(sonde.FieldPTU) {
		fields = append(fields, "temp", data.Temp, "rh", data.RH, "pressure", data.Pressure, "calib_pct", data.CalibPercent)
	}
	if data.Fields.Any(sonde.FieldXData) {
		fields = append(fields, "o3_ppb", data.XData.O3PPB)
	}
	if data.Fields.Any(sonde.FieldShutdown) {
		fields = append(fields, "shutdown_s", data.ShutdownSeconds)
	}
	if !data.Time.IsZero() {
		fields = append(fields, "time", data.Time)
	}

	logger.Info("record", fields...)
}
