// Command arrayvec-prof runs arrayvec workloads and reports their allocations.
//
// Run with "run" for the container workload or "codec" to round-trip a vector
// through the wire codecs. Flags may also be set from ARRAYVEC_* environment
// variables.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/fxamacker/cbor/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rawbytedev/arrayvec"
	"github.com/rawbytedev/arrayvec/pkg/vecwire"
)

var rootFlags struct {
	logLevel string
	pprof    string
}

var runFlags struct {
	iterations int
	memprofile string
}

var codecFlags struct {
	iterations int
	compress   bool
	unsafe     bool
}

func main() {
	rootFS := flag.NewFlagSet("arrayvec-prof", flag.ExitOnError)
	rootFS.StringVar(&rootFlags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootFS.StringVar(&rootFlags.pprof, "pprof", "", "serve net/http/pprof on this address, e.g. localhost:6060")

	var logger *zap.SugaredLogger
	root := &ffcli.Command{
		ShortUsage: "arrayvec-prof [flags] <run|codec> [flags]",
		ShortHelp:  "arrayvec allocation profiler",
		FlagSet:    rootFS,
		Options:    []ff.Option{ff.WithEnvVarPrefix("ARRAYVEC")},
		Exec: func(ctx context.Context, args []string) error {
			return flag.ErrHelp
		},
		Subcommands: []*ffcli.Command{
			{
				Name:       "run",
				ShortUsage: "run [flags]",
				ShortHelp:  "Run the container workload",
				FlagSet:    buildRunFlags(),
				Options:    []ff.Option{ff.WithEnvVarPrefix("ARRAYVEC")},
				Exec: func(ctx context.Context, args []string) error {
					return runWorkload(logger)
				},
			},
			{
				Name:       "codec",
				ShortUsage: "codec [flags]",
				ShortHelp:  "Round-trip a vector through the codecs",
				FlagSet:    buildCodecFlags(),
				Options:    []ff.Option{ff.WithEnvVarPrefix("ARRAYVEC")},
				Exec: func(ctx context.Context, args []string) error {
					return runCodec(logger)
				},
			},
		},
	}

	if err := root.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	var err error
	logger, err = newLogger(rootFlags.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	if rootFlags.pprof != "" {
		go func() {
			logger.Infow("pprof listening", "addr", rootFlags.pprof)
			logger.Warnw("pprof server stopped", "err", http.ListenAndServe(rootFlags.pprof, nil))
		}()
	}

	if err := root.Run(context.Background()); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Fatal(err.Error())
	}
}

func buildRunFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.IntVar(&runFlags.iterations, "iterations", 10000, "number of workload rounds")
	fs.StringVar(&runFlags.memprofile, "memprofile", "", "write a heap profile to this file")
	return fs
}

func buildCodecFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("codec", flag.ExitOnError)
	fs.IntVar(&codecFlags.iterations, "iterations", 1000, "number of round trips")
	fs.BoolVar(&codecFlags.compress, "compress", false, "zstd-compress frames")
	fs.BoolVar(&codecFlags.unsafe, "unsafe", true, "copy element memory directly on little-endian hosts")
	return fs
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("error parsing log level %q: %w", level, err)
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	return zap.Must(zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderCfg,
	}.Build()).Sugar(), nil
}

type vec64 = arrayvec.ArrayVec[int, [64]int]

// workload runs one round of every container operation and returns a value
// derived from the results so the work is not optimized away.
func workload(v *vec64) int {
	for i := 0; !v.IsFull(); i++ {
		v.Push(i)
	}
	v.Remove(10)
	v.Insert(10, -1)
	v.SwapRemove(0)

	sum := 0
	d := v.Drain(8, 24)
	for x := range d.All() {
		sum += x
	}

	it := v.IntoIter()
	defer it.Close()
	for x := range it.All() {
		sum -= x
	}
	return sum
}

func runWorkload(logger *zap.SugaredLogger) error {
	runtime.MemProfileRate = 1
	var v vec64
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	sum := 0
	for range runFlags.iterations {
		sum += workload(&v)
	}
	runtime.ReadMemStats(&after)
	logger.Infow("workload done",
		"iterations", runFlags.iterations,
		"mallocs", after.Mallocs-before.Mallocs,
		"bytes", after.TotalAlloc-before.TotalAlloc,
		"checksum", sum,
	)

	if runFlags.memprofile == "" {
		return nil
	}
	f, err := os.Create(runFlags.memprofile)
	if err != nil {
		return errors.Wrap(err, "create heap profile")
	}
	defer f.Close()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return errors.Wrap(err, "write heap profile")
	}
	logger.Infow("heap profile written", "path", runFlags.memprofile)
	return nil
}

func runCodec(logger *zap.SugaredLogger) error {
	var src arrayvec.ArrayVec[int64, [64]int64]
	for i := range int64(src.Cap()) {
		src.Push(i * i)
	}
	c := vecwire.NewCodec(vecwire.Options{
		Compress:         codecFlags.compress,
		UnsafePrimitives: codecFlags.unsafe,
	})
	defer c.Close()

	var dst arrayvec.ArrayVec[int64, [64]int64]
	var frameLen int
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	for range codecFlags.iterations {
		frame, err := vecwire.Encode(c, src.AsSliceVec())
		if err != nil {
			return err
		}
		frameLen = len(frame)
		dst.Clear()
		if err := vecwire.Decode(c, frame, dst.AsSliceVec()); err != nil {
			return err
		}
	}
	runtime.ReadMemStats(&after)
	logger.Debugw("decoded", "vec", dst.String())

	js, err := json.Marshal(src)
	if err != nil {
		return errors.Wrap(err, "marshal json")
	}
	cb, err := cbor.Marshal(src)
	if err != nil {
		return errors.Wrap(err, "marshal cbor")
	}
	logger.Infow("codec done",
		"iterations", codecFlags.iterations,
		"compress", codecFlags.compress,
		"frame_bytes", frameLen,
		"json_bytes", len(js),
		"cbor_bytes", len(cb),
		"mallocs", after.Mallocs-before.Mallocs,
	)
	return nil
}
