// Package config assembles CLI flags into the Config the converter
// driver runs from (spec §6), following the teacher's per-command
// flag.FlagSet shape in boldkit/cmd/root.go.
package config

import (
	"flag"
	"fmt"
	"runtime"
	"strings"

	"github.com/firelink-data/fwfconv/internal/logging"
)

// Target names an output sink kind.
type Target string

const (
	TargetParquet Target = "parquet"
	TargetIPC     Target = "ipc"
	TargetCSV     Target = "csv"
	TargetDelta   Target = "delta"
	TargetIceberg Target = "iceberg"
)

func (t Target) valid() bool {
	switch t {
	case TargetParquet, TargetIPC, TargetCSV, TargetDelta, TargetIceberg:
		return true
	}
	return false
}

const (
	defaultReadBufferSize = 5 << 30 // 5 GiB, per spec §6
	defaultNThreads       = 1
)

// Config holds everything the conversion driver needs, assembled from
// CLI flags and then validated/clamped.
type Config struct {
	InFile                string
	SchemaFile            string
	OutFile               string
	Target                Target
	NThreads              int
	ReadBufferSize        int
	ThreadChannelCapacity int
	Progress              bool
	StatsOut              string
}

// ParseConvertArgs parses the flags for `fwfconv convert` and returns a
// validated Config. It clamps NThreads to runtime.NumCPU(), logging a
// warning when it does (spec §6's explicit edge case).
func ParseConvertArgs(args []string) (*Config, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	inFile := fs.String("in-file", "", "path to the fixed-width input file")
	schemaFile := fs.String("schema", "", "path to the JSON schema document")
	outFile := fs.String("out-file", "", "path to write the converted output to")
	target := fs.String("target", string(TargetParquet), "output target: parquet|ipc|csv|delta|iceberg")
	nThreads := fs.Int("n-threads", defaultNThreads, "number of parallel conversion workers")
	readBufferSize := fs.Int("read-buffer-size", defaultReadBufferSize, "bytes to read per chunk")
	channelCapacity := fs.Int("thread-channel-capacity", 0, "bounded channel capacity between workers and the writer (default: n-threads)")
	progress := fs.Bool("progress", false, "show a progress bar on stderr")
	statsOut := fs.String("stats-out", "", "optional path to write the run's stats as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *inFile == "" || *schemaFile == "" || *outFile == "" {
		return nil, fmt.Errorf("config: --in-file, --schema and --out-file are all required")
	}

	t := Target(strings.ToLower(*target))
	if !t.valid() {
		return nil, fmt.Errorf("config: unknown --target %q", *target)
	}

	threads := *nThreads
	if threads < 1 {
		threads = 1
	}
	if cores := runtime.NumCPU(); threads > cores {
		logging.Warn("n-threads %d exceeds %d logical cores; clamping", threads, cores)
		threads = cores
	}

	capacity := *channelCapacity
	if capacity <= 0 {
		capacity = threads
	}

	return &Config{
		InFile:                *inFile,
		SchemaFile:            *schemaFile,
		OutFile:               *outFile,
		Target:                t,
		NThreads:              threads,
		ReadBufferSize:        *readBufferSize,
		ThreadChannelCapacity: capacity,
		Progress:              *progress,
		StatsOut:              *statsOut,
	}, nil
}
