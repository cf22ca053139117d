// Package fwfcli dispatches the fwfconv subcommands, in the shape of
// the teacher's boldkit/cmd.Execute: a flat switch over args[0], with
// usage printed to stderr on anything unrecognized. Unlike the teacher,
// Execute returns an exit code instead of calling os.Exit itself, so
// that deferred cleanup (closing sinks, flushing progress bars) in the
// caller's stack still runs on the error path.
package fwfcli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/firelink-data/fwfconv/internal/config"
	"github.com/firelink-data/fwfconv/internal/convert"
	"github.com/firelink-data/fwfconv/internal/logging"
	"github.com/firelink-data/fwfconv/internal/mocker"
	"github.com/firelink-data/fwfconv/internal/schema"
)

// Execute runs the subcommand named by args[0] and returns the process
// exit code.
func Execute(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "convert":
		return runConvert(args[1:])
	case "mock":
		return runMock(args[1:])
	case "-h", "--help", "help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n", args[0])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "fwfconv - fixed-width flat file to columnar converter")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  fwfconv <command> [options]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  convert   Convert a fixed-width flat file to Parquet/Arrow IPC/CSV/Delta/Iceberg")
	fmt.Fprintln(os.Stderr, "  mock      Generate a random fixed-width flat file from a schema")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Run 'fwfconv <command> -h' for command-specific options.")
}

func runConvert(args []string) int {
	cfg, err := config.ParseConvertArgs(args)
	if err != nil {
		logging.Error("%v", err)
		return 1
	}

	stats, err := convert.Run(cfg)
	if err != nil {
		logging.Error("%v", err)
		return 1
	}

	logging.Info("run %s done: %d rows, %d batches, %d bytes processed (%d overlapped), in %s",
		stats.RunID, stats.Rows, stats.Batches, stats.BytesProcessed, stats.BytesOverlapped, stats.Elapsed)

	if cfg.StatsOut != "" {
		if err := writeStats(cfg.StatsOut, stats); err != nil {
			logging.Error("writing stats to %s: %v", cfg.StatsOut, err)
			return 1
		}
	}
	return 0
}

func writeStats(path string, stats *convert.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

func runMock(args []string) int {
	cfg, err := config.ParseMockArgs(args)
	if err != nil {
		logging.Error("%v", err)
		return 1
	}

	sch, err := schema.Load(cfg.SchemaFile)
	if err != nil {
		logging.Error("loading schema: %v", err)
		return 1
	}

	out, err := mocker.NewOutput(cfg.OutFile, cfg.Gzip)
	if err != nil {
		logging.Error("opening output file: %v", err)
		return 1
	}
	defer func() {
		_ = out.Close()
	}()

	if err := mocker.Generate(out, sch, cfg.Rows, cfg.Seed); err != nil {
		logging.Error("generating mocked rows: %v", err)
		return 1
	}

	logging.Info("mocked %d rows to %s", cfg.Rows, cfg.OutFile)
	return 0
}
