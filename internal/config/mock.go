package config

import (
	"flag"
	"fmt"
)

// MockConfig holds the flags for `fwfconv mock`.
type MockConfig struct {
	SchemaFile string
	OutFile    string
	Rows       int
	Gzip       bool
	Seed       uint64
}

// ParseMockArgs parses the flags for `fwfconv mock` and returns a
// validated MockConfig.
func ParseMockArgs(args []string) (*MockConfig, error) {
	fs := flag.NewFlagSet("mock", flag.ContinueOnError)
	schemaFile := fs.String("schema", "", "path to the JSON schema document")
	outFile := fs.String("out-file", "", "path to write the mocked fixed-width file to")
	rows := fs.Int("rows", 0, "number of rows to generate")
	gzip := fs.Bool("gzip", false, "gzip-compress the output")
	seed := fs.Uint64("seed", 1, "seed for the random field generator, for reproducible output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *schemaFile == "" || *outFile == "" {
		return nil, fmt.Errorf("config: --schema and --out-file are both required")
	}
	if *rows <= 0 {
		return nil, fmt.Errorf("config: --rows must be a positive integer")
	}

	return &MockConfig{
		SchemaFile: *schemaFile,
		OutFile:    *outFile,
		Rows:       *rows,
		Gzip:       *gzip,
		Seed:       *seed,
	}, nil
}
