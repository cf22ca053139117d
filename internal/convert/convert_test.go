package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/firelink-data/fwfconv/internal/config"
	"github.com/firelink-data/fwfconv/internal/mocker"
	"github.com/firelink-data/fwfconv/internal/schema"
)

const testSchemaDoc = `{
  "name": "convert-test",
  "version": 1,
  "columns": [
    {"name": "id", "length": 6, "dtype": "i32", "alignment": "right", "pad_symbol": "0"},
    {"name": "active", "length": 5, "dtype": "bool", "alignment": "left"},
    {"name": "name", "length": 8, "dtype": "utf8", "alignment": "left"}
  ]
}`

func writeTestSchema(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(testSchemaDoc), 0o644))
	return path
}

func writeTestInput(t *testing.T, dir string, rows int, seed uint64) string {
	t.Helper()
	sch, err := schema.Parse(strings.NewReader(testSchemaDoc))
	require.NoError(t, err)

	path := filepath.Join(dir, "input.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	require.NoError(t, mocker.Generate(f, sch, rows, seed))
	return path
}

func TestRunConvertsToCSV(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTestSchema(t, dir)
	inputPath := writeTestInput(t, dir, 50, 7)
	outPath := filepath.Join(dir, "out.csv")

	cfg := &config.Config{
		InFile:                inputPath,
		SchemaFile:            schemaPath,
		OutFile:               outPath,
		Target:                config.TargetCSV,
		NThreads:              1,
		ReadBufferSize:        1 << 20,
		ThreadChannelCapacity: 1,
	}

	stats, err := Run(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, stats.RunID)
	require.EqualValues(t, 50, stats.Rows)
	require.Equal(t, int64(1), stats.Batches)
	require.Greater(t, stats.BytesProcessed, int64(0))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "id,active,name\n")
}

// TestRunIsDeterministicAcrossThreadCounts checks spec §8's K=1 vs K=N
// property end to end: splitting the same input into one region or many
// must restore file order identically on the writer side.
func TestRunIsDeterministicAcrossThreadCounts(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTestSchema(t, dir)
	inputPath := writeTestInput(t, dir, 200, 99)

	single := filepath.Join(dir, "single.csv")
	cfgSingle := &config.Config{
		InFile:                inputPath,
		SchemaFile:            schemaPath,
		OutFile:               single,
		Target:                config.TargetCSV,
		NThreads:              1,
		ReadBufferSize:        1 << 20,
		ThreadChannelCapacity: 1,
	}
	statsSingle, err := Run(cfgSingle)
	require.NoError(t, err)

	multi := filepath.Join(dir, "multi.csv")
	cfgMulti := &config.Config{
		InFile:                inputPath,
		SchemaFile:            schemaPath,
		OutFile:               multi,
		Target:                config.TargetCSV,
		NThreads:              4,
		ReadBufferSize:        1 << 20,
		ThreadChannelCapacity: 4,
	}
	statsMulti, err := Run(cfgMulti)
	require.NoError(t, err)

	require.Equal(t, statsSingle.Rows, statsMulti.Rows)

	wantSingle, err := os.ReadFile(single)
	require.NoError(t, err)
	wantMulti, err := os.ReadFile(multi)
	require.NoError(t, err)
	require.Equal(t, string(wantSingle), string(wantMulti))
}

func TestRunRejectsUnsupportedSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"name":"bad","version":99,"columns":[{"name":"id","length":3,"dtype":"i32"}]}`), 0o644))

	inputPath := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(inputPath, []byte("123\n"), 0o644))

	cfg := &config.Config{
		InFile:                inputPath,
		SchemaFile:            schemaPath,
		OutFile:               filepath.Join(dir, "out.csv"),
		Target:                config.TargetCSV,
		NThreads:              1,
		ReadBufferSize:        1 << 20,
		ThreadChannelCapacity: 1,
	}

	_, err := Run(cfg)
	require.Error(t, err)
}
