package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

func TestParquetWriteAndFinishProducesAValidFooter(t *testing.T) {
	rec := buildTestRecord(t)
	defer rec.Release()

	path := filepath.Join(t.TempDir(), "out.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := NewParquet(rec.Schema(), f, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Write(rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Every Parquet file starts and ends with the 4-byte "PAR1" magic.
	const magic = "PAR1"
	if len(data) < 2*len(magic) {
		t.Fatalf("output too small to be a Parquet file: %d bytes", len(data))
	}
	if string(data[:len(magic)]) != magic {
		t.Errorf("missing leading Parquet magic, got %q", data[:len(magic)])
	}
	if string(data[len(data)-len(magic):]) != magic {
		t.Errorf("missing trailing Parquet magic, got %q", data[len(data)-len(magic):])
	}
}

func TestParquetWriteMultipleRecordsAccumulates(t *testing.T) {
	mem := memory.NewGoAllocator()
	sch := arrow.NewSchema([]arrow.Field{{Name: "id", Type: arrow.PrimitiveTypes.Int32}}, nil)

	path := filepath.Join(t.TempDir(), "multi.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := NewParquet(sch, f, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		b := array.NewInt32Builder(mem)
		b.Append(int32(i))
		arr := b.NewArray()
		rec := array.NewRecord(sch, []arrow.Array{arr}, 1)

		if err := p.Write(rec); err != nil {
			t.Fatalf("unexpected error on record %d: %v", i, err)
		}
		rec.Release()
		arr.Release()
		b.Release()
	}

	if err := p.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected a non-empty Parquet file")
	}
}
