package sink

import (
	"strings"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

type nopCloser struct{ closed bool }

func (n *nopCloser) Close() error {
	n.closed = true
	return nil
}

func buildTestRecord(t *testing.T) arrow.Record {
	t.Helper()
	mem := memory.NewGoAllocator()
	sch := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	idB := array.NewInt32Builder(mem)
	defer idB.Release()
	idB.Append(1)
	idB.Append(2)
	idArr := idB.NewArray()
	defer idArr.Release()

	nameB := array.NewStringBuilder(mem)
	defer nameB.Release()
	nameB.Append("alice")
	nameB.AppendNull()
	nameArr := nameB.NewArray()
	defer nameArr.Release()

	return array.NewRecord(sch, []arrow.Array{idArr, nameArr}, 2)
}

func TestCSVWritesHeaderAndRows(t *testing.T) {
	var buf strings.Builder
	closer := &nopCloser{}
	c := NewCSV(&buf, closer)

	rec := buildTestRecord(t)
	defer rec.Release()

	if err := c.Write(rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !closer.closed {
		t.Error("expected Finish to close the underlying writer")
	}

	want := "id,name\n1,alice\n2,\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestCSVHeaderWrittenOnce(t *testing.T) {
	var buf strings.Builder
	c := NewCSV(&buf, nil)

	rec1 := buildTestRecord(t)
	defer rec1.Release()
	rec2 := buildTestRecord(t)
	defer rec2.Release()

	if err := c.Write(rec1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Write(rec2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Count(buf.String(), "id,name") != 1 {
		t.Errorf("expected exactly one header line, got: %q", buf.String())
	}
}
