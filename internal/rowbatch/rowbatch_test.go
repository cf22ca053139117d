package rowbatch

import (
	"errors"
	"testing"

	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/firelink-data/fwfconv/internal/fwferr"
	"github.com/firelink-data/fwfconv/internal/schema"
)

func twoColumnSchema() *schema.Schema {
	return &schema.Schema{
		Name: "test",
		Columns: []schema.Column{
			{Name: "id", Length: 3, DType: schema.Int32, Alignment: schema.AlignRight, PadSymbol: ' '},
			{Name: "name", Length: 5, DType: schema.Utf8, Alignment: schema.AlignLeft, PadSymbol: ' '},
		},
	}
}

func TestTryBuildFromAndFinish(t *testing.T) {
	mem := memory.NewGoAllocator()
	sch := twoColumnSchema()
	b, err := New(sch, mem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer b.Release()

	// Two rows, 3+5=8 bytes each plus a 1-byte LF terminator.
	rows := " 12alice\n  7bob  \n"
	if err := b.TryBuildFrom([]byte(rows)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, err := b.TryFinish()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rec.Release()

	if rec.NumRows() != 2 {
		t.Errorf("got %d rows, want 2", rec.NumRows())
	}
	if rec.NumCols() != 2 {
		t.Errorf("got %d cols, want 2", rec.NumCols())
	}
}

func TestTryBuildFromMissingTerminator(t *testing.T) {
	mem := memory.NewGoAllocator()
	sch := twoColumnSchema()
	b, err := New(sch, mem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer b.Release()

	// 8 bytes of row content but no trailing terminator byte.
	err = b.TryBuildFrom([]byte(" 12alice"))
	if err == nil {
		t.Fatal("expected an error for a row region missing its terminator")
	}
	var execErr *fwferr.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected *fwferr.ExecutionError, got %T", err)
	}
	if execErr.Kind != fwferr.KindNoTerminator {
		t.Errorf("got kind %s, want %s", execErr.Kind, fwferr.KindNoTerminator)
	}
}

func TestFactoryProducesFreshBuilders(t *testing.T) {
	mem := memory.NewGoAllocator()
	sch := twoColumnSchema()
	f := NewFactory(sch, mem)

	b1, err := f.New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b2, err := f.New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer b1.Release()
	defer b2.Release()

	if b1 == b2 {
		t.Error("expected distinct builder instances from successive Factory.New calls")
	}

	if err := b1.TryBuildFrom([]byte(" 12alice\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec1, err := b1.TryFinish()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rec1.Release()
	if rec1.NumRows() != 1 {
		t.Errorf("got %d rows, want 1", rec1.NumRows())
	}

	rec2, err := b2.TryFinish()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rec2.Release()
	if rec2.NumRows() != 0 {
		t.Errorf("got %d rows from an untouched builder, want 0", rec2.NumRows())
	}
}

func TestEmptyRegionProducesZeroLengthRecord(t *testing.T) {
	mem := memory.NewGoAllocator()
	sch := twoColumnSchema()
	b, err := New(sch, mem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer b.Release()

	if err := b.TryBuildFrom(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, err := b.TryFinish()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rec.Release()
	if rec.NumRows() != 0 {
		t.Errorf("got %d rows, want 0", rec.NumRows())
	}
}
