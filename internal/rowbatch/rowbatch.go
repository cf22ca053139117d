// Package rowbatch implements the row-batch builder (spec §4.5): an
// ordered sequence of column builders that consumes a byte region
// containing only whole rows and produces one Arrow record batch. The
// builder trusts its caller (the workload splitter) to hand it a region
// that starts and ends on row boundaries — it never itself scans for a
// terminator.
package rowbatch

import (
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/firelink-data/fwfconv/internal/colbuild"
	"github.com/firelink-data/fwfconv/internal/fwferr"
	"github.com/firelink-data/fwfconv/internal/newline"
	"github.com/firelink-data/fwfconv/internal/schema"
)

// Builder sequences one ColumnBuilder per schema column and assembles
// their output into a single arrow.Record per call to TryFinish.
type Builder struct {
	arrowSchema *arrow.Schema
	columns     []colbuild.ColumnBuilder
	mem         memory.Allocator
	rows        int64
}

// New constructs a Builder from sch, allocating one ColumnBuilder per
// column. It is created fresh per worker per batch (spec §3's lifecycle)
// and discarded (via Release) once TryFinish returns.
func New(sch *schema.Schema, mem memory.Allocator) (*Builder, error) {
	arrowSchema, err := colbuild.ArrowSchema(sch)
	if err != nil {
		return nil, err
	}
	columns := make([]colbuild.ColumnBuilder, 0, len(sch.Columns))
	for _, c := range sch.Columns {
		cb, err := colbuild.New(c, mem)
		if err != nil {
			return nil, err
		}
		columns = append(columns, cb)
	}
	return &Builder{arrowSchema: arrowSchema, columns: columns, mem: mem}, nil
}

// TryBuildFrom consumes bytes — which must contain only whole rows, per
// the invariant the workload splitter guarantees — appending one value
// (or null) per column per row until bytes is exhausted.
func (b *Builder) TryBuildFrom(bytes []byte) error {
	cursor := 0
	for cursor < len(bytes) {
		for _, col := range b.columns {
			n, err := col.TryBuildColumn(bytes[cursor:])
			if err != nil {
				return err
			}
			cursor += n
		}
		if cursor+newline.Len > len(bytes) {
			return fwferr.New(fwferr.KindNoTerminator, "row region ended before a terminator was consumed").WithOffset(int64(cursor))
		}
		cursor += newline.Len
		b.rows++
	}
	return nil
}

// TryFinish calls Finish on every column builder, assembles the results
// into one arrow.Record and verifies every array has the same length
// (spec §4.5's InconsistentColumns check, invariant 5 in §3).
func (b *Builder) TryFinish() (arrow.Record, error) {
	arrays := make([]arrow.Array, len(b.columns))
	var length int64 = -1
	for i, col := range b.columns {
		_, arr := col.Finish()
		if length == -1 {
			length = int64(arr.Len())
		} else if int64(arr.Len()) != length {
			for _, a := range arrays[:i] {
				if a != nil {
					a.Release()
				}
			}
			arr.Release()
			return nil, fwferr.New(fwferr.KindInconsistentColumns,
				fmt.Sprintf("column %q has length %d, expected %d", col.Name(), arr.Len(), length))
		}
		arrays[i] = arr
	}
	if length == -1 {
		length = 0
	}
	rec := array.NewRecord(b.arrowSchema, arrays, length)
	for _, a := range arrays {
		a.Release()
	}
	b.rows = 0
	return rec, nil
}

// Release frees every column builder's underlying buffers.
func (b *Builder) Release() {
	for _, col := range b.columns {
		col.Release()
	}
}

// Factory produces fresh row-batch builders, one per worker per batch
// (spec §4.8 step 1: "Allocate K fresh row-batch builders").
type Factory struct {
	schema *schema.Schema
	mem    memory.Allocator
}

// NewFactory returns a Factory bound to sch and mem.
func NewFactory(sch *schema.Schema, mem memory.Allocator) *Factory {
	return &Factory{schema: sch, mem: mem}
}

// New builds one fresh Builder.
func (f *Factory) New() (*Builder, error) {
	return New(f.schema, f.mem)
}
