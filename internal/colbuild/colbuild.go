// Package colbuild implements the column builders (spec §4.4): one
// variant per datatype, each wrapping a typed field parser, an Arrow
// array builder and a nullability flag. try_build_column is the per-row
// entry point; finish hands back the column's name and finished Arrow
// array and leaves the builder ready for the next batch (Arrow builders
// reset themselves on NewArray()).
package colbuild

import (
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/firelink-data/fwfconv/internal/fwferr"
	"github.com/firelink-data/fwfconv/internal/parse"
	"github.com/firelink-data/fwfconv/internal/schema"
)

// ColumnBuilder is the closed, tagged-variant surface every dtype
// implements: append the value (or null) parsed from one row's field
// bytes, or finish the column into an immutable Arrow array.
type ColumnBuilder interface {
	// Name is the schema column name this builder appends to.
	Name() string
	// TryBuildColumn parses one field occurrence from bytes (which must
	// start at the field's first byte) and appends the result — a value
	// on success, null on a nullable parse failure. It returns the
	// number of bytes the field's declared width consumed, which the
	// row-batch builder uses to advance its cursor regardless of
	// outcome. It returns a *fwferr.ExecutionError on malformed UTF-8 or
	// on a non-nullable parse failure.
	TryBuildColumn(bytes []byte) (int, error)
	// Finish assembles the accumulated values into an immutable Arrow
	// array and resets the builder for the next batch.
	Finish() (string, arrow.Array)
	// Release frees the builder's underlying buffers. Must be called
	// exactly once the builder is no longer needed.
	Release()
}

// ArrowType maps a schema datatype to its Arrow equivalent (spec §B.1).
func ArrowType(dtype schema.DataType) (arrow.DataType, error) {
	switch dtype {
	case schema.Boolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case schema.Int16:
		return arrow.PrimitiveTypes.Int16, nil
	case schema.Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case schema.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case schema.Float16:
		return arrow.FixedWidthTypes.Float16, nil
	case schema.Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case schema.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case schema.Utf8:
		return arrow.BinaryTypes.String, nil
	case schema.LargeUtf8:
		return arrow.BinaryTypes.LargeString, nil
	default:
		return nil, fmt.Errorf("colbuild: unsupported dtype %q", dtype)
	}
}

// ArrowSchema builds the arrow.Schema that every batch produced from s
// must match (spec §3's "batch's schema matches the schema's arrow
// projection").
func ArrowSchema(s *schema.Schema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(s.Columns))
	for _, c := range s.Columns {
		dt, err := ArrowType(c.DType)
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{Name: c.Name, Type: dt, Nullable: c.IsNullable})
	}
	return arrow.NewSchema(fields, nil), nil
}

// New constructs the ColumnBuilder for col's datatype.
func New(col schema.Column, mem memory.Allocator) (ColumnBuilder, error) {
	switch col.DType {
	case schema.Boolean:
		return &boolBuilder{base: newBase(col), inner: array.NewBooleanBuilder(mem)}, nil
	case schema.Int16:
		return &int16Builder{base: newBase(col), inner: array.NewInt16Builder(mem)}, nil
	case schema.Int32:
		return &int32Builder{base: newBase(col), inner: array.NewInt32Builder(mem)}, nil
	case schema.Int64:
		return &int64Builder{base: newBase(col), inner: array.NewInt64Builder(mem)}, nil
	case schema.Float16:
		return &float16Builder{base: newBase(col), inner: array.NewFloat16Builder(mem)}, nil
	case schema.Float32:
		return &float32Builder{base: newBase(col), inner: array.NewFloat32Builder(mem)}, nil
	case schema.Float64:
		return &float64Builder{base: newBase(col), inner: array.NewFloat64Builder(mem)}, nil
	case schema.Utf8:
		return &utf8Builder{base: newBase(col), inner: array.NewStringBuilder(mem)}, nil
	case schema.LargeUtf8:
		return &largeUtf8Builder{base: newBase(col), inner: array.NewLargeStringBuilder(mem)}, nil
	default:
		return nil, fmt.Errorf("colbuild: unsupported dtype %q for column %q", col.DType, col.Name)
	}
}

// base holds the fields every dtype variant needs: the column's name,
// rune width, alignment/pad rule and nullability.
type base struct {
	name       string
	nRunes     int
	alignment  schema.Alignment
	pad        rune
	isNullable bool
}

func newBase(col schema.Column) base {
	return base{
		name:       col.Name,
		nRunes:     col.Length,
		alignment:  col.Alignment,
		pad:        col.PadSymbol,
		isNullable: col.IsNullable,
	}
}

func (b base) Name() string { return b.name }

func (b base) parseFailure(dtype string) error {
	if !b.isNullable {
		return fwferr.New(fwferr.KindParseError, fmt.Sprintf("could not parse %q as %s, column is not nullable", b.name, dtype)).WithColumn(b.name)
	}
	return nil
}

type boolBuilder struct {
	base
	inner *array.BooleanBuilder
}

func (c *boolBuilder) TryBuildColumn(bytes []byte) (int, error) {
	consumed, v, ok, err := parse.Bool(bytes, c.nRunes, c.alignment, c.pad)
	if err != nil {
		return consumed, err
	}
	if ok {
		c.inner.Append(v)
		return consumed, nil
	}
	if fail := c.parseFailure("bool"); fail != nil {
		return consumed, fail
	}
	c.inner.AppendNull()
	return consumed, nil
}

func (c *boolBuilder) Finish() (string, arrow.Array) { return c.name, c.inner.NewArray() }
func (c *boolBuilder) Release()                      { c.inner.Release() }

type int16Builder struct {
	base
	inner *array.Int16Builder
}

func (c *int16Builder) TryBuildColumn(bytes []byte) (int, error) {
	consumed, v, ok, err := parse.Int16(bytes, c.nRunes, c.alignment, c.pad)
	if err != nil {
		return consumed, err
	}
	if ok {
		c.inner.Append(v)
		return consumed, nil
	}
	if fail := c.parseFailure("i16"); fail != nil {
		return consumed, fail
	}
	c.inner.AppendNull()
	return consumed, nil
}

func (c *int16Builder) Finish() (string, arrow.Array) { return c.name, c.inner.NewArray() }
func (c *int16Builder) Release()                      { c.inner.Release() }

type int32Builder struct {
	base
	inner *array.Int32Builder
}

func (c *int32Builder) TryBuildColumn(bytes []byte) (int, error) {
	consumed, v, ok, err := parse.Int32(bytes, c.nRunes, c.alignment, c.pad)
	if err != nil {
		return consumed, err
	}
	if ok {
		c.inner.Append(v)
		return consumed, nil
	}
	if fail := c.parseFailure("i32"); fail != nil {
		return consumed, fail
	}
	c.inner.AppendNull()
	return consumed, nil
}

func (c *int32Builder) Finish() (string, arrow.Array) { return c.name, c.inner.NewArray() }
func (c *int32Builder) Release()                      { c.inner.Release() }

type int64Builder struct {
	base
	inner *array.Int64Builder
}

func (c *int64Builder) TryBuildColumn(bytes []byte) (int, error) {
	consumed, v, ok, err := parse.Int64(bytes, c.nRunes, c.alignment, c.pad)
	if err != nil {
		return consumed, err
	}
	if ok {
		c.inner.Append(v)
		return consumed, nil
	}
	if fail := c.parseFailure("i64"); fail != nil {
		return consumed, fail
	}
	c.inner.AppendNull()
	return consumed, nil
}

func (c *int64Builder) Finish() (string, arrow.Array) { return c.name, c.inner.NewArray() }
func (c *int64Builder) Release()                      { c.inner.Release() }

type float16Builder struct {
	base
	inner *array.Float16Builder
}

func (c *float16Builder) TryBuildColumn(bytes []byte) (int, error) {
	consumed, v, ok, err := parse.Float16(bytes, c.nRunes, c.alignment, c.pad)
	if err != nil {
		return consumed, err
	}
	if ok {
		c.inner.Append(v)
		return consumed, nil
	}
	if fail := c.parseFailure("f16"); fail != nil {
		return consumed, fail
	}
	c.inner.AppendNull()
	return consumed, nil
}

func (c *float16Builder) Finish() (string, arrow.Array) { return c.name, c.inner.NewArray() }
func (c *float16Builder) Release()                      { c.inner.Release() }

type float32Builder struct {
	base
	inner *array.Float32Builder
}

func (c *float32Builder) TryBuildColumn(bytes []byte) (int, error) {
	consumed, v, ok, err := parse.Float32(bytes, c.nRunes, c.alignment, c.pad)
	if err != nil {
		return consumed, err
	}
	if ok {
		c.inner.Append(v)
		return consumed, nil
	}
	if fail := c.parseFailure("f32"); fail != nil {
		return consumed, fail
	}
	c.inner.AppendNull()
	return consumed, nil
}

func (c *float32Builder) Finish() (string, arrow.Array) { return c.name, c.inner.NewArray() }
func (c *float32Builder) Release()                      { c.inner.Release() }

type float64Builder struct {
	base
	inner *array.Float64Builder
}

func (c *float64Builder) TryBuildColumn(bytes []byte) (int, error) {
	consumed, v, ok, err := parse.Float64(bytes, c.nRunes, c.alignment, c.pad)
	if err != nil {
		return consumed, err
	}
	if ok {
		c.inner.Append(v)
		return consumed, nil
	}
	if fail := c.parseFailure("f64"); fail != nil {
		return consumed, fail
	}
	c.inner.AppendNull()
	return consumed, nil
}

func (c *float64Builder) Finish() (string, arrow.Array) { return c.name, c.inner.NewArray() }
func (c *float64Builder) Release()                      { c.inner.Release() }

type utf8Builder struct {
	base
	inner *array.StringBuilder
}

func (c *utf8Builder) TryBuildColumn(bytes []byte) (int, error) {
	consumed, v, ok, err := parse.Utf8(bytes, c.nRunes, c.alignment, c.pad)
	if err != nil {
		return consumed, err
	}
	if ok {
		c.inner.Append(v)
		return consumed, nil
	}
	if fail := c.parseFailure("utf8"); fail != nil {
		return consumed, fail
	}
	c.inner.AppendNull()
	return consumed, nil
}

func (c *utf8Builder) Finish() (string, arrow.Array) { return c.name, c.inner.NewArray() }
func (c *utf8Builder) Release()                      { c.inner.Release() }

type largeUtf8Builder struct {
	base
	inner *array.LargeStringBuilder
}

func (c *largeUtf8Builder) TryBuildColumn(bytes []byte) (int, error) {
	consumed, v, ok, err := parse.Utf8(bytes, c.nRunes, c.alignment, c.pad)
	if err != nil {
		return consumed, err
	}
	if ok {
		c.inner.Append(v)
		return consumed, nil
	}
	if fail := c.parseFailure("large_utf8"); fail != nil {
		return consumed, fail
	}
	c.inner.AppendNull()
	return consumed, nil
}

func (c *largeUtf8Builder) Finish() (string, arrow.Array) { return c.name, c.inner.NewArray() }
func (c *largeUtf8Builder) Release()                      { c.inner.Release() }
