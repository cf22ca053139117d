// Package schema describes the shape of a fixed-width flat file: an
// ordered list of columns, each with a rune width, datatype and padding
// rule. A Schema is parsed once at startup and shared read-only across
// every worker goroutine for the lifetime of a conversion run.
package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DataType names one of the column datatypes this converter understands.
type DataType string

const (
	Boolean    DataType = "bool"
	Int16      DataType = "i16"
	Int32      DataType = "i32"
	Int64      DataType = "i64"
	Float16    DataType = "f16"
	Float32    DataType = "f32"
	Float64    DataType = "f64"
	Utf8       DataType = "utf8"
	LargeUtf8  DataType = "large_utf8"
)

func (d DataType) valid() bool {
	switch d {
	case Boolean, Int16, Int32, Int64, Float16, Float32, Float64, Utf8, LargeUtf8:
		return true
	}
	return false
}

// Alignment is where the meaningful text sits within a padded field; the
// pad symbol fills the opposite side(s).
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignRight  Alignment = "right"
	AlignCenter Alignment = "center"
)

func (a Alignment) valid() bool {
	switch a {
	case AlignLeft, AlignRight, AlignCenter:
		return true
	}
	return false
}

// SupportedVersion is the only schema document version this converter
// understands. Schema evolution (migrating an older or newer document
// version forward/backward) is an explicit non-goal; a document
// declaring any other version fails fast in Parse.
const SupportedVersion = 1

// Column describes a single fixed-width field.
type Column struct {
	Name       string    `json:"name"`
	Offset     int       `json:"offset"`
	Length     int       `json:"length"`
	DType      DataType  `json:"dtype"`
	Alignment  Alignment `json:"alignment"`
	PadSymbol  rune      `json:"pad_symbol"`
	IsNullable bool      `json:"is_nullable"`
}

// columnJSON mirrors Column but lets pad_symbol arrive as either a
// single-rune JSON string or be omitted entirely (defaults to space).
type columnJSON struct {
	Name       string    `json:"name"`
	Offset     int       `json:"offset"`
	Length     int       `json:"length"`
	DType      DataType  `json:"dtype"`
	Alignment  Alignment `json:"alignment"`
	PadSymbol  *string   `json:"pad_symbol"`
	IsNullable bool      `json:"is_nullable"`
}

// Schema is the immutable, ordered set of columns making up one row.
// Once loaded it is shared by reference across every worker.
type Schema struct {
	Name    string   `json:"name"`
	Version int      `json:"version"`
	Columns []Column `json:"columns"`
}

// Load parses a schema document from path.
func Load(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schema: open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Parse(f)
}

// Parse reads and validates a schema document from r.
func Parse(r io.Reader) (*Schema, error) {
	var doc struct {
		Name    string       `json:"name"`
		Version int          `json:"version"`
		Columns []columnJSON `json:"columns"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("schema: decode: %w", err)
	}

	if doc.Version != SupportedVersion {
		return nil, fmt.Errorf("schema: unsupported version %d, expected %d", doc.Version, SupportedVersion)
	}

	out := &Schema{
		Name:    doc.Name,
		Version: doc.Version,
		Columns: make([]Column, 0, len(doc.Columns)),
	}
	seen := make(map[string]struct{}, len(doc.Columns))
	for i, c := range doc.Columns {
		if c.Name == "" {
			return nil, fmt.Errorf("schema: column %d: name must not be empty", i)
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate column name %q", c.Name)
		}
		seen[c.Name] = struct{}{}

		if c.Length < 1 {
			return nil, fmt.Errorf("schema: column %q: length must be >= 1, got %d", c.Name, c.Length)
		}
		if !c.DType.valid() {
			return nil, fmt.Errorf("schema: column %q: unknown dtype %q", c.Name, c.DType)
		}

		align := c.Alignment
		if align == "" {
			align = AlignRight
		}
		if !align.valid() {
			return nil, fmt.Errorf("schema: column %q: unknown alignment %q", c.Name, c.Alignment)
		}

		pad := ' '
		if c.PadSymbol != nil {
			runes := []rune(*c.PadSymbol)
			if len(runes) != 1 {
				return nil, fmt.Errorf("schema: column %q: pad_symbol must be exactly one rune, got %q", c.Name, *c.PadSymbol)
			}
			pad = runes[0]
		}

		out.Columns = append(out.Columns, Column{
			Name:       c.Name,
			Offset:     c.Offset,
			Length:     c.Length,
			DType:      c.DType,
			Alignment:  align,
			PadSymbol:  pad,
			IsNullable: c.IsNullable,
		})
	}

	if len(out.Columns) == 0 {
		return nil, fmt.Errorf("schema: no columns defined")
	}

	return out, nil
}

// RowRuneWidth returns the number of runes in one row: the sum of every
// column's length. It does not include the row terminator.
func (s *Schema) RowRuneWidth() int {
	total := 0
	for _, c := range s.Columns {
		total += c.Length
	}
	return total
}
