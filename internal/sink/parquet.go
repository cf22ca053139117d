package sink

import (
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

// Parquet is the primary output target (spec §1): it writes each
// converted arrow.Record into a single Parquet file via
// pqarrow.FileWriter, which accepts arrow.Record batches directly and
// so satisfies writer.BatchSink. Records are buffered into the current
// row group, which is flushed when it reaches the writer's row-group
// size limit or on Finish.
type Parquet struct {
	closer io.Closer
	fw     *pqarrow.FileWriter
}

// NewParquet opens a Parquet file writer at w for the given Arrow
// schema. The caller (internal/convert) owns the underlying file handle
// and passes it as closer so Finish can close it after the Parquet
// footer is flushed.
func NewParquet(schema *arrow.Schema, w io.Writer, closer io.Closer) (*Parquet, error) {
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.DefaultWriterProps()

	fw, err := pqarrow.NewFileWriter(schema, w, props, arrowProps)
	if err != nil {
		return nil, err
	}
	return &Parquet{closer: closer, fw: fw}, nil
}

// Write appends rec to the currently buffered row group.
func (p *Parquet) Write(rec arrow.Record) error {
	return p.fw.WriteBuffered(rec)
}

// Finish flushes the Parquet footer and closes the underlying file.
func (p *Parquet) Finish() error {
	if err := p.fw.Close(); err != nil {
		return err
	}
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
