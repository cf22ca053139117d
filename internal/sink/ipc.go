package sink

import (
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/ipc"
)

// IPC is a secondary output target (spec §1): the Arrow IPC file format,
// useful when the consumer is another Arrow-aware process and the
// Parquet footer's extra encoding cost isn't worth paying.
type IPC struct {
	closer io.Closer
	fw     *ipc.FileWriter
}

// NewIPC opens an Arrow IPC file writer at w for the given schema.
func NewIPC(schema *arrow.Schema, w io.Writer, closer io.Closer) (*IPC, error) {
	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(schema))
	if err != nil {
		return nil, err
	}
	return &IPC{closer: closer, fw: fw}, nil
}

// Write appends rec as the next record batch in the stream.
func (i *IPC) Write(rec arrow.Record) error {
	return i.fw.Write(rec)
}

// Finish writes the IPC footer and closes the underlying file.
func (i *IPC) Finish() error {
	if err := i.fw.Close(); err != nil {
		return err
	}
	if i.closer != nil {
		return i.closer.Close()
	}
	return nil
}
