// Package chunkreader pulls bounded-size, terminator-aligned chunks out
// of an arbitrary io.Reader (spec §4.6). Grounded on the teacher's
// tsv_parser.go readBatches loop, which already carries a trailing
// partial line forward by copying it to the front of the next read
// buffer rather than seeking the source backward.
package chunkreader

import (
	"errors"
	"io"

	"github.com/firelink-data/fwfconv/internal/fwferr"
	"github.com/firelink-data/fwfconv/internal/newline"
)

// DefaultSize mirrors the teacher's defaultChunkSize.
const DefaultSize = 8 << 20 // 8 MiB

// ChunkReader returns terminator-aligned chunks: each ReadChunk call
// ends exactly on the last complete row terminator found in what was
// read. Any trailing partial row is copied forward as residue and
// prepended to the next read rather than the source being re-read from
// an earlier seek position — the reader never calls Seek, so it works
// identically over a plain file and a non-seekable stream such as a
// gzip/pgzip decompression pipe.
type ChunkReader struct {
	r    io.Reader
	size int

	buf     []byte
	residue []byte

	eof             bool
	bytesProcessed  int64
	bytesOverlapped int64
}

// New returns a ChunkReader reading from r, pulling up to size fresh
// bytes per ReadChunk call on top of any carried-forward residue.
// size <= 0 selects DefaultSize.
func New(r io.Reader, size int) *ChunkReader {
	if size <= 0 {
		size = DefaultSize
	}
	return &ChunkReader{r: r, size: size, buf: make([]byte, size)}
}

// IsDone reports whether the underlying reader has reached EOF and every
// byte it produced has already been returned in a chunk.
func (c *ChunkReader) IsDone() bool {
	return c.eof && len(c.residue) == 0
}

// BytesProcessed returns the cumulative number of bytes handed back in
// chunks so far.
func (c *ChunkReader) BytesProcessed() int64 { return c.bytesProcessed }

// BytesOverlapped returns the cumulative number of bytes that were ever
// carried forward as residue between two read cycles (never between two
// chunks — each byte still appears in exactly one returned chunk).
func (c *ChunkReader) BytesOverlapped() int64 { return c.bytesOverlapped }

// ReadChunk returns the next terminator-aligned chunk, or io.EOF once
// the underlying reader is exhausted and no residue remains. It returns
// a *fwferr.ExecutionError of kind ChunkTooSmall if no terminator is
// found within size bytes of a non-final read, or NoTerminator if the
// stream ends mid-row.
func (c *ChunkReader) ReadChunk() ([]byte, error) {
	if c.IsDone() {
		return nil, io.EOF
	}

	needed := c.size + len(c.residue)
	if cap(c.buf) < needed {
		c.buf = make([]byte, needed)
	}
	buf := c.buf[:needed]
	copy(buf, c.residue)

	n, err := readFill(c.r, buf[len(c.residue):])
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fwferr.Wrap(fwferr.KindIO, "reading input chunk", err)
	}
	if errors.Is(err, io.EOF) {
		c.eof = true
	}

	total := len(c.residue) + n
	if total == 0 {
		c.residue = c.residue[:0]
		return nil, io.EOF
	}
	data := buf[:total]

	idx := newline.FindLast(data)
	if idx < 0 {
		offset := c.bytesProcessed + c.bytesOverlapped
		if c.eof {
			return nil, fwferr.New(fwferr.KindNoTerminator, "final chunk of input does not end on a row terminator").WithOffset(offset)
		}
		return nil, fwferr.New(fwferr.KindChunkTooSmall, "no row terminator found within read_buffer_size bytes; increase read_buffer_size").WithOffset(offset)
	}

	cut := idx + newline.Len
	chunk := make([]byte, cut)
	copy(chunk, data[:cut])

	tail := data[cut:]
	c.bytesOverlapped += int64(len(tail))
	c.residue = append(c.residue[:0:0], tail...)
	c.bytesProcessed += int64(len(chunk))

	return chunk, nil
}

// readFill reads from r until buf is full, r reports io.EOF, or a
// non-EOF error occurs. A single Read call is not sufficient since
// io.Reader implementations (notably decompressors) are free to return
// short reads that are not EOF.
func readFill(r io.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.EOF
		}
	}
	return total, nil
}
