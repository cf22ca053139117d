// Package fwferr defines the error taxonomy shared across the slicing and
// columnar build pipeline (spec §7): setup errors abort before any byte is
// read, execution errors abort an in-flight conversion, and the fatal
// kinds carry enough context (byte offset, row ordinal, column) to name
// the offending region in a single log line.
package fwferr

import "fmt"

// SetupError covers configuration and environment failures discovered
// before the conversion loop starts: missing flags, an unreadable schema,
// a input/output file that cannot be opened.
type SetupError struct {
	Msg string
	Err error
}

func (e *SetupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("setup error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("setup error: %s", e.Msg)
}

func (e *SetupError) Unwrap() error { return e.Err }

// NewSetup wraps err as a SetupError.
func NewSetup(msg string, err error) *SetupError {
	return &SetupError{Msg: msg, Err: err}
}

// ExecutionKind discriminates the fatal conditions that can abort a
// running conversion (spec §7's ExecutionError kinds).
type ExecutionKind string

const (
	KindIO                 ExecutionKind = "io"
	KindNoTerminator        ExecutionKind = "no_terminator"
	KindChunkTooSmall       ExecutionKind = "chunk_too_small"
	KindMalformedUTF8       ExecutionKind = "malformed_utf8"
	KindParseError          ExecutionKind = "parse_error"
	KindInconsistentColumns ExecutionKind = "inconsistent_columns"
	KindSink                ExecutionKind = "sink"
)

// ExecutionError is a fatal error discovered while a conversion is
// in-flight. ByteOffset and RowOrdinal are best-effort and may be -1 when
// not meaningful for the Kind.
type ExecutionError struct {
	Kind       ExecutionKind
	Msg        string
	ByteOffset int64
	RowOrdinal int64
	Column     string
	Err        error
}

func (e *ExecutionError) Error() string {
	loc := ""
	if e.ByteOffset >= 0 {
		loc += fmt.Sprintf(" byte_offset=%d", e.ByteOffset)
	}
	if e.RowOrdinal >= 0 {
		loc += fmt.Sprintf(" row_ordinal=%d", e.RowOrdinal)
	}
	if e.Column != "" {
		loc += fmt.Sprintf(" column=%s", e.Column)
	}
	if e.Err != nil {
		return fmt.Sprintf("execution error [%s]: %s%s: %v", e.Kind, e.Msg, loc, e.Err)
	}
	return fmt.Sprintf("execution error [%s]: %s%s", e.Kind, e.Msg, loc)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// New creates an ExecutionError with no byte/row context.
func New(kind ExecutionKind, msg string) *ExecutionError {
	return &ExecutionError{Kind: kind, Msg: msg, ByteOffset: -1, RowOrdinal: -1}
}

// Wrap creates an ExecutionError wrapping an underlying error.
func Wrap(kind ExecutionKind, msg string, err error) *ExecutionError {
	return &ExecutionError{Kind: kind, Msg: msg, ByteOffset: -1, RowOrdinal: -1, Err: err}
}

// WithOffset returns a copy of e with ByteOffset set.
func (e *ExecutionError) WithOffset(off int64) *ExecutionError {
	c := *e
	c.ByteOffset = off
	return &c
}

// WithRow returns a copy of e with RowOrdinal set.
func (e *ExecutionError) WithRow(ordinal int64) *ExecutionError {
	c := *e
	c.RowOrdinal = ordinal
	return &c
}

// WithColumn returns a copy of e with Column set.
func (e *ExecutionError) WithColumn(name string) *ExecutionError {
	c := *e
	c.Column = name
	return &c
}
