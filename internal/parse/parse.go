// Package parse implements the typed field parsers (spec §4.3): one
// parser per schema datatype, each returning the number of bytes the
// field's declared rune width consumed (independent of whether the
// content actually lexed) plus the parsed value, if any. A parser always
// consumes the field's full declared width (or the rest of the buffer,
// when fewer runes than that remain), so callers can always step the row
// cursor forward by the returned count regardless of parse outcome.
package parse

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/apache/arrow/go/v18/arrow/float16"

	"github.com/firelink-data/fwfconv/internal/fwferr"
	"github.com/firelink-data/fwfconv/internal/runeutil"
	"github.com/firelink-data/fwfconv/internal/schema"
	"github.com/firelink-data/fwfconv/internal/trim"
)

// fieldSpan walks the field's declared rune width and returns the byte
// count consumed plus the padding-trimmed text within it. Every parser
// below calls this first, then only disagrees on how it lexes text.
func fieldSpan(b []byte, nRunes int, alignment schema.Alignment, pad rune) (consumed int, trimmed []byte, err error) {
	consumed, err = runeutil.BytesForRunes(b, nRunes)
	if err != nil {
		return consumed, nil, err
	}
	trimmed = trim.Trim(b[:consumed], alignment, pad)
	return consumed, trimmed, nil
}

// Bool parses a case-insensitive "true"/"false" field.
func Bool(b []byte, nRunes int, alignment schema.Alignment, pad rune) (consumed int, value bool, ok bool, err error) {
	consumed, text, err := fieldSpan(b, nRunes, alignment, pad)
	if err != nil {
		return consumed, false, false, err
	}
	switch {
	case strings.EqualFold(string(text), "true"):
		return consumed, true, true, nil
	case strings.EqualFold(string(text), "false"):
		return consumed, false, true, nil
	default:
		return consumed, false, false, nil
	}
}

// Int16 parses a signed decimal integer field into an int16.
func Int16(b []byte, nRunes int, alignment schema.Alignment, pad rune) (consumed int, value int16, ok bool, err error) {
	consumed, text, err := fieldSpan(b, nRunes, alignment, pad)
	if err != nil {
		return consumed, 0, false, err
	}
	if len(text) == 0 {
		return consumed, 0, false, nil
	}
	n, perr := strconv.ParseInt(string(text), 10, 16)
	if perr != nil {
		return consumed, 0, false, nil
	}
	return consumed, int16(n), true, nil
}

// Int32 parses a signed decimal integer field into an int32.
func Int32(b []byte, nRunes int, alignment schema.Alignment, pad rune) (consumed int, value int32, ok bool, err error) {
	consumed, text, err := fieldSpan(b, nRunes, alignment, pad)
	if err != nil {
		return consumed, 0, false, err
	}
	if len(text) == 0 {
		return consumed, 0, false, nil
	}
	n, perr := strconv.ParseInt(string(text), 10, 32)
	if perr != nil {
		return consumed, 0, false, nil
	}
	return consumed, int32(n), true, nil
}

// Int64 parses a signed decimal integer field into an int64.
func Int64(b []byte, nRunes int, alignment schema.Alignment, pad rune) (consumed int, value int64, ok bool, err error) {
	consumed, text, err := fieldSpan(b, nRunes, alignment, pad)
	if err != nil {
		return consumed, 0, false, err
	}
	if len(text) == 0 {
		return consumed, 0, false, nil
	}
	n, perr := strconv.ParseInt(string(text), 10, 64)
	if perr != nil {
		return consumed, 0, false, nil
	}
	return consumed, n, true, nil
}

// Float32 parses a standard decimal float (optional exponent) into a float32.
func Float32(b []byte, nRunes int, alignment schema.Alignment, pad rune) (consumed int, value float32, ok bool, err error) {
	consumed, text, err := fieldSpan(b, nRunes, alignment, pad)
	if err != nil {
		return consumed, 0, false, err
	}
	if len(text) == 0 {
		return consumed, 0, false, nil
	}
	n, perr := strconv.ParseFloat(string(text), 32)
	if perr != nil {
		return consumed, 0, false, nil
	}
	return consumed, float32(n), true, nil
}

// Float64 parses a standard decimal float (optional exponent) into a float64.
func Float64(b []byte, nRunes int, alignment schema.Alignment, pad rune) (consumed int, value float64, ok bool, err error) {
	consumed, text, err := fieldSpan(b, nRunes, alignment, pad)
	if err != nil {
		return consumed, 0, false, err
	}
	if len(text) == 0 {
		return consumed, 0, false, nil
	}
	n, perr := strconv.ParseFloat(string(text), 64)
	if perr != nil {
		return consumed, 0, false, nil
	}
	return consumed, n, true, nil
}

// Float16 parses a standard decimal float into arrow's half-precision
// representation, parsing at float32 precision first since Go has no
// native half-precision literal parsing.
func Float16(b []byte, nRunes int, alignment schema.Alignment, pad rune) (consumed int, value float16.Num, ok bool, err error) {
	consumed, text, err := fieldSpan(b, nRunes, alignment, pad)
	if err != nil {
		return consumed, float16.Num{}, false, err
	}
	if len(text) == 0 {
		return consumed, float16.Num{}, false, nil
	}
	n, perr := strconv.ParseFloat(string(text), 32)
	if perr != nil {
		return consumed, float16.Num{}, false, nil
	}
	return consumed, float16.New(float32(n)), true, nil
}

// Utf8 "parses" a UTF-8 text field: it returns a MalformedUTF8 error if
// the field's byte span is not valid UTF-8 and otherwise always
// succeeds, so ok is true whenever err is nil.
func Utf8(b []byte, nRunes int, alignment schema.Alignment, pad rune) (consumed int, value string, ok bool, err error) {
	consumed, text, err := fieldSpan(b, nRunes, alignment, pad)
	if err != nil {
		return consumed, "", false, err
	}
	if !utf8.Valid(b[:consumed]) {
		return consumed, "", false, fwferr.New(fwferr.KindMalformedUTF8, "text field is not valid UTF-8")
	}
	return consumed, string(text), true, nil
}
