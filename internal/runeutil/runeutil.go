// Package runeutil counts the UTF-8 byte footprint of a fixed number of
// runes. Field widths in a schema are declared in runes, not bytes, so
// every field's byte span on the hot path goes through BytesForRunes.
package runeutil

import "github.com/firelink-data/fwfconv/internal/fwferr"

// leadByteWidth classifies a UTF-8 lead byte by its high-bit pattern into
// its encoded width (1-4 bytes), or 0 for a continuation byte (10xxxxxx)
// or a byte in 0xF8-0xFF. Only the bit pattern is checked, so 0xC0, 0xC1
// and 0xF5-0xF7 also get a width. This is a branchless-friendly table
// lookup rather than a chain of comparisons.
var leadByteWidth [256]uint8

func init() {
	for b := 0; b < 256; b++ {
		switch {
		case b>>7 == 0x0: // 0xxxxxxx
			leadByteWidth[b] = 1
		case b>>5 == 0b110: // 110xxxxx
			leadByteWidth[b] = 2
		case b>>4 == 0b1110: // 1110xxxx
			leadByteWidth[b] = 3
		case b>>3 == 0b11110: // 11110xxx
			leadByteWidth[b] = 4
		default:
			leadByteWidth[b] = 0
		}
	}
}

// BytesForRunes returns the number of leading bytes of buf that encode
// exactly n Unicode scalar values. If buf is exhausted before n runes are
// found, it returns the bytes consumed so far (fewer than n runes) and a
// nil error — the caller (a field's fixed width walk) treats a short
// buffer as the end of available data, not a parse failure.
//
// It returns a MalformedUTF8 *fwferr.ExecutionError if a lead byte does
// not match any recognized UTF-8 encoding length.
func BytesForRunes(buf []byte, n int) (int, error) {
	pos := 0
	for found := 0; found < n; found++ {
		if pos >= len(buf) {
			return pos, nil
		}
		width := leadByteWidth[buf[pos]]
		if width == 0 {
			return pos, fwferr.New(fwferr.KindMalformedUTF8, "invalid UTF-8 lead byte").WithOffset(int64(pos))
		}
		pos += int(width)
	}
	return pos, nil
}

// CountRunes counts the number of complete runes encoded in buf, for
// validating a field's declared width against its actual rune content.
// The conversion pipeline itself does not call it.
func CountRunes(buf []byte) (int, error) {
	count := 0
	pos := 0
	for pos < len(buf) {
		width := leadByteWidth[buf[pos]]
		if width == 0 {
			return count, fwferr.New(fwferr.KindMalformedUTF8, "invalid UTF-8 lead byte").WithOffset(int64(pos))
		}
		pos += int(width)
		count++
	}
	return count, nil
}
