// Package trim strips alignment padding from a fixed-width field's byte
// span. Padding is stripped on the side(s) opposite the meaningful
// content, respecting the pad symbol's own UTF-8 encoding so a
// multi-byte pad rune (e.g. '§') is never partially stripped.
package trim

import (
	"unicode/utf8"

	"github.com/firelink-data/fwfconv/internal/schema"
)

// Trim returns the sub-slice of bytes with padding removed according to
// alignment: trailing pad runes for left alignment, leading for right,
// both for center. It is idempotent — trimming an already-trimmed slice
// is a no-op.
//
// Trimming only ever removes runes from the outer edge(s); a pad rune
// that also appears inside the meaningful content (e.g. right-aligned
// "100000" padded with '0') is left untouched once a non-pad rune has
// been seen from that edge.
func Trim(bytes []byte, alignment schema.Alignment, pad rune) []byte {
	switch alignment {
	case schema.AlignLeft:
		return trimTrailing(bytes, pad)
	case schema.AlignRight:
		return trimLeading(bytes, pad)
	case schema.AlignCenter:
		return trimLeading(trimTrailing(bytes, pad), pad)
	default:
		return bytes
	}
}

func trimLeading(b []byte, pad rune) []byte {
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r != pad || size == 0 {
			break
		}
		b = b[size:]
	}
	return b
}

func trimTrailing(b []byte, pad rune) []byte {
	for len(b) > 0 {
		r, size := utf8.DecodeLastRune(b)
		if r != pad || size == 0 {
			break
		}
		b = b[:len(b)-size]
	}
	return b
}
