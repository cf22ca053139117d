package mocker

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/firelink-data/fwfconv/internal/schema"
)

func sampleSchema() *schema.Schema {
	return &schema.Schema{
		Name: "mock-test",
		Columns: []schema.Column{
			{Name: "id", Length: 6, DType: schema.Int32, Alignment: schema.AlignRight, PadSymbol: '0'},
			{Name: "active", Length: 5, DType: schema.Boolean, Alignment: schema.AlignLeft, PadSymbol: ' '},
			{Name: "name", Length: 8, DType: schema.Utf8, Alignment: schema.AlignLeft, PadSymbol: ' '},
		},
	}
}

func TestGenerateProducesExactRowWidthAndCount(t *testing.T) {
	sch := sampleSchema()
	var buf bytes.Buffer

	require.NoError(t, Generate(&buf, sch, 10, 1))

	rowWidth := sch.RowRuneWidth() + 1 // +1 for the LF terminator
	require.Equal(t, rowWidth*10, buf.Len())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 10)
	for _, line := range lines {
		require.Len(t, line, sch.RowRuneWidth())
	}
}

func TestGenerateIsDeterministicForAGivenSeed(t *testing.T) {
	sch := sampleSchema()
	var a, b bytes.Buffer

	require.NoError(t, Generate(&a, sch, 25, 42))
	require.NoError(t, Generate(&b, sch, 25, 42))

	require.Equal(t, a.String(), b.String())
}

func TestGenerateDiffersAcrossSeeds(t *testing.T) {
	sch := sampleSchema()
	var a, b bytes.Buffer

	require.NoError(t, Generate(&a, sch, 25, 1))
	require.NoError(t, Generate(&b, sch, 25, 2))

	require.NotEqual(t, a.String(), b.String())
}

func TestGenerateRespectsPadSymbolAndAlignment(t *testing.T) {
	sch := sampleSchema()
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, sch, 1, 7))

	line := strings.TrimRight(buf.String(), "\n")
	idField := line[0:6]
	// Right-aligned, '0'-padded: digits (and an optional leading '-')
	// occupy the trailing end, so the field must be all '0' or digits.
	for _, r := range idField {
		require.True(t, r == '0' || r == '-' || (r >= '1' && r <= '9'))
	}
}

func TestPadIntoTruncatesOversizedText(t *testing.T) {
	col := schema.Column{Name: "c", Length: 3, DType: schema.Utf8, Alignment: schema.AlignLeft, PadSymbol: ' '}
	got := padInto(nil, "abcdef", col)
	require.Equal(t, "abc", string(got))
}

func TestPadIntoCenterAlignment(t *testing.T) {
	col := schema.Column{Name: "c", Length: 7, DType: schema.Utf8, Alignment: schema.AlignCenter, PadSymbol: '-'}
	got := padInto(nil, "ab", col)
	require.Equal(t, "--ab---", string(got))
}
