package otlayout_test

import (
	"testing"

	"github.com/npillmayer/fontfeatures/internal/fixture"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/stretchr/testify/require"
)

// latinGlyphs is a glyph table shared by most tests of this package.
const latinGlyphs = `
glyphs:
  - {name: A, unicode: A, advance: 500, category: base}
  - {name: B, unicode: B, advance: 510, category: base}
  - {name: C, unicode: C, advance: 520, category: base}
  - {name: D, unicode: D, advance: 530, category: base}
  - {name: f, unicode: f, advance: 300, category: base}
  - {name: i, unicode: i, advance: 250, category: base}
  - {name: f_i, advance: 520, category: ligature}
  - {name: acute, unicode: U+0301, advance: 0, category: mark, markclass: 1}
  - {name: grave, unicode: U+0300, advance: 0, category: mark, markclass: 1}
  - {name: dotbelow, unicode: U+0323, advance: 0, category: mark, markclass: 2}
  - {name: A.sc, advance: 450, category: base}
  - {name: B.sc, advance: 460, category: base}
classes:
  caps: [A, B, C, D]
  marks: [acute, grave, dotbelow]
`

func loadFixture(t *testing.T, rules string) (*fixture.GlyphTable, *otlayout.Features) {
	t.Helper()
	table, ff, err := fixture.Load([]byte(latinGlyphs + rules))
	require.NoError(t, err)
	require.NoError(t, ff.Validate())
	return table, ff
}

func shapeBuffer(t *testing.T, font otlayout.FontAccess, text string) *otlayout.Buffer {
	t.Helper()
	buf := otlayout.NewBuffer(font)
	buf.StoreUnicode(text)
	require.Zero(t, buf.MapToGlyphs(), "text %q contains unmapped codepoints", text)
	return buf
}

func names(buf *otlayout.Buffer) string {
	return otlayout.Serialize(buf, otlayout.TraceOptions{Names: true})
}
