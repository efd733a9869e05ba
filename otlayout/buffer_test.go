package otlayout_test

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/bidi"
)

func TestBufferStoreUnicodeNormalizes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.layout")
	defer teardown()
	//
	table, _ := loadFixture(t, "")
	buf := otlayout.NewBuffer(table)
	buf.StoreUnicode("A\u030A") // decomposed Å
	require.Len(t, buf.Items, 1)
	assert.Equal(t, '\u00C5', buf.Items[0].Codepoint)
	assert.False(t, buf.Items[0].HasGlyph)
}

func TestBufferMapToGlyphsIsIdempotent(t *testing.T) {
	table, _ := loadFixture(t, "")
	buf := shapeBuffer(t, table, "CAB")
	assert.Equal(t, "C|A|B", names(buf))
	assert.Equal(t, ot.BaseGlyph, buf.Items[0].Category)
	assert.Equal(t, int32(520), buf.Items[0].Position.XAdvance)
	buf.Items[1].SetGlyph(table, table.MustGlyph("A.sc"))
	assert.Zero(t, buf.MapToGlyphs())
	assert.Equal(t, "C|A.sc|B", names(buf), "mapping must not override a glyph once set")
}

func TestBufferUnmappedCodepointBecomesNotdef(t *testing.T) {
	table, _ := loadFixture(t, "")
	buf := otlayout.NewBuffer(table)
	buf.StoreUnicode("AxB")
	assert.Equal(t, 1, buf.MapToGlyphs())
	assert.Equal(t, ot.NOTDEF, buf.Items[1].Glyph)
}

func TestMaskIsIdempotentAndBounded(t *testing.T) {
	table, _ := loadFixture(t, "")
	buf := otlayout.NewBuffer(table)
	acute, dot := table.MustGlyph("acute"), table.MustGlyph("dotbelow")
	buf.StoreGlyphs([]ot.GlyphIndex{
		table.MustGlyph("A"), acute, dot, table.MustGlyph("f_i"), table.MustGlyph("B"), acute,
	})
	flagSets := []ot.LayoutTableLookupFlag{
		0,
		ot.LOOKUP_FLAG_IGNORE_MARKS,
		ot.LOOKUP_FLAG_IGNORE_BASE_GLYPHS,
		ot.LOOKUP_FLAG_IGNORE_LIGATURES | ot.LOOKUP_FLAG_IGNORE_MARKS,
		ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET,
		ot.LayoutTableLookupFlag(0).WithMarkAttachmentType(2),
	}
	filter := ot.NewGlyphSet(dot)
	for _, flags := range flagSets {
		buf.SetMask(flags, filter, flags.MarkAttachmentType())
		first := visibleIndices(buf)
		buf.SetMask(flags, filter, flags.MarkAttachmentType())
		second := visibleIndices(buf)
		assert.Equal(t, first, second, "flags %#x", flags)
		assert.LessOrEqual(t, buf.Len(), len(buf.Items), "flags %#x", flags)
	}
	buf.SetMask(ot.LOOKUP_FLAG_IGNORE_MARKS, nil, 0)
	assert.Equal(t, []int{0, 3, 4}, visibleIndices(buf))
	buf.SetMask(ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET, filter, 0)
	assert.Equal(t, []int{0, 2, 3, 4}, visibleIndices(buf))
	buf.SetMask(ot.LayoutTableLookupFlag(0).WithMarkAttachmentType(1), nil, 1)
	assert.Equal(t, []int{0, 1, 3, 4, 5}, visibleIndices(buf))
}

func TestFeatureMaskHidesItems(t *testing.T) {
	table, _ := loadFixture(t, "")
	buf := shapeBuffer(t, table, "ABCD")
	half := ot.T("half")
	buf.Items[1].SetFeatureMask(half, true)
	buf.SetMask(0, nil, 0)
	buf.SetFeatureMask(half)
	assert.Equal(t, []int{0, 2, 3}, visibleIndices(buf))
	buf.SetFeatureMask(0)
	assert.Equal(t, 4, buf.Len())
}

func TestReplaceThroughMaskSplicesUnderlyingItems(t *testing.T) {
	table, _ := loadFixture(t, "")
	buf := otlayout.NewBuffer(table)
	buf.StoreGlyphs([]ot.GlyphIndex{
		table.MustGlyph("f"), table.MustGlyph("acute"), table.MustGlyph("i"), table.MustGlyph("D"),
	})
	buf.SetMask(ot.LOOKUP_FLAG_IGNORE_MARKS, nil, 0)
	require.Equal(t, 3, buf.Len())
	lig := otlayout.NewGlyphItem(table.MustGlyph("f_i"), 0)
	lig.SetGlyph(table, lig.Glyph)
	buf.Replace(0, 2, lig)
	assert.Equal(t, "f_i|acute|D", names(buf))
	assert.Equal(t, 2, buf.Len(), "mask must be re-derived after a splice")
	assert.Equal(t, ot.LigatureGlyph, buf.At(0).Category)
}

func TestGuessSegmentProperties(t *testing.T) {
	table, _ := loadFixture(t, "")
	buf := otlayout.NewBuffer(table)
	buf.StoreUnicode("12 سا A")
	buf.GuessSegmentProperties()
	assert.Equal(t, language.Arabic, buf.Script)
	assert.Equal(t, bidi.RightToLeft, buf.Direction)
	//
	buf = otlayout.NewBuffer(table)
	buf.StoreUnicode("क्")
	buf.GuessSegmentProperties()
	assert.Equal(t, language.Devanagari, buf.Script)
	assert.Equal(t, bidi.LeftToRight, buf.Direction)
}

func visibleIndices(buf *otlayout.Buffer) []int {
	v := make([]int, buf.Len())
	for i := range v {
		v[i] = buf.RawIndex(i)
	}
	return v
}
