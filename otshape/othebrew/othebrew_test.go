package othebrew_test

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/internal/fixture"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"github.com/npillmayer/fontfeatures/otshape/otcore"
	"github.com/npillmayer/fontfeatures/otshape/othebrew"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hebrewGlyphs = `
glyphs:
  - {name: bet, unicode: U+05D1, advance: 600, category: base}
  - {name: shin, unicode: U+05E9, advance: 700, category: base}
  - {name: dagesh, unicode: U+05BC, advance: 0, category: mark, markclass: 1}
  - {name: shindot, unicode: U+05C1, advance: 0, category: mark, markclass: 1}
  - {name: uniFB31, unicode: U+FB31, advance: 600, category: base}
  - {name: uniFB49, unicode: U+FB49, advance: 700, category: base}
  - {name: uniFB2C, unicode: U+FB2C, advance: 700, category: base}
scripts: [hebr]
`

const markFeature = `
routines:
  - name: dagesh
    rules:
      - attach: {kind: mark, bases: {bet: [300, 0]}, marks: {dagesh: [0, 0]}}
features:
  mark: [dagesh]
`

func shape(t *testing.T, font, text string) *otlayout.Buffer {
	t.Helper()
	table, ff, err := fixture.Load([]byte(font))
	require.NoError(t, err)
	sh, err := otshape.NewShaper(otshape.Params{Features: ff, Font: table}, otcore.New(), othebrew.New())
	require.NoError(t, err)
	buf, err := sh.ShapeText(text)
	require.NoError(t, err)
	return buf
}

func TestComposePresentationForms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.shaper")
	defer teardown()
	//
	buf := shape(t, hebrewGlyphs, "\u05D1\u05BC\u05D1")
	assert.Equal(t, "bet=2|uniFB31=0",
		otlayout.Serialize(buf, otlayout.TraceOptions{Names: true, Clusters: true}))
	// shin + dagesh + shin dot composes in two steps
	buf = shape(t, hebrewGlyphs, "\u05E9\u05BC\u05C1")
	assert.Equal(t, "uniFB2C", otlayout.Serialize(buf, otlayout.TraceOptions{Names: true}))
}

func TestNoCompositionWithMarkPositioning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.shaper")
	defer teardown()
	//
	buf := shape(t, hebrewGlyphs+markFeature, "\u05D1\u05BC")
	assert.Equal(t, "dagesh|bet", otlayout.Serialize(buf, otlayout.TraceOptions{Names: true}))
}

func TestMatch(t *testing.T) {
	s := othebrew.New()
	assert.Equal(t, "hebrew", s.Name())
	assert.Equal(t, otshape.ShaperConfidenceCertain, s.Match(otshape.SelectionContext{Script: language.Hebrew}))
	assert.Equal(t, otshape.ShaperConfidenceNone, s.Match(otshape.SelectionContext{Script: language.Arabic}))
}
