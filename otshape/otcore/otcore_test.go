package otcore_test

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/internal/fixture"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"github.com/npillmayer/fontfeatures/otshape/otcore"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/bidi"
)

const latinFont = `
glyphs:
  - {name: space, unicode: " ", advance: 250, category: base}
  - {name: f, unicode: f, advance: 300, category: base}
  - {name: i, unicode: i, advance: 250, category: base}
  - {name: f_i, advance: 520, category: ligature}
  - {name: A, unicode: A, advance: 600, category: base}
  - {name: V, unicode: V, advance: 600, category: base}
  - {name: acute, unicode: U+0301, advance: 200, category: mark, markclass: 1}
scripts: [latn]
routines:
  - name: fi
    rules:
      - sub: {input: [[f], [i]], output: [f_i]}
  - name: kernAV
    rules:
      - pos: {input: [[A], [V]], values: [{adv: -80}, {}]}
  - name: acute
    rules:
      - attach: {kind: mark, bases: {V: [300, 700]}, marks: {acute: [100, 0]}}
features:
  liga: [fi]
  kern: [kernAV]
  mark: [acute]
`

func newShaper(t *testing.T, settings string) *otshape.Shaper {
	t.Helper()
	table, ff, err := fixture.Load([]byte(latinFont))
	require.NoError(t, err)
	user, err := otshape.ParseFeatureSettings(settings)
	require.NoError(t, err)
	sh, err := otshape.NewShaper(otshape.Params{
		Features:     ff,
		Font:         table,
		UserFeatures: user,
	}, otcore.New())
	require.NoError(t, err)
	return sh
}

func TestCoreShapesLatin(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.shaper")
	defer teardown()
	//
	sh := newShaper(t, "")
	buf, err := sh.ShapeText("fiAV\u0301")
	require.NoError(t, err)
	assert.Equal(t, language.Latin, buf.Script)
	assert.Equal(t, bidi.LeftToRight, buf.Direction)
	assert.Equal(t, "f_i+520|A+520|V+600|acute@-400,700+0",
		otlayout.Serialize(buf, otlayout.TraceOptions{Names: true, Positions: true}))
	assert.Equal(t, "f_i=0|A=2|V=3|acute=4",
		otlayout.Serialize(buf, otlayout.TraceOptions{Names: true, Clusters: true}))
}

func TestCoreHonorsUserFeatures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.shaper")
	defer teardown()
	//
	sh := newShaper(t, "-liga, kern=0")
	buf, err := sh.ShapeText("fiAV")
	require.NoError(t, err)
	assert.Equal(t, "f+300|i+250|A+600|V+600",
		otlayout.Serialize(buf, otlayout.TraceOptions{Names: true, Positions: true}))
}

func TestCoreZeroesMarksWithoutPositioning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.shaper")
	defer teardown()
	//
	sh := newShaper(t, "-kern -mark")
	buf, err := sh.ShapeText("V\u0301")
	require.NoError(t, err)
	// without positioning, the mark is moved back by its former advance
	assert.Equal(t, "V+600|acute@-200,0+0",
		otlayout.Serialize(buf, otlayout.TraceOptions{Names: true, Positions: true}))
}

func TestCoreMatch(t *testing.T) {
	sh := otcore.New()
	assert.Equal(t, "core", sh.Name())
	assert.Equal(t, otshape.ShaperConfidenceHigh,
		sh.Match(otshape.SelectionContext{Script: language.Latin, Direction: bidi.LeftToRight}))
	assert.Equal(t, otshape.ShaperConfidenceLow,
		sh.Match(otshape.SelectionContext{Script: language.Thaana, Direction: bidi.RightToLeft}))
}
