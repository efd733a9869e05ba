package otarabic_test

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/internal/fixture"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"github.com/npillmayer/fontfeatures/otshape/otarabic"
	"github.com/npillmayer/fontfeatures/otshape/otcore"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/bidi"
)

const arabicFont = `
glyphs:
  - {name: space, unicode: " ", advance: 250, category: base}
  - {name: seen, unicode: U+0633, advance: 900, category: base}
  - {name: seen.init, advance: 700, category: base}
  - {name: alef, unicode: U+0627, advance: 250, category: base}
  - {name: alef.fina, advance: 280, category: base}
  - {name: beh, unicode: U+0628, advance: 800, category: base}
  - {name: beh.init, advance: 400, category: base}
  - {name: beh.medi, advance: 380, category: base}
  - {name: beh.fina, advance: 750, category: base}
  - {name: fatha, unicode: U+064E, advance: 0, category: mark, markclass: 1}
scripts: [arab]
routines:
  - name: init
    rules:
      - sub: {input: [[seen]], output: [seen.init]}
      - sub: {input: [[beh]], output: [beh.init]}
  - name: medi
    rules:
      - sub: {input: [[beh]], output: [beh.medi]}
  - name: fina
    rules:
      - sub: {input: [[alef]], output: [alef.fina]}
      - sub: {input: [[beh]], output: [beh.fina]}
features:
  init: [init]
  medi: [medi]
  fina: [fina]
`

// a font without form features, but with encoded presentation forms
const presentationFont = `
glyphs:
  - {name: seen, unicode: U+0633, advance: 900, category: base}
  - {name: alef, unicode: U+0627, advance: 250, category: base}
  - {name: uniFEB3, unicode: U+FEB3, advance: 700, category: base}
  - {name: uniFE8E, unicode: U+FE8E, advance: 280, category: base}
scripts: [arab]
`

func newShaper(t *testing.T, font string) *otshape.Shaper {
	t.Helper()
	table, ff, err := fixture.Load([]byte(font))
	require.NoError(t, err)
	sh, err := otshape.NewShaper(otshape.Params{Features: ff, Font: table}, otcore.New(), otarabic.New())
	require.NoError(t, err)
	return sh
}

func names(buf *otlayout.Buffer) string {
	return otlayout.Serialize(buf, otlayout.TraceOptions{Names: true})
}

func TestShapeSeenAlef(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.arabic")
	defer teardown()
	//
	sh := newShaper(t, arabicFont)
	buf, err := sh.ShapeText("سا")
	require.NoError(t, err)
	assert.Equal(t, bidi.RightToLeft, buf.Direction)
	assert.Equal(t, otlayout.JoinInit, buf.Items[0].JoinForm)
	assert.Equal(t, otlayout.JoinFina, buf.Items[1].JoinForm)
	// visual order
	assert.Equal(t, "alef.fina|seen.init", names(buf))
}

func TestShapeFormsAreMasked(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.arabic")
	defer teardown()
	//
	sh := newShaper(t, arabicFont)
	buf, err := sh.ShapeText("\u0628\u0628\u064E\u0628 \u0628")
	require.NoError(t, err)
	assert.Equal(t, "beh|space|beh.fina|fatha|beh.medi|beh.init", names(buf))
}

func TestShapeFallbackPresentationForms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.arabic")
	defer teardown()
	//
	sh := newShaper(t, presentationFont)
	buf, err := sh.ShapeText("سا")
	require.NoError(t, err)
	assert.Equal(t, "uniFE8E|uniFEB3", names(buf))
	assert.Equal(t, "uniFE8E+280|uniFEB3+700",
		otlayout.Serialize(buf, otlayout.TraceOptions{Names: true, Positions: true}))
}

func TestCollectFeatures(t *testing.T) {
	engine := otarabic.New().(otshape.ShapingEnginePlanHooks)
	plan := otshape.NewPlan()
	ctx := &otshape.ShapeContext{Selection: otshape.SelectionContext{Script: language.Arabic}}
	require.NoError(t, engine.CollectFeatures(plan, ctx))
	assert.Equal(t, "[stch] | [ccmp locl] | [isol] | [fina] | [fin2] | [fin3] | [medi] | [med2] | [init]"+
		" | [rlig] | [calt] | [rclt liga clig mset]", plan.String())
	//
	plan = otshape.NewPlan()
	ctx.Selection.Script = language.Syriac
	require.NoError(t, engine.CollectFeatures(plan, ctx))
	assert.Equal(t, "[stch] | [ccmp locl] | [isol] | [fina] | [fin2] | [fin3] | [medi] | [med2] | [init]"+
		" | [rlig calt] | [rclt liga clig mset]", plan.String())
	//
	plan = otshape.NewPlan()
	plan.AddFeatures(ot.T("rclt"))
	require.NoError(t, engine.CollectFeatures(plan, ctx))
	assert.Equal(t, "[rclt stch] | [ccmp locl] | [isol] | [fina] | [fin2] | [fin3] | [medi] | [med2] | [init]"+
		" | [rlig calt liga clig mset]", plan.String())
}

func TestMatch(t *testing.T) {
	s := otarabic.New()
	assert.Equal(t, "arabic", s.Name())
	assert.Equal(t, otshape.ShaperConfidenceCertain,
		s.Match(otshape.SelectionContext{Script: language.Arabic, ScriptTag: ot.DFLT}))
	assert.Equal(t, otshape.ShaperConfidenceHigh,
		s.Match(otshape.SelectionContext{Script: language.Syriac, ScriptTag: ot.T("syrc")}))
	assert.Equal(t, otshape.ShaperConfidenceNone,
		s.Match(otshape.SelectionContext{Script: language.Syriac, ScriptTag: ot.DFLT}))
	assert.Equal(t, otshape.ShaperConfidenceNone,
		s.Match(otshape.SelectionContext{Script: language.Latin, ScriptTag: ot.T("latn")}))
	_, ok := s.(otshape.ShapingEngineMaskHook)
	assert.True(t, ok, "arabic engine sets up masks")
}
