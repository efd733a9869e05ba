package otindic_test

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/internal/fixture"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"github.com/npillmayer/fontfeatures/otshape/otcore"
	"github.com/npillmayer/fontfeatures/otshape/otindic"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devaGlyphs = `
glyphs:
  - {name: space, unicode: " ", advance: 250, category: base}
  - {name: ka, unicode: U+0915, advance: 600, category: base}
  - {name: ta, unicode: U+0924, advance: 550, category: base}
  - {name: ssa, unicode: U+0937, advance: 600, category: base}
  - {name: ra, unicode: U+0930, advance: 500, category: base}
  - {name: virama, unicode: U+094D, advance: 0, category: mark, markclass: 1}
  - {name: imatra, unicode: U+093F, advance: 250, category: base}
  - {name: k_ssa, advance: 800, category: ligature}
  - {name: ka.half, advance: 400, category: base}
  - {name: reph, advance: 0, category: mark, markclass: 1}
scripts: [dev2]
`

const devaFont = devaGlyphs + `
routines:
  - name: akhn
    rules:
      - sub: {input: [[ka], [virama], [ssa]], output: [k_ssa]}
  - name: rphf
    rules:
      - sub: {input: [[ra], [virama]], output: [reph]}
  - name: half
    rules:
      - sub: {input: [[ka], [virama]], output: [ka.half]}
features:
  akhn: [akhn]
  rphf: [rphf]
  half: [half]
`

// the same font without half forms
const devaNoHalfFont = devaGlyphs + `
routines:
  - name: akhn
    rules:
      - sub: {input: [[ka], [virama], [ssa]], output: [k_ssa]}
features:
  akhn: [akhn]
`

const tamilFont = `
glyphs:
  - {name: ka, unicode: U+0B95, advance: 600, category: base}
  - {name: e, unicode: U+0BC6, advance: 400, category: base}
  - {name: aa, unicode: U+0BBE, advance: 450, category: base}
scripts: [tml2]
`

func newShaper(t *testing.T, font string, engine otshape.ShapingEngine) *otshape.Shaper {
	t.Helper()
	table, ff, err := fixture.Load([]byte(font))
	require.NoError(t, err)
	sh, err := otshape.NewShaper(otshape.Params{Features: ff, Font: table}, otcore.New(), engine)
	require.NoError(t, err)
	return sh
}

func shape(t *testing.T, font, text string) *otlayout.Buffer {
	t.Helper()
	buf, err := newShaper(t, font, otindic.New()).ShapeText(text)
	require.NoError(t, err)
	return buf
}

func names(buf *otlayout.Buffer) string {
	return otlayout.Serialize(buf, otlayout.TraceOptions{Names: true})
}

func clusters(buf *otlayout.Buffer) []int {
	var c []int
	for _, item := range buf.Items {
		c = append(c, item.Cluster)
	}
	return c
}

func TestShapeConjunct(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.indic")
	defer teardown()
	//
	buf := shape(t, devaFont, "\u0915\u094D\u0937")
	assert.Equal(t, "k_ssa", names(buf))
	assert.Equal(t, []int{0}, clusters(buf))
}

func TestShapeHalfForm(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.indic")
	defer teardown()
	//
	buf := shape(t, devaFont, "\u0915\u094D\u0924")
	assert.Equal(t, "ka.half|ta", names(buf))
	// the consonant left of the base has become a pre-base consonant
	assert.Equal(t, otindic.PosPreC, otindic.Position(buf.Items[0].ShaperPosition))
	assert.Equal(t, otindic.PosBaseC, otindic.Position(buf.Items[1].ShaperPosition))
}

func TestShapePreBaseMatra(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.indic")
	defer teardown()
	//
	// with a half form, the matra stays in front of the conjunct
	buf := shape(t, devaFont, "\u0915\u094D\u0924\u093F")
	assert.Equal(t, "imatra|ka.half|ta", names(buf))
	assert.Equal(t, []int{0, 0, 0}, clusters(buf))
	// without, it moves after the explicit halant
	buf = shape(t, devaNoHalfFont, "\u0915\u094D\u0924\u093F")
	assert.Equal(t, "ka|virama|imatra|ta", names(buf))
	assert.Equal(t, []int{0, 1, 2, 2}, clusters(buf))
	assert.Equal(t, otindic.PosPreC, otindic.Position(buf.Items[0].ShaperPosition))
}

func TestShapeReph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.indic")
	defer teardown()
	//
	buf := shape(t, devaFont, "\u0930\u094D\u0915")
	assert.Equal(t, "ka|reph", names(buf))
	assert.Equal(t, []int{0, 0}, clusters(buf))
}

func TestShapeSyllablesAreSeparate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.indic")
	defer teardown()
	//
	buf := shape(t, devaFont, "\u0915\u094D\u0937 \u0915")
	assert.Equal(t, "k_ssa|space|ka", names(buf))
	assert.Equal(t, []int{1, 2, 3}, []int{buf.Items[0].Syllable, buf.Items[1].Syllable, buf.Items[2].Syllable})
}

func TestShapeSplitMatra(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.indic")
	defer teardown()
	//
	// Tamil ko: the o-sign is decomposed and its left part moves before ka
	buf := shape(t, tamilFont, "\u0B95\u0BCA")
	assert.Equal(t, "e|ka|aa", names(buf))
	assert.Equal(t, []int{0, 0, 1}, clusters(buf))
}

func TestMissingScriptConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.indic")
	defer teardown()
	//
	sh := newShaper(t, devaFont, otindic.NewWithConfigs())
	buf := sh.NewBuffer()
	buf.StoreUnicode("\u0915\u094D\u0937")
	err := sh.Shape(buf)
	require.ErrorIs(t, err, otindic.ErrMissingScriptConfig)
	// the buffer is untouched
	require.Len(t, buf.Items, 3)
	for _, item := range buf.Items {
		assert.False(t, item.HasGlyph)
	}
}

func TestCollectFeatures(t *testing.T) {
	engine := otindic.New().(otshape.ShapingEnginePlanHooks)
	plan := otshape.NewPlan()
	ctx := &otshape.ShapeContext{Selection: otshape.SelectionContext{Script: language.Devanagari}}
	require.NoError(t, engine.CollectFeatures(plan, ctx))
	assert.Equal(t, "[locl ccmp] | [nukt] | [akhn] | [rphf] | [rkrf] | [pref] | [blwf] | [abvf]"+
		" | [half] | [pstf] | [vatu] | [cjct] | [init pres abvs blws psts haln]", plan.String())
	for _, tag := range []string{"locl", "rphf", "haln"} {
		assert.True(t, plan.PerSyllable(ot.T(tag)), tag)
	}
	//
	ctx.Selection.Script = language.Khmer
	assert.ErrorIs(t, engine.CollectFeatures(otshape.NewPlan(), ctx), otindic.ErrMissingScriptConfig)
}

func TestMatch(t *testing.T) {
	s := otindic.New()
	assert.Equal(t, "indic", s.Name())
	assert.Equal(t, otshape.ShaperConfidenceCertain,
		s.Match(otshape.SelectionContext{Script: language.Devanagari, ScriptTag: ot.T("dev2")}))
	assert.Equal(t, otshape.ShaperConfidenceMedium,
		s.Match(otshape.SelectionContext{Script: language.Devanagari, ScriptTag: ot.T("dev3")}))
	assert.Equal(t, otshape.ShaperConfidenceNone,
		s.Match(otshape.SelectionContext{Script: language.Latin, ScriptTag: ot.T("latn")}))
	assert.NotSame(t, s, s.New())
}

// --- Font dependent positions ----------------------------------------------

const devaBelowRaFont = `
glyphs:
  - {name: ka, unicode: U+0915, advance: 600, category: base}
  - {name: ra, unicode: U+0930, advance: 500, category: base}
  - {name: virama, unicode: U+094D, advance: 0, category: mark, markclass: 1}
  - {name: ka.half, advance: 400, category: base}
  - {name: ra.blw, advance: 0, category: mark, markclass: 1}
scripts: [dev2]
routines:
  - name: half
    rules:
      - sub: {input: [[ka], [virama]], output: [ka.half]}
  - name: blwf
    rules:
      - sub: {input: [[virama], [ra]], output: [ra.blw]}
features:
  half: [half]
  blwf: [blwf]
`

const mlymPrefFont = `
glyphs:
  - {name: ka, unicode: U+0D15, advance: 600, category: base}
  - {name: ra, unicode: U+0D30, advance: 500, category: base}
  - {name: virama, unicode: U+0D4D, advance: 0, category: mark, markclass: 1}
  - {name: ra.pref, advance: 300, category: base}
scripts: [mlm2]
routines:
  - name: pref
    rules:
      - sub: {input: [[virama], [ra]], output: [ra.pref]}
features:
  pref: [pref]
`

const mlymBelowFont = `
glyphs:
  - {name: ka, unicode: U+0D15, advance: 600, category: base}
  - {name: la, unicode: U+0D32, advance: 500, category: base}
  - {name: virama, unicode: U+0D4D, advance: 0, category: mark, markclass: 1}
  - {name: la.blw, advance: 0, category: mark, markclass: 1}
scripts: [mlm2]
routines:
  - name: blwf
    rules:
      - sub: {input: [[virama], [la]], output: [la.blw]}
features:
  blwf: [blwf]
`

const sinhalaFont = `
glyphs:
  - {name: ka, unicode: U+0D9A, advance: 600, category: base}
  - {name: ya, unicode: U+0DBA, advance: 500, category: base}
  - {name: al, unicode: U+0DCA, advance: 0, category: mark, markclass: 1}
  - {name: zwj, unicode: U+200D, advance: 0, category: base}
scripts: [sinh]
`

func shapeWith(t *testing.T, font, settings, text string) *otlayout.Buffer {
	t.Helper()
	table, ff, err := fixture.Load([]byte(font))
	require.NoError(t, err)
	user, err := otshape.ParseFeatureSettings(settings)
	require.NoError(t, err)
	sh, err := otshape.NewShaper(otshape.Params{Features: ff, Font: table, UserFeatures: user},
		otcore.New(), otindic.New())
	require.NoError(t, err)
	buf, err := sh.ShapeText(text)
	require.NoError(t, err)
	return buf
}

// positionOf returns the position class of the unligated item for codepoint r.
func positionOf(t *testing.T, buf *otlayout.Buffer, r rune) otindic.Position {
	t.Helper()
	for _, item := range buf.Items {
		if item.Codepoint == r && item.Flags&otlayout.Ligated == 0 {
			return otindic.Position(item.ShaperPosition)
		}
	}
	t.Fatalf("no item for U+%04X", r)
	return otindic.PosEnd
}

func TestBelowBaseConsonantIsNotBase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.indic")
	defer teardown()
	//
	// the font has a below-base form of Ra: Ka stays the base, no half form
	buf := shape(t, devaBelowRaFont, "\u0915\u094D\u0930")
	assert.Equal(t, "ka|ra.blw", names(buf))
	assert.Equal(t, otindic.PosBaseC, otindic.Position(buf.Items[0].ShaperPosition))
	assert.Equal(t, otindic.PosBelowC, otindic.Position(buf.Items[1].ShaperPosition))
	// without it, Ra is the base and Ka takes its half form
	buf = shape(t, devaFont, "\u0915\u094D\u0930")
	assert.Equal(t, "ka.half|ra", names(buf))
	// a disabled blwf does not change the base outside of Malayalam
	buf = shapeWith(t, devaBelowRaFont, "-blwf", "\u0915\u094D\u0930")
	assert.Equal(t, "ka|virama|ra", names(buf))
	assert.Equal(t, otindic.PosBaseC, positionOf(t, buf, 0x0915))
	assert.Equal(t, otindic.PosBelowC, positionOf(t, buf, 0x0930))
}

func TestPreBaseReorderingRa(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.indic")
	defer teardown()
	//
	// Malayalam kra: the pref form of Ra moves in front of Ka
	buf := shape(t, mlymPrefFont, "\u0D15\u0D4D\u0D30")
	assert.Equal(t, "ra.pref|ka", names(buf))
	assert.Equal(t, []int{0, 0}, clusters(buf))
	// if the pref form does not form, Ra becomes the base
	buf = shapeWith(t, mlymPrefFont, "-pref", "\u0D15\u0D4D\u0D30")
	assert.Equal(t, "ka|virama|ra", names(buf))
	assert.Equal(t, otindic.PosBaseC, positionOf(t, buf, 0x0D30))
}

func TestMalayalamBelowBaseWithoutForm(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.indic")
	defer teardown()
	//
	buf := shape(t, mlymBelowFont, "\u0D15\u0D4D\u0D32")
	assert.Equal(t, "ka|la.blw", names(buf))
	assert.Equal(t, otindic.PosBaseC, otindic.Position(buf.Items[0].ShaperPosition))
	// halant followed by a below-base consonant which did not form: the
	// consonant is the base
	buf = shapeWith(t, mlymBelowFont, "-blwf", "\u0D15\u0D4D\u0D32")
	assert.Equal(t, "ka|virama|la", names(buf))
	assert.Equal(t, otindic.PosBaseC, positionOf(t, buf, 0x0D32))
}

func TestSinhalaZWJBlocksBase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.indic")
	defer teardown()
	//
	// ka al ya: the last consonant is the base
	buf := shape(t, sinhalaFont, "\u0D9A\u0DCA\u0DBA")
	assert.Equal(t, otindic.PosPreC, positionOf(t, buf, 0x0D9A))
	assert.Equal(t, otindic.PosBaseC, positionOf(t, buf, 0x0DBA))
	// ka al ZWJ ya: a consonant after ZWJ cannot be the base
	buf = shape(t, sinhalaFont, "\u0D9A\u0DCA\u200D\u0DBA")
	assert.Equal(t, otindic.PosBaseC, positionOf(t, buf, 0x0D9A))
	assert.Equal(t, otindic.PosBelowC, positionOf(t, buf, 0x0DBA))
}
