package otuse_test

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/internal/fixture"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"github.com/npillmayer/fontfeatures/otshape/otcore"
	"github.com/npillmayer/fontfeatures/otshape/otindic"
	"github.com/npillmayer/fontfeatures/otshape/otuse"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baliGlyphs = `
glyphs:
  - {name: ka, unicode: U+1B13, advance: 600, category: base}
  - {name: ta, unicode: U+1B22, advance: 550, category: base}
  - {name: ra, unicode: U+1B2D, advance: 500, category: base}
  - {name: adeg, unicode: U+1B44, advance: 300, category: base}
  - {name: taling, unicode: U+1B3E, advance: 250, category: base}
  - {name: ta.sub, advance: 0, category: mark, markclass: 1}
  - {name: reph, advance: 0, category: mark, markclass: 1}
scripts: [bali]
`

const baliFont = baliGlyphs + `
routines:
  - name: rphf
    rules:
      - sub: {input: [[ra], [adeg]], output: [reph]}
  - name: blwf
    rules:
      - sub: {input: [[adeg], [ta]], output: [ta.sub]}
features:
  rphf: [rphf]
  blwf: [blwf]
`

// a Devanagari font asking for USE
const dev3Font = `
glyphs:
  - {name: ka, unicode: U+0915, advance: 600, category: base}
  - {name: imatra, unicode: U+093F, advance: 250, category: base}
scripts: [dev3]
`

func shape(t *testing.T, font, text string) *otlayout.Buffer {
	t.Helper()
	table, ff, err := fixture.Load([]byte(font))
	require.NoError(t, err)
	sh, err := otshape.NewShaper(otshape.Params{Features: ff, Font: table},
		otcore.New(), otindic.New(), otuse.New())
	require.NoError(t, err)
	buf, err := sh.ShapeText(text)
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

func TestShapePreBaseVowel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.use")
	defer teardown()
	//
	buf := shape(t, baliGlyphs, "\u1B13\u1B3E")
	assert.Equal(t, "taling|ka", names(buf))
	assert.Equal(t, []int{0, 0}, clusters(buf))
}

func TestShapePreBaseVowelAfterHalant(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.use")
	defer teardown()
	//
	// without a below-base form, the vowel stops after the halant
	buf := shape(t, baliGlyphs, "\u1B13\u1B44\u1B22\u1B3E")
	assert.Equal(t, "ka|adeg|taling|ta", names(buf))
	assert.Equal(t, []int{0, 1, 2, 2}, clusters(buf))
	// a halant ligated into a below-base form does not stop it
	buf = shape(t, baliFont, "\u1B13\u1B44\u1B22\u1B3E")
	assert.Equal(t, "taling|ka|ta.sub", names(buf))
	assert.Equal(t, []int{0, 0, 0}, clusters(buf))
}

func TestShapeReph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.use")
	defer teardown()
	//
	buf := shape(t, baliFont, "\u1B2D\u1B44\u1B13")
	assert.Equal(t, "ka|reph", names(buf))
	assert.Equal(t, []int{0, 0}, clusters(buf))
	assert.Equal(t, otuse.CatR, otuse.Category(buf.Items[1].ShaperCategory))
}

func TestShapeIndicWithUSE(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.use")
	defer teardown()
	//
	buf := shape(t, dev3Font, "\u0915\u093F")
	assert.Equal(t, "imatra|ka", names(buf))
	assert.Equal(t, []int{0, 0}, clusters(buf))
}

func TestCollectFeatures(t *testing.T) {
	engine := otuse.New().(otshape.ShapingEnginePlanHooks)
	plan := otshape.NewPlan()
	ctx := &otshape.ShapeContext{Selection: otshape.SelectionContext{Script: language.Balinese}}
	require.NoError(t, engine.CollectFeatures(plan, ctx))
	assert.Equal(t, "[locl ccmp nukt akhn] | [rphf] | [pref] | [rkrf abvf blwf half pstf vatu cjct]"+
		" | [isol init medi fina abvs blws haln pres psts]", plan.String())
	assert.True(t, plan.PerSyllable(ot.T("rphf")))
	assert.False(t, plan.PerSyllable(ot.T("init")))
}

func TestMatch(t *testing.T) {
	s := otuse.New()
	assert.Equal(t, "use", s.Name())
	assert.Equal(t, otshape.ShaperConfidenceCertain,
		s.Match(otshape.SelectionContext{Script: language.Devanagari, ScriptTag: ot.T("dev3")}))
	assert.Equal(t, otshape.ShaperConfidenceHigh,
		s.Match(otshape.SelectionContext{Script: language.Balinese, ScriptTag: ot.T("bali")}))
	assert.Equal(t, otshape.ShaperConfidenceNone,
		s.Match(otshape.SelectionContext{Script: language.Devanagari, ScriptTag: ot.T("dev2")}))
	assert.Equal(t, otshape.ShaperConfidenceNone,
		s.Match(otshape.SelectionContext{Script: language.Latin, ScriptTag: ot.T("latn")}))
}
