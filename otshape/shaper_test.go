package otshape_test

import (
	"errors"
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/internal/fixture"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"github.com/npillmayer/fontfeatures/otshape/otcore"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/unicode/bidi"
)

const shaperFixture = `
glyphs:
  - {name: space, unicode: " ", advance: 250, category: base}
  - {name: A, unicode: A, advance: 500, category: base}
  - {name: B, unicode: B, advance: 1000, category: base}
  - {name: C, unicode: C, advance: 520, category: base}
  - {name: M, advance: 300, category: mark, markclass: 1}
  - {name: N, advance: 300, category: mark, markclass: 1}
scripts: [latn]
routines:
  - name: a2b
    rules: [{sub: {map: {A: B}}}]
  - name: b2c
    rules: [{sub: {map: {B: C}}}]
  - name: mark2base
    rules:
      - attach: {kind: mark, bases: {B: [250, 450]}, marks: {M: [-570, 1290]}}
  - name: mark2mark
    rules:
      - attach: {kind: mark, mkmk: true, bases: {M: [100, 200]}, marks: {N: [0, 0]}}
features:
  aaaa: [a2b]
  bbbb: [b2c]
  mark: [mark2base]
  mkmk: [mark2mark]
`

// pausingEngine schedules aaaa, a pause and bbbb, and records what the pause sees.
type pausingEngine struct {
	collectErr error
	seen       []string
}

func (e *pausingEngine) Name() string { return "pausing" }

func (e *pausingEngine) Match(sel otshape.SelectionContext) otshape.ShaperConfidence {
	if sel.Script == language.Latin {
		return otshape.ShaperConfidenceCertain
	}
	return otshape.ShaperConfidenceNone
}

func (e *pausingEngine) New() otshape.ShapingEngine { return e }

func (e *pausingEngine) CollectFeatures(plan otshape.FeaturePlanner, ctx *otshape.ShapeContext) error {
	if e.collectErr != nil {
		return e.collectErr
	}
	plan.AddFeatures(ot.T("aaaa"))
	plan.AddPause(func(ctx *otshape.ShapeContext) error {
		e.seen = append(e.seen, otlayout.Serialize(ctx.Buffer, otlayout.TraceOptions{Names: true}))
		return nil
	})
	plan.AddFeature(ot.T("bbbb"), otshape.FeaturePerSyllable)
	return nil
}

func (e *pausingEngine) OverrideFeatures(plan otshape.FeaturePlanner) {
	plan.DisableFeature(ot.T("kern"))
}

// --- Test Suite Preparation ------------------------------------------------

type ShaperTestEnviron struct {
	suite.Suite
	font *fixture.GlyphTable
	ff   *otlayout.Features
}

// listen for 'go test' command --> run test methods
func TestShaperFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.shaper")
	defer teardown()
	suite.Run(t, new(ShaperTestEnviron))
}

// run once, before test suite methods
func (env *ShaperTestEnviron) SetupSuite() {
	tracing.Select("fontfeatures.shaper").SetTraceLevel(tracing.LevelError)
	var err error
	env.font, env.ff, err = fixture.Load([]byte(shaperFixture))
	env.Require().NoError(err)
	tracing.Select("fontfeatures.shaper").SetTraceLevel(tracing.LevelInfo)
}

func (env *ShaperTestEnviron) shaper(settings string, engines ...otshape.ShapingEngine) *otshape.Shaper {
	user, err := otshape.ParseFeatureSettings(settings)
	env.Require().NoError(err)
	sh, err := otshape.NewShaper(otshape.Params{
		Features:     env.ff,
		Font:         env.font,
		UserFeatures: user,
	}, engines...)
	env.Require().NoError(err)
	return sh
}

func (env *ShaperTestEnviron) glyphBuffer(sh *otshape.Shaper, names ...string) *otlayout.Buffer {
	glyphs := make([]ot.GlyphIndex, len(names))
	for i, n := range names {
		glyphs[i] = env.font.MustGlyph(n)
	}
	buf := sh.NewBuffer()
	buf.StoreGlyphs(glyphs)
	return buf
}

func positions(buf *otlayout.Buffer) string {
	return otlayout.Serialize(buf, otlayout.TraceOptions{Names: true, Positions: true})
}

// --- Tests -----------------------------------------------------------------

func (env *ShaperTestEnviron) TestMarkAttachmentIsPropagated() {
	sh := env.shaper("", otcore.New())
	buf := env.glyphBuffer(sh, "B", "M")
	env.Require().NoError(sh.Shape(buf))
	// (250 - -570) - 1000, 450 - 1290
	env.Equal("B+1000|M@-180,-840+0", positions(buf))
	env.Equal(0, buf.Items[1].AttachTo)
}

func (env *ShaperTestEnviron) TestMarkChainIsPropagated() {
	sh := env.shaper("", otcore.New())
	buf := env.glyphBuffer(sh, "B", "M", "N")
	env.Require().NoError(sh.Shape(buf))
	env.Equal("B+1000|M@-180,-840+0|N@-80,-640+0", positions(buf))
}

func (env *ShaperTestEnviron) TestPauseRunsBetweenStages() {
	pausing := &pausingEngine{}
	sh := env.shaper("", pausing, otcore.New())
	buf, err := sh.ShapeText("AB")
	env.Require().NoError(err)
	env.Equal([]string{"B|B"}, pausing.seen)
	env.Equal("C|C", otlayout.Serialize(buf, otlayout.TraceOptions{Names: true}))
}

func (env *ShaperTestEnviron) TestEngineCanBeOverriddenByUser() {
	sh := env.shaper("-bbbb +kern", &pausingEngine{})
	buf, err := sh.ShapeText("AB")
	env.Require().NoError(err)
	env.Equal("B|B", otlayout.Serialize(buf, otlayout.TraceOptions{Names: true}))
	buf = sh.NewBuffer()
	buf.Script = language.Latin
	plan, engine, err := sh.Plan(buf)
	env.Require().NoError(err)
	env.Equal("pausing", engine.Name())
	env.True(plan.HasFeature(ot.T("kern")))
	env.False(plan.HasFeature(ot.T("bbbb")))
}

func (env *ShaperTestEnviron) TestConfigurationErrorLeavesBufferAlone() {
	errConfig := errors.New("missing script configuration")
	sh := env.shaper("", &pausingEngine{collectErr: errConfig})
	buf := sh.NewBuffer()
	buf.StoreUnicode("AB")
	err := sh.Shape(buf)
	env.ErrorIs(err, errConfig)
	for _, item := range buf.Items {
		env.False(item.HasGlyph)
	}
	env.Equal(language.Unknown, buf.Script, "guessed script must be reset")
	env.Equal(bidi.Neutral, buf.Direction)
	env.True(buf.Font == env.font)
	//
	buf = otlayout.NewBuffer(nil)
	buf.StoreUnicode("AB")
	env.ErrorIs(sh.Shape(buf), errConfig)
	env.Nil(buf.Font)
}

func (env *ShaperTestEnviron) TestBaselinePlan() {
	sh := env.shaper("", otcore.New())
	buf := sh.NewBuffer()
	buf.Script = language.Arabic
	plan, engine, err := sh.Plan(buf)
	env.Require().NoError(err)
	env.Equal("core", engine.Name())
	env.Equal(bidi.RightToLeft, buf.Direction)
	env.Equal("[rvrn] | [rtla rtlm frac numr dnom abvm blwm ccmp locl mark mkmk rlig "+
		"calt clig curs dist kern liga rclt]", plan.String())
	//
	buf = sh.NewBuffer()
	buf.Vertical = true
	plan, _, err = sh.Plan(buf)
	env.Require().NoError(err)
	env.Equal("[rvrn] | [frac numr dnom abvm blwm ccmp locl mark mkmk rlig vert]", plan.String())
}

func (env *ShaperTestEnviron) TestNoEngine() {
	sh := env.shaper("", &pausingEngine{})
	buf := sh.NewBuffer()
	buf.Script = language.Devanagari
	env.ErrorIs(sh.Shape(buf), otshape.ErrNoEngine)
	env.Equal(bidi.Neutral, buf.Direction)
}

func (env *ShaperTestEnviron) TestNewShaperValidates() {
	_, err := otshape.NewShaper(otshape.Params{Features: env.ff}, otcore.New())
	env.ErrorIs(err, otshape.ErrNoFont)
	_, err = otshape.NewShaper(otshape.Params{Font: env.font}, otcore.New())
	env.ErrorIs(err, otshape.ErrNoFeatures)
	_, err = otshape.NewShaper(otshape.Params{Font: env.font, Features: env.ff})
	env.ErrorIs(err, otshape.ErrNoEngine)
	//
	_, bad, err := fixture.Load([]byte(`
glyphs:
  - {name: A, unicode: A, advance: 500, category: base}
  - {name: B, unicode: B, advance: 500, category: base}
routines:
  - name: a2b
    rules: [{sub: {map: {A: B}}}]
  - name: b2a
    rules: [{sub: {map: {B: A}}}]
  - name: both
    rules:
      - chain: {input: [[A]], apply: ["a2b,b2a"]}
features:
  calt: [both]
`))
	env.Require().NoError(err)
	_, err = otshape.NewShaper(otshape.Params{Font: env.font, Features: bad}, otcore.New())
	env.ErrorIs(err, otlayout.ErrUnsupportedRule)
}
