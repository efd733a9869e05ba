package otquery

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// --- Test Suite Preparation ------------------------------------------------

type AccessTestEnviron struct {
	suite.Suite
	font *sfnt.Font
	acc  *SFNTAccess
}

// listen for 'go test' command --> run test methods
func TestAccessFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontfeatures.query")
	defer teardown()
	suite.Run(t, new(AccessTestEnviron))
}

// run once, before test suite methods
func (env *AccessTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("fontfeatures.query").SetTraceLevel(tracing.LevelError)
	f, err := sfnt.Parse(goregular.TTF)
	env.Require().NoError(err)
	env.font = f
	env.acc = NewSFNTAccess(f, ot.T("latn"))
	tracing.Select("fontfeatures.query").SetTraceLevel(tracing.LevelInfo)
}

// --- Tests -----------------------------------------------------------------

func (env *AccessTestEnviron) TestCodepointToGlyph() {
	g, ok := env.acc.CodepointToGlyph('A')
	env.True(ok)
	env.NotZero(g)
	_, ok = env.acc.CodepointToGlyph(0xE000) // private use
	env.False(ok)
}

func (env *AccessTestEnviron) TestAdvance() {
	a, _ := env.acc.CodepointToGlyph('A')
	i, _ := env.acc.CodepointToGlyph('i')
	env.Greater(env.acc.GlyphAdvance(a), int32(0))
	env.Greater(env.acc.GlyphAdvance(a), env.acc.GlyphAdvance(i), "expected A to be wider than i")
	m := GlyphMetrics(env.font, a)
	env.Equal(int32(m.Advance), env.acc.GlyphAdvance(a))
	env.False(m.BBox.IsEmpty())
	env.Equal(m.Advance, m.LSB+m.BBox.Dx()+m.RSB)
}

func (env *AccessTestEnviron) TestCategory() {
	a, _ := env.acc.CodepointToGlyph('A')
	cat, _ := env.acc.GlyphCategory(a)
	env.Equal(ot.BaseGlyph, cat)
}

func (env *AccessTestEnviron) TestGlyphNames() {
	a, _ := env.acc.CodepointToGlyph('A')
	name := env.acc.GlyphName(a)
	if name == "" {
		env.T().Skip("font has no glyph names")
	}
	g, ok := env.acc.GlyphByName(name)
	env.True(ok)
	env.Equal(a, g)
}

func (env *AccessTestEnviron) TestSupportedScript() {
	env.Equal(ot.T("latn"), env.acc.SupportedScript(language.Latin))
	env.Equal(ot.DFLT, env.acc.SupportedScript(language.Arabic))
}

func (env *AccessTestEnviron) TestFontMetrics() {
	m := FontMetrics(env.font)
	env.Equal(sfnt.Units(2048), m.UnitsPerEm)
	env.Greater(m.Ascent, sfnt.Units(0))
	env.Less(m.Descent, sfnt.Units(0))
	env.Greater(m.MaxAdvance, sfnt.Units(0))
}

func (env *AccessTestEnviron) TestNames() {
	family, subfamily := FamilyName(env.font)
	env.Equal("Go", family)
	env.Equal("Regular", subfamily)
}

func TestGuessGlyphCategory(t *testing.T) {
	for _, c := range []struct {
		r    rune
		name string
		cat  ot.GlyphCategory
	}{
		{'a', "a", ot.BaseGlyph},
		{0x0301, "acutecomb", ot.MarkGlyph},
		{-1, "f_i", ot.LigatureGlyph},
		{-1, "uni00660069", ot.LigatureGlyph},
		{-1, "a.sc", ot.BaseGlyph},
		{-1, "uni0915.half", ot.BaseGlyph},
		{-1, "", ot.UnknownGlyph},
	} {
		if got := GuessGlyphCategory(c.r, c.name); got != c.cat {
			t.Errorf("category of %q: expected %s, got %s", c.name, c.cat, got)
		}
	}
}
