package fixture

import (
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
)

type glyphEntry struct {
	name      string
	r         rune
	advance   int32
	category  ot.GlyphCategory
	markClass uint16
}

// GlyphTable is a font stand-in implementing otlayout.FontAccess.
type GlyphTable struct {
	glyphs  []glyphEntry
	byName  map[string]ot.GlyphIndex
	cmap    map[rune]ot.GlyphIndex
	scripts []ot.Tag
}

var _ otlayout.FontAccess = (*GlyphTable)(nil)

// NewGlyphTable creates a glyph table containing only ".notdef".
func NewGlyphTable() *GlyphTable {
	t := &GlyphTable{
		byName: make(map[string]ot.GlyphIndex),
		cmap:   make(map[rune]ot.GlyphIndex),
	}
	t.AddGlyph(".notdef", -1, 0, ot.BaseGlyph, 0)
	return t
}

// AddGlyph appends a glyph and returns its id. A negative rune leaves the glyph
// unmapped.
func (t *GlyphTable) AddGlyph(name string, r rune, advance int32, cat ot.GlyphCategory, markClass uint16) ot.GlyphIndex {
	g := ot.GlyphIndex(len(t.glyphs))
	t.glyphs = append(t.glyphs, glyphEntry{
		name:      name,
		r:         r,
		advance:   advance,
		category:  cat,
		markClass: markClass,
	})
	t.byName[name] = g
	if r >= 0 {
		if _, exists := t.cmap[r]; !exists {
			t.cmap[r] = g
		}
	}
	return g
}

// AddScript declares a script tag as supported.
func (t *GlyphTable) AddScript(tag ot.Tag) {
	t.scripts = append(t.scripts, tag)
}

// NumGlyphs returns the number of glyphs, .notdef included.
func (t *GlyphTable) NumGlyphs() int {
	return len(t.glyphs)
}

// MustGlyph returns the glyph for a name and panics if there is none.
// Intended for tests.
func (t *GlyphTable) MustGlyph(name string) ot.GlyphIndex {
	g, ok := t.byName[name]
	if !ok {
		panic("fixture: no glyph named " + name)
	}
	return g
}

func (t *GlyphTable) CodepointToGlyph(r rune) (ot.GlyphIndex, bool) {
	g, ok := t.cmap[r]
	return g, ok
}

func (t *GlyphTable) GlyphAdvance(g ot.GlyphIndex) int32 {
	if int(g) >= len(t.glyphs) {
		return 0
	}
	return t.glyphs[g].advance
}

func (t *GlyphTable) GlyphCategory(g ot.GlyphIndex) (ot.GlyphCategory, uint16) {
	if int(g) >= len(t.glyphs) {
		return ot.UnknownGlyph, 0
	}
	return t.glyphs[g].category, t.glyphs[g].markClass
}

func (t *GlyphTable) GlyphName(g ot.GlyphIndex) string {
	if int(g) >= len(t.glyphs) {
		return ""
	}
	return t.glyphs[g].name
}

func (t *GlyphTable) GlyphByName(name string) (ot.GlyphIndex, bool) {
	g, ok := t.byName[name]
	return g, ok
}

// SupportedScript returns the first declared script tag belonging to script.
func (t *GlyphTable) SupportedScript(script language.Script) ot.Tag {
	for _, tag := range t.scripts {
		if ot.ScriptForTag(tag) == script {
			return tag
		}
	}
	return ot.DFLT
}
