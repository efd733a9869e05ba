package otquery

import (
	"strings"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// SFNTAccess is the font access of the shaping engine to a font parsed by
// package sfnt. It is safe for concurrent use.
type SFNTAccess struct {
	font    *sfnt.Font
	ppem    fixed.Int26_6 // one pixel per font unit
	scripts []ot.Tag
	buffers sync.Pool // of *sfnt.Buffer
	once    sync.Once
	names   map[string]ot.GlyphIndex
	runes   map[ot.GlyphIndex]rune
}

var _ otlayout.FontAccess = (*SFNTAccess)(nil)

// NewSFNTAccess wraps an sfnt font. scripts are the OpenType script tags the
// font supports; as sfnt does not read the layout tables, they have to be
// declared by the client.
func NewSFNTAccess(f *sfnt.Font, scripts ...ot.Tag) *SFNTAccess {
	acc := &SFNTAccess{
		font:    f,
		ppem:    fixed.I(int(f.UnitsPerEm())),
		scripts: scripts,
	}
	acc.buffers.New = func() any { return &sfnt.Buffer{} }
	return acc
}

// Font returns the wrapped font.
func (acc *SFNTAccess) Font() *sfnt.Font {
	return acc.font
}

func (acc *SFNTAccess) buffer() *sfnt.Buffer {
	return acc.buffers.Get().(*sfnt.Buffer)
}

func (acc *SFNTAccess) release(b *sfnt.Buffer) {
	acc.buffers.Put(b)
}

// CodepointToGlyph returns the glyph for r. Codepoints mapped to .notdef are
// reported as missing.
func (acc *SFNTAccess) CodepointToGlyph(r rune) (ot.GlyphIndex, bool) {
	b := acc.buffer()
	defer acc.release(b)
	g, err := acc.font.GlyphIndex(b, r)
	if err != nil || g == 0 {
		return 0, false
	}
	return ot.GlyphIndex(g), true
}

// GlyphAdvance returns the advance width of a glyph in font units, or 0 for
// glyphs not in the font.
func (acc *SFNTAccess) GlyphAdvance(g ot.GlyphIndex) int32 {
	b := acc.buffer()
	defer acc.release(b)
	adv, err := acc.font.GlyphAdvance(b, sfnt.GlyphIndex(g), acc.ppem, font.HintingNone)
	if err != nil {
		tracer().Debugf("no advance for glyph %d: %v", g, err)
		return 0
	}
	return int32(adv.Round())
}

// GlyphCategory guesses the glyph class of g. Glyphs of non-spacing marks are
// marks, glyphs with names of ligatures ("f_i") are ligatures. Other glyphs
// are base glyphs, if they have a codepoint or a name.
func (acc *SFNTAccess) GlyphCategory(g ot.GlyphIndex) (ot.GlyphCategory, uint16) {
	acc.once.Do(acc.index)
	r, ok := acc.runes[g]
	if !ok {
		r = -1
	}
	return GuessGlyphCategory(r, acc.GlyphName(g)), 0
}

// GlyphName returns the name of a glyph from the font's post table, or "".
func (acc *SFNTAccess) GlyphName(g ot.GlyphIndex) string {
	b := acc.buffer()
	defer acc.release(b)
	name, err := acc.font.GlyphName(b, sfnt.GlyphIndex(g))
	if err != nil {
		return ""
	}
	return name
}

// GlyphByName finds a glyph by its name.
func (acc *SFNTAccess) GlyphByName(name string) (ot.GlyphIndex, bool) {
	acc.once.Do(acc.index)
	g, ok := acc.names[name]
	return g, ok
}

// SupportedScript returns the first declared script tag for script.
func (acc *SFNTAccess) SupportedScript(script language.Script) ot.Tag {
	for _, tag := range acc.scripts {
		if ot.ScriptForTag(tag) == script {
			return tag
		}
	}
	return ot.DFLT
}

// index builds the glyph name index and a reverse character map for the
// Basic Multilingual Plane.
func (acc *SFNTAccess) index() {
	b := acc.buffer()
	defer acc.release(b)
	n := acc.font.NumGlyphs()
	acc.names = make(map[string]ot.GlyphIndex, n)
	for g := 0; g < n; g++ {
		name, err := acc.font.GlyphName(b, sfnt.GlyphIndex(g))
		if err != nil || name == "" {
			continue
		}
		if _, dup := acc.names[name]; !dup {
			acc.names[name] = ot.GlyphIndex(g)
		}
	}
	acc.runes = make(map[ot.GlyphIndex]rune)
	for r := rune(0x20); r <= 0xFFFF; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		g, err := acc.font.GlyphIndex(b, r)
		if err != nil || g == 0 {
			continue
		}
		if _, dup := acc.runes[ot.GlyphIndex(g)]; !dup {
			acc.runes[ot.GlyphIndex(g)] = r
		}
	}
	tracer().Debugf("indexed %d glyph names and %d codepoints", len(acc.names), len(acc.runes))
}

// GuessGlyphCategory classifies a glyph from the codepoint it is mapped from
// (-1 for none) and its name.
func GuessGlyphCategory(r rune, name string) ot.GlyphCategory {
	if r >= 0 {
		if unicode.In(r, unicode.Mn, unicode.Me) {
			return ot.MarkGlyph
		}
		return ot.BaseGlyph
	}
	base, _, _ := strings.Cut(name, ".")
	switch {
	case name == "":
		return ot.UnknownGlyph
	case strings.Contains(base, "_"):
		return ot.LigatureGlyph
	case strings.HasPrefix(base, "uni") && len(base) > 7 && (len(base)-3)%4 == 0:
		return ot.LigatureGlyph // uniXXXXYYYY
	}
	return ot.BaseGlyph
}
