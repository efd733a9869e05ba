package otlayout

import (
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/ot"
)

// FontAccess is the read-only capability of a font the shaping engine relies
// on. Implementations must be safe for concurrent use, as one font is shared
// between shaping calls.
type FontAccess interface {
	// CodepointToGlyph maps a codepoint to a glyph; false if the font has no glyph for it.
	CodepointToGlyph(r rune) (ot.GlyphIndex, bool)
	// GlyphAdvance returns the horizontal advance of a glyph in font units.
	GlyphAdvance(g ot.GlyphIndex) int32
	// GlyphCategory returns the glyph class and, for marks, the mark attachment class.
	// Fonts without glyph classification return ot.UnknownGlyph.
	GlyphCategory(g ot.GlyphIndex) (ot.GlyphCategory, uint16)
	// GlyphName returns a glyph's name, or "" if the font has none.
	GlyphName(g ot.GlyphIndex) string
	// GlyphByName is the inverse of GlyphName.
	GlyphByName(name string) (ot.GlyphIndex, bool)
	// SupportedScript returns the OpenType script tag under which the font supports
	// a script, or ot.DFLT if it does not explicitly support it.
	SupportedScript(script language.Script) ot.Tag
}
