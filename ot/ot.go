package ot

import (
	"fmt"
	"unicode"
)

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// NOTDEF is the glyph index for OpenType ".notdef".
const NOTDEF = GlyphIndex(0)

// --- Tag -------------------------------------------------------------------

// Tag is defined by the OpenType spec as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate
//
//	MakeTag([]byte("liga"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// DFLT is the default script and language tag.
var DFLT = T("DFLT")

func u32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// --- Glyph categories ------------------------------------------------------

// GlyphCategory is the glyph class of a glyph, as defined in a GDEF table.
type GlyphCategory uint8

// Glyph classes, numbered as in GDEF GlyphClassDef.
const (
	UnknownGlyph   GlyphCategory = 0
	BaseGlyph      GlyphCategory = 1
	LigatureGlyph  GlyphCategory = 2
	MarkGlyph      GlyphCategory = 3
	ComponentGlyph GlyphCategory = 4
)

func (c GlyphCategory) String() string {
	switch c {
	case BaseGlyph:
		return "base"
	case LigatureGlyph:
		return "ligature"
	case MarkGlyph:
		return "mark"
	case ComponentGlyph:
		return "component"
	}
	return "unknown"
}

// ParseGlyphCategory is the inverse of GlyphCategory.String.
func ParseGlyphCategory(s string) (GlyphCategory, error) {
	switch s {
	case "base":
		return BaseGlyph, nil
	case "ligature":
		return LigatureGlyph, nil
	case "mark":
		return MarkGlyph, nil
	case "component":
		return ComponentGlyph, nil
	case "unknown", "":
		return UnknownGlyph, nil
	}
	return UnknownGlyph, fmt.Errorf("unknown glyph category %q", s)
}

// --- Lookup flags ----------------------------------------------------------

// LayoutTableLookupFlag is a flag type for routines (lookups of GSUB and GPOS).
type LayoutTableLookupFlag uint16

// Lookup flag bit enumeration
const (
	LOOKUP_FLAG_RIGHT_TO_LEFT             LayoutTableLookupFlag = 0x0001
	LOOKUP_FLAG_IGNORE_BASE_GLYPHS        LayoutTableLookupFlag = 0x0002 // If set, skips over base glyphs
	LOOKUP_FLAG_IGNORE_LIGATURES          LayoutTableLookupFlag = 0x0004 // If set, skips over ligatures
	LOOKUP_FLAG_IGNORE_MARKS              LayoutTableLookupFlag = 0x0008 // If set, skips over all combining marks
	LOOKUP_FLAG_USE_MARK_FILTERING_SET    LayoutTableLookupFlag = 0x0010 // If set, only marks of the routine's filtering set are visible
	LOOKUP_FLAG_MARK_ATTACHMENT_TYPE_MASK LayoutTableLookupFlag = 0xFF00 // If not zero, skips over all marks of attachment type different from specified.
)

// MarkAttachmentType extracts the mark attachment class from the high byte of a flag.
func (f LayoutTableLookupFlag) MarkAttachmentType() uint16 {
	return uint16(f&LOOKUP_FLAG_MARK_ATTACHMENT_TYPE_MASK) >> 8
}

// WithMarkAttachmentType returns f with the mark attachment class set to class.
func (f LayoutTableLookupFlag) WithMarkAttachmentType(class uint16) LayoutTableLookupFlag {
	return f&^LOOKUP_FLAG_MARK_ATTACHMENT_TYPE_MASK | LayoutTableLookupFlag(class&0xff)<<8
}

// CategoryForRune guesses a glyph category from the Unicode general category
// of the codepoint a glyph has been mapped from. It is used whenever a font
// does not classify a glyph.
func CategoryForRune(r rune) GlyphCategory {
	if r < 0 {
		return UnknownGlyph
	}
	if unicode.In(r, unicode.Mn, unicode.Me, unicode.Mc) {
		return MarkGlyph
	}
	return BaseGlyph
}
