package ot

import (
	"slices"
	"strconv"
	"strings"
)

// GlyphSet is an unordered set of glyphs, used for rule coverage, context
// and mark filtering sets.
type GlyphSet map[GlyphIndex]struct{}

// NewGlyphSet creates a set from a list of glyphs.
func NewGlyphSet(glyphs ...GlyphIndex) GlyphSet {
	set := make(GlyphSet, len(glyphs))
	for _, g := range glyphs {
		set[g] = struct{}{}
	}
	return set
}

// Contains reports whether g is a member of the set. A nil set contains nothing.
func (set GlyphSet) Contains(g GlyphIndex) bool {
	_, ok := set[g]
	return ok
}

// Len returns the number of glyphs in the set.
func (set GlyphSet) Len() int {
	return len(set)
}

// Glyphs returns the set members in ascending order.
func (set GlyphSet) Glyphs() []GlyphIndex {
	glyphs := make([]GlyphIndex, 0, len(set))
	for g := range set {
		glyphs = append(glyphs, g)
	}
	slices.Sort(glyphs)
	return glyphs
}

func (set GlyphSet) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, g := range set.Glyphs() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(int(g)))
	}
	sb.WriteByte(']')
	return sb.String()
}
