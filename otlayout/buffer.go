package otlayout

import (
	"slices"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/ot"
	xlang "golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"
)

// Buffer is the mutable unit of work of the shaping pipeline: an ordered
// sequence of items together with the mask of items currently visible to
// rule matching.
//
// Items are always in logical order. All positional indexing of rules goes
// through the mask: At(i) is the i-th visible item, not the i-th item.
// A buffer must not be shared between concurrent shaping calls.
type Buffer struct {
	Items     []*BufferItem  // underlying sequence, in logical order
	Font      FontAccess     // font the items are mapped with
	Direction bidi.Direction // bidi.LeftToRight or bidi.RightToLeft, bidi.Neutral if not yet known
	Vertical  bool           // vertical text, unsupported except for feature selection
	Script    language.Script
	Language  xlang.Tag
	view      maskView
	visible   []int // derived from Items and view, see computeVisibleIndices
}

// maskView collects the parameters the visible indices are derived from.
type maskView struct {
	flags      ot.LayoutTableLookupFlag
	filter     ot.GlyphSet
	attachType uint16
	feature    ot.Tag
}

// NewBuffer creates an empty buffer for a font.
func NewBuffer(font FontAccess) *Buffer {
	return &Buffer{
		Font:      font,
		Direction: bidi.Neutral,
		Script:    language.Unknown,
		Language:  xlang.Und,
	}
}

// StoreUnicode resets the buffer to hold the NFC normalized codepoints of text.
// Clusters are numbered by codepoint index.
func (buf *Buffer) StoreUnicode(text string) {
	text = norm.NFC.String(text)
	buf.Items = buf.Items[:0]
	cluster := 0
	for _, r := range text {
		buf.Items = append(buf.Items, NewCodepointItem(r, cluster))
		cluster++
	}
	buf.view = maskView{}
	buf.updateMask()
}

// StoreGlyphs resets the buffer to hold pre-resolved glyphs.
func (buf *Buffer) StoreGlyphs(glyphs []ot.GlyphIndex) {
	buf.Items = buf.Items[:0]
	for i, g := range glyphs {
		item := NewGlyphItem(g, i)
		item.SetGlyph(buf.Font, g)
		buf.Items = append(buf.Items, item)
	}
	buf.view = maskView{}
	buf.updateMask()
}

// MapToGlyphs resolves every item's glyph through the buffer's font.
// It returns the number of codepoints without a glyph in the font.
func (buf *Buffer) MapToGlyphs() int {
	assert(buf.Font != nil, "cannot map glyphs without a font")
	missing := 0
	for _, item := range buf.Items {
		if !item.MapToGlyph(buf.Font) {
			missing++
		}
	}
	buf.updateMask()
	return missing
}

// GuessSegmentProperties sets script and direction from the buffer's codepoints,
// if not already set. The first script which is not Common, Inherited or
// Unknown wins.
func (buf *Buffer) GuessSegmentProperties() {
	if buf.Script == language.Unknown || buf.Script == 0 {
		buf.Script = language.Common
		for _, item := range buf.Items {
			if item.Codepoint < 0 {
				continue
			}
			s := language.LookupScript(item.Codepoint)
			if s != language.Common && s != language.Inherited && s != language.Unknown {
				buf.Script = s
				break
			}
		}
	}
	if buf.Direction != bidi.LeftToRight && buf.Direction != bidi.RightToLeft {
		buf.Direction = ScriptDirection(buf.Script)
	}
}

// --- Masking ---------------------------------------------------------------

// SetMask sets the lookup flags, mark filtering set and mark attachment class
// rule matching is subject to, and recomputes the mask. The feature restriction
// is cleared.
func (buf *Buffer) SetMask(flags ot.LayoutTableLookupFlag, filter ot.GlyphSet, attachType uint16) {
	buf.view = maskView{flags: flags, filter: filter, attachType: attachType}
	buf.updateMask()
}

// SetFeatureMask additionally restricts the mask to items not masked out
// for feature tag. A zero tag removes the restriction.
func (buf *Buffer) SetFeatureMask(tag ot.Tag) {
	buf.view.feature = tag
	buf.updateMask()
}

// ResetMask makes every item visible.
func (buf *Buffer) ResetMask() {
	buf.view = maskView{}
	buf.updateMask()
}

func (buf *Buffer) updateMask() {
	buf.visible = computeVisibleIndices(buf.Items, buf.view, buf.visible)
}

// computeVisibleIndices derives the list of indices of items visible under a view.
// It is a pure function of items and view; dst is only used as storage.
func computeVisibleIndices(items []*BufferItem, view maskView, dst []int) []int {
	dst = dst[:0]
	for i, item := range items {
		if visible(item, view) {
			dst = append(dst, i)
		}
	}
	return dst
}

func visible(item *BufferItem, view maskView) bool {
	switch item.Category {
	case ot.BaseGlyph:
		if view.flags&ot.LOOKUP_FLAG_IGNORE_BASE_GLYPHS != 0 {
			return false
		}
	case ot.LigatureGlyph:
		if view.flags&ot.LOOKUP_FLAG_IGNORE_LIGATURES != 0 {
			return false
		}
	case ot.MarkGlyph:
		if view.flags&ot.LOOKUP_FLAG_IGNORE_MARKS != 0 {
			return false
		}
		if view.flags&ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET != 0 && !view.filter.Contains(item.Glyph) {
			return false
		}
		if view.attachType != 0 && item.MarkClass != view.attachType {
			return false
		}
	}
	if view.feature != 0 && item.Masked(view.feature) {
		return false
	}
	return true
}

// --- Masked access ---------------------------------------------------------

// Len returns the number of visible items.
func (buf *Buffer) Len() int {
	return len(buf.visible)
}

// At returns the i-th visible item.
func (buf *Buffer) At(i int) *BufferItem {
	return buf.Items[buf.visible[i]]
}

// RawIndex returns the index into Items of the i-th visible item.
func (buf *Buffer) RawIndex(i int) int {
	return buf.visible[i]
}

// MaskedIndex returns the position in the mask of the item at raw index raw,
// or -1 if the item is not visible.
func (buf *Buffer) MaskedIndex(raw int) int {
	if i, found := slices.BinarySearch(buf.visible, raw); found {
		return i
	}
	return -1
}

// Replace replaces the n visible items starting at masked position i with items.
//
// If the number of items does not change, items are replaced one by one in place.
// Otherwise the visible items are removed from the underlying sequence and the
// new items are inserted where the first of them has been, i.e. invisible items in
// between end up after the replacement. The mask is re-derived from scratch.
func (buf *Buffer) Replace(i, n int, items ...*BufferItem) {
	assert(i >= 0 && n > 0 && i+n <= len(buf.visible), "buffer replace out of range")
	raw := slices.Clone(buf.visible[i : i+n])
	if len(items) == n {
		for j, r := range raw {
			buf.Items[r] = items[j]
		}
		buf.updateMask()
		return
	}
	for j := len(raw) - 1; j >= 0; j-- {
		buf.Items = slices.Delete(buf.Items, raw[j], raw[j]+1)
	}
	buf.Items = slices.Insert(buf.Items, raw[0], items...)
	buf.updateMask()
}

// Glyphs returns the glyphs of all items, visible or not.
func (buf *Buffer) Glyphs() []ot.GlyphIndex {
	glyphs := make([]ot.GlyphIndex, len(buf.Items))
	for i, item := range buf.Items {
		glyphs[i] = item.Glyph
	}
	return glyphs
}

// IsRTL is true for right-to-left buffers.
func (buf *Buffer) IsRTL() bool {
	return buf.Direction == bidi.RightToLeft
}

// maskState allows saving and restoring the mask around nested routine
// application.
func (buf *Buffer) maskState() maskView {
	return buf.view
}

func (buf *Buffer) restoreMask(v maskView) {
	buf.view = v
	buf.updateMask()
}
