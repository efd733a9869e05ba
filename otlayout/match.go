package otlayout

import "github.com/npillmayer/fontfeatures/ot"

// matchSequence is the matching protocol shared by all rules with an input
// sequence: the visible items at [i, i+len(input)) must match input slot by
// slot, the items immediately before i must match the precontext and the items
// after the input span must match the postcontext. Running out of items is a
// non-match.
func matchSequence(buf *Buffer, i int, input []ot.GlyphSet, ctx Context) bool {
	if len(input) == 0 || i < 0 || i+len(input) > buf.Len() {
		return false
	}
	for j, set := range input {
		if !matchesSlot(buf.At(i+j), set) {
			return false
		}
	}
	if n := len(ctx.Pre); n > 0 {
		if i-n < 0 {
			return false
		}
		for j, set := range ctx.Pre {
			if !matchesSlot(buf.At(i-n+j), set) {
				return false
			}
		}
	}
	if n := len(ctx.Post); n > 0 {
		start := i + len(input)
		if start+n > buf.Len() {
			return false
		}
		for j, set := range ctx.Post {
			if !matchesSlot(buf.At(start+j), set) {
				return false
			}
		}
	}
	return true
}

func matchesSlot(item *BufferItem, set ot.GlyphSet) bool {
	return item.HasGlyph && set.Contains(item.Glyph)
}

// findAttachmentBase scans left from the mark at masked position i for the item
// the mark will attach to. For mark-to-mark attachment this is the immediately
// preceding mark. Otherwise it is the nearest preceding base or ligature; marks
// in between are skipped unless they share category and attachment class with
// the mark at i, which makes the skip ambiguous and fails the search.
// Glyphs of category Unknown count as bases: fonts without glyph classes
// leave unmapped glyphs (e.g. results of substitutions) unclassified.
// Returns -1 if nothing is found.
func findAttachmentBase(buf *Buffer, i int, markToMark bool) int {
	mark := buf.At(i)
	for j := i - 1; j >= 0; j-- {
		item := buf.At(j)
		if markToMark {
			if item.Category == ot.MarkGlyph {
				return j
			}
			return -1
		}
		switch item.Category {
		case ot.BaseGlyph, ot.LigatureGlyph, ot.UnknownGlyph:
			return j
		}
		if item.Category == mark.Category && item.MarkClass == mark.MarkClass {
			return -1
		}
	}
	return -1
}

// spanSyllable reports whether the items a rule matches at masked position i,
// context included, all belong to the same syllable.
func spanSyllable(buf *Buffer, i int, rule Rule) bool {
	from := max(0, i-len(rule.Precontext()))
	to := min(buf.Len(), i+len(rule.Coverage())+len(rule.Postcontext()))
	syllable := buf.At(i).Syllable
	for j := from; j < to; j++ {
		if buf.At(j).Syllable != syllable {
			return false
		}
	}
	return true
}
