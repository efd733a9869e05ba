package otshape

import (
	"unicode"

	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
)

// propagateAttachments resolves attachment chains after positioning.
//
// Every attached item inherits the placement of its parent, parents first,
// so that chains (mark on mark on base) are resolved depth-first. Marks are
// additionally moved back over the advances between parent and mark. Cursive
// attachment propagates the cross-stream offset only.
func propagateAttachments(buf *otlayout.Buffer) {
	const (
		pending = iota
		resolving
		resolved
	)
	items := buf.Items
	state := make([]uint8, len(items))
	var resolve func(i int)
	resolve = func(i int) {
		if state[i] != pending {
			return // resolved, or a cycle which we do not follow
		}
		state[i] = resolving
		item := items[i]
		j := item.AttachTo
		if item.AttachKind != otlayout.AttachNone && j >= 0 && j < len(items) && j != i {
			resolve(j)
			parent := items[j]
			switch item.AttachKind {
			case otlayout.AttachCursive:
				if !buf.Vertical {
					item.Position.YPlacement += parent.Position.YPlacement
				}
			case otlayout.AttachMark:
				item.Position.XPlacement += parent.Position.XPlacement
				item.Position.YPlacement += parent.Position.YPlacement
				if buf.IsRTL() {
					for k := j + 1; k <= i; k++ {
						item.Position.XPlacement += items[k].Position.XAdvance
					}
				} else {
					for k := j; k < i; k++ {
						item.Position.XPlacement -= items[k].Position.XAdvance
					}
				}
			}
		}
		state[i] = resolved
	}
	for i := range items {
		resolve(i)
	}
}

// hideDefaultIgnorables treats default ignorable codepoints which survived
// substitution, according to mode. Attachment indices are not valid after
// items have been removed.
func hideDefaultIgnorables(buf *otlayout.Buffer, mode IgnorablesMode) {
	if mode == KeepIgnorables {
		return
	}
	space, hasSpace := ot.GlyphIndex(0), false
	if mode == HideIgnorables && buf.Font != nil {
		space, hasSpace = buf.Font.CodepointToGlyph(' ')
	}
	kept := buf.Items[:0]
	for _, item := range buf.Items {
		if !isDefaultIgnorable(item.Codepoint) || item.Flags&(otlayout.Ligated|otlayout.Multiplied) != 0 {
			kept = append(kept, item)
			continue
		}
		if hasSpace {
			item.SetGlyph(buf.Font, space)
			item.Position = otlayout.Position{}
			kept = append(kept, item)
		}
	}
	clear(buf.Items[len(kept):])
	buf.Items = kept
	buf.ResetMask()
}

// isDefaultIgnorable implements the Unicode derived property
// Default_Ignorable_Code_Point from its contributory properties.
func isDefaultIgnorable(r rune) bool {
	if r < 0 {
		return false
	}
	if unicode.Is(unicode.Other_Default_Ignorable_Code_Point, r) || unicode.Is(unicode.Variation_Selector, r) {
		return true
	}
	if !unicode.Is(unicode.Cf, r) || unicode.Is(unicode.White_Space, r) {
		return false
	}
	switch {
	case r >= 0xFFF9 && r <= 0xFFFB: // interlinear annotation
		return false
	case r >= 0x13430 && r <= 0x1343F: // Egyptian hieroglyph format controls
		return false
	}
	return !unicode.Is(unicode.Prepended_Concatenation_Mark, r)
}

// setupFractionMasks restricts frac, numr and dnom to numeric fractions around
// U+2044 FRACTION SLASH: digits before the slash get numr, digits after it
// get dnom, and the whole fraction gets frac.
func setupFractionMasks(buf *otlayout.Buffer, ff *otlayout.Features) {
	if !ff.HasFeature(tagFrac) && !ff.HasFeature(tagNumr) && !ff.HasFeature(tagDnom) {
		return
	}
	items := buf.Items
	for _, item := range items {
		item.SetFeatureMask(tagFrac, true)
		item.SetFeatureMask(tagNumr, true)
		item.SetFeatureMask(tagDnom, true)
	}
	isDigit := func(i int) bool {
		return items[i].Codepoint >= 0 && unicode.IsDigit(items[i].Codepoint)
	}
	for i, item := range items {
		if item.Codepoint != '\u2044' {
			continue
		}
		start, end := i, i+1
		for start > 0 && isDigit(start-1) {
			start--
		}
		for end < len(items) && isDigit(end) {
			end++
		}
		if start == i || end == i+1 {
			continue
		}
		for k := start; k < end; k++ {
			items[k].SetFeatureMask(tagFrac, false)
			switch {
			case k < i:
				items[k].SetFeatureMask(tagNumr, false)
			case k > i:
				items[k].SetFeatureMask(tagDnom, false)
			}
		}
	}
	buf.ResetMask()
}
