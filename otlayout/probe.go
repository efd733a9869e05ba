package otlayout

import "github.com/npillmayer/fontfeatures/ot"

// WouldSubstitute answers whether a substitution rule of feature tag would
// fire for exactly the glyph sequence glyphs, without context.
//
// The probe is a dry run on a throwaway buffer: no rule is applied and neither
// routines nor any other buffer are touched. An absent feature is a negative
// answer, not an error.
func WouldSubstitute(ff *Features, font FontAccess, tag ot.Tag, glyphs ...ot.GlyphIndex) bool {
	routines := ff.RoutinesFor(tag)
	if len(routines) == 0 || len(glyphs) == 0 {
		return false
	}
	probe := NewBuffer(font)
	probe.StoreGlyphs(glyphs)
	for _, r := range routines {
		probe.SetMask(r.Flags, r.MarkFilteringSet, r.Flags.MarkAttachmentType())
		if probe.Len() != len(glyphs) {
			continue
		}
		for _, rule := range r.Rules {
			if wouldSubstituteAll(probe, rule) {
				return true
			}
		}
	}
	return false
}

func wouldSubstituteAll(probe *Buffer, rule Rule) bool {
	if rule.Stage() != StageSub {
		return false
	}
	if len(rule.Precontext()) > 0 || len(rule.Postcontext()) > 0 {
		return false
	}
	if len(rule.Coverage()) != probe.Len() {
		return false
	}
	return rule.WouldApply(probe, 0)
}
