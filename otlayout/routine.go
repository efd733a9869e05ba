package otlayout

import "github.com/npillmayer/fontfeatures/ot"

// Routine is an ordered list of rules sharing one set of lookup flags and an
// optional mark filtering set. It corresponds to an OpenType lookup.
// Routines are never modified during application and may be shared between
// concurrent shaping calls.
type Routine struct {
	Name             string
	Flags            ot.LayoutTableLookupFlag
	MarkFilteringSet ot.GlyphSet
	Rules            []Rule
}

// ApplyOptions modify how a routine is applied to a buffer.
type ApplyOptions struct {
	Feature     ot.Tag // if set, items masked out for this feature are invisible
	PerSyllable bool   // matches must not span syllables
}

// ApplyToBuffer applies a routine to a buffer for one stage.
// It is a shortcut for r.Apply(buf, stage, opts).
func ApplyToBuffer(r *Routine, buf *Buffer, stage Stage, opts ApplyOptions) int {
	return r.Apply(buf, stage, opts)
}

// Apply applies the rules of a routine to buf, left to right.
//
// The mask is set from the routine's flags and, if requested, the feature.
// At each visible position the first rule of the given stage which matches is
// applied, then iteration continues after the rule's output. At most one rule
// fires per position and the routine never backtracks.
// Apply returns the number of rule applications.
func (r *Routine) Apply(buf *Buffer, stage Stage, opts ApplyOptions) int {
	buf.SetMask(r.Flags, r.MarkFilteringSet, r.Flags.MarkAttachmentType())
	if opts.Feature != 0 {
		buf.SetFeatureMask(opts.Feature)
	}
	count := 0
	for i := 0; i < buf.Len(); i++ {
		for _, rule := range r.Rules {
			if rule.Stage() != stage || !rule.WouldApply(buf, i) {
				continue
			}
			if opts.PerSyllable && !spanSyllable(buf, i, rule) {
				continue
			}
			delta := rule.Apply(buf, i)
			buf.updateMask()
			count++
			// a deletion yields delta -1 and has shortened the buffer
			i += delta
			break
		}
	}
	if count > 0 {
		tracer().Debugf("routine %q applied %d times", r.Name, count)
	}
	return count
}

// applyAt applies the first matching rule of a routine to the item at raw index
// raw, if the item is visible under the routine's mask. Used for nested
// routines of chaining rules.
func (r *Routine) applyAt(buf *Buffer, raw int, feature ot.Tag) bool {
	buf.SetMask(r.Flags, r.MarkFilteringSet, r.Flags.MarkAttachmentType())
	if feature != 0 {
		buf.SetFeatureMask(feature)
	}
	i := buf.MaskedIndex(raw)
	if i < 0 {
		return false
	}
	for _, rule := range r.Rules {
		if rule.WouldApply(buf, i) {
			rule.Apply(buf, i)
			buf.updateMask()
			return true
		}
	}
	return false
}

// Stage returns the stage of a routine's rules. A routine without rules is
// reported as a substitution routine.
func (r *Routine) Stage() Stage {
	for _, rule := range r.Rules {
		return rule.Stage()
	}
	return StageSub
}
