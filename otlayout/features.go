package otlayout

import (
	"slices"

	"github.com/npillmayer/fontfeatures/ot"
)

// Features is a read-only store of layout rules, as extracted from a font or
// compiled from a feature file.
type Features struct {
	FeatureRoutines map[ot.Tag][]*Routine  // feature tag → ordered routines
	Routines        []*Routine             // all routines, in font order
	NamedClasses    map[string]ot.GlyphSet // glyph classes by name
}

// NewFeatures creates an empty rule store.
func NewFeatures() *Features {
	return &Features{
		FeatureRoutines: make(map[ot.Tag][]*Routine),
		NamedClasses:    make(map[string]ot.GlyphSet),
	}
}

// AddRoutine registers a routine for a feature. The routine is appended to
// the list of all routines if not already contained.
func (ff *Features) AddRoutine(tag ot.Tag, r *Routine) {
	ff.FeatureRoutines[tag] = append(ff.FeatureRoutines[tag], r)
	if !slices.Contains(ff.Routines, r) {
		ff.Routines = append(ff.Routines, r)
	}
}

// RoutinesFor returns the routines of a feature, nil if the feature is absent.
func (ff *Features) RoutinesFor(tag ot.Tag) []*Routine {
	if ff == nil {
		return nil
	}
	return ff.FeatureRoutines[tag]
}

// HasFeature reports whether a feature has at least one routine.
func (ff *Features) HasFeature(tag ot.Tag) bool {
	return len(ff.RoutinesFor(tag)) > 0
}

// FeatureTags returns the tags of all features, sorted.
func (ff *Features) FeatureTags() []ot.Tag {
	tags := make([]ot.Tag, 0, len(ff.FeatureRoutines))
	for tag := range ff.FeatureRoutines {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// NamedClass returns a named glyph class.
func (ff *Features) NamedClass(name string) (ot.GlyphSet, bool) {
	if ff == nil {
		return nil, false
	}
	set, ok := ff.NamedClasses[name]
	return set, ok
}

// Validate checks a rule store for constructs rule matching cannot express:
// rules without input, substitutions with a mapping over more than one slot,
// attachments of unknown kind, chaining rules with more than one routine at one
// position or nesting routines of both stages.
func (ff *Features) Validate() error {
	seen := make(map[*Routine]bool)
	var check func(r *Routine) error
	check = func(r *Routine) error {
		if seen[r] {
			return nil
		}
		seen[r] = true
		for n, rule := range r.Rules {
			if err := validateRule(r, n, rule); err != nil {
				return err
			}
			if c, ok := rule.(*Chaining); ok {
				for _, list := range c.Routines {
					for _, nested := range list {
						if err := check(nested); err != nil {
							return err
						}
					}
				}
			}
		}
		return nil
	}
	for _, r := range ff.Routines {
		if err := check(r); err != nil {
			return err
		}
	}
	for _, tag := range ff.FeatureTags() {
		for _, r := range ff.FeatureRoutines[tag] {
			if err := check(r); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRule(r *Routine, n int, rule Rule) error {
	switch rule := rule.(type) {
	case *Substitution:
		if len(rule.Input) == 0 {
			return errLayout(ErrUnsupportedRule, "routine %q rule %d: substitution without input", r.Name, n)
		}
		if rule.Mapping != nil && len(rule.Input) != 1 {
			return errLayout(ErrUnsupportedRule, "routine %q rule %d: mapping over %d slots", r.Name, n, len(rule.Input))
		}
	case *Positioning:
		if len(rule.Input) == 0 || len(rule.Values) != len(rule.Input) {
			return errLayout(ErrUnsupportedRule, "routine %q rule %d: value records do not match input", r.Name, n)
		}
	case *Attachment:
		if rule.Kind != AttachMark && rule.Kind != AttachCursive {
			return errLayout(ErrUnsupportedRule, "routine %q rule %d: attachment kind %s", r.Name, n, rule.Kind)
		}
	case *Chaining:
		if len(rule.Input) == 0 || len(rule.Routines) > len(rule.Input) {
			return errLayout(ErrUnsupportedRule, "routine %q rule %d: chaining routines do not match input", r.Name, n)
		}
		stages := make(map[Stage]bool)
		for slot, list := range rule.Routines {
			if len(list) > 1 {
				return errLayout(ErrUnsupportedRule, "routine %q rule %d: %d simultaneous lookups at position %d",
					r.Name, n, len(list), slot)
			}
			for _, nested := range list {
				for _, nr := range nested.Rules {
					stages[nr.Stage()] = true
				}
			}
		}
		if len(stages) > 1 {
			return errLayout(ErrUnsupportedRule, "routine %q rule %d: chaining mixes substitution and positioning", r.Name, n)
		}
	default:
		return errLayout(ErrUnsupportedRule, "routine %q rule %d: unknown rule type %T", r.Name, n, rule)
	}
	return nil
}
