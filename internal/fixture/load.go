package fixture

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	"gopkg.in/yaml.v3"
)

// ErrFixture is returned for inconsistent fixture documents.
var ErrFixture = errors.New("invalid fixture")

func errFixture(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFixture, fmt.Sprintf(format, args...))
}

// LoadFile reads a fixture document from a YAML file.
func LoadFile(path string) (*GlyphTable, *otlayout.Features, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return Load(data)
}

// Load builds a glyph table and a rule store from a YAML fixture document.
func Load(data []byte) (*GlyphTable, *otlayout.Features, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFixture, err)
	}
	return Build(&doc)
}

// Build builds a glyph table and a rule store from a parsed document.
func Build(doc *Document) (*GlyphTable, *otlayout.Features, error) {
	table := NewGlyphTable()
	for _, spec := range doc.Glyphs {
		if err := addGlyphSpec(table, spec); err != nil {
			return nil, nil, err
		}
	}
	for _, s := range doc.Scripts {
		table.AddScript(ot.T(s))
	}
	b := &builder{table: table, ff: otlayout.NewFeatures(), routines: make(map[string]*otlayout.Routine)}
	for name, members := range doc.Classes {
		for _, m := range members {
			if strings.HasPrefix(m, "@") {
				return nil, nil, errFixture("class %s refers to class %s", name, m)
			}
		}
		set, err := b.glyphList(members)
		if err != nil {
			return nil, nil, err
		}
		b.ff.NamedClasses[name] = ot.NewGlyphSet(set...)
	}
	// two passes, as chaining rules may refer to routines defined later
	for _, spec := range doc.Routines {
		if _, dup := b.routines[spec.Name]; dup || spec.Name == "" {
			return nil, nil, errFixture("routine name %q empty or not unique", spec.Name)
		}
		r := &otlayout.Routine{Name: spec.Name}
		b.routines[spec.Name] = r
		b.ff.Routines = append(b.ff.Routines, r)
	}
	for _, spec := range doc.Routines {
		if err := b.fillRoutine(b.routines[spec.Name], spec); err != nil {
			return nil, nil, err
		}
	}
	for tag, names := range doc.Features {
		for _, name := range names {
			r, ok := b.routines[name]
			if !ok {
				return nil, nil, errFixture("feature %s refers to unknown routine %q", tag, name)
			}
			b.ff.AddRoutine(ot.T(tag), r)
		}
	}
	return table, b.ff, nil
}

func addGlyphSpec(table *GlyphTable, spec GlyphSpec) error {
	if spec.Name == "" {
		return errFixture("glyph without name")
	}
	if _, dup := table.byName[spec.Name]; dup {
		return errFixture("duplicate glyph %q", spec.Name)
	}
	r, err := parseUnicode(spec.Unicode)
	if err != nil {
		return errFixture("glyph %q: %v", spec.Name, err)
	}
	cat, err := ot.ParseGlyphCategory(spec.Category)
	if err != nil {
		return errFixture("glyph %q: %v", spec.Name, err)
	}
	table.AddGlyph(spec.Name, r, spec.Advance, cat, spec.MarkClass)
	return nil
}

func parseUnicode(s string) (rune, error) {
	switch {
	case s == "":
		return -1, nil
	case strings.HasPrefix(s, "U+") || strings.HasPrefix(s, "u+"):
		n, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return -1, err
		}
		return rune(n), nil
	case utf8.RuneCountInString(s) == 1:
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	}
	return -1, fmt.Errorf("cannot interpret %q as a codepoint", s)
}

type builder struct {
	table    *GlyphTable
	ff       *otlayout.Features
	routines map[string]*otlayout.Routine
}

func (b *builder) fillRoutine(r *otlayout.Routine, spec RoutineSpec) error {
	for _, f := range spec.Flags {
		switch f {
		case "rtl":
			r.Flags |= ot.LOOKUP_FLAG_RIGHT_TO_LEFT
		case "ignore_base":
			r.Flags |= ot.LOOKUP_FLAG_IGNORE_BASE_GLYPHS
		case "ignore_ligatures":
			r.Flags |= ot.LOOKUP_FLAG_IGNORE_LIGATURES
		case "ignore_marks":
			r.Flags |= ot.LOOKUP_FLAG_IGNORE_MARKS
		default:
			return errFixture("routine %q: unknown flag %q", spec.Name, f)
		}
	}
	if len(spec.Filter) > 0 {
		set, err := b.glyphSet(spec.Filter)
		if err != nil {
			return err
		}
		r.MarkFilteringSet = set
		r.Flags |= ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET
	}
	r.Flags = r.Flags.WithMarkAttachmentType(spec.MarkAttach)
	for n, rs := range spec.Rules {
		rule, err := b.rule(r, rs)
		if err != nil {
			return fmt.Errorf("routine %q rule %d: %w", spec.Name, n, err)
		}
		r.Rules = append(r.Rules, rule)
	}
	return nil
}

func (b *builder) rule(r *otlayout.Routine, rs RuleSpec) (otlayout.Rule, error) {
	switch {
	case rs.Sub != nil:
		return b.substitution(rs.Sub)
	case rs.Pos != nil:
		return b.positioning(rs.Pos)
	case rs.Attach != nil:
		return b.attachment(r, rs.Attach)
	case rs.Chain != nil:
		return b.chaining(rs.Chain)
	}
	return nil, errFixture("rule without variant")
}

func (b *builder) substitution(spec *SubSpec) (otlayout.Rule, error) {
	ctx, err := b.context(spec.Pre, spec.Post)
	if err != nil {
		return nil, err
	}
	input, err := b.glyphSets(spec.Input)
	if err != nil {
		return nil, err
	}
	sub := &otlayout.Substitution{Context: ctx, Input: input}
	if spec.Map != nil {
		sub.Mapping = make(map[ot.GlyphIndex]ot.GlyphIndex, len(spec.Map))
		for from, to := range spec.Map {
			gf, err := b.glyph(from)
			if err != nil {
				return nil, err
			}
			gt, err := b.glyph(to)
			if err != nil {
				return nil, err
			}
			sub.Mapping[gf] = gt
		}
		if len(input) == 0 {
			set := make(ot.GlyphSet, len(sub.Mapping))
			for g := range sub.Mapping {
				set[g] = struct{}{}
			}
			sub.Input = []ot.GlyphSet{set}
		}
		return sub, nil
	}
	if sub.Output, err = b.glyphList(spec.Output); err != nil {
		return nil, err
	}
	return sub, nil
}

func (b *builder) positioning(spec *PosSpec) (otlayout.Rule, error) {
	ctx, err := b.context(spec.Pre, spec.Post)
	if err != nil {
		return nil, err
	}
	input, err := b.glyphSets(spec.Input)
	if err != nil {
		return nil, err
	}
	pos := &otlayout.Positioning{Context: ctx, Input: input}
	for _, v := range spec.Values {
		pos.Values = append(pos.Values, otlayout.ValueRecord{
			XPlacement: v.X,
			YPlacement: v.Y,
			XAdvance:   v.Adv,
			YAdvance:   v.YAdv,
		})
	}
	return pos, nil
}

func (b *builder) attachment(r *otlayout.Routine, spec *AttachSpec) (otlayout.Rule, error) {
	att := &otlayout.Attachment{
		MarkToMark: spec.MarkToMark,
		RTL:        r.Flags&ot.LOOKUP_FLAG_RIGHT_TO_LEFT != 0,
	}
	switch spec.Kind {
	case "mark", "":
		att.Kind = otlayout.AttachMark
	case "cursive":
		att.Kind = otlayout.AttachCursive
	default:
		return nil, errFixture("unknown attachment kind %q", spec.Kind)
	}
	var err error
	if att.Bases, err = b.anchors(spec.Bases); err != nil {
		return nil, err
	}
	if att.Marks, err = b.anchors(spec.Marks); err != nil {
		return nil, err
	}
	return att, nil
}

func (b *builder) anchors(m map[string][2]int32) (map[ot.GlyphIndex]otlayout.Anchor, error) {
	anchors := make(map[ot.GlyphIndex]otlayout.Anchor, len(m))
	for name, xy := range m {
		g, err := b.glyph(name)
		if err != nil {
			return nil, err
		}
		anchors[g] = otlayout.Anchor{X: xy[0], Y: xy[1]}
	}
	return anchors, nil
}

func (b *builder) chaining(spec *ChainSpec) (otlayout.Rule, error) {
	ctx, err := b.context(spec.Pre, spec.Post)
	if err != nil {
		return nil, err
	}
	input, err := b.glyphSets(spec.Input)
	if err != nil {
		return nil, err
	}
	chain := &otlayout.Chaining{Context: ctx, Input: input}
	for _, names := range spec.Apply {
		var list []*otlayout.Routine
		for _, name := range strings.Split(names, ",") {
			name = strings.TrimSpace(name)
			if name == "" || name == "-" {
				continue
			}
			r, ok := b.routines[name]
			if !ok {
				return nil, errFixture("chaining refers to unknown routine %q", name)
			}
			list = append(list, r)
		}
		chain.Routines = append(chain.Routines, list)
	}
	return chain, nil
}

func (b *builder) context(pre, post [][]string) (otlayout.Context, error) {
	var ctx otlayout.Context
	var err error
	if ctx.Pre, err = b.glyphSets(pre); err != nil {
		return ctx, err
	}
	ctx.Post, err = b.glyphSets(post)
	return ctx, err
}

func (b *builder) glyphSets(slots [][]string) ([]ot.GlyphSet, error) {
	if len(slots) == 0 {
		return nil, nil
	}
	sets := make([]ot.GlyphSet, len(slots))
	for i, names := range slots {
		set, err := b.glyphSet(names)
		if err != nil {
			return nil, err
		}
		sets[i] = set
	}
	return sets, nil
}

func (b *builder) glyphSet(names []string) (ot.GlyphSet, error) {
	glyphs, err := b.glyphList(names)
	if err != nil {
		return nil, err
	}
	return ot.NewGlyphSet(glyphs...), nil
}

// glyphList resolves glyph names; "@class" expands to the members of a named class.
func (b *builder) glyphList(names []string) ([]ot.GlyphIndex, error) {
	glyphs := make([]ot.GlyphIndex, 0, len(names))
	for _, name := range names {
		if class, ok := strings.CutPrefix(name, "@"); ok {
			set, found := b.ff.NamedClass(class)
			if !found {
				return nil, errFixture("unknown class @%s", class)
			}
			glyphs = append(glyphs, set.Glyphs()...)
			continue
		}
		g, err := b.glyph(name)
		if err != nil {
			return nil, err
		}
		glyphs = append(glyphs, g)
	}
	return glyphs, nil
}

func (b *builder) glyph(name string) (ot.GlyphIndex, error) {
	g, ok := b.table.GlyphByName(name)
	if !ok {
		return 0, errFixture("unknown glyph %q", name)
	}
	return g, nil
}
