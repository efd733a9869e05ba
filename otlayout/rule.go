package otlayout

import (
	"github.com/npillmayer/fontfeatures/ot"
)

// Stage tells whether a rule substitutes glyphs or positions them.
type Stage uint8

const (
	StageSub Stage = iota
	StagePos
)

func (s Stage) String() string {
	if s == StagePos {
		return "pos"
	}
	return "sub"
}

// Rule is a layout rule. Rules come in four variants: *Substitution,
// *Positioning, *Attachment and *Chaining.
type Rule interface {
	// Stage is the pipeline stage the rule is applied in.
	Stage() Stage
	// Coverage returns the glyph sets the input items must match, slot by slot.
	Coverage() []ot.GlyphSet
	// Precontext returns the glyph sets items before the input must match.
	Precontext() []ot.GlyphSet
	// Postcontext returns the glyph sets items after the input must match.
	Postcontext() []ot.GlyphSet
	// WouldApply reports whether the rule matches at masked position i.
	WouldApply(buf *Buffer, i int) bool
	// Apply applies the rule at masked position i. It returns by how many
	// positions, in addition to the usual increment of one, routine execution
	// has to advance to skip the rule's output.
	Apply(buf *Buffer, i int) int
}

// Context holds the optional pre- and postcontext of a rule.
type Context struct {
	Pre  []ot.GlyphSet // precontext, in logical order
	Post []ot.GlyphSet // postcontext, in logical order
}

func (c Context) Precontext() []ot.GlyphSet  { return c.Pre }
func (c Context) Postcontext() []ot.GlyphSet { return c.Post }

// --- Substitution ----------------------------------------------------------

// Substitution replaces the glyphs matched by Input with Output.
// If Mapping is set, the rule is a single substitution from one class of glyphs
// to another (Input must have one slot), and Output is ignored.
//
// Depending on the counts of input and output glyphs, a substitution is a
// single (1→1), multiple (1→n), ligature (n→1) or deletion (n→0) substitution.
type Substitution struct {
	Context
	Input   []ot.GlyphSet
	Output  []ot.GlyphIndex
	Mapping map[ot.GlyphIndex]ot.GlyphIndex
}

func (s *Substitution) Stage() Stage            { return StageSub }
func (s *Substitution) Coverage() []ot.GlyphSet { return s.Input }

func (s *Substitution) WouldApply(buf *Buffer, i int) bool {
	if !matchSequence(buf, i, s.Input, s.Context) {
		return false
	}
	if s.Mapping != nil {
		_, ok := s.Mapping[buf.At(i).Glyph]
		return ok
	}
	return true
}

func (s *Substitution) Apply(buf *Buffer, i int) int {
	if s.Mapping != nil {
		item := buf.At(i)
		item.SetGlyph(buf.Font, s.Mapping[item.Glyph])
		item.Flags |= Substituted
		buf.updateMask()
		return 0
	}
	n, m := len(s.Input), len(s.Output)
	if n == m {
		for j, g := range s.Output {
			item := buf.At(i + j)
			item.SetGlyph(buf.Font, g)
			item.Flags |= Substituted
		}
		buf.updateMask()
		return m - 1
	}
	first := buf.At(i)
	cluster := first.Cluster
	for j := 1; j < n; j++ {
		cluster = min(cluster, buf.At(i+j).Cluster)
	}
	out := make([]*BufferItem, m)
	for j, g := range s.Output {
		item := first.Clone()
		item.SetGlyph(buf.Font, g)
		item.Cluster = cluster
		item.Flags |= Substituted
		if n > 1 {
			item.Flags |= Ligated
		}
		if m > 1 {
			item.Flags |= Multiplied
		}
		out[j] = item
	}
	buf.Replace(i, n, out...)
	return m - 1
}

// --- Positioning -----------------------------------------------------------

// ValueRecord holds positioning adjustments.
type ValueRecord struct {
	XPlacement, YPlacement int32
	XAdvance, YAdvance     int32
}

// IsZero is true for a value record without any adjustment.
func (v ValueRecord) IsZero() bool {
	return v == ValueRecord{}
}

// Positioning adds one value record to each input item.
type Positioning struct {
	Context
	Input  []ot.GlyphSet
	Values []ValueRecord // parallel to Input
}

func (p *Positioning) Stage() Stage            { return StagePos }
func (p *Positioning) Coverage() []ot.GlyphSet { return p.Input }

func (p *Positioning) WouldApply(buf *Buffer, i int) bool {
	return matchSequence(buf, i, p.Input, p.Context)
}

func (p *Positioning) Apply(buf *Buffer, i int) int {
	for j, v := range p.Values {
		if j < len(p.Input) {
			buf.At(i + j).Position.Add(v)
		}
	}
	return 0
}

// --- Attachment ------------------------------------------------------------

// Anchor is an attachment point in font units.
type Anchor struct {
	X, Y int32
}

// Attachment attaches marks to bases (mark-to-base, mark-to-ligature),
// marks to marks, or glyphs cursively to their predecessor.
//
// For mark attachment, Bases holds the anchors of the glyphs marks attach to,
// and Marks holds the anchors of the marks. For cursive attachment, Bases
// holds exit anchors and Marks holds entry anchors.
type Attachment struct {
	Kind       AttachKind // AttachMark or AttachCursive
	MarkToMark bool       // marks attach to a preceding mark instead of a base
	Bases      map[ot.GlyphIndex]Anchor
	Marks      map[ot.GlyphIndex]Anchor
	RTL        bool // cursive only: the routine has flag RIGHT_TO_LEFT
}

func (a *Attachment) Stage() Stage               { return StagePos }
func (a *Attachment) Precontext() []ot.GlyphSet  { return nil }
func (a *Attachment) Postcontext() []ot.GlyphSet { return nil }

// Coverage returns the set of glyphs attaching (marks or cursive entries).
func (a *Attachment) Coverage() []ot.GlyphSet {
	set := make(ot.GlyphSet, len(a.Marks))
	for g := range a.Marks {
		set[g] = struct{}{}
	}
	return []ot.GlyphSet{set}
}

func (a *Attachment) WouldApply(buf *Buffer, i int) bool {
	_, ok := a.parent(buf, i)
	return ok
}

// parent finds the masked position of the item an item at position i attaches to.
func (a *Attachment) parent(buf *Buffer, i int) (int, bool) {
	if i >= buf.Len() {
		return -1, false
	}
	if _, ok := a.Marks[buf.At(i).Glyph]; !ok {
		return -1, false
	}
	if a.Kind == AttachCursive {
		if i == 0 {
			return -1, false
		}
		_, ok := a.Bases[buf.At(i-1).Glyph]
		return i - 1, ok
	}
	j := findAttachmentBase(buf, i, a.MarkToMark)
	if j < 0 {
		return -1, false
	}
	_, ok := a.Bases[buf.At(j).Glyph]
	return j, ok
}

func (a *Attachment) Apply(buf *Buffer, i int) int {
	j, ok := a.parent(buf, i)
	assert(ok, "attachment applied without a parent")
	child := buf.At(i)
	parent := buf.At(j)
	if a.Kind == AttachCursive {
		a.applyCursive(buf, j, i)
		return 0
	}
	base := a.Bases[parent.Glyph]
	mark := a.Marks[child.Glyph]
	child.Position.XPlacement += base.X - mark.X
	child.Position.YPlacement += base.Y - mark.Y
	child.AttachTo = buf.RawIndex(j)
	child.AttachKind = AttachMark
	return 0
}

// applyCursive connects the exit anchor of item prev to the entry anchor of
// item cur, both masked positions.
func (a *Attachment) applyCursive(buf *Buffer, prev, cur int) {
	p, c := buf.At(prev), buf.At(cur)
	exit, entry := a.Bases[p.Glyph], a.Marks[c.Glyph]
	if buf.IsRTL() {
		d := exit.X + p.Position.XPlacement
		p.Position.XAdvance -= d
		p.Position.XPlacement -= d
		c.Position.XAdvance = entry.X + c.Position.XPlacement
	} else {
		p.Position.XAdvance = exit.X + p.Position.XPlacement
		d := entry.X + c.Position.XPlacement
		c.Position.XAdvance -= d
		c.Position.XPlacement -= d
	}
	child, parent := c, buf.RawIndex(prev)
	dy := exit.Y - entry.Y
	if a.RTL {
		child, parent = p, buf.RawIndex(cur)
		dy = -dy
	}
	child.AttachTo = parent
	child.AttachKind = AttachCursive
	if !buf.Vertical {
		child.Position.YPlacement = dy
	}
}

// --- Chaining --------------------------------------------------------------

// Chaining applies nested routines to the items matched by Input, one routine
// list per input slot. A nil entry leaves its slot alone.
type Chaining struct {
	Context
	Input    []ot.GlyphSet
	Routines [][]*Routine // parallel to Input
}

// Stage is the stage of the nested routines' rules. Chaining rules nesting
// routines of both stages are rejected by Features.Validate.
func (c *Chaining) Stage() Stage {
	for _, list := range c.Routines {
		for _, r := range list {
			for _, rule := range r.Rules {
				return rule.Stage()
			}
		}
	}
	return StageSub
}

func (c *Chaining) Coverage() []ot.GlyphSet { return c.Input }

func (c *Chaining) WouldApply(buf *Buffer, i int) bool {
	return matchSequence(buf, i, c.Input, c.Context)
}

// Apply applies the nested routines slot by slot. Each nested routine runs
// under its own mask and the outer mask is restored afterwards. Length changes
// caused by a nested routine shift the following slots. If nested routines
// delete more items than the input spans, iteration resumes at i.
func (c *Chaining) Apply(buf *Buffer, i int) int {
	outer := buf.maskState()
	before := buf.Len()
	shift := 0
	for slot, list := range c.Routines {
		pos := i + slot + shift
		if len(list) == 0 || pos < 0 || pos >= buf.Len() {
			continue
		}
		raw := buf.RawIndex(pos)
		for _, r := range list {
			r.applyAt(buf, raw, outer.feature)
		}
		buf.restoreMask(outer)
		shift = buf.Len() - before
	}
	buf.restoreMask(outer)
	// nested deletions may reach beyond the input; never step back before i
	return max(len(c.Input)+(buf.Len()-before)-1, -1)
}
