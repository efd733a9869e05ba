package otlayout

import (
	"maps"
	"strconv"

	"github.com/npillmayer/fontfeatures/ot"
)

// Position is the positioning information of an item. Positions accumulate:
// positioning rules add to them, they never replace them.
type Position struct {
	XAdvance, YAdvance     int32
	XPlacement, YPlacement int32
}

// Add accumulates a value record onto p.
func (p *Position) Add(v ValueRecord) {
	p.XAdvance += v.XAdvance
	p.YAdvance += v.YAdvance
	p.XPlacement += v.XPlacement
	p.YPlacement += v.YPlacement
}

// AttachKind is the kind of attachment of an item to a parent item.
type AttachKind uint8

const (
	AttachNone AttachKind = iota
	AttachCursive
	AttachMark
)

func (k AttachKind) String() string {
	switch k {
	case AttachCursive:
		return "cursive"
	case AttachMark:
		return "mark"
	}
	return "none"
}

// JoinForm is a topographical form of a joining script (Arabic, Syriac, USE).
type JoinForm uint8

const (
	JoinNone JoinForm = iota
	JoinIsol
	JoinInit
	JoinMedi
	JoinFina
	JoinFin2
	JoinFin3
	JoinMed2
)

var joinFormNames = [...]string{"none", "isol", "init", "medi", "fina", "fin2", "fin3", "med2"}

func (f JoinForm) String() string {
	if int(f) < len(joinFormNames) {
		return joinFormNames[f]
	}
	return "none"
}

// Tag returns the feature tag corresponding to a join form, or 0 for JoinNone.
func (f JoinForm) Tag() ot.Tag {
	if f == JoinNone || int(f) >= len(joinFormNames) {
		return 0
	}
	return ot.T(joinFormNames[f])
}

// ItemFlags record what happened to an item during substitution.
type ItemFlags uint8

const (
	Substituted ItemFlags = 1 << iota
	Ligated
	Multiplied
)

// BufferItem is one glyph slot of a buffer.
//
// An item starts out either as a codepoint or as a glyph. Once a glyph has been
// set, the glyph is authoritative. Scratch fields are owned by the complex
// shapers and are ignored by rule matching.
type BufferItem struct {
	Codepoint rune          // originating codepoint, -1 if the item started out as a glyph
	Glyph     ot.GlyphIndex // glyph, valid if HasGlyph
	HasGlyph  bool          // glyph identity is authoritative
	Cluster   int           // index of the first codepoint this item originates from
	Position  Position
	Category  ot.GlyphCategory
	MarkClass uint16 // mark attachment class for marks
	Flags     ItemFlags
	// scratch attributes of complex shapers
	JoinForm       JoinForm
	Syllable       int
	SyllableType   uint8
	ShaperCategory uint8 // Indic or USE category
	ShaperPosition uint8 // Indic positional category
	// attachment chain, resolved after positioning
	AttachTo   int // index of the parent item, -1 if unattached
	AttachKind AttachKind
	// FeatureMasks marks an item as masked out for a feature, if set to true.
	FeatureMasks map[ot.Tag]bool
}

// NewCodepointItem creates an item for an unmapped codepoint.
func NewCodepointItem(r rune, cluster int) *BufferItem {
	return &BufferItem{Codepoint: r, Cluster: cluster, AttachTo: -1}
}

// NewGlyphItem creates an item for a glyph. Category and advance are set as soon
// as the item is put into a buffer with a font.
func NewGlyphItem(g ot.GlyphIndex, cluster int) *BufferItem {
	return &BufferItem{Codepoint: -1, Glyph: g, HasGlyph: true, Cluster: cluster, AttachTo: -1}
}

// MapToGlyph resolves the glyph of an item from its codepoint. It is a no-op
// for items which already carry a glyph. Returns false if the font does
// not map the codepoint; the item then carries .notdef.
func (item *BufferItem) MapToGlyph(font FontAccess) bool {
	if item.HasGlyph {
		return true
	}
	g, ok := font.CodepointToGlyph(item.Codepoint)
	if !ok {
		g = ot.NOTDEF
	}
	item.SetGlyph(font, g)
	return ok
}

// SetGlyph changes the identity of an item to glyph g. The category is
// recomputed and the advance is reset from the font.
func (item *BufferItem) SetGlyph(font FontAccess, g ot.GlyphIndex) {
	item.Glyph = g
	item.HasGlyph = true
	item.recategorize(font)
	if font != nil {
		item.Position = Position{XAdvance: font.GlyphAdvance(g)}
	}
}

func (item *BufferItem) recategorize(font FontAccess) {
	item.Category, item.MarkClass = ot.UnknownGlyph, 0
	if font != nil && item.HasGlyph {
		item.Category, item.MarkClass = font.GlyphCategory(item.Glyph)
	}
	if item.Category == ot.UnknownGlyph && item.Codepoint >= 0 {
		item.Category = ot.CategoryForRune(item.Codepoint)
	}
}

// Masked reports whether an item is masked out for feature tag.
func (item *BufferItem) Masked(tag ot.Tag) bool {
	return item.FeatureMasks != nil && item.FeatureMasks[tag]
}

// SetFeatureMask sets the per-feature override flag for tag.
func (item *BufferItem) SetFeatureMask(tag ot.Tag, masked bool) {
	if item.FeatureMasks == nil {
		item.FeatureMasks = make(map[ot.Tag]bool)
	}
	item.FeatureMasks[tag] = masked
}

// Clone returns a deep copy of an item.
func (item *BufferItem) Clone() *BufferItem {
	c := *item
	if item.FeatureMasks != nil {
		c.FeatureMasks = maps.Clone(item.FeatureMasks)
	}
	return &c
}

// MergeClusters puts items [start, end) into a common cluster, the lowest one
// of them.
func MergeClusters(items []*BufferItem, start, end int) {
	if end-start < 2 {
		return
	}
	cluster := items[start].Cluster
	for _, item := range items[start+1 : end] {
		cluster = min(cluster, item.Cluster)
	}
	for _, item := range items[start:end] {
		item.Cluster = cluster
	}
}

// Attribute returns the value of a named scratch attribute, for trace output.
// Known names are "join", "syllable", "syllable_type", "category", "position",
// "attach" and "cluster".
func (item *BufferItem) Attribute(name string) (string, bool) {
	switch name {
	case "join":
		return item.JoinForm.String(), true
	case "syllable":
		return strconv.Itoa(item.Syllable), true
	case "syllable_type":
		return strconv.Itoa(int(item.SyllableType)), true
	case "category":
		return strconv.Itoa(int(item.ShaperCategory)), true
	case "position":
		return strconv.Itoa(int(item.ShaperPosition)), true
	case "attach":
		if item.AttachTo < 0 {
			return "", false
		}
		return item.AttachKind.String() + ":" + strconv.Itoa(item.AttachTo), true
	case "cluster":
		return strconv.Itoa(item.Cluster), true
	}
	return "", false
}
