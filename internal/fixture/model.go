// Package fixture loads glyph tables and rule stores from YAML documents.
// It is used by tests and by the command line tools, as a stand-in for
// fonts and rule stores produced by font unparsers.
package fixture

// Document is the YAML model of a fixture: a table of glyphs, the scripts the
// "font" supports, named glyph classes, routines and features.
//
// Glyph sets in rules are written as lists of glyph names, where "@name"
// refers to a named class:
//
//	classes:
//	  marks: [fatha, kasra]
//	routines:
//	  - name: mark2base
//	    rules:
//	      - attach: {kind: mark, bases: {beh: [250, 450]}, marks: {fatha: [-570, 1290]}}
//	features:
//	  mark: [mark2base]
type Document struct {
	Glyphs   []GlyphSpec         `yaml:"glyphs"`
	Scripts  []string            `yaml:"scripts"`
	Classes  map[string][]string `yaml:"classes"`
	Routines []RoutineSpec       `yaml:"routines"`
	Features map[string][]string `yaml:"features"`
}

// GlyphSpec describes one glyph. Glyph ids are assigned in order of appearance,
// starting at 1; glyph 0 is always ".notdef".
type GlyphSpec struct {
	Name      string `yaml:"name"`
	Unicode   string `yaml:"unicode"` // "U+0633" or the character itself
	Advance   int32  `yaml:"advance"`
	Category  string `yaml:"category"` // base, mark, ligature, component
	MarkClass uint16 `yaml:"markclass"`
}

// RoutineSpec describes a routine.
type RoutineSpec struct {
	Name       string     `yaml:"name"`
	Flags      []string   `yaml:"flags"` // rtl, ignore_base, ignore_ligatures, ignore_marks
	Filter     []string   `yaml:"filter"`
	MarkAttach uint16     `yaml:"markattach"`
	Rules      []RuleSpec `yaml:"rules"`
}

// RuleSpec describes a rule. Exactly one of the variants has to be set.
type RuleSpec struct {
	Sub    *SubSpec    `yaml:"sub"`
	Pos    *PosSpec    `yaml:"pos"`
	Attach *AttachSpec `yaml:"attach"`
	Chain  *ChainSpec  `yaml:"chain"`
}

// SubSpec describes a substitution.
type SubSpec struct {
	Pre    [][]string        `yaml:"pre"`
	Input  [][]string        `yaml:"input"`
	Post   [][]string        `yaml:"post"`
	Output []string          `yaml:"output"`
	Map    map[string]string `yaml:"map"`
}

// PosSpec describes a positioning rule.
type PosSpec struct {
	Pre    [][]string  `yaml:"pre"`
	Input  [][]string  `yaml:"input"`
	Post   [][]string  `yaml:"post"`
	Values []ValueSpec `yaml:"values"`
}

// ValueSpec is a value record.
type ValueSpec struct {
	X    int32 `yaml:"x"`
	Y    int32 `yaml:"y"`
	Adv  int32 `yaml:"adv"`
	YAdv int32 `yaml:"yadv"`
}

// AttachSpec describes a mark or cursive attachment. Anchors are [x, y].
type AttachSpec struct {
	Kind       string              `yaml:"kind"` // mark or cursive
	MarkToMark bool                `yaml:"mkmk"`
	Bases      map[string][2]int32 `yaml:"bases"` // exit anchors for cursive attachment
	Marks      map[string][2]int32 `yaml:"marks"` // entry anchors for cursive attachment
}

// ChainSpec describes a chaining rule. Apply names the routine to run at each
// input position, "" or "-" for none.
type ChainSpec struct {
	Pre   [][]string `yaml:"pre"`
	Input [][]string `yaml:"input"`
	Post  [][]string `yaml:"post"`
	Apply []string   `yaml:"apply"`
}
