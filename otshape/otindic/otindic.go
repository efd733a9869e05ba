package otindic

import (
	"slices"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"golang.org/x/text/unicode/norm"
)

// Shaper is the Indic shaping engine. An instance carries the state of one
// shaping call; the engine passed to otshape.NewShaper is a prototype.
type Shaper struct {
	configs map[language.Script]ScriptConfig
	cfg     *ScriptConfig
	// glyph of the virama, if the font has one
	virama    ot.GlyphIndex
	hasVirama bool
}

var _ otshape.ShapingEngine = (*Shaper)(nil)
var _ otshape.ShapingEnginePolicy = (*Shaper)(nil)
var _ otshape.ShapingEnginePlanHooks = (*Shaper)(nil)
var _ otshape.ShapingEngineMaskHook = (*Shaper)(nil)

// New returns the Indic shaping engine with the default script configurations.
func New() otshape.ShapingEngine {
	return NewWithConfigs(DefaultConfigs()...)
}

// NewWithConfigs returns an Indic shaping engine for a set of script
// configurations. Indic scripts without a configuration are rejected when
// shaping.
func NewWithConfigs(configs ...ScriptConfig) otshape.ShapingEngine {
	m := make(map[language.Script]ScriptConfig, len(configs))
	for _, c := range configs {
		m[c.Script] = c
	}
	return &Shaper{configs: m}
}

func (s *Shaper) Name() string {
	return "indic"
}

func (s *Shaper) New() otshape.ShapingEngine {
	return &Shaper{configs: s.configs}
}

// Match is certain for Indic scripts, unless the font's script tag asks for
// the Universal Shaping Engine (e.g., "dev3").
func (s *Shaper) Match(ctx otshape.SelectionContext) otshape.ShaperConfidence {
	if !indicScripts[ctx.Script] {
		return otshape.ShaperConfidenceNone
	}
	if tag := ctx.ScriptTag.String(); len(tag) == 4 && tag[3] == '3' {
		return otshape.ShaperConfidenceMedium
	}
	return otshape.ShaperConfidenceCertain
}

func (s *Shaper) ZeroMarks() otshape.ZeroMarksMode {
	return otshape.ZeroMarksNone
}

var (
	tagLocl = ot.T("locl")
	tagCcmp = ot.T("ccmp")
	tagRphf = ot.T("rphf")
	tagHalf = ot.T("half")
	tagBlwf = ot.T("blwf")
	tagAbvf = ot.T("abvf")
	tagPstf = ot.T("pstf")
	tagPref = ot.T("pref")
	tagVatu = ot.T("vatu")
	tagInit = ot.T("init")
)

// basicFeatures are applied one stage each, in this order.
var basicFeatures = []ot.Tag{
	ot.T("nukt"), ot.T("akhn"), tagRphf, ot.T("rkrf"), tagPref, tagBlwf,
	tagAbvf, tagHalf, tagPstf, tagVatu, ot.T("cjct"),
}

var otherFeatures = []ot.Tag{
	tagInit, ot.T("pres"), ot.T("abvs"), ot.T("blws"), ot.T("psts"), ot.T("haln"),
}

// maskedFeatures apply only to the items reordering enables them for.
var maskedFeatures = []ot.Tag{tagRphf, tagHalf, tagBlwf, tagAbvf, tagPstf, tagPref, tagInit}

func (s *Shaper) config(script language.Script) (*ScriptConfig, error) {
	if s.cfg != nil && s.cfg.Script == script {
		return s.cfg, nil
	}
	cfg, ok := s.configs[script]
	if !ok {
		return nil, errIndic(ErrMissingScriptConfig, script.String())
	}
	s.cfg = &cfg
	return s.cfg, nil
}

// CollectFeatures schedules syllable setup, initial reordering, the basic
// features with final reordering after them, and the presentation features.
// All of them are restricted to syllables.
func (s *Shaper) CollectFeatures(plan otshape.FeaturePlanner, ctx *otshape.ShapeContext) error {
	if _, err := s.config(ctx.Selection.Script); err != nil {
		tracer().Errorf("%v", err)
		return err
	}
	plan.AddPause(s.setupSyllables)
	plan.AddFeature(tagLocl, otshape.FeaturePerSyllable)
	plan.AddFeature(tagCcmp, otshape.FeaturePerSyllable)
	plan.AddPause(s.initialReordering)
	for i, tag := range basicFeatures {
		plan.AddFeature(tag, otshape.FeaturePerSyllable)
		if i == len(basicFeatures)-1 {
			plan.AddPause(s.finalReordering)
		} else {
			plan.AddPause(nil)
		}
	}
	for _, tag := range otherFeatures {
		plan.AddFeature(tag, otshape.FeaturePerSyllable)
	}
	return nil
}

func (s *Shaper) OverrideFeatures(otshape.FeaturePlanner) {}

// SetupMasks decomposes split matras, categorizes every item and masks out
// the features which reordering enables per item.
func (s *Shaper) SetupMasks(ctx *otshape.ShapeContext) error {
	cfg, err := s.config(ctx.Selection.Script)
	if err != nil {
		return err
	}
	buf := ctx.Buffer
	decomposeSplitMatras(buf, ctx.Font)
	var masked []ot.Tag
	for _, tag := range maskedFeatures {
		if ctx.Features.HasFeature(tag) {
			masked = append(masked, tag)
		}
	}
	for _, item := range buf.Items {
		cat, pos := CatX, PosEnd
		if item.Codepoint >= 0 {
			cat, pos = Categorize(item.Codepoint)
		}
		item.ShaperCategory, item.ShaperPosition = uint8(cat), uint8(pos)
		for _, tag := range masked {
			item.SetFeatureMask(tag, true)
		}
	}
	s.virama, s.hasVirama = ctx.Font.CodepointToGlyph(cfg.Virama)
	buf.ResetMask()
	return nil
}

// decomposeSplitMatras replaces matras with parts on both sides of the base by
// their canonical decomposition, if the font has glyphs for all parts.
func decomposeSplitMatras(buf *otlayout.Buffer, font otlayout.FontAccess) {
	for i := 0; i < len(buf.Items); i++ {
		item := buf.Items[i]
		if item.Codepoint < 0 || !isSplitMatra(item.Codepoint) {
			continue
		}
		parts := []rune(norm.NFD.String(string(item.Codepoint)))
		if len(parts) < 2 {
			continue
		}
		glyphs := make([]ot.GlyphIndex, len(parts))
		ok := true
		for k, p := range parts {
			if glyphs[k], ok = font.CodepointToGlyph(p); !ok {
				break
			}
		}
		if !ok {
			continue
		}
		items := make([]*otlayout.BufferItem, len(parts))
		for k, p := range parts {
			items[k] = item.Clone()
			items[k].Codepoint = p
			items[k].SetGlyph(font, glyphs[k])
		}
		buf.Items = slices.Replace(buf.Items, i, i+1, items...)
		tracer().Debugf("decomposed split matra U+%04X", item.Codepoint)
		i += len(parts) - 1
	}
}

func (s *Shaper) setupSyllables(ctx *otshape.ShapeContext) error {
	err := indicMachine.Syllabify(ctx.Buffer, func(item *otlayout.BufferItem) byte {
		return Category(item.ShaperCategory).Token()
	})
	if err != nil {
		tracer().Errorf("syllables: %v", err)
		return errIndic(err, ctx.Selection.Script.String())
	}
	return nil
}
