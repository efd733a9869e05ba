package otarabic

import (
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"golang.org/x/text/unicode/norm"
)

// Shaper is the shaping engine for joining scripts.
type Shaper struct{}

var _ otshape.ShapingEngine = Shaper{}
var _ otshape.ShapingEnginePolicy = Shaper{}
var _ otshape.ShapingEnginePlanHooks = Shaper{}
var _ otshape.ShapingEngineMaskHook = Shaper{}

// New returns the Arabic shaping engine.
func New() otshape.ShapingEngine {
	return Shaper{}
}

func (Shaper) Name() string {
	return "arabic"
}

func (Shaper) New() otshape.ShapingEngine {
	return Shaper{}
}

// joiningScripts are shaped by this engine if the font explicitly supports
// them. Otherwise the core engine is the better choice.
var joiningScripts = map[language.Script]bool{
	language.Syriac:          true,
	language.Nko:             true,
	language.Mongolian:       true,
	language.Phags_Pa:        true,
	language.Mandaic:         true,
	language.Manichaean:      true,
	language.Psalter_Pahlavi: true,
	language.Adlam:           true,
	language.Hanifi_Rohingya: true,
	language.Sogdian:         true,
	language.Chorasmian:      true,
}

// IsJoiningScript reports whether the letters of a script join like Arabic.
func IsJoiningScript(script language.Script) bool {
	return script == language.Arabic || joiningScripts[script]
}

// Match is certain for Arabic. Other joining scripts are matched with high
// confidence if the font has a script table for them.
func (Shaper) Match(ctx otshape.SelectionContext) otshape.ShaperConfidence {
	if ctx.Script == language.Arabic {
		return otshape.ShaperConfidenceCertain
	}
	if joiningScripts[ctx.Script] && ctx.ScriptTag != 0 && ctx.ScriptTag != ot.DFLT {
		return otshape.ShaperConfidenceHigh
	}
	return otshape.ShaperConfidenceNone
}

func (Shaper) ZeroMarks() otshape.ZeroMarksMode {
	return otshape.ZeroMarksLate
}

var (
	tagStch = ot.T("stch")
	tagCcmp = ot.T("ccmp")
	tagLocl = ot.T("locl")
	tagRlig = ot.T("rlig")
	tagCalt = ot.T("calt")
	tagRclt = ot.T("rclt")
	tagLiga = ot.T("liga")
	tagClig = ot.T("clig")
	tagMset = ot.T("mset")
)

// formFeatures in the order they are applied. Fonts rely on this order, e.g.
// for contextual rules of medi looking at fina glyphs.
var formFeatures = []otlayout.JoinForm{
	otlayout.JoinIsol, otlayout.JoinFina, otlayout.JoinFin2, otlayout.JoinFin3,
	otlayout.JoinMedi, otlayout.JoinMed2, otlayout.JoinInit,
}

// CollectFeatures schedules the Arabic features. Every form feature gets a
// stage of its own.
func (Shaper) CollectFeatures(plan otshape.FeaturePlanner, ctx *otshape.ShapeContext) error {
	plan.AddFeatures(tagStch)
	plan.AddPause(nil)
	plan.AddFeatures(tagCcmp, tagLocl)
	plan.AddPause(nil)
	for _, form := range formFeatures {
		plan.AddFeatures(form.Tag())
		plan.AddPause(nil)
	}
	plan.AddFeatures(tagRlig)
	if ctx != nil && ctx.Selection.Script == language.Arabic {
		plan.AddPause(fallbackForms)
	}
	plan.AddFeatures(tagCalt)
	if !plan.HasFeature(tagRclt) {
		plan.AddPause(nil)
		plan.AddFeatures(tagRclt)
	}
	plan.AddFeatures(tagLiga, tagClig, tagMset)
	return nil
}

func (Shaper) OverrideFeatures(otshape.FeaturePlanner) {}

// SetupMasks resolves the joining forms and masks every form feature out for
// the items not in that form. Modifier combining marks are moved in front of
// other marks beforehand.
func (Shaper) SetupMasks(ctx *otshape.ShapeContext) error {
	buf := ctx.Buffer
	reorderModifierMarks(buf)
	AssignJoiningForms(buf)
	var present []ot.Tag
	for _, form := range formFeatures {
		if ctx.Features.HasFeature(form.Tag()) {
			present = append(present, form.Tag())
		}
	}
	for _, item := range buf.Items {
		for _, tag := range present {
			item.SetFeatureMask(tag, tag != item.JoinForm.Tag())
		}
	}
	buf.ResetMask()
	return nil
}

// modifierMarks are the Arabic combining marks which modify the shape of
// their base and therefore have to come first, regardless of their combining
// class.
var modifierMarks = map[rune]bool{
	0x0654: true, // HAMZA ABOVE
	0x0655: true, // HAMZA BELOW
	0x0658: true, // MARK NOON GHUNNA
	0x06DC: true, // SMALL HIGH SEEN
	0x06E3: true, // SMALL LOW SEEN
	0x06E7: true, // SMALL HIGH YEH
	0x06E8: true, // SMALL HIGH NOON
	0x08CA: true, // SMALL HIGH FARSI YEH
	0x08CB: true, // SMALL HIGH YEH BARREE WITH TWO DOTS BELOW
	0x08CD: true, // SMALL HIGH ZAH
	0x08CE: true, // LARGE ROUND DOT ABOVE
	0x08CF: true, // LARGE ROUND DOT BELOW
	0x08D3: true, // SMALL LOW WAW
	0x08F3: true, // SMALL HIGH WAW
}

func combiningClass(r rune) uint8 {
	if r < 0 {
		return 0
	}
	return norm.NFD.PropertiesString(string(r)).CCC()
}

// reorderModifierMarks moves modifier marks of class 220 and 230 to the
// front of each sequence of combining marks. The moved items and the marks
// they are moved over end up in a common cluster.
func reorderModifierMarks(buf *otlayout.Buffer) {
	for i := 0; i < len(buf.Items); {
		if combiningClass(buf.Items[i].Codepoint) == 0 {
			i++
			continue
		}
		end := i
		for end < len(buf.Items) && combiningClass(buf.Items[end].Codepoint) != 0 {
			end++
		}
		reorderMarkSequence(buf.Items, i, end)
		i = end
	}
}

func reorderMarkSequence(items []*otlayout.BufferItem, start, end int) {
	i := start
	for _, cc := range []uint8{220, 230} {
		for i < end && combiningClass(items[i].Codepoint) < cc {
			i++
		}
		if i == end {
			return
		}
		if combiningClass(items[i].Codepoint) > cc {
			continue
		}
		j := i
		for j < end && combiningClass(items[j].Codepoint) == cc && modifierMarks[items[j].Codepoint] {
			j++
		}
		if i == j {
			continue
		}
		cluster := items[start].Cluster
		for _, item := range items[start:j] {
			cluster = min(cluster, item.Cluster)
		}
		moved := append([]*otlayout.BufferItem(nil), items[i:j]...)
		copy(items[start+len(moved):j], items[start:i])
		copy(items[start:], moved)
		for _, item := range items[start:j] {
			item.Cluster = cluster
		}
		tracer().Debugf("moved %d modifier marks of class %d to position %d", len(moved), cc, start)
		start += len(moved)
		i = j
	}
}
