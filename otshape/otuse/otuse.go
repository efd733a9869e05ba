package otuse

import (
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"github.com/npillmayer/fontfeatures/otshape/otarabic"
	"github.com/npillmayer/fontfeatures/otshape/otindic"
)

// Shaper is the Universal Shaping Engine.
type Shaper struct{}

var _ otshape.ShapingEngine = Shaper{}
var _ otshape.ShapingEnginePolicy = Shaper{}
var _ otshape.ShapingEnginePlanHooks = Shaper{}
var _ otshape.ShapingEngineMaskHook = Shaper{}

// New returns the Universal Shaping Engine.
func New() otshape.ShapingEngine {
	return Shaper{}
}

func (Shaper) Name() string {
	return "use"
}

func (Shaper) New() otshape.ShapingEngine {
	return Shaper{}
}

// useScripts are shaped by USE.
var useScripts = map[language.Script]bool{
	language.Balinese:   true,
	language.Batak:      true,
	language.Brahmi:     true,
	language.Buginese:   true,
	language.Chakma:     true,
	language.Cham:       true,
	language.Grantha:    true,
	language.Javanese:   true,
	language.Kaithi:     true,
	language.Khojki:     true,
	language.Lepcha:     true,
	language.Limbu:      true,
	language.Modi:       true,
	language.Newa:       true,
	language.Rejang:     true,
	language.Saurashtra: true,
	language.Sharada:    true,
	language.Siddham:    true,
	language.Sundanese:  true,
	language.Tai_Tham:   true,
	language.Takri:      true,
	language.Tibetan:    true,
	language.Tirhuta:    true,
}

// Match is certain if the font asks for USE with a script tag like "dev3",
// and high for the scripts USE is made for.
func (Shaper) Match(ctx otshape.SelectionContext) otshape.ShaperConfidence {
	if tag := ctx.ScriptTag.String(); len(tag) == 4 && tag[3] == '3' {
		return otshape.ShaperConfidenceCertain
	}
	if useScripts[ctx.Script] {
		return otshape.ShaperConfidenceHigh
	}
	return otshape.ShaperConfidenceNone
}

// ZeroMarks zeroes mark advances before positioning.
func (Shaper) ZeroMarks() otshape.ZeroMarksMode {
	return otshape.ZeroMarksEarly
}

var (
	tagRphf = ot.T("rphf")
	tagPref = ot.T("pref")
)

var preFeatures = []ot.Tag{ot.T("locl"), ot.T("ccmp"), ot.T("nukt"), ot.T("akhn")}

var basicFeatures = []ot.Tag{
	ot.T("rkrf"), ot.T("abvf"), ot.T("blwf"), ot.T("half"), ot.T("pstf"),
	ot.T("vatu"), ot.T("cjct"),
}

var topographicalForms = []otlayout.JoinForm{
	otlayout.JoinIsol, otlayout.JoinInit, otlayout.JoinMedi, otlayout.JoinFina,
}

var otherFeatures = []ot.Tag{ot.T("abvs"), ot.T("blws"), ot.T("haln"), ot.T("pres"), ot.T("psts")}

// CollectFeatures schedules the USE features. Reph and pre-base forms are
// stages of their own, recorded after application. Reordering follows the
// basic features.
func (Shaper) CollectFeatures(plan otshape.FeaturePlanner, ctx *otshape.ShapeContext) error {
	plan.AddPause(setupSyllables)
	for _, tag := range preFeatures {
		plan.AddFeature(tag, otshape.FeaturePerSyllable)
	}
	plan.AddPause(clearSubstitutionFlags)
	plan.AddFeature(tagRphf, otshape.FeaturePerSyllable)
	plan.AddPause(recordRphf)
	plan.AddFeature(tagPref, otshape.FeaturePerSyllable)
	plan.AddPause(recordPref)
	for _, tag := range basicFeatures {
		plan.AddFeature(tag, otshape.FeaturePerSyllable)
	}
	plan.AddPause(reorder)
	for _, form := range topographicalForms {
		plan.AddFeatures(form.Tag())
	}
	for _, tag := range otherFeatures {
		plan.AddFeature(tag, otshape.FeaturePerSyllable)
	}
	return nil
}

func (Shaper) OverrideFeatures(otshape.FeaturePlanner) {}

// SetupMasks categorizes every item. For joining scripts the topographical
// forms follow the joining rules of Arabic; other scripts get their forms
// per cluster, once clusters are known.
func (Shaper) SetupMasks(ctx *otshape.ShapeContext) error {
	buf := ctx.Buffer
	for _, item := range buf.Items {
		item.ShaperCategory = uint8(Categorize(item.Codepoint))
	}
	if otarabic.IsJoiningScript(ctx.Selection.Script) {
		otarabic.AssignJoiningForms(buf)
		maskTopographical(ctx)
	}
	buf.ResetMask()
	return nil
}

func setupSyllables(ctx *otshape.ShapeContext) error {
	buf := ctx.Buffer
	err := useMachine.Syllabify(buf, func(item *otlayout.BufferItem) byte {
		return category(item).Token()
	})
	if err != nil {
		tracer().Errorf("clusters: %v", err)
		return errUSE(err, ctx.Selection.Script.String())
	}
	setupRphfMask(ctx)
	if !otarabic.IsJoiningScript(ctx.Selection.Script) {
		assignClusterForms(buf)
		maskTopographical(ctx)
	}
	buf.ResetMask()
	return nil
}

// setupRphfMask restricts rphf to the start of clusters: an encoded repha,
// or the first three items, which may hold Ra,H or Ra,H,ZWJ.
func setupRphfMask(ctx *otshape.ShapeContext) {
	if !ctx.Features.HasFeature(tagRphf) {
		return
	}
	items := ctx.Buffer.Items
	for _, span := range otindic.Syllables(ctx.Buffer) {
		limit := min(3, span.End-span.Start)
		if category(items[span.Start]) == CatR {
			limit = 1
		}
		for i := span.Start; i < span.End; i++ {
			items[i].SetFeatureMask(tagRphf, i >= span.Start+limit)
		}
	}
}

// assignClusterForms joins clusters: a cluster following a joining cluster
// is final, the one before it becomes initial or medial.
func assignClusterForms(buf *otlayout.Buffer) {
	items := buf.Items
	lastStart, lastEnd := 0, 0
	last := otlayout.JoinNone
	for _, span := range otindic.Syllables(buf) {
		if span.Type == NonCluster {
			last = otlayout.JoinNone
			setForm(items[span.Start:span.End], otlayout.JoinNone)
			continue
		}
		join := last == otlayout.JoinFina || last == otlayout.JoinIsol
		if join {
			if last == otlayout.JoinFina {
				setForm(items[lastStart:lastEnd], otlayout.JoinMedi)
			} else {
				setForm(items[lastStart:lastEnd], otlayout.JoinInit)
			}
			last = otlayout.JoinFina
		} else {
			last = otlayout.JoinIsol
		}
		setForm(items[span.Start:span.End], last)
		lastStart, lastEnd = span.Start, span.End
	}
}

func setForm(items []*otlayout.BufferItem, form otlayout.JoinForm) {
	for _, item := range items {
		item.JoinForm = form
	}
}

// maskTopographical masks out the topographical features for the items not
// in their form.
func maskTopographical(ctx *otshape.ShapeContext) {
	var present []ot.Tag
	for _, form := range topographicalForms {
		if ctx.Features.HasFeature(form.Tag()) {
			present = append(present, form.Tag())
		}
	}
	if len(present) == 0 {
		return
	}
	for _, item := range ctx.Buffer.Items {
		for _, tag := range present {
			item.SetFeatureMask(tag, tag != item.JoinForm.Tag())
		}
	}
}

func clearSubstitutionFlags(ctx *otshape.ShapeContext) error {
	for _, item := range ctx.Buffer.Items {
		item.Flags &^= otlayout.Substituted
	}
	return nil
}

// recordRphf re-categorizes the first item of a cluster substituted by rphf
// as a repha.
func recordRphf(ctx *otshape.ShapeContext) error {
	items := ctx.Buffer.Items
	if ctx.Features.HasFeature(tagRphf) {
		for _, span := range otindic.Syllables(ctx.Buffer) {
			for i := span.Start; i < span.End && !items[i].Masked(tagRphf); i++ {
				if items[i].Flags&otlayout.Substituted != 0 {
					items[i].ShaperCategory = uint8(CatR)
					tracer().Debugf("recorded repha at %d", i)
					break
				}
			}
		}
	}
	return clearSubstitutionFlags(ctx)
}

// recordPref re-categorizes the first item of a cluster substituted by pref
// as a pre-base vowel, which moves it to the front of its cluster.
func recordPref(ctx *otshape.ShapeContext) error {
	items := ctx.Buffer.Items
	for _, span := range otindic.Syllables(ctx.Buffer) {
		for i := span.Start; i < span.End; i++ {
			if items[i].Flags&otlayout.Substituted != 0 {
				items[i].ShaperCategory = uint8(CatVPre)
				tracer().Debugf("recorded pre-base form at %d", i)
				break
			}
		}
	}
	return nil
}
