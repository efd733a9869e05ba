package otshape

import (
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	xlang "golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// Params collects the shaping parameters shared by all shaping calls of a
// Shaper.
//
// Direction is not a parameter: it is a property of the buffer and is derived
// from the script if the buffer does not carry it already.
type Params struct {
	Features     *otlayout.Features  // rule store, mandatory
	Font         otlayout.FontAccess // font, mandatory
	Script       language.Script     // script of buffers without a script; 0: guess from codepoints
	Language     xlang.Tag           // language of buffers without a language
	Vertical     bool                // select features for vertical text
	UserFeatures []FeatureSetting    // applied last, in order
	Ignorables   IgnorablesMode      // treatment of default ignorable codepoints
}

// IgnorablesMode tells what happens to default ignorable codepoints (ZWJ,
// variation selectors, etc.) after shaping.
type IgnorablesMode uint8

const (
	// HideIgnorables replaces them by a zero-width space glyph, or removes them
	// if the font has no space glyph.
	HideIgnorables IgnorablesMode = iota
	RemoveIgnorables
	KeepIgnorables
)

// Shaper is the top-level shaping orchestrator. It holds the parameters and
// candidate engines; every shaping call selects and instantiates its own
// engine, so a Shaper may be used concurrently with different buffers.
type Shaper struct {
	params  Params
	engines []ShapingEngine
}

// NewShaper creates a shaper from parameters and candidate engines.
// Nil engines are ignored. The rule store is validated: constructs the rule
// matching protocol cannot express are rejected here, not during shaping.
func NewShaper(params Params, engines ...ShapingEngine) (*Shaper, error) {
	if params.Font == nil {
		return nil, errShaper(ErrNoFont, "cannot create shaper")
	}
	if params.Features == nil {
		return nil, errShaper(ErrNoFeatures, "cannot create shaper")
	}
	if err := params.Features.Validate(); err != nil {
		return nil, err
	}
	list := make([]ShapingEngine, 0, len(engines))
	for _, e := range engines {
		if e != nil {
			list = append(list, e)
		}
	}
	if len(list) == 0 {
		return nil, errShaper(ErrNoEngine, "no candidate engines")
	}
	return &Shaper{params: params, engines: list}, nil
}

// Params returns the shaper's parameters.
func (s *Shaper) Params() Params {
	return s.params
}

// NewBuffer creates an empty buffer for the shaper's font.
func (s *Shaper) NewBuffer() *otlayout.Buffer {
	return otlayout.NewBuffer(s.params.Font)
}

// ShapeText shapes a string and returns the shaped buffer.
func (s *Shaper) ShapeText(text string) (*otlayout.Buffer, error) {
	buf := s.NewBuffer()
	buf.StoreUnicode(text)
	return buf, s.Shape(buf)
}

// Shape shapes a buffer in place.
//
// The pipeline is: collect the plan, map codepoints to glyphs, run the
// substitution stages (with pauses), run the positioning stages, propagate
// attachment offsets and hide default ignorables. Configuration errors of
// the selected engine are reported before the buffer is changed; segment
// properties guessed up to then are reset.
func (s *Shaper) Shape(buf *otlayout.Buffer) error {
	seg := saveSegment(buf)
	ctx, engine, err := s.prepare(buf)
	if err != nil {
		seg.restore(buf)
		return err
	}
	plan, err := s.collect(engine, ctx)
	if err != nil {
		tracer().Errorf("engine %s: %v", engine.Name(), err)
		seg.restore(buf)
		return err
	}
	tracer().Debugf("plan: %s", plan)
	if missing := buf.MapToGlyphs(); missing > 0 {
		tracer().Debugf("%d codepoints not in font", missing)
	}
	setupFractionMasks(buf, s.params.Features)
	if hook, ok := engine.(ShapingEngineMaskHook); ok {
		if err := hook.SetupMasks(ctx); err != nil {
			return err
		}
	}
	if err := s.runStages(plan, ctx, otlayout.StageSub); err != nil {
		return err
	}
	zeroing := ZeroMarksLate
	if policy, ok := engine.(ShapingEnginePolicy); ok {
		zeroing = policy.ZeroMarks()
	}
	if zeroing == ZeroMarksEarly {
		zeroMarkAdvances(buf, false)
	}
	positioned := s.hasPositioning(plan)
	if err := s.runStages(plan, ctx, otlayout.StagePos); err != nil {
		return err
	}
	if zeroing == ZeroMarksLate {
		zeroMarkAdvances(buf, !positioned && !buf.IsRTL())
	}
	if hook, ok := engine.(ShapingEnginePostprocessHook); ok {
		hook.PostprocessRun(ctx)
	}
	propagateAttachments(buf)
	hideDefaultIgnorables(buf, s.params.Ignorables)
	buf.ResetMask()
	return nil
}

// Plan returns the plan and the engine a buffer would be shaped with, without
// shaping it. Buffer properties not set are guessed, as in Shape.
func (s *Shaper) Plan(buf *otlayout.Buffer) (*Plan, ShapingEngine, error) {
	ctx, engine, err := s.prepare(buf)
	if err != nil {
		return nil, nil, err
	}
	plan, err := s.collect(engine, ctx)
	return plan, engine, err
}

// prepare completes the segment properties of buf and selects an engine.
func (s *Shaper) prepare(buf *otlayout.Buffer) (*ShapeContext, ShapingEngine, error) {
	assertf(buf != nil, "shaper called with nil buffer")
	if buf.Font == nil {
		buf.Font = s.params.Font
	}
	if (buf.Script == 0 || buf.Script == language.Unknown) && s.params.Script != 0 {
		buf.Script = s.params.Script
	}
	if buf.Language == xlang.Und {
		buf.Language = s.params.Language
	}
	buf.Vertical = buf.Vertical || s.params.Vertical
	buf.GuessSegmentProperties()
	ctx := &ShapeContext{
		Buffer:   buf,
		Features: s.params.Features,
		Font:     buf.Font,
		Selection: SelectionContext{
			Direction: buf.Direction,
			Vertical:  buf.Vertical,
			Script:    buf.Script,
			Language:  buf.Language,
			ScriptTag: buf.Font.SupportedScript(buf.Script),
		},
	}
	engine, err := selectEngine(s.engines, ctx.Selection)
	if err != nil {
		return nil, nil, err
	}
	tracer().Infof("shaping %s (%s) with engine %s", buf.Script, ctx.Selection.ScriptTag, engine.Name())
	return ctx, engine, nil
}

// segment holds the buffer properties prepare completes.
type segment struct {
	font      otlayout.FontAccess
	direction bidi.Direction
	vertical  bool
	script    language.Script
	lang      xlang.Tag
}

func saveSegment(buf *otlayout.Buffer) segment {
	return segment{
		font:      buf.Font,
		direction: buf.Direction,
		vertical:  buf.Vertical,
		script:    buf.Script,
		lang:      buf.Language,
	}
}

func (seg segment) restore(buf *otlayout.Buffer) {
	buf.Font = seg.font
	buf.Direction = seg.direction
	buf.Vertical = seg.vertical
	buf.Script = seg.script
	buf.Language = seg.lang
}

// selectEngine selects the engine with the highest confidence; ties go to the
// engine with the smaller name. The winner is instantiated for this call.
func selectEngine(candidates []ShapingEngine, sel SelectionContext) (ShapingEngine, error) {
	var (
		best      ShapingEngine
		bestScore = ShaperConfidenceNone
	)
	for _, e := range candidates {
		score := e.Match(sel)
		if score == ShaperConfidenceNone {
			continue
		}
		if best == nil || score > bestScore || (score == bestScore && e.Name() < best.Name()) {
			best, bestScore = e, score
		}
	}
	if best == nil {
		return nil, errShaper(ErrNoEngine, sel.Script.String())
	}
	if inst := best.New(); inst != nil {
		return inst, nil
	}
	return best, nil
}

var (
	tagRvrn = ot.T("rvrn")
	tagLtra = ot.T("ltra")
	tagLtrm = ot.T("ltrm")
	tagRtla = ot.T("rtla")
	tagRtlm = ot.T("rtlm")
	tagFrac = ot.T("frac")
	tagNumr = ot.T("numr")
	tagDnom = ot.T("dnom")
	tagVert = ot.T("vert")
)

var commonFeatures = []ot.Tag{
	ot.T("abvm"), ot.T("blwm"), ot.T("ccmp"), ot.T("locl"),
	ot.T("mark"), ot.T("mkmk"), ot.T("rlig"),
}

var horizontalFeatures = []ot.Tag{
	ot.T("calt"), ot.T("clig"), ot.T("curs"), ot.T("dist"),
	ot.T("kern"), ot.T("liga"), ot.T("rclt"),
}

// collect builds the plan: the baseline schedule around the engine's own
// schedule, then the engine's overrides, then the user's feature settings.
func (s *Shaper) collect(engine ShapingEngine, ctx *ShapeContext) (*Plan, error) {
	plan := NewPlan()
	plan.AddFeatures(tagRvrn)
	plan.AddPause(nil)
	if !ctx.Selection.Vertical {
		if ctx.Selection.Direction == bidi.RightToLeft {
			plan.AddFeatures(tagRtla, tagRtlm)
		} else {
			plan.AddFeatures(tagLtra, tagLtrm)
		}
	}
	plan.AddFeatures(tagFrac, tagNumr, tagDnom)
	hooks, hasHooks := engine.(ShapingEnginePlanHooks)
	if hasHooks {
		if err := hooks.CollectFeatures(plan, ctx); err != nil {
			return nil, err
		}
	}
	plan.AddFeatures(commonFeatures...)
	if ctx.Selection.Vertical {
		plan.AddFeatures(tagVert)
	} else {
		plan.AddFeatures(horizontalFeatures...)
	}
	if hasHooks {
		hooks.OverrideFeatures(plan)
	}
	applyFeatureSettings(plan, s.params.UserFeatures)
	return plan, nil
}

// runStages applies the routines of every stage of a plan for one pipeline
// stage. Within a plan stage, tags are processed in scheduling order and a
// routine shared by several tags is applied once. Pauses run after
// substitution stages only.
func (s *Shaper) runStages(plan *Plan, ctx *ShapeContext, stage otlayout.Stage) error {
	buf := ctx.Buffer
	for n, st := range plan.stages {
		applied := make(map[*otlayout.Routine]bool)
		for _, tag := range st.tagList() {
			opts := otlayout.ApplyOptions{Feature: tag, PerSyllable: plan.PerSyllable(tag)}
			for _, r := range ctx.Features.RoutinesFor(tag) {
				if applied[r] || r.Stage() != stage {
					continue
				}
				applied[r] = true
				r.Apply(buf, stage, opts)
			}
		}
		if stage == otlayout.StageSub && st.pause != nil {
			buf.ResetMask()
			if err := st.pause(ctx); err != nil {
				tracer().Errorf("pause after stage %d: %v", n, err)
				return err
			}
		}
	}
	buf.ResetMask()
	return nil
}

// hasPositioning reports whether any scheduled feature carries positioning
// routines.
func (s *Shaper) hasPositioning(plan *Plan) bool {
	for _, tag := range plan.Tags() {
		for _, r := range s.params.Features.RoutinesFor(tag) {
			if r.Stage() == otlayout.StagePos {
				return true
			}
		}
	}
	return false
}

// zeroMarkAdvances sets the advances of mark glyphs to zero. If adjust is
// set, the mark is moved back by its former advance, to keep it over the
// preceding glyph in fonts without mark positioning.
func zeroMarkAdvances(buf *otlayout.Buffer, adjust bool) {
	for _, item := range buf.Items {
		if item.Category != ot.MarkGlyph {
			continue
		}
		if adjust {
			item.Position.XPlacement -= item.Position.XAdvance
			item.Position.YPlacement -= item.Position.YAdvance
		}
		item.Position.XAdvance = 0
		item.Position.YAdvance = 0
	}
}
