package otshape

import (
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	xlang "golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// SelectionContext carries the segment metadata for shaper selection.
type SelectionContext struct {
	Direction bidi.Direction
	Vertical  bool
	Script    language.Script
	Language  xlang.Tag
	ScriptTag ot.Tag // as reported by FontAccess.SupportedScript
}

// ShapeContext is handed to engine hooks and pause callbacks.
type ShapeContext struct {
	Buffer    *otlayout.Buffer
	Features  *otlayout.Features
	Font      otlayout.FontAccess
	Selection SelectionContext
}

// WouldSubstitute probes whether feature tag would substitute glyphs. It is a
// shortcut for otlayout.WouldSubstitute with the context's rule store and font.
func (ctx *ShapeContext) WouldSubstitute(tag ot.Tag, glyphs ...ot.GlyphIndex) bool {
	return otlayout.WouldSubstitute(ctx.Features, ctx.Font, tag, glyphs...)
}

// FeatureFlags guide how the routines of a feature are applied.
type FeatureFlags uint16

const FeatureNone FeatureFlags = 0

const (
	// FeaturePerSyllable restricts matches to a single syllable.
	FeaturePerSyllable FeatureFlags = 1 << iota
)

// FeaturePlanner is the plan-time interface for collecting features.
type FeaturePlanner interface {
	AddFeatures(tags ...ot.Tag)
	AddFeature(tag ot.Tag, flags FeatureFlags)
	AddPause(fn PauseHook)
	EnableFeature(tag ot.Tag)
	DisableFeature(tag ot.Tag)
	HasFeature(tag ot.Tag) bool
}

// PauseHook may mutate the buffer between substitution stages.
type PauseHook func(ctx *ShapeContext) error

type ShaperConfidence int

const (
	ShaperConfidenceNone ShaperConfidence = iota
	ShaperConfidenceLow
	ShaperConfidenceMedium
	ShaperConfidenceHigh
	ShaperConfidenceCertain
)

// ShapingEngine is the mandatory minimal interface for shaper selection.
type ShapingEngine interface {
	Name() string
	Match(ctx SelectionContext) ShaperConfidence
	New() ShapingEngine
}

// ZeroMarksMode tells if and when the advances of marks are zeroed.
type ZeroMarksMode uint8

const (
	ZeroMarksLate  ZeroMarksMode = iota // after positioning
	ZeroMarksEarly                      // before positioning
	ZeroMarksNone
)

// ShapingEnginePolicy exposes policy decisions used by the base pipeline.
type ShapingEnginePolicy interface {
	ZeroMarks() ZeroMarksMode
}

// ShapingEnginePlanHooks exposes plan-time hooks.
// CollectFeatures is called between the direction/fraction features and the
// common features of the baseline schedule. OverrideFeatures is called after
// the baseline schedule is complete, before user feature settings.
//
// An error returned from CollectFeatures is a configuration error and
// aborts shaping before the buffer is touched.
type ShapingEnginePlanHooks interface {
	CollectFeatures(plan FeaturePlanner, ctx *ShapeContext) error
	OverrideFeatures(plan FeaturePlanner)
}

// ShapingEngineMaskHook exposes a hook after glyph mapping and before the
// first substitution stage, to set per-item feature masks.
type ShapingEngineMaskHook interface {
	SetupMasks(ctx *ShapeContext) error
}

// ShapingEnginePostprocessHook exposes a hook after positioning, before
// attachment offsets are propagated.
type ShapingEnginePostprocessHook interface {
	PostprocessRun(ctx *ShapeContext)
}
