package otcore

import (
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/otshape"
)

// Shaper is the default shaping engine.
//
// It runs the baseline schedule of package otshape without additions and is
// the fallback for scripts without a script-specific engine.
type Shaper struct{}

var _ otshape.ShapingEngine = Shaper{}
var _ otshape.ShapingEnginePolicy = Shaper{}

// New returns a new core shaping engine instance.
func New() otshape.ShapingEngine {
	return Shaper{}
}

// Name returns the stable engine name used for tie-breaking.
func (Shaper) Name() string {
	return "core"
}

// Match returns how suitable the core engine is for ctx.
//
// It prefers Latin, Greek and Cyrillic segments and otherwise returns a low
// confidence so script-specific engines can outvote it.
func (Shaper) Match(ctx otshape.SelectionContext) otshape.ShaperConfidence {
	switch ctx.Script {
	case language.Latin, language.Greek, language.Cyrillic:
		return otshape.ShaperConfidenceHigh
	}
	return otshape.ShaperConfidenceLow
}

// New returns a new independent core engine instance.
func (Shaper) New() otshape.ShapingEngine {
	return Shaper{}
}

// ZeroMarks tells the pipeline to zero mark advances after positioning.
func (Shaper) ZeroMarks() otshape.ZeroMarksMode {
	return otshape.ZeroMarksLate
}
