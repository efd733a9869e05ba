/*
Package otshape drives the shaping of a run of text.

The package API is centered around [NewShaper] and [Shaper.Shape]:
  - callers provide shaping parameters ([Params]): the rule store, the font,
    and optional script, language, direction and feature settings,
  - a buffer of codepoints ([otlayout.Buffer]) is shaped in place.

Shaping follows a plan of stages ([Plan]). Each stage is a set of feature tags
whose routines are applied one after the other, optionally followed by a pause
callback of a script-specific shaping engine (e.g., syllabification for Indic
scripts). The plan is collected from a fixed baseline, the engine's own
schedule and user feature settings.

Script-specific engines implement [ShapingEngine] and optional hook
interfaces; they live in sub-packages otcore, otarabic, otindic and otuse.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otshape

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer returns a trace sink for the otshape package namespace.
func tracer() tracing.Trace {
	return tracing.Select("fontfeatures.shaper")
}

var (
	// ErrNoFont is returned if shaping parameters lack a font.
	ErrNoFont = errors.New("no font")
	// ErrNoFeatures is returned if shaping parameters lack a rule store.
	ErrNoFeatures = errors.New("no rule store")
	// ErrNoEngine is returned if no shaping engine is suitable for a buffer.
	ErrNoEngine = errors.New("no shaping engine")
	// ErrFeatureSetting is returned for malformed user feature settings.
	ErrFeatureSetting = errors.New("malformed feature setting")
)

// errShaper wraps an error as a user-facing shaping error.
func errShaper(err error, x string) error {
	return fmt.Errorf("OpenType text shaping: %s: %w", x, err)
}

// assertf panics when condition is false.
func assertf(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
