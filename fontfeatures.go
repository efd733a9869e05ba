/*
Package fontfeatures is a text shaping engine driven by OpenType-style layout
rules.

Shaping turns a run of Unicode text into positioned glyphs. The work is split
between a script-independent pipeline in package otshape and a set of shaping
engines, one per script family, which prepare the buffer for the rules of the
font: Arabic joining, Hebrew presentation forms, Indic reordering and the
Universal Shaping Engine. Rules are kept in a rule store (package otlayout),
which is filled by a font unparser or loaded from a YAML description.

Fonts are accessed through otlayout.FontAccess. Package otquery implements it
for fonts parsed with golang.org/x/image/font/sfnt.

# Status

Rule stores are not read from the GSUB and GPOS tables of a font.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontfeatures

import (
	"github.com/npillmayer/fontfeatures/internal/fixture"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"github.com/npillmayer/fontfeatures/otshape/otarabic"
	"github.com/npillmayer/fontfeatures/otshape/otcore"
	"github.com/npillmayer/fontfeatures/otshape/othebrew"
	"github.com/npillmayer/fontfeatures/otshape/otindic"
	"github.com/npillmayer/fontfeatures/otshape/otuse"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontfeatures'
func tracer() tracing.Trace {
	return tracing.Select("fontfeatures")
}

// Engines returns an instance of every shaping engine of this module.
// Engines bid for a run of text, the core engine serves as the fallback for
// scripts without a specialized engine.
func Engines() []otshape.ShapingEngine {
	return []otshape.ShapingEngine{
		otarabic.New(),
		othebrew.New(),
		otindic.New(),
		otuse.New(),
		otcore.New(),
	}
}

// NewShaper creates a shaper over all engines of this module. features is a
// comma separated list of feature settings in the syntax of
// otshape.ParseFeatureSettings ("-liga,kern=0,+smcp"), and may be empty.
func NewShaper(font otlayout.FontAccess, rules *otlayout.Features, features string) (*otshape.Shaper, error) {
	settings, err := otshape.ParseFeatureSettings(features)
	if err != nil {
		return nil, err
	}
	params := otshape.Params{
		Font:         font,
		Features:     rules,
		UserFeatures: settings,
	}
	return otshape.NewShaper(params, Engines()...)
}

// ShapeText shapes a single run of text with all engines of this module and
// default settings. Script, language and direction are guessed from the text.
//
// This is a convenience API for short pieces of text. Clients who shape many
// runs should create a shaper once and re-use it.
func ShapeText(font otlayout.FontAccess, rules *otlayout.Features, text string) (*otlayout.Buffer, error) {
	sh, err := NewShaper(font, rules, "")
	if err != nil {
		return nil, err
	}
	buf, err := sh.ShapeText(text)
	if err != nil {
		tracer().Errorf("shaping %q: %v", text, err)
		return nil, err
	}
	return buf, nil
}

// LoadRules reads a glyph table and a rule store from a YAML description.
// The glyph table doubles as a font for testing rule sets without a font
// binary.
func LoadRules(path string) (otlayout.FontAccess, *otlayout.Features, error) {
	table, rules, err := fixture.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	tracer().Infof("loaded %d glyphs and %d routines from %s", table.NumGlyphs(), len(rules.Routines), path)
	return table, rules, nil
}
