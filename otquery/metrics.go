package otquery

import (
	"github.com/npillmayer/fontfeatures/ot"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// --- Font Information -------------------------------------------------

// FontMetrics retrieves selected metrics of a font, in font units.
func FontMetrics(f *sfnt.Font) FontMetricsInfo {
	metrics := FontMetricsInfo{UnitsPerEm: f.UnitsPerEm()}
	ppem := fixed.I(int(metrics.UnitsPerEm))
	var b sfnt.Buffer
	m, err := f.Metrics(&b, ppem, font.HintingNone)
	if err != nil {
		tracer().Errorf("font metrics: %v", err)
		return metrics
	}
	metrics.Ascent = sfnt.Units(m.Ascent.Round())
	metrics.Descent = -sfnt.Units(m.Descent.Round()) // sfnt reports descent as positive
	metrics.LineGap = sfnt.Units((m.Height - m.Ascent - m.Descent).Round())
	for g := 0; g < f.NumGlyphs(); g++ {
		adv, err := f.GlyphAdvance(&b, sfnt.GlyphIndex(g), ppem, font.HintingNone)
		if err == nil && sfnt.Units(adv.Round()) > metrics.MaxAdvance {
			metrics.MaxAdvance = sfnt.Units(adv.Round())
		}
	}
	return metrics
}

// --- Glyph Routines --------------------------------------------------------

// GlyphMetrics retrieves metrics for a given glyph, in font units.
func GlyphMetrics(f *sfnt.Font, gid ot.GlyphIndex) GlyphMetricsInfo {
	metrics := GlyphMetricsInfo{}
	ppem := fixed.I(int(f.UnitsPerEm()))
	var b sfnt.Buffer
	bounds, adv, err := f.GlyphBounds(&b, sfnt.GlyphIndex(gid), ppem, font.HintingNone)
	if err != nil {
		tracer().Debugf("no metrics for glyph %d: %v", gid, err)
		return metrics
	}
	metrics.Advance = sfnt.Units(adv.Round())
	// sfnt's y axis points down
	metrics.BBox = BoundingBox{
		MinX: sfnt.Units(bounds.Min.X.Round()),
		MinY: -sfnt.Units(bounds.Max.Y.Round()),
		MaxX: sfnt.Units(bounds.Max.X.Round()),
		MaxY: -sfnt.Units(bounds.Min.Y.Round()),
	}
	// glyphs without contours have no side bearings
	if !metrics.BBox.IsEmpty() {
		metrics.LSB = metrics.BBox.MinX
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics
}
