/*
Package othebrew provides the Hebrew shaping engine for package otshape.

Hebrew fonts without mark positioning often carry glyphs for the encoded
presentation forms (letters with dagesh, shin and sin dots, etc.). These forms
are excluded from canonical composition; the engine composes them if the
font has a glyph for them.
*/
package othebrew

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fontfeatures.shaper'
func tracer() tracing.Trace {
	return tracing.Select("fontfeatures.shaper")
}
