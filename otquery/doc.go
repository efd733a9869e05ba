/*
Package otquery provides access to fonts for the shaping engine.

SFNTAccess implements otlayout.FontAccess for fonts parsed with package
golang.org/x/image/font/sfnt. As sfnt does not give access to the layout
tables, glyph classes are guessed from the Unicode general category of the
codepoints a glyph is mapped from, and from glyph names.

Furthermore, package otquery retrieves font and glyph metrics and the
entries of a font's name table.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontfeatures.query'
func tracer() tracing.Trace {
	return tracing.Select("fontfeatures.query")
}
