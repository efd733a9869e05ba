/*
Package otlayout applies OpenType-style layout rules to a glyph buffer.

A Buffer holds the glyphs (or, before mapping, the codepoints) of one run of
text. Rules are grouped into routines (OpenType lookups) and routines are
grouped under feature tags in a Features store. Rule matching never looks at
the raw sequence of buffer items directly, but rather at a mask: the list of
items visible under the current routine's lookup flags. A routine with flag
IGNORE_MARKS will therefore match across intervening marks.

Clients are not expected to construct rule stores by hand. They are produced
by font unparsers or feature-file compilers, which are out of scope for this
module. Package otshape drives the application of routines in stages.

# Status

Work in progress.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otlayout

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontfeatures.layout'
func tracer() tracing.Trace {
	return tracing.Select("fontfeatures.layout")
}

// ErrUnsupportedRule is returned for rule combinations the matching protocol
// cannot express.
var ErrUnsupportedRule = errors.New("unsupported rule")

// ErrTraceFormat is returned for malformed glyph traces.
var ErrTraceFormat = errors.New("malformed trace")

// errLayout produces user level errors for rule stores.
func errLayout(err error, format string, args ...any) error {
	return fmt.Errorf("OpenType layout: %w: %s", err, fmt.Sprintf(format, args...))
}

// assert panics when condition is false.
func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
