/*
Package otuse provides the Universal Shaping Engine (USE), the shaping engine
for the complex scripts of South and South-East Asia without an engine of their
own: Balinese, Javanese, Sundanese, Tai Tham, Tibetan and many more. Fonts may
also ask for USE for the Indic scripts, by providing script tags of the
third generation ("dev3", "bng3", ...).

Every codepoint is assigned a USE category. A syllable machine, driven by the
USE cluster grammar, splits the run into clusters. A reph or a pre-base form
created by the font is recorded after feature application, and repositioned
during reordering: a reph moves to the end of the cluster's base, a pre-base
vowel or pre-base form moves to the front of the cluster. Topographical forms
(isol, init, medi, fina) are assigned per cluster or, for joining scripts, by
the joining rules of Arabic.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otuse

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontfeatures.use'
func tracer() tracing.Trace {
	return tracing.Select("fontfeatures.use")
}

func errUSE(err error, x string) error {
	return fmt.Errorf("OpenType text shaping (USE): %s: %w", x, err)
}
