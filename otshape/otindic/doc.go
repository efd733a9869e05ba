/*
Package otindic provides the shaping engine for the Indic scripts of the
Brahmic family: Devanagari, Bengali, Gurmukhi, Gujarati, Oriya, Tamil, Telugu,
Kannada, Malayalam and Sinhala.

Shaping an Indic run is done syllable by syllable. Every codepoint is assigned
an Indic category and a position class; a syllable machine then splits the run
into syllables. Before the basic shaping features are applied, each syllable is
reordered into visual order (initial reordering) and the basic features are
restricted to the items they apply to. After the basic features, pre-base
matras, reph and pre-base-reordering consonants are moved to their final place
(final reordering).

Every script needs a script configuration (virama, base consonant policy, reph
handling). Shaping a script without one is a configuration error.

The syllable machine is shared with the Universal Shaping Engine.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otindic

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontfeatures.indic'
func tracer() tracing.Trace {
	return tracing.Select("fontfeatures.indic")
}

var (
	// ErrMissingScriptConfig is returned if an Indic script lacks a script
	// configuration.
	ErrMissingScriptConfig = errors.New("missing script configuration")
	// ErrSyllable is returned if a run contains a sequence which does not
	// start any syllable.
	ErrSyllable = errors.New("no syllable matches")
)

func errIndic(err error, x string) error {
	return fmt.Errorf("OpenType text shaping: %s: %w", x, err)
}
