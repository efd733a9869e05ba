/*
Package otarabic provides the shaping engine for Arabic and the other joining
scripts (Syriac, N'Ko, Mongolian, Phags-pa and related scripts).

The engine resolves the joining form of every letter with the Unicode joining
state machine and masks out the form features (isol, init, medi, fina, ...)
for letters in other forms. Form features are applied one stage each, as
fonts expect. For Arabic fonts without form features, presentation forms
from the font's character map are substituted instead.
*/
package otarabic

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fontfeatures.arabic'
func tracer() tracing.Trace {
	return tracing.Select("fontfeatures.arabic")
}
