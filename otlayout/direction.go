package otlayout

import (
	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
)

// rtlScripts lists scripts with a right-to-left writing direction.
var rtlScripts = map[language.Script]struct{}{
	language.Arabic:                 {},
	language.Hebrew:                 {},
	language.Syriac:                 {},
	language.Thaana:                 {},
	language.Nko:                    {},
	language.Samaritan:              {},
	language.Mandaic:                {},
	language.Imperial_Aramaic:       {},
	language.Phoenician:             {},
	language.Kharoshthi:             {},
	language.Old_South_Arabian:      {},
	language.Avestan:                {},
	language.Inscriptional_Parthian: {},
	language.Inscriptional_Pahlavi:  {},
	language.Old_Turkic:             {},
	language.Cypriot:                {},
	language.Lydian:                 {},
	language.Meroitic_Cursive:       {},
	language.Meroitic_Hieroglyphs:   {},
	language.Old_North_Arabian:      {},
	language.Nabataean:              {},
	language.Palmyrene:              {},
	language.Manichaean:             {},
	language.Mende_Kikakui:          {},
	language.Psalter_Pahlavi:        {},
	language.Adlam:                  {},
	language.Hanifi_Rohingya:        {},
	language.Old_Sogdian:            {},
	language.Sogdian:                {},
	language.Elymaic:                {},
	language.Chorasmian:             {},
}

// ScriptDirection returns the horizontal writing direction of a script.
func ScriptDirection(script language.Script) bidi.Direction {
	if _, ok := rtlScripts[script]; ok {
		return bidi.RightToLeft
	}
	return bidi.LeftToRight
}
