package otindic

import "github.com/go-text/typesetting/language"

// BasePos is the policy to find the base consonant of a syllable.
type BasePos uint8

const (
	// BaseLast: the last consonant without a below-base or post-base form.
	BaseLast BasePos = iota
	// BaseLastSinhala: the last consonant not preceded by ZWJ.
	BaseLastSinhala
)

// RephMode tells how a reph is encoded.
type RephMode uint8

const (
	RephImplicit RephMode = iota // Ra,H
	RephExplicit                 // Ra,H,ZWJ
	RephLogRepha                 // encoded repha character
)

// BlwfMode tells where below-base forms may occur.
type BlwfMode uint8

const (
	BlwfPreAndPost BlwfMode = iota
	BlwfPostOnly
)

// ScriptConfig is the shaping configuration of an Indic script.
type ScriptConfig struct {
	Script  language.Script
	Virama  rune
	BasePos BasePos
	// RephPos is where a reph ends up: one of PosAfterMain, PosBeforeSub,
	// PosAfterSub, PosBeforePost or PosAfterPost.
	RephPos  Position
	RephMode RephMode
	BlwfMode BlwfMode
}

// DefaultConfigs returns the script configurations of all Indic scripts.
func DefaultConfigs() []ScriptConfig {
	return []ScriptConfig{
		{language.Devanagari, 0x094D, BaseLast, PosBeforePost, RephImplicit, BlwfPreAndPost},
		{language.Bengali, 0x09CD, BaseLast, PosAfterSub, RephImplicit, BlwfPreAndPost},
		{language.Gurmukhi, 0x0A4D, BaseLast, PosBeforeSub, RephImplicit, BlwfPreAndPost},
		{language.Gujarati, 0x0ACD, BaseLast, PosBeforePost, RephImplicit, BlwfPreAndPost},
		{language.Oriya, 0x0B4D, BaseLast, PosAfterMain, RephImplicit, BlwfPreAndPost},
		{language.Tamil, 0x0BCD, BaseLast, PosAfterPost, RephImplicit, BlwfPreAndPost},
		{language.Telugu, 0x0C4D, BaseLast, PosAfterPost, RephExplicit, BlwfPostOnly},
		{language.Kannada, 0x0CCD, BaseLast, PosAfterPost, RephImplicit, BlwfPostOnly},
		{language.Malayalam, 0x0D4D, BaseLast, PosAfterMain, RephLogRepha, BlwfPreAndPost},
		{language.Sinhala, 0x0DCA, BaseLastSinhala, PosAfterPost, RephExplicit, BlwfPreAndPost},
	}
}

// indicScripts are the scripts the engine is responsible for, configured or not.
var indicScripts = map[language.Script]bool{
	language.Devanagari: true,
	language.Bengali:    true,
	language.Gurmukhi:   true,
	language.Gujarati:   true,
	language.Oriya:      true,
	language.Tamil:      true,
	language.Telugu:     true,
	language.Kannada:    true,
	language.Malayalam:  true,
	language.Sinhala:    true,
}
