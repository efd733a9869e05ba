package otuse

import (
	"unicode"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/otshape/otindic"
)

// Category is the USE category of an item.
type Category uint8

const (
	CatO     Category = iota // other
	CatB                     // base
	CatGB                    // generic base
	CatN                     // base number
	CatR                     // repha
	CatCS                    // consonant with stacker
	CatH                     // halant
	CatHVM                   // halant or vowel modifier
	CatIS                    // invisible stacker
	CatSk                    // sakot
	CatSUB                   // subjoined consonant
	CatHN                    // number joiner
	CatCGJ                   // combining grapheme joiner
	CatZWNJ                  // zero width non-joiner
	CatWJ                    // word joiner and ZWJ
	CatVPre                  // pre-base vowel
	CatVAbv                  // above-base vowel
	CatVBlw                  // below-base vowel
	CatVPst                  // post-base vowel
	CatVMPre                 // vowel modifiers
	CatVMAbv
	CatVMBlw
	CatVMPst
	CatCMAbv // consonant modifiers
	CatCMBlw
	CatMPre // medial consonants
	CatMAbv
	CatMBlw
	CatMPst
	CatFAbv // final consonants
	CatFBlw
	CatFPst
	CatFMAbv // final modifiers
	CatFMBlw
	CatFMPst
	CatSMAbv // syllable modifiers
	CatSMBlw
)

// categoryLetters are the syllable machine tokens of categories.
const categoryLetters = "OBGNRCHVIKUnjzweabp1234567890fgFmMPsS"

var categoryNames = [...]string{
	"O", "B", "GB", "N", "R", "CS", "H", "HVM", "IS", "Sk", "SUB", "HN", "CGJ",
	"ZWNJ", "WJ", "VPre", "VAbv", "VBlw", "VPst", "VMPre", "VMAbv", "VMBlw",
	"VMPst", "CMAbv", "CMBlw", "MPre", "MAbv", "MBlw", "MPst", "FAbv", "FBlw",
	"FPst", "FMAbv", "FMBlw", "FMPst", "SMAbv", "SMBlw",
}

// Token returns the syllable machine token of a category.
func (c Category) Token() byte {
	if int(c) < len(categoryLetters) {
		return categoryLetters[c]
	}
	return 'O'
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "O"
}

// isHalant reports halants which end a cluster: H, HVM and IS.
func (c Category) isHalant() bool {
	return c == CatH || c == CatHVM || c == CatIS
}

// isPostBase reports the categories a reph is moved in front of.
func (c Category) isPostBase() bool {
	switch c {
	case CatFAbv, CatFBlw, CatFPst, CatFMAbv, CatFMBlw, CatFMPst,
		CatMAbv, CatMBlw, CatMPst, CatMPre,
		CatVAbv, CatVBlw, CatVPst, CatVPre,
		CatVMAbv, CatVMBlw, CatVMPst, CatVMPre:
		return true
	}
	return false
}

// knownCategories lists codepoints whose category cannot be derived from
// their general category.
var knownCategories = map[rune]Category{
	0x00A0: CatGB,
	0x034F: CatCGJ,
	0x200C: CatZWNJ,
	0x200D: CatWJ,
	0x2060: CatWJ,
	0x25CC: CatGB,
	// Tibetan
	0x0F84: CatH,
	// Tai Tham
	0x1A60: CatSk,
	0x1A6E: CatVPre, 0x1A6F: CatVPre, 0x1A70: CatVPre, 0x1A71: CatVPre, 0x1A72: CatVPre,
	// Balinese
	0x1B00: CatVMAbv, 0x1B01: CatVMAbv, 0x1B02: CatVMAbv, 0x1B03: CatFAbv, 0x1B04: CatVMPst,
	0x1B3E: CatVPre, 0x1B3F: CatVPre,
	0x1B44: CatH,
	// Sundanese
	0x1BA6: CatVPre,
	0x1BAA: CatH,
	0x1BAB: CatIS,
	// Javanese
	0xA980: CatVMAbv, 0xA981: CatVMAbv, 0xA982: CatVMAbv, 0xA983: CatVMPst,
	0xA9BA: CatVPre, 0xA9BB: CatVPre,
	0xA9C0: CatH,
	// Brahmi
	0x11046: CatH,
	0x1107F: CatHN,
}

// Categorize returns the USE category of a codepoint.
//
// Codepoints of the Indic blocks are categorized from their Indic category.
// Other codepoints not listed in a table of exceptions are categorized by
// their general category: letters are bases, non-spacing marks are above-base
// vowels, spacing marks post-base vowels and digits base numbers.
func Categorize(r rune) Category {
	if r < 0 {
		return CatO
	}
	if c, ok := knownCategories[r]; ok {
		return c
	}
	if otindic.ScriptOf(r) != language.Unknown {
		return fromIndic(r)
	}
	switch {
	case unicode.Is(unicode.Nd, r):
		return CatN
	case unicode.IsLetter(r):
		return CatB
	case unicode.Is(unicode.Mn, r):
		return CatVAbv
	case unicode.Is(unicode.Mc, r):
		return CatVPst
	}
	return CatO
}

func fromIndic(r rune) Category {
	cat, _ := otindic.Categorize(r)
	switch cat {
	case otindic.CatC, otindic.CatRa, otindic.CatV:
		return CatB
	case otindic.CatCS:
		return CatCS
	case otindic.CatH:
		return CatH
	case otindic.CatN:
		return CatCMBlw
	case otindic.CatM:
		switch otindic.MatraSide(r) {
		case 'L':
			return CatVPre
		case 'T':
			return CatVAbv
		case 'B':
			return CatVBlw
		}
		return CatVPst
	case otindic.CatSM, otindic.CatA:
		if unicode.Is(unicode.Mc, r) {
			return CatVMPst
		}
		return CatVMAbv
	case otindic.CatPlaceholder, otindic.CatDottedCircle:
		return CatGB
	case otindic.CatRepha:
		return CatR
	case otindic.CatCM:
		return CatMBlw
	case otindic.CatZWNJ:
		return CatZWNJ
	case otindic.CatZWJ:
		return CatWJ
	}
	return CatO
}
