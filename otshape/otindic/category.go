package otindic

import (
	"unicode"

	"github.com/go-text/typesetting/language"
)

// Category is the Indic category of an item, used for syllable parsing.
type Category uint8

const (
	CatX            Category = iota // other
	CatC                            // consonant
	CatV                            // independent vowel
	CatN                            // nukta
	CatH                            // halant/virama
	CatZWNJ                         // zero width non-joiner
	CatZWJ                          // zero width joiner
	CatM                            // matra, dependent vowel sign
	CatSM                           // syllable modifier (anusvara, visarga, ...)
	CatA                            // vedic accent
	CatPlaceholder                  // digits, NBSP and the like
	CatDottedCircle                 // U+25CC
	CatRepha                        // encoded repha (Malayalam dot reph)
	CatRa                           // consonant Ra, may form a reph
	CatCM                           // consonant medial
	CatSymbol                       // avagraha and other symbols
	CatCS                           // consonant with stacker
)

// categoryLetters are the syllable machine tokens of categories.
const categoryLetters = "xCVNHnjMSAPDpRmsc"

// Token returns the syllable machine token of a category.
func (c Category) Token() byte {
	if int(c) < len(categoryLetters) {
		return categoryLetters[c]
	}
	return 'x'
}

func (c Category) String() string {
	switch c {
	case CatC:
		return "C"
	case CatV:
		return "V"
	case CatN:
		return "N"
	case CatH:
		return "H"
	case CatZWNJ:
		return "ZWNJ"
	case CatZWJ:
		return "ZWJ"
	case CatM:
		return "M"
	case CatSM:
		return "SM"
	case CatA:
		return "A"
	case CatPlaceholder:
		return "Placeholder"
	case CatDottedCircle:
		return "DottedCircle"
	case CatRepha:
		return "Repha"
	case CatRa:
		return "Ra"
	case CatCM:
		return "CM"
	case CatSymbol:
		return "Symbol"
	case CatCS:
		return "CS"
	}
	return "X"
}

// Position is the position class of an item within a syllable. Reordering
// sorts a syllable by position class.
type Position uint8

const (
	PosStart Position = iota
	PosRaToBecomeReph
	PosPreM
	PosPreC
	PosBaseC
	PosAfterMain
	PosAboveC
	PosBeforeSub
	PosBelowC
	PosAfterSub
	PosBeforePost
	PosPostC
	PosAfterPost
	PosFinalC
	PosSMVD
	PosEnd
)

var positionNames = [...]string{
	"Start", "RaToBecomeReph", "PreM", "PreC", "BaseC", "AfterMain", "AboveC",
	"BeforeSub", "BelowC", "AfterSub", "BeforePost", "PostC", "AfterPost",
	"FinalC", "SMVD", "End",
}

func (p Position) String() string {
	if int(p) < len(positionNames) {
		return positionNames[p]
	}
	return "End"
}

// block is one of the Unicode blocks covered by the Indic engine.
type block struct {
	script language.Script
	first  rune
	// matra positions for offsets 0x3A…0x4F relative to the block start:
	// L(eft), T(op), B(ottom), R(ight), S(plit) or '-'
	matras string
}

var blocks = []block{
	{language.Devanagari, 0x0900, "TR--RLRBBBBTTTTRRRR-LR"},
	{language.Bengali, 0x0980, "----RLRBBBB--LL--SS---"},
	{language.Gurmukhi, 0x0A00, "----RLRBB----TT--TT---"},
	{language.Gujarati, 0x0A80, "----RLRBBBBT-TTR-RR---"},
	{language.Oriya, 0x0B00, "----RTRBBBB--LS--SS---"},
	{language.Tamil, 0x0B80, "----RTRRR---LLL-SSS---"},
	{language.Telugu, 0x0C00, "----TTTRRRR-TTS-TTT---"},
	{language.Kannada, 0x0C80, "----RTSRRRR-TSS-SST---"},
	{language.Malayalam, 0x0D00, "----RRRBBBB-LLL-SSS---"},
}

// blockOf returns the Indic block of r, if any. Sinhala is handled apart,
// as its block does not follow the ISCII layout.
func blockOf(r rune) (block, bool) {
	if r < 0x0900 || r >= 0x0D80 {
		return block{}, false
	}
	return blocks[(r-0x0900)/0x80], true
}

// ScriptOf returns the Indic script a codepoint belongs to, or
// language.Unknown.
func ScriptOf(r rune) language.Script {
	if b, ok := blockOf(r); ok {
		return b.script
	}
	if r >= 0x0D80 && r < 0x0E00 {
		return language.Sinhala
	}
	return language.Unknown
}

// Categorize returns the Indic category and the position class of a codepoint.
// Consonants are classified as base consonants; their final position depends
// on the font and is resolved during reordering.
func Categorize(r rune) (Category, Position) {
	cat := categoryOf(r)
	switch {
	case isConsonantCategory(cat):
		return cat, PosBaseC
	case cat == CatM:
		return cat, matraPosition(r)
	case cat == CatSM || cat == CatA || cat == CatSymbol:
		if r == 0x0B01 { // Oriya candrabindu
			return cat, PosBeforeSub
		}
		return cat, PosSMVD
	}
	return cat, PosEnd
}

func categoryOf(r rune) Category {
	switch r {
	case 0x200C:
		return CatZWNJ
	case 0x200D:
		return CatZWJ
	case 0x25CC:
		return CatDottedCircle
	case 0x00A0, 0x00D7, 0x2010, 0x2011, 0x2012, 0x2013, 0x2014, 0x2015, 0x2022:
		return CatPlaceholder
	}
	if r >= 0x1CD0 && r <= 0x1CF9 { // Vedic extensions
		return CatA
	}
	if r >= 0x0D80 && r < 0x0E00 {
		return sinhalaCategory(r)
	}
	b, ok := blockOf(r)
	if !ok {
		return CatX
	}
	if !unicode.IsPrint(r) {
		return CatX
	}
	off := r - b.first
	switch {
	case off <= 0x03:
		return CatSM
	case off == 0x04 && b.script == language.Devanagari:
		return CatV
	case off == 0x04:
		return CatSM
	case off <= 0x14:
		return CatV
	case off == 0x30:
		return CatRa
	case off <= 0x39:
		return CatC
	case b.script == language.Malayalam && (off == 0x3B || off == 0x3C):
		return CatH // vertical bar and circular virama
	case b.script == language.Malayalam && off >= 0x54 && off <= 0x56:
		return CatC // chillus
	case off == 0x3C:
		return CatN
	case off == 0x3D:
		return CatSymbol
	case off == 0x4D:
		return CatH
	case off == 0x4E && b.script == language.Malayalam:
		return CatRepha
	case off == 0x4E && b.script == language.Bengali:
		return CatC // khanda ta
	case off >= 0x3A && off <= 0x4F:
		if b.matras[off-0x3A] != '-' {
			return CatM
		}
		return CatX
	case off == 0x51 || off == 0x52:
		if b.script == language.Devanagari {
			return CatA
		}
		return CatX
	case off >= 0x53 && off <= 0x54:
		return CatA
	case off >= 0x55 && off <= 0x57:
		if lengthMarkPosition(b, off) != 0 {
			return CatM
		}
		return CatX
	case off >= 0x58 && off <= 0x5F:
		return CatC
	case off == 0x60 || off == 0x61:
		return CatV
	case off == 0x62 || off == 0x63:
		return CatM
	case off >= 0x66 && off <= 0x6F:
		return CatPlaceholder
	}
	return miscCategory(b, off)
}

// miscCategory classifies the script specific additions at the end of
// each block.
func miscCategory(b block, off rune) Category {
	switch b.script {
	case language.Devanagari:
		switch {
		case off >= 0x72 && off <= 0x77:
			return CatV
		case off >= 0x78:
			return CatC
		}
	case language.Bengali:
		switch off {
		case 0x70:
			return CatRa
		case 0x71:
			return CatC
		case 0x7C:
			return CatSM
		}
	case language.Gurmukhi:
		switch off {
		case 0x70, 0x71:
			return CatSM
		case 0x72, 0x73:
			return CatPlaceholder
		case 0x75:
			return CatCM
		}
	case language.Gujarati:
		if off == 0x79 {
			return CatC
		}
		if off >= 0x7A && off <= 0x7F {
			return CatA
		}
	case language.Oriya:
		if off == 0x71 {
			return CatC
		}
	case language.Kannada:
		if off == 0x71 || off == 0x72 {
			return CatCS
		}
	case language.Malayalam:
		if off >= 0x7A && off <= 0x7F {
			return CatC // chillus
		}
	}
	return CatX
}

func sinhalaCategory(r rune) Category {
	switch {
	case r >= 0x0D81 && r <= 0x0D83:
		return CatSM
	case r >= 0x0D85 && r <= 0x0D96:
		return CatV
	case r == 0x0DBB:
		return CatRa
	case r >= 0x0D9A && r <= 0x0DC6:
		return CatC
	case r == 0x0DCA:
		return CatH
	case r >= 0x0DCF && r <= 0x0DDF, r == 0x0DF2, r == 0x0DF3:
		if sinhalaMatraPosition(r) != 0 {
			return CatM
		}
	case r >= 0x0DE6 && r <= 0x0DEF:
		return CatPlaceholder
	}
	return CatX
}

func isConsonantCategory(c Category) bool {
	switch c {
	case CatC, CatCS, CatRa, CatCM, CatV, CatPlaceholder, CatDottedCircle:
		return true
	}
	return false
}

// --- Matra positions -------------------------------------------------------

// matraPosition resolves the position class of a matra from its visual
// position, with script specific adjustments.
func matraPosition(r rune) Position {
	vis, script := matraSide(r)
	switch vis {
	case 'L':
		return PosPreM
	case 'T':
		return topMatraPosition(script)
	case 'B':
		return bottomMatraPosition(script)
	case 'R':
		return rightMatraPosition(script, r)
	}
	return PosEnd
}

// MatraSide returns the visual placement of a dependent vowel sign relative
// to its base: 'L'eft, 'T'op, 'B'ottom, 'R'ight or 'S'plit. For other
// codepoints it returns 0.
func MatraSide(r rune) byte {
	vis, _ := matraSide(r)
	return vis
}

func matraSide(r rune) (vis byte, script language.Script) {
	if r >= 0x0D80 && r < 0x0E00 {
		vis, script = sinhalaMatraPosition(r), language.Sinhala
	} else if b, ok := blockOf(r); ok {
		script = b.script
		off := r - b.first
		switch {
		case off >= 0x3A && off <= 0x4F:
			vis = b.matras[off-0x3A]
		case off >= 0x55 && off <= 0x57:
			vis = lengthMarkPosition(b, off)
		case off == 0x62 || off == 0x63:
			vis = 'B'
		}
	}
	if vis == '-' {
		vis = 0
	}
	return
}

func topMatraPosition(script language.Script) Position {
	switch script {
	case language.Gurmukhi:
		return PosAfterPost
	case language.Oriya:
		return PosAfterMain
	case language.Telugu, language.Kannada:
		return PosBeforeSub
	}
	return PosAfterSub
}

func bottomMatraPosition(script language.Script) Position {
	switch script {
	case language.Gurmukhi, language.Gujarati, language.Tamil, language.Malayalam:
		return PosAfterPost
	case language.Telugu, language.Kannada:
		return PosBeforeSub
	}
	return PosAfterSub
}

func rightMatraPosition(script language.Script, r rune) Position {
	switch script {
	case language.Bengali, language.Gurmukhi, language.Gujarati, language.Oriya,
		language.Tamil, language.Malayalam:
		return PosAfterPost
	case language.Telugu:
		if r <= 0x0C42 {
			return PosBeforeSub
		}
		return PosAfterSub
	case language.Kannada:
		if r < 0x0CC3 || r > 0x0CD6 {
			return PosBeforeSub
		}
		return PosAfterSub
	}
	return PosAfterSub
}

// lengthMarkPosition returns the visual position of length marks and au
// marks at offsets 0x55…0x57, 0 if there is none.
func lengthMarkPosition(b block, off rune) byte {
	switch b.script {
	case language.Bengali, language.Tamil, language.Malayalam:
		if off == 0x57 {
			return 'R'
		}
	case language.Oriya:
		switch off {
		case 0x56:
			return 'T'
		case 0x57:
			return 'R'
		}
	case language.Telugu:
		switch off {
		case 0x55:
			return 'T'
		case 0x56:
			return 'B'
		}
	case language.Kannada:
		if off == 0x55 || off == 0x56 {
			return 'R'
		}
	}
	return 0
}

func sinhalaMatraPosition(r rune) byte {
	switch r {
	case 0x0DCF, 0x0DD0, 0x0DD1, 0x0DD8, 0x0DDF, 0x0DF2, 0x0DF3:
		return 'R'
	case 0x0DD2, 0x0DD3:
		return 'T'
	case 0x0DD4, 0x0DD6:
		return 'B'
	case 0x0DD9, 0x0DDB:
		return 'L'
	case 0x0DDA, 0x0DDC, 0x0DDD, 0x0DDE:
		return 'S'
	}
	return 0
}

// isSplitMatra reports whether a matra has parts on both sides of its base
// and has to be decomposed before reordering.
func isSplitMatra(r rune) bool {
	if r >= 0x0D80 && r < 0x0E00 {
		return sinhalaMatraPosition(r) == 'S'
	}
	b, ok := blockOf(r)
	if !ok {
		return false
	}
	off := r - b.first
	return off >= 0x3A && off <= 0x4F && b.matras[off-0x3A] == 'S'
}
