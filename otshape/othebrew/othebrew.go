package othebrew

import (
	"slices"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otshape"
)

// Hebrew presentation forms with dagesh, for characters U+05D0..U+05EA.
// Some letters intentionally map to zero because no encoded form exists.
var dageshForms = [0x05EA - 0x05D0 + 1]rune{
	0xFB30, // ALEF
	0xFB31, // BET
	0xFB32, // GIMEL
	0xFB33, // DALET
	0xFB34, // HE
	0xFB35, // VAV
	0xFB36, // ZAYIN
	0x0000, // HET
	0xFB38, // TET
	0xFB39, // YOD
	0xFB3A, // FINAL KAF
	0xFB3B, // KAF
	0xFB3C, // LAMED
	0x0000, // FINAL MEM
	0xFB3E, // MEM
	0x0000, // FINAL NUN
	0xFB40, // NUN
	0xFB41, // SAMEKH
	0x0000, // AYIN
	0xFB43, // FINAL PE
	0xFB44, // PE
	0x0000, // FINAL TSADI
	0xFB46, // TSADI
	0xFB47, // QOF
	0xFB48, // RESH
	0xFB49, // SHIN
	0xFB4A, // TAV
}

// Shaper is the Hebrew shaping engine.
type Shaper struct{}

var _ otshape.ShapingEngine = Shaper{}
var _ otshape.ShapingEnginePolicy = Shaper{}
var _ otshape.ShapingEngineMaskHook = Shaper{}

// New returns the Hebrew shaping engine.
func New() otshape.ShapingEngine {
	return Shaper{}
}

func (Shaper) Name() string {
	return "hebrew"
}

func (Shaper) Match(ctx otshape.SelectionContext) otshape.ShaperConfidence {
	if ctx.Script == language.Hebrew {
		return otshape.ShaperConfidenceCertain
	}
	return otshape.ShaperConfidenceNone
}

func (Shaper) New() otshape.ShapingEngine {
	return Shaper{}
}

func (Shaper) ZeroMarks() otshape.ZeroMarksMode {
	return otshape.ZeroMarksLate
}

var tagMark = ot.T("mark")

// SetupMasks composes bases and marks to presentation forms, if the font
// cannot position marks and has a glyph for the presentation form.
func (Shaper) SetupMasks(ctx *otshape.ShapeContext) error {
	if ctx.Features.HasFeature(tagMark) {
		return nil
	}
	buf := ctx.Buffer
	n := 0
	for i := 0; i+1 < len(buf.Items); {
		base, mark := buf.Items[i], buf.Items[i+1]
		if base.Codepoint < 0 || mark.Codepoint < 0 || mark.Category != ot.MarkGlyph {
			i++
			continue
		}
		ab, ok := presentationForm(base.Codepoint, mark.Codepoint)
		if !ok {
			i++
			continue
		}
		g, ok := ctx.Font.CodepointToGlyph(ab)
		if !ok {
			i++
			continue
		}
		base.Codepoint = ab
		base.SetGlyph(ctx.Font, g)
		buf.Items = slices.Delete(buf.Items, i+1, i+2)
		n++ // stay at i, the composed form may take another mark
	}
	if n > 0 {
		tracer().Debugf("composed %d presentation forms", n)
		buf.ResetMask()
	}
	return nil
}

// presentationForm returns the presentation form of base a with mark b.
// These forms are excluded from canonical composition.
func presentationForm(a, b rune) (rune, bool) {
	var ab rune
	switch b {
	case 0x05B4: // HIRIQ
		if a == 0x05D9 { // YOD
			return 0xFB1D, true
		}
	case 0x05B7: // PATAH
		if a == 0x05F2 { // YIDDISH YOD YOD
			return 0xFB1F, true
		}
		if a == 0x05D0 { // ALEF
			return 0xFB2E, true
		}
	case 0x05B8: // QAMATS
		if a == 0x05D0 { // ALEF
			return 0xFB2F, true
		}
	case 0x05B9: // HOLAM
		if a == 0x05D5 { // VAV
			return 0xFB4B, true
		}
	case 0x05BC: // DAGESH
		if a >= 0x05D0 && a <= 0x05EA {
			ab = dageshForms[a-0x05D0]
			return ab, ab != 0
		}
		if a == 0xFB2A { // SHIN WITH SHIN DOT
			return 0xFB2C, true
		}
		if a == 0xFB2B { // SHIN WITH SIN DOT
			return 0xFB2D, true
		}
	case 0x05BF: // RAFE
		switch a {
		case 0x05D1: // BET
			return 0xFB4C, true
		case 0x05DB: // KAF
			return 0xFB4D, true
		case 0x05E4: // PE
			return 0xFB4E, true
		}
	case 0x05C1: // SHIN DOT
		if a == 0x05E9 { // SHIN
			return 0xFB2A, true
		}
		if a == 0xFB49 { // SHIN WITH DAGESH
			return 0xFB2C, true
		}
	case 0x05C2: // SIN DOT
		if a == 0x05E9 { // SHIN
			return 0xFB2B, true
		}
		if a == 0xFB49 { // SHIN WITH DAGESH
			return 0xFB2D, true
		}
	}
	return 0, false
}
