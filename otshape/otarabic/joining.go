package otarabic

import (
	"unicode"

	ucd "github.com/benoitkugler/textlayout/unicodedata"
	"github.com/npillmayer/fontfeatures/otlayout"
)

// joiningClass is the input alphabet of the joining state machine.
// Join-causing characters (ZWJ, tatweel) are treated as dual-joining.
type joiningClass uint8

const (
	jcU           joiningClass = iota // non-joining
	jcL                               // left-joining
	jcR                               // right-joining
	jcD                               // dual-joining
	jcAlaph                           // Syriac ALAPH
	jcDalathRish                      // Syriac DALATH, RISH and relatives
	jcTransparent                     // skipped entirely
)

// classify collapses the Unicode joining type of a codepoint to the classes of
// the state machine. Codepoints without a joining type are transparent if
// they are marks or format controls, non-joining otherwise.
func classify(r rune) joiningClass {
	switch ucd.ArabicJoinings[r] {
	case ucd.D, ucd.C:
		return jcD
	case ucd.R:
		return jcR
	case ucd.L:
		return jcL
	case ucd.Alaph:
		return jcAlaph
	case ucd.DalathRish:
		return jcDalathRish
	case ucd.T, ucd.G:
		return jcTransparent
	case ucd.U:
		return jcU
	}
	if r >= 0 && unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf) {
		return jcTransparent
	}
	return jcU
}

type joiningTransition struct {
	prev, cur otlayout.JoinForm
	next      uint8
}

const (
	fNone = otlayout.JoinNone
	fIsol = otlayout.JoinIsol
	fInit = otlayout.JoinInit
	fMedi = otlayout.JoinMedi
	fFina = otlayout.JoinFina
	fFin2 = otlayout.JoinFin2
	fFin3 = otlayout.JoinFin3
	fMed2 = otlayout.JoinMed2
)

// joiningFSM has 7 states and a column per joining class (transparent
// excluded). A transition yields the form of the previous non-transparent
// item, which is assigned retroactively, the form of the current item and
// the next state.
var joiningFSM = [7][6]joiningTransition{
	// 0: previous item was U, not willing to join
	{{fNone, fNone, 0}, {fNone, fIsol, 2}, {fNone, fIsol, 1}, {fNone, fIsol, 2}, {fNone, fIsol, 1}, {fNone, fIsol, 6}},
	// 1: previous was R or ISOL ALAPH, not willing to join
	{{fNone, fNone, 0}, {fNone, fIsol, 2}, {fNone, fIsol, 1}, {fNone, fIsol, 2}, {fNone, fFin2, 5}, {fNone, fIsol, 6}},
	// 2: previous was D or L in ISOL form, willing to join
	{{fNone, fNone, 0}, {fNone, fIsol, 2}, {fInit, fFina, 1}, {fInit, fFina, 3}, {fInit, fFina, 4}, {fInit, fFina, 6}},
	// 3: previous was D in FINA form, willing to join
	{{fNone, fNone, 0}, {fNone, fIsol, 2}, {fMedi, fFina, 1}, {fMedi, fFina, 3}, {fMedi, fFina, 4}, {fMedi, fFina, 6}},
	// 4: previous was FINA ALAPH, not willing to join
	{{fNone, fNone, 0}, {fNone, fIsol, 2}, {fMed2, fIsol, 1}, {fMed2, fIsol, 2}, {fMed2, fFin2, 5}, {fMed2, fIsol, 6}},
	// 5: previous was FIN2/FIN3 ALAPH, not willing to join
	{{fNone, fNone, 0}, {fNone, fIsol, 2}, {fIsol, fIsol, 1}, {fIsol, fIsol, 2}, {fIsol, fFin2, 5}, {fIsol, fIsol, 6}},
	// 6: previous was DALATH/RISH, not willing to join
	{{fNone, fNone, 0}, {fNone, fIsol, 2}, {fNone, fIsol, 1}, {fNone, fIsol, 2}, {fNone, fFin3, 5}, {fNone, fIsol, 6}},
}

// JoiningForms computes the join form of every codepoint of a sequence.
// Transparent characters (marks) get JoinNone and do not interrupt joining.
// Negative runes are treated as non-joining.
func JoiningForms(runes []rune) []otlayout.JoinForm {
	forms := make([]otlayout.JoinForm, len(runes))
	prev, state := -1, uint8(0)
	for i, r := range runes {
		class := classify(r)
		if class == jcTransparent {
			continue
		}
		t := joiningFSM[state][class]
		if t.prev != fNone && prev >= 0 {
			forms[prev] = t.prev
		}
		forms[i] = t.cur
		prev, state = i, t.next
	}
	return forms
}

// AssignJoiningForms sets the join form of every item of a buffer, from the
// items' codepoints.
func AssignJoiningForms(buf *otlayout.Buffer) {
	runes := make([]rune, len(buf.Items))
	for i, item := range buf.Items {
		runes[i] = item.Codepoint
	}
	for i, form := range JoiningForms(runes) {
		buf.Items[i].JoinForm = form
	}
	tracer().Debugf("joining forms assigned to %d items", len(runes))
}
