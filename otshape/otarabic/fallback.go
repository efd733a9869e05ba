package otarabic

import (
	"strings"
	"sync"
	"unicode"

	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/unicode/runenames"
)

// presentationForms holds the encoded presentation forms of a letter,
// indexed by join form. 0 means there is no such form.
type presentationForms [otlayout.JoinMed2 + 1]rune

var (
	presentationOnce   sync.Once
	presentationByBase map[rune]presentationForms
)

func presentationTable() map[rune]presentationForms {
	presentationOnce.Do(func() {
		presentationByBase = make(map[rune]presentationForms, 256)
		addRange := func(from, to rune) {
			for u := from; u <= to; u++ {
				form, ok := presentationFormFromName(u)
				if !ok {
					continue
				}
				base := presentationBaseRune(u)
				if base == 0 {
					continue
				}
				forms := presentationByBase[base]
				if forms[form] == 0 {
					forms[form] = u
				}
				presentationByBase[base] = forms
			}
		}
		addRange(0xFB50, 0xFDFF) // Arabic Presentation Forms-A
		addRange(0xFE70, 0xFEFF) // Arabic Presentation Forms-B
	})
	return presentationByBase
}

// presentationFormFromName derives the join form of a presentation form
// character from its Unicode name.
func presentationFormFromName(u rune) (otlayout.JoinForm, bool) {
	name := runenames.Name(u)
	if !strings.HasPrefix(name, "ARABIC LETTER") {
		return otlayout.JoinNone, false
	}
	switch {
	case strings.HasSuffix(name, "ISOLATED FORM"):
		return otlayout.JoinIsol, true
	case strings.HasSuffix(name, "FINAL FORM"):
		return otlayout.JoinFina, true
	case strings.HasSuffix(name, "INITIAL FORM"):
		return otlayout.JoinInit, true
	case strings.HasSuffix(name, "MEDIAL FORM"):
		return otlayout.JoinMedi, true
	}
	return otlayout.JoinNone, false
}

// presentationBaseRune returns the letter a single-letter presentation form
// stands for, in NFC. Ligature forms stand for more than one letter and
// yield 0.
func presentationBaseRune(u rune) rune {
	base := []rune(norm.NFC.String(norm.NFKD.String(string(u))))
	if len(base) != 1 || !unicode.In(base[0], unicode.Arabic) {
		return 0
	}
	return base[0]
}

// presentationForm returns the encoded presentation form of letter r in the
// given join form. Syriac-only forms fall back to their Arabic counterparts.
func presentationForm(r rune, form otlayout.JoinForm) (rune, bool) {
	forms, ok := presentationTable()[r]
	if !ok {
		return 0, false
	}
	switch form {
	case otlayout.JoinFin2, otlayout.JoinFin3:
		form = otlayout.JoinFina
	case otlayout.JoinMed2:
		form = otlayout.JoinMedi
	case otlayout.JoinNone:
		return 0, false
	}
	p := forms[form]
	return p, p != 0
}

// fallbackForms shapes Arabic with fonts lacking form features: each
// letter's glyph is replaced by the font's glyph for the encoded
// presentation form of its join form.
func fallbackForms(ctx *otshape.ShapeContext) error {
	for _, form := range formFeatures {
		if ctx.Features.HasFeature(form.Tag()) {
			return nil
		}
	}
	n := 0
	for _, item := range ctx.Buffer.Items {
		if item.Codepoint < 0 || item.Flags&(otlayout.Ligated|otlayout.Multiplied) != 0 {
			continue
		}
		p, ok := presentationForm(item.Codepoint, item.JoinForm)
		if !ok {
			continue
		}
		if g, ok := ctx.Font.CodepointToGlyph(p); ok {
			item.SetGlyph(ctx.Font, g)
			item.Flags |= otlayout.Substituted
			n++
		}
	}
	if n > 0 {
		tracer().Debugf("substituted %d presentation forms", n)
	}
	return nil
}
