package otindic

import (
	"fmt"
	"regexp"

	"github.com/npillmayer/fontfeatures/otlayout"
)

// SyllableRule is a rule of a syllable machine: a regular expression over
// item tokens and the syllable type of its matches. Every item is represented
// by a one-byte token.
type SyllableRule struct {
	Type    uint8
	Pattern string
}

// SyllableMachine splits a run of items into syllables.
//
// At every position, all rules are tried and the longest match wins; for
// matches of equal length the rule listed first wins. Rules matching the
// empty string never make progress and are ignored at that position.
type SyllableMachine struct {
	rules []compiledRule
}

type compiledRule struct {
	typ uint8
	re  *regexp.Regexp
}

// Span is a syllable found by a syllable machine, [Start, End) in items.
type Span struct {
	Start, End int
	Type       uint8
}

// NewSyllableMachine compiles a syllable machine from rules, in priority
// order.
func NewSyllableMachine(rules ...SyllableRule) (*SyllableMachine, error) {
	m := &SyllableMachine{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		re, err := regexp.Compile(`^(?:` + r.Pattern + `)`)
		if err != nil {
			return nil, fmt.Errorf("syllable rule %d: %w", r.Type, err)
		}
		re.Longest()
		m.rules = append(m.rules, compiledRule{typ: r.Type, re: re})
	}
	return m, nil
}

// MustSyllableMachine is like NewSyllableMachine, but panics on malformed rules.
func MustSyllableMachine(rules ...SyllableRule) *SyllableMachine {
	m, err := NewSyllableMachine(rules...)
	if err != nil {
		panic(err)
	}
	return m
}

// Find splits a token string into syllables. If no rule matches at some
// position, ErrSyllable is returned.
func (m *SyllableMachine) Find(tokens string) ([]Span, error) {
	var spans []Span
	for pos := 0; pos < len(tokens); {
		best, typ := 0, uint8(0)
		for _, r := range m.rules {
			loc := r.re.FindStringIndex(tokens[pos:])
			if loc != nil && loc[1] > best {
				best, typ = loc[1], r.typ
			}
		}
		if best == 0 {
			return spans, fmt.Errorf("at item %d (%q): %w", pos, tokens[pos], ErrSyllable)
		}
		spans = append(spans, Span{Start: pos, End: pos + best, Type: typ})
		pos += best
	}
	return spans, nil
}

// Syllabify finds the syllables of buf's items. Every item is tagged with the
// serial number of its syllable, starting at 1, and the syllable type.
func (m *SyllableMachine) Syllabify(buf *otlayout.Buffer, token func(*otlayout.BufferItem) byte) error {
	tokens := make([]byte, len(buf.Items))
	for i, item := range buf.Items {
		tokens[i] = token(item)
	}
	spans, err := m.Find(string(tokens))
	if err != nil {
		return err
	}
	for n, span := range spans {
		for _, item := range buf.Items[span.Start:span.End] {
			item.Syllable = n + 1
			item.SyllableType = span.Type
		}
	}
	return nil
}

// Syllables returns the spans of buf's syllables, as tagged by Syllabify.
func Syllables(buf *otlayout.Buffer) []Span {
	var spans []Span
	for start := 0; start < len(buf.Items); {
		end := start + 1
		for end < len(buf.Items) && buf.Items[end].Syllable == buf.Items[start].Syllable {
			end++
		}
		spans = append(spans, Span{Start: start, End: end, Type: buf.Items[start].SyllableType})
		start = end
	}
	return spans
}

// Syllable types of the Indic syllable machine.
const (
	ConsonantSyllable uint8 = iota
	VowelSyllable
	StandaloneCluster
	SymbolCluster
	BrokenCluster
	NonIndicCluster
)

// indicMachine is the syllable grammar of Indic scripts, over the tokens of
// Category.Token.
var indicMachine = func() *SyllableMachine {
	const (
		c      = `[CR]`
		n      = `(?:NN?)?`
		z      = `[jn]`
		reph   = `(?:RH|p)`
		cn     = c + `j?` + n
		symbol = `sN?`
		matra  = z + `*MN?H?`
		tail   = `(?:` + z + `?SS?n?)?A*`
		halant = `(?:` + z + `?H(?:jN?)?)`
		final  = `(?:` + halant + `|Hn)`
		medial = `m?`
		homg   = `(?:` + final + `|(?:` + matra + `)*)`
		ctail  = `(?:` + halant + cn + `)*` + medial + homg + tail
	)
	return MustSyllableMachine(
		SyllableRule{ConsonantSyllable, `[pc]?` + cn + ctail},
		SyllableRule{VowelSyllable, reph + `?V` + n + `(?:j|` + ctail + `)`},
		SyllableRule{StandaloneCluster, `(?:[pc]?P|` + reph + `?D)` + n + ctail},
		SyllableRule{SymbolCluster, symbol + tail},
		SyllableRule{BrokenCluster, reph + `?` + n + ctail},
		SyllableRule{NonIndicCluster, `[xjn]`},
	)
}()

// IndicMachine returns the syllable machine for Indic scripts.
func IndicMachine() *SyllableMachine {
	return indicMachine
}
