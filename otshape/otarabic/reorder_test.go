package otarabic

import (
	"testing"

	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/stretchr/testify/assert"
)

func codepoints(buf *otlayout.Buffer) (cps []rune, clusters []int) {
	for _, item := range buf.Items {
		cps = append(cps, item.Codepoint)
		clusters = append(clusters, item.Cluster)
	}
	return
}

func TestReorderModifierMarks(t *testing.T) {
	buf := otlayout.NewBuffer(nil)
	// beh, fatha (ccc 30), kasra (ccc 32), hamza above (ccc 230)
	buf.StoreUnicode("\u0628\u064E\u0650\u0654 \u0628")
	reorderModifierMarks(buf)
	cps, clusters := codepoints(buf)
	assert.Equal(t, []rune{0x0628, 0x0654, 0x064E, 0x0650, ' ', 0x0628}, cps)
	assert.Equal(t, []int{0, 1, 1, 1, 4, 5}, clusters)
}

func TestReorderKeepsOrdinaryMarks(t *testing.T) {
	buf := otlayout.NewBuffer(nil)
	// fatha and shadda (ccc 33) are not modifiers
	buf.StoreUnicode("\u0628\u064E\u0651")
	reorderModifierMarks(buf)
	cps, clusters := codepoints(buf)
	assert.Equal(t, []rune{0x0628, 0x064E, 0x0651}, cps)
	assert.Equal(t, []int{0, 1, 2}, clusters)
}

func TestPresentationForms(t *testing.T) {
	for _, c := range []struct {
		r    rune
		form otlayout.JoinForm
		want rune
	}{
		{0x0633, otlayout.JoinInit, 0xFEB3},
		{0x0633, otlayout.JoinMedi, 0xFEB4},
		{0x0627, otlayout.JoinFina, 0xFE8E},
		{0x0627, otlayout.JoinIsol, 0xFE8D},
		{0x0623, otlayout.JoinIsol, 0xFE83},
		{0x0628, otlayout.JoinMed2, 0xFE92},
	} {
		p, ok := presentationForm(c.r, c.form)
		assert.True(t, ok, "U+%04X %s", c.r, c.form)
		assert.Equal(t, c.want, p, "U+%04X %s", c.r, c.form)
	}
	_, ok := presentationForm(0x0633, otlayout.JoinNone)
	assert.False(t, ok)
	_, ok = presentationForm('A', otlayout.JoinIsol)
	assert.False(t, ok)
}
