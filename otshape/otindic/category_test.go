package otindic

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	for _, c := range []struct {
		r   rune
		cat Category
		pos Position
	}{
		{0x0915, CatC, PosBaseC},           // ka
		{0x0930, CatRa, PosBaseC},          // ra
		{0x0905, CatV, PosBaseC},           // a
		{0x094D, CatH, PosEnd},             // virama
		{0x093C, CatN, PosEnd},             // nukta
		{0x093F, CatM, PosPreM},            // i sign
		{0x0940, CatM, PosAfterSub},        // ii sign
		{0x0947, CatM, PosAfterSub},        // e sign, top
		{0x0902, CatSM, PosSMVD},           // anusvara
		{0x0966, CatPlaceholder, PosBaseC}, // digit zero
		{0x09BF, CatM, PosPreM},            // bengali i sign
		{0x09C0, CatM, PosAfterPost},       // bengali ii sign
		{0x09F0, CatRa, PosBaseC},          // assamese ra
		{0x0B3F, CatM, PosAfterMain},       // oriya i sign, top
		{0x0B01, CatSM, PosBeforeSub},      // oriya candrabindu
		{0x0BC6, CatM, PosPreM},            // tamil e sign
		{0x0C41, CatM, PosBeforeSub},       // telugu u sign
		{0x0C43, CatM, PosAfterSub},        // telugu vocalic r sign
		{0x0D4E, CatRepha, PosEnd},         // malayalam dot reph
		{0x0D7B, CatC, PosBaseC},           // malayalam chillu
		{0x0DCA, CatH, PosEnd},             // sinhala al-lakuna
		{0x0DD9, CatM, PosPreM},            // sinhala kombuva
		{0x0DBB, CatRa, PosBaseC},          // sinhala ra
		{0x200D, CatZWJ, PosEnd},
		{0x200C, CatZWNJ, PosEnd},
		{0x25CC, CatDottedCircle, PosBaseC},
		{'A', CatX, PosEnd},
	} {
		cat, pos := Categorize(c.r)
		assert.Equal(t, c.cat, cat, "category of U+%04X", c.r)
		assert.Equal(t, c.pos, pos, "position of U+%04X is %s", c.r, pos)
	}
}

func TestSplitMatras(t *testing.T) {
	assert.True(t, isSplitMatra(0x0BCA))  // tamil o
	assert.True(t, isSplitMatra(0x09CB))  // bengali o
	assert.True(t, isSplitMatra(0x0DDA))  // sinhala diga kombuva
	assert.False(t, isSplitMatra(0x093F)) // devanagari i
	assert.False(t, isSplitMatra('a'))
}

func TestScriptOf(t *testing.T) {
	assert.Equal(t, language.Devanagari, ScriptOf(0x0915))
	assert.Equal(t, language.Kannada, ScriptOf(0x0C95))
	assert.Equal(t, language.Sinhala, ScriptOf(0x0D9A))
	assert.Equal(t, language.Unknown, ScriptOf('x'))
}

func TestConfigsCoverIndicScripts(t *testing.T) {
	configured := make(map[language.Script]bool)
	for _, c := range DefaultConfigs() {
		assert.NotZero(t, c.Virama, c.Script.String())
		cat, _ := Categorize(c.Virama)
		assert.Equal(t, CatH, cat, "virama of %s", c.Script)
		configured[c.Script] = true
	}
	assert.Equal(t, indicScripts, configured)
}
