package otuse

import (
	"testing"

	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	for _, c := range []struct {
		r   rune
		cat Category
	}{
		{0x1B13, CatB},     // balinese ka
		{0x1B44, CatH},     // balinese adeg adeg
		{0x1B3E, CatVPre},  // balinese taling
		{0x1B04, CatVMPst}, // balinese bisah
		{0x1BAB, CatIS},    // sundanese virama
		{0x1A60, CatSk},    // tai tham sakot
		{0xA9C0, CatH},     // javanese pangkon
		{0x0915, CatB},     // devanagari ka
		{0x0905, CatB},     // devanagari a
		{0x093F, CatVPre},  // devanagari i sign
		{0x0947, CatVAbv},  // devanagari e sign
		{0x0941, CatVBlw},  // devanagari u sign
		{0x093E, CatVPst},  // devanagari aa sign
		{0x0902, CatVMAbv}, // anusvara
		{0x0903, CatVMPst}, // visarga
		{0x093C, CatCMBlw}, // nukta
		{0x094D, CatH},     // virama
		{0x0D4E, CatR},     // malayalam dot reph
		{0x0CF1, CatCS},    // kannada jihvamuliya
		{0x25CC, CatGB},
		{0x034F, CatCGJ},
		{0x200C, CatZWNJ},
		{'7', CatN},
		{' ', CatO},
		{-1, CatO},
	} {
		assert.Equal(t, c.cat, Categorize(c.r), "category of U+%04X is %s", c.r, Categorize(c.r))
	}
}

func TestMachine(t *testing.T) {
	for _, c := range []struct {
		tokens string
		types  []uint8
	}{
		{"BHB", []uint8{StandardCluster}},
		{"BH", []uint8{ViramaTerminatedCluster}},
		{"Be", []uint8{StandardCluster}},
		{"RBa4", []uint8{StandardCluster}},
		{"NnN", []uint8{NumeralCluster}},
		{"Nn", []uint8{NumberJoinerTerminatedCluster}},
		{"O2", []uint8{SymbolCluster}},
		{"zB", []uint8{NonCluster, StandardCluster}},
		{"eB", []uint8{BrokenCluster, StandardCluster}},
		{"BzB", []uint8{StandardCluster, NonCluster, StandardCluster}},
	} {
		spans, err := Machine().Find(c.tokens)
		require.NoError(t, err, c.tokens)
		var types []uint8
		for _, span := range spans {
			types = append(types, span.Type)
		}
		assert.Equal(t, c.types, types, c.tokens)
	}
	// a stacker needs a base to follow
	_, err := Machine().Find("C")
	assert.Error(t, err)
}

func TestClusterForms(t *testing.T) {
	forms := func(text string) []otlayout.JoinForm {
		buf := otlayout.NewBuffer(nil)
		buf.StoreUnicode(text)
		require.NoError(t, useMachine.Syllabify(buf, func(item *otlayout.BufferItem) byte {
			return Categorize(item.Codepoint).Token()
		}))
		assignClusterForms(buf)
		var f []otlayout.JoinForm
		for _, item := range buf.Items {
			f = append(f, item.JoinForm)
		}
		return f
	}
	assert.Equal(t, []otlayout.JoinForm{otlayout.JoinIsol}, forms("\u1B13"))
	assert.Equal(t, []otlayout.JoinForm{otlayout.JoinInit, otlayout.JoinFina}, forms("\u1B13\u1B22"))
	assert.Equal(t, []otlayout.JoinForm{otlayout.JoinInit, otlayout.JoinMedi, otlayout.JoinFina},
		forms("\u1B13\u1B22\u1B2D"))
	// a cluster spans both items, ZWNJ breaks joining
	assert.Equal(t, []otlayout.JoinForm{otlayout.JoinIsol, otlayout.JoinIsol, otlayout.JoinNone, otlayout.JoinIsol},
		forms("\u1B13\u1B3E\u200C\u1B22"))
}

func TestReorderCluster(t *testing.T) {
	buf := otlayout.NewBuffer(nil)
	buf.StoreUnicode("abcd")
	for i, cat := range []Category{CatR, CatB, CatB, CatVAbv} {
		buf.Items[i].ShaperCategory = uint8(cat)
	}
	reorderCluster(buf.Items, 0, 4)
	var order []rune
	for _, item := range buf.Items {
		order = append(order, item.Codepoint)
	}
	// the repha stops in front of the above-base vowel
	assert.Equal(t, []rune("bcad"), order)
	assert.Equal(t, []int{0, 0, 0, 3}, []int{buf.Items[0].Cluster, buf.Items[1].Cluster,
		buf.Items[2].Cluster, buf.Items[3].Cluster})
}
