package otuse

import (
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape/otindic"
)

// Cluster types of the USE syllable machine.
const (
	ViramaTerminatedCluster uint8 = iota
	SakotTerminatedCluster
	StandardCluster
	NumberJoinerTerminatedCluster
	NumeralCluster
	SymbolCluster
	BrokenCluster
	NonCluster
)

// useMachine is the USE cluster grammar over the tokens of Category.Token.
var useMachine = func() *otindic.SyllableMachine {
	const (
		h          = `[HVIK]`
		consMods   = `5*6*(?:(?:` + h + `B|U)5?6*)*`
		medials    = `7?8?9?0?`
		vowels     = `(?:e*a*b*p*|H)`
		vowelMods  = `V?1*2*3*4*`
		finals     = `f*g*F*`
		finalMods  = `(?:m*M*|P?)`
		start      = `[RC]?[BG]`
		middle     = consMods + medials + vowels + vowelMods + `(?:KB)*`
		ctail      = middle + finals + finalMods
		njTail     = `(?:nN)*n`
		numTail    = `(?:nN)+`
		symbolTail = `(?:s+S*|S+)`
		viramaTail = `(?:` + consMods + `I|` + consMods + medials + vowels + vowelMods + h + `)`
		sakotTail  = middle + `K`
		tail       = `(?:` + ctail + `|` + sakotTail + `|` + symbolTail + `|` + viramaTail + `)`
	)
	return otindic.MustSyllableMachine(
		otindic.SyllableRule{Type: ViramaTerminatedCluster, Pattern: start + viramaTail},
		otindic.SyllableRule{Type: SakotTerminatedCluster, Pattern: start + sakotTail},
		otindic.SyllableRule{Type: StandardCluster, Pattern: start + ctail},
		otindic.SyllableRule{Type: NumberJoinerTerminatedCluster, Pattern: `N` + njTail},
		otindic.SyllableRule{Type: NumeralCluster, Pattern: `N` + numTail + `?`},
		otindic.SyllableRule{Type: SymbolCluster, Pattern: `[OG]` + tail + `?`},
		otindic.SyllableRule{Type: BrokenCluster, Pattern: `R?(?:` + tail + `|` + njTail + `|` + numTail + `)`},
		otindic.SyllableRule{Type: NonCluster, Pattern: `[jzw]`},
	)
}()

// Machine returns the syllable machine of the Universal Shaping Engine.
func Machine() *otindic.SyllableMachine {
	return useMachine
}

func category(item *otlayout.BufferItem) Category {
	return Category(item.ShaperCategory)
}
