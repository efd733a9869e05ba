package otindic

import (
	"cmp"
	"slices"
	"unicode"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
)

func category(item *otlayout.BufferItem) Category {
	return Category(item.ShaperCategory)
}

func position(item *otlayout.BufferItem) Position {
	return Position(item.ShaperPosition)
}

func setPosition(item *otlayout.BufferItem, pos Position) {
	item.ShaperPosition = uint8(pos)
}

// is reports whether an item is of one of the categories cats. Ligated items
// have lost their identity and are of no category.
func is(item *otlayout.BufferItem, cats ...Category) bool {
	if item.Flags&otlayout.Ligated != 0 {
		return false
	}
	return slices.Contains(cats, category(item))
}

func isConsonant(item *otlayout.BufferItem) bool {
	return item.Flags&otlayout.Ligated == 0 && isConsonantCategory(category(item))
}

func isJoiner(item *otlayout.BufferItem) bool {
	return is(item, CatZWJ, CatZWNJ)
}

func isHalant(item *otlayout.BufferItem) bool {
	return is(item, CatH)
}

func ligatedOnly(item *otlayout.BufferItem) bool {
	return item.Flags&otlayout.Ligated != 0 && item.Flags&otlayout.Multiplied == 0
}

func enable(ctx *otshape.ShapeContext, item *otlayout.BufferItem, tags ...ot.Tag) {
	for _, tag := range tags {
		if ctx.Features.HasFeature(tag) {
			item.SetFeatureMask(tag, false)
		}
	}
}

// --- Initial reordering ----------------------------------------------------

func (s *Shaper) initialReordering(ctx *otshape.ShapeContext) error {
	buf := ctx.Buffer
	s.updateConsonantPositions(ctx)
	for _, span := range Syllables(buf) {
		switch span.Type {
		case ConsonantSyllable, VowelSyllable, StandaloneCluster, BrokenCluster:
			s.reorderSyllable(ctx, span.Start, span.End)
		}
	}
	buf.ResetMask()
	return nil
}

// updateConsonantPositions asks the font where consonants go. A consonant
// forming a below-base form with the virama is a below-base consonant, and so
// on.
func (s *Shaper) updateConsonantPositions(ctx *otshape.ShapeContext) {
	if !s.hasVirama || s.cfg.BasePos != BaseLast {
		return
	}
	known := make(map[ot.GlyphIndex]Position)
	for _, item := range ctx.Buffer.Items {
		if position(item) != PosBaseC {
			continue
		}
		pos, ok := known[item.Glyph]
		if !ok {
			pos = s.consonantPosition(ctx, item.Glyph)
			known[item.Glyph] = pos
		}
		setPosition(item, pos)
	}
}

func (s *Shaper) consonantPosition(ctx *otshape.ShapeContext, g ot.GlyphIndex) Position {
	probe := func(tag ot.Tag) bool {
		return ctx.WouldSubstitute(tag, s.virama, g) || ctx.WouldSubstitute(tag, g, s.virama)
	}
	switch {
	case probe(tagBlwf) || probe(tagVatu):
		return PosBelowC
	case probe(tagPstf) || probe(tagPref):
		return PosPostC
	}
	return PosBaseC
}

// reorderSyllable brings the syllable [start, end) into visual order and
// enables the basic features for the items they apply to.
func (s *Shaper) reorderSyllable(ctx *otshape.ShapeContext, start, end int) {
	items := ctx.Buffer.Items
	cfg := s.cfg
	// Kannada: Ra,H,ZWJ requests a half form of Ra, not a reph
	if ctx.Selection.Script == language.Kannada && start+3 <= end &&
		is(items[start], CatRa) && is(items[start+1], CatH) && is(items[start+2], CatZWJ) {
		otlayout.MergeClusters(items, start+1, start+3)
		items[start+1], items[start+2] = items[start+2], items[start+1]
	}
	base, limit, hasReph := end, start, false
	if ctx.Features.HasFeature(tagRphf) && start+3 <= end &&
		((cfg.RephMode == RephImplicit && !isJoiner(items[start+2])) ||
			(cfg.RephMode == RephExplicit && category(items[start+2]) == CatZWJ)) {
		g := []ot.GlyphIndex{items[start].Glyph, items[start+1].Glyph, items[start+2].Glyph}
		if ctx.WouldSubstitute(tagRphf, g[:2]...) ||
			(cfg.RephMode == RephExplicit && ctx.WouldSubstitute(tagRphf, g...)) {
			limit += 2
			for limit < end && isJoiner(items[limit]) {
				limit++
			}
			base, hasReph = start, true
		}
	} else if cfg.RephMode == RephLogRepha && category(items[start]) == CatRepha {
		limit++
		for limit < end && isJoiner(items[limit]) {
			limit++
		}
		base, hasReph = start, true
	}
	switch cfg.BasePos {
	case BaseLast:
		seenBelow := false
		for i := end - 1; i >= start; i-- {
			if isConsonant(items[i]) {
				pos := position(items[i])
				if pos != PosBelowC && (pos != PosPostC || seenBelow) {
					base = i
					break
				}
				if pos == PosBelowC {
					seenBelow = true
				}
				base = i
			} else if start < i && category(items[i]) == CatZWJ && category(items[i-1]) == CatH {
				// explicit half form requested
				break
			}
			if i <= limit {
				break
			}
		}
	case BaseLastSinhala:
		if !hasReph {
			base = limit
		}
		for i := limit; i < end; i++ {
			if isConsonant(items[i]) {
				if limit < i && category(items[i-1]) == CatZWJ {
					break
				}
				base = i
			}
		}
		for i := base + 1; i < end; i++ {
			if isConsonant(items[i]) {
				setPosition(items[i], PosBelowC)
			}
		}
	}
	if hasReph && base == start && limit-base <= 2 {
		// no other consonant: Ra is the base
		hasReph = false
	}
	for i := start; i < base; i++ {
		setPosition(items[i], min(PosPreC, position(items[i])))
	}
	if base < end {
		setPosition(items[base], PosBaseC)
	}
	s.markFinalConsonant(items, base, end)
	if hasReph {
		setPosition(items[start], PosRaToBecomeReph)
	}
	attachMiscMarks(items, start, end)
	attachToPostBase(items, base, end)
	base = sortSyllable(items, start, end)
	s.enableBasicFeatures(ctx, start, end, base)
}

// markFinalConsonant tags a consonant following a matra after the base.
func (s *Shaper) markFinalConsonant(items []*otlayout.BufferItem, base, end int) {
	for i := base + 1; i < end; i++ {
		if category(items[i]) != CatM {
			continue
		}
		for j := i + 1; j < end; j++ {
			if isConsonant(items[j]) {
				setPosition(items[j], PosFinalC)
				break
			}
		}
		break
	}
}

// attachMiscMarks lets joiners, nuktas, medials and halants move with the
// item before them.
func attachMiscMarks(items []*otlayout.BufferItem, start, end int) {
	last := PosStart
	for i := start; i < end; i++ {
		item := items[i]
		switch category(item) {
		case CatZWJ, CatZWNJ, CatN, CatCM, CatH:
			setPosition(item, last)
			if category(item) == CatH && last == PosPreM {
				// a halant does not move with a left matra
				for j := i; j > start; j-- {
					if position(items[j-1]) != PosPreM {
						setPosition(item, position(items[j-1]))
						break
					}
				}
			}
		default:
			if position(item) != PosSMVD {
				last = position(item)
			}
		}
	}
}

// attachToPostBase lets post-base consonants own everything before them back
// to the previous consonant or matra.
func attachToPostBase(items []*otlayout.BufferItem, base, end int) {
	last := base
	for i := base + 1; i < end; i++ {
		if isConsonant(items[i]) {
			for j := last + 1; j < i; j++ {
				if position(items[j]) < PosSMVD {
					setPosition(items[j], position(items[i]))
				}
			}
			last = i
		} else if category(items[i]) == CatM {
			last = i
		}
	}
}

// sortSyllable stably sorts a syllable by position class and returns the new
// base index. The syllable field serves as the permutation key while sorting.
func sortSyllable(items []*otlayout.BufferItem, start, end int) int {
	syllable := items[start].Syllable
	for i := start; i < end; i++ {
		items[i].Syllable = i - start
	}
	slices.SortStableFunc(items[start:end], func(a, b *otlayout.BufferItem) int {
		return cmp.Compare(position(a), position(b))
	})
	base := end
	firstLeft, lastLeft := end, end
	for i := start; i < end; i++ {
		if position(items[i]) == PosBaseC {
			base = i
			break
		}
		if position(items[i]) == PosPreM {
			if firstLeft == end {
				firstLeft = i
			}
			lastLeft = i
		}
	}
	if firstLeft < lastLeft {
		// keep a sequence of left matras in logical order, nuktas after
		// their matra
		slices.Reverse(items[firstLeft : lastLeft+1])
		i := firstLeft
		for j := i; j <= lastLeft; j++ {
			if category(items[j]) == CatM {
				slices.Reverse(items[i : j+1])
				i = j + 1
			}
		}
	}
	// merge the clusters of items moved across each other after the base
	for i := base; i < end; i++ {
		if items[i].Syllable < 0 {
			continue
		}
		lo, hi := i, i
		for j := start + items[i].Syllable; j != i; {
			lo, hi = min(lo, j), max(hi, j)
			next := start + items[j].Syllable
			items[j].Syllable = -1
			j = next
		}
		otlayout.MergeClusters(items, max(base, lo), hi+1)
	}
	for i := start; i < end; i++ {
		items[i].Syllable = syllable
	}
	return base
}

func (s *Shaper) enableBasicFeatures(ctx *otshape.ShapeContext, start, end, base int) {
	items := ctx.Buffer.Items
	for i := start; i < end && position(items[i]) == PosRaToBecomeReph; i++ {
		enable(ctx, items[i], tagRphf)
	}
	pre := []ot.Tag{tagHalf}
	if s.cfg.BlwfMode == BlwfPreAndPost {
		pre = append(pre, tagBlwf)
	}
	for i := start; i < base; i++ {
		enable(ctx, items[i], pre...)
	}
	for i := base + 1; i < end; i++ {
		enable(ctx, items[i], tagBlwf, tagAbvf, tagPstf)
	}
	if ctx.Features.HasFeature(tagPref) && base+2 < end {
		// a pair forming a pre-base-reordering form
		for i := base + 1; i+1 < end; i++ {
			if ctx.WouldSubstitute(tagPref, items[i].Glyph, items[i+1].Glyph) {
				enable(ctx, items[i], tagPref)
				enable(ctx, items[i+1], tagPref)
				break
			}
		}
	}
	// a ZWNJ prevents half forms of the consonants before it
	for i := start + 1; i < end; i++ {
		if !is(items[i], CatZWNJ) {
			continue
		}
		for j := i - 1; ; j-- {
			if ctx.Features.HasFeature(tagHalf) {
				items[j].SetFeatureMask(tagHalf, true)
			}
			if j <= start || isConsonant(items[j]) {
				break
			}
		}
	}
}

// --- Final reordering ------------------------------------------------------

func (s *Shaper) finalReordering(ctx *otshape.ShapeContext) error {
	buf := ctx.Buffer
	for _, span := range Syllables(buf) {
		s.finalReorderSyllable(ctx, span.Start, span.End)
	}
	buf.ResetMask()
	return nil
}

func (s *Shaper) finalReorderSyllable(ctx *otshape.ShapeContext, start, end int) {
	items := ctx.Buffer.Items
	if s.hasVirama {
		// a virama split off a ligature is a halant again
		for _, item := range items[start:end] {
			if item.Glyph == s.virama && item.Flags&otlayout.Ligated != 0 &&
				item.Flags&otlayout.Multiplied != 0 {
				item.ShaperCategory = uint8(CatH)
				item.Flags &^= otlayout.Ligated | otlayout.Multiplied
			}
		}
	}
	tryPref := ctx.Features.HasFeature(tagPref)
	base := s.findFinalBase(ctx, start, end, &tryPref)
	base = s.reorderPreBaseMatras(ctx, start, end, base)
	base = s.reorderReph(items, start, end, base)
	if tryPref && base+1 < end {
		base = s.reorderPref(ctx, start, end, base)
	}
	// init applies to a left matra at the start of a word
	if position(items[start]) == PosPreM && (start == 0 || !isWordChar(items[start-1].Codepoint)) {
		enable(ctx, items[start], tagInit)
	}
}

func isWordChar(r rune) bool {
	return r < 0 || unicode.In(r, unicode.L, unicode.M, unicode.Cf, unicode.Co)
}

// findFinalBase finds the base consonant after the basic features have been
// applied.
func (s *Shaper) findFinalBase(ctx *otshape.ShapeContext, start, end int, tryPref *bool) int {
	items := ctx.Buffer.Items
	base := start
	for ; base < end; base++ {
		if position(items[base]) < PosBaseC {
			continue
		}
		if *tryPref && base+1 < end {
			for i := base + 1; i < end; i++ {
				if items[i].Masked(tagPref) {
					continue
				}
				if !(items[i].Flags&otlayout.Substituted != 0 && ligatedOnly(items[i])) {
					// a pref candidate which did not form: base is around here
					base = i
					for base < end && isHalant(items[base]) {
						base++
					}
					if base < end {
						setPosition(items[base], PosBaseC)
					}
					*tryPref = false
				}
				break
			}
			if base == end {
				break
			}
		}
		if ctx.Selection.Script == language.Malayalam {
			// skip over below-base forms which did not form
			for i := base + 1; i < end; i++ {
				for i < end && isJoiner(items[i]) {
					i++
				}
				if i == end || !isHalant(items[i]) {
					break
				}
				i++
				for i < end && isJoiner(items[i]) {
					i++
				}
				if i < end && isConsonant(items[i]) && position(items[i]) == PosBelowC {
					base = i
					setPosition(items[base], PosBaseC)
				}
			}
		}
		if start < base && position(items[base]) > PosBaseC {
			base--
		}
		break
	}
	if base == end && start < base && is(items[base-1], CatZWJ) {
		base--
	}
	if base < end {
		for start < base && is(items[base], CatN, CatH) {
			base--
		}
	}
	return base
}

// reorderPreBaseMatras moves pre-base matras after the last standalone
// halant before the base.
func (s *Shaper) reorderPreBaseMatras(ctx *otshape.ShapeContext, start, end, base int) int {
	items := ctx.Buffer.Items
	if start+1 >= end || start >= base {
		return base
	}
	newPos := base - 1
	if base == end {
		newPos = base - 2
	}
	script := ctx.Selection.Script
	if script != language.Malayalam && script != language.Tamil {
		for {
			for newPos > start && !is(items[newPos], CatM, CatH) {
				newPos--
			}
			if isHalant(items[newPos]) && position(items[newPos]) != PosPreM {
				// a ZWJ after the halant keeps the matra in front of it
				if newPos+1 < end && category(items[newPos+1]) == CatZWJ && newPos > start {
					newPos--
					continue
				}
			} else {
				newPos = start
			}
			break
		}
	}
	if start < newPos && position(items[newPos]) != PosPreM {
		for i := newPos; i > start; i-- {
			if position(items[i-1]) != PosPreM {
				continue
			}
			old := i - 1
			if old < base && base <= newPos {
				base--
			}
			matra := items[old]
			copy(items[old:newPos], items[old+1:newPos+1])
			items[newPos] = matra
			otlayout.MergeClusters(items, newPos, min(end, base+1))
			newPos--
		}
		return base
	}
	for i := start; i < base; i++ {
		if position(items[i]) == PosPreM {
			otlayout.MergeClusters(items, i, min(end, base+1))
			break
		}
	}
	return base
}

// reorderReph moves a reph to its script specific place. A reph encoded as
// Ra,H moves only if it ligated, an encoded repha only if it did not.
func (s *Shaper) reorderReph(items []*otlayout.BufferItem, start, end, base int) int {
	if start+1 >= end || position(items[start]) != PosRaToBecomeReph ||
		(category(items[start]) == CatRepha) == ligatedOnly(items[start]) {
		return base
	}
	to := s.rephTarget(items, start, end, base)
	otlayout.MergeClusters(items, start, to+1)
	reph := items[start]
	copy(items[start:to], items[start+1:to+1])
	items[to] = reph
	if start < base && base <= to {
		base--
	}
	return base
}

func (s *Shaper) rephTarget(items []*otlayout.BufferItem, start, end, base int) int {
	// after the first explicit halant between reph and base
	afterHalant := func() (int, bool) {
		p := start + 1
		for p < base && !isHalant(items[p]) {
			p++
		}
		if p < base && isHalant(items[p]) {
			if p+1 < base && isJoiner(items[p+1]) {
				p++
			}
			return p, true
		}
		return 0, false
	}
	rephPos := s.cfg.RephPos
	if rephPos != PosAfterPost {
		if p, ok := afterHalant(); ok {
			return p
		}
		switch rephPos {
		case PosAfterMain:
			p := base
			for p+1 < end && position(items[p+1]) <= PosAfterMain {
				p++
			}
			if p < end {
				return p
			}
		case PosAfterSub:
			p := base
			for p+1 < end && !slices.Contains([]Position{PosPostC, PosAfterPost, PosSMVD}, position(items[p+1])) {
				p++
			}
			if p < end {
				return p
			}
		}
	}
	if p, ok := afterHalant(); ok {
		return p
	}
	// end of the syllable, before syllable modifiers
	p := end - 1
	for p > start && position(items[p]) == PosSMVD {
		p--
	}
	if isHalant(items[p]) {
		// keep a matra,halant sequence after the reph
		for i := base + 1; i < p; i++ {
			if category(items[i]) == CatM {
				p--
			}
		}
	}
	return p
}

// reorderPref moves a pre-base-reordering form in front of the base.
func (s *Shaper) reorderPref(ctx *otshape.ShapeContext, start, end, base int) int {
	items := ctx.Buffer.Items
	for i := base + 1; i < end; i++ {
		if items[i].Masked(tagPref) {
			continue
		}
		if !ligatedOnly(items[i]) {
			break
		}
		newPos := base
		script := ctx.Selection.Script
		if script != language.Malayalam && script != language.Tamil {
			for newPos > start && !is(items[newPos-1], CatM, CatH) {
				newPos--
			}
		}
		if newPos > start && isHalant(items[newPos-1]) && newPos < end && isJoiner(items[newPos]) {
			newPos++
		}
		otlayout.MergeClusters(items, newPos, i+1)
		pref := items[i]
		copy(items[newPos+1:i+1], items[newPos:i])
		items[newPos] = pref
		if newPos <= base && base < i {
			base++
		}
		break
	}
	return base
}
