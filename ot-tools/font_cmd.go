package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/fontfeatures/otquery"
	"github.com/thatisuday/commando"
)

func runFontCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	tf := mustLoadTypeface(args, flags)
	fmt.Printf("Path: %s\n", args["font"].Value)
	if tf.sfnt != nil {
		printFontInfo(tf)
	} else {
		printRuleSetInfo(tf)
	}
	for _, r := range args["glyphs"].Value {
		if r == ',' || r == ' ' {
			continue
		}
		g, ok := tf.font.CodepointToGlyph(r)
		if !ok {
			fmt.Printf("U+%04X: not in font\n", r)
			continue
		}
		cat, class := tf.font.GlyphCategory(g)
		fmt.Printf("U+%04X: glyph %d %q %s class=%d advance=%d", r, g, tf.font.GlyphName(g),
			cat, class, tf.font.GlyphAdvance(g))
		if tf.sfnt != nil {
			m := otquery.GlyphMetrics(tf.sfnt.SFNT, g)
			fmt.Printf(" lsb=%d rsb=%d bbox=(%d,%d)-(%d,%d)", m.LSB, m.RSB,
				m.BBox.MinX, m.BBox.MinY, m.BBox.MaxX, m.BBox.MaxY)
		}
		fmt.Println()
	}
}

func printFontInfo(tf *typeface) {
	f := tf.sfnt.SFNT
	family, subfamily := tf.sfnt.FamilyName()
	fmt.Printf("Family: %s\n", family)
	fmt.Printf("Subfamily: %s\n", subfamily)
	fmt.Printf("Glyphs: %d\n", f.NumGlyphs())
	m := otquery.FontMetrics(f)
	fmt.Printf("Metrics: upem=%d ascent=%d descent=%d linegap=%d maxadvance=%d\n",
		m.UnitsPerEm, m.Ascent, m.Descent, m.LineGap, m.MaxAdvance)
	for id, value := range otquery.NamesRange(f) {
		fmt.Printf("Name %2d: %s\n", id, value)
	}
}

func printRuleSetInfo(tf *typeface) {
	fmt.Printf("Routines: %d\n", len(tf.rules.Routines))
	tags := tf.rules.FeatureTags()
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	for _, tag := range tags {
		var names []string
		for _, r := range tf.rules.RoutinesFor(tag) {
			names = append(names, r.Name)
		}
		fmt.Printf("Feature %s: %s\n", tag, strings.Join(names, ", "))
	}
	if err := tf.rules.Validate(); err != nil {
		fmt.Printf("Invalid: %v\n", err)
	}
}
