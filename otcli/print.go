package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"github.com/pterm/pterm"
)

// printBuffer prints the items of a shaped buffer in logical order, followed by
// the trace in visual order.
func printBuffer(buf *otlayout.Buffer, attr string) {
	header := []string{"#", "Glyph", "Name", "Cluster", "Advance", "Offset", "Flags"}
	if attr != "" {
		header = append(header, attr)
	}
	data := [][]string{header}
	for i, item := range buf.Items {
		row := []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", item.Glyph),
			buf.Font.GlyphName(item.Glyph),
			fmt.Sprintf("%d", item.Cluster),
			fmt.Sprintf("%d", item.Position.XAdvance),
			fmt.Sprintf("%d,%d", item.Position.XPlacement, item.Position.YPlacement),
			formatItemFlags(item.Flags),
		}
		if attr != "" {
			v, _ := item.Attribute(attr)
			row = append(row, v)
		}
		data = append(data, row)
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	opts := otlayout.TraceOptions{Names: true, Clusters: true, Positions: true}
	pterm.Printf("[%s]\n", otlayout.Serialize(buf, opts))
}

func formatItemFlags(flags otlayout.ItemFlags) string {
	parts := make([]string, 0, 3)
	if flags&otlayout.Substituted != 0 {
		parts = append(parts, "sub")
	}
	if flags&otlayout.Ligated != 0 {
		parts = append(parts, "lig")
	}
	if flags&otlayout.Multiplied != 0 {
		parts = append(parts, "mult")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "|")
}

func printPlan(intp *Intp, buf *otlayout.Buffer, plan *otshape.Plan, engine otshape.ShapingEngine) {
	pterm.Printf("engine %s for script %s (%s), direction rtl=%v\n", engine.Name(), buf.Script,
		intp.font.SupportedScript(buf.Script), buf.IsRTL())
	data := [][]string{{"Stage", "Features", "Per syllable", "No rules"}}
	for i := 0; i < plan.StageCount(); i++ {
		tags := plan.StageTags(i)
		if len(tags) == 0 {
			continue
		}
		var all, syl, missing []string
		for _, tag := range tags {
			all = append(all, tag.String())
			if plan.PerSyllable(tag) {
				syl = append(syl, tag.String())
			}
			if !intp.rules.HasFeature(tag) {
				missing = append(missing, tag.String())
			}
		}
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			strings.Join(all, " "),
			strings.Join(syl, " "),
			strings.Join(missing, " "),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printRules(rules *otlayout.Features) {
	tags := rules.FeatureTags()
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	data := [][]string{{"Feature", "Routines"}}
	for _, tag := range tags {
		var names []string
		for _, r := range rules.RoutinesFor(tag) {
			names = append(names, r.Name)
		}
		data = append(data, []string{tag.String(), strings.Join(names, ", ")})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if err := rules.Validate(); err != nil {
		pterm.Error.Println(err)
	}
}

func printRoutine(font otlayout.FontAccess, r *otlayout.Routine) {
	pterm.Printf("Routine %s: flags=%s\n", r.Name, formatLookupFlags(r.Flags))
	data := [][]string{{"Rule", "Kind", "Precontext", "Input", "Postcontext"}}
	for i, rule := range r.Rules {
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			formatRuleKind(rule),
			formatGlyphSets(font, rule.Precontext()),
			formatGlyphSets(font, rule.Coverage()),
			formatGlyphSets(font, rule.Postcontext()),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func formatRuleKind(rule otlayout.Rule) string {
	switch rule := rule.(type) {
	case *otlayout.Substitution:
		if rule.Mapping != nil {
			return fmt.Sprintf("sub map(%d)", len(rule.Mapping))
		}
		return fmt.Sprintf("sub %d→%d", len(rule.Input), len(rule.Output))
	case *otlayout.Positioning:
		return "pos"
	case *otlayout.Attachment:
		return "attach " + rule.Kind.String()
	case *otlayout.Chaining:
		return "chain " + rule.Stage().String()
	}
	return fmt.Sprintf("%T", rule)
}

// formatGlyphSets prints glyph sets as "[a b] [c]", abbreviating large sets.
func formatGlyphSets(font otlayout.FontAccess, sets []ot.GlyphSet) string {
	if len(sets) == 0 {
		return "-"
	}
	parts := make([]string, len(sets))
	for i, set := range sets {
		if set.Len() > 4 {
			parts[i] = fmt.Sprintf("[%d glyphs]", set.Len())
			continue
		}
		var names []string
		for _, g := range set.Glyphs() {
			if name := font.GlyphName(g); name != "" {
				names = append(names, name)
			} else {
				names = append(names, fmt.Sprintf("%d", g))
			}
		}
		parts[i] = "[" + strings.Join(names, " ") + "]"
	}
	return strings.Join(parts, " ")
}

func formatLookupFlags(flag ot.LayoutTableLookupFlag) string {
	if flag == 0 {
		return "-"
	}
	parts := make([]string, 0, 6)
	if flag&ot.LOOKUP_FLAG_RIGHT_TO_LEFT != 0 {
		parts = append(parts, "RightToLeft")
	}
	if flag&ot.LOOKUP_FLAG_IGNORE_BASE_GLYPHS != 0 {
		parts = append(parts, "IgnoreBase")
	}
	if flag&ot.LOOKUP_FLAG_IGNORE_LIGATURES != 0 {
		parts = append(parts, "IgnoreLigatures")
	}
	if flag&ot.LOOKUP_FLAG_IGNORE_MARKS != 0 {
		parts = append(parts, "IgnoreMarks")
	}
	if flag&ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET != 0 {
		parts = append(parts, "UseMarkFilteringSet")
	}
	if class := flag.MarkAttachmentType(); class != 0 {
		parts = append(parts, fmt.Sprintf("MarkAttachType=%d", class))
	}
	return strings.Join(parts, "|")
}
