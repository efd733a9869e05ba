package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/thatisuday/commando"
)

func runShapeCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	tf := mustLoadTypeface(args, flags)
	sh := newShaper(tf, flags)
	buf := newBuffer(sh, args, flags)
	if err := sh.Shape(buf); err != nil {
		fatalf("shape failed: %v", err)
	}
	opts := otlayout.TraceOptions{
		Names:     true,
		Positions: mustFlagBool(flags["positions"], "positions"),
		Clusters:  mustFlagBool(flags["clusters"], "clusters"),
		Attribute: mustFlagString(flags["attribute"], "attribute"),
	}
	fmt.Printf("[%s]\n", otlayout.Serialize(buf, opts))
}

func runPlanCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	tf := mustLoadTypeface(args, flags)
	sh := newShaper(tf, flags)
	buf := newBuffer(sh, args, flags)
	plan, engine, err := sh.Plan(buf)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Script:    %s (%s)\n", buf.Script, tf.font.SupportedScript(buf.Script))
	fmt.Printf("Direction: %s\n", directionName(buf))
	fmt.Printf("Engine:    %s\n", engine.Name())
	fmt.Printf("Plan:      %s\n", plan)
	var missing []string
	for _, tag := range plan.Tags() {
		if !tf.rules.HasFeature(tag) {
			missing = append(missing, tag.String())
		}
	}
	if len(missing) > 0 {
		fmt.Printf("No rules:  %s\n", strings.Join(missing, " "))
	}
}

func directionName(buf *otlayout.Buffer) string {
	if buf.IsRTL() {
		return "rtl"
	}
	return "ltr"
}
