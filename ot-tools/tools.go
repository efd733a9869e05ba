package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/thatisuday/commando"
	xlang "golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

func main() {
	commando.
		SetExecutableName("ot-tools").
		SetVersion("v0.1.0").
		SetDescription("CLI for testing OpenType shaping rules and fonts.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("shape").
		SetDescription("Shape text with a font or a YAML rule set and print the glyph trace.").
		SetShortDescription("shape text").
		AddArgument("font", "OpenType font file or YAML rule set", "").
		AddArgument("text...", "text to shape", "").
		AddFlag("script,s", "OpenType script tag (e.g. latn, arab, dev2); guessed if empty", commando.String, "-").
		AddFlag("lang,l", "language tag (BCP 47, e.g. en, ar, hi)", commando.String, "-").
		AddFlag("direction,d", "direction: ltr|rtl; guessed if empty", commando.String, "-").
		AddFlag("features,f", "feature list (e.g. liga=1,kern=0,+rlig,-calt)", commando.String, "-").
		AddFlag("codepoints,c", "codepoints instead of text (e.g. U+0627,U+0644)", commando.String, "-").
		AddFlag("fontscripts", "script tags a binary font has rules for (e.g. arab,dev2)", commando.String, "-").
		AddFlag("attribute,a", "scratch attribute to print per glyph (join, syllable, category, position, attach)", commando.String, "-").
		AddFlag("positions,p", "print positions", commando.Bool, nil).
		AddFlag("clusters,C", "print clusters", commando.Bool, nil).
		SetAction(runShapeCommand)

	commando.
		Register("plan").
		SetDescription("Print the shaping engine and feature plan text would be shaped with.").
		SetShortDescription("show shaping plan").
		AddArgument("font", "OpenType font file or YAML rule set", "").
		AddArgument("text...", "sample text", "").
		AddFlag("script,s", "OpenType script tag (e.g. latn, arab, dev2); guessed if empty", commando.String, "-").
		AddFlag("lang,l", "language tag (BCP 47, e.g. en, ar, hi)", commando.String, "-").
		AddFlag("features,f", "feature list (e.g. liga=1,kern=0,+rlig,-calt)", commando.String, "-").
		AddFlag("fontscripts", "script tags a binary font has rules for (e.g. arab,dev2)", commando.String, "-").
		SetAction(runPlanCommand)

	commando.
		Register("view").
		SetDescription("Shape text and render the glyphs to a PNG image.").
		SetShortDescription("shape to image").
		AddArgument("font", "OpenType font file", "").
		AddArgument("text...", "text to shape", "").
		AddFlag("script,s", "OpenType script tag (e.g. latn, arab, dev2); guessed if empty", commando.String, "-").
		AddFlag("lang,l", "language tag (BCP 47, e.g. en, ar, hi)", commando.String, "-").
		AddFlag("direction,d", "direction: ltr|rtl; guessed if empty", commando.String, "-").
		AddFlag("features,f", "feature list (e.g. liga=1,kern=0,+rlig,-calt)", commando.String, "-").
		AddFlag("codepoints,c", "codepoints instead of text (e.g. U+0627,U+0644)", commando.String, "-").
		AddFlag("fontscripts", "script tags the font has rules for (e.g. arab,dev2)", commando.String, "-").
		AddFlag("output,o", "output PNG file", commando.String, "ot-tools-view.png").
		AddFlag("show-bboxes,B", "draw red bounding-box outlines per rendered glyph", commando.Bool, nil).
		AddFlag("ppem,P", "render scale in pixels-per-em", commando.Int, 96).
		AddFlag("width,W", "image width in pixels", commando.Int, 480).
		AddFlag("height,H", "image height in pixels", commando.Int, 240).
		SetAction(runViewCommand)

	commando.
		Register("font").
		SetDescription("Print names and metrics of an OpenType font or the content of a YAML rule set.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "OpenType font file or YAML rule set", "").
		AddArgument("glyphs...", "optional list of characters to print glyph metrics for", "").
		SetAction(runFontCommand)

	commando.Parse(nil)
}

// --- Loading ---------------------------------------------------------------

// typeface is what the commands shape with: either a binary font without
// rules or a YAML rule set with its own glyph table.
type typeface struct {
	font  otlayout.FontAccess
	rules *otlayout.Features
	sfnt  *fontfeatures.ScalableFont // nil for rule sets
}

func isRuleSet(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func loadTypeface(path string, fontScripts []ot.Tag) (*typeface, error) {
	if isRuleSet(path) {
		font, rules, err := fontfeatures.LoadRules(path)
		if err != nil {
			return nil, err
		}
		return &typeface{font: font, rules: rules}, nil
	}
	sf, err := fontfeatures.LoadOpenTypeFont(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load font %s: %w", path, err)
	}
	return &typeface{
		font:  sf.Access(fontScripts...),
		rules: otlayout.NewFeatures(),
		sfnt:  sf,
	}, nil
}

func mustLoadTypeface(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) *typeface {
	setupTracing(flags)
	path := strings.TrimSpace(args["font"].Value)
	if path == "" {
		fatalf("font path is required")
	}
	var scripts []ot.Tag
	if _, ok := flags["fontscripts"]; ok {
		for _, s := range splitCSVSpace(mustFlagString(flags["fontscripts"], "fontscripts")) {
			scripts = append(scripts, ot.T(s))
		}
	}
	tf, err := loadTypeface(path, scripts)
	if err != nil {
		fatalf("%v", err)
	}
	return tf
}

// traceKeys are the tracers of package fontfeatures and its sub-packages.
var traceKeys = []string{"fontfeatures", "fontfeatures.shaper", "fontfeatures.layout",
	"fontfeatures.arabic", "fontfeatures.indic", "fontfeatures.use", "fontfeatures.query"}

func setupTracing(flags map[string]commando.FlagValue) {
	level := "Error"
	if v, ok := flags["verbose"]; ok {
		if verbose, err := v.GetBool(); err == nil && verbose {
			level = "Info"
		}
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{"tracing.adapter": "go"}
	for _, key := range traceKeys {
		conf["trace."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fatalf("error configuring tracing: %v", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

// --- Shaping ---------------------------------------------------------------

func newShaper(tf *typeface, flags map[string]commando.FlagValue) *otshape.Shaper {
	settings, err := otshape.ParseFeatureSettings(mustFlagString(flags["features"], "features"))
	if err != nil {
		fatalf("%v", err)
	}
	params := otshape.Params{
		Font:         tf.font,
		Features:     tf.rules,
		UserFeatures: settings,
	}
	sh, err := otshape.NewShaper(params, fontfeatures.Engines()...)
	if err != nil {
		fatalf("%v", err)
	}
	return sh
}

// newBuffer creates a buffer from the text argument or the --codepoints flag
// and sets the segment properties given by flags.
func newBuffer(sh *otshape.Shaper, args map[string]commando.ArgValue, flags map[string]commando.FlagValue) *otlayout.Buffer {
	input := args["text"].Value
	if _, ok := flags["codepoints"]; ok {
		if cp := mustFlagString(flags["codepoints"], "codepoints"); cp != "" {
			runes, err := parseCodepoints(cp)
			if err != nil {
				fatalf("%v", err)
			}
			input = string(runes)
		}
	}
	if input == "" {
		fatalf("input text is empty")
	}
	buf := sh.NewBuffer()
	buf.StoreUnicode(input)
	if s := mustFlagString(flags["script"], "script"); s != "" {
		script := ot.ScriptForTag(ot.T(s))
		if script == language.Unknown {
			fatalf("unknown script tag %q", s)
		}
		buf.Script = script
	}
	if s := mustFlagString(flags["lang"], "lang"); s != "" {
		tag, err := xlang.Parse(s)
		if err != nil {
			fatalf("invalid language tag %q: %v", s, err)
		}
		buf.Language = tag
	}
	if _, ok := flags["direction"]; ok {
		dir, err := parseDirection(mustFlagString(flags["direction"], "direction"))
		if err != nil {
			fatalf("%v", err)
		}
		buf.Direction = dir
	}
	return buf
}

func parseDirection(s string) (bidi.Direction, error) {
	switch strings.ToLower(s) {
	case "":
		return bidi.Neutral, nil
	case "ltr", "left-to-right":
		return bidi.LeftToRight, nil
	case "rtl", "right-to-left":
		return bidi.RightToLeft, nil
	}
	return bidi.Neutral, fmt.Errorf("unsupported direction %q (expected ltr|rtl)", s)
}

func parseCodepoints(spec string) ([]rune, error) {
	parts := splitCSVSpace(spec)
	out := make([]rune, 0, len(parts))
	for _, p := range parts {
		r, err := parseCodepointToken(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseCodepointToken(token string) (rune, error) {
	if token == "" {
		return 0, errors.New("empty codepoint token")
	}
	hex := token
	switch {
	case strings.HasPrefix(hex, "U+"), strings.HasPrefix(hex, "u+"):
		hex = hex[2:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	u, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || u > 0x10FFFF {
		return 0, fmt.Errorf("invalid codepoint %q", token)
	}
	return rune(u), nil
}

func splitCSVSpace(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// --- Flags -----------------------------------------------------------------

// mustFlagString returns a trimmed string flag; "-" stands for empty.
func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	s = strings.TrimSpace(s)
	if s == "-" {
		return ""
	}
	return s
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "ot-tools: "+format+"\n", args...)
	os.Exit(1)
}
