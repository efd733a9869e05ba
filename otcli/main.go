package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	xlang "golang.org/x/text/language"
)

// tracer traces with key 'fontfeatures.cli'
func tracer() tracing.Trace {
	return tracing.Select("fontfeatures.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":           "go",
		"trace.fontfeatures.cli":    "Info",
		"trace.fontfeatures.shaper": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font or YAML rule set to load")
	scripts := flag.String("scripts", "", "Script tags a font has rules for, e.g. 'arab,dev2'")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)                // will set the correct level later
	pterm.Info.Println("Welcome to the OpenType shaping CLI") // colored welcome message
	//
	// set up REPL
	repl, err := readline.New("ot > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl, script: language.Unknown, lang: xlang.Und}
	//
	// load font to use
	if err := intp.loadFont(*fontname, *scripts); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	repl     *readline.Instance
	name     string
	font     otlayout.FontAccess
	rules    *otlayout.Features
	features string // user feature settings
	script   language.Script
	lang     xlang.Tag
	attr     string // scratch attribute to display
	last     *otlayout.Buffer
}

func (intp *Intp) String() string {
	if intp == nil || intp.font == nil {
		return "()"
	}
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("( %s", intp.name))
	if intp.script != language.Unknown {
		sb.WriteString(fmt.Sprintf(" script=%s", intp.script))
	}
	if intp.lang != xlang.Und {
		sb.WriteString(fmt.Sprintf(" lang=%s", intp.lang))
	}
	if intp.features != "" {
		sb.WriteString(fmt.Sprintf(" features=%s", intp.features))
	}
	sb.WriteString(" )")
	return sb.String()
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := intp.parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code int
	arg  string
}

type Command struct {
	count int
	op    [32]Op
}

const NOOP = -1
const (
	// op-code QUIT will not have arguments
	QUIT int = iota
	// op-codes below may have arguments
	HELP
	SHAPE
	PLAN
	FEATURES
	SCRIPT
	LANG
	ATTR
	RULES
	ROUTINE
	GLYPH
)

var opMap = map[string]int{
	"quit":     QUIT,
	"help":     HELP,
	"shape":    SHAPE,
	"plan":     PLAN,
	"features": FEATURES,
	"script":   SCRIPT,
	"lang":     LANG,
	"attr":     ATTR,
	"rules":    RULES,
	"routine":  ROUTINE,
	"glyph":    GLYPH,
}

var opNames = []string{
	"quit",
	"help",
	"shape",
	"plan",
	"features",
	"script",
	"lang",
	"attr",
	"rules",
	"routine",
	"glyph",
}

var command = Command{}

func resetCommand() {
	command.count = 0
	for i := range command.op {
		command.op[i].code = NOOP
		command.op[i].arg = ""
	}
}

// parseCommand splits a line into commands separated by ';'. Every command is
// an op-name, optionally followed by a blank and an argument, e.g.
// "script latn; shape fi".
func (intp *Intp) parseCommand(line string) (*Command, error) {
	resetCommand()
	steps := strings.Split(line, ";")
	if len(steps) > len(command.op) {
		return nil, errors.New("too many commands in one line")
	}
	command.count = len(steps)
	for i, step := range steps {
		name, arg, _ := strings.Cut(strings.TrimSpace(step), " ")
		code, ok := opMap[strings.ToLower(name)]
		if !ok {
			code, arg = HELP, ""
		}
		command.op[i].code = code
		if code == QUIT {
			return &command, nil
		}
		command.op[i].arg = strings.TrimSpace(arg)
		if command.op[i].arg == "" {
			tracer().Debugf("%s", opNames[code])
		} else {
			tracer().Debugf("%s: '%s'", opNames[code], command.op[i].arg)
		}
	}
	return &command, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:     quitOp,
	HELP:     helpOp,
	SHAPE:    shapeOp,
	PLAN:     planOp,
	FEATURES: featuresOp,
	SCRIPT:   scriptOp,
	LANG:     langOp,
	ATTR:     attrOp,
	RULES:    rulesOp,
	ROUTINE:  routineOp,
	GLYPH:    glyphOp,
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd.op[:cmd.count])
	for _, c := range cmd.op {
		if c.code == NOOP {
			break
		}
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = f(intp, &c)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	return nil, true
}

// --- Font Loading -----------------------------------------------------

// loadFont loads a binary font or a YAML rule set. Binary fonts come without
// rules.
func (intp *Intp) loadFont(fontname string, scripts string) error {
	if fontname == "" {
		return errors.New("no font given, use flag -font")
	}
	intp.name = filepath.Base(fontname)
	switch strings.ToLower(filepath.Ext(fontname)) {
	case ".yaml", ".yml":
		font, rules, err := fontfeatures.LoadRules(fontname)
		if err != nil {
			tracer().Errorf("cannot load rule set %s: %s", fontname, err)
			return err
		}
		intp.font, intp.rules = font, rules
		pterm.Printf("rule set with features %v\n", rules.FeatureTags())
		return nil
	}
	f, err := fontfeatures.LoadOpenTypeFont(fontname)
	if err != nil {
		tracer().Errorf("cannot load font %s: %s", fontname, err)
		return err
	}
	tracer().Infof("loaded SFNT font = %s", f.Fontname)
	var tags []ot.Tag
	for _, s := range strings.FieldsFunc(scripts, func(r rune) bool { return r == ',' || r == ' ' }) {
		tags = append(tags, ot.T(s))
	}
	intp.font, intp.rules = f.Access(tags...), otlayout.NewFeatures()
	return nil
}

// shaper creates a shaper for the current settings.
func (intp *Intp) shaper() (*otshape.Shaper, error) {
	if intp.font == nil {
		return nil, errors.New("no font loaded")
	}
	return fontfeatures.NewShaper(intp.font, intp.rules, intp.features)
}

// buffer creates a buffer for text with the current segment properties.
func (intp *Intp) buffer(sh *otshape.Shaper, text string) (*otlayout.Buffer, error) {
	if text == "" {
		return nil, errors.New("no text given")
	}
	buf := sh.NewBuffer()
	buf.StoreUnicode(text)
	buf.Script = intp.script
	buf.Language = intp.lang
	return buf, nil
}
