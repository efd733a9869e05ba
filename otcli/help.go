package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Debugf("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "features", "feature":
		pterm.Info.Println("Feature settings")
		pterm.Println(`
	Feature settings are applied after the shaping engine has planned its features.
	Settings are separated by commas or blanks:
	+--------------+---------------------+
	| +tag or tag  | enable a feature    |
	| -tag         | disable a feature   |
	| tag=1, tag=0 | enable or disable   |
	+--------------+---------------------+
	"features -" clears all settings.
	`)
	case "attr", "attribute", "attributes":
		pterm.Info.Println("Scratch attributes")
		pterm.Println(`
	Shaping engines annotate buffer items. "attr <name>" displays one of them:
	+---------------+---------------------------------------+
	| join          | Arabic joining form                   |
	| syllable      | syllable serial number                |
	| syllable_type | syllable type of Indic and USE        |
	| category      | Indic or USE category                 |
	| position      | Indic positional category             |
	| attach        | attachment kind and parent index      |
	+---------------+---------------------------------------+
	`)
	case "script", "scripts", "lang":
		pterm.Info.Println("Segment properties")
		pterm.Println(`
	Script is given as an OpenType script tag (latn, arab, dev2, ...), language as
	a BCP 47 tag. Without settings, both are guessed from the text. "script -"
	resets to guessing.
	`)
	default:
		pterm.Info.Println("Commands, separate multiple commands by ';'")
		pterm.Println(`
	shape <text>       shape text and print glyphs
	plan <text>        print engine and feature plan for text
	features <list>    set feature settings (help features)
	script <tag>       set script
	lang <tag>         set language
	attr <name>        show a scratch attribute (help attr)
	rules              list features of the rule set
	routine <name>     print the rules of a routine
	glyph <char>       print glyph information
	quit
	`)
	}
}
