package main

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otshape"
	"github.com/pterm/pterm"
	xlang "golang.org/x/text/language"
)

func shapeOp(intp *Intp, op *Op) (error, bool) {
	sh, err := intp.shaper()
	if err != nil {
		return err, false
	}
	buf, err := intp.buffer(sh, op.arg)
	if err != nil {
		return err, false
	}
	if err := sh.Shape(buf); err != nil {
		return err, false
	}
	intp.last = buf
	printBuffer(buf, intp.attr)
	return nil, false
}

func planOp(intp *Intp, op *Op) (error, bool) {
	sh, err := intp.shaper()
	if err != nil {
		return err, false
	}
	buf, err := intp.buffer(sh, op.arg)
	if err != nil {
		return err, false
	}
	plan, engine, err := sh.Plan(buf)
	if err != nil {
		return err, false
	}
	printPlan(intp, buf, plan, engine)
	return nil, false
}

func featuresOp(intp *Intp, op *Op) (error, bool) {
	if op.noArg() {
		pterm.Printf("features: %q\n", intp.features)
		return nil, false
	}
	if op.arg == "-" {
		intp.features = ""
		return nil, false
	}
	if _, err := otshape.ParseFeatureSettings(op.arg); err != nil {
		return err, false
	}
	intp.features = op.arg
	tracer().Infof("feature settings: %s", intp.features)
	return nil, false
}

func scriptOp(intp *Intp, op *Op) (error, bool) {
	if op.noArg() || op.arg == "-" {
		intp.script = language.Unknown
		return nil, false
	}
	script := ot.ScriptForTag(ot.T(op.arg))
	if script == language.Unknown {
		return fmt.Errorf("unknown script tag %q", op.arg), false
	}
	intp.script = script
	return nil, false
}

func langOp(intp *Intp, op *Op) (error, bool) {
	if op.noArg() || op.arg == "-" {
		intp.lang = xlang.Und
		return nil, false
	}
	tag, err := xlang.Parse(op.arg)
	if err != nil {
		return err, false
	}
	intp.lang = tag
	return nil, false
}

func attrOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "-" {
		op.arg = ""
	}
	intp.attr = op.arg
	if intp.last != nil {
		printBuffer(intp.last, intp.attr)
	}
	return nil, false
}

func rulesOp(intp *Intp, op *Op) (error, bool) {
	if intp.rules == nil {
		return errors.New("no rules loaded"), false
	}
	printRules(intp.rules)
	return nil, false
}

func routineOp(intp *Intp, op *Op) (error, bool) {
	if intp.rules == nil {
		return errors.New("no rules loaded"), false
	}
	if op.noArg() {
		return errors.New("routine name missing"), false
	}
	for _, r := range intp.rules.Routines {
		if r.Name == op.arg {
			printRoutine(intp.font, r)
			return nil, false
		}
	}
	return fmt.Errorf("no routine named %q", op.arg), false
}

func glyphOp(intp *Intp, op *Op) (error, bool) {
	if intp.font == nil {
		return errors.New("no font loaded"), false
	}
	r, size := utf8.DecodeRuneInString(op.arg)
	if size == 0 || r == utf8.RuneError {
		return errors.New("glyph needs a character"), false
	}
	g, ok := intp.font.CodepointToGlyph(r)
	if !ok {
		return fmt.Errorf("U+%04X is not in font", r), false
	}
	cat, class := intp.font.GlyphCategory(g)
	data := [][]string{
		{"Codepoint", "Glyph", "Name", "Category", "Class", "Advance"},
		{
			fmt.Sprintf("U+%04X", r),
			fmt.Sprintf("%d", g),
			intp.font.GlyphName(g),
			cat.String(),
			fmt.Sprintf("%d", class),
			fmt.Sprintf("%d", intp.font.GlyphAdvance(g)),
		},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func (op *Op) noArg() bool {
	return op.arg == ""
}
