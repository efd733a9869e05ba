package ot

import "github.com/go-text/typesetting/language"

// scriptTags maps Unicode scripts to their OpenType script tags. For scripts
// with a revised shaping model, the second tag is the new-style tag.
var scriptTags = map[language.Script][2]Tag{
	language.Latin:      {T("latn")},
	language.Greek:      {T("grek")},
	language.Cyrillic:   {T("cyrl")},
	language.Armenian:   {T("armn")},
	language.Georgian:   {T("geor")},
	language.Hebrew:     {T("hebr")},
	language.Arabic:     {T("arab")},
	language.Syriac:     {T("syrc")},
	language.Thaana:     {T("thaa")},
	language.Nko:        {T("nko ")},
	language.Mongolian:  {T("mong")},
	language.Mandaic:    {T("mand")},
	language.Manichaean: {T("mani")},
	language.Adlam:      {T("adlm")},
	language.Devanagari: {T("deva"), T("dev2")},
	language.Bengali:    {T("beng"), T("bng2")},
	language.Gurmukhi:   {T("guru"), T("gur2")},
	language.Gujarati:   {T("gujr"), T("gjr2")},
	language.Oriya:      {T("orya"), T("ory2")},
	language.Tamil:      {T("taml"), T("tml2")},
	language.Telugu:     {T("telu"), T("tel2")},
	language.Kannada:    {T("knda"), T("knd2")},
	language.Malayalam:  {T("mlym"), T("mlm2")},
	language.Sinhala:    {T("sinh")},
	language.Javanese:   {T("java")},
	language.Balinese:   {T("bali")},
	language.Sundanese:  {T("sund")},
	language.Tibetan:    {T("tibt")},
	language.Tai_Tham:   {T("lana")},
	language.Batak:      {T("batk")},
	language.Buginese:   {T("bugi")},
	language.Cham:       {T("cham")},
	language.Brahmi:     {T("brah")},
	language.Chakma:     {T("cakm")},
	language.Sharada:    {T("shrd")},
	language.Lepcha:     {T("lepc")},
	language.Khmer:      {T("khmr")},
	language.Myanmar:    {T("mym2")},
	language.Thai:       {T("thai")},
	language.Han:        {T("hani")},
}

// ScriptTag returns the OpenType script tag for a Unicode script. If newStyle
// is set and the script has a revised tag (e.g., "dev2" for Devanagari), that
// tag is returned. Unknown scripts map to DFLT.
func ScriptTag(script language.Script, newStyle bool) Tag {
	tags, ok := scriptTags[script]
	if !ok {
		return DFLT
	}
	if newStyle && tags[1] != 0 {
		return tags[1]
	}
	return tags[0]
}

// ScriptForTag is the inverse of ScriptTag. It returns language.Unknown for
// tags not known. Tags of the Universal Shaping Engine variant of revised
// scripts ("dev3", "bng3", ...) map to their script as well.
func ScriptForTag(tag Tag) language.Script {
	if s := tag.String(); len(s) == 4 && s[3] == '3' {
		tag = T(s[:3] + "2")
	}
	for script, tags := range scriptTags {
		if tags[0] == tag || tags[1] == tag {
			return script
		}
	}
	return language.Unknown
}
