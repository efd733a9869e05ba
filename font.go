package fontfeatures

import (
	"os"

	"github.com/npillmayer/fontfeatures/ot"
	"github.com/npillmayer/fontfeatures/otquery"
	"golang.org/x/image/font/sfnt"
)

// ScalableFont is an internal representation of an outline-font of type
// TTF of OTF.
//
// There is a certain confusion with the nomenclature of typesetting. A
// "typeface" is a family of fonts, such as "Helvetica". A "scalable font" is
// a variant of a typeface with a certain weight, slant, etc., such as
// "Helvetica regular". Go uses the terms "font" and "face" more or less the
// other way round.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
// Font collections (*.ttc) are not supported.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	if f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull); err == nil {
		tracer().Debugf("loaded and parsed SFNT %s", f.Fontname)
	}
	return f, nil
}

// Access returns the font access for shaping with f. scripts are the script
// tags the font's layout rules are written for ("arab", "dev2", ...).
func (f *ScalableFont) Access(scripts ...ot.Tag) *otquery.SFNTAccess {
	return otquery.NewSFNTAccess(f.SFNT, scripts...)
}

// FamilyName returns family and subfamily names of f.
func (f *ScalableFont) FamilyName() (family, subfamily string) {
	return otquery.FamilyName(f.SFNT)
}
