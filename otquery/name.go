package otquery

import (
	"iter"

	"golang.org/x/image/font/sfnt"
)

// nameIDs are the entries of table 'name' NamesRange looks for.
var nameIDs = []sfnt.NameID{
	sfnt.NameIDCopyright,
	sfnt.NameIDFamily,
	sfnt.NameIDSubfamily,
	sfnt.NameIDUniqueIdentifier,
	sfnt.NameIDFull,
	sfnt.NameIDVersion,
	sfnt.NameIDPostScript,
	sfnt.NameIDTrademark,
	sfnt.NameIDManufacturer,
	sfnt.NameIDDesigner,
	sfnt.NameIDDescription,
	sfnt.NameIDVendorURL,
	sfnt.NameIDDesignerURL,
	sfnt.NameIDLicense,
	sfnt.NameIDLicenseURL,
	sfnt.NameIDTypographicFamily,
	sfnt.NameIDTypographicSubfamily,
}

// NamesRange yields decoded `(nameID, value)` pairs from a font's OpenType
// `name` table. Entries missing from the font or not decodable are skipped.
func NamesRange(f *sfnt.Font) iter.Seq2[sfnt.NameID, string] {
	return func(yield func(sfnt.NameID, string) bool) {
		if f == nil {
			return
		}
		var b sfnt.Buffer
		for _, id := range nameIDs {
			value, err := f.Name(&b, id)
			if err != nil || value == "" {
				continue
			}
			if !yield(id, value) {
				return
			}
		}
	}
}

// FamilyName extracts family and subfamily names from a font's `name` table.
// Typographic names take precedence.
func FamilyName(f *sfnt.Font) (family, subfamily string) {
	for id, value := range NamesRange(f) {
		switch id {
		case sfnt.NameIDFamily:
			if family == "" {
				family = value
			}
		case sfnt.NameIDSubfamily:
			if subfamily == "" {
				subfamily = value
			}
		case sfnt.NameIDTypographicFamily:
			family = value
		case sfnt.NameIDTypographicSubfamily:
			subfamily = value
		}
	}
	return
}
