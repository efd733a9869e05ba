package otshape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/fontfeatures/ot"
)

// FeatureSetting is a user override for a feature: switch it on or off for the
// whole run.
type FeatureSetting struct {
	Tag ot.Tag
	On  bool
}

func (fs FeatureSetting) String() string {
	if fs.On {
		return "+" + fs.Tag.String()
	}
	return "-" + fs.Tag.String()
}

// ParseFeatureSettings parses a list of feature settings, separated by commas
// or white space. Accepted items are "+tag", "-tag", "tag=1", "tag=0" and
// "tag", the latter meaning "+tag".
//
//	ParseFeatureSettings("liga=0, +smcp -kern")
func ParseFeatureSettings(spec string) ([]FeatureSetting, error) {
	items := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	settings := make([]FeatureSetting, 0, len(items))
	for _, item := range items {
		fs, err := parseFeatureItem(item)
		if err != nil {
			return nil, errShaper(ErrFeatureSetting, err.Error())
		}
		settings = append(settings, fs)
	}
	return settings, nil
}

func parseFeatureItem(item string) (FeatureSetting, error) {
	on, isMinus := true, false
	var isPlus bool
	if item, isPlus = strings.CutPrefix(item, "+"); !isPlus {
		if item, isMinus = strings.CutPrefix(item, "-"); isMinus {
			on = false
		}
	}
	tagPart, value, hasEqual := strings.Cut(item, "=")
	if hasEqual {
		if isPlus || isMinus {
			return FeatureSetting{}, fmt.Errorf("%q mixes sign and value", item)
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 1 {
			return FeatureSetting{}, fmt.Errorf("invalid feature value in %q", item)
		}
		on = n != 0
	}
	if len(tagPart) != 4 {
		return FeatureSetting{}, fmt.Errorf("feature tag %q is not 4 characters", tagPart)
	}
	return FeatureSetting{Tag: ot.T(tagPart), On: on}, nil
}

// applyFeatureSettings applies user settings to a plan, in order. A later
// setting for the same tag overrides an earlier one.
func applyFeatureSettings(plan FeaturePlanner, settings []FeatureSetting) {
	for _, fs := range settings {
		if fs.On {
			plan.EnableFeature(fs.Tag)
		} else {
			plan.DisableFeature(fs.Tag)
		}
	}
}
