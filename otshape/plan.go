package otshape

import (
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/npillmayer/fontfeatures/ot"
)

// stage is a set of feature tags run as one fused pass, optionally followed by
// a pause callback.
type stage struct {
	tags  *linkedhashset.Set // of ot.Tag, in order of scheduling
	pause PauseHook
}

func newStage() *stage {
	return &stage{tags: linkedhashset.New()}
}

func (st *stage) tagList() []ot.Tag {
	tags := make([]ot.Tag, 0, st.tags.Size())
	for _, v := range st.tags.Values() {
		tags = append(tags, v.(ot.Tag))
	}
	return tags
}

// Plan is the ordered list of feature stages of a shaping call. Stages are
// separated by pauses; the last stage is always open for further features.
//
// A Plan is built once per shaping call, by the baseline schedule, the engine's
// plan hooks and the user's feature settings, in this order.
type Plan struct {
	stages      []*stage
	perSyllable map[ot.Tag]bool
}

var _ FeaturePlanner = (*Plan)(nil)

// NewPlan creates an empty plan with one open stage.
func NewPlan() *Plan {
	return &Plan{
		stages:      []*stage{newStage()},
		perSyllable: make(map[ot.Tag]bool),
	}
}

func (p *Plan) current() *stage {
	return p.stages[len(p.stages)-1]
}

// AddFeatures appends tags to the open stage. Tags already scheduled in any
// stage are skipped.
func (p *Plan) AddFeatures(tags ...ot.Tag) {
	for _, tag := range tags {
		if tag == 0 || p.HasFeature(tag) {
			continue
		}
		p.current().tags.Add(tag)
	}
}

// AddFeature appends a single tag to the open stage, with flags.
func (p *Plan) AddFeature(tag ot.Tag, flags FeatureFlags) {
	p.AddFeatures(tag)
	if flags&FeaturePerSyllable != 0 {
		p.perSyllable[tag] = true
	}
}

// AddPause attaches fn to the open stage and opens a new one. fn may be nil,
// which just separates two stages.
func (p *Plan) AddPause(fn PauseHook) {
	if fn == nil {
		fn = noPause
	}
	p.current().pause = fn
	p.stages = append(p.stages, newStage())
}

func noPause(*ShapeContext) error { return nil }

// EnableFeature adds tag to the open stage, if it is not scheduled yet.
func (p *Plan) EnableFeature(tag ot.Tag) {
	p.AddFeatures(tag)
}

// DisableFeature removes tag from every stage.
func (p *Plan) DisableFeature(tag ot.Tag) {
	for _, st := range p.stages {
		st.tags.Remove(tag)
	}
}

// HasFeature reports whether tag is scheduled in any stage.
func (p *Plan) HasFeature(tag ot.Tag) bool {
	for _, st := range p.stages {
		if st.tags.Contains(tag) {
			return true
		}
	}
	return false
}

// PerSyllable reports whether a feature's matches are restricted to syllables.
func (p *Plan) PerSyllable(tag ot.Tag) bool {
	return p.perSyllable[tag]
}

// StageCount returns the number of stages, the open one included.
func (p *Plan) StageCount() int {
	return len(p.stages)
}

// StageTags returns the tags of stage i in scheduling order.
func (p *Plan) StageTags(i int) []ot.Tag {
	return p.stages[i].tagList()
}

// Tags returns the tags of all stages in scheduling order.
func (p *Plan) Tags() []ot.Tag {
	var tags []ot.Tag
	for _, st := range p.stages {
		tags = append(tags, st.tagList()...)
	}
	return tags
}

// String renders a plan as bracketed stages of tags, separated by '|'.
// Empty stages are omitted.
func (p *Plan) String() string {
	parts := make([]string, 0, len(p.stages))
	for _, st := range p.stages {
		if st.tags.Size() == 0 {
			continue
		}
		names := make([]string, 0, st.tags.Size())
		for _, tag := range st.tagList() {
			names = append(names, tag.String())
		}
		parts = append(parts, "["+strings.Join(names, " ")+"]")
	}
	return strings.Join(parts, " | ")
}
