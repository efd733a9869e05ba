package otuse

import (
	"github.com/npillmayer/fontfeatures/otlayout"
	"github.com/npillmayer/fontfeatures/otshape"
	"github.com/npillmayer/fontfeatures/otshape/otindic"
)

func isHalant(item *otlayout.BufferItem) bool {
	return category(item).isHalant() && item.Flags&otlayout.Ligated == 0
}

func reorder(ctx *otshape.ShapeContext) error {
	buf := ctx.Buffer
	for _, span := range otindic.Syllables(buf) {
		switch span.Type {
		case ViramaTerminatedCluster, SakotTerminatedCluster, StandardCluster,
			SymbolCluster, BrokenCluster:
			reorderCluster(buf.Items, span.Start, span.End)
		}
	}
	buf.ResetMask()
	return nil
}

// reorderCluster moves a repha forward, in front of the first post-base item,
// and pre-base vowels backward, to the start of the cluster or after the last
// halant.
func reorderCluster(items []*otlayout.BufferItem, start, end int) {
	if category(items[start]) == CatR && end-start > 1 {
		for i := start + 1; i < end; i++ {
			postBase := category(items[i]).isPostBase() || isHalant(items[i])
			if postBase || i == end-1 {
				if postBase {
					i--
				}
				otlayout.MergeClusters(items, start, i+1)
				moveItem(items, start, i)
				tracer().Debugf("moved repha from %d to %d", start, i)
				break
			}
		}
	}
	j := start
	for i := start; i < end; i++ {
		cat := category(items[i])
		if isHalant(items[i]) {
			j = i + 1
		} else if (cat == CatVPre || cat == CatVMPre) && !isTrailingComponent(items, i) && j < i {
			otlayout.MergeClusters(items, j, i+1)
			moveItem(items, i, j)
			tracer().Debugf("moved pre-base item from %d to %d", i, j)
		}
	}
}

// isTrailingComponent reports whether items[i] is a later part of a
// multiple substitution. Only the first part is moved.
func isTrailingComponent(items []*otlayout.BufferItem, i int) bool {
	if items[i].Flags&otlayout.Multiplied == 0 || i == 0 {
		return false
	}
	prev := items[i-1]
	return prev.Flags&otlayout.Multiplied != 0 && prev.Cluster == items[i].Cluster &&
		prev.Codepoint == items[i].Codepoint
}

// moveItem moves items[from] to index to, shifting the items in between.
func moveItem(items []*otlayout.BufferItem, from, to int) {
	item := items[from]
	if from < to {
		copy(items[from:to], items[from+1:to+1])
	} else {
		copy(items[to+1:from+1], items[to:from])
	}
	items[to] = item
}
