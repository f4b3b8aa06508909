package reconcile

import (
	"device-sync/core/target"
)

// Observed is an id->tag pair read from the target.
type Observed struct {
	ID  int    `json:"id"`
	Tag string `json:"tag"`
}

// observedIndex keeps observed pairs addressable by id while remembering the
// order the target exported them in. The first pair wins for duplicated ids.
type observedIndex struct {
	order []int
	tags  map[int]string
}

func newObservedIndex(actual []Observed) *observedIndex {
	idx := &observedIndex{
		order: make([]int, 0, len(actual)),
		tags:  make(map[int]string, len(actual)),
	}
	for _, o := range actual {
		if _, dup := idx.tags[o.ID]; dup {
			continue
		}
		idx.order = append(idx.order, o.ID)
		idx.tags[o.ID] = o.Tag
	}
	return idx
}

// take returns the tag for id and consumes it.
func (idx *observedIndex) take(id int) (string, bool) {
	tag, ok := idx.tags[id]
	if ok {
		delete(idx.tags, id)
	}
	return tag, ok
}

// leftovers returns unconsumed pairs in export order.
func (idx *observedIndex) leftovers() []Observed {
	var out []Observed
	for _, id := range idx.order {
		if tag, ok := idx.tags[id]; ok {
			out = append(out, Observed{ID: id, Tag: tag})
		}
	}
	return out
}

// FromConstants converts a listed constant table into observed pairs.
func FromConstants(constants []target.Constant) []Observed {
	out := make([]Observed, 0, len(constants))
	for _, c := range constants {
		out = append(out, Observed{ID: c.ID, Tag: c.Name})
	}
	return out
}
