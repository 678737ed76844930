package ta

import (
	"errors"
	"strings"

	"github.com/clktmr/naomi/debug"
	"github.com/clktmr/naomi/holly"
)

// List is one of the polygon categories the TA sorts into separate object
// buffers.
type List int

const (
	Opaque List = iota
	Transparent
	PunchThrough

	ListCount
)

var listNames = [ListCount]string{"opaque", "transparent", "punch-through"}

func (l List) String() string {
	if l < 0 || l >= ListCount {
		return "invalid"
	}
	return listNames[l]
}

// listType returns the list type field of a global parameter.
func (l List) listType() uint32 {
	switch l {
	case Transparent:
		return ListTypeTransparent
	case PunchThrough:
		return ListTypePunchThrough
	}
	return ListTypeOpaque
}

// endOfList is the interrupt raised when the TA finished loading the list.
func (l List) endOfList() holly.InterruptFlag {
	switch l {
	case Transparent:
		return holly.IntrTransparentList
	case PunchThrough:
		return holly.IntrPunchThroughList
	}
	return holly.IntrOpaqueList
}

// ListSet is a set of lists.
type ListSet uint8

func (s ListSet) Has(l List) bool     { return s&(1<<l) != 0 }
func (s ListSet) With(l List) ListSet { return s | 1<<l }
func (s ListSet) Empty() bool         { return s == 0 }
func Lists(lists ...List) (s ListSet) {
	for _, l := range lists {
		s = s.With(l)
	}
	return
}

func (s ListSet) String() string {
	var names []string
	for l := Opaque; l < ListCount; l++ {
		if s.Has(l) {
			names = append(names, l.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

var (
	ErrMixedLists         = errors.New("cannot send more than one type of polygon in single list")
	ErrUnsupportedPolygon = errors.New("unsupported polygon type")
)

const listFailure = "display list failure"

// tracker follows which lists were opened. waiting holds the lists opened
// since the last CommitBegin, which CommitEnd must wait for. populated holds
// the lists with content in this frame, which the next render pass must wire
// into the tile descriptors.
type tracker struct {
	waiting   ListSet
	populated ListSet
}

// open records a polygon for list l. It reports whether l was newly opened in
// this commit cycle.
func (t *tracker) open(l List) (opened bool, err error) {
	if t.waiting&^Lists(l) != 0 {
		return false, invariant(ErrMixedLists)
	}
	if t.waiting.Has(l) {
		return false, nil
	}
	t.waiting = t.waiting.With(l)
	t.populated = t.populated.With(l)
	return true, nil
}

func invariant(err error) error {
	return debug.Invariant(listFailure, err)
}
