package blockdoc

import (
	"fmt"
	"strings"
)

// Path addresses a node by child indexes from the root.
type Path []int

// Copy returns an independent copy of p.
func (p Path) Copy() Path {
	if p == nil {
		return nil
	}
	return append(Path{}, p...)
}

// Parent returns the path of the parent node. The root has no parent.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1].Copy()
}

// Next returns the path of the following sibling.
func (p Path) Next() Path {
	out := p.Copy()
	out[len(out)-1]++
	return out
}

// Child returns the path of the i-th child.
func (p Path) Child(i int) Path {
	return append(p.Copy(), i)
}

// Equal reports whether both paths address the same node.
func (p Path) Equal(o Path) bool {
	return ComparePath(p, o) == 0 && len(p) == len(o)
}

// IsAncestorOf reports whether p is a strict ancestor of o.
func (p Path) IsAncestorOf(o Path) bool {
	if len(p) >= len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	var b strings.Builder
	for _, i := range p {
		fmt.Fprintf(&b, "[%d]", i)
	}
	return b.String()
}

// ComparePath orders paths in document order; ancestors compare equal to descendants.
func ComparePath(a, b Path) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// Point is a position inside a text leaf. Offset is a byte offset into Text.
type Point struct {
	Path   Path
	Offset int
}

// ComparePoint orders points in document order.
func ComparePoint(a, b Point) int {
	if c := ComparePath(a.Path, b.Path); c != 0 {
		return c
	}
	if len(a.Path) != len(b.Path) {
		if len(a.Path) < len(b.Path) {
			return -1
		}
		return 1
	}
	switch {
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	}
	return 0
}

// Selection is an anchor/focus pair. Anchor may come after Focus.
type Selection struct {
	Anchor Point
	Focus  Point
}

// Collapsed returns a selection with both ends at p.
func Collapsed(p Point) *Selection {
	return &Selection{Anchor: p, Focus: Point{Path: p.Path.Copy(), Offset: p.Offset}}
}

// IsCollapsed reports whether anchor and focus coincide.
func (s Selection) IsCollapsed() bool {
	return ComparePoint(s.Anchor, s.Focus) == 0
}

// IsBackward reports whether the focus precedes the anchor.
func (s Selection) IsBackward() bool {
	return ComparePoint(s.Focus, s.Anchor) < 0
}

// Start returns the earlier end.
func (s Selection) Start() Point {
	if s.IsBackward() {
		return s.Focus
	}
	return s.Anchor
}

// End returns the later end.
func (s Selection) End() Point {
	if s.IsBackward() {
		return s.Anchor
	}
	return s.Focus
}

// Contains reports whether the node at path intersects the selection.
func (s Selection) Contains(path Path) bool {
	start, end := s.Start(), s.End()
	return ComparePath(path, start.Path) >= 0 && ComparePath(path, end.Path) <= 0
}
