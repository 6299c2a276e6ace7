package blockdoc

import (
	"github.com/rivo/uniseg"
)

//
// Locating
//

// comparePaths orders paths in document order, ancestors first.
func comparePaths(a, b Path) int {
	return ComparePoint(Point{Path: a}, Point{Path: b})
}

func commonPrefix(a, b Path) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// isTextBlock reports whether n is a block that holds inlines.
func (e *Editor) isTextBlock(n *Node) bool {
	if !n.IsElement() || e.reg.IsInlineType(n.Type) {
		return false
	}
	s, ok := e.reg.Classify(n.Type)
	return ok && s.Kind == KindInlines
}

// textBlockOf returns the nearest text block at or above path.
func (e *Editor) textBlockOf(path Path) (Entry, bool) {
	for i := len(path); i >= 0; i-- {
		n := NodeAt(e.root, path[:i])
		if n != nil && e.isTextBlock(n) {
			return Entry{Node: n, Path: path[:i].Copy()}, true
		}
	}
	return Entry{}, false
}

// voidAbove returns the nearest void element at or above path.
func (e *Editor) voidAbove(path Path) (Entry, bool) {
	for i := len(path); i >= 0; i-- {
		n := NodeAt(e.root, path[:i])
		if n != nil && e.reg.IsVoid(n) {
			return Entry{Node: n, Path: path[:i].Copy()}, true
		}
	}
	return Entry{}, false
}

// leavesInRange returns the text leaves from start's leaf to end's leaf.
func (e *Editor) leavesInRange(start, end Point) []Entry {
	var out []Entry
	for _, l := range Leaves(e.root) {
		if comparePaths(l.Path, start.Path) >= 0 && comparePaths(l.Path, end.Path) <= 0 {
			out = append(out, l)
		}
	}
	return out
}

// textBlocksInRange returns the distinct text blocks touched by the selection.
func (e *Editor) textBlocksInRange(sel Selection) []Entry {
	var out []Entry
	seen := map[*Node]bool{}
	for _, l := range e.leavesInRange(sel.Start(), sel.End()) {
		tb, ok := e.textBlockOf(l.Path)
		if !ok || seen[tb.Node] {
			continue
		}
		seen[tb.Node] = true
		out = append(out, tb)
	}
	return out
}

func (e *Editor) atBlockStart(p Point) (Entry, bool) {
	tb, ok := e.textBlockOf(p.Path)
	if !ok || p.Offset != 0 {
		return Entry{}, false
	}
	first, ok := FirstLeaf(e.root, tb.Path)
	if !ok || !first.Path.Equal(p.Path) {
		return Entry{}, false
	}
	return tb, true
}

func (e *Editor) atBlockEnd(p Point) (Entry, bool) {
	tb, ok := e.textBlockOf(p.Path)
	if !ok {
		return Entry{}, false
	}
	last, ok := LastLeaf(e.root, tb.Path)
	if !ok || !last.Path.Equal(p.Path) || p.Offset != len(last.Node.Text) {
		return Entry{}, false
	}
	return tb, true
}

func (e *Editor) selectLeaf(leaf *Node, offset int) bool {
	p, ok := PathOf(e.root, leaf)
	if !ok {
		return false
	}
	e.sel = Collapsed(Point{Path: p, Offset: clampOffset(offset, leaf)})
	return true
}

func (e *Editor) selectStartOf(path Path) bool {
	l, ok := FirstLeaf(e.root, path)
	if !ok {
		return false
	}
	e.sel = Collapsed(Point{Path: l.Path})
	return true
}

func (e *Editor) selectEndOf(path Path) bool {
	l, ok := LastLeaf(e.root, path)
	if !ok {
		return false
	}
	e.sel = Collapsed(Point{Path: l.Path, Offset: len(l.Node.Text)})
	return true
}

func clampOffset(offset int, leaf *Node) int {
	if offset < 0 {
		return 0
	}
	if offset > len(leaf.Text) {
		return len(leaf.Text)
	}
	return offset
}

// pointNear finds the closest valid point to a path that may no longer exist.
func (e *Editor) pointNear(path Path) (Point, bool) {
	p := Path{}
	n := e.root
	for _, i := range path {
		if len(n.Children) == 0 {
			break
		}
		if i >= len(n.Children) {
			i = len(n.Children) - 1
			p = append(p, i)
			if l, ok := LastLeaf(e.root, p); ok {
				return Point{Path: l.Path, Offset: len(l.Node.Text)}, true
			}
			return Point{}, false
		}
		p = append(p, i)
		n = n.Children[i]
	}
	if l, ok := FirstLeaf(e.root, p); ok {
		return Point{Path: l.Path}, true
	}
	if len(e.root.Children) == 0 {
		return Point{}, false
	}
	if l, ok := FirstLeaf(e.root, Path{0}); ok {
		return Point{Path: l.Path}, true
	}
	return Point{}, false
}

//
// Editing primitives
//

// ensureLeaf populates an empty element addressed by p so that p points at
// a text leaf, and moves points out of void elements.
func (e *Editor) ensureLeaf(p Point) (Point, error) {
	n := NodeAt(e.root, p.Path)
	if n == nil {
		return Point{}, ErrInvalidSelection
	}
	if n.IsElement() {
		if _, ok := FirstLeaf(e.root, p.Path); ok {
			return Point{}, ErrInvalidSelection
		}
		path := p.Path.Copy()
		for {
			s, ok := e.reg.Classify(n.Type)
			if !ok {
				return Point{}, ErrInvalidSelection
			}
			if s.Kind == KindInlines {
				n.Children = []*Node{NewText("")}
				path = append(path, 0)
				break
			}
			child := NewElement(s.DefaultBlock)
			n.Children = []*Node{child}
			path = append(path, 0)
			n = child
		}
		p = Point{Path: path}
	}

	v, ok := e.voidAbove(p.Path)
	if !ok {
		return p, nil
	}
	parent := NodeAt(e.root, v.Path.Parent())
	idx := v.Path[len(v.Path)-1]
	if e.reg.IsInline(v.Node) {
		if idx+1 < len(parent.Children) && parent.Children[idx+1].IsText() {
			return Point{Path: v.Path.Next()}, nil
		}
		insertChildren(parent, idx+1, NewText(""))
		return Point{Path: v.Path.Next()}, nil
	}
	para := NewElement(e.defaultTextBlock(v.Path.Parent()), NewText(""))
	insertChildren(parent, idx+1, para)
	return Point{Path: append(v.Path.Next(), 0)}, nil
}

// defaultTextBlock returns the default block of the container at path.
func (e *Editor) defaultTextBlock(container Path) NodeType {
	n := NodeAt(e.root, container)
	if n != nil {
		if s, ok := e.reg.Classify(n.Type); ok && s.Kind == KindBlocks {
			return s.DefaultBlock
		}
	}
	return TypeParagraph
}

// splitLeaf splits the leaf at p when p is strictly inside it and returns the
// start of the right part.
func (e *Editor) splitLeaf(p Point) (Point, bool) {
	leaf := NodeAt(e.root, p.Path)
	if leaf == nil || !leaf.IsText() || p.Offset <= 0 || p.Offset >= len(leaf.Text) {
		return p, false
	}
	parent := NodeAt(e.root, p.Path.Parent())
	idx := p.Path[len(p.Path)-1]
	right := &Node{Text: leaf.Text[p.Offset:], Marks: append([]Mark(nil), leaf.Marks...), Raw: deepCopyMap(leaf.Raw)}
	leaf.Text = leaf.Text[:p.Offset]
	insertChildren(parent, idx+1, right)
	return Point{Path: p.Path.Next()}, true
}

// shiftAfterInsert adjusts p for a node inserted at path.
func shiftAfterInsert(p, inserted Path) Path {
	d := len(inserted) - 1
	if d < 0 || len(p) <= d || commonPrefix(p, inserted) < d || p[d] < inserted[d] {
		return p
	}
	out := p.Copy()
	out[d]++
	return out
}

// isolate splits leaves at both ends of sel so the range covers whole leaves,
// and returns the leaves inside it.
func (e *Editor) isolate(sel Selection) (Point, Point, []Entry) {
	start, end := sel.Start(), sel.End()
	if sel.IsCollapsed() {
		return start, end, nil
	}

	e.splitLeaf(end)
	if ns, ok := e.splitLeaf(start); ok {
		if end.Path.Equal(start.Path) {
			end = Point{Path: ns.Path, Offset: end.Offset - start.Offset}
		} else {
			end = Point{Path: shiftAfterInsert(end.Path, ns.Path), Offset: end.Offset}
		}
		start = ns
	}

	var out []Entry
	for _, l := range e.leavesInRange(start, end) {
		if l.Path.Equal(start.Path) && start.Offset == len(l.Node.Text) && !l.Path.Equal(end.Path) {
			continue
		}
		if l.Path.Equal(end.Path) && end.Offset == 0 && !l.Path.Equal(start.Path) {
			continue
		}
		out = append(out, l)
	}
	return start, end, out
}

// deleteRange removes the content between start and end and joins the
// blocks on either side. It returns the collapsed point.
func (e *Editor) deleteRange(start, end Point) Point {
	if ComparePoint(start, end) >= 0 {
		return start
	}
	if start.Path.Equal(end.Path) {
		leaf := NodeAt(e.root, start.Path)
		leaf.Text = leaf.Text[:start.Offset] + leaf.Text[end.Offset:]
		return start
	}

	n := commonPrefix(start.Path, end.Path)
	ca := NodeAt(e.root, start.Path[:n])
	ia, ib := start.Path[n], end.Path[n]
	splitSubtree(ca.Children[ia], start.Path[n+1:], start.Offset)
	rest := splitSubtree(ca.Children[ib], end.Path[n+1:], end.Offset)

	out := make([]*Node, 0, len(ca.Children)-(ib-ia)+1)
	out = append(out, ca.Children[:ia+1]...)
	out = append(out, rest)
	out = append(out, ca.Children[ib+1:]...)
	ca.Children = out

	e.mergeSeam(ca, ia)
	return start
}

// mergeSeam joins the last text block of parent.Children[i] with the first
// text block of the following sibling, pruning containers left empty.
func (e *Editor) mergeSeam(parent *Node, i int) {
	if i+1 >= len(parent.Children) {
		return
	}
	a, b := parent.Children[i], parent.Children[i+1]
	if !e.reg.IsBlock(a) || !e.reg.IsBlock(b) {
		return
	}

	into := a
	for !e.isTextBlock(into) {
		if len(into.Children) == 0 || !into.IsElement() {
			return
		}
		into = into.Children[len(into.Children)-1]
	}
	chain := []*Node{b}
	for !e.isTextBlock(chain[len(chain)-1]) {
		cur := chain[len(chain)-1]
		if len(cur.Children) == 0 || !cur.IsElement() {
			return
		}
		chain = append(chain, cur.Children[0])
	}
	from := chain[len(chain)-1]
	if e.reg.IsVoid(into) || e.reg.IsVoid(from) {
		return
	}

	into.Children = append(into.Children, from.Children...)
	for k := len(chain) - 1; k > 0; k-- {
		removeChild(chain[k-1], 0)
		if len(chain[k-1].Children) > 0 {
			return
		}
	}
	removeChild(parent, i+1)
}

// wrapRange wraps the blocks spanning the text blocks at a and b in wrapper,
// inside the lowest container that accepts the wrapper's type.
func (e *Editor) wrapRange(a, b Path, wrapper *Node) (Path, bool) {
	depth := commonPrefix(a, b)
	if depth > len(a)-1 {
		depth = len(a) - 1
	}
	if depth > len(b)-1 {
		depth = len(b) - 1
	}
	for ; depth >= 0; depth-- {
		cp := a[:depth]
		c := NodeAt(e.root, cp)
		s, ok := e.reg.Classify(c.Type)
		if ok && s.Kind == KindBlocks && s.Allowed[wrapper.Type] {
			wrapChildren(c, a[depth], b[depth]+1, wrapper)
			return append(cp.Copy(), a[depth]), true
		}
	}
	return nil, false
}

// lift moves container.Children[k] out of the container at path, splitting
// the container around it. convert maps the lifted child to its replacement.
func (e *Editor) lift(path Path, k int, convert func(*Node) []*Node) {
	container := NodeAt(e.root, path)
	parent := NodeAt(e.root, path.Parent())
	idx := path[len(path)-1]

	before := container.Children[:k:k]
	child := container.Children[k]
	after := append([]*Node(nil), container.Children[k+1:]...)

	var repl []*Node
	if len(before) > 0 {
		container.Children = before
		repl = append(repl, container)
	}
	if convert == nil {
		repl = append(repl, child)
	} else {
		repl = append(repl, convert(child)...)
	}
	if len(after) > 0 {
		rest := container.shallowCopy()
		rest.Children = after
		repl = append(repl, rest)
	}
	removeChild(parent, idx)
	insertChildren(parent, idx, repl...)
}

// prevGrapheme returns the byte offset of the grapheme cluster ending at offset.
func prevGrapheme(text string, offset int) int {
	g := uniseg.NewGraphemes(text[:offset])
	start := 0
	for g.Next() {
		start, _ = g.Positions()
	}
	return start
}
