package blockdoc

// NodeAt returns the node addressed by path under root, or nil.
func NodeAt(root *Node, path Path) *Node {
	n := root
	for _, i := range path {
		if n == nil || i < 0 || i >= len(n.Children) {
			return nil
		}
		n = n.Children[i]
	}
	return n
}

// PathOf finds target under root by identity.
func PathOf(root, target *Node) (Path, bool) {
	if root == target {
		return Path{}, true
	}
	for i, c := range root.Children {
		if p, ok := PathOf(c, target); ok {
			return append(Path{i}, p...), true
		}
	}
	return nil, false
}

// Entry pairs a node with its path.
type Entry struct {
	Node *Node
	Path Path
}

// Ancestors lists the nodes from the root down to the parent of path.
func Ancestors(root *Node, path Path) []Entry {
	out := make([]Entry, 0, len(path))
	n := root
	for i := 0; i < len(path); i++ {
		out = append(out, Entry{Node: n, Path: path[:i].Copy()})
		if path[i] >= len(n.Children) {
			break
		}
		n = n.Children[path[i]]
	}
	return out
}

// AboveOfType returns the nearest element at or above path whose type is in types.
func AboveOfType(root *Node, path Path, types ...NodeType) (Entry, bool) {
	for i := len(path); i >= 0; i-- {
		n := NodeAt(root, path[:i])
		if n == nil {
			continue
		}
		for _, t := range types {
			if n.Type == t {
				return Entry{Node: n, Path: path[:i].Copy()}, true
			}
		}
	}
	return Entry{}, false
}

// Leaves returns the text leaves under n in document order.
func Leaves(root *Node) []Entry {
	var out []Entry
	var visit func(n *Node, p Path)
	visit = func(n *Node, p Path) {
		if n.IsText() {
			out = append(out, Entry{Node: n, Path: p})
			return
		}
		for i, c := range n.Children {
			visit(c, p.Child(i))
		}
	}
	visit(root, Path{})
	return out
}

// FirstLeaf returns the first text leaf at or under path.
func FirstLeaf(root *Node, path Path) (Entry, bool) {
	n := NodeAt(root, path)
	if n == nil {
		return Entry{}, false
	}
	p := path.Copy()
	for !n.IsText() {
		if len(n.Children) == 0 {
			return Entry{}, false
		}
		n = n.Children[0]
		p = append(p, 0)
	}
	return Entry{Node: n, Path: p}, true
}

// LastLeaf returns the last text leaf at or under path.
func LastLeaf(root *Node, path Path) (Entry, bool) {
	n := NodeAt(root, path)
	if n == nil {
		return Entry{}, false
	}
	p := path.Copy()
	for !n.IsText() {
		if len(n.Children) == 0 {
			return Entry{}, false
		}
		i := len(n.Children) - 1
		n = n.Children[i]
		p = append(p, i)
	}
	return Entry{Node: n, Path: p}, true
}

func insertChildren(parent *Node, at int, nodes ...*Node) {
	if at > len(parent.Children) {
		at = len(parent.Children)
	}
	out := make([]*Node, 0, len(parent.Children)+len(nodes))
	out = append(out, parent.Children[:at]...)
	out = append(out, nodes...)
	out = append(out, parent.Children[at:]...)
	parent.Children = out
}

func removeChild(parent *Node, at int) *Node {
	n := parent.Children[at]
	parent.Children = append(parent.Children[:at:at], parent.Children[at+1:]...)
	return n
}

// unwrapChild splices the children of parent.Children[at] into parent.
func unwrapChild(parent *Node, at int) {
	c := removeChild(parent, at)
	insertChildren(parent, at, c.Children...)
}

// wrapChildren replaces parent.Children[from:to] with a single wrapper holding them.
func wrapChildren(parent *Node, from, to int, wrapper *Node) {
	moved := append([]*Node(nil), parent.Children[from:to]...)
	wrapper.Children = moved
	out := make([]*Node, 0, len(parent.Children)-len(moved)+1)
	out = append(out, parent.Children[:from]...)
	out = append(out, wrapper)
	out = append(out, parent.Children[to:]...)
	parent.Children = out
}

// splitSubtree splits n at rel/offset, truncating n and returning the right half.
func splitSubtree(n *Node, rel Path, offset int) *Node {
	if n.IsText() {
		if offset > len(n.Text) {
			offset = len(n.Text)
		}
		right := &Node{Text: n.Text[offset:], Marks: append([]Mark(nil), n.Marks...), Raw: deepCopyMap(n.Raw)}
		n.Text = n.Text[:offset]
		return right
	}
	i := rel[0]
	childRight := splitSubtree(n.Children[i], rel[1:], offset)
	right := n.shallowCopy()
	right.Children = append([]*Node{childRight}, n.Children[i+1:]...)
	n.Children = n.Children[:i+1]
	return right
}
