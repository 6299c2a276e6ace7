package blockdoc

//
// Helpers shared by behaviors
//

// caret returns the collapsed selection point, or false when the selection
// is expanded or missing.
func (e *Editor) caret() (Point, bool) {
	if e.sel == nil || !e.sel.IsCollapsed() {
		return Point{}, false
	}
	return e.sel.Anchor, true
}

// caretLeaf returns the collapsed selection point and its text leaf.
func (e *Editor) caretLeaf() (Point, *Node, bool) {
	p, ok := e.caret()
	if !ok {
		return Point{}, nil, false
	}
	leaf := NodeAt(e.root, p.Path)
	if leaf == nil || !leaf.IsText() {
		return Point{}, nil, false
	}
	return p, leaf, true
}

// selectedBlocks returns the text blocks touched by the selection.
func (e *Editor) selectedBlocks() ([]Entry, error) {
	if e.sel == nil {
		return nil, ErrNoSelection
	}
	if e.sel.IsCollapsed() {
		tb, ok := e.textBlockOf(e.sel.Anchor.Path)
		if !ok {
			return nil, nil
		}
		return []Entry{tb}, nil
	}
	return e.textBlocksInRange(*e.sel), nil
}

// inCode reports whether path is inside a code block.
func (e *Editor) inCode(path Path) bool {
	_, ok := AboveOfType(e.root, path, TypeCode)
	return ok
}

// retype changes an element's type, dropping attributes of the old type.
func retype(n *Node, t NodeType) {
	align := n.TextAlign
	n.resetAttrs()
	n.Type = t
	if t == TypeParagraph || t == TypeHeading {
		n.TextAlign = align
	} else {
		n.TextAlign = AlignStart
	}
}

// removeAt removes the node at path.
func removeAt(root *Node, path Path) {
	removeChild(NodeAt(root, path.Parent()), path[len(path)-1])
}

// unwrapAt splices the children of the node at path into its parent.
func unwrapAt(root *Node, path Path) bool {
	if len(path) == 0 {
		return false
	}
	unwrapChild(NodeAt(root, path.Parent()), path[len(path)-1])
	return true
}
