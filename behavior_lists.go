package blockdoc

// lists toggles, nests and un-nests ordered and unordered lists.
type lists struct{}

func (lists) Name() string { return "lists" }

func (lists) ExtendSchema(e *Editor) {
	e.reg.AddRule(Rule{Name: "merge-adjacent-lists", Fix: fixAdjacentLists})
}

func isList(n *Node) bool {
	return n.Type == TypeOrderedList || n.Type == TypeUnorderedList
}

func fixAdjacentLists(nz *Normalizer, root *Node, path Path, n *Node) bool {
	for i := 0; i+1 < len(n.Children); i++ {
		a, b := n.Children[i], n.Children[i+1]
		if isList(a) && a.Type == b.Type {
			a.Children = append(a.Children, b.Children...)
			removeChild(n, i+1)
			return true
		}
	}
	return false
}

func (lists) HandleCommand(e *Editor, cmd Command, next Next) error {
	switch c := cmd.(type) {
	case ToggleList:
		if !e.features.ListEnabled(c.Type) {
			return ErrFeatureDisabled
		}
		return e.preserve(func() error { return e.toggleList(c.Type) })
	case IndentListItem:
		return e.preserve(e.indentListItem)
	case OutdentListItem:
		return e.preserve(e.outdentListItem)
	case InsertBreak:
		p, ok := e.caret()
		if !ok {
			break
		}
		tb, ok := e.textBlockOf(p.Path)
		if !ok || tb.Node.Type != TypeListItemContent {
			break
		}
		if tb.Node.PlainText() == "" && len(tb.Node.Children) <= 1 {
			return e.preserve(e.outdentListItem)
		}
		item := NodeAt(e.root, tb.Path.Parent())
		itemPath := tb.Path.Parent()
		right := splitSubtree(item, p.Path[len(itemPath):], p.Offset)
		insertChildren(NodeAt(e.root, itemPath.Parent()), itemPath[len(itemPath)-1]+1, right)
		e.selectStartOf(itemPath.Next())
		return nil
	case DeleteBackward:
		p, ok := e.caret()
		if !ok {
			break
		}
		if tb, ok := e.atBlockStart(p); ok && tb.Node.Type == TypeListItemContent {
			return e.preserve(e.outdentListItem)
		}
	}
	return next.Do(cmd)
}

func (e *Editor) toggleList(t NodeType) error {
	if e.sel == nil {
		return ErrNoSelection
	}
	start, end := e.sel.Start(), e.sel.End()
	if e.spansVoid(*e.sel) {
		return ErrInvalidSelection
	}

	if l, ok := AboveOfType(e.root, start.Path, TypeOrderedList, TypeUnorderedList); ok && l.Path.IsAncestorOf(end.Path) {
		if l.Node.Type != t {
			l.Node.Type = t
			return nil
		}
		parent := NodeAt(e.root, l.Path.Parent())
		idx := l.Path[len(l.Path)-1]
		removeChild(parent, idx)
		insertChildren(parent, idx, flattenList(l.Node)...)
		return nil
	}

	blocks, err := e.selectedBlocks()
	if err != nil || len(blocks) == 0 {
		return err
	}
	list := NewElement(t)
	lp, ok := e.wrapRange(blocks[0].Path, blocks[len(blocks)-1].Path, list)
	if !ok {
		return nil
	}
	items := make([]*Node, 0, len(list.Children))
	for _, c := range list.Children {
		items = append(items, e.toListItem(c))
	}
	NodeAt(e.root, lp).Children = items
	return nil
}

// toListItem converts a block into a list item.
func (e *Editor) toListItem(n *Node) *Node {
	if n.Type == TypeListItem {
		return n
	}
	if isList(n) {
		return NewElement(TypeListItem, NewElement(TypeListItemContent, NewText("")), n)
	}
	if e.isTextBlock(n) {
		retype(n, TypeListItemContent)
		return NewElement(TypeListItem, n)
	}
	return NewElement(TypeListItem, n)
}

// flattenList turns a list into paragraphs, recursing into nested lists.
func flattenList(l *Node) []*Node {
	var out []*Node
	for _, item := range l.Children {
		for _, c := range item.Children {
			switch {
			case isList(c):
				out = append(out, flattenList(c)...)
			case c.Type == TypeListItemContent:
				retype(c, TypeParagraph)
				out = append(out, c)
			default:
				out = append(out, c)
			}
		}
	}
	return out
}

// currentItem returns the list item holding the selection anchor and the
// list that contains it.
func (e *Editor) currentItem() (item, list Entry, ok bool) {
	if e.sel == nil {
		return Entry{}, Entry{}, false
	}
	item, ok = AboveOfType(e.root, e.sel.Anchor.Path, TypeListItem)
	if !ok {
		return Entry{}, Entry{}, false
	}
	lp := item.Path.Parent()
	return item, Entry{Node: NodeAt(e.root, lp), Path: lp}, true
}

func (e *Editor) indentListItem() error {
	item, list, ok := e.currentItem()
	if !ok {
		return ErrInvalidSelection
	}
	k := item.Path[len(item.Path)-1]
	if k == 0 {
		return nil
	}
	prev := list.Node.Children[k-1]
	removeChild(list.Node, k)
	if n := len(prev.Children); n > 0 && isList(prev.Children[n-1]) {
		last := prev.Children[n-1]
		last.Children = append(last.Children, item.Node)
		return nil
	}
	prev.Children = append(prev.Children, NewElement(list.Node.Type, item.Node))
	return nil
}

func (e *Editor) outdentListItem() error {
	item, list, ok := e.currentItem()
	if !ok {
		return ErrInvalidSelection
	}
	k := item.Path[len(item.Path)-1]
	parentPath := list.Path.Parent()
	parent := NodeAt(e.root, parentPath)

	if parent.Type != TypeListItem {
		e.lift(list.Path, k, func(it *Node) []*Node {
			out := make([]*Node, 0, len(it.Children))
			for _, c := range it.Children {
				if c.Type == TypeListItemContent {
					retype(c, TypeParagraph)
				}
				out = append(out, c)
			}
			return out
		})
		return nil
	}

	after := append([]*Node(nil), list.Node.Children[k+1:]...)
	list.Node.Children = list.Node.Children[:k]
	if len(after) > 0 {
		item.Node.Children = append(item.Node.Children, NewElement(list.Node.Type, after...))
	}
	if len(list.Node.Children) == 0 {
		removeChild(parent, list.Path[len(list.Path)-1])
	}
	outer := NodeAt(e.root, parentPath.Parent())
	insertChildren(outer, parentPath[len(parentPath)-1]+1, item.Node)
	return nil
}
