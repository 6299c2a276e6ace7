package blockdoc

import "sort"

// links wraps inline content in links and unwraps them again.
type links struct{}

func (links) Name() string { return "links" }

func (links) ExtendSchema(e *Editor) {
	e.reg.SetSpec(TypeLink, inlines(PolicyUnwrap))
	e.reg.RegisterInline(TypeLink)
	e.reg.AddRule(Rule{Name: "link-href", Fix: fixLink})
}

func fixLink(nz *Normalizer, root *Node, path Path, n *Node) bool {
	if n.Type != TypeLink || len(path) == 0 {
		return false
	}
	if n.Href == "" {
		return unwrapAt(root, path)
	}
	if _, nested := AboveOfType(root, path.Parent(), TypeLink); nested {
		return unwrapAt(root, path)
	}
	return false
}

// NewLink creates a link element around the given inline children.
func NewLink(href string, children ...*Node) *Node {
	n := NewElement(TypeLink, children...)
	n.Href = href
	return n
}

func (links) HandleCommand(e *Editor, cmd Command, next Next) error {
	switch c := cmd.(type) {
	case InsertLink:
		if !e.features.Links {
			return ErrFeatureDisabled
		}
		if c.Href == "" {
			return ErrInvalidHref
		}
		if e.sel == nil {
			return ErrNoSelection
		}
		if e.inCode(e.sel.Anchor.Path) {
			return ErrFeatureDisabled
		}
		if e.sel.IsCollapsed() {
			return next.Do(InsertNodes{Nodes: []*Node{NewLink(c.Href, NewText(c.Href))}})
		}
		return e.wrapLink(c.Href)
	case RemoveLink:
		return e.preserve(e.removeLinks)
	}
	return next.Do(cmd)
}

func (e *Editor) wrapLink(href string) error {
	a, okA := e.textBlockOf(e.sel.Start().Path)
	b, okB := e.textBlockOf(e.sel.End().Path)
	if !okA || !okB || a.Node != b.Node {
		return ErrInvalidSelection
	}
	start, end, leaves := e.isolate(*e.sel)
	if len(leaves) == 0 {
		return nil
	}
	e.setRange(start, end)
	return e.preserve(func() error {
		tb, _ := e.textBlockOf(leaves[0].Path)
		d := len(tb.Path)
		from := leaves[0].Path[d]
		to := leaves[len(leaves)-1].Path[d]
		wrapChildren(tb.Node, from, to+1, NewLink(href))
		return nil
	})
}

func (e *Editor) removeLinks() error {
	if e.sel == nil {
		return ErrNoSelection
	}
	var found []Path
	seen := map[*Node]bool{}
	collect := func(p Path) {
		for i := len(p); i >= 0; i-- {
			n := NodeAt(e.root, p[:i])
			if n != nil && n.Type == TypeLink && !seen[n] {
				seen[n] = true
				found = append(found, p[:i].Copy())
			}
		}
	}
	collect(e.sel.Start().Path)
	for _, l := range e.leavesInRange(e.sel.Start(), e.sel.End()) {
		collect(l.Path)
	}
	sort.Slice(found, func(i, j int) bool { return comparePaths(found[i], found[j]) > 0 })
	for _, p := range found {
		unwrapAt(e.root, p)
	}
	return nil
}
