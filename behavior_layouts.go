package blockdoc

// layouts inserts multi-column layouts and keeps one area per ratio.
type layouts struct{}

func (layouts) Name() string { return "layouts" }

func (layouts) ExtendSchema(e *Editor) {
	e.reg.AddRule(Rule{Name: "layout-areas", Fix: fixLayoutAreas})
}

func fixLayoutAreas(nz *Normalizer, root *Node, path Path, n *Node) bool {
	if n.Type != TypeLayout || len(n.Layout) == 0 {
		return false
	}
	want := len(n.Layout)
	switch {
	case len(n.Children) > want:
		last := n.Children[want-1]
		extra := n.Children[want]
		last.Children = append(last.Children, extra.Children...)
		removeChild(n, want)
		return true
	case len(n.Children) < want:
		n.Children = append(n.Children, NewElement(TypeLayoutArea, NewParagraph("")))
		return true
	}
	return false
}

func newLayout(ratios []int) *Node {
	n := NewElement(TypeLayout)
	n.Layout = append([]int(nil), ratios...)
	for range ratios {
		n.Children = append(n.Children, NewElement(TypeLayoutArea, NewParagraph("")))
	}
	return n
}

func (layouts) HandleCommand(e *Editor, cmd Command, next Next) error {
	switch c := cmd.(type) {
	case InsertLayout:
		if !e.features.LayoutAllowed(c.Layout) {
			return ErrFeatureDisabled
		}
		if e.sel != nil {
			if _, ok := AboveOfType(e.root, e.sel.Anchor.Path, TypeLayout); ok {
				return ErrInvalidSelection
			}
		}
		n := newLayout(c.Layout)
		if err := next.Do(InsertNodes{Nodes: []*Node{n}}); err != nil {
			return err
		}
		if p, ok := PathOf(e.root, n); ok {
			e.selectStartOf(p)
		}
		return nil
	case SetLayout:
		if !e.features.LayoutAllowed(c.Layout) {
			return ErrFeatureDisabled
		}
		if e.sel == nil {
			return ErrNoSelection
		}
		l, ok := AboveOfType(e.root, e.sel.Anchor.Path, TypeLayout)
		if !ok {
			return ErrInvalidSelection
		}
		l.Node.Layout = append([]int(nil), c.Layout...)
		return nil
	case DeleteBackward:
		if p, ok := e.caret(); ok {
			if area, ok := AboveOfType(e.root, p.Path, TypeLayoutArea); ok {
				if first, ok := FirstLeaf(e.root, area.Path); ok && first.Path.Equal(p.Path) && p.Offset == 0 {
					return nil
				}
			}
		}
	}
	return next.Do(cmd)
}
