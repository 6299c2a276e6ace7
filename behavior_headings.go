package blockdoc

// headings sets heading levels and leaves headings on break and backspace.
type headings struct{}

func (headings) Name() string { return "headings" }

func (headings) ExtendSchema(e *Editor) {
	e.reg.AddRule(Rule{Name: "heading-level", Fix: fixHeadingLevel})
}

func fixHeadingLevel(nz *Normalizer, root *Node, path Path, n *Node) bool {
	if n.Type != TypeHeading {
		return false
	}
	switch {
	case n.Level < 1:
		n.Level = 1
	case n.Level > 6:
		n.Level = 6
	default:
		return false
	}
	return true
}

func (headings) HandleCommand(e *Editor, cmd Command, next Next) error {
	switch c := cmd.(type) {
	case SetHeading:
		return e.setHeading(c.Level)
	case InsertBreak:
		p, ok := e.caret()
		if !ok {
			break
		}
		tb, ok := e.atBlockEnd(p)
		if !ok || tb.Node.Type != TypeHeading {
			break
		}
		if err := next.Do(cmd); err != nil {
			return err
		}
		if nb, ok := e.textBlockOf(e.sel.Anchor.Path); ok && nb.Node != tb.Node && nb.Node.Type == TypeHeading {
			retype(nb.Node, TypeParagraph)
		}
		return nil
	case DeleteBackward:
		p, ok := e.caret()
		if !ok {
			break
		}
		if tb, ok := e.atBlockStart(p); ok && tb.Node.Type == TypeHeading {
			retype(tb.Node, TypeParagraph)
			return nil
		}
	}
	return next.Do(cmd)
}

func (e *Editor) setHeading(level int) error {
	if level != 0 && !e.features.HeadingEnabled(level) {
		return ErrFeatureDisabled
	}
	blocks, err := e.selectedBlocks()
	if err != nil {
		return err
	}
	all := level != 0 && len(blocks) > 0
	for _, b := range blocks {
		if b.Node.Type != TypeHeading || b.Node.Level != level {
			all = false
		}
	}
	for _, b := range blocks {
		if b.Node.Type != TypeParagraph && b.Node.Type != TypeHeading {
			continue
		}
		if all || level == 0 {
			retype(b.Node, TypeParagraph)
			continue
		}
		retype(b.Node, TypeHeading)
		b.Node.Level = level
	}
	return nil
}
