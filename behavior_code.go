package blockdoc

// codeBlock handles code blocks: plain, unmarked text with literal newlines.
type codeBlock struct{}

func (codeBlock) Name() string { return "code-block" }

func (codeBlock) ExtendSchema(e *Editor) {
	e.reg.AddRule(Rule{Name: "code-plain-text", Fix: fixCode})
}

func fixCode(nz *Normalizer, root *Node, path Path, n *Node) bool {
	if n.Type != TypeCode {
		return false
	}
	for i, c := range n.Children {
		switch {
		case c.IsText() && len(c.Marks) > 0:
			c.Marks = nil
			return true
		case nz.reg.IsVoid(c):
			removeChild(n, i)
			return true
		case c.IsElement():
			unwrapChild(n, i)
			return true
		}
	}
	return false
}

func (codeBlock) HandleCommand(e *Editor, cmd Command, next Next) error {
	switch cmd.(type) {
	case ToggleCode:
		if !e.features.Formatting.BlockTypes.Code {
			return ErrFeatureDisabled
		}
		blocks, err := e.selectedBlocks()
		if err != nil {
			return err
		}
		all := len(blocks) > 0
		for _, b := range blocks {
			if b.Node.Type != TypeCode {
				all = false
			}
		}
		for _, b := range blocks {
			switch {
			case all:
				retype(b.Node, TypeParagraph)
			case b.Node.Type == TypeParagraph || b.Node.Type == TypeHeading:
				retype(b.Node, TypeCode)
			}
		}
		return nil
	case InsertBreak:
		if e.sel != nil && e.inCode(e.sel.Anchor.Path) {
			return next.Do(InsertText{Text: "\n"})
		}
	}
	return next.Do(cmd)
}
