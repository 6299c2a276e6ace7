package blockdoc

// blockquote wraps blocks in quotes and lifts them out on backspace or on
// a break in an empty paragraph.
type blockquote struct{}

func (blockquote) Name() string { return "blockquote" }

func (blockquote) ExtendSchema(*Editor) {}

func (blockquote) HandleCommand(e *Editor, cmd Command, next Next) error {
	switch cmd.(type) {
	case ToggleBlockquote:
		if !e.features.Formatting.BlockTypes.Blockquote {
			return ErrFeatureDisabled
		}
		return e.preserve(e.toggleBlockquote)
	case DeleteBackward:
		p, ok := e.caret()
		if !ok {
			break
		}
		if tb, ok := e.atBlockStart(p); ok && e.parentIsQuote(tb.Path) {
			return e.preserve(func() error {
				e.lift(tb.Path.Parent(), tb.Path[len(tb.Path)-1], nil)
				return nil
			})
		}
	case InsertBreak:
		p, ok := e.caret()
		if !ok {
			break
		}
		tb, ok := e.textBlockOf(p.Path)
		if ok && tb.Node.Type == TypeParagraph && tb.Node.PlainText() == "" && len(tb.Node.Children) <= 1 && e.parentIsQuote(tb.Path) {
			return e.preserve(func() error {
				e.lift(tb.Path.Parent(), tb.Path[len(tb.Path)-1], nil)
				return nil
			})
		}
	}
	return next.Do(cmd)
}

func (e *Editor) parentIsQuote(path Path) bool {
	if len(path) == 0 {
		return false
	}
	parent := NodeAt(e.root, path.Parent())
	return parent != nil && parent.Type == TypeBlockquote
}

func (e *Editor) toggleBlockquote() error {
	if e.sel == nil {
		return ErrNoSelection
	}
	if q, ok := AboveOfType(e.root, e.sel.Anchor.Path, TypeBlockquote); ok {
		unwrapAt(e.root, q.Path)
		return nil
	}
	blocks, err := e.selectedBlocks()
	if err != nil || len(blocks) == 0 {
		return err
	}
	e.wrapRange(blocks[0].Path, blocks[len(blocks)-1].Path, NewElement(TypeBlockquote))
	return nil
}
