package blockdoc

import "strings"

// blockMarkdownShortcuts turns markdown prefixes typed at the start of a
// paragraph into the matching block.
type blockMarkdownShortcuts struct{}

func (blockMarkdownShortcuts) Name() string { return "block-markdown-shortcuts" }

func (blockMarkdownShortcuts) ExtendSchema(*Editor) {}

func (blockMarkdownShortcuts) HandleCommand(e *Editor, cmd Command, next Next) error {
	c, ok := cmd.(InsertText)
	if !ok {
		return next.Do(cmd)
	}
	p, leaf, ok := e.caretLeaf()
	if !ok {
		return next.Do(cmd)
	}
	tb, ok := e.textBlockOf(p.Path)
	if !ok || tb.Node.Type != TypeParagraph {
		return next.Do(cmd)
	}
	if first, ok := FirstLeaf(e.root, tb.Path); !ok || !first.Path.Equal(p.Path) {
		return next.Do(cmd)
	}
	prefix := leaf.Text[:p.Offset]

	consume := func() {
		leaf.Text = leaf.Text[p.Offset:]
		e.sel = Collapsed(Point{Path: p.Path})
	}

	switch c.Text {
	case " ":
		switch {
		case prefix != "" && len(prefix) <= 6 && strings.Trim(prefix, "#") == "":
			if !e.features.HeadingEnabled(len(prefix)) {
				break
			}
			consume()
			tb.Node.Type = TypeHeading
			tb.Node.Level = len(prefix)
			return nil
		case prefix == "-" || prefix == "*":
			if !e.features.ListEnabled(TypeUnorderedList) || inList(e.root, p.Path) {
				break
			}
			consume()
			return e.Dispatch(ToggleList{Type: TypeUnorderedList})
		case prefix == "1.":
			if !e.features.ListEnabled(TypeOrderedList) || inList(e.root, p.Path) {
				break
			}
			consume()
			return e.Dispatch(ToggleList{Type: TypeOrderedList})
		case prefix == ">":
			if !e.features.Formatting.BlockTypes.Blockquote {
				break
			}
			if _, ok := AboveOfType(e.root, p.Path, TypeBlockquote); ok {
				break
			}
			consume()
			return e.Dispatch(ToggleBlockquote{})
		}
	case "`":
		if prefix == "``" && e.features.Formatting.BlockTypes.Code {
			consume()
			retype(tb.Node, TypeCode)
			return nil
		}
	case "-":
		if prefix == "--" && tb.Node.PlainText() == "--" && e.features.Dividers {
			consume()
			return e.Dispatch(InsertDivider{})
		}
	}
	return next.Do(cmd)
}

func inList(root *Node, path Path) bool {
	_, ok := AboveOfType(root, path, TypeListItem)
	return ok
}
