package blockdoc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// insertMenu flags text typed after "/" so hosts can show an insert menu,
// and runs the picked item in place of the query.
type insertMenu struct{}

func (insertMenu) Name() string { return "insert-menu" }

func (insertMenu) ExtendSchema(e *Editor) {
	e.reg.AddRule(Rule{Name: "insert-menu-mark", Fix: fixInsertMenu})
}

func fixInsertMenu(nz *Normalizer, root *Node, path Path, n *Node) bool {
	for _, c := range n.Children {
		if c.IsText() && c.HasMark(MarkInsertMenu) && !strings.HasPrefix(c.Text, "/") {
			c.SetMark(MarkInsertMenu, false)
			return true
		}
	}
	return false
}

func (insertMenu) HandleCommand(e *Editor, cmd Command, next Next) error {
	switch c := cmd.(type) {
	case InsertText:
		if c.Text != "/" {
			break
		}
		p, leaf, ok := e.caretLeaf()
		if !ok || e.inCode(p.Path) || leaf.HasMark(MarkInsertMenu) {
			break
		}
		if p.Offset > 0 {
			r, _ := utf8.DecodeLastRuneInString(leaf.Text[:p.Offset])
			if !unicode.IsSpace(r) {
				break
			}
		}
		if !e.hasPending || !containsMark(e.pending, MarkInsertMenu) {
			e.togglePending(MarkInsertMenu, leaf)
		}
	case InsertMenuSelect:
		if p, leaf, ok := e.caretLeaf(); ok && leaf.HasMark(MarkInsertMenu) {
			leaf.Text = ""
			leaf.SetMark(MarkInsertMenu, false)
			e.sel = Collapsed(Point{Path: p.Path})
		}
		if c.Item == nil {
			return nil
		}
		return e.Dispatch(c.Item)
	}
	return next.Do(cmd)
}

func containsMark(ms []Mark, m Mark) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}
