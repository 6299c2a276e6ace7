package blockdoc

import "strings"

// textShortcuts are replaced when followed by a typed space. Longer
// sequences come first.
var textShortcuts = []struct{ from, to string }{
	{"-->", "→"},
	{"<--", "←"},
	{"->", "→"},
	{"<-", "←"},
	{"--", "–"},
	{"...", "…"},
}

// shortcuts replaces typographic sequences such as "->" with arrows.
type shortcuts struct{}

func (shortcuts) Name() string { return "shortcuts" }

func (shortcuts) ExtendSchema(*Editor) {}

func (shortcuts) HandleCommand(e *Editor, cmd Command, next Next) error {
	c, ok := cmd.(InsertText)
	if !ok || c.Text != " " {
		return next.Do(cmd)
	}
	p, leaf, ok := e.caretLeaf()
	if !ok || e.inCode(p.Path) || leaf.HasMark(MarkCode) {
		return next.Do(cmd)
	}
	before := leaf.Text[:p.Offset]
	for _, s := range textShortcuts {
		if !strings.HasSuffix(before, s.from) {
			continue
		}
		head := before[:len(before)-len(s.from)] + s.to
		leaf.Text = head + leaf.Text[p.Offset:]
		e.sel = Collapsed(Point{Path: p.Path, Offset: len(head)})
		break
	}
	return next.Do(cmd)
}
