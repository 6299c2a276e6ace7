package blockdoc

import "strings"

// softBreaks inserts line breaks within a block when enabled.
type softBreaks struct{}

func (softBreaks) Name() string { return "soft-breaks" }

func (softBreaks) ExtendSchema(*Editor) {}

func (softBreaks) HandleCommand(e *Editor, cmd Command, next Next) error {
	if _, ok := cmd.(InsertSoftBreak); !ok {
		return next.Do(cmd)
	}
	if !e.features.Formatting.SoftBreaks {
		return ErrFeatureDisabled
	}
	return next.Do(InsertText{Text: "\n"})
}

// paste inserts document fragments and plain text.
type paste struct{}

func (paste) Name() string { return "paste" }

func (paste) ExtendSchema(*Editor) {}

func (paste) HandleCommand(e *Editor, cmd Command, next Next) error {
	c, ok := cmd.(Paste)
	if !ok {
		return next.Do(cmd)
	}
	if len(c.Fragment) > 0 {
		frag := c.Fragment.Clone()
		if len(frag) == 1 && frag[0].Type == TypeParagraph {
			return next.Do(InsertNodes{Nodes: frag[0].Children})
		}
		return next.Do(InsertNodes{Nodes: frag})
	}

	text := strings.ReplaceAll(c.Text, "\r\n", "\n")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			if err := e.Dispatch(InsertBreak{}); err != nil {
				return err
			}
		}
		if line == "" {
			continue
		}
		if err := e.Dispatch(InsertText{Text: line}); err != nil {
			return err
		}
	}
	return nil
}
