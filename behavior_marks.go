package blockdoc

// marks toggles formatting marks on the selection or, for a collapsed
// selection, on the text typed next.
type marks struct{}

func (marks) Name() string { return "marks" }

func (marks) ExtendSchema(*Editor) {}

func (marks) HandleCommand(e *Editor, cmd Command, next Next) error {
	switch c := cmd.(type) {
	case ToggleMark:
		if !e.features.MarkEnabled(c.Mark) {
			return ErrFeatureDisabled
		}
		return e.toggleMark(c.Mark)
	case ClearMarks:
		return e.clearMarks()
	}
	return next.Do(cmd)
}

func (e *Editor) toggleMark(m Mark) error {
	if e.sel == nil {
		return ErrNoSelection
	}
	if e.inCode(e.sel.Anchor.Path) {
		return ErrFeatureDisabled
	}
	if e.sel.IsCollapsed() {
		p, err := e.ensureLeaf(e.sel.Anchor)
		if err != nil {
			return err
		}
		e.sel = Collapsed(p)
		e.togglePending(m, NodeAt(e.root, p.Path))
		return nil
	}

	start, end, leaves := e.isolate(*e.sel)
	on := false
	for _, l := range leaves {
		if !l.Node.HasMark(m) && !e.inCode(l.Path) {
			on = true
			break
		}
	}
	for _, l := range leaves {
		if !e.inCode(l.Path) {
			l.Node.SetMark(m, on)
		}
	}
	e.setRange(start, end)
	return nil
}

func (e *Editor) clearMarks() error {
	if e.sel == nil {
		return ErrNoSelection
	}
	if e.sel.IsCollapsed() {
		e.pending, e.hasPending = nil, true
		return nil
	}
	start, end, leaves := e.isolate(*e.sel)
	for _, l := range leaves {
		for _, m := range FormattingMarks {
			l.Node.SetMark(m, false)
		}
	}
	e.setRange(start, end)
	return nil
}

// setRange selects start..end, keeping the direction of the old selection.
func (e *Editor) setRange(start, end Point) {
	if e.sel != nil && e.sel.IsBackward() {
		e.sel = &Selection{Anchor: end, Focus: start}
		return
	}
	e.sel = &Selection{Anchor: start, Focus: end}
}
