package blockdoc

// ItemState is the derived state of one toolbar capability.
type ItemState struct {
	IsDisabled bool `json:"isDisabled"`
	IsSelected bool `json:"isSelected"`
}

// ToolbarState is the toolbar projection of a selection.
type ToolbarState struct {
	Marks           map[Mark]ItemState      `json:"marks"`
	Headings        map[int]ItemState       `json:"headings"`
	Lists           map[NodeType]ItemState  `json:"lists"`
	Alignment       map[Alignment]ItemState `json:"alignment"`
	Blockquote      ItemState               `json:"blockquote"`
	Code            ItemState               `json:"code"`
	Link            ItemState               `json:"link"`
	Divider         ItemState               `json:"divider"`
	Layouts         ItemState               `json:"layouts"`
	Relationships   map[string]ItemState    `json:"relationships"`
	ComponentBlocks ItemState               `json:"componentBlocks"`
	ClearFormatting ItemState               `json:"clearFormatting"`
}

var alignments = []Alignment{AlignStart, AlignCenter, AlignEnd}

// DeriveToolbarState computes the toolbar for sel. A capability disabled in
// features is always disabled; enabled ones are also disabled where the
// selection makes them structurally illegal.
//
// reg should be the Registry of the editor that owns root. A nil reg uses the
// registry the default behavior pipeline builds for features.
func DeriveToolbarState(root *Node, sel *Selection, features *Features, reg *Registry) ToolbarState {
	if features == nil {
		features = AllFeatures()
	}
	if reg == nil {
		reg = pipelineRegistry(features, DefaultBehaviors())
	}
	v := &Editor{root: root, sel: sel, features: features, reg: reg}
	return v.deriveToolbar()
}

// pipelineRegistry returns DefaultRegistry extended by behaviors.
func pipelineRegistry(features *Features, behaviors []Behavior) *Registry {
	v := &Editor{features: features, reg: DefaultRegistry()}
	for _, b := range behaviors {
		b.ExtendSchema(v)
	}
	return v.reg
}

// ToolbarState returns the toolbar for the current selection, including
// marks pending for the next insertion.
func (e *Editor) ToolbarState() ToolbarState {
	st := e.deriveToolbar()
	if e.hasPending {
		for m, s := range st.Marks {
			s.IsSelected = containsMark(e.pending, m)
			st.Marks[m] = s
		}
	}
	if len(e.comps) == 0 {
		st.ComponentBlocks.IsDisabled = true
	}
	return st
}

func (e *Editor) deriveToolbar() ToolbarState {
	f := e.features
	st := ToolbarState{
		Marks:         make(map[Mark]ItemState, len(FormattingMarks)),
		Headings:      make(map[int]ItemState, 6),
		Lists:         make(map[NodeType]ItemState, 2),
		Alignment:     make(map[Alignment]ItemState, len(alignments)),
		Relationships: make(map[string]ItemState, len(f.Relationships)),
	}
	off := ItemState{IsDisabled: true}
	if e.sel == nil || NodeAt(e.root, e.sel.Anchor.Path) == nil || NodeAt(e.root, e.sel.Focus.Path) == nil {
		for _, m := range FormattingMarks {
			st.Marks[m] = off
		}
		for l := 1; l <= 6; l++ {
			st.Headings[l] = off
		}
		st.Lists[TypeOrderedList], st.Lists[TypeUnorderedList] = off, off
		for _, a := range alignments {
			st.Alignment[a] = off
		}
		for name := range f.Relationships {
			st.Relationships[name] = off
		}
		st.Blockquote, st.Code, st.Link, st.Divider = off, off, off, off
		st.Layouts, st.ComponentBlocks, st.ClearFormatting = off, off, off
		return st
	}

	sel := *e.sel
	leaves := e.coveredLeaves(sel)
	blocks, _ := e.selectedBlocks()
	inCode := false
	for _, l := range leaves {
		if e.inCode(l.Path) {
			inCode = true
		}
	}
	voids := e.spansVoid(sel)
	anchor := sel.Anchor.Path

	for _, m := range FormattingMarks {
		all := len(leaves) > 0
		for _, l := range leaves {
			if !l.Node.HasMark(m) {
				all = false
				break
			}
		}
		st.Marks[m] = ItemState{IsDisabled: !f.MarkEnabled(m) || inCode, IsSelected: all}
	}

	for l := 1; l <= 6; l++ {
		all := len(blocks) > 0
		for _, b := range blocks {
			if b.Node.Type != TypeHeading || b.Node.Level != l {
				all = false
				break
			}
		}
		legal := len(blocks) > 0
		for _, b := range blocks {
			if !e.containerAllows(b.Path, TypeHeading) {
				legal = false
			}
		}
		st.Headings[l] = ItemState{IsDisabled: !f.HeadingEnabled(l) || !legal, IsSelected: all}
	}

	nearest, inListOK := AboveOfType(e.root, anchor, TypeOrderedList, TypeUnorderedList)
	for _, t := range []NodeType{TypeOrderedList, TypeUnorderedList} {
		st.Lists[t] = ItemState{
			IsDisabled: !f.ListEnabled(t) || voids || inCode,
			IsSelected: inListOK && nearest.Node.Type == t,
		}
	}

	aligned := 0
	for _, b := range blocks {
		if b.Node.Type == TypeParagraph || b.Node.Type == TypeHeading {
			aligned++
		}
	}
	for _, a := range alignments {
		all := aligned > 0
		for _, b := range blocks {
			if (b.Node.Type == TypeParagraph || b.Node.Type == TypeHeading) && b.Node.TextAlign != a {
				all = false
			}
		}
		st.Alignment[a] = ItemState{IsDisabled: !f.AlignmentEnabled(a) || aligned == 0, IsSelected: all}
	}

	_, inQuote := AboveOfType(e.root, anchor, TypeBlockquote)
	st.Blockquote = ItemState{IsDisabled: !f.Formatting.BlockTypes.Blockquote || voids, IsSelected: inQuote}

	allCode := len(blocks) > 0
	for _, b := range blocks {
		if b.Node.Type != TypeCode {
			allCode = false
		}
	}
	st.Code = ItemState{IsDisabled: !f.Formatting.BlockTypes.Code || voids, IsSelected: allCode}

	_, inLink := AboveOfType(e.root, anchor, TypeLink)
	st.Link = ItemState{IsDisabled: !f.Links || inCode || len(blocks) > 1, IsSelected: inLink}

	st.Divider = ItemState{IsDisabled: !f.Dividers || inCode}

	_, inLayout := AboveOfType(e.root, anchor, TypeLayout)
	st.Layouts = ItemState{IsDisabled: len(f.Layouts) == 0 || inCode, IsSelected: inLayout}

	for name := range f.Relationships {
		st.Relationships[name] = ItemState{IsDisabled: inCode}
	}
	st.ComponentBlocks = ItemState{IsDisabled: !f.ComponentBlocks || inCode}
	st.ClearFormatting = ItemState{IsDisabled: inCode || len(f.Formatting.InlineMarks) == 0}
	return st
}

// coveredLeaves returns the leaves whose text the selection covers; for a
// collapsed selection, the leaf at the caret.
func (e *Editor) coveredLeaves(sel Selection) []Entry {
	start, end := sel.Start(), sel.End()
	if sel.IsCollapsed() {
		n := NodeAt(e.root, start.Path)
		if n == nil || !n.IsText() {
			return nil
		}
		return []Entry{{Node: n, Path: start.Path}}
	}
	var out []Entry
	for _, l := range e.leavesInRange(start, end) {
		if l.Path.Equal(start.Path) && start.Offset == len(l.Node.Text) && !l.Path.Equal(end.Path) {
			continue
		}
		if l.Path.Equal(end.Path) && end.Offset == 0 && !l.Path.Equal(start.Path) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// spansVoid reports whether the selection touches a void element.
func (e *Editor) spansVoid(sel Selection) bool {
	for _, l := range e.leavesInRange(sel.Start(), sel.End()) {
		if _, ok := e.voidAbove(l.Path); ok {
			return true
		}
	}
	return false
}

// containerAllows reports whether the container of the block at path
// accepts children of type t.
func (e *Editor) containerAllows(path Path, t NodeType) bool {
	if len(path) == 0 {
		return false
	}
	parent := NodeAt(e.root, path.Parent())
	s, ok := e.reg.Classify(parent.Type)
	return ok && s.Kind == KindBlocks && s.Allowed[t]
}
