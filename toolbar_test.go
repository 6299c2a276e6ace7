package blockdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolbarWithoutSelection(t *testing.T) {
	e := newEditor(t, Document{para("a")})
	e.Deselect()
	st := e.ToolbarState()

	require.Len(t, st.Marks, len(FormattingMarks))
	for m, s := range st.Marks {
		assert.True(t, s.IsDisabled, m)
	}
	for l := 1; l <= 6; l++ {
		assert.True(t, st.Headings[l].IsDisabled)
	}
	assert.True(t, st.Lists[TypeOrderedList].IsDisabled)
	assert.True(t, st.Lists[TypeUnorderedList].IsDisabled)
	assert.True(t, st.Alignment[AlignCenter].IsDisabled)
	assert.True(t, st.Blockquote.IsDisabled)
	assert.True(t, st.Code.IsDisabled)
	assert.True(t, st.Link.IsDisabled)
	assert.True(t, st.Divider.IsDisabled)
	assert.True(t, st.Layouts.IsDisabled)
	assert.True(t, st.ComponentBlocks.IsDisabled)
	assert.True(t, st.ClearFormatting.IsDisabled)
}

func TestToolbarMarks(t *testing.T) {
	doc := Document{el(TypeParagraph, txt("ab", MarkBold), txt("cd", MarkBold, MarkItalic))}
	e := newEditor(t, doc)

	selectRange(t, e, pt(0, 0, 0), pt(2, 0, 1))
	st := e.ToolbarState()
	assert.Equal(t, ItemState{IsSelected: true}, st.Marks[MarkBold])
	assert.Equal(t, ItemState{}, st.Marks[MarkItalic])

	// a range ending at the start of a leaf does not cover it
	selectRange(t, e, pt(0, 0, 0), pt(0, 0, 1))
	assert.False(t, e.ToolbarState().Marks[MarkItalic].IsSelected)
	selectRange(t, e, pt(2, 0, 0), pt(2, 0, 1))
	assert.True(t, e.ToolbarState().Marks[MarkItalic].IsSelected)

	caretAt(t, e, 1, 0, 1)
	st = e.ToolbarState()
	assert.True(t, st.Marks[MarkItalic].IsSelected)
	assert.False(t, st.Marks[MarkUnderline].IsSelected)

	apply(t, e, ToggleMark{Mark: MarkItalic})
	st = e.ToolbarState()
	assert.False(t, st.Marks[MarkItalic].IsSelected)
	assert.True(t, st.Marks[MarkBold].IsSelected)
}

func TestToolbarMarksDisabledByFeatures(t *testing.T) {
	f := AllFeatures()
	f.Formatting.InlineMarks = []Mark{MarkBold}
	e := newEditorWith(t, f, Document{para("a")})
	st := e.ToolbarState()
	assert.False(t, st.Marks[MarkBold].IsDisabled)
	assert.True(t, st.Marks[MarkItalic].IsDisabled)
	assert.False(t, st.ClearFormatting.IsDisabled)
}

func TestToolbarHeadings(t *testing.T) {
	e := newEditor(t, Document{NewHeading(2, "a"), para("b")})
	st := e.ToolbarState()
	assert.Equal(t, ItemState{IsSelected: true}, st.Headings[2])
	assert.Equal(t, ItemState{}, st.Headings[1])

	selectRange(t, e, pt(0, 0, 0), pt(1, 1, 0))
	assert.False(t, e.ToolbarState().Headings[2].IsSelected)

	// list item content cannot become a heading
	e = newEditor(t, Document{el(TypeUnorderedList, item("a"))})
	st = e.ToolbarState()
	assert.True(t, st.Headings[1].IsDisabled)
	assert.Equal(t, ItemState{IsSelected: true}, st.Lists[TypeUnorderedList])
	assert.Equal(t, ItemState{}, st.Lists[TypeOrderedList])
}

func TestToolbarSpanningVoid(t *testing.T) {
	e := newEditor(t, Document{para("a"), el(TypeDivider, txt("")), para("b")})
	selectRange(t, e, pt(0, 0, 0), pt(1, 2, 0))
	st := e.ToolbarState()
	assert.True(t, st.Lists[TypeUnorderedList].IsDisabled)
	assert.True(t, st.Blockquote.IsDisabled)
	assert.True(t, st.Code.IsDisabled)
	assert.True(t, st.Link.IsDisabled)
}

func TestToolbarInCode(t *testing.T) {
	e := newEditor(t, Document{el(TypeCode, txt("x"))})
	st := e.ToolbarState()
	assert.True(t, st.Marks[MarkBold].IsDisabled)
	assert.Equal(t, ItemState{IsSelected: true}, st.Code)
	assert.True(t, st.Link.IsDisabled)
	assert.True(t, st.Divider.IsDisabled)
	assert.True(t, st.ClearFormatting.IsDisabled)
	assert.True(t, st.Alignment[AlignStart].IsDisabled)
	assert.True(t, st.Lists[TypeOrderedList].IsDisabled)
}

func TestToolbarAlignment(t *testing.T) {
	p := para("a")
	p.TextAlign = AlignCenter
	e := newEditor(t, Document{p})
	st := e.ToolbarState()
	assert.Equal(t, ItemState{IsSelected: true}, st.Alignment[AlignCenter])
	assert.Equal(t, ItemState{}, st.Alignment[AlignStart])

	f := AllFeatures()
	f.Formatting.Alignment.End = false
	e = newEditorWith(t, f, Document{para("a")})
	st = e.ToolbarState()
	assert.Equal(t, ItemState{IsSelected: true}, st.Alignment[AlignStart])
	assert.True(t, st.Alignment[AlignEnd].IsDisabled)
}

func TestToolbarContainers(t *testing.T) {
	e := newEditor(t, Document{el(TypeBlockquote, para("a"))})
	assert.Equal(t, ItemState{IsSelected: true}, e.ToolbarState().Blockquote)

	e = newEditor(t, Document{layoutOf([]int{1, 1}, el(TypeLayoutArea, para("a")), el(TypeLayoutArea, para("b")))})
	assert.Equal(t, ItemState{IsSelected: true}, e.ToolbarState().Layouts)

	f := AllFeatures()
	f.Layouts = nil
	e = newEditorWith(t, f, nil)
	assert.True(t, e.ToolbarState().Layouts.IsDisabled)
}

func TestToolbarLinkAcrossBlocks(t *testing.T) {
	e := newEditor(t, Document{para("a"), para("b")})
	selectRange(t, e, pt(0, 0, 0), pt(1, 1, 0))
	assert.True(t, e.ToolbarState().Link.IsDisabled)

	selectRange(t, e, pt(0, 0, 0), pt(1, 0, 0))
	assert.Equal(t, ItemState{}, e.ToolbarState().Link)
}

func TestToolbarComponentBlocks(t *testing.T) {
	e := newEditor(t, nil)
	assert.True(t, e.ToolbarState().ComponentBlocks.IsDisabled)

	e = newEditor(t, nil, WithComponents(heroComponents()))
	assert.False(t, e.ToolbarState().ComponentBlocks.IsDisabled)
}

func TestDeriveToolbarState(t *testing.T) {
	e := newEditorWith(t, withRelationships(), Document{para("a")})

	st := DeriveToolbarState(e.Root(), e.Selection(), e.Features(), e.Registry())
	assert.Equal(t, map[string]ItemState{"mention": {}}, st.Relationships)
	assert.False(t, st.ComponentBlocks.IsDisabled)

	st = DeriveToolbarState(e.Root(), nil, nil, e.Registry())
	assert.True(t, st.Marks[MarkBold].IsDisabled)
	assert.Empty(t, st.Relationships)

	// a stale selection is treated as no selection
	stale := Collapsed(pt(0, 5, 0))
	st = DeriveToolbarState(e.Root(), stale, e.Features(), e.Registry())
	assert.True(t, st.Divider.IsDisabled)
}

func TestDeriveToolbarStateDefaultRegistry(t *testing.T) {
	e := newEditor(t, Document{para("a"), el(TypeDivider, txt("")), para("b")})
	root := e.Root()

	assert.NotPanics(t, func() { DeriveToolbarState(root, nil, nil, nil) })

	// the divider is only void in the pipeline's registry
	span := &Selection{Anchor: pt(0, 0, 0), Focus: pt(1, 2, 0)}
	st := DeriveToolbarState(root, span, nil, nil)
	assert.Equal(t, DeriveToolbarState(root, span, e.Features(), e.Registry()), st)
	assert.True(t, st.Lists[TypeUnorderedList].IsDisabled)
	assert.True(t, st.Blockquote.IsDisabled)

	st = DeriveToolbarState(root, Collapsed(pt(0, 0, 0)), nil, nil)
	assert.False(t, st.Lists[TypeUnorderedList].IsDisabled)
	assert.False(t, st.Headings[1].IsDisabled)
}
