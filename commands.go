package blockdoc

// Command is an edit request dispatched through the behavior pipeline.
type Command interface {
	CommandName() string
}

//
// Text and structure
//

// InsertText inserts text at the selection, replacing an expanded range.
type InsertText struct{ Text string }

// InsertBreak splits the current block.
type InsertBreak struct{}

// InsertSoftBreak inserts a line break inside the current block.
type InsertSoftBreak struct{}

// DeleteBackward deletes one grapheme before a collapsed selection, or the
// selected range.
type DeleteBackward struct{}

// DeleteFragment deletes the selected range.
type DeleteFragment struct{}

// InsertNodes inserts inline nodes at the selection or block nodes after the
// current block.
type InsertNodes struct{ Nodes []*Node }

// Paste inserts a document fragment, or plain text when Fragment is empty.
type Paste struct {
	Fragment Document
	Text     string
}

//
// Formatting
//

// ToggleMark toggles a mark on the selection, or for the next inserted text
// when the selection is collapsed.
type ToggleMark struct{ Mark Mark }

// ClearMarks removes every formatting mark from the selection.
type ClearMarks struct{}

// SetHeading turns the selected blocks into headings of Level, or into
// paragraphs when Level is 0.
type SetHeading struct{ Level int }

// SetAlignment aligns the selected paragraphs and headings.
type SetAlignment struct{ Alignment Alignment }

type ToggleBlockquote struct{}

type ToggleCode struct{}

// ToggleList wraps the selected blocks in a list of Type, changes the type of
// the surrounding list, or unwraps it when it already has Type.
type ToggleList struct{ Type NodeType }

type IndentListItem struct{}

type OutdentListItem struct{}

//
// Insertables
//

// InsertLink wraps the selected text in a link. A collapsed selection inserts
// the href as the link text.
type InsertLink struct{ Href string }

type RemoveLink struct{}

type InsertDivider struct{}

// InsertLayout inserts a layout with one area per ratio.
type InsertLayout struct{ Layout []int }

// SetLayout changes the ratios of the layout around the selection.
type SetLayout struct{ Layout []int }

// InsertRelationship inserts a reference of the named relationship kind.
type InsertRelationship struct {
	Name string
	ID   string
}

// InsertComponentBlock inserts the named component with its default value.
type InsertComponentBlock struct{ Name string }

// SetComponentProps replaces the props of the component block at Path.
type SetComponentProps struct {
	Path  Path
	Props map[string]any
}

// InsertMenuSelect removes the typed "/" query and runs Item.
type InsertMenuSelect struct{ Item Command }

func (InsertText) CommandName() string           { return "insert-text" }
func (InsertBreak) CommandName() string          { return "insert-break" }
func (InsertSoftBreak) CommandName() string      { return "insert-soft-break" }
func (DeleteBackward) CommandName() string       { return "delete-backward" }
func (DeleteFragment) CommandName() string       { return "delete-fragment" }
func (InsertNodes) CommandName() string          { return "insert-nodes" }
func (Paste) CommandName() string                { return "paste" }
func (ToggleMark) CommandName() string           { return "toggle-mark" }
func (ClearMarks) CommandName() string           { return "clear-marks" }
func (SetHeading) CommandName() string           { return "set-heading" }
func (SetAlignment) CommandName() string         { return "set-alignment" }
func (ToggleBlockquote) CommandName() string     { return "toggle-blockquote" }
func (ToggleCode) CommandName() string           { return "toggle-code" }
func (ToggleList) CommandName() string           { return "toggle-list" }
func (IndentListItem) CommandName() string       { return "indent-list-item" }
func (OutdentListItem) CommandName() string      { return "outdent-list-item" }
func (InsertLink) CommandName() string           { return "insert-link" }
func (RemoveLink) CommandName() string           { return "remove-link" }
func (InsertDivider) CommandName() string        { return "insert-divider" }
func (InsertLayout) CommandName() string         { return "insert-layout" }
func (SetLayout) CommandName() string            { return "set-layout" }
func (InsertRelationship) CommandName() string   { return "insert-relationship" }
func (InsertComponentBlock) CommandName() string { return "insert-component-block" }
func (SetComponentProps) CommandName() string    { return "set-component-props" }
func (InsertMenuSelect) CommandName() string     { return "insert-menu-select" }
