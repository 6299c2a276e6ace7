package blockdoc

import (
	"sort"
	"strings"
)

//
// Public API
//

// NodeType names an element kind. Text leaves have an empty type.
type NodeType string

const (
	TypeEditor              NodeType = "editor"
	TypeParagraph           NodeType = "paragraph"
	TypeHeading             NodeType = "heading"
	TypeBlockquote          NodeType = "blockquote"
	TypeCode                NodeType = "code"
	TypeDivider             NodeType = "divider"
	TypeOrderedList         NodeType = "ordered-list"
	TypeUnorderedList       NodeType = "unordered-list"
	TypeListItem            NodeType = "list-item"
	TypeListItemContent     NodeType = "list-item-content"
	TypeLayout              NodeType = "layout"
	TypeLayoutArea          NodeType = "layout-area"
	TypeLink                NodeType = "link"
	TypeRelationship        NodeType = "relationship"
	TypeComponentBlock      NodeType = "component-block"
	TypeComponentBlockProp  NodeType = "component-block-prop"
	TypeComponentInlineProp NodeType = "component-inline-prop"
)

// Mark is a formatting flag carried by a text leaf.
type Mark string

const (
	MarkBold          Mark = "bold"
	MarkItalic        Mark = "italic"
	MarkUnderline     Mark = "underline"
	MarkStrikethrough Mark = "strikethrough"
	MarkCode          Mark = "code"
	MarkSuperscript   Mark = "superscript"
	MarkSubscript     Mark = "subscript"
	MarkKeyboard      Mark = "keyboard"

	// MarkInsertMenu flags the text typed after "/" while the insert menu is open.
	MarkInsertMenu Mark = "insertMenu"
)

// FormattingMarks lists the marks that can be toggled from the toolbar.
var FormattingMarks = []Mark{
	MarkBold, MarkItalic, MarkUnderline, MarkStrikethrough,
	MarkCode, MarkSuperscript, MarkSubscript, MarkKeyboard,
}

func isKnownMark(m Mark) bool {
	if m == MarkInsertMenu {
		return true
	}
	for _, k := range FormattingMarks {
		if k == m {
			return true
		}
	}
	return false
}

// Alignment is the text alignment of a paragraph or heading.
type Alignment string

const (
	AlignStart  Alignment = ""
	AlignCenter Alignment = "center"
	AlignEnd    Alignment = "end"
)

// Document is the persisted form of a tree: the ordered children of the root.
// Document is not safe for concurrent modification.
type Document []*Node

// Node is either a text leaf (Type == "") or a typed element with children.
// Known attributes are modeled; unknown fields are preserved in Raw.
type Node struct {
	Type NodeType

	// Text leaves
	Text  string
	Marks []Mark

	// Elements
	Children []*Node

	Level        int       // heading
	TextAlign    Alignment // paragraph, heading
	Href         string    // link
	Layout       []int     // layout
	Component    string    // component-block
	Props        map[string]any
	PropPath     []any  // component-block-prop, component-inline-prop
	Relationship string // relationship
	Data         *RelationshipData

	// Raw holds unknown/custom fields.
	Raw map[string]any
}

// RelationshipData is the reference carried by a relationship node.
type RelationshipData struct {
	ID    string         `json:"id"`
	Label string         `json:"label,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

// NewText creates a text leaf.
func NewText(text string, marks ...Mark) *Node {
	n := &Node{Text: text}
	for _, m := range marks {
		n.SetMark(m, true)
	}
	return n
}

// NewElement creates an element of the given type.
func NewElement(t NodeType, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Type: t, Children: children}
}

// NewParagraph creates a paragraph holding the given text.
func NewParagraph(text string, marks ...Mark) *Node {
	return NewElement(TypeParagraph, NewText(text, marks...))
}

// NewHeading creates a heading of the given level.
func NewHeading(level int, text string) *Node {
	n := NewElement(TypeHeading, NewText(text))
	n.Level = level
	return n
}

// NewDocument returns the empty document: one empty paragraph.
func NewDocument() Document {
	return Document{NewParagraph("")}
}

// IsText reports whether n is a text leaf.
func (n *Node) IsText() bool { return n != nil && n.Type == "" }

// IsElement reports whether n is a typed element.
func (n *Node) IsElement() bool { return n != nil && n.Type != "" }

// HasMark reports whether a text leaf carries the mark.
func (n *Node) HasMark(m Mark) bool {
	for _, x := range n.Marks {
		if x == m {
			return true
		}
	}
	return false
}

// SetMark adds or removes a mark, keeping Marks sorted.
func (n *Node) SetMark(m Mark, on bool) *Node {
	if n.HasMark(m) == on {
		return n
	}
	if on {
		n.Marks = append(n.Marks, m)
		sort.Slice(n.Marks, func(i, j int) bool { return n.Marks[i] < n.Marks[j] })
		return n
	}
	out := n.Marks[:0]
	for _, x := range n.Marks {
		if x != m {
			out = append(out, x)
		}
	}
	if len(out) == 0 {
		out = nil
	}
	n.Marks = out
	return n
}

func sameMarks(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Append adds children and returns the node for chaining.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// PlainText concatenates the text of every leaf under n.
func (n *Node) PlainText() string {
	if n.IsText() {
		return n.Text
	}
	var buf strings.Builder
	for _, c := range n.Children {
		buf.WriteString(c.PlainText())
	}
	return buf.String()
}

// PlainText returns the text of each top-level node, one per line.
func (d Document) PlainText() string {
	lines := make([]string, len(d))
	for i, n := range d {
		lines[i] = n.PlainText()
	}
	return strings.Join(lines, "\n")
}

// Clone deep-copies the node and its subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	if n.Marks != nil {
		out.Marks = append([]Mark(nil), n.Marks...)
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	if n.Layout != nil {
		out.Layout = append([]int(nil), n.Layout...)
	}
	if n.PropPath != nil {
		out.PropPath = deepCopyAny(n.PropPath).([]any)
	}
	if n.Data != nil {
		d := *n.Data
		d.Data = deepCopyMap(n.Data.Data)
		out.Data = &d
	}
	out.Props = deepCopyMap(n.Props)
	out.Raw = deepCopyMap(n.Raw)
	return &out
}

// shallowCopy copies the element attributes of n without its children.
func (n *Node) shallowCopy() *Node {
	out := *n
	out.Children = []*Node{}
	if n.Marks != nil {
		out.Marks = append([]Mark(nil), n.Marks...)
	}
	out.Raw = deepCopyMap(n.Raw)
	out.Props = deepCopyMap(n.Props)
	return &out
}

// resetAttrs clears type-specific attributes when an element changes type.
func (n *Node) resetAttrs() {
	n.Level = 0
	n.Href = ""
	n.Layout = nil
	n.Component = ""
	n.Props = nil
	n.PropPath = nil
	n.Relationship = ""
	n.Data = nil
}

// Clone deep-copies the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for i, n := range d {
		out[i] = n.Clone()
	}
	return out
}

// Root wraps a clone of the document in an editor root node.
func (d Document) Root() *Node {
	c := d.Clone()
	if c == nil {
		c = Document{}
	}
	return &Node{Type: TypeEditor, Children: c}
}

// WalkContext provides context during tree traversal.
type WalkContext struct {
	Path   Path
	Parent *Node
	Depth  int
	Index  int
}

// Walk visits every node depth-first in document order; stops early on fn error.
func Walk(doc Document, fn func(*Node) error) error {
	return WalkWithContext(doc, func(n *Node, _ WalkContext) error { return fn(n) })
}

// WalkWithContext visits every node with its path and parent.
func WalkWithContext(doc Document, fn func(*Node, WalkContext) error) error {
	var visit func(parent *Node, children []*Node, prefix Path) error
	visit = func(parent *Node, children []*Node, prefix Path) error {
		for i, c := range children {
			p := append(prefix.Copy(), i)
			if err := fn(c, WalkContext{Path: p, Parent: parent, Depth: len(p) - 1, Index: i}); err != nil {
				return err
			}
			if err := visit(c, c.Children, p); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(nil, doc, nil)
}

// Filter returns a new document with the top-level nodes matching the predicate.
func Filter(doc Document, pred func(*Node) bool) Document {
	result := make(Document, 0)
	for _, n := range doc {
		if pred(n) {
			result = append(result, n.Clone())
		}
	}
	return result
}

// Transform applies fn to a clone of each top-level node, returning a new document.
// If fn returns nil, the node is excluded from the result.
func Transform(doc Document, fn func(*Node) *Node) Document {
	result := make(Document, 0, len(doc))
	for _, n := range doc {
		if transformed := fn(n.Clone()); transformed != nil {
			result = append(result, transformed)
		}
	}
	return result
}

//
// Deep copy helpers
//

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyAny(v)
	}
	return out
}

func deepCopyAny(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return deepCopyMap(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = deepCopyAny(x[i])
		}
		return out
	case []byte:
		cp := make([]byte, len(x))
		copy(cp, x)
		return cp
	default:
		// primitives (string, bool, nil, json.Number, etc.)
		return x
	}
}
