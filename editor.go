package blockdoc

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/derickschaefer/blockdoc/component"
	"github.com/rs/zerolog"
)

// DefaultHistoryLimit is the number of undo steps kept by default.
const DefaultHistoryLimit = 100

// Behavior is one stage of the editing pipeline. Behaviors are applied in
// order: ExtendSchema runs once per editor, and for commands the last
// behavior is the outermost handler.
type Behavior interface {
	Name() string
	ExtendSchema(e *Editor)
	HandleCommand(e *Editor, cmd Command, next Next) error
}

// Next passes a command to the following, inner stage of the pipeline.
type Next struct {
	e  *Editor
	at int
}

// Do runs cmd through the remaining inner stages.
func (n Next) Do(cmd Command) error {
	if n.at < 0 {
		return n.e.base(cmd)
	}
	return n.e.behaviors[n.at].HandleCommand(n.e, cmd, Next{e: n.e, at: n.at - 1})
}

// Option configures an Editor.
type Option func(*editorConfig)

type editorConfig struct {
	log           zerolog.Logger
	components    component.Registry
	server        component.Registry
	behaviors     []Behavior
	historyLimit  int
	normalizeOpts []NormalizeOption
}

// WithLogger sets the logger for commands and repairs.
func WithLogger(l zerolog.Logger) Option {
	return func(c *editorConfig) { c.log = l }
}

// WithComponents declares the component blocks the document may contain.
func WithComponents(r component.Registry) Option {
	return func(c *editorConfig) { c.components = r }
}

// WithServerComponents declares the component blocks known to the storage
// layer; the editor refuses to start if they differ from WithComponents.
func WithServerComponents(r component.Registry) Option {
	return func(c *editorConfig) { c.server = r }
}

// WithBehaviors replaces the default behavior pipeline.
func WithBehaviors(b ...Behavior) Option {
	return func(c *editorConfig) { c.behaviors = b }
}

// WithHistoryLimit sets the number of undo steps; zero disables history.
func WithHistoryLimit(n int) Option {
	return func(c *editorConfig) { c.historyLimit = n }
}

// WithNormalizeOptions passes options to the editor's Normalizer.
func WithNormalizeOptions(opts ...NormalizeOption) Option {
	return func(c *editorConfig) { c.normalizeOpts = append(c.normalizeOpts, opts...) }
}

type anchor struct {
	leaf   *Node
	offset int
	path   Path
}

type snapshot struct {
	root *Node
	sel  *Selection
}

type historyState struct {
	undo []snapshot
	redo []snapshot
}

// Editor owns a document tree, its selection and the behavior pipeline.
// An Editor is not safe for concurrent use.
type Editor struct {
	root      *Node
	sel       *Selection
	features  *Features
	reg       *Registry
	comps     component.Registry
	behaviors []Behavior
	nz        *Normalizer
	log       zerolog.Logger

	pending    []Mark
	hasPending bool

	anchors []*anchor
	hist    historyState
	limit   int
}

// NewEditor validates the configuration, builds the pipeline and normalizes
// doc. Configuration errors are returned and no editor is created.
func NewEditor(doc Document, features *Features, opts ...Option) (*Editor, error) {
	cfg := editorConfig{log: zerolog.Nop(), historyLimit: DefaultHistoryLimit}
	for _, o := range opts {
		o(&cfg)
	}
	if features == nil {
		features = AllFeatures()
	}
	if err := features.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.components.Check(); err != nil {
		return nil, err
	}
	if cfg.server != nil {
		if err := component.CheckCompatible(cfg.server, cfg.components); err != nil {
			return nil, err
		}
	}
	if cfg.behaviors == nil {
		cfg.behaviors = DefaultBehaviors()
	}

	e := &Editor{
		features:  features,
		reg:       DefaultRegistry(),
		comps:     cfg.components,
		behaviors: cfg.behaviors,
		log:       cfg.log,
		limit:     cfg.historyLimit,
	}
	for _, b := range e.behaviors {
		b.ExtendSchema(e)
	}
	if err := e.reg.Check(); err != nil {
		return nil, err
	}
	nopts := append([]NormalizeOption{WithNormalizeLogger(cfg.log), withLeafRemap(e.remapLeaf)}, cfg.normalizeOpts...)
	e.nz = NewNormalizer(e.reg, nopts...)

	if len(doc) == 0 {
		doc = NewDocument()
	}
	e.root = doc.Root()
	if _, err := e.normalize(); err != nil {
		return nil, err
	}
	e.selectStartOf(Path{})
	return e, nil
}

// DefaultBehaviors returns the standard pipeline, innermost first.
func DefaultBehaviors() []Behavior {
	return []Behavior{
		documentFeatures{},
		codeBlock{},
		marks{},
		layouts{},
		divider{},
		shortcuts{},
		componentBlocks{},
		blockMarkdownShortcuts{},
		insertMenu{},
		relationships{},
		headings{},
		lists{},
		links{},
		blockquote{},
		softBreaks{},
		paste{},
	}
}

//
// Accessors
//

// Root returns the live tree. Behaviors mutate it while handling commands.
func (e *Editor) Root() *Node { return e.root }

// Document returns a copy of the persisted document.
func (e *Editor) Document() Document {
	return Document(e.root.Clone().Children)
}

// Selection returns a copy of the current selection, or nil.
func (e *Editor) Selection() *Selection {
	if e.sel == nil {
		return nil
	}
	s := *e.sel
	s.Anchor.Path = s.Anchor.Path.Copy()
	s.Focus.Path = s.Focus.Path.Copy()
	return &s
}

// Features returns the document's feature configuration.
func (e *Editor) Features() *Features { return e.features }

// Registry returns the node schema, including behavior extensions.
func (e *Editor) Registry() *Registry { return e.reg }

// Components returns the component block declarations.
func (e *Editor) Components() component.Registry { return e.comps }

// Logger returns the editor's logger.
func (e *Editor) Logger() zerolog.Logger { return e.log }

// Select sets the selection. Points must address text leaves, or empty
// elements that the next insertion will populate.
func (e *Editor) Select(sel Selection) error {
	for _, p := range []Point{sel.Anchor, sel.Focus} {
		n := NodeAt(e.root, p.Path)
		switch {
		case n == nil:
			return wrap("select", p.Path.String(), ErrInvalidSelection)
		case n.IsText():
			if p.Offset < 0 || p.Offset > len(n.Text) {
				return wrap("select", p.Path.String(), ErrInvalidSelection)
			}
		default:
			if _, ok := FirstLeaf(e.root, p.Path); ok || p.Offset != 0 {
				return wrap("select", p.Path.String(), ErrInvalidSelection)
			}
		}
	}
	s := sel
	s.Anchor.Path = s.Anchor.Path.Copy()
	s.Focus.Path = s.Focus.Path.Copy()
	e.sel = &s
	e.pending, e.hasPending = nil, false
	return nil
}

// Deselect clears the selection.
func (e *Editor) Deselect() {
	e.sel = nil
	e.pending, e.hasPending = nil, false
}

// PendingMarks returns the marks the next inserted text will carry, and
// whether they differ from the marks at the selection.
func (e *Editor) PendingMarks() ([]Mark, bool) {
	return append([]Mark(nil), e.pending...), e.hasPending
}

//
// Applying commands
//

// Apply runs cmd through the pipeline, normalizes the tree and records an
// undo step. On error the tree and selection are left unchanged.
func (e *Editor) Apply(cmd Command) error {
	prev := e.snapshot()
	pending, hasPending := e.pending, e.hasPending
	if err := e.Dispatch(cmd); err != nil {
		e.restore(prev)
		e.pending, e.hasPending = pending, hasPending
		e.log.Debug().Str("command", cmd.CommandName()).Err(err).Msg("command rejected")
		return wrap("command", "", fmt.Errorf("%s: %w", cmd.CommandName(), err))
	}
	if _, err := e.normalize(); err != nil {
		e.restore(prev)
		return err
	}
	if !reflect.DeepEqual(prev.root, e.root) {
		e.recordUndo(prev)
	}
	return nil
}

// Dispatch runs cmd through the full pipeline without normalizing. Behaviors
// use it to re-enter the pipeline with a different command.
func (e *Editor) Dispatch(cmd Command) error {
	return Next{e: e, at: len(e.behaviors) - 1}.Do(cmd)
}

// Normalize repairs the tree and returns the number of repairs.
func (e *Editor) Normalize() (int, error) { return e.normalize() }

func (e *Editor) normalize() (int, error) {
	e.track()
	n, err := e.nz.Normalize(e.root)
	e.untrack()
	return n, err
}

func (e *Editor) track() {
	e.anchors = nil
	if e.sel == nil {
		return
	}
	for _, p := range []Point{e.sel.Anchor, e.sel.Focus} {
		a := &anchor{offset: p.Offset, path: p.Path.Copy()}
		if n := NodeAt(e.root, p.Path); n != nil && n.IsText() {
			a.leaf = n
		}
		e.anchors = append(e.anchors, a)
	}
}

func (e *Editor) remapLeaf(from, to *Node, shift int) {
	for _, a := range e.anchors {
		if a.leaf == from {
			a.leaf = to
			a.offset += shift
			if a.offset < 0 {
				a.offset = 0
			}
		}
	}
}

func (e *Editor) untrack() {
	if len(e.anchors) != 2 {
		return
	}
	pts := make([]Point, 2)
	for i, a := range e.anchors {
		if a.leaf != nil {
			if p, ok := PathOf(e.root, a.leaf); ok {
				pts[i] = Point{Path: p, Offset: clampOffset(a.offset, a.leaf)}
				continue
			}
		}
		p, ok := e.pointNear(a.path)
		if !ok {
			e.sel, e.anchors = nil, nil
			return
		}
		pts[i] = p
	}
	e.sel = &Selection{Anchor: pts[0], Focus: pts[1]}
	e.anchors = nil
}

//
// History
//

func (e *Editor) snapshot() snapshot {
	return snapshot{root: e.root.Clone(), sel: e.Selection()}
}

func (e *Editor) restore(s snapshot) {
	e.root = s.root.Clone()
	e.sel = nil
	if s.sel != nil {
		c := *s.sel
		e.sel = &c
	}
}

func (e *Editor) recordUndo(prev snapshot) {
	if e.limit <= 0 {
		return
	}
	e.hist.undo = append(e.hist.undo, prev)
	if len(e.hist.undo) > e.limit {
		e.hist.undo = e.hist.undo[len(e.hist.undo)-e.limit:]
	}
	e.hist.redo = nil
}

func (e *Editor) CanUndo() bool { return len(e.hist.undo) > 0 }

func (e *Editor) CanRedo() bool { return len(e.hist.redo) > 0 }

// Undo restores the tree and selection before the last applied command.
func (e *Editor) Undo() bool {
	if len(e.hist.undo) == 0 {
		return false
	}
	cur := e.snapshot()
	i := len(e.hist.undo) - 1
	prev := e.hist.undo[i]
	e.hist.undo = e.hist.undo[:i]
	e.hist.redo = append(e.hist.redo, cur)
	e.restore(prev)
	e.pending, e.hasPending = nil, false
	return true
}

// Redo reapplies the last undone command.
func (e *Editor) Redo() bool {
	if len(e.hist.redo) == 0 {
		return false
	}
	cur := e.snapshot()
	i := len(e.hist.redo) - 1
	next := e.hist.redo[i]
	e.hist.redo = e.hist.redo[:i]
	if e.limit > 0 {
		e.hist.undo = append(e.hist.undo, cur)
		if len(e.hist.undo) > e.limit {
			e.hist.undo = e.hist.undo[len(e.hist.undo)-e.limit:]
		}
	}
	e.restore(next)
	e.pending, e.hasPending = nil, false
	return true
}

//
// Base commands
//

func (e *Editor) base(cmd Command) error {
	switch c := cmd.(type) {
	case InsertText:
		return e.insertText(c.Text)
	case InsertBreak:
		return e.insertBreak()
	case DeleteBackward:
		return e.deleteBackward()
	case DeleteFragment:
		if e.sel == nil {
			return ErrNoSelection
		}
		p := e.deleteRange(e.sel.Start(), e.sel.End())
		e.sel = Collapsed(p)
		return nil
	case InsertNodes:
		return e.insertNodes(c.Nodes)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedCommand, cmd.CommandName())
	}
}

// collapse deletes an expanded selection and returns a point at a text leaf.
func (e *Editor) collapse() (Point, error) {
	if e.sel == nil {
		return Point{}, ErrNoSelection
	}
	p := e.sel.Anchor
	if !e.sel.IsCollapsed() {
		p = e.deleteRange(e.sel.Start(), e.sel.End())
	}
	return e.ensureLeaf(p)
}

func (e *Editor) insertText(text string) error {
	p, err := e.collapse()
	if err != nil {
		return err
	}
	leaf := NodeAt(e.root, p.Path)
	pending, hasPending := e.pending, e.hasPending
	e.pending, e.hasPending = nil, false

	if !hasPending || sameMarks(pending, leaf.Marks) {
		leaf.Text = leaf.Text[:p.Offset] + text + leaf.Text[p.Offset:]
		e.sel = Collapsed(Point{Path: p.Path, Offset: p.Offset + len(text)})
		return nil
	}

	parent := NodeAt(e.root, p.Path.Parent())
	idx := p.Path[len(p.Path)-1]
	right := &Node{Text: leaf.Text[p.Offset:], Marks: append([]Mark(nil), leaf.Marks...)}
	leaf.Text = leaf.Text[:p.Offset]
	nl := &Node{Text: text, Marks: append([]Mark(nil), pending...)}
	insertChildren(parent, idx+1, nl, right)
	e.sel = Collapsed(Point{Path: p.Path.Next(), Offset: len(text)})
	return nil
}

func (e *Editor) insertBreak() error {
	p, err := e.collapse()
	if err != nil {
		return err
	}
	tb, ok := e.textBlockOf(p.Path)
	if !ok {
		return ErrInvalidSelection
	}
	right := splitSubtree(tb.Node, p.Path[len(tb.Path):], p.Offset)
	parent := NodeAt(e.root, tb.Path.Parent())
	insertChildren(parent, tb.Path[len(tb.Path)-1]+1, right)
	e.selectStartOf(tb.Path.Next())
	return nil
}

func (e *Editor) deleteBackward() error {
	if e.sel == nil {
		return ErrNoSelection
	}
	if !e.sel.IsCollapsed() {
		e.sel = Collapsed(e.deleteRange(e.sel.Start(), e.sel.End()))
		return nil
	}
	p, err := e.ensureLeaf(e.sel.Anchor)
	if err != nil {
		return err
	}
	leaf := NodeAt(e.root, p.Path)
	if p.Offset > 0 {
		at := prevGrapheme(leaf.Text, p.Offset)
		leaf.Text = leaf.Text[:at] + leaf.Text[p.Offset:]
		e.sel = Collapsed(Point{Path: p.Path, Offset: at})
		return nil
	}

	tb, ok := e.textBlockOf(p.Path)
	if !ok {
		return ErrInvalidSelection
	}
	leaves := Leaves(tb.Node)
	for i := len(leaves) - 1; i >= 0; i-- {
		abs := append(tb.Path.Copy(), leaves[i].Path...)
		if comparePaths(abs, p.Path) >= 0 {
			continue
		}
		if v, ok := e.voidAbove(abs); ok && len(v.Path) > len(tb.Path) {
			removeChild(NodeAt(e.root, v.Path.Parent()), v.Path[len(v.Path)-1])
			e.selectLeaf(leaf, 0)
			return nil
		}
		if prev := leaves[i].Node; prev.Text != "" {
			at := prevGrapheme(prev.Text, len(prev.Text))
			prev.Text = prev.Text[:at]
			e.selectLeaf(prev, at)
			return nil
		}
	}

	// start of the block: join with the previous block
	var before *Entry
	for _, l := range Leaves(e.root) {
		if comparePaths(l.Path, tb.Path) >= 0 {
			break
		}
		l := l
		before = &l
	}
	if before == nil {
		return nil
	}
	if v, ok := e.voidAbove(before.Path); ok {
		removeChild(NodeAt(e.root, v.Path.Parent()), v.Path[len(v.Path)-1])
		e.selectLeaf(leaf, 0)
		return nil
	}
	end := Point{Path: before.Path, Offset: len(before.Node.Text)}
	e.sel = Collapsed(e.deleteRange(end, p))
	return nil
}

func (e *Editor) insertNodes(nodes []*Node) error {
	if len(nodes) == 0 {
		return nil
	}
	p, err := e.collapse()
	if err != nil {
		return err
	}

	inline := true
	for _, n := range nodes {
		if !e.reg.IsInline(n) {
			inline = false
			break
		}
	}
	if inline {
		parent := NodeAt(e.root, p.Path.Parent())
		idx := p.Path[len(p.Path)-1]
		leaf := parent.Children[idx]
		right := &Node{Text: leaf.Text[p.Offset:], Marks: append([]Mark(nil), leaf.Marks...)}
		leaf.Text = leaf.Text[:p.Offset]
		insertChildren(parent, idx+1, append(append([]*Node(nil), nodes...), right)...)
		e.selectLeaf(right, 0)
		return nil
	}

	tb, ok := e.textBlockOf(p.Path)
	if !ok {
		return ErrInvalidSelection
	}
	parent := NodeAt(e.root, tb.Path.Parent())
	idx := tb.Path[len(tb.Path)-1]
	_, atStart := e.atBlockStart(p)
	_, atEnd := e.atBlockEnd(p)
	switch {
	case atStart && atEnd && tb.Node.PlainText() == "" && len(tb.Node.Children) <= 1:
		removeChild(parent, idx)
	case atStart:
	case atEnd:
		idx++
	default:
		right := splitSubtree(tb.Node, p.Path[len(tb.Path):], p.Offset)
		insertChildren(parent, idx+1, right)
		idx++
	}
	insertChildren(parent, idx, nodes...)

	last := nodes[len(nodes)-1]
	lastPath := tb.Path.Parent().Child(idx + len(nodes) - 1)
	if !e.reg.IsVoid(last) && e.selectEndOf(lastPath) {
		return nil
	}
	next := lastPath.Next()
	if NodeAt(e.root, next) == nil {
		insertChildren(parent, len(parent.Children), NewElement(e.defaultTextBlock(tb.Path.Parent()), NewText("")))
	}
	e.selectStartOf(next)
	return nil
}

// togglePending flips m in the marks the next insertion will carry.
func (e *Editor) togglePending(m Mark, leaf *Node) {
	if !e.hasPending {
		e.pending = append([]Mark(nil), leaf.Marks...)
		e.hasPending = true
	}
	for i, x := range e.pending {
		if x == m {
			e.pending = append(e.pending[:i:i], e.pending[i+1:]...)
			return
		}
	}
	e.pending = append(e.pending, m)
	sort.Slice(e.pending, func(i, j int) bool { return e.pending[i] < e.pending[j] })
}

// preserve runs a structural change and re-resolves the selection by the
// identity of the text leaves it pointed at.
func (e *Editor) preserve(fn func() error) error {
	if e.sel == nil {
		return fn()
	}
	type mark struct {
		leaf   *Node
		offset int
	}
	var ms [2]mark
	for i, p := range []Point{e.sel.Anchor, e.sel.Focus} {
		ms[i] = mark{leaf: NodeAt(e.root, p.Path), offset: p.Offset}
	}
	if err := fn(); err != nil {
		return err
	}
	var pts [2]Point
	for i, m := range ms {
		p, ok := PathOf(e.root, m.leaf)
		if !ok {
			p2, ok := e.pointNear(e.sel.Anchor.Path)
			if !ok {
				e.sel = nil
				return nil
			}
			e.sel = Collapsed(p2)
			return nil
		}
		pts[i] = Point{Path: p, Offset: m.offset}
	}
	e.sel = &Selection{Anchor: pts[0], Focus: pts[1]}
	return nil
}
