package blockdoc

import (
	"github.com/rs/zerolog"
)

// Repair records one change made by the Normalizer.
type Repair struct {
	Rule string
	Path Path
	Type NodeType
}

// Normalizer repairs a tree until it satisfies its Registry.
type Normalizer struct {
	reg           *Registry
	log           zerolog.Logger
	maxIterations int
	observe       func(Repair)
	remap         func(from, to *Node, shift int)
}

// NormalizeOption configures a Normalizer.
type NormalizeOption func(*Normalizer)

// WithNormalizeLogger sets the logger used for repair events.
func WithNormalizeLogger(l zerolog.Logger) NormalizeOption {
	return func(nz *Normalizer) { nz.log = l }
}

// WithMaxIterations caps the number of repairs. Zero picks 42 per node.
func WithMaxIterations(n int) NormalizeOption {
	return func(nz *Normalizer) { nz.maxIterations = n }
}

// WithRepairObserver is called for every repair, in order.
func WithRepairObserver(fn func(Repair)) NormalizeOption {
	return func(nz *Normalizer) { nz.observe = fn }
}

func withLeafRemap(fn func(from, to *Node, shift int)) NormalizeOption {
	return func(nz *Normalizer) { nz.remap = fn }
}

// NewNormalizer creates a Normalizer for reg.
func NewNormalizer(reg *Registry, opts ...NormalizeOption) *Normalizer {
	nz := &Normalizer{reg: reg, log: zerolog.Nop()}
	for _, o := range opts {
		o(nz)
	}
	return nz
}

// Registry returns the schema the Normalizer enforces.
func (nz *Normalizer) Registry() *Registry { return nz.reg }

// LeafReplaced tells selection tracking that a text leaf was merged into or
// replaced by another; positions in from move to to, shifted by shift bytes.
func (nz *Normalizer) LeafReplaced(from, to *Node, shift int) {
	if nz.remap != nil {
		nz.remap(from, to, shift)
	}
}

// Normalize repairs root in place, one violation at a time, until a full
// pass finds nothing to fix. It returns the number of repairs made.
func (nz *Normalizer) Normalize(root *Node) (int, error) {
	limit := nz.maxIterations
	if limit <= 0 {
		limit = 42 * countNodes(root)
		if limit < 100 {
			limit = 100
		}
	}
	for i := 0; i < limit; i++ {
		if !nz.visit(root, root, Path{}) {
			return i, nil
		}
	}
	nz.log.Error().Int("iterations", limit).Msg("normalization did not converge")
	return limit, wrap("normalize", "", ErrNoFixedPoint)
}

func countNodes(n *Node) int {
	c := 1
	for _, ch := range n.Children {
		c += countNodes(ch)
	}
	return c
}

// visit fixes the first violation found bottom-up and reports whether it did.
func (nz *Normalizer) visit(root, n *Node, path Path) bool {
	for i := 0; i < len(n.Children); i++ {
		if nz.visit(root, n.Children[i], path.Child(i)) {
			return true
		}
	}
	rule, ok := nz.fix(root, path, n)
	if !ok {
		return false
	}
	nz.log.Debug().
		Str("rule", rule).
		Str("path", path.String()).
		Str("type", string(n.Type)).
		Msg("repaired")
	if nz.observe != nil {
		nz.observe(Repair{Rule: rule, Path: path.Copy(), Type: n.Type})
	}
	return true
}

func (nz *Normalizer) fix(root *Node, path Path, n *Node) (string, bool) {
	if n.IsText() {
		return "", false
	}
	spec, known := nz.reg.Classify(n.Type)
	if !known {
		if len(path) == 0 {
			return "", false
		}
		unwrapChild(NodeAt(root, path.Parent()), path[len(path)-1])
		return "unwrap-unknown", true
	}
	if nz.reg.IsVoid(n) && nz.fixVoid(n) {
		return "void-children", true
	}

	switch spec.Kind {
	case KindBlocks:
		if rule, ok := nz.fixBlocks(root, path, n, spec); ok {
			return rule, true
		}
	case KindInlines:
		if rule, ok := nz.fixInlines(root, path, n, spec); ok {
			return rule, true
		}
	}

	for _, r := range nz.reg.rules {
		if r.Fix(nz, root, path, n) {
			return r.Name, true
		}
	}

	// The root always ends with its default block, even when repairs emptied it.
	if len(path) == 0 && spec.Kind == KindBlocks {
		if len(n.Children) == 0 || n.Children[len(n.Children)-1].Type != spec.DefaultBlock {
			n.Children = append(n.Children, NewElement(spec.DefaultBlock, NewText("")))
			return "trailing-block", true
		}
	}
	return "", false
}

func (nz *Normalizer) fixVoid(n *Node) bool {
	if len(n.Children) == 1 {
		c := n.Children[0]
		if c.IsText() && c.Text == "" && len(c.Marks) == 0 {
			return false
		}
	}
	leaves := Leaves(n)
	empty := NewText("")
	n.Children = []*Node{empty}
	for _, l := range leaves {
		nz.LeafReplaced(l.Node, empty, -len(l.Node.Text))
	}
	return true
}

func (nz *Normalizer) fixBlocks(root *Node, path Path, n *Node, spec NodeSpec) (string, bool) {
	if len(n.Children) == 0 {
		return "", false
	}

	anyBlock := false
	for _, c := range n.Children {
		if nz.reg.IsBlock(c) {
			anyBlock = true
			break
		}
	}
	if !anyBlock {
		wrapChildren(n, 0, len(n.Children), NewElement(spec.DefaultBlock))
		return "wrap-inlines", true
	}

	for i, c := range n.Children {
		if !nz.reg.IsBlock(c) {
			wrapChildren(n, i, i+1, NewElement(spec.DefaultBlock))
			return "wrap-inline-child", true
		}
		if !spec.Allowed[c.Type] {
			nz.handleInvalid(root, path, n, spec, i)
			return "invalid-child", true
		}
	}
	return "", false
}

func (nz *Normalizer) fixInlines(root *Node, path Path, n *Node, spec NodeSpec) (string, bool) {
	for i, c := range n.Children {
		if c.IsElement() && !nz.reg.IsInline(c) {
			nz.handleInvalid(root, path, n, spec, i)
			return "invalid-child", true
		}
	}

	if len(n.Children) == 0 {
		n.Children = []*Node{NewText("")}
		return "empty-inlines", true
	}

	for i, c := range n.Children {
		if c.IsElement() {
			if i == 0 || !n.Children[i-1].IsText() {
				insertChildren(n, i, NewText(""))
				return "inline-border", true
			}
			if i == len(n.Children)-1 {
				n.Children = append(n.Children, NewText(""))
				return "inline-border", true
			}
			continue
		}
		if i == 0 || !n.Children[i-1].IsText() {
			continue
		}
		prev := n.Children[i-1]
		switch {
		case sameMarks(prev.Marks, c.Marks) && len(prev.Raw) == 0 && len(c.Raw) == 0:
			shift := len(prev.Text)
			prev.Text += c.Text
			removeChild(n, i)
			nz.LeafReplaced(c, prev, shift)
			return "merge-text", true
		case c.Text == "":
			removeChild(n, i)
			nz.LeafReplaced(c, prev, len(prev.Text))
			return "empty-text", true
		case prev.Text == "":
			removeChild(n, i-1)
			nz.LeafReplaced(prev, c, 0)
			return "empty-text", true
		}
	}
	return "", false
}

// handleInvalid repairs parent.Children[i], which may not appear in parent.
func (nz *Normalizer) handleInvalid(root *Node, parentPath Path, parent *Node, parentSpec NodeSpec, i int) {
	child := parent.Children[i]
	cs, known := nz.reg.Classify(child.Type)
	policy := PolicyUnwrap
	if known {
		policy = cs.OnInvalid
	}

	if policy == PolicyMove {
		nz.moveToValidPosition(root, parentPath, parent, i)
		return
	}

	if parentSpec.Kind == KindBlocks && parentSpec.DefaultBlock != "" && known {
		if ds, ok := nz.reg.Classify(parentSpec.DefaultBlock); ok && ds.Kind == cs.Kind {
			child.Type = parentSpec.DefaultBlock
			child.resetAttrs()
			return
		}
	}
	unwrapChild(parent, i)
}

// moveToValidPosition relocates parent.Children[i] next to the nearest
// ancestor that accepts it, or unwraps it after its top-level block.
func (nz *Normalizer) moveToValidPosition(root *Node, parentPath Path, parent *Node, i int) {
	child := parent.Children[i]
	at := parentPath
	for len(at) > 0 {
		ancPath := at.Parent()
		anc := NodeAt(root, ancPath)
		if as, ok := nz.reg.Classify(anc.Type); ok && as.Kind == KindBlocks && as.Allowed[child.Type] {
			removeChild(parent, i)
			insertChildren(anc, at[len(at)-1]+1, child)
			return
		}
		at = ancPath
	}

	removeChild(parent, i)
	if len(parentPath) == 0 {
		insertChildren(root, i, child.Children...)
		return
	}
	insertChildren(root, parentPath[0]+1, child.Children...)
}
