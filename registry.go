package blockdoc

import (
	"fmt"
	"sort"
)

// ContainerKind classifies what an element may contain.
type ContainerKind int

const (
	// KindInlines containers hold text leaves and inline elements.
	KindInlines ContainerKind = iota + 1
	// KindBlocks containers hold block elements from an allowlist.
	KindBlocks
)

func (k ContainerKind) String() string {
	switch k {
	case KindInlines:
		return "inlines"
	case KindBlocks:
		return "blocks"
	default:
		return "unknown"
	}
}

// InvalidPolicy decides how a child in an invalid position is repaired.
type InvalidPolicy int

const (
	PolicyUnwrap InvalidPolicy = iota
	PolicyMove
)

// NodeSpec is the registry entry for one element type.
type NodeSpec struct {
	Kind         ContainerKind
	Allowed      map[NodeType]bool // blocks containers only
	DefaultBlock NodeType          // blocks containers only
	OnInvalid    InvalidPolicy
}

// Rule is an extra invariant contributed by a behavior. Fix repairs at most
// one violation at path and reports whether it changed the tree.
type Rule struct {
	Name string
	Fix  func(nz *Normalizer, root *Node, path Path, n *Node) bool
}

// Registry is the node schema: container specs plus inline and void flags.
type Registry struct {
	specs  map[NodeType]NodeSpec
	inline map[NodeType]bool
	void   map[NodeType]bool
	rules  []Rule
}

func blocks(policy InvalidPolicy, allowed ...NodeType) NodeSpec {
	set := make(map[NodeType]bool, len(allowed))
	for _, t := range allowed {
		set[t] = true
	}
	return NodeSpec{Kind: KindBlocks, Allowed: set, DefaultBlock: allowed[0], OnInvalid: policy}
}

func inlines(policy InvalidPolicy) NodeSpec {
	return NodeSpec{Kind: KindInlines, OnInvalid: policy}
}

var (
	blockquoteChildren = []NodeType{
		TypeParagraph, TypeCode, TypeHeading, TypeOrderedList, TypeUnorderedList, TypeDivider,
	}
	paragraphLike   = append(append([]NodeType{}, blockquoteChildren...), TypeBlockquote)
	insideOfLayouts = append(append([]NodeType{}, paragraphLike...), TypeComponentBlock)
)

// DefaultRegistry returns the base node table. Inline and void flags are
// contributed by behaviors.
func DefaultRegistry() *Registry {
	return &Registry{
		specs: map[NodeType]NodeSpec{
			TypeEditor:              blocks(PolicyMove, append(append([]NodeType{}, insideOfLayouts...), TypeLayout)...),
			TypeLayout:              blocks(PolicyMove, TypeLayoutArea),
			TypeLayoutArea:          blocks(PolicyUnwrap, insideOfLayouts...),
			TypeBlockquote:          blocks(PolicyMove, blockquoteChildren...),
			TypeParagraph:           inlines(PolicyUnwrap),
			TypeCode:                inlines(PolicyMove),
			TypeDivider:             inlines(PolicyMove),
			TypeHeading:             inlines(PolicyUnwrap),
			TypeComponentBlock:      blocks(PolicyMove, TypeComponentBlockProp, TypeComponentInlineProp),
			TypeComponentInlineProp: inlines(PolicyUnwrap),
			TypeComponentBlockProp:  blocks(PolicyUnwrap, insideOfLayouts...),
			TypeOrderedList:         blocks(PolicyMove, TypeListItem),
			TypeUnorderedList:       blocks(PolicyMove, TypeListItem),
			TypeListItem:            blocks(PolicyUnwrap, TypeListItemContent, TypeOrderedList, TypeUnorderedList),
			TypeListItemContent:     inlines(PolicyUnwrap),
		},
		inline: map[NodeType]bool{},
		void:   map[NodeType]bool{},
	}
}

// Clone returns an independent copy that can be extended.
func (r *Registry) Clone() *Registry {
	out := &Registry{
		specs:  make(map[NodeType]NodeSpec, len(r.specs)),
		inline: make(map[NodeType]bool, len(r.inline)),
		void:   make(map[NodeType]bool, len(r.void)),
		rules:  append([]Rule(nil), r.rules...),
	}
	for t, s := range r.specs {
		allowed := make(map[NodeType]bool, len(s.Allowed))
		for k, v := range s.Allowed {
			allowed[k] = v
		}
		s.Allowed = allowed
		out.specs[t] = s
	}
	for t := range r.inline {
		out.inline[t] = true
	}
	for t := range r.void {
		out.void[t] = true
	}
	return out
}

// Classify returns the spec for an element type.
func (r *Registry) Classify(t NodeType) (NodeSpec, bool) {
	s, ok := r.specs[t]
	return s, ok
}

// SetSpec registers or replaces the spec for an element type.
func (r *Registry) SetSpec(t NodeType, s NodeSpec) { r.specs[t] = s }

// RegisterInline flags an element type as inline.
func (r *Registry) RegisterInline(t NodeType) { r.inline[t] = true }

// RegisterVoid flags an element type as void.
func (r *Registry) RegisterVoid(t NodeType) { r.void[t] = true }

// AddRule appends an invariant checked after the container rules.
func (r *Registry) AddRule(rule Rule) { r.rules = append(r.rules, rule) }

// Rules returns the registered invariants in order.
func (r *Registry) Rules() []Rule { return r.rules }

// IsInlineType reports whether elements of type t are inline.
func (r *Registry) IsInlineType(t NodeType) bool { return r.inline[t] }

// IsVoidType reports whether elements of type t are void.
func (r *Registry) IsVoidType(t NodeType) bool { return r.void[t] }

// IsBlock reports whether n is a registered, non-inline element.
func (r *Registry) IsBlock(n *Node) bool {
	if !n.IsElement() || r.inline[n.Type] {
		return false
	}
	_, ok := r.specs[n.Type]
	return ok
}

// IsInline reports whether n may appear in an inlines container.
func (r *Registry) IsInline(n *Node) bool {
	return n.IsText() || r.inline[n.Type]
}

// IsVoid reports whether n is a void element.
func (r *Registry) IsVoid(n *Node) bool { return n.IsElement() && r.void[n.Type] }

// Check verifies the table is consistent: every allowed child and default
// block is registered, and following default blocks always terminates in an
// inlines container.
func (r *Registry) Check() error {
	types := make([]string, 0, len(r.specs))
	for t := range r.specs {
		types = append(types, string(t))
	}
	sort.Strings(types)

	for _, ts := range types {
		t := NodeType(ts)
		s := r.specs[t]
		if s.Kind != KindBlocks {
			continue
		}
		if len(s.Allowed) == 0 {
			return fmt.Errorf("%w: %s allows no children", ErrInvalidRegistry, t)
		}
		for c := range s.Allowed {
			if _, ok := r.specs[c]; !ok {
				return fmt.Errorf("%w: %s allows unregistered %s", ErrInvalidRegistry, t, c)
			}
			if r.inline[c] {
				return fmt.Errorf("%w: %s allows inline %s", ErrInvalidRegistry, t, c)
			}
		}
		if !s.Allowed[s.DefaultBlock] {
			return fmt.Errorf("%w: %s default block %q is not allowed", ErrInvalidRegistry, t, s.DefaultBlock)
		}

		seen := map[NodeType]bool{t: true}
		cur := s.DefaultBlock
		for {
			cs := r.specs[cur]
			if cs.Kind == KindInlines {
				break
			}
			if seen[cur] {
				return fmt.Errorf("%w: default blocks of %s never reach an inlines container", ErrInvalidRegistry, t)
			}
			seen[cur] = true
			cur = cs.DefaultBlock
		}
	}
	for t := range r.inline {
		if s, ok := r.specs[t]; ok && s.Kind == KindBlocks {
			return fmt.Errorf("%w: inline %s cannot hold blocks", ErrInvalidRegistry, t)
		}
	}
	return nil
}
