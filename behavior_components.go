package blockdoc

import (
	"fmt"

	"github.com/derickschaefer/blockdoc/component"
)

// componentBlocks inserts schema-typed component blocks and keeps their prop
// nodes in step with the child fields of their value.
type componentBlocks struct{}

func (componentBlocks) Name() string { return "component-blocks" }

func (componentBlocks) ExtendSchema(e *Editor) {
	comps := e.comps
	e.reg.AddRule(Rule{
		Name: "component-children",
		Fix: func(nz *Normalizer, root *Node, path Path, n *Node) bool {
			return fixComponentChildren(comps, root, path, n)
		},
	})
}

// componentValue decodes the props of a component-block node.
func componentValue(b *component.Block, n *Node) (any, error) {
	props := n.Props
	if props == nil {
		props = map[string]any{}
	}
	return component.Deserialize(b.Schema, props)
}

func propNode(slot component.ChildSlot) *Node {
	var n *Node
	if slot.Slot == component.SlotInline {
		n = NewElement(TypeComponentInlineProp, NewText(""))
	} else {
		n = NewElement(TypeComponentBlockProp, NewParagraph(""))
	}
	n.PropPath = append([]any(nil), slot.Path...)
	return n
}

func propType(slot component.ChildSlot) NodeType {
	if slot.Slot == component.SlotInline {
		return TypeComponentInlineProp
	}
	return TypeComponentBlockProp
}

func fixComponentChildren(comps component.Registry, root *Node, path Path, n *Node) bool {
	if n.Type != TypeComponentBlock {
		return false
	}
	b, ok := comps.Lookup(n.Component)
	if !ok {
		return unwrapAt(root, path)
	}
	value, err := componentValue(b, n)
	if err != nil {
		value = component.DefaultValue(b.Schema)
		n.Props, _ = component.ToProps(b.Schema, value).(map[string]any)
		return true
	}

	existing := make(map[string]*Node, len(n.Children))
	for _, c := range n.Children {
		k := component.PathKey(c.PropPath)
		if _, dup := existing[k]; !dup {
			existing[k] = c
		}
	}
	slots := component.ChildFields(b.Schema, value)
	want := make([]*Node, 0, len(slots))
	for _, s := range slots {
		c, ok := existing[component.PathKey(s.Path)]
		if !ok || c.Type != propType(s) {
			c = propNode(s)
		}
		want = append(want, c)
	}

	if len(want) == len(n.Children) {
		same := true
		for i := range want {
			if want[i] != n.Children[i] {
				same = false
				break
			}
		}
		if same {
			return false
		}
	}
	n.Children = want
	return true
}

func (componentBlocks) HandleCommand(e *Editor, cmd Command, next Next) error {
	switch c := cmd.(type) {
	case InsertComponentBlock:
		if !e.features.ComponentBlocks {
			return ErrFeatureDisabled
		}
		b, ok := e.comps.Lookup(c.Name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownComponent, c.Name)
		}
		n := NewElement(TypeComponentBlock)
		n.Component = c.Name
		value := component.DefaultValue(b.Schema)
		n.Props, _ = component.ToProps(b.Schema, value).(map[string]any)
		for _, s := range component.ChildFields(b.Schema, value) {
			n.Children = append(n.Children, propNode(s))
		}
		if err := next.Do(InsertNodes{Nodes: []*Node{n}}); err != nil {
			return err
		}
		if p, ok := PathOf(e.root, n); ok {
			e.selectStartOf(p)
		}
		return nil

	case SetComponentProps:
		n := NodeAt(e.root, c.Path)
		if n == nil || n.Type != TypeComponentBlock {
			return ErrInvalidSelection
		}
		b, ok := e.comps.Lookup(n.Component)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownComponent, n.Component)
		}
		value, err := component.Deserialize(b.Schema, c.Props)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProps, err)
		}
		return e.preserve(func() error {
			n.Props, _ = component.ToProps(b.Schema, value).(map[string]any)
			fixComponentChildren(e.comps, e.root, c.Path, n)
			return nil
		})

	case InsertBreak:
		if p, ok := e.caret(); ok {
			if _, ok := AboveOfType(e.root, p.Path, TypeComponentInlineProp); ok {
				return nil
			}
		}
	case DeleteBackward:
		if p, ok := e.caret(); ok && p.Offset == 0 {
			if prop, ok := AboveOfType(e.root, p.Path, TypeComponentBlockProp, TypeComponentInlineProp); ok {
				if first, ok := FirstLeaf(e.root, prop.Path); ok && first.Path.Equal(p.Path) {
					return nil
				}
			}
		}
	}
	return next.Do(cmd)
}
