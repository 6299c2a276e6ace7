package blockdoc

import "fmt"

// relationships inserts inline references to records in other lists.
type relationships struct{}

func (relationships) Name() string { return "relationships" }

func (relationships) ExtendSchema(e *Editor) {
	e.reg.SetSpec(TypeRelationship, inlines(PolicyUnwrap))
	e.reg.RegisterInline(TypeRelationship)
	e.reg.RegisterVoid(TypeRelationship)
}

// NewRelationship creates a relationship node of the named kind.
func NewRelationship(name, id string) *Node {
	n := NewElement(TypeRelationship, NewText(""))
	n.Relationship = name
	if id != "" {
		n.Data = &RelationshipData{ID: id}
	}
	return n
}

func (relationships) HandleCommand(e *Editor, cmd Command, next Next) error {
	c, ok := cmd.(InsertRelationship)
	if !ok {
		return next.Do(cmd)
	}
	if _, ok := e.features.Relationships[c.Name]; !ok {
		return fmt.Errorf("%w: relationship %q", ErrFeatureDisabled, c.Name)
	}
	if e.sel != nil && e.inCode(e.sel.Anchor.Path) {
		return ErrFeatureDisabled
	}
	return next.Do(InsertNodes{Nodes: []*Node{NewRelationship(c.Name, c.ID)}})
}
