package blockdoc

type divider struct{}

func (divider) Name() string { return "divider" }

func (divider) ExtendSchema(e *Editor) {
	e.reg.RegisterVoid(TypeDivider)
}

func (divider) HandleCommand(e *Editor, cmd Command, next Next) error {
	if _, ok := cmd.(InsertDivider); !ok {
		return next.Do(cmd)
	}
	if !e.features.Dividers {
		return ErrFeatureDisabled
	}
	return next.Do(InsertNodes{Nodes: []*Node{NewElement(TypeDivider, NewText(""))}})
}
