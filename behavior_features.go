package blockdoc

// documentFeatures keeps the tree within the document's feature
// configuration and handles alignment.
type documentFeatures struct{}

func (documentFeatures) Name() string { return "document-features" }

func (documentFeatures) ExtendSchema(e *Editor) {
	f := e.features
	e.reg.AddRule(Rule{
		Name: "features",
		Fix: func(nz *Normalizer, root *Node, path Path, n *Node) bool {
			return fixFeatures(f, root, path, n)
		},
	})
}

func (documentFeatures) HandleCommand(e *Editor, cmd Command, next Next) error {
	c, ok := cmd.(SetAlignment)
	if !ok {
		return next.Do(cmd)
	}
	if !e.features.AlignmentEnabled(c.Alignment) {
		return ErrFeatureDisabled
	}
	blocks, err := e.selectedBlocks()
	if err != nil {
		return err
	}
	for _, b := range blocks {
		if b.Node.Type == TypeParagraph || b.Node.Type == TypeHeading {
			b.Node.TextAlign = c.Alignment
		}
	}
	return nil
}

func fixFeatures(f *Features, root *Node, path Path, n *Node) bool {
	for _, c := range n.Children {
		if !c.IsText() {
			continue
		}
		changed := false
		for _, m := range append([]Mark(nil), c.Marks...) {
			if m != MarkInsertMenu && !f.MarkEnabled(m) {
				c.SetMark(m, false)
				changed = true
			}
		}
		if changed {
			return true
		}
	}

	if n.TextAlign != AlignStart && (!f.AlignmentEnabled(n.TextAlign) || (n.Type != TypeParagraph && n.Type != TypeHeading)) {
		n.TextAlign = AlignStart
		return true
	}

	switch n.Type {
	case TypeHeading:
		if n.Level >= 1 && n.Level <= 6 && !f.HeadingEnabled(n.Level) {
			retype(n, TypeParagraph)
			return true
		}
	case TypeBlockquote:
		if !f.Formatting.BlockTypes.Blockquote {
			return unwrapAt(root, path)
		}
	case TypeCode:
		if !f.Formatting.BlockTypes.Code {
			retype(n, TypeParagraph)
			return true
		}
	case TypeOrderedList, TypeUnorderedList:
		if !f.ListEnabled(n.Type) {
			return unwrapAt(root, path)
		}
	case TypeLink:
		if !f.Links {
			return unwrapAt(root, path)
		}
	case TypeDivider:
		if !f.Dividers && len(path) > 0 {
			removeAt(root, path)
			return true
		}
	case TypeLayout:
		if !f.LayoutAllowed(n.Layout) {
			return unwrapAt(root, path)
		}
	case TypeRelationship:
		if _, ok := f.Relationships[n.Relationship]; !ok && len(path) > 0 {
			removeAt(root, path)
			return true
		}
	case TypeComponentBlock:
		if !f.ComponentBlocks {
			return unwrapAt(root, path)
		}
	}
	return false
}
