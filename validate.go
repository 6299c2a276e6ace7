package blockdoc

import (
	"fmt"
	"strings"

	"github.com/derickschaefer/blockdoc/component"
)

// Normalize returns doc repaired against the default pipeline's schema and
// the feature configuration.
func Normalize(doc Document, features *Features, opts ...Option) (Document, error) {
	e, err := NewEditor(doc, features, opts...)
	if err != nil {
		return nil, err
	}
	return e.Document(), nil
}

// Validate reports every repair normalization would make, and every value
// problem in component block props, without changing doc. Configuration
// errors are returned as the only element.
func Validate(doc Document, features *Features, opts ...Option) []error {
	var errs []error
	observe := WithRepairObserver(func(r Repair) {
		errs = append(errs, &ValidationError{
			Path:    docPath(r.Path),
			Message: fmt.Sprintf("%s: %s", r.Type, strings.ReplaceAll(r.Rule, "-", " ")),
		})
	})
	opts = append(opts, WithNormalizeOptions(observe), WithHistoryLimit(0))
	e, err := NewEditor(doc, features, opts...)
	if err != nil {
		return []error{err}
	}

	_ = WalkWithContext(e.Document(), func(n *Node, ctx WalkContext) error {
		if n.Type != TypeComponentBlock {
			return nil
		}
		b, ok := e.comps.Lookup(n.Component)
		if !ok {
			return nil
		}
		value, err := componentValue(b, n)
		if err != nil {
			return nil
		}
		for _, p := range component.FieldProblems(b.Schema, value) {
			errs = append(errs, &ValidationError{
				Path:    docPath(ctx.Path) + ".props" + propsPath(p.Path),
				Message: p.Message,
				Node:    n,
			})
		}
		return nil
	})
	return errs
}

// docPath renders a tree path in persisted-document form, e.g. [3].children[1].
func docPath(p Path) string {
	var b strings.Builder
	for i, idx := range p {
		if i > 0 {
			b.WriteString(".children")
		}
		fmt.Fprintf(&b, "[%d]", idx)
	}
	return b.String()
}

func propsPath(path []any) string {
	var b strings.Builder
	for _, seg := range path {
		switch x := seg.(type) {
		case int:
			fmt.Fprintf(&b, "[%d]", x)
		default:
			fmt.Fprintf(&b, ".%v", x)
		}
	}
	return b.String()
}
