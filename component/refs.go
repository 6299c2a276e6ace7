package component

// VisitRefs calls fn for every relationship reference held in value,
// including those in arrays and active conditional branches. fn may update
// the reference in place.
func VisitRefs(s Schema, value any, fn func(r *Relationship, ref *Ref)) {
	switch x := s.(type) {
	case *Relationship:
		switch v := value.(type) {
		case *Ref:
			if v != nil {
				fn(x, v)
			}
		case []Ref:
			for i := range v {
				fn(x, &v[i])
			}
		}
	case *Object:
		m, _ := value.(map[string]any)
		for _, f := range x.Fields {
			VisitRefs(f.Schema, m[f.Name], fn)
		}
	case *Array:
		els, _ := value.([]Element)
		for _, e := range els {
			VisitRefs(x.Element, e.Value, fn)
		}
	case *Conditional:
		cv, _ := value.(ConditionalValue)
		if branch, ok := x.Branch(cv.Discriminant); ok {
			VisitRefs(branch, cv.Value, fn)
		}
	}
}
