package component

import "strconv"

// ChildSlot locates a child field within a value. Path segments are field
// names, array indexes, and "value" for a conditional's active branch.
type ChildSlot struct {
	Path        []any
	Slot        Slot
	Placeholder string
}

// ChildFields lists the child slots reachable in value, in schema order.
// Only active conditional branches contribute.
func ChildFields(s Schema, value any) []ChildSlot {
	var out []ChildSlot
	collectChildren(s, value, nil, &out)
	return out
}

func collectChildren(s Schema, value any, path []any, out *[]ChildSlot) {
	switch x := s.(type) {
	case *Child:
		*out = append(*out, ChildSlot{Path: append([]any(nil), path...), Slot: x.Slot, Placeholder: x.Placeholder})
	case *Object:
		m, _ := value.(map[string]any)
		for _, f := range x.Fields {
			collectChildren(f.Schema, m[f.Name], appendSeg(path, f.Name), out)
		}
	case *Array:
		els, _ := value.([]Element)
		for i, e := range els {
			collectChildren(x.Element, e.Value, appendSeg(path, i), out)
		}
	case *Conditional:
		cv, _ := value.(ConditionalValue)
		if branch, ok := x.Branch(cv.Discriminant); ok {
			collectChildren(branch, cv.Value, appendSeg(path, "value"), out)
		}
	}
}

func appendSeg(path []any, seg any) []any {
	out := make([]any, len(path), len(path)+1)
	copy(out, path)
	return append(out, seg)
}

// PathKey renders a child path for comparisons.
func PathKey(path []any) string {
	key := ""
	for _, seg := range path {
		switch x := seg.(type) {
		case int:
			key += "/" + strconv.Itoa(x)
		case string:
			key += "/" + strconv.Quote(x)
		}
	}
	return key
}
