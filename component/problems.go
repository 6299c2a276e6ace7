package component

import "strings"

// FieldProblems returns the value-validity failures the host shows when it
// forces validation, for example before saving. Each problem is local to one
// field; structural mismatches are reported by Validate instead.
func FieldProblems(s Schema, value any) []*FieldProblem {
	var out []*FieldProblem
	collectProblems(s, value, nil, &out)
	return out
}

func collectProblems(s Schema, value any, path []any, out *[]*FieldProblem) {
	switch x := s.(type) {
	case *Form:
		str, _ := value.(string)
		switch {
		case (x.Input == InputText || x.Input == InputURL) && x.Required && strings.TrimSpace(str) == "":
			*out = append(*out, &FieldProblem{Path: path, Message: label(x.Label) + " is required"})
		case x.Input == InputURL && str != "" && !IsValidURL(str):
			*out = append(*out, &FieldProblem{Path: path, Message: label(x.Label) + " must be a valid URL"})
		}
	case *Object:
		m, _ := value.(map[string]any)
		for _, f := range x.Fields {
			collectProblems(f.Schema, m[f.Name], appendSeg(path, f.Name), out)
		}
	case *Array:
		els, _ := value.([]Element)
		for i, e := range els {
			collectProblems(x.Element, e.Value, appendSeg(path, i), out)
		}
	case *Conditional:
		cv, _ := value.(ConditionalValue)
		if branch, ok := x.Branch(cv.Discriminant); ok {
			collectProblems(branch, cv.Value, appendSeg(path, "value"), out)
		}
	case *Relationship:
		var refs []Ref
		if x.Many {
			refs, _ = value.([]Ref)
		} else if r, ok := value.(*Ref); ok && r != nil {
			refs = []Ref{*r}
		}
		if x.Required && len(refs) == 0 {
			*out = append(*out, &FieldProblem{Path: path, Message: label(x.Label) + " is required"})
		}
		for _, r := range refs {
			if r.Missing {
				*out = append(*out, &FieldProblem{Path: path, Message: "unresolved relationship " + r.ID})
			}
		}
	}
}

func label(l string) string {
	if l == "" {
		return "value"
	}
	return l
}
