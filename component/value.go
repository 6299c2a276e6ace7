package component

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// Element is one entry of an array value. Key identifies the entry across
// reorders and is never persisted.
type Element struct {
	Key   string
	Value any
}

// ConditionalValue holds the discriminant and the active branch's value.
type ConditionalValue struct {
	Discriminant any
	Value        any
}

// Ref is a relationship reference. Label and Data are display-only.
type Ref struct {
	ID      string
	Label   string
	Data    map[string]any
	Missing bool // resolution returned no entity
}

// NewKey returns a fresh array element identity key.
func NewKey() string { return uuid.NewString() }

// DiscriminantKey renders a discriminant as the key of its branch.
func DiscriminantKey(d any) string {
	switch x := d.(type) {
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	default:
		return ""
	}
}

// DefaultValue returns the initial value of a schema.
func DefaultValue(s Schema) any {
	switch x := s.(type) {
	case *Form:
		return defaultForm(x)
	case *Object:
		out := make(map[string]any, len(x.Fields))
		for _, f := range x.Fields {
			out[f.Name] = DefaultValue(f.Schema)
		}
		return out
	case *Array:
		return []Element{}
	case *Conditional:
		d := defaultForm(x.Discriminant)
		var v any
		if branch, ok := x.Branch(d); ok {
			v = DefaultValue(branch)
		}
		return ConditionalValue{Discriminant: d, Value: v}
	case *Relationship:
		if x.Many {
			return []Ref{}
		}
		return nil
	default:
		return nil
	}
}

func defaultForm(f *Form) any {
	if f.Default != nil {
		if ms, ok := f.Default.([]string); ok {
			return append([]string{}, ms...)
		}
		return f.Default
	}
	switch f.Input {
	case InputText, InputURL:
		return ""
	case InputInteger:
		return 0
	case InputSelect:
		if len(f.Options) > 0 {
			return f.Options[0].Value
		}
		return ""
	case InputMultiselect:
		return []string{}
	case InputCheckbox:
		return false
	default:
		return nil
	}
}

// Validate reports whether value has the structure s requires. It never
// accepts a partial value. Child fields are always valid here.
func Validate(s Schema, value any) bool {
	switch x := s.(type) {
	case *Form:
		return validateForm(x, value)
	case *Object:
		m, ok := value.(map[string]any)
		if !ok {
			return false
		}
		for k := range m {
			if _, ok := x.Field(k); !ok {
				return false
			}
		}
		for _, f := range x.Fields {
			if f.Schema.Kind() == KindChild {
				continue
			}
			v, ok := m[f.Name]
			if !ok || !Validate(f.Schema, v) {
				return false
			}
		}
		return true
	case *Array:
		els, ok := value.([]Element)
		if !ok {
			return false
		}
		seen := make(map[string]bool, len(els))
		for _, e := range els {
			if e.Key == "" || seen[e.Key] {
				return false
			}
			seen[e.Key] = true
			if !Validate(x.Element, e.Value) {
				return false
			}
		}
		return true
	case *Conditional:
		cv, ok := value.(ConditionalValue)
		if !ok || !validateForm(x.Discriminant, cv.Discriminant) {
			return false
		}
		branch, ok := x.Branch(cv.Discriminant)
		return ok && Validate(branch, cv.Value)
	case *Relationship:
		if x.Many {
			refs, ok := value.([]Ref)
			if !ok {
				return false
			}
			for _, r := range refs {
				if r.ID == "" {
					return false
				}
			}
			return true
		}
		if value == nil {
			return true
		}
		r, ok := value.(*Ref)
		return ok && r != nil && r.ID != ""
	case *Child:
		return true
	default:
		return false
	}
}

func validateForm(f *Form, value any) bool {
	switch f.Input {
	case InputText:
		_, ok := value.(string)
		return ok
	case InputURL:
		s, ok := value.(string)
		return ok && (s == "" || IsValidURL(s))
	case InputInteger:
		_, ok := asInt(value)
		return ok
	case InputSelect:
		s, ok := value.(string)
		return ok && hasOption(f.Options, s)
	case InputMultiselect:
		ms, ok := value.([]string)
		if !ok {
			return false
		}
		seen := make(map[string]bool, len(ms))
		for _, s := range ms {
			if seen[s] || !hasOption(f.Options, s) {
				return false
			}
			seen[s] = true
		}
		return true
	case InputCheckbox:
		_, ok := value.(bool)
		return ok
	case InputEmpty:
		return value == nil
	default:
		return false
	}
}

func hasOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

// IsValidURL accepts absolute http(s)/mailto/tel URLs and root-relative paths.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https":
		return u.Host != ""
	case "mailto", "tel":
		return u.Opaque != "" || u.Path != ""
	case "":
		return len(s) > 0 && s[0] == '/'
	default:
		return false
	}
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		return int(x), true
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
