package component

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Mode selects the mutation semantics of Serialize.
type Mode int

const (
	// Create serializes for a new record: relationships connect, nulls are omitted.
	Create Mode = iota
	// Update serializes for an existing record: relationships set or disconnect.
	Update
)

func (m Mode) String() string {
	if m == Update {
		return "update"
	}
	return "create"
}

// Serialize converts value to the save payload. ok is false when the value
// must be omitted from its parent entirely.
func Serialize(s Schema, value any, mode Mode) (out any, ok bool) {
	switch x := s.(type) {
	case *Form:
		if x.Input == InputEmpty {
			return nil, true
		}
		if !validateForm(x, value) {
			value = defaultForm(x)
		}
		if x.Input == InputInteger {
			i, _ := asInt(value)
			return i, true
		}
		if ms, isMulti := value.([]string); isMulti {
			return append([]string{}, ms...), true
		}
		return value, true
	case *Object:
		m, _ := value.(map[string]any)
		res := make(map[string]any, len(x.Fields))
		for _, f := range x.Fields {
			if v, ok := Serialize(f.Schema, m[f.Name], mode); ok {
				res[f.Name] = v
			}
		}
		return res, true
	case *Array:
		els, _ := value.([]Element)
		res := make([]any, 0, len(els))
		for _, e := range els {
			v, ok := Serialize(x.Element, e.Value, mode)
			if !ok {
				v = nil
			}
			res = append(res, v)
		}
		return res, true
	case *Conditional:
		cv, _ := value.(ConditionalValue)
		key := DiscriminantKey(cv.Discriminant)
		branch, found := x.Values[key]
		if !found {
			return map[string]any{key: nil}, true
		}
		bv := cv.Value
		if !Validate(branch, bv) {
			bv = DefaultValue(branch)
		}
		v, ok := Serialize(branch, bv, mode)
		if !ok {
			v = nil
		}
		return map[string]any{key: v}, true
	case *Relationship:
		return serializeRelationship(x, value, mode)
	default:
		return nil, false
	}
}

func serializeRelationship(r *Relationship, value any, mode Mode) (any, bool) {
	if r.Many {
		refs, _ := value.([]Ref)
		ids := make([]any, len(refs))
		for i, ref := range refs {
			ids[i] = map[string]any{"id": ref.ID}
		}
		if mode == Update {
			return map[string]any{"set": ids}, true
		}
		return map[string]any{"connect": ids}, true
	}
	ref, _ := value.(*Ref)
	if ref == nil {
		if mode == Update {
			return map[string]any{"disconnect": true}, true
		}
		return nil, false
	}
	return map[string]any{"connect": map[string]any{"id": ref.ID}}, true
}

// Deserialize reads a persisted value. It accepts both the save payload
// written by Serialize and the document props shape written by ToProps.
// Relationships come back as ids only; child fields come back nil.
func Deserialize(s Schema, persisted any) (any, error) {
	return deserialize(s, persisted, "")
}

func deserialize(s Schema, v any, path string) (any, error) {
	switch x := s.(type) {
	case *Form:
		return deserializeForm(x, v, path)
	case *Object:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, &ValueError{Path: path, Err: fmt.Errorf("%w: expected object", ErrShape)}
		}
		out := make(map[string]any, len(x.Fields))
		for _, f := range x.Fields {
			if f.Schema.Kind() == KindChild {
				out[f.Name] = nil
				continue
			}
			raw, present := m[f.Name]
			if !present {
				if f.Schema.Kind() == KindRelationship {
					out[f.Name] = DefaultValue(f.Schema)
					continue
				}
				return nil, &ValueError{Path: joinPath(path, f.Name), Err: fmt.Errorf("%w: missing field", ErrShape)}
			}
			fv, err := deserialize(f.Schema, raw, joinPath(path, f.Name))
			if err != nil {
				return nil, err
			}
			out[f.Name] = fv
		}
		return out, nil
	case *Array:
		arr, ok := v.([]any)
		if !ok {
			return nil, &ValueError{Path: path, Err: fmt.Errorf("%w: expected array", ErrShape)}
		}
		out := make([]Element, 0, len(arr))
		for i, item := range arr {
			ev, err := deserialize(x.Element, item, joinPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			out = append(out, Element{Key: NewKey(), Value: ev})
		}
		return out, nil
	case *Conditional:
		return deserializeConditional(x, v, path)
	case *Relationship:
		return deserializeRelationship(x, v, path)
	case *Child:
		return nil, nil
	default:
		return nil, &ValueError{Path: path, Err: fmt.Errorf("unsupported schema %T", s)}
	}
}

func deserializeForm(f *Form, v any, path string) (any, error) {
	var out any = v
	switch f.Input {
	case InputInteger:
		i, ok := asInt(v)
		if !ok {
			return nil, &ValueError{Path: path, Err: fmt.Errorf("%w: expected integer", ErrShape)}
		}
		out = i
	case InputMultiselect:
		switch arr := v.(type) {
		case []string:
			out = append([]string{}, arr...)
		case []any:
			ms := make([]string, 0, len(arr))
			for _, item := range arr {
				s, ok := item.(string)
				if !ok {
					return nil, &ValueError{Path: path, Err: fmt.Errorf("%w: expected strings", ErrShape)}
				}
				ms = append(ms, s)
			}
			out = ms
		}
	}
	if !validateForm(f, out) {
		return nil, &ValueError{Path: path, Err: fmt.Errorf("%w: invalid %s value", ErrShape, f.Input)}
	}
	return out, nil
}

func deserializeConditional(c *Conditional, v any, path string) (any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &ValueError{Path: path, Err: fmt.Errorf("%w: expected object", ErrShape)}
	}

	var d any
	var raw any
	if dv, hasD := m["discriminant"]; hasD && len(m) == 2 {
		if _, hasV := m["value"]; hasV {
			d, raw = dv, m["value"]
		}
	}
	if d == nil {
		if len(m) != 1 {
			return nil, &ValueError{Path: path, Err: fmt.Errorf("%w: expected a single branch", ErrShape)}
		}
		for k, bv := range m {
			d, raw = parseDiscriminant(c.Discriminant, k), bv
		}
	}

	if !validateForm(c.Discriminant, d) {
		return nil, &ValueError{Path: joinPath(path, "discriminant"), Err: fmt.Errorf("%w: invalid discriminant", ErrShape)}
	}
	branch, _ := c.Branch(d)
	bv, err := deserialize(branch, raw, joinPath(path, DiscriminantKey(d)))
	if err != nil {
		return nil, err
	}
	return ConditionalValue{Discriminant: d, Value: bv}, nil
}

func parseDiscriminant(f *Form, key string) any {
	if f.Input == InputCheckbox {
		if b, err := strconv.ParseBool(key); err == nil {
			return b
		}
	}
	return key
}

func deserializeRelationship(r *Relationship, v any, path string) (any, error) {
	if r.Many {
		var items []any
		switch x := v.(type) {
		case nil:
			return []Ref{}, nil
		case []any:
			items = x
		case map[string]any:
			list, ok := x["set"].([]any)
			if !ok {
				list, ok = x["connect"].([]any)
			}
			if !ok {
				return nil, &ValueError{Path: path, Err: fmt.Errorf("%w: expected references", ErrShape)}
			}
			items = list
		default:
			return nil, &ValueError{Path: path, Err: fmt.Errorf("%w: expected references", ErrShape)}
		}
		out := make([]Ref, 0, len(items))
		for _, item := range items {
			ref, err := readRef(item, path)
			if err != nil {
				return nil, err
			}
			out = append(out, *ref)
		}
		return out, nil
	}

	switch x := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		if _, ok := x["disconnect"]; ok {
			return nil, nil
		}
		if c, ok := x["connect"]; ok {
			return readRef(c, path)
		}
		return readRef(x, path)
	default:
		return readRef(v, path)
	}
}

func readRef(v any, path string) (*Ref, error) {
	switch x := v.(type) {
	case string:
		if x == "" {
			break
		}
		return &Ref{ID: x}, nil
	case map[string]any:
		var id string
		switch raw := x["id"].(type) {
		case string:
			id = raw
		case json.Number:
			id = raw.String()
		}
		if id == "" {
			break
		}
		ref := &Ref{ID: id}
		if l, ok := x["label"].(string); ok {
			ref.Label = l
		}
		if d, ok := x["data"].(map[string]any); ok {
			ref.Data = d
		}
		return ref, nil
	}
	return nil, &ValueError{Path: path, Err: fmt.Errorf("%w: expected reference id", ErrShape)}
}

// ToProps converts value to the shape stored in a document node's props.
// Unlike Serialize it keeps conditional discriminants and relationship labels.
func ToProps(s Schema, value any) any {
	switch x := s.(type) {
	case *Form:
		if ms, ok := value.([]string); ok {
			out := make([]any, len(ms))
			for i, m := range ms {
				out[i] = m
			}
			return out
		}
		return value
	case *Object:
		m, _ := value.(map[string]any)
		out := make(map[string]any, len(x.Fields))
		for _, f := range x.Fields {
			if f.Schema.Kind() == KindChild {
				continue
			}
			out[f.Name] = ToProps(f.Schema, m[f.Name])
		}
		return out
	case *Array:
		els, _ := value.([]Element)
		out := make([]any, len(els))
		for i, e := range els {
			out[i] = ToProps(x.Element, e.Value)
		}
		return out
	case *Conditional:
		cv, _ := value.(ConditionalValue)
		var bv any
		if branch, ok := x.Branch(cv.Discriminant); ok {
			bv = ToProps(branch, cv.Value)
		}
		return map[string]any{"discriminant": cv.Discriminant, "value": bv}
	case *Relationship:
		if x.Many {
			refs, _ := value.([]Ref)
			out := make([]any, len(refs))
			for i := range refs {
				out[i] = refProps(&refs[i])
			}
			return out
		}
		ref, _ := value.(*Ref)
		if ref == nil {
			return nil
		}
		return refProps(ref)
	default:
		return nil
	}
}

func refProps(r *Ref) map[string]any {
	m := map[string]any{"id": r.ID}
	if r.Label != "" {
		m["label"] = r.Label
	}
	if r.Data != nil {
		m["data"] = r.Data
	}
	return m
}

// SerializeProps serializes a block's props for the save payload.
func SerializeProps(b *Block, value map[string]any, mode Mode) map[string]any {
	out, _ := Serialize(b.Schema, value, mode)
	m, _ := out.(map[string]any)
	return m
}
