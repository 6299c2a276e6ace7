package component

import (
	"fmt"
	"sort"
)

// Check verifies a schema at configuration time. Errors here must stop the
// editor from being created.
func Check(s Schema) error {
	return check(s, "")
}

func check(s Schema, path string) error {
	if s == nil {
		return &SchemaError{Path: path, Err: ErrNilSchema}
	}
	switch x := s.(type) {
	case *Form:
		return checkForm(x, path)
	case *Object:
		seen := make(map[string]bool, len(x.Fields))
		for _, f := range x.Fields {
			if seen[f.Name] {
				return &SchemaError{Path: joinPath(path, f.Name), Err: ErrDuplicateField}
			}
			seen[f.Name] = true
			if err := check(f.Schema, joinPath(path, f.Name)); err != nil {
				return err
			}
		}
		return nil
	case *Array:
		return check(x.Element, joinPath(path, "[]"))
	case *Conditional:
		return checkConditional(x, path)
	case *Relationship:
		if x.ListKey == "" {
			return &SchemaError{Path: path, Err: ErrMissingListKey}
		}
		return nil
	case *Child:
		if x.Slot != SlotBlock && x.Slot != SlotInline {
			return &SchemaError{Path: path, Err: ErrInvalidSlot}
		}
		return nil
	default:
		return &SchemaError{Path: path, Err: fmt.Errorf("unsupported schema %T", s)}
	}
}

func checkForm(f *Form, path string) error {
	switch f.Input {
	case InputText, InputURL, InputInteger, InputCheckbox, InputEmpty:
	case InputSelect, InputMultiselect:
		seen := make(map[string]bool, len(f.Options))
		for _, o := range f.Options {
			if seen[o.Value] {
				return &SchemaError{Path: path, Err: fmt.Errorf("%w: %q", ErrDuplicateOption, o.Value)}
			}
			seen[o.Value] = true
		}
	default:
		return &SchemaError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnknownInput, f.Input)}
	}
	if !validateForm(f, defaultForm(f)) {
		return &SchemaError{Path: path, Err: ErrInvalidDefault}
	}
	return nil
}

func checkConditional(c *Conditional, path string) error {
	d := c.Discriminant
	if d == nil {
		return &SchemaError{Path: path, Err: ErrInvalidDiscriminant}
	}
	if err := checkForm(d, joinPath(path, "discriminant")); err != nil {
		return err
	}

	var keys []string
	switch {
	case d.Input == InputSelect:
		for _, o := range d.Options {
			keys = append(keys, o.Value)
		}
	case d.Input == InputCheckbox:
		keys = []string{"false", "true"}
	}

	stringOK := false
	for _, k := range keys {
		if validateForm(d, k) {
			stringOK = true
		}
	}
	if d.Input != InputSelect && validateForm(d, "") {
		stringOK = true
	}
	boolOK := validateForm(d, true) && validateForm(d, false)
	switch {
	case stringOK && boolOK:
		return &SchemaError{Path: path, Err: ErrAmbiguousDiscriminant}
	case !stringOK && !boolOK, len(keys) == 0:
		return &SchemaError{Path: path, Err: ErrInvalidDiscriminant}
	}

	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
		branch, ok := c.Values[k]
		if !ok {
			return &SchemaError{Path: path, Err: fmt.Errorf("%w: %q", ErrMissingBranch, k)}
		}
		if err := check(branch, joinPath(path, k)); err != nil {
			return err
		}
	}
	extra := make([]string, 0)
	for k := range c.Values {
		if !want[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return &SchemaError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnexpectedBranch, extra[0])}
	}
	return nil
}

// Check verifies every block in the registry.
func (r Registry) Check() error {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b := r[name]
		if b == nil || b.Schema == nil {
			return &SchemaError{Path: name, Err: ErrNilSchema}
		}
		if b.Name != "" && b.Name != name {
			return &SchemaError{Path: name, Err: fmt.Errorf("block declared as %q", b.Name)}
		}
		if err := check(b.Schema, name); err != nil {
			return err
		}
	}
	return nil
}

// CheckCompatible verifies that two declarations of the same registry agree,
// such as the server's and the editor's.
func CheckCompatible(server, client Registry) error {
	for name, cb := range client {
		sb, ok := server[name]
		if !ok {
			return &SchemaError{Path: name, Err: ErrUnknownComponent}
		}
		if Fingerprint(sb.Schema) != Fingerprint(cb.Schema) {
			return &SchemaError{Path: name, Err: ErrSchemaMismatch}
		}
	}
	for name := range server {
		if _, ok := client[name]; !ok {
			return &SchemaError{Path: name, Err: ErrUnknownComponent}
		}
	}
	return nil
}
