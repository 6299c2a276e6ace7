package component

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// schemaDoc is the YAML declaration of one schema node.
//
//	fields:
//	  - name: title
//	    kind: form
//	    input: text
//	    label: Title
//	  - name: content
//	    kind: child
//	    slot: block
type schemaDoc struct {
	Name         string               `yaml:"name"`
	Kind         string               `yaml:"kind"`
	Input        Input                `yaml:"input"`
	Label        string               `yaml:"label"`
	Default      any                  `yaml:"default"`
	Options      []Option             `yaml:"options"`
	Required     bool                 `yaml:"required"`
	Fields       []schemaDoc          `yaml:"fields"`
	Element      *schemaDoc           `yaml:"element"`
	Discriminant *schemaDoc           `yaml:"discriminant"`
	Values       map[string]schemaDoc `yaml:"values"`
	ListKey      string               `yaml:"listKey"`
	Selection    string               `yaml:"selection"`
	Many         bool                 `yaml:"many"`
	Slot         Slot                 `yaml:"slot"`
	Placeholder  string               `yaml:"placeholder"`
}

type blockDoc struct {
	Label      string      `yaml:"label"`
	ChromeLess bool        `yaml:"chromeless"`
	Fields     []schemaDoc `yaml:"fields"`
}

type registryDoc struct {
	Blocks map[string]blockDoc `yaml:"blocks"`
}

// ParseRegistry reads component block declarations from YAML and checks them.
func ParseRegistry(data []byte) (Registry, error) {
	var doc registryDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse component registry: %w", err)
	}

	names := make([]string, 0, len(doc.Blocks))
	for name := range doc.Blocks {
		names = append(names, name)
	}
	sort.Strings(names)

	reg := make(Registry, len(doc.Blocks))
	for _, name := range names {
		bd := doc.Blocks[name]
		obj, err := buildObject(bd.Fields, name)
		if err != nil {
			return nil, err
		}
		reg[name] = &Block{Name: name, Label: bd.Label, Schema: obj, ChromeLess: bd.ChromeLess}
	}
	if err := reg.Check(); err != nil {
		return nil, err
	}
	return reg, nil
}

// LoadRegistry reads a YAML registry file.
func LoadRegistry(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRegistry(data)
}

func buildObject(fields []schemaDoc, path string) (*Object, error) {
	obj := &Object{Fields: make([]Field, 0, len(fields))}
	for _, fd := range fields {
		if fd.Name == "" {
			return nil, &SchemaError{Path: path, Err: fmt.Errorf("field without a name")}
		}
		s, err := buildSchema(&fd, joinPath(path, fd.Name))
		if err != nil {
			return nil, err
		}
		obj.Fields = append(obj.Fields, Field{Name: fd.Name, Schema: s})
	}
	return obj, nil
}

func buildSchema(d *schemaDoc, path string) (Schema, error) {
	switch d.Kind {
	case "form", "":
		return buildForm(d), nil
	case "object":
		return buildObject(d.Fields, path)
	case "array":
		if d.Element == nil {
			return nil, &SchemaError{Path: path, Err: ErrNilSchema}
		}
		el, err := buildSchema(d.Element, joinPath(path, "[]"))
		if err != nil {
			return nil, err
		}
		return &Array{Element: el, Label: d.Label}, nil
	case "conditional":
		if d.Discriminant == nil {
			return nil, &SchemaError{Path: path, Err: ErrInvalidDiscriminant}
		}
		c := &Conditional{Discriminant: buildForm(d.Discriminant), Values: make(map[string]Schema, len(d.Values))}
		for k, vd := range d.Values {
			vd := vd
			s, err := buildSchema(&vd, joinPath(path, k))
			if err != nil {
				return nil, err
			}
			c.Values[k] = s
		}
		return c, nil
	case "relationship":
		return &Relationship{ListKey: d.ListKey, Label: d.Label, Selection: d.Selection, Many: d.Many, Required: d.Required}, nil
	case "child":
		return &Child{Slot: d.Slot, Placeholder: d.Placeholder}, nil
	default:
		return nil, &SchemaError{Path: path, Err: fmt.Errorf("unknown schema kind %q", d.Kind)}
	}
}

func buildForm(d *schemaDoc) *Form {
	f := &Form{Input: d.Input, Label: d.Label, Options: d.Options, Required: d.Required}
	switch x := d.Default.(type) {
	case []any:
		ms := make([]string, 0, len(x))
		for _, v := range x {
			ms = append(ms, fmt.Sprint(v))
		}
		f.Default = ms
	default:
		f.Default = x
	}
	return f
}
