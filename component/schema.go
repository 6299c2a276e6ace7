package component

// Kind identifies a schema variant.
type Kind int

const (
	KindForm Kind = iota + 1
	KindObject
	KindArray
	KindConditional
	KindRelationship
	KindChild
)

func (k Kind) String() string {
	switch k {
	case KindForm:
		return "form"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindConditional:
		return "conditional"
	case KindRelationship:
		return "relationship"
	case KindChild:
		return "child"
	default:
		return "unknown"
	}
}

// Schema is one node of a component field schema. Schemas are plain data;
// behavior lives in the package functions that switch on the variant.
type Schema interface {
	Kind() Kind
}

// Input names the editable value held by a Form.
type Input string

const (
	InputText        Input = "text"
	InputInteger     Input = "integer"
	InputURL         Input = "url"
	InputSelect      Input = "select"
	InputMultiselect Input = "multiselect"
	InputCheckbox    Input = "checkbox"
	InputEmpty       Input = "empty"
)

// Option is a choice of a select or multiselect form.
type Option struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// Form is an atomic editable value.
type Form struct {
	Input    Input
	Label    string
	Default  any // nil picks the input's zero value
	Options  []Option
	Required bool // text and url: must be non-empty when forced
}

func (*Form) Kind() Kind { return KindForm }

// Field is a named entry of an Object.
type Field struct {
	Name   string
	Schema Schema
}

// Object maps field names to schemas. Field order is the display order.
type Object struct {
	Fields []Field
}

func (*Object) Kind() Kind { return KindObject }

// Field returns the schema of the named field.
func (o *Object) Field(name string) (Schema, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Schema, true
		}
	}
	return nil, false
}

// Array is a homogeneous list whose elements keep stable identity keys.
type Array struct {
	Element Schema
	Label   string
}

func (*Array) Kind() Kind { return KindArray }

// Conditional picks the active branch from the discriminant's value.
// Branch keys are the discriminant's string value, or "true"/"false".
type Conditional struct {
	Discriminant *Form
	Values       map[string]Schema
}

func (*Conditional) Kind() Kind { return KindConditional }

// Branch returns the schema selected by discriminant d.
func (c *Conditional) Branch(d any) (Schema, bool) {
	s, ok := c.Values[DiscriminantKey(d)]
	return s, ok
}

// Relationship references entities in an external store.
type Relationship struct {
	ListKey   string
	Label     string
	Selection string
	Many      bool
	Required  bool
}

func (*Relationship) Kind() Kind { return KindRelationship }

// Slot is the content shape of a Child field.
type Slot string

const (
	SlotBlock  Slot = "block"
	SlotInline Slot = "inline"
)

// Child is a content slot whose value lives in the surrounding document.
type Child struct {
	Slot        Slot
	Placeholder string
}

func (*Child) Kind() Kind { return KindChild }

//
// Constructors
//

func Text(label, def string) *Form { return &Form{Input: InputText, Label: label, Default: def} }

func Integer(label string, def int) *Form {
	return &Form{Input: InputInteger, Label: label, Default: def}
}

func URL(label, def string) *Form { return &Form{Input: InputURL, Label: label, Default: def} }

// Select defaults to the first option when def is empty.
func Select(label string, options []Option, def string) *Form {
	f := &Form{Input: InputSelect, Label: label, Options: options}
	if def != "" {
		f.Default = def
	}
	return f
}

func Multiselect(label string, options []Option, def []string) *Form {
	if def == nil {
		def = []string{}
	}
	return &Form{Input: InputMultiselect, Label: label, Options: options, Default: def}
}

func Checkbox(label string, def bool) *Form {
	return &Form{Input: InputCheckbox, Label: label, Default: def}
}

func Empty() *Form { return &Form{Input: InputEmpty} }

func NewObject(fields ...Field) *Object { return &Object{Fields: fields} }

func NewArray(element Schema) *Array { return &Array{Element: element} }

func BlockChild(placeholder string) *Child { return &Child{Slot: SlotBlock, Placeholder: placeholder} }

func InlineChild(placeholder string) *Child {
	return &Child{Slot: SlotInline, Placeholder: placeholder}
}

// Block declares an insertable component block.
type Block struct {
	Name       string
	Label      string
	Schema     *Object
	ChromeLess bool
}

// Registry maps component names to their declarations.
type Registry map[string]*Block

// Lookup returns the named block.
func (r Registry) Lookup(name string) (*Block, bool) {
	b, ok := r[name]
	return b, ok
}
