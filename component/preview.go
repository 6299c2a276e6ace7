package component

import (
	"fmt"
	"reflect"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds each of the projector's caches.
const DefaultCacheSize = 1024

// Props is the projection of one schema node onto its slice of the value.
type Props interface {
	Kind() Kind
}

// FormProps projects a form field.
type FormProps struct {
	Schema   *Form
	Value    any
	OnChange *Binding
}

func (*FormProps) Kind() Kind { return KindForm }

// Validate reports whether v is acceptable for the field.
func (p *FormProps) Validate(v any) bool { return validateForm(p.Schema, v) }

// ObjectProps projects an object; Fields holds one entry per schema field.
type ObjectProps struct {
	Schema   *Object
	Value    map[string]any
	Fields   map[string]Props
	OnChange *Binding
}

func (*ObjectProps) Kind() Kind { return KindObject }

// ElementProps is one array entry.
type ElementProps struct {
	Key   string
	Props Props
}

// ArrayProps projects an array and exposes its structural edits.
type ArrayProps struct {
	Schema   *Array
	Value    []Element
	Elements []ElementProps
	OnChange *Binding
}

func (*ArrayProps) Kind() Kind { return KindArray }

// ConditionalProps projects a conditional's discriminant and active branch.
type ConditionalProps struct {
	Schema       *Conditional
	Discriminant any
	Value        Props
	OnChange     *Binding
}

func (*ConditionalProps) Kind() Kind { return KindConditional }

// RelationshipProps projects a relationship field.
type RelationshipProps struct {
	Schema   *Relationship
	Value    any
	OnChange *Binding
}

func (*RelationshipProps) Kind() Kind { return KindRelationship }

// ChildProps marks a content slot; its content is edited in the document.
type ChildProps struct {
	Schema *Child
	Path   []any
}

func (*ChildProps) Kind() Kind { return KindChild }

type segKind int

const (
	segField segKind = iota
	segElement
	segBranch
)

type segment struct {
	kind segKind
	name string
}

func (s segment) String() string {
	switch s.kind {
	case segElement:
		return "[" + s.name + "]"
	case segBranch:
		return "<" + s.name + ">"
	default:
		return "." + s.name
	}
}

// Binding is a narrowed change handler for one location in the value.
// Bindings are addressed by field names, array element keys and branch
// keys, so a binding stays valid across reorders of its ancestors.
type Binding struct {
	p    *Projector
	path []segment
}

// Path renders the binding's location.
func (b *Binding) Path() string {
	s := ""
	for _, seg := range b.path {
		s += seg.String()
	}
	return s
}

// Set replaces the value at the binding's location and notifies the
// projector's owner with the rebuilt root. It reports false when the location
// no longer exists, such as a removed array element.
func (b *Binding) Set(v any) bool {
	root, ok := setIn(b.p.schema, b.p.value, b.path, v)
	if !ok {
		return false
	}
	b.p.value = root
	if b.p.onChange != nil {
		b.p.onChange(root)
	}
	return true
}

// Get returns the current value at the binding's location.
func (b *Binding) Get() (any, bool) {
	return getIn(b.p.schema, b.p.value, b.path)
}

type propsEntry struct {
	value any
	props Props
}

// Projector builds preview props for one (schema, onChange) pair. Bindings
// are memoized by location and props by value identity, so an edit rebuilds
// only the props on the path from the root to the edited field.
type Projector struct {
	schema   Schema
	value    any
	onChange func(any)
	bindings *lru.Cache[string, *Binding]
	props    *lru.Cache[string, propsEntry]
}

// ProjectorOption configures a Projector.
type ProjectorOption func(*projectorConfig)

type projectorConfig struct {
	cacheSize int
}

// WithCacheSize sets the capacity of the binding and props caches.
func WithCacheSize(n int) ProjectorOption {
	return func(c *projectorConfig) { c.cacheSize = n }
}

// NewProjector returns a projector over value. onChange receives every new
// root value produced through a binding.
func NewProjector(s Schema, value any, onChange func(any), opts ...ProjectorOption) (*Projector, error) {
	cfg := projectorConfig{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := Check(s); err != nil {
		return nil, err
	}
	if !Validate(s, value) {
		return nil, &ValueError{Err: ErrShape}
	}
	bindings, err := lru.New[string, *Binding](cfg.cacheSize)
	if err != nil {
		return nil, err
	}
	props, err := lru.New[string, propsEntry](cfg.cacheSize)
	if err != nil {
		return nil, err
	}
	return &Projector{schema: s, value: value, onChange: onChange, bindings: bindings, props: props}, nil
}

// Value returns the current root value.
func (p *Projector) Value() any { return p.value }

// SetValue replaces the root value without notifying onChange, for values
// that changed outside the projector such as undo.
func (p *Projector) SetValue(v any) { p.value = v }

// Props returns the props tree for the current value.
func (p *Projector) Props() Props {
	return p.project(p.schema, p.value, nil, nil)
}

func (p *Projector) binding(path []segment) *Binding {
	key := pathString(path)
	if b, ok := p.bindings.Get(key); ok {
		return b
	}
	b := &Binding{p: p, path: append([]segment(nil), path...)}
	p.bindings.Add(key, b)
	return b
}

func pathString(path []segment) string {
	s := ""
	for _, seg := range path {
		s += seg.String()
	}
	return s
}

// project returns the props at path. docPath is the index-based location
// used by child slots.
func (p *Projector) project(s Schema, value any, path []segment, docPath []any) Props {
	key := pathString(path) + "@" + fmt.Sprint(docPath)
	if e, ok := p.props.Get(key); ok && sameValue(e.value, value) {
		return e.props
	}

	var out Props
	switch x := s.(type) {
	case *Form:
		out = &FormProps{Schema: x, Value: value, OnChange: p.binding(path)}
	case *Object:
		m, _ := value.(map[string]any)
		op := &ObjectProps{Schema: x, Value: m, Fields: make(map[string]Props, len(x.Fields)), OnChange: p.binding(path)}
		for _, f := range x.Fields {
			op.Fields[f.Name] = p.project(f.Schema, m[f.Name], appendPath(path, segment{segField, f.Name}), appendSeg(docPath, f.Name))
		}
		out = op
	case *Array:
		els, _ := value.([]Element)
		ap := &ArrayProps{Schema: x, Value: els, Elements: make([]ElementProps, len(els)), OnChange: p.binding(path)}
		for i, e := range els {
			ap.Elements[i] = ElementProps{
				Key:   e.Key,
				Props: p.project(x.Element, e.Value, appendPath(path, segment{segElement, e.Key}), appendSeg(docPath, i)),
			}
		}
		out = ap
	case *Conditional:
		cv, _ := value.(ConditionalValue)
		cp := &ConditionalProps{Schema: x, Discriminant: cv.Discriminant, OnChange: p.binding(path)}
		if branch, ok := x.Branch(cv.Discriminant); ok {
			seg := segment{segBranch, DiscriminantKey(cv.Discriminant)}
			cp.Value = p.project(branch, cv.Value, appendPath(path, seg), appendSeg(docPath, "value"))
		}
		out = cp
	case *Relationship:
		out = &RelationshipProps{Schema: x, Value: value, OnChange: p.binding(path)}
	case *Child:
		out = &ChildProps{Schema: x, Path: docPath}
	}
	p.props.Add(key, propsEntry{value: value, props: out})
	return out
}

func appendPath(path []segment, seg segment) []segment {
	out := make([]segment, len(path), len(path)+1)
	copy(out, path)
	return append(out, seg)
}

// sameValue reports identity for reference values and equality for scalars.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ca, aok := a.(ConditionalValue)
	cb, bok := b.(ConditionalValue)
	if aok || bok {
		return aok && bok && ca.Discriminant == cb.Discriminant && sameValue(ca.Value, cb.Value)
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Pointer:
		return va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Slice:
		return va.Len() == vb.Len() && (va.Len() == 0 || va.UnsafePointer() == vb.UnsafePointer())
	default:
		if !va.Type().Comparable() {
			return false
		}
		return a == b
	}
}

//
// Copy-on-write updates
//

func getIn(s Schema, value any, path []segment) (any, bool) {
	if len(path) == 0 {
		return value, true
	}
	seg := path[0]
	switch x := s.(type) {
	case *Object:
		m, _ := value.(map[string]any)
		fs, ok := x.Field(seg.name)
		if !ok || seg.kind != segField {
			return nil, false
		}
		return getIn(fs, m[seg.name], path[1:])
	case *Array:
		els, _ := value.([]Element)
		for _, e := range els {
			if e.Key == seg.name {
				return getIn(x.Element, e.Value, path[1:])
			}
		}
	case *Conditional:
		cv, _ := value.(ConditionalValue)
		if DiscriminantKey(cv.Discriminant) == seg.name {
			if branch, ok := x.Branch(cv.Discriminant); ok {
				return getIn(branch, cv.Value, path[1:])
			}
		}
	}
	return nil, false
}

// setIn rebuilds every container on path and shares everything else.
func setIn(s Schema, value any, path []segment, v any) (any, bool) {
	if len(path) == 0 {
		return v, true
	}
	seg := path[0]
	switch x := s.(type) {
	case *Object:
		m, _ := value.(map[string]any)
		fs, ok := x.Field(seg.name)
		if !ok || seg.kind != segField {
			return nil, false
		}
		nv, ok := setIn(fs, m[seg.name], path[1:], v)
		if !ok {
			return nil, false
		}
		out := make(map[string]any, len(m))
		for k, old := range m {
			out[k] = old
		}
		out[seg.name] = nv
		return out, true
	case *Array:
		els, _ := value.([]Element)
		for i, e := range els {
			if e.Key != seg.name {
				continue
			}
			nv, ok := setIn(x.Element, e.Value, path[1:], v)
			if !ok {
				return nil, false
			}
			out := append([]Element(nil), els...)
			out[i] = Element{Key: e.Key, Value: nv}
			return out, true
		}
	case *Conditional:
		cv, _ := value.(ConditionalValue)
		if DiscriminantKey(cv.Discriminant) != seg.name {
			return nil, false
		}
		branch, ok := x.Branch(cv.Discriminant)
		if !ok {
			return nil, false
		}
		nv, ok := setIn(branch, cv.Value, path[1:], v)
		if !ok {
			return nil, false
		}
		return ConditionalValue{Discriminant: cv.Discriminant, Value: nv}, true
	}
	return nil, false
}

//
// Array edits
//

// Insert adds an element at index; a nil value inserts the element default.
// It returns the new element's key.
func (a *ArrayProps) Insert(index int, value any) string {
	if value == nil {
		value = DefaultValue(a.Schema.Element)
	}
	key := NewKey()
	els := a.current()
	if index < 0 || index > len(els) {
		index = len(els)
	}
	out := make([]Element, 0, len(els)+1)
	out = append(out, els[:index]...)
	out = append(out, Element{Key: key, Value: value})
	out = append(out, els[index:]...)
	a.OnChange.Set(out)
	return key
}

// Remove deletes the element with key.
func (a *ArrayProps) Remove(key string) bool {
	els := a.current()
	for i, e := range els {
		if e.Key == key {
			out := make([]Element, 0, len(els)-1)
			out = append(out, els[:i]...)
			out = append(out, els[i+1:]...)
			return a.OnChange.Set(out)
		}
	}
	return false
}

// Move relocates the element at from to index to.
func (a *ArrayProps) Move(from, to int) error {
	els := a.current()
	if from < 0 || from >= len(els) || to < 0 || to >= len(els) {
		return fmt.Errorf("%w: move %d to %d of %d", ErrInvalidReorder, from, to, len(els))
	}
	out := append([]Element(nil), els...)
	e := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]Element{e}, out[to:]...)...)
	a.OnChange.Set(out)
	return nil
}

// Reorder arranges the elements in keys order; keys must be a permutation
// of the current keys. Element values and keys are preserved.
func (a *ArrayProps) Reorder(keys []string) error {
	els := a.current()
	if len(keys) != len(els) {
		return fmt.Errorf("%w: %d keys for %d elements", ErrInvalidReorder, len(keys), len(els))
	}
	byKey := make(map[string]Element, len(els))
	for _, e := range els {
		byKey[e.Key] = e
	}
	out := make([]Element, 0, len(keys))
	for _, k := range keys {
		e, ok := byKey[k]
		if !ok {
			return fmt.Errorf("%w: unknown key %s", ErrInvalidReorder, strconv.Quote(k))
		}
		delete(byKey, k)
		out = append(out, e)
	}
	a.OnChange.Set(out)
	return nil
}

func (a *ArrayProps) current() []Element {
	v, _ := a.OnChange.Get()
	els, _ := v.([]Element)
	return els
}

// SetDiscriminant switches the active branch. A new branch starts from its
// default value; the previous branch's value is dropped.
func (c *ConditionalProps) SetDiscriminant(d any) error {
	if !validateForm(c.Schema.Discriminant, d) {
		return &ValueError{Path: "discriminant", Err: ErrShape}
	}
	v, _ := c.OnChange.Get()
	cv, _ := v.(ConditionalValue)
	if DiscriminantKey(cv.Discriminant) == DiscriminantKey(d) {
		cv.Discriminant = d
		c.OnChange.Set(cv)
		return nil
	}
	var bv any
	if branch, ok := c.Schema.Branch(d); ok {
		bv = DefaultValue(branch)
	}
	c.OnChange.Set(ConditionalValue{Discriminant: d, Value: bv})
	return nil
}
