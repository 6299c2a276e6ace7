package component

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sizeOptions() []Option {
	return []Option{{Label: "Small", Value: "sm"}, {Label: "Large", Value: "lg"}}
}

func ctaSchema() *Conditional {
	return &Conditional{
		Discriminant: Checkbox("Show call to action", false),
		Values: map[string]Schema{
			"true":  NewObject(Field{Name: "text", Schema: Text("Text", "Go")}),
			"false": Empty(),
		},
	}
}

func heroSchema() *Object {
	return NewObject(
		Field{Name: "title", Schema: Text("Title", "")},
		Field{Name: "count", Schema: Integer("Count", 3)},
		Field{Name: "href", Schema: URL("Link", "")},
		Field{Name: "size", Schema: Select("Size", sizeOptions(), "")},
		Field{Name: "tags", Schema: Multiselect("Tags", []Option{{Label: "A", Value: "a"}, {Label: "B", Value: "b"}}, nil)},
		Field{Name: "featured", Schema: Checkbox("Featured", false)},
		Field{Name: "items", Schema: NewArray(NewObject(Field{Name: "label", Schema: Text("Label", "")}))},
		Field{Name: "cta", Schema: ctaSchema()},
		Field{Name: "author", Schema: &Relationship{ListKey: "User", Label: "Author"}},
		Field{Name: "related", Schema: &Relationship{ListKey: "Post", Many: true}},
		Field{Name: "content", Schema: BlockChild("Content")},
	)
}

// ========================================
// Check Tests
// ========================================

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		schema  Schema
		wantErr error
	}{
		{name: "hero", schema: heroSchema()},
		{name: "nil", schema: nil, wantErr: ErrNilSchema},
		{
			name:    "duplicate field",
			schema:  NewObject(Field{Name: "a", Schema: Text("", "")}, Field{Name: "a", Schema: Text("", "")}),
			wantErr: ErrDuplicateField,
		},
		{
			name:    "duplicate option",
			schema:  Select("Size", []Option{{Value: "a"}, {Value: "a"}}, ""),
			wantErr: ErrDuplicateOption,
		},
		{
			name:    "default not an option",
			schema:  Select("Size", sizeOptions(), "xl"),
			wantErr: ErrInvalidDefault,
		},
		{
			name:    "unknown input",
			schema:  &Form{Input: "color"},
			wantErr: ErrUnknownInput,
		},
		{
			name:    "relationship without list",
			schema:  &Relationship{},
			wantErr: ErrMissingListKey,
		},
		{
			name:    "bad slot",
			schema:  &Child{Slot: "table"},
			wantErr: ErrInvalidSlot,
		},
		{
			name: "text discriminant",
			schema: &Conditional{
				Discriminant: Text("Kind", ""),
				Values:       map[string]Schema{"": Empty()},
			},
			wantErr: ErrInvalidDiscriminant,
		},
		{
			name: "missing branch",
			schema: &Conditional{
				Discriminant: Select("Size", sizeOptions(), ""),
				Values:       map[string]Schema{"sm": Empty()},
			},
			wantErr: ErrMissingBranch,
		},
		{
			name: "unexpected branch",
			schema: &Conditional{
				Discriminant: Checkbox("On", false),
				Values:       map[string]Schema{"true": Empty(), "false": Empty(), "maybe": Empty()},
			},
			wantErr: ErrUnexpectedBranch,
		},
		{
			name:    "nested error",
			schema:  NewArray(NewObject(Field{Name: "r", Schema: &Relationship{}})),
			wantErr: ErrMissingListKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.schema)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			var se *SchemaError
			assert.True(t, errors.As(err, &se))
		})
	}
}

func TestRegistryCheck(t *testing.T) {
	reg := Registry{"hero": {Name: "hero", Schema: heroSchema()}}
	assert.NoError(t, reg.Check())

	reg["broken"] = &Block{Schema: NewObject(Field{Name: "r", Schema: &Relationship{}})}
	err := reg.Check()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingListKey)
	assert.Contains(t, err.Error(), "broken.r")

	reg = Registry{"hero": {Name: "banner", Schema: heroSchema()}}
	assert.Error(t, reg.Check())
}

func TestCheckCompatible(t *testing.T) {
	server := Registry{"hero": {Schema: heroSchema()}}
	client := Registry{"hero": {Schema: heroSchema()}}
	assert.NoError(t, CheckCompatible(server, client))

	client["hero"] = &Block{Schema: NewObject(Field{Name: "title", Schema: Text("Title", "")})}
	assert.ErrorIs(t, CheckCompatible(server, client), ErrSchemaMismatch)

	assert.ErrorIs(t, CheckCompatible(server, Registry{}), ErrUnknownComponent)
	assert.ErrorIs(t, CheckCompatible(Registry{}, server), ErrUnknownComponent)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint(heroSchema()), Fingerprint(heroSchema()))
	assert.Len(t, Fingerprint(heroSchema()), 16)
	assert.NotEqual(t, Fingerprint(Text("A", "")), Fingerprint(URL("A", "")))
	assert.NotEqual(t, Fingerprint(BlockChild("")), Fingerprint(InlineChild("")))
}

// ========================================
// Default and Validate Tests
// ========================================

func TestDefaultValueValidates(t *testing.T) {
	hero := heroSchema()
	schemas := map[string]Schema{"hero": hero, "cta": ctaSchema()}
	for _, f := range hero.Fields {
		schemas[f.Name] = f.Schema
	}
	for name, s := range schemas {
		t.Run(name, func(t *testing.T) {
			assert.True(t, Validate(s, DefaultValue(s)))
		})
	}
}

func TestDefaultValue(t *testing.T) {
	v := DefaultValue(heroSchema()).(map[string]any)
	assert.Equal(t, "", v["title"])
	assert.Equal(t, 3, v["count"])
	assert.Equal(t, "sm", v["size"])
	assert.Equal(t, []string{}, v["tags"])
	assert.Equal(t, false, v["featured"])
	assert.Equal(t, []Element{}, v["items"])
	assert.Equal(t, ConditionalValue{Discriminant: false}, v["cta"])
	assert.Nil(t, v["author"])
	assert.Equal(t, []Ref{}, v["related"])
}

func TestValidate(t *testing.T) {
	label := NewObject(Field{Name: "label", Schema: Text("Label", "")})
	tests := []struct {
		name   string
		schema Schema
		value  any
		want   bool
	}{
		{"text", Text("", ""), "hi", true},
		{"text wrong type", Text("", ""), 1, false},
		{"integer from json", Integer("", 0), float64(4), true},
		{"fractional integer", Integer("", 0), 4.5, false},
		{"url relative", URL("", ""), "/about", true},
		{"url bad", URL("", ""), "javascript:alert(1)", false},
		{"select", Select("", sizeOptions(), ""), "lg", true},
		{"select unknown", Select("", sizeOptions(), ""), "xl", false},
		{"multiselect duplicate", Multiselect("", sizeOptions(), nil), []string{"sm", "sm"}, false},
		{"object missing field", label, map[string]any{}, false},
		{"object unknown field", label, map[string]any{"label": "", "extra": 1}, false},
		{"array", NewArray(label), []Element{{Key: "a", Value: map[string]any{"label": "x"}}}, true},
		{"array missing key", NewArray(label), []Element{{Value: map[string]any{"label": "x"}}}, false},
		{"array duplicate key", NewArray(label), []Element{{Key: "a", Value: map[string]any{"label": "x"}}, {Key: "a", Value: map[string]any{"label": "y"}}}, false},
		{"conditional wrong branch value", ctaSchema(), ConditionalValue{Discriminant: true, Value: nil}, false},
		{"conditional", ctaSchema(), ConditionalValue{Discriminant: true, Value: map[string]any{"text": "Buy"}}, true},
		{"relationship", &Relationship{ListKey: "User"}, &Ref{ID: "1"}, true},
		{"relationship empty id", &Relationship{ListKey: "User"}, &Ref{}, false},
		{"child", BlockChild(""), "anything", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.schema, tt.value))
		})
	}
}

func TestFieldProblems(t *testing.T) {
	s := NewObject(
		Field{Name: "title", Schema: &Form{Input: InputText, Label: "Title", Required: true}},
		Field{Name: "href", Schema: URL("Link", "")},
		Field{Name: "author", Schema: &Relationship{ListKey: "User", Label: "Author", Required: true}},
		Field{Name: "related", Schema: &Relationship{ListKey: "Post", Many: true}},
	)
	value := map[string]any{
		"title":   "  ",
		"href":    "not a url",
		"author":  nil,
		"related": []Ref{{ID: "p1"}, {ID: "p2", Missing: true}},
	}

	problems := FieldProblems(s, value)
	require.Len(t, problems, 4)
	assert.Equal(t, []any{"title"}, problems[0].Path)
	assert.Equal(t, "Title is required", problems[0].Message)
	assert.Equal(t, []any{"href"}, problems[1].Path)
	assert.Equal(t, []any{"author"}, problems[2].Path)
	assert.Equal(t, "related: unresolved relationship p2", problems[3].Error())

	value["title"] = "Hello"
	value["href"] = "https://example.com"
	value["author"] = &Ref{ID: "u1"}
	value["related"] = []Ref{}
	assert.Empty(t, FieldProblems(s, value))
}

func TestChildFields(t *testing.T) {
	s := NewObject(
		Field{Name: "title", Schema: InlineChild("Title")},
		Field{Name: "items", Schema: NewArray(NewObject(Field{Name: "body", Schema: BlockChild("Body")}))},
		Field{Name: "aside", Schema: &Conditional{
			Discriminant: Checkbox("Aside", false),
			Values: map[string]Schema{
				"true":  BlockChild("Aside"),
				"false": Empty(),
			},
		}},
	)
	value := map[string]any{
		"title": nil,
		"items": []Element{{Key: "a", Value: map[string]any{"body": nil}}, {Key: "b", Value: map[string]any{"body": nil}}},
		"aside": ConditionalValue{Discriminant: false},
	}

	slots := ChildFields(s, value)
	require.Len(t, slots, 3)
	assert.Equal(t, []any{"title"}, slots[0].Path)
	assert.Equal(t, SlotInline, slots[0].Slot)
	assert.Equal(t, []any{"items", 1, "body"}, slots[2].Path)
	assert.Equal(t, `/"items"/1/"body"`, PathKey(slots[2].Path))

	value["aside"] = ConditionalValue{Discriminant: true}
	slots = ChildFields(s, value)
	require.Len(t, slots, 4)
	assert.Equal(t, []any{"aside", "value"}, slots[3].Path)
	assert.Equal(t, "Aside", slots[3].Placeholder)
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/a", true},
		{"http://localhost:8080", true},
		{"mailto:ada@example.com", true},
		{"tel:+15551234", true},
		{"/relative/path", true},
		{"https://", false},
		{"example.com", false},
		{"javascript:alert(1)", false},
		{"ftp://example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidURL(tt.in))
		})
	}
}

func TestVisitRefs(t *testing.T) {
	author := &Relationship{ListKey: "User"}
	tags := &Relationship{ListKey: "Tag", Many: true}
	s := NewObject(
		Field{Name: "author", Schema: author},
		Field{Name: "tags", Schema: tags},
		Field{Name: "credits", Schema: NewArray(NewObject(Field{Name: "who", Schema: author}))},
		Field{Name: "extra", Schema: &Conditional{
			Discriminant: Checkbox("Extra", false),
			Values: map[string]Schema{
				"true":  author,
				"false": Empty(),
			},
		}},
	)
	value := map[string]any{
		"author":  &Ref{ID: "u1"},
		"tags":    []Ref{{ID: "t1"}, {ID: "t2"}},
		"credits": []Element{{Key: "k1", Value: map[string]any{"who": &Ref{ID: "u2"}}}},
		"extra":   ConditionalValue{Discriminant: true, Value: &Ref{ID: "u3"}},
	}

	var seen []string
	VisitRefs(s, value, func(r *Relationship, ref *Ref) {
		seen = append(seen, r.ListKey+"/"+ref.ID)
		ref.Label = "resolved"
	})
	assert.Equal(t, []string{"User/u1", "Tag/t1", "Tag/t2", "User/u2", "User/u3"}, seen)
	assert.Equal(t, "resolved", value["author"].(*Ref).Label)
	assert.Equal(t, "resolved", value["tags"].([]Ref)[1].Label)

	// inactive branches and nil references are skipped
	value["extra"] = ConditionalValue{Discriminant: false}
	value["author"] = (*Ref)(nil)
	seen = nil
	VisitRefs(s, value, func(r *Relationship, ref *Ref) { seen = append(seen, ref.ID) })
	assert.Equal(t, []string{"t1", "t2", "u2"}, seen)
}
