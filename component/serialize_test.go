package component

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heroValue() map[string]any {
	v := DefaultValue(heroSchema()).(map[string]any)
	v["title"] = "Launch"
	v["count"] = 7
	v["href"] = "https://example.com/launch"
	v["size"] = "lg"
	v["tags"] = []string{"b"}
	v["featured"] = true
	v["items"] = []Element{
		{Key: NewKey(), Value: map[string]any{"label": "one"}},
		{Key: NewKey(), Value: map[string]any{"label": "two"}},
	}
	v["cta"] = ConditionalValue{Discriminant: true, Value: map[string]any{"text": "Buy"}}
	v["author"] = &Ref{ID: "u1", Label: "Ada"}
	v["related"] = []Ref{{ID: "p1"}, {ID: "p2"}}
	return v
}

// ========================================
// Serialize Tests
// ========================================

func TestSerializeSingleRelationship(t *testing.T) {
	s := heroSchema()
	v := heroValue()

	out, ok := Serialize(s, v, Update)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"connect": map[string]any{"id": "u1"}}, out.(map[string]any)["author"])

	v["author"] = nil
	out, _ = Serialize(s, v, Update)
	assert.Equal(t, map[string]any{"disconnect": true}, out.(map[string]any)["author"])

	out, _ = Serialize(s, v, Create)
	assert.NotContains(t, out.(map[string]any), "author")
}

func TestSerializeManyRelationship(t *testing.T) {
	s := heroSchema()
	v := heroValue()
	refs := []any{map[string]any{"id": "p1"}, map[string]any{"id": "p2"}}

	out, _ := Serialize(s, v, Create)
	assert.Equal(t, map[string]any{"connect": refs}, out.(map[string]any)["related"])

	out, _ = Serialize(s, v, Update)
	assert.Equal(t, map[string]any{"set": refs}, out.(map[string]any)["related"])
}

func TestSerializeConditionalActiveBranchOnly(t *testing.T) {
	s := ctaSchema()

	out, _ := Serialize(s, ConditionalValue{Discriminant: true, Value: map[string]any{"text": "Buy"}}, Update)
	assert.Equal(t, map[string]any{"true": map[string]any{"text": "Buy"}}, out)

	// the inactive branch's old value is never written
	out, _ = Serialize(s, ConditionalValue{Discriminant: false, Value: map[string]any{"text": "Buy"}}, Update)
	assert.Equal(t, map[string]any{"false": nil}, out)

	// a branch value left over from another discriminant falls back to the default
	out, _ = Serialize(s, ConditionalValue{Discriminant: true, Value: nil}, Create)
	assert.Equal(t, map[string]any{"true": map[string]any{"text": "Go"}}, out)
}

func TestSerializeInvalidForm(t *testing.T) {
	tests := []struct {
		name   string
		schema *Form
		value  any
		want   any
	}{
		{"empty drops its value", Empty(), "junk", nil},
		{"unknown option", Select("Size", sizeOptions(), ""), "xl", "sm"},
		{"text of wrong type", Text("Title", "Untitled"), 42, "Untitled"},
		{"bad url", URL("Link", ""), "javascript:alert(1)", ""},
		{"checkbox", Checkbox("On", true), "yes", true},
		{"valid text kept", Text("Title", "Untitled"), "Hi", "Hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := Serialize(tt.schema, tt.value, Create)
			require.True(t, ok)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSerializeOmitsChildFields(t *testing.T) {
	out, _ := Serialize(heroSchema(), heroValue(), Create)
	assert.NotContains(t, out.(map[string]any), "content")
}

// ========================================
// Round Trip Tests
// ========================================

func TestRoundTrip(t *testing.T) {
	s := heroSchema()
	values := map[string]map[string]any{
		"default": DefaultValue(s).(map[string]any),
		"filled":  heroValue(),
	}
	for name, v := range values {
		t.Run(name, func(t *testing.T) {
			out, _ := Serialize(s, v, Update)
			back, err := Deserialize(s, out)
			require.NoError(t, err)
			assert.True(t, Equal(s, v, back), "got %#v", back)
			assert.True(t, Validate(s, back))
		})
	}
}

func TestRoundTripJSON(t *testing.T) {
	s := heroSchema()
	v := heroValue()

	out, _ := Serialize(s, v, Update)
	data, err := json.Marshal(out)
	require.NoError(t, err)

	var persisted any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&persisted))

	back, err := Deserialize(s, persisted)
	require.NoError(t, err)
	assert.True(t, Equal(s, v, back))
	assert.Equal(t, 7, back.(map[string]any)["count"])
}

func TestToPropsRoundTrip(t *testing.T) {
	s := heroSchema()
	v := heroValue()

	props := ToProps(s, v)
	cta := props.(map[string]any)["cta"].(map[string]any)
	assert.Equal(t, true, cta["discriminant"])
	assert.Equal(t, map[string]any{"id": "u1", "label": "Ada"}, props.(map[string]any)["author"])

	back, err := Deserialize(s, props)
	require.NoError(t, err)
	assert.True(t, Equal(s, v, back))
	assert.Equal(t, "Ada", back.(map[string]any)["author"].(*Ref).Label)
}

func TestDeserializeErrors(t *testing.T) {
	s := heroSchema()
	tests := []struct {
		name      string
		persisted any
	}{
		{"not an object", []any{}},
		{"missing field", map[string]any{"title": "x"}},
		{"bad select", func() any {
			out, _ := Serialize(s, heroValue(), Update)
			out.(map[string]any)["size"] = "xl"
			return out
		}()},
		{"two branches", func() any {
			out, _ := Serialize(s, heroValue(), Update)
			out.(map[string]any)["cta"] = map[string]any{"true": nil, "false": nil}
			return out
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize(s, tt.persisted)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrShape)
		})
	}
}

func TestDeserializeMissingRelationshipDefaults(t *testing.T) {
	s := NewObject(
		Field{Name: "title", Schema: Text("", "")},
		Field{Name: "author", Schema: &Relationship{ListKey: "User"}},
		Field{Name: "related", Schema: &Relationship{ListKey: "Post", Many: true}},
	)
	// created without a relationship, the key is omitted
	back, err := Deserialize(s, map[string]any{"title": "x"})
	require.NoError(t, err)
	m := back.(map[string]any)
	assert.Nil(t, m["author"])
	assert.Equal(t, []Ref{}, m["related"])
}

func TestEqualIgnoresKeysAndLabels(t *testing.T) {
	s := heroSchema()
	a := heroValue()
	b := heroValue()
	b["author"] = &Ref{ID: "u1", Label: "Someone else"}
	assert.True(t, Equal(s, a, b))

	b["items"] = []Element{{Key: "x", Value: map[string]any{"label": "two"}}, {Key: "y", Value: map[string]any{"label": "one"}}}
	assert.False(t, Equal(s, a, b))
}
