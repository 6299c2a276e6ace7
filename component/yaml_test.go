package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const heroYAML = `
blocks:
  hero:
    label: Hero
    fields:
      - name: title
        input: text
        label: Title
        required: true
      - name: size
        kind: form
        input: select
        options:
          - {label: Small, value: sm}
          - {label: Large, value: lg}
        default: lg
      - name: tags
        input: multiselect
        options:
          - {label: A, value: a}
        default: [a]
      - name: items
        kind: array
        element:
          kind: object
          fields:
            - {name: label, input: text}
      - name: cta
        kind: conditional
        discriminant: {input: checkbox, label: Show, default: false}
        values:
          "true":
            kind: object
            fields:
              - {name: text, input: text, default: Go}
          "false": {input: empty}
      - name: author
        kind: relationship
        listKey: User
        selection: id name
      - name: content
        kind: child
        slot: block
        placeholder: Write here
  quote:
    label: Quote
    chromeless: true
    fields:
      - {name: content, kind: child, slot: inline}
`

func TestParseRegistry(t *testing.T) {
	reg, err := ParseRegistry([]byte(heroYAML))
	require.NoError(t, err)
	require.Len(t, reg, 2)

	hero, ok := reg.Lookup("hero")
	require.True(t, ok)
	assert.Equal(t, "hero", hero.Name)
	assert.Len(t, hero.Schema.Fields, 7)

	size, _ := hero.Schema.Field("size")
	assert.Equal(t, "lg", DefaultValue(size))
	tags, _ := hero.Schema.Field("tags")
	assert.Equal(t, []string{"a"}, DefaultValue(tags))
	author, _ := hero.Schema.Field("author")
	assert.Equal(t, "id name", author.(*Relationship).Selection)

	v := DefaultValue(hero.Schema)
	assert.True(t, Validate(hero.Schema, v))
	assert.Len(t, ChildFields(hero.Schema, v), 1)

	quote, _ := reg.Lookup("quote")
	assert.True(t, quote.ChromeLess)
}

func TestParseRegistryErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name: "missing branch",
			input: `
blocks:
  b:
    fields:
      - name: c
        kind: conditional
        discriminant: {input: checkbox}
        values:
          "true": {input: empty}
`,
			wantErr: ErrMissingBranch,
		},
		{
			name: "array without element",
			input: `
blocks:
  b:
    fields:
      - {name: list, kind: array}
`,
			wantErr: ErrNilSchema,
		},
		{
			name: "bad input",
			input: `
blocks:
  b:
    fields:
      - {name: x, input: color}
`,
			wantErr: ErrUnknownInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := ParseRegistry([]byte("blocks: [1, 2]"))
	assert.Error(t, err)
}
