package blockdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryIsConsistent(t *testing.T) {
	require.NoError(t, DefaultRegistry().Check())

	e := newEditor(t, nil)
	require.NoError(t, e.Registry().Check())
}

func TestRegistryCheck(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Registry)
		errMsg string
	}{
		{
			name:   "unregistered child",
			modify: func(r *Registry) { r.SetSpec("gallery", blocks(PolicyMove, "photo")) },
			errMsg: "allows unregistered photo",
		},
		{
			name: "no allowed children",
			modify: func(r *Registry) {
				r.SetSpec("gallery", NodeSpec{Kind: KindBlocks})
			},
			errMsg: "gallery allows no children",
		},
		{
			name: "default block not allowed",
			modify: func(r *Registry) {
				r.SetSpec("gallery", NodeSpec{
					Kind:         KindBlocks,
					Allowed:      map[NodeType]bool{TypeParagraph: true},
					DefaultBlock: TypeHeading,
				})
			},
			errMsg: `default block "heading" is not allowed`,
		},
		{
			name: "default blocks cycle",
			modify: func(r *Registry) {
				r.SetSpec("aa", blocks(PolicyMove, "bb"))
				r.SetSpec("bb", blocks(PolicyMove, "aa"))
			},
			errMsg: "never reach an inlines container",
		},
		{
			name:   "inline child of blocks container",
			modify: func(r *Registry) { r.RegisterInline(TypeBlockquote) },
			errMsg: "allows inline blockquote",
		},
		{
			name: "inline blocks container",
			modify: func(r *Registry) {
				r.SetSpec("figure", blocks(PolicyMove, TypeParagraph))
				r.RegisterInline("figure")
			},
			errMsg: "inline figure cannot hold blocks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRegistry()
			tt.modify(r)
			err := r.Check()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRegistry)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRegistryClone(t *testing.T) {
	r := DefaultRegistry()
	r.RegisterVoid(TypeDivider)
	c := r.Clone()

	c.RegisterInline("mention")
	c.AddRule(Rule{Name: "noop", Fix: func(*Normalizer, *Node, Path, *Node) bool { return false }})
	spec, _ := c.Classify(TypeBlockquote)
	spec.Allowed[TypeLayout] = true

	assert.True(t, c.IsVoidType(TypeDivider))
	assert.False(t, r.IsInlineType("mention"))
	assert.Empty(t, r.Rules())
	orig, _ := r.Classify(TypeBlockquote)
	assert.False(t, orig.Allowed[TypeLayout])
}

func TestRegistryClassification(t *testing.T) {
	reg := newEditor(t, nil).Registry()

	assert.True(t, reg.IsInlineType(TypeLink))
	assert.True(t, reg.IsInlineType(TypeRelationship))
	assert.False(t, reg.IsInlineType(TypeParagraph))

	assert.True(t, reg.IsVoidType(TypeDivider))
	assert.True(t, reg.IsVoidType(TypeRelationship))
	assert.False(t, reg.IsVoidType(TypeLink))

	assert.True(t, reg.IsBlock(para("a")))
	assert.False(t, reg.IsBlock(txt("a")))
	assert.False(t, reg.IsBlock(NewLink("https://x.io")))
	assert.False(t, reg.IsBlock(el("mystery")))

	assert.True(t, reg.IsInline(txt("a")))
	assert.True(t, reg.IsInline(NewLink("https://x.io")))
	assert.False(t, reg.IsInline(para("a")))

	spec, ok := reg.Classify(TypeListItem)
	require.True(t, ok)
	assert.Equal(t, KindBlocks, spec.Kind)
	assert.Equal(t, TypeListItemContent, spec.DefaultBlock)
	assert.Equal(t, "blocks", spec.Kind.String())

	spec, ok = reg.Classify(TypeCode)
	require.True(t, ok)
	assert.Equal(t, KindInlines, spec.Kind)
	assert.Equal(t, PolicyMove, spec.OnInvalid)

	_, ok = reg.Classify("mystery")
	assert.False(t, ok)
}

func TestEditorsDoNotShareRegistry(t *testing.T) {
	a := newEditor(t, nil)
	b := newEditor(t, nil)
	a.Registry().RegisterInline("mention")
	assert.False(t, b.Registry().IsInlineType("mention"))
	assert.False(t, DefaultRegistry().IsInlineType("mention"))
}
