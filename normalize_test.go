package blockdoc

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalized(t *testing.T, doc Document) Document {
	t.Helper()
	out, err := Normalize(doc, nil)
	require.NoError(t, err)
	return out
}

func assertDocEqual(t *testing.T, want, got Document) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

// ========================================
// Container Repairs
// ========================================

func TestNormalizeRepairs(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want Document
	}{
		{
			name: "empty document",
			doc:  Document{},
			want: Document{para("")},
		},
		{
			name: "block inside paragraph moves out",
			doc:  Document{el(TypeParagraph, txt("ab"), el(TypeDivider, txt("")))},
			want: Document{para("ab"), el(TypeDivider, txt("")), para("")},
		},
		{
			name: "root emptied by unwrapping gets a paragraph",
			doc:  Document{el(TypeLayoutArea)},
			want: Document{para("")},
		},
		{
			name: "root holding only an unknown element gets a paragraph",
			doc:  Document{el("mystery")},
			want: Document{para("")},
		},
		{
			name: "empty blockquote stays empty",
			doc:  Document{el(TypeBlockquote)},
			want: Document{el(TypeBlockquote), para("")},
		},
		{
			name: "inlines at root are wrapped",
			doc:  Document{txt("a"), txt("b", MarkBold)},
			want: Document{el(TypeParagraph, txt("a"), txt("b", MarkBold))},
		},
		{
			name: "stray inline between blocks",
			doc:  Document{para("a"), txt("b")},
			want: Document{para("a"), para("b")},
		},
		{
			name: "unknown block is unwrapped",
			doc:  Document{el("mystery", para("x"))},
			want: Document{para("x")},
		},
		{
			name: "unknown inline is unwrapped",
			doc:  Document{el(TypeParagraph, txt("a"), el("span", txt("b")))},
			want: Document{para("ab")},
		},
		{
			name: "empty text block gets a leaf",
			doc:  Document{el(TypeParagraph)},
			want: Document{para("")},
		},
		{
			name: "inline elements get text borders",
			doc:  Document{el(TypeParagraph, NewLink("https://x.io", txt("a")))},
			want: Document{el(TypeParagraph, txt(""), NewLink("https://x.io", txt("a")), txt(""))},
		},
		{
			name: "adjacent equal leaves merge",
			doc:  Document{el(TypeParagraph, txt("a", MarkBold), txt("b", MarkBold), txt(""), txt("c"))},
			want: Document{el(TypeParagraph, txt("ab", MarkBold), txt("c"))},
		},
		{
			name: "heading inside list item becomes content",
			doc:  Document{el(TypeUnorderedList, el(TypeListItem, NewHeading(2, "a")))},
			want: Document{el(TypeUnorderedList, item("a")), para("")},
		},
		{
			name: "paragraph inside list becomes item",
			doc:  Document{el(TypeOrderedList, para("a"))},
			want: Document{el(TypeOrderedList, item("a")), para("")},
		},
		{
			name: "void children reset",
			doc:  Document{el(TypeDivider, txt("x", MarkBold)), para("")},
			want: Document{el(TypeDivider, txt("")), para("")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDocEqual(t, tt.want, normalized(t, tt.doc))
		})
	}
}

// ========================================
// Behavior Rules
// ========================================

func TestNormalizeBehaviorRules(t *testing.T) {
	h := func(level int) *Node { return NewHeading(level, "h") }

	tests := []struct {
		name string
		doc  Document
		want Document
	}{
		{
			name: "heading level clamped high",
			doc:  Document{h(9)},
			want: Document{h(6), para("")},
		},
		{
			name: "heading level clamped low",
			doc:  Document{h(0)},
			want: Document{h(1), para("")},
		},
		{
			name: "adjacent lists of one type merge",
			doc:  Document{el(TypeUnorderedList, item("a")), el(TypeUnorderedList, item("b"))},
			want: Document{el(TypeUnorderedList, item("a"), item("b")), para("")},
		},
		{
			name: "adjacent lists of different types stay",
			doc:  Document{el(TypeUnorderedList, item("a")), el(TypeOrderedList, item("b"))},
			want: Document{el(TypeUnorderedList, item("a")), el(TypeOrderedList, item("b")), para("")},
		},
		{
			name: "code is plain text",
			doc:  Document{el(TypeCode, txt("a", MarkBold), NewLink("https://x.io", txt("b")))},
			want: Document{el(TypeCode, txt("ab")), para("")},
		},
		{
			name: "link without href is unwrapped",
			doc:  Document{el(TypeParagraph, txt("a"), NewLink("", txt("b")), txt("c"))},
			want: Document{para("abc")},
		},
		{
			name: "nested link is unwrapped",
			doc: Document{el(TypeParagraph, txt(""),
				NewLink("https://a.io", txt("x"), NewLink("https://b.io", txt("y")), txt("")),
				txt(""))},
			want: Document{el(TypeParagraph, txt(""), NewLink("https://a.io", txt("xy")), txt(""))},
		},
		{
			name: "layout areas follow ratios",
			doc:  Document{layoutOf([]int{1, 1}, el(TypeLayoutArea, para("a")))},
			want: Document{layoutOf([]int{1, 1}, el(TypeLayoutArea, para("a")), el(TypeLayoutArea, para(""))), para("")},
		},
		{
			name: "insert menu mark needs slash",
			doc:  Document{para("x", MarkInsertMenu)},
			want: Document{para("x")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDocEqual(t, tt.want, normalized(t, tt.doc))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	doc := decode(t, `[
		{"type":"heading","level":2,"children":[{"text":"Title"}]},
		{"type":"paragraph","children":[{"text":"a"},{"text":"b","bold":true},{"type":"link","href":"https://x.io","children":[{"text":"c"}]}]},
		{"type":"unordered-list","children":[{"type":"list-item","children":[{"type":"list-item-content","children":[{"text":"i"}]}]}]},
		{"type":"divider","children":[{"text":""}]}
	]`)
	once := normalized(t, doc)
	twice := normalized(t, once)
	assertDocEqual(t, once, twice)

	e := newEditor(t, once)
	n, err := e.Normalize()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNormalizeEmptiedRoot(t *testing.T) {
	for _, doc := range []Document{
		{el(TypeLayoutArea)},
		{el(TypeListItem)},
		{el("mystery", el("other"))},
	} {
		once := normalized(t, doc)
		assertDocEqual(t, Document{para("")}, once)
		assertDocEqual(t, once, normalized(t, once))

		e := newEditor(t, doc)
		require.NotNil(t, e.Selection())
		apply(t, e, InsertText{Text: "x"})
		assertDoc(t, e, para("x"))
	}
}

func TestNormalizeDoesNotModifyInput(t *testing.T) {
	doc := Document{el(TypeParagraph, txt("a"), txt("b"))}
	_ = normalized(t, doc)
	assert.Len(t, doc[0].Children, 2)
}

// ========================================
// Normalizer
// ========================================

func TestNormalizerRepairObserver(t *testing.T) {
	var repairs []Repair
	nz := NewNormalizer(DefaultRegistry(), WithRepairObserver(func(r Repair) {
		repairs = append(repairs, r)
	}))
	root := Document{el(TypeParagraph, txt("a"), txt("b"))}.Root()

	n, err := nz.Normalize(root)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []Repair{{Rule: "merge-text", Path: Path{0}, Type: TypeParagraph}}, repairs)
	assert.Equal(t, "ab", root.Children[0].PlainText())
}

func TestNormalizerMaxIterations(t *testing.T) {
	nz := NewNormalizer(DefaultRegistry(), WithMaxIterations(1))

	_, err := nz.Normalize(Document{para("ok")}.Root())
	assert.NoError(t, err)

	_, err = nz.Normalize(Document{txt("a")}.Root())
	assert.ErrorIs(t, err, ErrNoFixedPoint)
}

func TestNormalizerNonConvergingRule(t *testing.T) {
	reg := DefaultRegistry()
	reg.AddRule(Rule{
		Name: "flip",
		Fix: func(nz *Normalizer, root *Node, path Path, n *Node) bool {
			if n.Type != TypeParagraph {
				return false
			}
			if n.TextAlign == AlignCenter {
				n.TextAlign = AlignStart
			} else {
				n.TextAlign = AlignCenter
			}
			return true
		},
	})

	var repairs int
	nz := NewNormalizer(reg, WithMaxIterations(10), WithRepairObserver(func(Repair) { repairs++ }))
	n, err := nz.Normalize(NewDocument().Root())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoFixedPoint)
	var bErr *Error
	require.True(t, errors.As(err, &bErr))
	assert.Equal(t, "normalize", bErr.Op)
	assert.Equal(t, 10, n)
	assert.Equal(t, 10, repairs)
}

func TestNormalizerRootOnlyUnknown(t *testing.T) {
	nz := NewNormalizer(DefaultRegistry())
	root := &Node{Type: "custom-root", Children: []*Node{para("a")}}
	n, err := nz.Normalize(root)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEditorNormalizeErrorIsReturned(t *testing.T) {
	_, err := NewEditor(Document{para("a")}, nil, WithNormalizeOptions(WithMaxIterations(1)))
	assert.NoError(t, err)

	_, err = NewEditor(Document{txt("a")}, nil, WithNormalizeOptions(WithMaxIterations(1)))
	assert.ErrorIs(t, err, ErrNoFixedPoint)
}
