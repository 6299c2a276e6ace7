package blockdoc

import (
	"errors"
	"testing"

	"github.com/derickschaefer/blockdoc/component"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationErrors(t *testing.T, errs []error) []*ValidationError {
	t.Helper()
	out := make([]*ValidationError, 0, len(errs))
	for _, err := range errs {
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr), "unexpected error %v", err)
		out = append(out, vErr)
	}
	return out
}

func TestValidateValidDocument(t *testing.T) {
	doc := Document{
		NewHeading(1, "Title"),
		el(TypeUnorderedList, item("a"), item("b")),
		para("end"),
	}
	assert.Empty(t, Validate(doc, nil))
}

func TestValidateReportsRepairs(t *testing.T) {
	doc := Document{el(TypeParagraph, txt("a"), el("mystery", txt("b")), txt("c"))}
	before := doc.Clone()

	errs := validationErrors(t, Validate(doc, nil))
	require.Len(t, errs, 3)
	assert.Equal(t, "[0].children[1]", errs[0].Path)
	assert.Equal(t, "mystery: unwrap unknown", errs[0].Message)
	assert.Equal(t, "[0].children[1]: mystery: unwrap unknown", errs[0].Error())
	assert.Equal(t, "[0]", errs[1].Path)
	assert.Equal(t, "paragraph: merge text", errs[1].Message)

	if diff := cmp.Diff(before, doc); diff != "" {
		t.Errorf("Validate modified its input (-want +got):\n%s", diff)
	}
}

func TestValidateFeatureRepairs(t *testing.T) {
	f := AllFeatures()
	f.Dividers = false
	doc := Document{para("a"), el(TypeDivider, txt("")), para("b")}

	errs := validationErrors(t, Validate(doc, f))
	require.Len(t, errs, 1)
	assert.Equal(t, "[1]", errs[0].Path)
	assert.Contains(t, errs[0].Message, "divider: ")
}

func cardComponents() component.Registry {
	return component.Registry{
		"card": {
			Name:  "card",
			Label: "Card",
			Schema: component.NewObject(
				component.Field{Name: "title", Schema: &component.Form{Input: component.InputText, Label: "Title", Required: true}},
				component.Field{Name: "href", Schema: component.URL("Link", "")},
			),
		},
	}
}

func cardBlock(props map[string]any) *Node {
	n := el(TypeComponentBlock)
	n.Component = "card"
	n.Props = props
	return n
}

func TestValidateComponentProps(t *testing.T) {
	doc := Document{cardBlock(map[string]any{"title": " ", "href": "https://example.com"}), para("")}

	errs := validationErrors(t, Validate(doc, nil, WithComponents(cardComponents())))
	require.Len(t, errs, 1)
	assert.Equal(t, "[0].props.title", errs[0].Path)
	assert.Equal(t, "Title is required", errs[0].Message)
	require.NotNil(t, errs[0].Node)
	assert.Equal(t, "card", errs[0].Node.Component)
}

func TestValidateInvalidComponentProps(t *testing.T) {
	doc := Document{cardBlock(map[string]any{"title": "Hi", "href": "not a url"}), para("")}

	// unreadable props are reset to defaults, which leaves the title blank
	errs := validationErrors(t, Validate(doc, nil, WithComponents(cardComponents())))
	require.Len(t, errs, 2)
	assert.Equal(t, "[0]", errs[0].Path)
	assert.Equal(t, string(TypeComponentBlock)+": component children", errs[0].Message)
	assert.Nil(t, errs[0].Node)
	assert.Equal(t, "[0].props.title", errs[1].Path)
	assert.Equal(t, "Title is required", errs[1].Message)
}

func TestValidateConfigError(t *testing.T) {
	f := AllFeatures()
	f.Formatting.HeadingLevels = []int{7}

	errs := Validate(Document{para("a")}, f)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInvalidFeatures)
}

func TestNormalizeFunction(t *testing.T) {
	doc := Document{txt("loose")}
	out, err := Normalize(doc, nil)
	require.NoError(t, err)
	assertDocEqual(t, Document{para("loose")}, out)
	assert.True(t, doc[0].IsText())

	_, err = Normalize(doc, &Features{Formatting: Formatting{HeadingLevels: []int{0}}})
	assert.ErrorIs(t, err, ErrInvalidFeatures)
}

func TestDocPath(t *testing.T) {
	assert.Equal(t, "", docPath(nil))
	assert.Equal(t, "[3]", docPath(Path{3}))
	assert.Equal(t, "[3].children[1].children[0]", docPath(Path{3, 1, 0}))
	assert.Equal(t, ".items[2].title", propsPath([]any{"items", 2, "title"}))
}
