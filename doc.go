/*
Package blockdoc is the core of a structured document editor: a tree-shaped
rich-text model with a declarative node schema, an automatic tree repair
algorithm, and an ordered pipeline of editing behaviors.

Schema-typed component blocks embedded in documents live in the component
subpackage.

# Quick Start

Parse a persisted document:

	input := `[{"type":"paragraph","children":[{"text":"Hello","bold":true}]}]`
	doc, err := blockdoc.DecodeString(input)
	if err != nil {
		log.Fatal(err)
	}

Edit it:

	ed, err := blockdoc.NewEditor(doc, blockdoc.AllFeatures())
	if err != nil {
		log.Fatal(err)
	}
	ed.Apply(blockdoc.InsertText{Text: " world"})
	ed.Apply(blockdoc.ToggleList{Type: blockdoc.TypeUnorderedList})
	out, _ := blockdoc.EncodeString(ed.Document())

# Core Types

  - Document: the ordered top-level nodes of a persisted document
  - Node: a text leaf (Type == "") or a typed element with children
  - Registry: container kind, allowed children and repair policy per type
  - Normalizer: repairs a tree until it satisfies its Registry
  - Editor: a tree, its Selection and the Behavior pipeline
  - Features: the capabilities enabled for a document field

Unknown fields are preserved in Raw maps and re-emitted on encode.

# Normalization

Every edit is followed by normalization. Repairs are applied one at a time,
bottom-up, until a full pass finds nothing to fix:

  - a blocks container holding only inlines is wrapped in its default block
  - a child the container does not allow is unwrapped or moved, depending on
    the child's own policy
  - unknown element types are unwrapped
  - adjacent text leaves with equal marks merge
  - the root always ends with a paragraph

Normalize and Validate run the same repairs on a detached document:

	fixed, err := blockdoc.Normalize(doc, features)
	for _, err := range blockdoc.Validate(doc, features) {
		fmt.Println(err)
	}

# Behaviors

Behaviors extend the schema and intercept commands. They are applied in a
fixed order; the last one sees each command first and passes it inward with
Next.Do. DefaultBehaviors lists the standard pipeline.

# Features

	features, err := blockdoc.LoadFeatures("features.yaml")

Commands exercising a disabled capability fail with ErrFeatureDisabled, and
normalization strips disabled marks and blocks from loaded documents.

# Toolbar

	state := ed.ToolbarState()
	if !state.Marks[blockdoc.MarkBold].IsDisabled { ... }

# Relationships

Relationship nodes carry an id; display data is resolved through a Lookup,
either per node with a RelationshipLoader or for a whole document with
Hydrate. Results for removed or changed nodes are discarded.

# Error Handling

Errors include path information:

	doc, err := blockdoc.Decode(reader)
	if err != nil {
		var bErr *blockdoc.Error
		if errors.As(err, &bErr) {
			fmt.Printf("Error at %s: %v\n", bErr.Path, bErr.Err)
		}
	}

# Thread Safety

Documents are safe for concurrent reads. An Editor is single-threaded.
Hydrate and RelationshipLoader fetches may run on other goroutines; their
results are applied by the caller.
*/
package blockdoc
