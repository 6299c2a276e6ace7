// Package component implements the schema engine for component blocks:
// structured values embedded in a blockdoc document.
//
// A component's fields are described by a Schema tree built from six kinds:
// form, object, array, conditional, relationship and child. Schemas are plain
// data. The package functions switch on the variant:
//
//	hero := component.NewObject(
//		component.Field{Name: "title", Schema: component.Text("Title", "")},
//		component.Field{Name: "content", Schema: component.BlockChild("Write here")},
//	)
//	if err := component.Check(hero); err != nil {
//		// configuration error: do not create the editor
//	}
//	v := component.DefaultValue(hero)
//	payload, _ := component.Serialize(hero, v, component.Create)
//
// Child fields are content slots whose value lives in the document tree; they
// never validate or serialize here.
//
// A Projector turns a schema and value into a Props tree whose bindings
// rebuild the root value copy-on-write. Bindings and props are memoized so
// an edit only rebuilds the props from the root to the edited field.
package component
