package render

import (
	"strconv"

	"github.com/goliatone/go-entityform/pkg/formstate"
	"github.com/goliatone/go-entityform/pkg/schema"
)

// Widget is the control family a renderer uses for a field.
type Widget string

const (
	WidgetText    Widget = "text"
	WidgetNumeric Widget = "numeric"
	WidgetToggle  Widget = "toggle"
	WidgetChoice  Widget = "choice"
	WidgetGroup   Widget = "group"
	WidgetList    Widget = "list"
)

// WidgetFor maps a schema node to its widget. Objects with properties become
// groups; objects without properties have nothing to edit and fall back to
// text like any unknown node.
func WidgetFor(node *schema.Node) Widget {
	switch {
	case node == nil:
		return WidgetText
	case node.Is(schema.TypeObject) && node.Properties != nil && node.Properties.Len() > 0:
		return WidgetGroup
	case node.Is(schema.TypeArray):
		return WidgetList
	case node.Is(schema.TypeBoolean):
		return WidgetToggle
	case node.HasEnum():
		return WidgetChoice
	case node.Is(schema.TypeInteger), node.Is(schema.TypeNumber):
		return WidgetNumeric
	default:
		return WidgetText
	}
}

// Field is one editable node: its schema, the value found at its path in the
// snapshot it was derived from, and operations bound to that snapshot. Each
// operation returns a new snapshot; the Field itself is never updated, so
// callers walk again after applying a change.
type Field struct {
	// Name is the property name; empty for list elements.
	Name     string
	Label    string
	Path     formstate.Path
	Schema   *schema.Node
	Value    formstate.Value
	Present  bool
	Required bool
	Widget   Widget

	tree formstate.Value
}

// Snapshot returns the value tree the field was derived from.
func (f Field) Snapshot() formstate.Value {
	return f.tree
}

// Set returns the snapshot with v stored at the field's path.
func (f Field) Set(v formstate.Value) formstate.Value {
	return formstate.SetValue(f.tree, f.Path, v)
}

// Add appends a default element to a list field. A list that is absent or
// nil in the snapshot is started with the single new element; any other
// non-sequence value is left alone.
func (f Field) Add() formstate.Value {
	if f.Widget != WidgetList {
		return f.tree
	}
	item := f.Schema.ItemSchema()
	if !f.Present || f.Value == nil {
		return formstate.SetValue(f.tree, f.Path, []any{formstate.DefaultFor(item)})
	}
	return formstate.AddArrayItem(f.tree, f.Path, item)
}

// Remove deletes element i of a list field.
func (f Field) Remove(i int) formstate.Value {
	if f.Widget != WidgetList {
		return f.tree
	}
	return formstate.RemoveArrayItem(f.tree, f.Path, i)
}

// Unset removes the field's key from the snapshot.
func (f Field) Unset() formstate.Value {
	return formstate.Unset(f.tree, f.Path)
}

// Len reports the number of elements of a list field's value.
func (f Field) Len() int {
	list, _ := f.Value.([]any)
	return len(list)
}

// Walk returns the direct child fields of the object node found at path in
// tree, in property order. Non-object nodes and objects without properties
// yield no fields.
func Walk(node *schema.Node, tree formstate.Value, path formstate.Path) []Field {
	names := node.PropertyNames()
	if !node.Is(schema.TypeObject) || len(names) == 0 {
		return nil
	}
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		child, _ := node.Property(name)
		childPath := path.Key(name)
		value, present := formstate.GetValue(tree, childPath)
		fields = append(fields, Field{
			Name:     name,
			Label:    Label(name),
			Path:     childPath,
			Schema:   child,
			Value:    value,
			Present:  present,
			Required: node.IsRequired(name),
			Widget:   WidgetFor(child),
			tree:     tree,
		})
	}
	return fields
}

// Children returns the nested fields of a group field.
func Children(f Field) []Field {
	if f.Widget != WidgetGroup {
		return nil
	}
	return Walk(f.Schema, f.tree, f.Path)
}

// Items returns one field per element of a list field. Lists without an item
// schema hold opaque scalars and are edited as text.
func Items(f Field) []Field {
	if f.Widget != WidgetList {
		return nil
	}
	list, ok := f.Value.([]any)
	if !ok {
		return nil
	}
	item := f.Schema.ItemSchema()
	widget := WidgetText
	if item != nil {
		widget = WidgetFor(item)
	}
	out := make([]Field, 0, len(list))
	for i, value := range list {
		out = append(out, Field{
			Label:   f.Label + " #" + strconv.Itoa(i+1),
			Path:    f.Path.Index(i),
			Schema:  item,
			Value:   value,
			Present: true,
			Widget:  widget,
			tree:    f.tree,
		})
	}
	return out
}

// FieldAt resolves the field at path under root, bound to tree. It reports
// false when path leaves the schema: an unknown property, an index into a
// non-list, or a step below a schemaless list element.
func FieldAt(root *schema.Node, tree formstate.Value, path formstate.Path) (Field, bool) {
	if len(path) == 0 {
		return Field{}, false
	}
	node := root
	var (
		name     string
		label    string
		required bool
	)
	for _, seg := range path {
		if node == nil {
			return Field{}, false
		}
		if seg.Indexed {
			if !node.Is(schema.TypeArray) {
				return Field{}, false
			}
			node = node.ItemSchema()
			name, required = "", false
			label = label + " #" + strconv.Itoa(seg.Index+1)
			continue
		}
		child, ok := node.Property(seg.Name)
		if !ok || !node.Is(schema.TypeObject) {
			return Field{}, false
		}
		name, label, required = seg.Name, Label(seg.Name), node.IsRequired(seg.Name)
		node = child
	}
	value, present := formstate.GetValue(tree, path)
	return Field{
		Name:     name,
		Label:    label,
		Path:     path,
		Schema:   node,
		Value:    value,
		Present:  present,
		Required: required,
		Widget:   WidgetFor(node),
		tree:     tree,
	}, true
}
