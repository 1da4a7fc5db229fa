package schema

import orderedmap "github.com/wk8/go-ordered-map/v2"

// Property pairs a name with its schema for the Object builder.
type Property struct {
	Name   string
	Schema *Node
}

// Prop is shorthand for a Property literal.
func Prop(name string, node *Node) Property {
	return Property{Name: name, Schema: node}
}

// Object builds an object node whose properties keep the given order.
func Object(props ...Property) *Node {
	node := &Node{Type: TypeObject}
	if len(props) == 0 {
		return node
	}
	node.Properties = orderedmap.New[string, *Node](len(props))
	for _, prop := range props {
		node.Properties.Set(prop.Name, prop.Schema)
	}
	return node
}

// Array builds an array node with the given item schema (may be nil).
func Array(items *Node) *Node {
	return &Node{Type: TypeArray, Items: items}
}

// Scalar builds a leaf node of the given type.
func Scalar(t Type) *Node {
	return &Node{Type: t}
}

// WithRequired sets the required names and returns the node.
func (n *Node) WithRequired(names ...string) *Node {
	n.Required = append([]string(nil), names...)
	return n
}

// WithEnum sets the allowed values and returns the node.
func (n *Node) WithEnum(values ...string) *Node {
	n.Enum = append(Enum(nil), values...)
	return n
}

// WithRange sets numeric bounds; nil leaves a bound open.
func (n *Node) WithRange(minimum, maximum *float64) *Node {
	n.Minimum = minimum
	n.Maximum = maximum
	return n
}

// WithDescription sets the help text and returns the node.
func (n *Node) WithDescription(text string) *Node {
	n.Description = text
	return n
}

// WithDefault sets the default value and returns the node.
func (n *Node) WithDefault(value any) *Node {
	n.Default = value
	return n
}

// Float returns a pointer to v, for numeric bounds.
func Float(v float64) *float64 {
	return &v
}
