package schema

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Type enumerates the node kinds understood by the form engine.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
)

// Scalar reports whether the type holds a single leaf value.
func (t Type) Scalar() bool {
	switch t {
	case TypeObject, TypeArray:
		return false
	default:
		return true
	}
}

// Properties keeps object members in document order.
type Properties = orderedmap.OrderedMap[string, *Node]

// Node is one level of the recursive schema describing a record's shape.
type Node struct {
	Type        Type        `json:"type,omitempty" yaml:"type,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any         `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        Enum        `json:"enum,omitempty" yaml:"enum,omitempty"`
	Minimum     *float64    `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum     *float64    `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	Pattern     string      `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Format      string      `json:"format,omitempty" yaml:"format,omitempty"`
	Required    []string    `json:"required,omitempty" yaml:"required,omitempty"`
	Properties  *Properties `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items       *Node       `json:"items,omitempty" yaml:"items,omitempty"`
}

// Is reports whether the node is non-nil and of the given type.
func (n *Node) Is(t Type) bool {
	return n != nil && n.Type == t
}

// HasEnum reports whether the node restricts values to a choice list.
func (n *Node) HasEnum() bool {
	return n != nil && len(n.Enum) > 0
}

// PropertyNames returns the property names in document order. Nodes without
// properties yield nil.
func (n *Node) PropertyNames() []string {
	if n == nil || n.Properties == nil || n.Properties.Len() == 0 {
		return nil
	}
	names := make([]string, 0, n.Properties.Len())
	for pair := n.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Property looks up a direct child schema.
func (n *Node) Property(name string) (*Node, bool) {
	if n == nil || n.Properties == nil {
		return nil, false
	}
	child, ok := n.Properties.Get(name)
	if !ok || child == nil {
		return nil, false
	}
	return child, true
}

// IsRequired reports whether name is listed in the node's required set.
func (n *Node) IsRequired(name string) bool {
	if n == nil {
		return false
	}
	for _, candidate := range n.Required {
		if candidate == name {
			return true
		}
	}
	return false
}

// ItemSchema returns the element schema for arrays, or nil.
func (n *Node) ItemSchema() *Node {
	if n == nil {
		return nil
	}
	return n.Items
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Enum = append(Enum(nil), n.Enum...)
	out.Required = append([]string(nil), n.Required...)
	if n.Minimum != nil {
		v := *n.Minimum
		out.Minimum = &v
	}
	if n.Maximum != nil {
		v := *n.Maximum
		out.Maximum = &v
	}
	if n.Properties != nil {
		out.Properties = orderedmap.New[string, *Node](n.Properties.Len())
		for pair := n.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties.Set(pair.Key, pair.Value.Clone())
		}
	}
	out.Items = n.Items.Clone()
	return &out
}

// Enum holds the allowed values of a choice field. Non-string members found in
// documents are stringified so renderers always deal with strings.
type Enum []string

// UnmarshalJSON accepts any scalar members.
func (e *Enum) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("schema: decode enum: %w", err)
	}
	*e = stringifyEnum(raw)
	return nil
}

// UnmarshalYAML accepts any scalar members.
func (e *Enum) UnmarshalYAML(value *yaml.Node) error {
	var raw []any
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("schema: decode enum: %w", err)
	}
	*e = stringifyEnum(raw)
	return nil
}

func stringifyEnum(values []any) Enum {
	if len(values) == 0 {
		return nil
	}
	out := make(Enum, 0, len(values))
	for _, value := range values {
		switch typed := value.(type) {
		case nil:
			continue
		case string:
			out = append(out, typed)
		default:
			out = append(out, fmt.Sprint(typed))
		}
	}
	return out
}
