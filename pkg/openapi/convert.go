package openapi

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/goliatone/go-entityform/pkg/schema"
)

// FromSchemaRef converts a kin-openapi schema into a Node. kin-openapi keeps
// properties in a Go map, so converted properties are ordered by name. allOf
// members are folded into the parent so composed component schemas edit as
// one object.
func FromSchemaRef(ref *openapi3.SchemaRef) *schema.Node {
	if ref == nil || ref.Value == nil {
		return nil
	}
	src := ref.Value
	node := &schema.Node{
		Type:        firstType(src.Type),
		Description: src.Description,
		Default:     src.Default,
		Format:      src.Format,
		Pattern:     src.Pattern,
	}
	if src.Min != nil {
		node.Minimum = schema.Float(*src.Min)
	}
	if src.Max != nil {
		node.Maximum = schema.Float(*src.Max)
	}
	for _, value := range src.Enum {
		if value == nil {
			continue
		}
		node.Enum = append(node.Enum, enumString(value))
	}
	node.Required = append(node.Required, src.Required...)

	props := make(map[string]*openapi3.SchemaRef, len(src.Properties))
	for name, prop := range src.Properties {
		props[name] = prop
	}
	for _, member := range src.AllOf {
		if member == nil || member.Value == nil {
			continue
		}
		if node.Type == "" {
			node.Type = firstType(member.Value.Type)
		}
		for name, prop := range member.Value.Properties {
			if _, exists := props[name]; !exists {
				props[name] = prop
			}
		}
		node.Required = appendMissing(node.Required, member.Value.Required)
	}
	if len(props) > 0 {
		if node.Type == "" {
			node.Type = schema.TypeObject
		}
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)
		node.Properties = orderedmap.New[string, *schema.Node](len(names))
		for _, name := range names {
			if child := FromSchemaRef(props[name]); child != nil {
				node.Properties.Set(name, child)
			}
		}
	}
	if src.Items != nil {
		node.Items = FromSchemaRef(src.Items)
	}
	if len(node.Required) == 0 {
		node.Required = nil
	}
	return node
}

// ToOpenAPI renders a Node as a kin-openapi schema. Enum members are converted
// back to the node's scalar type so typed values validate against them.
// Unknown type names are dropped, leaving the schema untyped.
func ToOpenAPI(node *schema.Node) *openapi3.Schema {
	if node == nil {
		return &openapi3.Schema{}
	}
	out := &openapi3.Schema{
		Description: node.Description,
		Default:     node.Default,
		Format:      node.Format,
		Pattern:     node.Pattern,
	}
	if knownType(node.Type) {
		out.Type = &openapi3.Types{string(node.Type)}
	}
	if node.Minimum != nil {
		out.Min = schema.Float(*node.Minimum)
	}
	if node.Maximum != nil {
		out.Max = schema.Float(*node.Maximum)
	}
	for _, value := range node.Enum {
		out.Enum = append(out.Enum, typedEnum(node.Type, value))
	}
	if node.Is(schema.TypeObject) {
		out.Required = declaredRequired(node)
		if node.Properties != nil {
			out.Properties = make(openapi3.Schemas, node.Properties.Len())
			for pair := node.Properties.Oldest(); pair != nil; pair = pair.Next() {
				out.Properties[pair.Key] = openapi3.NewSchemaRef("", ToOpenAPI(pair.Value))
			}
		}
	}
	if node.Is(schema.TypeArray) && node.Items != nil {
		out.Items = openapi3.NewSchemaRef("", ToOpenAPI(node.Items))
	}
	return out
}

func knownType(t schema.Type) bool {
	switch t {
	case schema.TypeString, schema.TypeInteger, schema.TypeNumber,
		schema.TypeBoolean, schema.TypeObject, schema.TypeArray:
		return true
	}
	return false
}

// declaredRequired drops required names that have no matching property.
func declaredRequired(node *schema.Node) []string {
	var out []string
	for _, name := range node.Required {
		if _, ok := node.Property(name); ok {
			out = append(out, name)
		}
	}
	return out
}

func firstType(types *openapi3.Types) schema.Type {
	if types == nil {
		return ""
	}
	for _, candidate := range types.Slice() {
		if candidate != "null" {
			return schema.Type(candidate)
		}
	}
	return ""
}

func enumString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func typedEnum(t schema.Type, value string) any {
	switch t {
	case schema.TypeInteger, schema.TypeNumber:
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	case schema.TypeBoolean:
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return value
}

func appendMissing(dst, src []string) []string {
	for _, name := range src {
		found := false
		for _, existing := range dst {
			if existing == name {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, name)
		}
	}
	return dst
}
