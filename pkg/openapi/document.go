package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-entityform/pkg/schema"
)

// Document is a parsed OpenAPI v3 document whose component schemas can be
// extracted as form schemas.
type Document struct {
	spec *openapi3.T
}

// Load parses raw OpenAPI JSON or YAML. Local references are resolved;
// external references are rejected.
func Load(ctx context.Context, raw []byte) (*Document, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return &Document{spec: spec}, nil
}

// SchemaNames lists the component schema names in lexical order.
func (d *Document) SchemaNames() []string {
	if d == nil || d.spec == nil || d.spec.Components == nil {
		return nil
	}
	names := make([]string, 0, len(d.spec.Components.Schemas))
	for name := range d.spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema converts the named component schema into a Node.
func (d *Document) Schema(name string) (*schema.Node, error) {
	if d == nil || d.spec == nil || d.spec.Components == nil {
		return nil, fmt.Errorf("openapi: document has no component schemas")
	}
	ref, ok := d.spec.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: component schema %q not found", name)
	}
	return FromSchemaRef(ref), nil
}
