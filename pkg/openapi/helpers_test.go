package openapi

import "github.com/getkin/kin-openapi/openapi3"

func schemaRef(s *openapi3.Schema) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("", s)
}
