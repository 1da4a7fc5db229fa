// Package openapi converts between schema.Node and the schema dialects the
// entity registry is built from: OpenAPI v3 component schemas (parsed with
// kin-openapi) and Kubernetes CustomResourceDefinition manifests. It also
// renders a Node back into a kin-openapi schema so values can be validated.
package openapi
