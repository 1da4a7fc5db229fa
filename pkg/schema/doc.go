// Package schema defines the recursive Node type that describes the editable
// shape of an entity spec, together with the Source/Document/Loader seams used
// to fetch schema documents from files, fs.FS entries, or HTTP endpoints.
//
// Nodes are decoded from JSON or YAML. Object properties keep their document
// order, which the field categorizer and renderers rely on for stable layout.
// Malformed nodes are tolerated: an object without properties has no fields,
// an array without items holds opaque scalars, and required names that do not
// match a property are ignored.
package schema
