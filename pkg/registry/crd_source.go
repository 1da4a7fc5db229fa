package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-entityform/pkg/openapi"
	"github.com/goliatone/go-entityform/pkg/schema"
)

// CRDSource reads schemas from generated CRD manifests, one file per kind
// named after the singular resource (mqttbutton.yaml).
type CRDSource struct {
	Files   fs.FS
	Version string
}

var _ Source = CRDSource{}

// Schema loads and converts the manifest of kind.
func (s CRDSource) Schema(ctx context.Context, kind string) (schema.EntitySchema, error) {
	if err := ctx.Err(); err != nil {
		return schema.EntitySchema{}, err
	}
	if s.Files == nil {
		return schema.EntitySchema{}, errors.New("registry: crd source has no files")
	}
	entityType, ok := Lookup(kind)
	if !ok {
		return schema.EntitySchema{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	version := s.Version
	if version == "" {
		version = Version
	}
	name := entityType.Singular() + ".yaml"
	raw, err := fs.ReadFile(s.Files, name)
	if errors.Is(err, fs.ErrNotExist) {
		return schema.EntitySchema{}, fmt.Errorf("%w: %s: no manifest %s", ErrUnknownKind, kind, name)
	}
	if err != nil {
		return schema.EntitySchema{}, fmt.Errorf("registry: read %s: %w", name, err)
	}

	out, err := openapi.FromCRD(raw, version)
	if err != nil {
		return schema.EntitySchema{}, fmt.Errorf("registry: %s: %w", name, err)
	}
	if out.Description == "" {
		out.Description = entityType.Description
	}
	return out, nil
}
