package openapi

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-entityform/pkg/schema"
)

type crdManifest struct {
	Kind string `yaml:"kind"`
	Spec struct {
		Group string `yaml:"group"`
		Names struct {
			Kind string `yaml:"kind"`
		} `yaml:"names"`
		Versions []crdVersion `yaml:"versions"`
	} `yaml:"spec"`
}

type crdVersion struct {
	Name    string `yaml:"name"`
	Served  bool   `yaml:"served"`
	Storage bool   `yaml:"storage"`
	Schema  struct {
		OpenAPIV3Schema *schema.Node `yaml:"openAPIV3Schema"`
	} `yaml:"schema"`
}

// FromCRD extracts the editable spec subtree of a CustomResourceDefinition
// manifest. When version is empty the storage version is used, falling back to
// the first served one. Property order follows the manifest.
func FromCRD(raw []byte, version string) (schema.EntitySchema, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return schema.EntitySchema{}, errors.New("openapi: crd manifest is empty")
	}
	var manifest crdManifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return schema.EntitySchema{}, fmt.Errorf("openapi: decode crd: %w", err)
	}
	if manifest.Kind != "CustomResourceDefinition" {
		return schema.EntitySchema{}, fmt.Errorf("openapi: expected CustomResourceDefinition, got %q", manifest.Kind)
	}

	selected, ok := pickVersion(manifest.Spec.Versions, version)
	if !ok {
		return schema.EntitySchema{}, fmt.Errorf("openapi: crd %s has no version %q", manifest.Spec.Names.Kind, version)
	}
	root := selected.Schema.OpenAPIV3Schema
	spec, ok := root.Property("spec")
	if !ok {
		return schema.EntitySchema{}, fmt.Errorf("openapi: crd %s version %s declares no spec schema", manifest.Spec.Names.Kind, selected.Name)
	}

	apiVersion := selected.Name
	if manifest.Spec.Group != "" {
		apiVersion = manifest.Spec.Group + "/" + selected.Name
	}
	return schema.EntitySchema{
		Kind:        manifest.Spec.Names.Kind,
		APIVersion:  apiVersion,
		Description: root.Description,
		Schema:      spec,
	}, nil
}

func pickVersion(versions []crdVersion, name string) (crdVersion, bool) {
	if name != "" {
		for _, v := range versions {
			if v.Name == name {
				return v, true
			}
		}
		return crdVersion{}, false
	}
	for _, v := range versions {
		if v.Storage {
			return v, true
		}
	}
	for _, v := range versions {
		if v.Served {
			return v, true
		}
	}
	return crdVersion{}, false
}
