package entity

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const namePlaceholder = "<name>"

type previewDocument struct {
	APIVersion string         `yaml:"apiVersion"`
	Kind       string         `yaml:"kind"`
	Metadata   previewMeta    `yaml:"metadata"`
	Spec       map[string]any `yaml:"spec"`
}

type previewMeta struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace,omitempty"`
}

// Preview renders the resource as the YAML manifest it would be stored as.
// An unnamed resource shows a placeholder name. Spec keys are sorted.
func Preview(r Resource) ([]byte, error) {
	doc := previewDocument{
		APIVersion: r.APIVersion,
		Kind:       r.Kind,
		Metadata:   previewMeta{Name: r.Metadata.Name, Namespace: r.Metadata.Namespace},
		Spec:       r.Spec,
	}
	if doc.Metadata.Name == "" {
		doc.Metadata.Name = namePlaceholder
	}
	if doc.Spec == nil {
		doc.Spec = map[string]any{}
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("entity: render preview: %w", err)
	}
	return out, nil
}
