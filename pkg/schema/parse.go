package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// EntitySchema is the schema-registry envelope served per entity kind.
type EntitySchema struct {
	Kind        string `json:"kind" yaml:"kind"`
	APIVersion  string `json:"apiVersion" yaml:"apiVersion"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      *Node  `json:"schema" yaml:"schema"`
}

// Parse decodes a bare schema node from JSON or YAML.
func Parse(raw []byte) (*Node, error) {
	var node Node
	if err := decode(raw, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// ParseEntitySchema decodes a registry envelope. A payload without a "schema"
// member is decoded as a bare node and wrapped.
func ParseEntitySchema(raw []byte) (EntitySchema, error) {
	var envelope EntitySchema
	if err := decode(raw, &envelope); err != nil {
		return EntitySchema{}, err
	}
	if envelope.Schema != nil {
		return envelope, nil
	}
	node, err := Parse(raw)
	if err != nil {
		return EntitySchema{}, err
	}
	envelope.Schema = node
	return envelope, nil
}

func decode(raw []byte, target any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return errors.New("schema: document is empty")
	}
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, target); err != nil {
			return fmt.Errorf("schema: decode json: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(trimmed, target); err != nil {
		return fmt.Errorf("schema: decode yaml: %w", err)
	}
	return nil
}
