// Package entity models entity resources and talks to the persistence API.
package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidName is returned for resource names that are not normalized.
var ErrInvalidName = errors.New("entity: invalid resource name")

// Metadata identifies a resource.
type Metadata struct {
	Name              string            `json:"name" yaml:"name"`
	Namespace         string            `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Labels            map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Annotations       map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	ResourceVersion   string            `json:"resourceVersion,omitempty" yaml:"resourceVersion,omitempty"`
	CreationTimestamp string            `json:"creationTimestamp,omitempty" yaml:"creationTimestamp,omitempty"`
}

// Resource is the envelope around an entity spec.
type Resource struct {
	APIVersion string         `json:"apiVersion" yaml:"apiVersion"`
	Kind       string         `json:"kind" yaml:"kind"`
	Metadata   Metadata       `json:"metadata" yaml:"metadata"`
	Spec       map[string]any `json:"spec" yaml:"spec"`
	Status     map[string]any `json:"status,omitempty" yaml:"status,omitempty"`
}

// Published reports whether the status carries a true Published condition.
func (r Resource) Published() bool {
	conditions, _ := r.Status["conditions"].([]any)
	for _, c := range conditions {
		cond, ok := c.(map[string]any)
		if !ok {
			continue
		}
		if cond["type"] == "Published" && cond["status"] == "True" {
			return true
		}
	}
	return false
}

// Summary is one row of a list response.
type Summary struct {
	Kind        string            `json:"kind"`
	APIVersion  string            `json:"apiVersion"`
	Name        string            `json:"name"`
	Namespace   string            `json:"namespace"`
	DisplayName string            `json:"displayName,omitempty"`
	Published   bool              `json:"published"`
	CreatedAt   string            `json:"createdAt"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// List is the entity list response.
type List struct {
	Items []Summary `json:"items"`
	Total int       `json:"total"`
}

// Namespace is one namespace entities can live in.
type Namespace struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Status string            `json:"status"`
}

// NormalizeName lowercases name and replaces every character outside
// [a-z0-9-] with a hyphen, one hyphen per character.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('-')
	}
	return b.String()
}

// ValidateName checks that name is non-empty and already normalized.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if normalized := NormalizeName(name); normalized != name {
		return fmt.Errorf("%w: %q (try %q)", ErrInvalidName, name, normalized)
	}
	return nil
}
