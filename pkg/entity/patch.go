package entity

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// MergePatch returns the RFC 7386 merge patch turning original into modified.
// Identical specs yield "{}".
func MergePatch(original, modified map[string]any) ([]byte, error) {
	if original == nil {
		original = map[string]any{}
	}
	if modified == nil {
		modified = map[string]any{}
	}
	from, err := json.Marshal(original)
	if err != nil {
		return nil, fmt.Errorf("entity: encode original: %w", err)
	}
	to, err := json.Marshal(modified)
	if err != nil {
		return nil, fmt.Errorf("entity: encode modified: %w", err)
	}
	patch, err := jsonpatch.CreateMergePatch(from, to)
	if err != nil {
		return nil, fmt.Errorf("entity: diff specs: %w", err)
	}
	return patch, nil
}

// EmptyPatch reports whether a merge patch changes nothing.
func EmptyPatch(patch []byte) bool {
	return bytes.Equal(bytes.TrimSpace(patch), []byte("{}"))
}

// ApplyPatch applies a merge patch to spec and returns the patched copy.
func ApplyPatch(spec map[string]any, patch []byte) (map[string]any, error) {
	if spec == nil {
		spec = map[string]any{}
	}
	doc, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("entity: encode spec: %w", err)
	}
	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return nil, fmt.Errorf("entity: apply patch: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, fmt.Errorf("entity: decode patched spec: %w", err)
	}
	return out, nil
}
