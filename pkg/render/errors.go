package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-entityform/pkg/schema"
)

// ErrorMapping splits an error payload into field-level and form-level
// messages. Field keys are the dotted paths renderers look up through
// Options.ErrorsFor.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates form-level message slices, trimming whitespace
// and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload maps server error payloads keyed by JSON pointers or dotted
// paths (optionally wrapped in "spec", "body" or similar envelopes) onto the
// field paths of node. Paths are matched on their longest known prefix, so an
// error on an unknown leaf lands on its closest ancestor; paths matching no
// field become form-level messages.
func MapErrorPayload(node *schema.Node, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	known := make(map[string]struct{})
	collectFieldPaths(node, "", known)

	for raw, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		if path := matchErrorPath(raw, known); path != "" {
			mapping.Fields[path] = append(mapping.Fields[path], normalized...)
			continue
		}
		mapping.Form = append(mapping.Form, normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

var errorEnvelopes = map[string]struct{}{
	"spec":    {},
	"body":    {},
	"request": {},
	"payload": {},
	"data":    {},
}

func matchErrorPath(raw string, known map[string]struct{}) string {
	segments := splitErrorPath(raw)
	for len(segments) > 0 {
		if _, ok := errorEnvelopes[strings.ToLower(segments[0])]; !ok {
			break
		}
		segments = segments[1:]
	}
	for end := len(segments); end > 0; end-- {
		candidate := joinSegments(segments[:end])
		if _, ok := known[pattern(candidate)]; ok {
			return candidate
		}
	}
	return ""
}

// splitErrorPath accepts /a/0/b, #/a/0/b, $.a[0].b and a.b[0] style paths.
func splitErrorPath(raw string) []string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimLeft(clean, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

// joinSegments renders segments in formstate.Path.String form.
func joinSegments(segments []string) string {
	var b strings.Builder
	for i, seg := range segments {
		if isIndex(seg) {
			b.WriteString("[" + seg + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// pattern replaces every index of a dotted path with [], the form used for
// the known field set.
func pattern(path string) string {
	var b strings.Builder
	for i := 0; i < len(path); i++ {
		if path[i] != '[' {
			b.WriteByte(path[i])
			continue
		}
		end := strings.IndexByte(path[i:], ']')
		if end < 0 {
			b.WriteString(path[i:])
			break
		}
		b.WriteString("[]")
		i += end
	}
	return b.String()
}

func collectFieldPaths(node *schema.Node, prefix string, dest map[string]struct{}) {
	if node == nil {
		return
	}
	switch {
	case node.Is(schema.TypeObject):
		for _, name := range node.PropertyNames() {
			child, _ := node.Property(name)
			path := name
			if prefix != "" {
				path = prefix + "." + name
			}
			dest[path] = struct{}{}
			collectFieldPaths(child, path, dest)
		}
	case node.Is(schema.TypeArray):
		path := prefix + "[]"
		dest[path] = struct{}{}
		collectFieldPaths(node.Items, path, dest)
	}
}

func isIndex(segment string) bool {
	n, err := strconv.Atoi(segment)
	return err == nil && n >= 0
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
