package render

import "github.com/goliatone/go-entityform/pkg/sanitize"

// Expansion tracks which groups, lists and sections a renderer shows open,
// keyed by dotted path (section IDs for sections). Keys that were never
// toggled fall back to a default: groups and lists are open when they hold
// something worth showing. Expansion is not safe for concurrent use.
type Expansion struct {
	open map[string]bool
}

// NewExpansion returns an empty expansion map.
func NewExpansion() *Expansion {
	return &Expansion{open: make(map[string]bool)}
}

// IsOpen reports whether f is shown expanded.
func (e *Expansion) IsOpen(f Field) bool {
	if e != nil {
		if open, ok := e.open[f.Path.String()]; ok {
			return open
		}
	}
	return !sanitize.IsEmpty(f.Value)
}

// SectionOpen reports whether a section is shown expanded.
func (e *Expansion) SectionOpen(s Section) bool {
	if e != nil {
		if open, ok := e.open[sectionKey(s.ID)]; ok {
			return open
		}
	}
	return s.Open
}

// Toggle flips the state of f and returns the new state.
func (e *Expansion) Toggle(f Field) bool {
	next := !e.IsOpen(f)
	e.open[f.Path.String()] = next
	return next
}

// ToggleSection flips the state of s and returns the new state.
func (e *Expansion) ToggleSection(s Section) bool {
	next := !e.SectionOpen(s)
	e.open[sectionKey(s.ID)] = next
	return next
}

func sectionKey(id string) string {
	return "#" + id
}
