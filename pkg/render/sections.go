package render

import (
	"github.com/goliatone/go-entityform/pkg/category"
	"github.com/goliatone/go-entityform/pkg/formstate"
	"github.com/goliatone/go-entityform/pkg/schema"
)

// Section is a titled group of root fields.
type Section struct {
	ID     string
	Title  string
	Open   bool
	Fields []Field
}

// Sections walks the root of node and groups the fields per display section.
// Only sections whose IDs appear in only are returned, unless only is empty.
func Sections(node *schema.Node, tree formstate.Value, only ...string) []Section {
	fields := Walk(node, tree, formstate.Root)
	if len(fields) == 0 {
		return nil
	}
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	var out []Section
	for _, layout := range category.Sections(category.Categorize(node)) {
		if !selected(layout.ID, only) {
			continue
		}
		section := Section{ID: layout.ID, Title: layout.Title, Open: layout.Open}
		for _, name := range layout.Fields {
			section.Fields = append(section.Fields, byName[name])
		}
		out = append(out, section)
	}
	return out
}

func selected(id string, only []string) bool {
	if len(only) == 0 {
		return true
	}
	for _, candidate := range only {
		if candidate == id {
			return true
		}
	}
	return false
}
