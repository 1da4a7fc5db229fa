package category

// Section is a titled group of fields as shown by an editor.
type Section struct {
	ID     string
	Title  string
	Fields []string
	// Open reports whether the section starts expanded.
	Open bool
}

type sectionSpec struct {
	id         string
	title      string
	categories []Category
	open       bool
}

var sectionLayout = []sectionSpec{
	{id: "entity", title: "Entity Configuration", categories: []Category{Required, EntitySpecific}, open: true},
	{id: "common", title: "Common Settings", categories: []Category{Common}, open: true},
	{id: "device", title: "Device Configuration", categories: []Category{Device}},
	{id: "availability", title: "Availability", categories: []Category{Availability}},
	{id: "advanced", title: "Advanced MQTT Settings", categories: []Category{Advanced}},
}

// Sections lays buckets out in display order. Required fields lead the entity
// section; sections without fields are omitted.
func Sections(buckets Buckets) []Section {
	var out []Section
	for _, spec := range sectionLayout {
		var fields []string
		for _, c := range spec.categories {
			fields = append(fields, buckets[c]...)
		}
		if len(fields) == 0 {
			continue
		}
		out = append(out, Section{ID: spec.id, Title: spec.title, Fields: fields, Open: spec.open})
	}
	return out
}
