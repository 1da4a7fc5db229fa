// Package category sorts the top-level fields of an entity schema into the
// fixed display buckets used by editors.
package category

import "github.com/goliatone/go-entityform/pkg/schema"

// Category is a display bucket.
type Category int

const (
	Required Category = iota
	Common
	EntitySpecific
	Device
	Availability
	Advanced
)

// All lists every category in display order.
var All = []Category{Required, Common, EntitySpecific, Device, Availability, Advanced}

func (c Category) String() string {
	switch c {
	case Required:
		return "required"
	case Common:
		return "common"
	case EntitySpecific:
		return "entitySpecific"
	case Device:
		return "device"
	case Availability:
		return "availability"
	case Advanced:
		return "advanced"
	default:
		return "unknown"
	}
}

// DefaultTable maps the well-known MQTT discovery field names to their
// category. Names missing from the table are entity specific.
var DefaultTable = map[string]Category{
	"name":                   Common,
	"uniqueId":               Common,
	"icon":                   Common,
	"entityCategory":         Common,
	"enabledByDefault":       Common,
	"objectId":               Common,
	"device":                 Device,
	"deviceRef":              Device,
	"availability":           Availability,
	"availabilityMode":       Availability,
	"qos":                    Advanced,
	"retain":                 Advanced,
	"encoding":               Advanced,
	"jsonAttributesTopic":    Advanced,
	"jsonAttributesTemplate": Advanced,
	"rediscoverInterval":     Advanced,
}

// Table resolves field names for one schema. Required names take precedence
// over the static table.
type Table struct {
	static   map[string]Category
	required map[string]struct{}
}

// NewTable builds the lookup for a schema's required set against DefaultTable.
func NewTable(required []string) *Table {
	return NewTableFrom(DefaultTable, required)
}

// NewTableFrom builds the lookup against a custom static table.
func NewTableFrom(static map[string]Category, required []string) *Table {
	set := make(map[string]struct{}, len(required))
	for _, name := range required {
		set[name] = struct{}{}
	}
	return &Table{static: static, required: set}
}

// Of returns the category of name.
func (t *Table) Of(name string) Category {
	if _, ok := t.required[name]; ok {
		return Required
	}
	if c, ok := t.static[name]; ok {
		return c
	}
	return EntitySpecific
}

// Buckets holds field names per category in schema order.
type Buckets map[Category][]string

// Categorize assigns every name to exactly one bucket, keeping relative order.
func (t *Table) Categorize(names []string) Buckets {
	out := make(Buckets, len(All))
	for _, name := range names {
		c := t.Of(name)
		out[c] = append(out[c], name)
	}
	return out
}

// Categorize buckets the direct properties of an object node.
func Categorize(node *schema.Node) Buckets {
	if node == nil {
		return Buckets{}
	}
	return NewTable(node.Required).Categorize(node.PropertyNames())
}

// Len returns the number of names across all buckets.
func (b Buckets) Len() int {
	total := 0
	for _, names := range b {
		total += len(names)
	}
	return total
}
