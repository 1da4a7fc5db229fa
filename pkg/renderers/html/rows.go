package html

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/goliatone/go-entityform/pkg/render"
	"github.com/goliatone/go-entityform/pkg/schema"
)

const (
	rowOpen     = "open"
	rowClose    = "close"
	rowInput    = "input"
	rowSelect   = "select"
	rowCheckbox = "checkbox"
)

// row is one line of the flattened form. Groups and lists are bracketed by
// open and close rows so templates never need to recurse.
type row struct {
	Kind        string
	Widget      string
	Name        string
	ID          string
	Label       string
	Description string
	Required    bool
	Errors      []string

	InputType string
	Value     string
	Checked   bool
	Options   []option
	Min       string
	Max       string
	Pattern   string
	Step      string

	Open bool
	// Count is preformatted; template data goes through JSON, which would
	// turn an int into a float.
	Count string
}

type option struct {
	Value    string
	Selected bool
}

type sectionView struct {
	ID    string
	Title string
	Open  bool
	Rows  []row
}

type flattener struct {
	options render.Options
}

func (fl flattener) sections(sections []render.Section) []sectionView {
	out := make([]sectionView, 0, len(sections))
	for _, section := range sections {
		view := sectionView{
			ID:    section.ID,
			Title: section.Title,
			Open:  fl.options.Expansion.SectionOpen(section),
		}
		for _, field := range section.Fields {
			view.Rows = fl.field(view.Rows, field)
		}
		out = append(out, view)
	}
	return out
}

func (fl flattener) field(rows []row, field render.Field) []row {
	base := row{
		Widget:      string(field.Widget),
		Name:        field.Path.String(),
		ID:          inputID(field.Path.String()),
		Label:       field.Label,
		Description: description(field.Schema),
		Required:    field.Required,
		Errors:      fl.options.ErrorsFor(field.Path.String()),
	}

	switch field.Widget {
	case render.WidgetGroup:
		base.Kind = rowOpen
		base.Open = fl.options.Expansion.IsOpen(field)
		rows = append(rows, base)
		for _, child := range render.Children(field) {
			rows = fl.field(rows, child)
		}
		return append(rows, row{Kind: rowClose})
	case render.WidgetList:
		base.Kind = rowOpen
		base.Open = fl.options.Expansion.IsOpen(field)
		base.Count = strconv.Itoa(field.Len())
		rows = append(rows, base)
		for _, item := range render.Items(field) {
			rows = fl.field(rows, item)
		}
		return append(rows, row{Kind: rowClose})
	case render.WidgetToggle:
		base.Kind = rowCheckbox
		checked, _ := field.Value.(bool)
		base.Checked = checked
	case render.WidgetChoice:
		base.Kind = rowSelect
		current := scalarText(field.Value)
		for _, value := range field.Schema.Enum {
			base.Options = append(base.Options, option{Value: value, Selected: field.Present && value == current})
		}
	case render.WidgetNumeric:
		base.Kind = rowInput
		base.InputType = "number"
		base.Value = scalarText(field.Value)
		base.Min = bound(field.Schema.Minimum)
		base.Max = bound(field.Schema.Maximum)
		if field.Schema.Is(schema.TypeNumber) {
			base.Step = "any"
		}
	default:
		base.Kind = rowInput
		base.InputType = "text"
		base.Value = scalarText(field.Value)
		if field.Schema != nil {
			base.Pattern = field.Schema.Pattern
		}
	}
	return append(rows, base)
}

func description(node *schema.Node) string {
	if node == nil {
		return ""
	}
	return cleanDescription(node.Description)
}

func bound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// scalarText formats a value for an input attribute. Composite values, which
// only reach text inputs for schemaless nodes, are shown as JSON.
func scalarText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

func inputID(path string) string {
	var b strings.Builder
	b.WriteString("ef-")
	dash := false
	for _, r := range path {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
