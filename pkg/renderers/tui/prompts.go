package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-entityform/pkg/formstate"
	"github.com/goliatone/go-entityform/pkg/render"
	"github.com/goliatone/go-entityform/pkg/schema"
)

const (
	actionDone   = "Done"
	actionAdd    = "Add item"
	actionEdit   = "Edit item"
	actionRemove = "Remove item"

	choiceNone = "(none)"
)

// editor prompts for one form. Every prompt re-resolves its field against the
// latest snapshot, so answers always apply to the current tree.
type editor struct {
	*Renderer
	root     *schema.Node
	opts     render.Options
	patterns map[string]*regexp.Regexp
}

func (e *editor) field(ctx context.Context, tree formstate.Value, path formstate.Path) (formstate.Value, error) {
	f, ok := render.FieldAt(e.root, tree, path)
	if !ok {
		return tree, nil
	}
	for _, msg := range e.opts.ErrorsFor(path.String()) {
		if err := e.driver.Info(ctx, e.theme.ErrorPrefix+msg); err != nil {
			return tree, err
		}
	}

	switch f.Widget {
	case render.WidgetGroup:
		return e.group(ctx, f)
	case render.WidgetList:
		return e.list(ctx, f)
	case render.WidgetToggle:
		return e.toggle(ctx, f)
	case render.WidgetChoice:
		return e.choice(ctx, f)
	case render.WidgetNumeric:
		return e.number(ctx, f)
	default:
		if f.Schema.Is(schema.TypeObject) {
			return e.document(ctx, f)
		}
		return e.text(ctx, f)
	}
}

// group prompts for each property. Optional groups that start closed are
// only entered after a confirmation; list elements never ask.
func (e *editor) group(ctx context.Context, f render.Field) (formstate.Value, error) {
	tree := f.Snapshot()
	if f.Name != "" && !f.Required && !e.opts.Expansion.IsOpen(f) {
		enter, err := e.driver.Confirm(ctx, ConfirmConfig{
			Message: "Configure " + f.Label + "?",
			Help:    help(f),
		})
		if err != nil || !enter {
			return tree, err
		}
	}
	for _, name := range f.Schema.PropertyNames() {
		var err error
		tree, err = e.field(ctx, tree, f.Path.Key(name))
		if err != nil {
			return tree, err
		}
	}
	return tree, nil
}

func (e *editor) list(ctx context.Context, f render.Field) (formstate.Value, error) {
	tree := f.Snapshot()
	for {
		current, ok := render.FieldAt(e.root, tree, f.Path)
		if !ok {
			return tree, nil
		}
		n := current.Len()
		actions := []string{actionDone, actionAdd}
		if n > 0 {
			actions = append(actions, actionEdit, actionRemove)
		}
		idx, err := e.driver.Select(ctx, SelectConfig{
			Message: fmt.Sprintf("%s (%d items)", current.Label, n),
			Options: actions,
			Help:    help(current),
		})
		if err != nil {
			return tree, err
		}
		if idx < 0 || idx >= len(actions) {
			if err := e.driver.Info(ctx, e.theme.ErrorPrefix+"Invalid selection"); err != nil {
				return tree, err
			}
			continue
		}

		switch actions[idx] {
		case actionDone:
			return tree, nil
		case actionAdd:
			tree, err = e.field(ctx, current.Add(), f.Path.Index(n))
		case actionEdit:
			var item int
			if item, err = e.pickItem(ctx, current, "Edit which item?"); err == nil && item >= 0 {
				tree, err = e.field(ctx, tree, f.Path.Index(item))
			}
		case actionRemove:
			var item int
			if item, err = e.pickItem(ctx, current, "Remove which item?"); err == nil && item >= 0 {
				tree = current.Remove(item)
			}
		}
		if err != nil {
			return tree, err
		}
	}
}

func (e *editor) pickItem(ctx context.Context, list render.Field, message string) (int, error) {
	items := render.Items(list)
	options := make([]string, 0, len(items))
	for _, item := range items {
		options = append(options, item.Label+": "+display(item.Value))
	}
	idx, err := e.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return -1, err
	}
	if idx < 0 || idx >= len(options) {
		return -1, nil
	}
	return idx, nil
}

func (e *editor) toggle(ctx context.Context, f render.Field) (formstate.Value, error) {
	current, ok := f.Value.(bool)
	if !ok {
		current, _ = f.Schema.Default.(bool)
	}
	answer, err := e.driver.Confirm(ctx, ConfirmConfig{
		Message: f.Label,
		Default: current,
		Help:    help(f),
	})
	if err != nil {
		return f.Snapshot(), err
	}
	return f.Set(answer), nil
}

func (e *editor) choice(ctx context.Context, f render.Field) (formstate.Value, error) {
	options := append([]string(nil), f.Schema.Enum...)
	if !f.Required {
		options = append([]string{choiceNone}, options...)
	}
	defaultIdx := -1
	if f.Present {
		defaultIdx = indexOf(options, display(f.Value))
	}

	for {
		idx, err := e.driver.Select(ctx, SelectConfig{
			Message:      f.Label,
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         help(f),
		})
		if err != nil {
			return f.Snapshot(), err
		}
		if idx < 0 || idx >= len(options) {
			if err := e.driver.Info(ctx, e.theme.ErrorPrefix+"Invalid "+f.Label+" selection"); err != nil {
				return f.Snapshot(), err
			}
			continue
		}
		if options[idx] == choiceNone {
			return f.Unset(), nil
		}
		return f.Set(typedChoice(f.Schema, options[idx])), nil
	}
}

func (e *editor) number(ctx context.Context, f render.Field) (formstate.Value, error) {
	for {
		input, err := e.driver.Input(ctx, InputConfig{
			Message: f.Label,
			Default: defaultText(f),
			Help:    help(f),
		})
		if err != nil {
			return f.Snapshot(), err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			if f.Required {
				if err := e.invalid(ctx, f, "required"); err != nil {
					return f.Snapshot(), err
				}
				continue
			}
			return f.Unset(), nil
		}

		var (
			parsed any
			number float64
		)
		if f.Schema.Is(schema.TypeInteger) {
			i, perr := strconv.ParseInt(input, 10, 64)
			parsed, number, err = i, float64(i), perr
		} else {
			number, err = strconv.ParseFloat(input, 64)
			parsed = number
		}
		if err != nil {
			if err := e.invalid(ctx, f, "not a number"); err != nil {
				return f.Snapshot(), err
			}
			continue
		}
		if msg := outOfRange(f.Schema, number); msg != "" {
			if err := e.invalid(ctx, f, msg); err != nil {
				return f.Snapshot(), err
			}
			continue
		}
		return f.Set(parsed), nil
	}
}

// text prompts for a scalar. An empty answer clears an optional field, which
// for list elements removes the element.
func (e *editor) text(ctx context.Context, f render.Field) (formstate.Value, error) {
	prompt := e.driver.Input
	if f.Schema != nil && f.Schema.Format == "password" {
		prompt = e.driver.Password
	}
	for {
		input, err := prompt(ctx, InputConfig{
			Message: f.Label,
			Default: defaultText(f),
			Help:    help(f),
		})
		if err != nil {
			return f.Snapshot(), err
		}
		if strings.TrimSpace(input) == "" {
			if f.Required {
				if err := e.invalid(ctx, f, "required"); err != nil {
					return f.Snapshot(), err
				}
				continue
			}
			return f.Unset(), nil
		}
		if re := e.pattern(f.Schema); re != nil && !re.MatchString(input) {
			if err := e.invalid(ctx, f, "must match "+f.Schema.Pattern); err != nil {
				return f.Snapshot(), err
			}
			continue
		}
		return f.Set(input), nil
	}
}

// document edits an object without declared properties as a JSON object.
func (e *editor) document(ctx context.Context, f render.Field) (formstate.Value, error) {
	for {
		input, err := e.driver.TextArea(ctx, TextAreaConfig{
			Message: f.Label + " (JSON object)",
			Default: defaultText(f),
			Help:    help(f),
		})
		if err != nil {
			return f.Snapshot(), err
		}
		if strings.TrimSpace(input) == "" {
			return f.Unset(), nil
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(input), &obj); err != nil || obj == nil {
			if err := e.invalid(ctx, f, "expected a JSON object"); err != nil {
				return f.Snapshot(), err
			}
			continue
		}
		return f.Set(obj), nil
	}
}

func (e *editor) invalid(ctx context.Context, f render.Field, reason string) error {
	return e.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %s", e.theme.ErrorPrefix, f.Label, reason))
}

// pattern compiles the node's pattern once per session. Patterns that do not
// compile are ignored.
func (e *editor) pattern(node *schema.Node) *regexp.Regexp {
	if node == nil || node.Pattern == "" {
		return nil
	}
	if re, ok := e.patterns[node.Pattern]; ok {
		return re
	}
	if e.patterns == nil {
		e.patterns = make(map[string]*regexp.Regexp)
	}
	re, err := regexp.Compile(node.Pattern)
	if err != nil {
		re = nil
	}
	e.patterns[node.Pattern] = re
	return re
}

func outOfRange(node *schema.Node, v float64) string {
	if node.Minimum != nil && v < *node.Minimum {
		return "must be at least " + strconv.FormatFloat(*node.Minimum, 'f', -1, 64)
	}
	if node.Maximum != nil && v > *node.Maximum {
		return "must be at most " + strconv.FormatFloat(*node.Maximum, 'f', -1, 64)
	}
	return ""
}

// typedChoice converts a selected enum label back to the node's value type.
func typedChoice(node *schema.Node, label string) any {
	switch {
	case node.Is(schema.TypeInteger):
		if i, err := strconv.ParseInt(label, 10, 64); err == nil {
			return i
		}
	case node.Is(schema.TypeNumber):
		if f, err := strconv.ParseFloat(label, 64); err == nil {
			return f
		}
	case node.Is(schema.TypeBoolean):
		if b, err := strconv.ParseBool(label); err == nil {
			return b
		}
	}
	return label
}

func help(f render.Field) string {
	if f.Schema == nil {
		return ""
	}
	return f.Schema.Description
}

func defaultText(f render.Field) string {
	if f.Present {
		return display(f.Value)
	}
	if f.Schema != nil && f.Schema.Default != nil {
		return display(f.Schema.Default)
	}
	return ""
}

func display(value any) string {
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
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}
