package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-entityform/pkg/formstate"
	"github.com/goliatone/go-entityform/pkg/render"
	"github.com/goliatone/go-entityform/pkg/sanitize"
)

// Renderer implements render.Renderer for terminal sessions: it prompts for
// every field of the form and returns the sanitized spec.
type Renderer struct {
	driver            PromptDriver
	out               io.Writer
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{outputFormat: OutputFormatJSON}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatYAML:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Render runs the prompts and serializes the sanitized result.
func (r *Renderer) Render(ctx context.Context, form render.Form, opts render.Options) ([]byte, error) {
	tree, err := r.Edit(ctx, form, opts)
	if err != nil {
		return nil, err
	}

	values, ok := sanitize.Sanitize(tree).(map[string]any)
	if !ok {
		values = map[string]any{}
	}
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

// Edit runs the prompts and returns the edited value tree without
// sanitizing it. Sections that start closed are only entered after a
// confirmation.
func (r *Renderer) Edit(ctx context.Context, form render.Form, opts render.Options) (formstate.Value, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if form.Schema == nil {
		return nil, errors.New("tui: form schema is nil")
	}

	tree := form.Value
	if tree == nil {
		tree = map[string]any{}
	}
	e := &editor{Renderer: r, root: form.Schema, opts: opts}

	for _, section := range render.Sections(form.Schema, tree, opts.Sections...) {
		if err := r.driver.Info(ctx, r.theme.SectionPrefix+section.Title); err != nil {
			return nil, err
		}
		if !opts.Expansion.SectionOpen(section) && !hasRequired(section) {
			enter, err := r.driver.Confirm(ctx, ConfirmConfig{
				Message: "Edit " + section.Title + "?",
			})
			if err != nil {
				return nil, err
			}
			if !enter {
				continue
			}
		}
		for _, field := range section.Fields {
			var err error
			tree, err = e.field(ctx, tree, field.Path)
			if err != nil {
				return nil, err
			}
		}
	}
	return tree, nil
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	if r.outputFormat == OutputFormatYAML {
		out, err := yaml.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode yaml: %w", err)
		}
		return out, nil
	}
	out, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode json: %w", err)
	}
	return out, nil
}

func hasRequired(section render.Section) bool {
	for _, field := range section.Fields {
		if field.Required {
			return true
		}
	}
	return false
}
