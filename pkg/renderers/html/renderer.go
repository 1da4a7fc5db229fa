package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-entityform/pkg/render"
	rendertemplate "github.com/goliatone/go-entityform/pkg/render/template"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle with form.tpl at its
// root.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads the template bundle from a directory on disk
// instead of the embedded one.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = path
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer produces a static, unstyled HTML form for an entity spec.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		source := rendertemplate.WithFS(cfg.templateFS)
		if cfg.templateDir != "" {
			source = rendertemplate.WithBaseDir(cfg.templateDir)
		}
		engine, err := rendertemplate.New(source)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render lays the form out by section and renders it through the form
// template.
func (r *Renderer) Render(ctx context.Context, form render.Form, options render.Options) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, errors.New("html renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if form.Schema == nil {
		return nil, errors.New("html renderer: form schema is nil")
	}

	title := options.Title
	if title == "" {
		title = form.Kind
	}
	fl := flattener{options: options}
	data := map[string]any{
		"kind":        form.Kind,
		"title":       title,
		"hidden":      render.SortedHiddenFields(options.Hidden),
		"form_errors": options.FormErrors,
		"sections":    fl.sections(render.Sections(form.Schema, form.Value, options.Sections...)),
	}

	out, err := r.templates.RenderTemplate(formTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(out), nil
}
