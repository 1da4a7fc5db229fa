package template

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"
	gotemplate "github.com/goliatone/go-template"
)

// Option configures an Engine.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	globals   map[string]any
	filters   map[string]Filter
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files. When combined with WithBaseDir the
// directory is searched first.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithGlobals seeds values visible to every template.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			if key = strings.TrimSpace(key); key != "" {
				cfg.globals[key] = value
			}
		}
	}
}

// WithFilter registers a filter when the engine is built.
func WithFilter(name string, fn Filter) Option {
	return func(cfg *config) {
		if cfg.filters == nil {
			cfg.filters = make(map[string]Filter)
		}
		cfg.filters[strings.TrimSpace(name)] = fn
	}
}

// Engine adapts a go-template engine to TemplateRenderer. Template data is
// passed through go-template's JSON conversion, so view structs expose their
// exported field names and numbers arrive as float64.
type Engine struct {
	engine *gotemplate.Engine
}

var _ TemplateRenderer = (*Engine)(nil)

// New builds an engine from the options. At least one template source is
// required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("template: need a base dir or an fs.FS")
	}

	var goOpts []gotemplate.Option
	if cfg.baseDir != "" {
		goOpts = append(goOpts, gotemplate.WithBaseDir(cfg.baseDir))
	}
	if cfg.templates != nil {
		goOpts = append(goOpts, gotemplate.WithFS(cfg.templates))
	}
	if len(cfg.globals) > 0 {
		goOpts = append(goOpts, gotemplate.WithGlobalData(cfg.globals))
	}

	inner, err := gotemplate.NewRenderer(goOpts...)
	if err != nil {
		return nil, fmt.Errorf("template: configure engine: %w", err)
	}
	engine := &Engine{engine: inner}
	for name, fn := range cfg.filters {
		if err := engine.RegisterFilter(name, fn); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// RenderTemplate renders the named template. When out is given the result is
// also written to each writer.
func (e *Engine) RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error) {
	if e == nil || e.engine == nil {
		return "", errors.New("template: engine is nil")
	}
	rendered, err := e.engine.RenderTemplate(name, data, writers(out)...)
	if err != nil {
		return "", fmt.Errorf("template: render %q: %w", name, err)
	}
	return rendered, nil
}

// RenderString compiles and renders inline template text.
func (e *Engine) RenderString(content string, data map[string]any, out ...io.Writer) (string, error) {
	if e == nil || e.engine == nil {
		return "", errors.New("template: engine is nil")
	}
	rendered, err := e.engine.RenderString(content, data, writers(out)...)
	if err != nil {
		return "", fmt.Errorf("template: render string: %w", err)
	}
	return rendered, nil
}

// RegisterFilter installs fn under name. pongo2 filters are process wide, so
// a name that is already registered is kept as is.
func (e *Engine) RegisterFilter(name string, fn Filter) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("template: filter needs a name and a function")
	}
	if pongo2.FilterExists(name) {
		return nil
	}
	return e.engine.RegisterFilter(name, fn)
}

func writers(out []io.Writer) []io.Writer {
	kept := out[:0:0]
	for _, w := range out {
		if w != nil {
			kept = append(kept, w)
		}
	}
	return kept
}
