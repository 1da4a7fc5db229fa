package template

import "io"

// TemplateRenderer renders named templates or inline template text against a
// data context.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
	RenderString(content string, data map[string]any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn Filter) error
}

// Filter transforms a template value. It receives the piped value and the
// optional filter argument.
type Filter func(input any, param any) (any, error)
