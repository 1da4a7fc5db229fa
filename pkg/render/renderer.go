package render

import (
	"context"

	"github.com/goliatone/go-entityform/pkg/formstate"
	"github.com/goliatone/go-entityform/pkg/schema"
)

// Form is what a renderer presents: the schema of one entity kind and the
// current value snapshot of its spec.
type Form struct {
	Kind   string
	Schema *schema.Node
	Value  formstate.Value
}

// Renderer turns a Form into a byte representation. Interactive renderers
// return the edited value; static ones return markup.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form Form, options Options) ([]byte, error)
}
