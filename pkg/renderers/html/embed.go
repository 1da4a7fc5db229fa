package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// formTemplate is the entry template. Includes resolve next to it.
const formTemplate = "form.tpl"

// TemplatesFS exposes the bundled templates so callers can copy and adjust
// them before passing them back through WithTemplatesFS or
// WithTemplatesDir.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
