// Package template adapts a go-template engine (pongo2 underneath) to the
// small contract the HTML renderer needs, so callers can override the bundled
// templates.
package template
