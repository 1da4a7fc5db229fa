// Package html renders an entity form as plain HTML: one collapsible block
// per display section, nested groups and lists as nested blocks, and hidden
// inputs for the resource identity. Schema descriptions are stripped of
// markup before they are emitted.
package html
