// Package render is the boundary between the form engine and presentation
// layers. It turns a schema and a value snapshot into Fields (schema node,
// current value and bound operations), groups root fields into display
// sections, and defines the Renderer contract implemented under
// pkg/renderers.
//
// Expansion state (which groups are open) lives here too, but only renderers
// touch it; the engine packages never see it.
package render
