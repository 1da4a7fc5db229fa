package render

// Options describe per-request data that renderers can use without changing
// the form itself.
type Options struct {
	// Title overrides the heading, which defaults to the form kind.
	Title string
	// Errors surfaces validation feedback keyed by dotted field path
	// (formstate.Path.String), as produced by validation.Result.Fields or
	// MapErrorPayload.
	Errors map[string][]string
	// FormErrors are messages that could not be tied to a field.
	FormErrors []string
	// Hidden carries identity values (kind, namespace, name) that static
	// renderers emit as hidden inputs.
	Hidden map[string]string
	// Sections restricts output to the given section IDs. Empty means all.
	Sections []string
	// Expansion holds the open/closed state of groups. Nil means defaults.
	Expansion *Expansion
}

// ErrorsFor returns the messages attached to a dotted path.
func (o Options) ErrorsFor(path string) []string {
	if len(o.Errors) == 0 {
		return nil
	}
	return o.Errors[path]
}
