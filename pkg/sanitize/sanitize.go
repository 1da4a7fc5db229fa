// Package sanitize strips empty values from a value tree before it is
// submitted.
package sanitize

// Option adjusts Sanitize.
type Option func(*config)

type config struct {
	sequenceItems bool
}

// WithSequenceItems also cleans object and sequence elements inside
// sequences, dropping elements that end up empty. By default non-empty
// sequences are kept exactly as they are.
func WithSequenceItems() Option {
	return func(c *config) {
		c.sequenceItems = true
	}
}

// Sanitize returns a copy of tree without empty strings, nils, empty
// sequences, and objects that are empty once their own children have been
// cleaned. Zero numbers and false are kept. An object root always yields a
// non-nil map; other roots are returned as is.
func Sanitize(tree any, opts ...Option) any {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if obj, ok := tree.(map[string]any); ok {
		return cfg.object(obj)
	}
	return tree
}

// Object is Sanitize for an object root.
func Object(obj map[string]any, opts ...Option) map[string]any {
	return Sanitize(obj, opts...).(map[string]any)
}

func (c config) object(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for key, value := range obj {
		if cleaned, keep := c.value(value); keep {
			out[key] = cleaned
		}
	}
	return out
}

func (c config) value(value any) (any, bool) {
	switch typed := value.(type) {
	case nil:
		return nil, false
	case string:
		return typed, typed != ""
	case map[string]any:
		cleaned := c.object(typed)
		return cleaned, len(cleaned) > 0
	case []any:
		if len(typed) == 0 {
			return nil, false
		}
		if !c.sequenceItems {
			return typed, true
		}
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			if cleaned, keep := c.value(item); keep {
				out = append(out, cleaned)
			}
		}
		return out, len(out) > 0
	default:
		return value, true
	}
}

// IsEmpty reports whether Sanitize would drop value.
func IsEmpty(value any) bool {
	_, keep := config{}.value(value)
	return !keep
}
