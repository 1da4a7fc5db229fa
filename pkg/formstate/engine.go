package formstate

import "github.com/goliatone/go-entityform/pkg/schema"

// Value is a node of a value tree.
type Value = any

// GetValue returns the node at path and whether it exists.
func GetValue(tree Value, path Path) (Value, bool) {
	current := tree
	for _, seg := range path {
		if seg.Indexed {
			list, ok := current.([]any)
			if !ok || seg.Index < 0 || seg.Index >= len(list) {
				return nil, false
			}
			current = list[seg.Index]
			continue
		}
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		child, exists := obj[seg.Name]
		if !exists {
			return nil, false
		}
		current = child
	}
	return current, true
}

// SetValue returns a tree in which the node at path is v. Missing or nil
// intermediates are created as objects for key segments and sequences for
// index segments. An index equal to the sequence length appends. Any other
// unresolvable step (an index past the end, or an intermediate of the wrong
// kind) returns tree unchanged.
func SetValue(tree Value, path Path, v Value) Value {
	out, ok := set(tree, path, v)
	if !ok {
		return tree
	}
	return out
}

func set(node Value, path Path, v Value) (Value, bool) {
	if len(path) == 0 {
		return v, true
	}
	seg := path[0]

	if seg.Indexed {
		var list []any
		switch typed := node.(type) {
		case nil:
		case []any:
			list = typed
		default:
			return nil, false
		}
		if seg.Index < 0 || seg.Index > len(list) {
			return nil, false
		}
		var current Value
		if seg.Index < len(list) {
			current = list[seg.Index]
		}
		child, ok := set(current, path[1:], v)
		if !ok {
			return nil, false
		}
		out := make([]any, len(list), len(list)+1)
		copy(out, list)
		if seg.Index == len(list) {
			out = append(out, child)
		} else {
			out[seg.Index] = child
		}
		return out, true
	}

	var obj map[string]any
	switch typed := node.(type) {
	case nil:
	case map[string]any:
		obj = typed
	default:
		return nil, false
	}
	child, ok := set(obj[seg.Name], path[1:], v)
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(obj)+1)
	for k, existing := range obj {
		out[k] = existing
	}
	out[seg.Name] = child
	return out, true
}

// AddArrayItem appends the default item for itemSchema to the sequence at
// path. It is a no-op unless path currently resolves to a sequence.
func AddArrayItem(tree Value, path Path, itemSchema *schema.Node) Value {
	list, ok := sequenceAt(tree, path)
	if !ok {
		return tree
	}
	out := make([]any, len(list), len(list)+1)
	copy(out, list)
	return SetValue(tree, path, append(out, DefaultFor(itemSchema)))
}

// RemoveArrayItem removes the element at index from the sequence at path,
// keeping the order of the rest. Out of range indexes are a no-op.
func RemoveArrayItem(tree Value, path Path, index int) Value {
	list, ok := sequenceAt(tree, path)
	if !ok || index < 0 || index >= len(list) {
		return tree
	}
	out := make([]any, 0, len(list)-1)
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)
	return SetValue(tree, path, out)
}

// Unset removes the key or slot at path. Unlike SetValue with nil, the key is
// absent afterwards. The root cannot be unset.
func Unset(tree Value, path Path) Value {
	if len(path) == 0 {
		return tree
	}
	parentPath, last := path[:len(path)-1], path[len(path)-1]
	if last.Indexed {
		return RemoveArrayItem(tree, parentPath, last.Index)
	}
	parent, ok := GetValue(tree, parentPath)
	if !ok {
		return tree
	}
	obj, ok := parent.(map[string]any)
	if !ok {
		return tree
	}
	if _, exists := obj[last.Name]; !exists {
		return tree
	}
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		if k != last.Name {
			out[k] = v
		}
	}
	return SetValue(tree, parentPath, out)
}

// DefaultFor returns the value a new sequence element starts with: an empty
// object, an empty sequence, or an empty string for scalars and unknown item
// schemas.
func DefaultFor(itemSchema *schema.Node) Value {
	if itemSchema == nil {
		return ""
	}
	switch itemSchema.Type {
	case schema.TypeObject:
		return map[string]any{}
	case schema.TypeArray:
		return []any{}
	default:
		return ""
	}
}

func sequenceAt(tree Value, path Path) ([]any, bool) {
	current, ok := GetValue(tree, path)
	if !ok {
		return nil, false
	}
	list, ok := current.([]any)
	return list, ok
}
