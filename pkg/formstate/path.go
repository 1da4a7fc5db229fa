package formstate

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment addresses one step into a value tree: an object key or, when
// Indexed is set, a sequence slot.
type Segment struct {
	Name    string
	Index   int
	Indexed bool
}

// Key returns an object key segment.
func Key(name string) Segment {
	return Segment{Name: name}
}

// Index returns a sequence slot segment.
func Index(i int) Segment {
	return Segment{Index: i, Indexed: true}
}

// Path addresses a node relative to the tree root. The empty path is the root.
type Path []Segment

// Root is the empty path.
var Root = Path{}

// Key returns a copy of p extended with an object key.
func (p Path) Key(name string) Path {
	return p.append(Key(name))
}

// Index returns a copy of p extended with a sequence slot.
func (p Path) Index(i int) Path {
	return p.append(Index(i))
}

func (p Path) append(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// String renders the dotted form, for example device.identifiers[0].
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.Indexed {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Name)
	}
	return b.String()
}

// Pointer renders the RFC 6901 form, for example /device/identifiers/0.
func (p Path) Pointer() string {
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		if seg.Indexed {
			b.WriteString(strconv.Itoa(seg.Index))
			continue
		}
		b.WriteString(pointerEscaper.Replace(seg.Name))
	}
	return b.String()
}

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// ParsePath parses the dotted form produced by Path.String. Keys may not
// contain '.', '[' or ']'; use ParsePointer for arbitrary keys.
func ParsePath(raw string) (Path, error) {
	path := Path{}
	if raw == "" {
		return path, nil
	}
	rest := raw
	expectKey := true
	for len(rest) > 0 {
		switch {
		case rest[0] == '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("formstate: invalid path %q: unterminated index", raw)
			}
			n, err := strconv.Atoi(rest[1:end])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("formstate: invalid path %q: bad index %q", raw, rest[1:end])
			}
			path = append(path, Index(n))
			rest = rest[end+1:]
			expectKey = false
		case rest[0] == '.':
			if expectKey {
				return nil, fmt.Errorf("formstate: invalid path %q: empty key", raw)
			}
			rest = rest[1:]
			expectKey = true
			if rest == "" {
				return nil, fmt.Errorf("formstate: invalid path %q: trailing dot", raw)
			}
		default:
			if !expectKey {
				return nil, fmt.Errorf("formstate: invalid path %q: missing separator", raw)
			}
			end := strings.IndexAny(rest, ".[]")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				return nil, fmt.Errorf("formstate: invalid path %q: unexpected %q", raw, rest[0])
			}
			path = append(path, Key(rest[:end]))
			rest = rest[end:]
			expectKey = false
		}
	}
	return path, nil
}

// ParsePointer parses an RFC 6901 pointer. Segments made only of digits are
// read as sequence slots.
func ParsePointer(raw string) (Path, error) {
	raw = strings.TrimPrefix(raw, "#")
	if raw == "" {
		return Path{}, nil
	}
	if raw[0] != '/' {
		return nil, fmt.Errorf("formstate: invalid pointer %q", raw)
	}
	return FromTokens(strings.Split(raw[1:], "/")), nil
}

// FromTokens builds a path from unescaped or escaped pointer tokens, such as
// the location reported by a schema validator.
func FromTokens(tokens []string) Path {
	path := make(Path, 0, len(tokens))
	for _, token := range tokens {
		if n, err := strconv.Atoi(token); err == nil && n >= 0 && isDigits(token) {
			path = append(path, Index(n))
			continue
		}
		path = append(path, Key(pointerUnescaper.Replace(token)))
	}
	return path
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
