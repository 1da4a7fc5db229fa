package render

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Label turns a camelCase property name into a display label:
// "commandTopic" becomes "Command Topic".
func Label(name string) string {
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	spaced := strings.TrimSpace(b.String())
	if spaced == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(spaced)
	return string(unicode.ToUpper(first)) + spaced[size:]
}
