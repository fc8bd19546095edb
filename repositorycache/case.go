package repositorycache

import (
	"strings"
	"unicode"
)

// toSnake maps a caller supplied sort or filter key to its column name, so
// "dueDate", "DueDate" and "due_date" all become "due_date". Runes that cannot
// appear in a column name are dropped; the result is still checked against the
// allowed columns.
func toSnake(key string) string {
	runes := []rune(key)
	var b strings.Builder
	b.Grow(len(runes) + 4)

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && wordBreak(runes, i) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
		case r < unicode.MaxASCII && (unicode.IsLower(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// wordBreak reports whether the upper case rune at i starts a new word: after a
// lower case letter or digit, or as the last capital of an acronym ("IDList").
func wordBreak(runes []rune, i int) bool {
	prev := runes[i-1]
	if prev == '_' {
		return false
	}
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
