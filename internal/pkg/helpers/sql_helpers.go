package helpers

import "strings"

// NullableText trims s and returns nil when nothing is left, for optional text columns.
func NullableText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// LikePattern wraps a search term for a substring ILIKE match, escaping the
// pattern metacharacters so user input is matched literally.
func LikePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
