package core

import "strings"

// CleanString trims surrounding whitespace from user-supplied text.
// Pass true to also lowercase it; admin nicknames are stored lowercased
// so lookups are case-insensitive.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		s = strings.ToLower(s)
	}
	return s
}
