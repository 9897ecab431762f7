package util

import "strings"

// NormalizeText canonicalizes a string for output comparison: lowercase,
// every run of whitespace collapsed to a single space, leading and trailing
// whitespace removed. It is total and idempotent.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ContainsFold reports whether substr occurs within s, case-insensitively.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
