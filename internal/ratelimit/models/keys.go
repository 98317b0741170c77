package models

import "strings"

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// so a forwarded-for value containing ':' (an IPv6 address, or a crafted
// header) cannot land in another class's bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}
