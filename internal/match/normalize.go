package match

import (
	"strings"
	"unicode"
)

// keySeparator joins the segments of a nested override key, e.g. "address.city".
const keySeparator = "."

// idSuffixes are trimmed from a folded segment before the second comparison,
// so "customer" still meets "customer_id".
var idSuffixes = []string{"ids", "id", "at"}

// segments splits key at keySeparator and folds every segment.
func segments(key string) []string {
	parts := strings.Split(key, keySeparator)
	for i, p := range parts {
		parts[i] = fold(p)
	}

	return parts
}

// fold lowercases segment and drops word separators, so "unitCents",
// "unit_cents" and "Unit-Cents" fold to the same string.
func fold(segment string) string {
	var sb strings.Builder
	sb.Grow(len(segment))

	for _, r := range segment {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}

	return sb.String()
}

// trimSuffix drops one id-like suffix from a folded segment. A segment that
// is nothing but the suffix is kept.
func trimSuffix(segment string) string {
	for _, suffix := range idSuffixes {
		if len(segment) > len(suffix) && strings.HasSuffix(segment, suffix) {
			return strings.TrimSuffix(segment, suffix)
		}
	}

	return segment
}
