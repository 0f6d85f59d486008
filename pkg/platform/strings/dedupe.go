// Package strings holds small string-slice helpers.
package strings

import "strings"

// DedupeAndTrim trims every element, drops empties, and keeps only the
// first occurrence of each value. The input order of survivors is
// preserved, so signed claims stay stable across calls.
func DedupeAndTrim(values []string) []string {
	out := values[:0:0]
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
