package reconcile

import "strings"

// CountDistinctIgnoreBlank counts the distinct values in a slice of text
// identifiers, dropping any value that is empty after trimming whitespace.
// Every user and visit count in every view goes through this; a blank
// identifier is absence, not a legitimate user.
func CountDistinctIgnoreBlank(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}

// CountDistinctInt64 counts distinct numeric identifiers. Numeric columns only
// drop absence, never zero; callers model absence by omitting the value.
func CountDistinctInt64(values []int64) int {
	seen := make(map[int64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
