package base

import "strings"

// JoinString mirrors the teacher's small String.go helpers used all over
// internal/base for formatting feature lists, CLI overrides and log lines.
func JoinString[T ~string](sep string, items ...T) string {
	strs := make([]string, len(items))
	for i, it := range items {
		strs[i] = string(it)
	}
	return strings.Join(strs, sep)
}
