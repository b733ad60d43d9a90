// Package utils contains general helper functions used across the pfs tool.
package utils

import "strings"

const extensionSeparator = "."

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// NormalizeExtensions trims whitespace, drops empty values, ensures a leading
// dot on every extension and removes duplicates. "pyc" and ".pyc" are equivalent.
func NormalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	for _, extension := range extensions {
		trimmed := strings.TrimSpace(extension)
		if trimmed == "" || trimmed == extensionSeparator {
			continue
		}
		if !strings.HasPrefix(trimmed, extensionSeparator) {
			trimmed = extensionSeparator + trimmed
		}
		normalized = append(normalized, trimmed)
	}
	return DeduplicatePatterns(normalized)
}
