// Package extract scans template text for placeholder tokens.
//
// A token marker is the double-brace convention: "{{", optional whitespace,
// a dotted path of identifier segments, optional whitespace, "}}". The
// scanner is permissive: anything matching the marker grammar is a token
// and all other text (including malformed or unterminated markers) is
// ignored verbatim. This package is the only place that understands marker
// syntax; the rest of the engine works with pre-validated token names.
package extract

import (
	"regexp"
	"sort"
)

// markerPattern matches a complete token marker and captures the trimmed
// dotted-path name. Segments are identifiers: a letter or underscore
// followed by letters, digits, or underscores.
var markerPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\s*\}\}`)

// Pattern returns the marker regexp.
// The returned regexp is shared and safe for concurrent use; callers must
// not modify it. The first submatch is the trimmed token name.
func Pattern() *regexp.Regexp {
	return markerPattern
}

// Extract scans text and returns the sorted unique token names.
// Duplicate markers collapse; whitespace inside markers is insignificant.
// Returns nil when text contains no markers.
func Extract(text string) []string {
	matches := markerPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tokens = append(tokens, name)
	}

	sort.Strings(tokens)
	return tokens
}
