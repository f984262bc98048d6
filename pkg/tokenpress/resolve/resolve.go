// Package resolve maps dotted-path token names to values in a nested
// configuration.
//
// A configuration is an already-parsed `map[string]any` (typically from
// JSON or YAML). Resolution descends one dotted segment at a time and is
// total: it never returns an error, only an explicit found/missing result
// with a reason. Arrays are opaque leaves and are never descended into.
package resolve

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Reason classifies the outcome of resolving a dotted path.
type Reason int

const (
	// ReasonFound indicates the path resolved to a usable value.
	ReasonFound Reason = iota

	// ReasonNotFound indicates a segment key was absent or an intermediate
	// value was not a mapping.
	ReasonNotFound

	// ReasonNullValue indicates the path resolved to an explicit null.
	ReasonNullValue

	// ReasonEmpty indicates the path resolved to an empty string.
	// Callers decide whether empty values count as found.
	ReasonEmpty
)

// String returns a human-readable reason name.
func (r Reason) String() string {
	switch r {
	case ReasonFound:
		return "found"
	case ReasonNotFound:
		return "not-found"
	case ReasonNullValue:
		return "null-value"
	case ReasonEmpty:
		return "empty-string"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Result is the outcome of resolving one dotted path.
type Result struct {
	// Value is the resolved value. Only meaningful when the path resolved
	// (Reason is ReasonFound or ReasonEmpty).
	Value any

	// Reason classifies the outcome.
	Reason Reason
}

// OK reports whether the result counts as found.
// Empty-string values count only when allowEmpty is set.
func (r Result) OK(allowEmpty bool) bool {
	switch r.Reason {
	case ReasonFound:
		return true
	case ReasonEmpty:
		return allowEmpty
	default:
		return false
	}
}

// Missing pairs an unresolved token with the reason it failed to resolve.
type Missing struct {
	// Token is the dotted-path token name.
	Token string
	// Reason is why resolution failed.
	Reason Reason
}

// Lookup resolves a dotted path against cfg.
//
// The path is split on "." and each segment selects a key in the current
// mapping. Resolution yields a missing result as soon as an intermediate
// value is not a mapping, a segment key is absent, or the final value is
// nil. A path with no dots is a direct top-level lookup.
func Lookup(cfg map[string]any, path string) Result {
	var current any = cfg
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return Result{Reason: ReasonNotFound}
		}
		current, ok = m[segment]
		if !ok {
			return Result{Reason: ReasonNotFound}
		}
	}
	if current == nil {
		return Result{Reason: ReasonNullValue}
	}
	if s, ok := current.(string); ok && s == "" {
		return Result{Value: s, Reason: ReasonEmpty}
	}
	return Result{Value: current, Reason: ReasonFound}
}

// Stringify converts a resolved value to its substitution text.
// Strings pass through unchanged; numbers and booleans use their canonical
// Go formatting (JSON numbers arrive as float64 and render without a
// trailing ".0" when integral).
func Stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// TypeName returns the JSON-style type name of a configuration value.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, float64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Flatten returns the sorted dotted paths of every leaf in cfg.
// Nested mappings are descended; arrays and all other values are leaves.
// An empty mapping counts as a leaf so its path is not silently dropped.
func Flatten(cfg map[string]any) []string {
	var paths []string
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for key, v := range m {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			if child, ok := v.(map[string]any); ok && len(child) > 0 {
				walk(path, child)
				continue
			}
			paths = append(paths, path)
		}
	}
	walk("", cfg)
	sort.Strings(paths)
	return paths
}
