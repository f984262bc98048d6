package validate

import (
	"fmt"
	"strings"
)

// SkeletonPlaceholder is the value inserted at each missing token's path
// in a generated configuration skeleton.
const SkeletonPlaceholder = "TODO"

// FullReport wraps a Report with human-oriented recommendations and a
// configuration skeleton covering the missing tokens.
type FullReport struct {
	Report

	// Recommendations are suggested follow-up actions, one per missing
	// token and one per unused value.
	Recommendations []string

	// Skeleton is a nested configuration fragment with a placeholder
	// value at each missing token's dotted path. Nil when nothing is
	// missing.
	Skeleton map[string]any
}

// GenerateReport validates and adds recommendations: a config skeleton for
// the missing tokens and cleanup suggestions for unused values.
func GenerateReport(cfg map[string]any, tokens []string, opts Options) FullReport {
	full := FullReport{Report: Validate(cfg, tokens, opts)}

	if len(full.Missing) > 0 {
		full.Skeleton = make(map[string]any)
		for _, m := range full.Missing {
			insertPath(full.Skeleton, m.Token, SkeletonPlaceholder)
			full.Recommendations = append(full.Recommendations,
				fmt.Sprintf("add a value for %q to the configuration", m.Token))
		}
	}

	for _, path := range full.Unused {
		full.Recommendations = append(full.Recommendations,
			fmt.Sprintf("remove unused configuration value %q or reference it in a template", path))
	}

	return full
}

// insertPath places value at the dotted path in m, creating intermediate
// mappings as needed. An existing non-mapping intermediate is overwritten;
// the skeleton only describes what the configuration should contain.
func insertPath(m map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	for _, segment := range segments[:len(segments)-1] {
		child, ok := m[segment].(map[string]any)
		if !ok {
			child = make(map[string]any)
			m[segment] = child
		}
		m = child
	}
	m[segments[len(segments)-1]] = value
}
