// Package validate checks a token list against a configuration and
// reports which tokens resolve, which are missing, and which configuration
// leaves are never referenced.
package validate

import (
	"fmt"

	"github.com/avaldez/tokenpress/pkg/tokenpress/resolve"
)

// Options configures a validation pass.
type Options struct {
	// StrictMode turns missing tokens into hard errors: the report's
	// Valid flag becomes false when any token is missing.
	StrictMode bool

	// AllowEmpty treats empty-string values as resolved.
	AllowEmpty bool

	// WarnOnUnused computes the configuration leaves never referenced by
	// any token. Purely informational; never affects Valid.
	WarnOnUnused bool
}

// FoundToken is one token that resolved, with its substitution value and
// the configuration value's type.
type FoundToken struct {
	Token string
	Value string
	Type  string
}

// Report is the aggregate outcome of validating tokens against a
// configuration.
type Report struct {
	// Valid is false only under StrictMode with at least one missing token.
	Valid bool

	// Found lists the tokens that resolved, in token order.
	Found []FoundToken

	// Missing lists the tokens that did not resolve, in token order.
	Missing []resolve.Missing

	// Unused lists configuration leaf paths never referenced by any
	// token. Populated only with Options.WarnOnUnused.
	Unused []string

	// Warnings holds human-readable messages for missing tokens (outside
	// strict mode) and unused values.
	Warnings []string
}

// Validate resolves each token against cfg and aggregates the results.
// Resolution uses the same dotted-path descent as replacement, so the
// report's Found set always matches the replacer's substituted set for
// the same configuration and options.
func Validate(cfg map[string]any, tokens []string, opts Options) Report {
	report := Report{Valid: true}

	for _, token := range tokens {
		res := resolve.Lookup(cfg, token)
		if res.OK(opts.AllowEmpty) {
			report.Found = append(report.Found, FoundToken{
				Token: token,
				Value: resolve.Stringify(res.Value),
				Type:  resolve.TypeName(res.Value),
			})
			continue
		}
		report.Missing = append(report.Missing, resolve.Missing{Token: token, Reason: res.Reason})
		if !opts.StrictMode {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("token %q is missing from configuration (%s)", token, res.Reason))
		}
	}

	if opts.StrictMode && len(report.Missing) > 0 {
		report.Valid = false
	}

	if opts.WarnOnUnused {
		report.Unused = unusedPaths(cfg, tokens)
		for _, path := range report.Unused {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("configuration value %q is never referenced", path))
		}
	}

	return report
}

// unusedPaths flattens cfg into dotted leaf paths and returns those absent
// from the token list. Arrays are opaque leaves and are never matched
// against indexed token syntax.
func unusedPaths(cfg map[string]any, tokens []string) []string {
	referenced := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		referenced[token] = struct{}{}
	}

	var unused []string
	for _, path := range resolve.Flatten(cfg) {
		if _, ok := referenced[path]; !ok {
			unused = append(unused, path)
		}
	}
	return unused
}
