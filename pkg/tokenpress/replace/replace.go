// Package replace substitutes placeholder tokens in template text with
// values resolved from a configuration.
//
// Create a Replacer with New and configure it with Option functions. A
// Replacer is safe for concurrent use after construction.
package replace

import (
	"fmt"
	"strings"

	"github.com/avaldez/tokenpress/pkg/tokenpress/extract"
	"github.com/avaldez/tokenpress/pkg/tokenpress/resolve"
)

// Replacer substitutes token markers in text.
type Replacer struct {
	policy      Policy
	allowEmpty  bool
	placeholder string
}

// New creates a Replacer with the given options.
//
// Default configuration:
//   - Policy: PolicyFail
//   - AllowEmpty: false
//   - Placeholder: MissingPlaceholder
func New(opts ...Option) *Replacer {
	r := &Replacer{
		policy:      PolicyFail,
		placeholder: MissingPlaceholder,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Replacement records one token substituted with its resolved value.
type Replacement struct {
	// Token is the dotted-path token name.
	Token string
	// Value is the stringified substituted value.
	Value string
}

// Result is the outcome of a replacement pass.
type Result struct {
	// Text is the substituted text.
	Text string
	// Replaced lists the tokens substituted with resolved values, in
	// token order.
	Replaced []Replacement
	// Missing lists the tokens that did not resolve, in token order.
	Missing []resolve.Missing
	// Warnings holds one message per missing token under PolicyWarn.
	Warnings []string
}

// Replace substitutes token markers in text with values resolved from cfg.
//
// If no tokens are given, they are extracted from text. Every occurrence
// of a listed token's marker is replaced (whitespace inside markers is
// insignificant); markers for tokens outside the list are left verbatim.
// Resolved tokens are always substituted regardless of policy. Under
// PolicyFail any missing token aborts the pass: the original text is
// returned together with a MissingTokensError listing every missing token.
func (r *Replacer) Replace(text string, cfg map[string]any, tokens ...string) (Result, error) {
	if len(tokens) == 0 {
		tokens = extract.Extract(text)
	}

	resolved := make(map[string]string, len(tokens))
	result := Result{Text: text}

	for _, token := range tokens {
		res := resolve.Lookup(cfg, token)
		if res.OK(r.allowEmpty) {
			value := resolve.Stringify(res.Value)
			resolved[token] = value
			result.Replaced = append(result.Replaced, Replacement{Token: token, Value: value})
			continue
		}
		result.Missing = append(result.Missing, resolve.Missing{Token: token, Reason: res.Reason})
		if r.policy == PolicyWarn {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("token %q is missing from configuration (%s)", token, res.Reason))
		}
	}

	if r.policy == PolicyFail && len(result.Missing) > 0 {
		return result, &MissingTokensError{Missing: result.Missing}
	}

	listed := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		listed[token] = struct{}{}
	}

	result.Text = extract.Pattern().ReplaceAllStringFunc(text, func(marker string) string {
		name := extract.Pattern().FindStringSubmatch(marker)[1]
		if _, ok := listed[name]; !ok {
			return marker
		}
		if value, ok := resolved[name]; ok {
			return value
		}
		return r.placeholder
	})

	return result, nil
}

// PreviewEntry pairs a token with the value it would be substituted with.
type PreviewEntry struct {
	Token string
	Value string
}

// Preview resolves tokens against cfg without mutating text, for dry-run
// diagnostics. If no tokens are given, they are extracted from text.
func (r *Replacer) Preview(text string, cfg map[string]any, tokens ...string) (entries []PreviewEntry, missing []resolve.Missing) {
	if len(tokens) == 0 {
		tokens = extract.Extract(text)
	}

	for _, token := range tokens {
		res := resolve.Lookup(cfg, token)
		if res.OK(r.allowEmpty) {
			entries = append(entries, PreviewEntry{Token: token, Value: resolve.Stringify(res.Value)})
			continue
		}
		missing = append(missing, resolve.Missing{Token: token, Reason: res.Reason})
	}
	return entries, missing
}

// MissingTokensError is returned under PolicyFail when one or more tokens
// do not resolve. It aggregates every missing token from the pass.
type MissingTokensError struct {
	// Missing lists the unresolved tokens with their reasons.
	Missing []resolve.Missing
}

// Error implements the error interface.
func (e *MissingTokensError) Error() string {
	names := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		names[i] = m.Token
	}
	if len(names) == 1 {
		return fmt.Sprintf("missing token: %s", names[0])
	}
	return fmt.Sprintf("missing tokens: %s", strings.Join(names, ", "))
}
