package replace

import "fmt"

// Policy specifies how to handle tokens that do not resolve.
type Policy int

const (
	// PolicyFail aborts the whole replacement when any token is missing.
	// The error lists every missing token found during the pass, not just
	// the first. This is the default.
	PolicyFail Policy = iota

	// PolicyWarn substitutes the missing placeholder and reports every
	// missing token as a warning, but processing continues.
	PolicyWarn

	// PolicyGraceful substitutes the missing placeholder silently.
	PolicyGraceful
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyFail:
		return "fail"
	case PolicyWarn:
		return "warn"
	case PolicyGraceful:
		return "graceful"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy converts a policy name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "fail":
		return PolicyFail, nil
	case "warn":
		return PolicyWarn, nil
	case "graceful":
		return PolicyGraceful, nil
	default:
		return PolicyFail, fmt.Errorf("unknown policy %q", s)
	}
}

// MissingPlaceholder is the text substituted for unresolved tokens under
// PolicyWarn and PolicyGraceful.
const MissingPlaceholder = "[MISSING]"

// Option configures a Replacer.
type Option func(*Replacer)

// WithPolicy sets the missing-token policy.
//
// Default: PolicyFail.
func WithPolicy(policy Policy) Option {
	return func(r *Replacer) {
		r.policy = policy
	}
}

// WithAllowEmpty treats empty-string values as resolved rather than missing.
//
// Default: false (empty values count as missing).
func WithAllowEmpty(allow bool) Option {
	return func(r *Replacer) {
		r.allowEmpty = allow
	}
}

// WithPlaceholder overrides the text substituted for missing tokens under
// PolicyWarn and PolicyGraceful.
//
// Default: MissingPlaceholder.
func WithPlaceholder(placeholder string) Option {
	return func(r *Replacer) {
		r.placeholder = placeholder
	}
}
