package config

import "time"

// DateFormat is the presentation date format injected when a client
// configuration omits its date.
const DateFormat = "January 2, 2006"

// Payment defaults injected when a configuration has a payment section
// that omits them.
const (
	DefaultCurrency     = "USD"
	DefaultPaymentTerms = "Due upon receipt"
)

// ApplyDefaults fills in the standard defaults on a configuration map,
// in place, and returns it. Present values are never overwritten.
//
// Defaults:
//   - "date": today's date in DateFormat, when absent or empty.
//   - "payment.currency" and "payment.terms": only when a payment section
//     already exists; a configuration without payment stays without one.
func ApplyDefaults(m map[string]any) map[string]any {
	if m == nil {
		m = make(map[string]any)
	}

	if s, ok := m["date"].(string); !ok || s == "" {
		m["date"] = time.Now().Format(DateFormat)
	}

	if payment, ok := m["payment"].(map[string]any); ok {
		if s, ok := payment["currency"].(string); !ok || s == "" {
			payment["currency"] = DefaultCurrency
		}
		if s, ok := payment["terms"].(string); !ok || s == "" {
			payment["terms"] = DefaultPaymentTerms
		}
	}

	return m
}

// WithDefaults applies the standard defaults to the configuration,
// in place, and returns it.
func (c Config) WithDefaults() Config {
	return Config{data: ApplyDefaults(c.data)}
}
