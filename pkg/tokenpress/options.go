package tokenpress

import (
	"log/slog"

	"github.com/avaldez/tokenpress/pkg/tokenpress/cache"
	"github.com/avaldez/tokenpress/pkg/tokenpress/observability"
	"github.com/avaldez/tokenpress/pkg/tokenpress/replace"
)

// Option configures a Processor.
type Option func(*Processor)

// WithPolicy sets the missing-token policy. Default: replace.PolicyFail.
//
// The policy can also be changed later with SetPolicy.
func WithPolicy(policy replace.Policy) Option {
	return func(p *Processor) {
		p.policy = policy
	}
}

// WithStrictMode enables strict validation: a template with any missing
// token is rejected before substitution when the policy is PolicyFail.
func WithStrictMode(strict bool) Option {
	return func(p *Processor) {
		p.strict = strict
	}
}

// WithAllowEmpty treats empty-string configuration values as resolved
// rather than missing.
func WithAllowEmpty(allow bool) Option {
	return func(p *Processor) {
		p.allowEmpty = allow
	}
}

// WithWarnOnUnused reports configuration values no token references.
func WithWarnOnUnused(warn bool) Option {
	return func(p *Processor) {
		p.warnOnUnused = warn
	}
}

// WithPlaceholder sets the text substituted for missing tokens under
// PolicyWarn and PolicyGraceful. Default: replace.MissingPlaceholder.
func WithPlaceholder(placeholder string) Option {
	return func(p *Processor) {
		p.placeholder = placeholder
	}
}

// WithLogger sets the structured logger. Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics recording.
// Uses the global OTel meter provider.
func WithMetrics(enabled bool) Option {
	return func(p *Processor) {
		if enabled {
			p.metrics = observability.NewMetricsRecorder()
		} else {
			p.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry trace spans around batch and
// template processing. Uses the global OTel tracer provider.
func WithTracing(enabled bool) Option {
	return func(p *Processor) {
		if enabled {
			p.spans = observability.NewSpanManager()
		} else {
			p.spans = observability.NoopSpanManager{}
		}
	}
}

// WithCacheStore sets the extraction cache backend. Default: in-memory.
//
// Pass a cache.SQLiteStore to persist extraction results across
// processes.
func WithCacheStore(store cache.Store) Option {
	return func(p *Processor) {
		p.store = store
	}
}

// WithConcurrency bounds the number of templates processed in parallel
// by ProcessMany. Values below 2 keep processing sequential.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}
