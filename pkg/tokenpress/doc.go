/*
Package tokenpress substitutes {{dotted.path}} tokens in text templates
with values from a nested configuration.

# Overview

tokenpress is a Go library for token-based template customization. A
template carries markers like {{client_name}} or {{payment.amount}};
a configuration is a nested map, typically loaded from JSON or YAML.
The processor extracts the tokens, validates them against the
configuration, and substitutes each marker with its resolved value.

Features:
  - Dotted-path resolution into nested configurations
  - Three missing-token policies: fail, warn, graceful
  - Validation reports with recommendations and config skeletons
  - Batch processing with per-template isolation
  - Extraction caching keyed by file modification time, with an
    optional SQLite backend that persists across processes
  - OpenTelemetry integration for observability

# Basic Usage

Process one template against a configuration:

	cfg, err := config.FromFile("client.json")
	if err != nil {
	    log.Fatal(err)
	}

	p := tokenpress.New(tokenpress.WithPolicy(replace.PolicyWarn))

	res, err := p.ProcessOne(ctx, tokenpress.Input{
	    Text: "Dear {{client_name}}, your balance is {{payment.amount}}.",
	}, cfg)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(res.Output)

# Missing-Token Policies

The policy decides what happens when a token has no value:

  - PolicyFail (default): no substitution happens; the error lists
    every missing token.
  - PolicyWarn: missing markers become "[MISSING]" and each one is
    reported as a warning.
  - PolicyGraceful: missing markers become "[MISSING]" silently.

Resolved tokens are always substituted regardless of policy.

# Validation

Validate reports on a template without modifying it:

	report, err := p.Validate(ctx, tokenpress.Input{Path: "deck.html"}, cfg)

The full report lists found and missing tokens, recommendations, and a
configuration skeleton containing a TODO entry for every missing token.

# Batch Processing

ProcessMany runs a set of templates against one configuration. Failed
templates never stop the rest of the batch:

	batch, err := p.ProcessFiles(ctx, []string{"a.html", "b.html"}, cfg)
	for _, fe := range batch.Failed {
	    log.Printf("skipped %s: %v", fe.Name, fe.Err)
	}

File inputs go through an extraction cache keyed by modification time,
so unchanged templates are never re-read. Use WithCacheStore with a
cache.SQLiteStore to keep the cache across process restarts, and the
watch package to invalidate entries when files change on disk.
*/
package tokenpress
