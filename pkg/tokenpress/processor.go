package tokenpress

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/avaldez/tokenpress/pkg/tokenpress/cache"
	"github.com/avaldez/tokenpress/pkg/tokenpress/config"
	"github.com/avaldez/tokenpress/pkg/tokenpress/extract"
	"github.com/avaldez/tokenpress/pkg/tokenpress/observability"
	"github.com/avaldez/tokenpress/pkg/tokenpress/replace"
	"github.com/avaldez/tokenpress/pkg/tokenpress/validate"
)

// Processor runs the full templating pipeline: token extraction,
// validation against a configuration, and substitution.
//
// A Processor is safe for concurrent use. The missing-token policy can
// be changed between runs with SetPolicy; all other settings are fixed
// at construction.
type Processor struct {
	mu     sync.RWMutex
	policy replace.Policy

	strict       bool
	allowEmpty   bool
	warnOnUnused bool
	placeholder  string
	concurrency  int

	store     cache.Store
	extractor *extract.Extractor

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// New creates a Processor.
//
// Example:
//
//	p := tokenpress.New(
//		tokenpress.WithPolicy(replace.PolicyWarn),
//		tokenpress.WithLogger(slog.Default()),
//	)
func New(opts ...Option) *Processor {
	p := &Processor{
		policy:      replace.PolicyFail,
		placeholder: replace.MissingPlaceholder,
		metrics:     observability.NoopMetrics{},
		spans:       observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.store == nil {
		p.store = cache.NewMemoryStore()
	}
	p.extractor = extract.New(extract.WithStore(p.store))
	return p
}

// SetPolicy changes the missing-token policy for subsequent runs.
func (p *Processor) SetPolicy(policy replace.Policy) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.policy = policy
}

// Policy returns the current missing-token policy.
func (p *Processor) Policy() replace.Policy {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.policy
}

// Extractor returns the processor's token extractor, for direct
// extraction or cache watching.
func (p *Processor) Extractor() *extract.Extractor {
	return p.extractor
}

// InvalidateCache drops the extraction cache entry for one path.
func (p *Processor) InvalidateCache(path string) error {
	return p.extractor.Invalidate(path)
}

// ClearCache drops every extraction cache entry.
func (p *Processor) ClearCache() error {
	return p.extractor.ClearCache()
}

// CacheStats describes the current extraction cache contents.
func (p *Processor) CacheStats() (extract.Stats, error) {
	return p.extractor.CacheStats()
}

// Input is one template to process, either inline text or a file.
type Input struct {
	// Name identifies the template in results and logs. Defaults to
	// the file's base name when Path is set.
	Name string
	// Text is the inline template text. Ignored when Path is set.
	Text string
	// Path is the template file path. Takes precedence over Text.
	Path string
}

// name returns the effective template name.
func (in Input) name() string {
	if in.Name != "" {
		return in.Name
	}
	if in.Path != "" {
		return filepath.Base(in.Path)
	}
	return "inline"
}

// Result is the outcome of processing one template.
type Result struct {
	// ID uniquely identifies this processing run.
	ID string
	// Name is the template name.
	Name string
	// Success is true when processing completed without error.
	Success bool
	// Output is the substituted text. Empty on failure.
	Output string
	// Input is the original template text.
	Input string
	// Tokens are the unique tokens found in the template, sorted.
	Tokens []string
	// TokensFound counts the tokens that resolved.
	TokensFound int
	// TokensMissing counts the tokens that did not resolve.
	TokensMissing int
	// TokensTotal counts the unique tokens in the template.
	TokensTotal int
	// Report is the validation outcome for this template.
	Report validate.Report
	// Duration is the wall-clock processing time.
	Duration time.Duration
	// Bytes is the output size.
	Bytes int
}

// ProcessOne runs the pipeline for a single template.
//
// File inputs go through the extraction cache; inline inputs are
// extracted directly. Validation always runs before substitution.
// Under strict mode with PolicyFail, a template with missing tokens is
// rejected with a ValidationError before any substitution. Under
// PolicyFail without strict mode, substitution itself fails with a
// replace.MissingTokensError. Either way the returned Result still
// carries the tokens and the validation report.
func (p *Processor) ProcessOne(ctx context.Context, input Input, cfg config.Config) (Result, error) {
	if ctx == nil {
		return Result{}, ErrNilContext
	}

	name := input.name()
	policy := p.Policy()
	start := time.Now()

	ctx, span := p.spans.StartTemplateSpan(ctx, name)
	observability.LogTemplateStart(p.logger, name)

	res, err := p.processOne(ctx, name, policy, input, cfg)
	res.ID = uuid.New().String()
	res.Name = name
	res.Duration = time.Since(start)
	res.Success = err == nil

	p.metrics.RecordTemplateProcessed(ctx, name, res.Duration, err)
	p.metrics.RecordTokens(ctx, name, int64(res.TokensFound), int64(res.TokensMissing))
	p.spans.EndSpanWithError(span, err)

	if err != nil {
		observability.LogTemplateError(p.logger, name, err)
		return res, err
	}
	observability.LogTemplateComplete(p.logger, name,
		float64(res.Duration.Milliseconds()), res.TokensFound, res.TokensMissing)
	return res, nil
}

// processOne is the pipeline body, without identity and observability
// bookkeeping.
func (p *Processor) processOne(ctx context.Context, name string, policy replace.Policy, input Input, cfg config.Config) (Result, error) {
	var res Result

	text, tokens, err := p.load(input)
	if err != nil {
		return res, err
	}
	res.Input = text
	res.Tokens = tokens
	res.TokensTotal = len(tokens)

	report := validate.Validate(cfg.Raw(), tokens, validate.Options{
		StrictMode:   p.strict,
		AllowEmpty:   p.allowEmpty,
		WarnOnUnused: p.warnOnUnused,
	})
	res.Report = report
	res.TokensFound = len(report.Found)
	res.TokensMissing = len(report.Missing)

	if p.strict && !report.Valid && policy == replace.PolicyFail {
		return res, &ValidationError{Template: name, Missing: report.Missing}
	}

	replacer := replace.New(
		replace.WithPolicy(policy),
		replace.WithAllowEmpty(p.allowEmpty),
		replace.WithPlaceholder(p.placeholder),
	)
	out, err := replacer.Replace(text, cfg.Raw(), tokens...)
	if err != nil {
		return res, err
	}
	for _, m := range out.Missing {
		observability.LogMissingToken(p.logger, name, m.Token, m.Reason.String())
	}

	res.Output = out.Text
	res.Bytes = len(out.Text)
	return res, nil
}

// load returns the template text and its unique tokens.
func (p *Processor) load(input Input) (string, []string, error) {
	if input.Path != "" {
		tokens, err := p.extractor.FromFile(input.Path)
		if err != nil {
			return "", nil, err
		}
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return "", nil, fmt.Errorf("read template %s: %w", input.Path, err)
		}
		return string(data), tokens, nil
	}
	if input.Text != "" {
		return input.Text, extract.Extract(input.Text), nil
	}
	return "", nil, ErrNoInput
}

// ProcessFile runs the pipeline for one template file.
func (p *Processor) ProcessFile(ctx context.Context, path string, cfg config.Config) (Result, error) {
	return p.ProcessOne(ctx, Input{Path: path}, cfg)
}

// ProcessFileTo runs the pipeline for one template file and writes the
// output to outPath atomically: readers never observe a partially
// written file.
func (p *Processor) ProcessFileTo(ctx context.Context, path, outPath string, cfg config.Config) (Result, error) {
	res, err := p.ProcessOne(ctx, Input{Path: path}, cfg)
	if err != nil {
		return res, err
	}
	if err := atomic.WriteFile(outPath, strings.NewReader(res.Output)); err != nil {
		return res, fmt.Errorf("write output %s: %w", outPath, err)
	}
	return res, nil
}

// Validate runs extraction and validation for one template without
// substituting, returning the full report with recommendations and a
// configuration skeleton for the missing tokens.
func (p *Processor) Validate(ctx context.Context, input Input, cfg config.Config) (validate.FullReport, error) {
	if ctx == nil {
		return validate.FullReport{}, ErrNilContext
	}
	_, tokens, err := p.load(input)
	if err != nil {
		return validate.FullReport{}, err
	}
	return validate.GenerateReport(cfg.Raw(), tokens, validate.Options{
		StrictMode:   p.strict,
		AllowEmpty:   p.allowEmpty,
		WarnOnUnused: p.warnOnUnused,
	}), nil
}
