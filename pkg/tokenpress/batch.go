package tokenpress

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avaldez/tokenpress/pkg/tokenpress/config"
	"github.com/avaldez/tokenpress/pkg/tokenpress/observability"
)

// Summary aggregates batch counts.
type Summary struct {
	// Total is the number of templates in the batch.
	Total int
	// Successful counts templates that processed without error.
	Successful int
	// Failed counts templates that errored.
	Failed int
}

// BatchResult is the outcome of processing a batch of templates.
type BatchResult struct {
	// ID uniquely identifies this batch run.
	ID string
	// Success is true when every template processed without error.
	Success bool
	// Processed holds the per-template results, in input order.
	// Failed templates keep their partial result.
	Processed []Result
	// Failed records the templates that errored, in input order.
	Failed []*FileError
	// Summary aggregates the counts.
	Summary Summary
	// Tokens is the sorted union of tokens across all templates.
	Tokens []string
	// Duration is the wall-clock batch time.
	Duration time.Duration
}

// ProcessMany runs the pipeline for each input against the same
// configuration.
//
// Templates are isolated: one failing template never prevents the
// others from processing, and its error is recorded in Failed rather
// than returned. When the processor was built with WithConcurrency,
// templates run in parallel up to that bound; results keep input order
// either way.
func (p *Processor) ProcessMany(ctx context.Context, inputs []Input, cfg config.Config) (BatchResult, error) {
	if ctx == nil {
		return BatchResult{}, ErrNilContext
	}

	batch := BatchResult{
		ID:        uuid.New().String(),
		Processed: make([]Result, len(inputs)),
	}
	start := time.Now()

	ctx, span := p.spans.StartBatchSpan(ctx, batch.ID, len(inputs))
	observability.LogBatchStart(p.logger, batch.ID, len(inputs))

	errs := make([]error, len(inputs))
	if p.concurrency > 1 && len(inputs) > 1 {
		p.processParallel(ctx, inputs, cfg, batch.Processed, errs)
	} else {
		for i, in := range inputs {
			batch.Processed[i], errs[i] = p.ProcessOne(ctx, in, cfg)
		}
	}

	tokens := make(map[string]struct{})
	for i, in := range inputs {
		for _, tok := range batch.Processed[i].Tokens {
			tokens[tok] = struct{}{}
		}
		if errs[i] != nil {
			batch.Failed = append(batch.Failed, &FileError{
				Name: in.name(),
				Path: in.Path,
				Err:  errs[i],
			})
		}
	}
	for tok := range tokens {
		batch.Tokens = append(batch.Tokens, tok)
	}
	sort.Strings(batch.Tokens)

	batch.Summary = Summary{
		Total:      len(inputs),
		Successful: len(inputs) - len(batch.Failed),
		Failed:     len(batch.Failed),
	}
	batch.Success = len(batch.Failed) == 0
	batch.Duration = time.Since(start)

	p.metrics.RecordBatchRun(ctx, batch.Success, batch.Duration)
	p.spans.EndSpanWithError(span, nil)
	observability.LogBatchComplete(p.logger, batch.ID,
		float64(batch.Duration.Milliseconds()),
		batch.Summary.Successful, batch.Summary.Failed)

	return batch, nil
}

// processParallel fans inputs out over a bounded worker pool.
func (p *Processor) processParallel(ctx context.Context, inputs []Input, cfg config.Config, results []Result, errs []error) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.concurrency)

	for i, in := range inputs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, in Input) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = p.ProcessOne(ctx, in, cfg)
		}(i, in)
	}
	wg.Wait()
}

// ProcessFiles runs the pipeline for each template file against the
// same configuration. A convenience wrapper over ProcessMany.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string, cfg config.Config) (BatchResult, error) {
	inputs := make([]Input, len(paths))
	for i, path := range paths {
		inputs[i] = Input{Path: path}
	}
	return p.ProcessMany(ctx, inputs, cfg)
}
