package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ADACompany01/adascan/internal/model"
)

// BatchEvaluator evaluates multiple URLs concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: Batch handling lives beside the Evaluator rather than
// inside it so that single-URL evaluation stays free of synchronization
// and the concurrency policy can evolve independently.
type BatchEvaluator struct {
	// evaluator performs the individual evaluations.
	evaluator *Evaluator

	// concurrency is the maximum number of concurrent evaluations.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchEvaluator.
type BatchOption func(*BatchEvaluator)

// WithConcurrency sets the maximum number of concurrent evaluations.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchEvaluator) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchEvaluator) {
		b.logger = logger
	}
}

// NewBatchEvaluator creates a BatchEvaluator wrapping the given Evaluator.
func NewBatchEvaluator(evaluator *Evaluator, opts ...BatchOption) *BatchEvaluator {
	b := &BatchEvaluator{
		evaluator:   evaluator,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// BatchResult pairs a target URL with its outcome.
type BatchResult struct {
	// URL is the evaluated target.
	URL string

	// Result is the evaluation outcome, nil when Err is set.
	Result *model.EvaluationResult

	// Err is the evaluation failure, nil on success.
	Err error

	// Elapsed is how long the evaluation took.
	Elapsed time.Duration
}

// Evaluate runs evaluations for all URLs with bounded concurrency and
// calls onDone as each finishes. Results are delivered in completion
// order, not input order; onDone calls are serialized.
//
// Individual evaluation failures are reported through BatchResult.Err and
// do not stop the batch. Evaluate itself only returns an error when the
// context is cancelled.
func (b *BatchEvaluator) Evaluate(ctx context.Context, urls []string, onDone func(BatchResult)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	var mu sync.Mutex

	for _, target := range urls {
		target := target
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			start := time.Now()
			result, err := b.evaluator.EvaluateSite(ctx, target)
			elapsed := time.Since(start)

			if err != nil {
				b.logger.Warn("batch evaluation failed",
					"url", target,
					"error", err,
				)
			}

			if onDone != nil {
				mu.Lock()
				onDone(BatchResult{URL: target, Result: result, Err: err, Elapsed: elapsed})
				mu.Unlock()
			}
			return nil
		})
	}

	return g.Wait()
}
