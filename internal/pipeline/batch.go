package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sitelens/sitelens/internal/config"
	"github.com/sitelens/sitelens/internal/model"
)

// BatchProcessor analyzes multiple inputs concurrently against one
// Orchestrator.
//
// Design decision: Batching is a separate type rather than a method set on
// Orchestrator so single-run callers (the HTTP front end analyzes one input
// per request) never carry batch state, and the concurrency limit stays a
// batch concern.
type BatchProcessor struct {
	orchestrator *Orchestrator
	concurrency  int
	logger       *slog.Logger

	results []*model.CombinedReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithConcurrency sets the maximum number of concurrent analyses.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets the batch-level logger.
func WithBatchLogger(l *slog.Logger) BatchOption {
	return func(b *BatchProcessor) { b.logger = l }
}

// NewBatchProcessor creates a BatchProcessor over the given orchestrator.
func NewBatchProcessor(o *Orchestrator, opts ...BatchOption) *BatchProcessor {
	b := &BatchProcessor{
		orchestrator: o,
		concurrency:  config.DefaultBatchSize,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Process analyzes every input, at most concurrency at a time, and returns
// the reports in input order. A failed analysis yields its partial report
// in place; only cancellation aborts the batch.
func (b *BatchProcessor) Process(ctx context.Context, inputs []string) ([]*model.CombinedReport, error) {
	b.logger.Info("starting batch analysis",
		"total_inputs", len(inputs),
		"concurrency", b.concurrency,
	)
	start := time.Now()

	b.results = make([]*model.CombinedReport, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			b.logger.Info("analyzing input", "index", i+1, "total", len(inputs))

			report, err := b.orchestrator.Run(gctx, input)

			b.mu.Lock()
			b.results[i] = report
			b.mu.Unlock()

			return err
		})
	}

	err := g.Wait()

	b.logger.Info("batch analysis complete",
		"total_inputs", len(inputs),
		"elapsed", time.Since(start),
	)
	return b.results, err
}
