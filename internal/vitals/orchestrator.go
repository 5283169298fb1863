package vitals

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/slopjam/perftest/internal/ctxkeys"
	"github.com/slopjam/perftest/internal/logger"
	"github.com/slopjam/perftest/pkg/model"
)

// RunCollector is what the orchestrator repeats. Satisfied by *Collector.
type RunCollector interface {
	Collect(ctx context.Context, p Page, target model.Target, mode model.CacheMode, runIndex int) model.RunResult
}

// Orchestrator repeats measurement runs sequentially. Runs are never
// concurrent: they share one attached page and its cache state.
type Orchestrator struct {
	collector   RunCollector
	waitBetween time.Duration
	log         logger.Logger
}

// NewOrchestrator wires a run loop around collector with waitBetween
// sleeps between runs.
func NewOrchestrator(collector RunCollector, waitBetween time.Duration, l logger.Logger) *Orchestrator {
	if l == nil {
		l = logger.NewNop()
	}
	return &Orchestrator{collector: collector, waitBetween: waitBetween, log: l}
}

// Run executes up to runs measurement passes. A failed run is recorded
// and the loop continues; only cancellation stops the sequence early.
// The inter-run sleep is skipped after the last run.
func (o *Orchestrator) Run(ctx context.Context, p Page, target model.Target, mode model.CacheMode, runs int) []model.RunResult {
	results := make([]model.RunResult, 0, runs)
	for i := 1; i <= runs; i++ {
		o.log.Info("starting run", "run", i, "total", runs, "mode", string(mode))
		runCtx := context.WithValue(ctx, ctxkeys.TraceIDKey{}, uuid.NewString())
		results = append(results, o.collector.Collect(runCtx, p, target, mode, i))

		if ctx.Err() != nil {
			o.log.Warn("run sequence cancelled", "completed", i, "requested", runs)
			break
		}
		if i < runs && o.waitBetween > 0 {
			o.log.Info("waiting before next run", "duration", o.waitBetween.String())
			if err := sleepCtx(ctx, o.waitBetween); err != nil {
				o.log.Warn("run sequence cancelled during inter-run wait", "completed", i, "requested", runs)
				break
			}
		}
	}
	return results
}
