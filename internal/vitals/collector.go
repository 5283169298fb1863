package vitals

import (
	"context"
	"errors"
	"time"

	"github.com/slopjam/perftest/internal/instrument"
	"github.com/slopjam/perftest/internal/logger"
	"github.com/slopjam/perftest/pkg/model"
)

// Options tunes a Collector. Zero values are replaced by the documented
// defaults.
type Options struct {
	// StabilizationTime is the grace window after load during which the
	// browser may keep revising LCP. LCP legally updates until user
	// interaction or page hide, so a fixed window is a deliberate
	// approximation, not a protocol guarantee.
	StabilizationTime time.Duration
	// LCPWaitTime bounds the in-page LCP observation window; the probe
	// disconnects its observers once it elapses.
	LCPWaitTime time.Duration
	// LoadTimeout bounds each load-state wait (network idle, then the
	// DOM-content-loaded fallback).
	LoadTimeout time.Duration
	// MaxSlowResources caps the derived slowest-resource list.
	MaxSlowResources int
}

func (o Options) withDefaults() Options {
	if o.StabilizationTime <= 0 {
		o.StabilizationTime = 3 * time.Second
	}
	if o.LCPWaitTime <= 0 {
		o.LCPWaitTime = 3 * time.Second
	}
	if o.LoadTimeout <= 0 {
		o.LoadTimeout = 30 * time.Second
	}
	if o.MaxSlowResources <= 0 {
		o.MaxSlowResources = 5
	}
	return o
}

// Collector performs one measurement pass against an attached page.
type Collector struct {
	opts  Options
	cache *CacheController
	log   logger.Logger
}

// NewCollector builds a collector with its own cache controller.
func NewCollector(opts Options, l logger.Logger) *Collector {
	if l == nil {
		l = logger.NewNop()
	}
	return &Collector{
		opts:  opts.withDefaults(),
		cache: NewCacheController(l),
		log:   l,
	}
}

// Collect runs one measurement: apply headers, prepare cache state, wait
// for load, install the probe, sleep the stabilization window, pull the
// snapshot and resolve the LCP timeline. Every failure is converted into
// a Failed result carrying the phase name; nothing escapes.
func (c *Collector) Collect(ctx context.Context, p Page, target model.Target, mode model.CacheMode, runIndex int) model.RunResult {
	result := model.RunResult{RunIndex: runIndex}

	if err := p.SetExtraHeaders(ctx, target.Headers); err != nil {
		return c.fail(ctx, result, PhaseAttach, err)
	}

	// Prepare leaves the page load-settled (cold mode needs a settled
	// page between its navigate and reload steps anyway).
	if err := c.cache.Prepare(ctx, p, target.URL, mode, c.opts.LoadTimeout); err != nil {
		return c.fail(ctx, result, PhaseCacheControl, err)
	}

	// The probe does not survive reloads; install fresh every run.
	if _, err := p.Evaluate(ctx, instrument.InstallScript(c.opts.LCPWaitTime)); err != nil {
		return c.fail(ctx, result, PhaseInstrumentation, err)
	}

	c.log.Debug("stabilization wait", "duration", c.opts.StabilizationTime.String())
	if err := sleepCtx(ctx, c.opts.StabilizationTime); err != nil {
		return c.fail(ctx, result, PhaseCancelled, err)
	}

	raw, err := p.Evaluate(ctx, instrument.QueryScript)
	if err != nil {
		return c.fail(ctx, result, PhaseInstrumentation, err)
	}
	snap, err := instrument.ParseSnapshot(raw, c.opts.MaxSlowResources)
	if err != nil {
		return c.fail(ctx, result, PhaseInstrumentation, err)
	}

	expl := ExplainLCP(snap)
	result.Status = model.RunSuccess
	result.Snapshot = snap
	result.LCP = &expl
	c.logSuccess(result)
	return result
}

// fail records the failed phase. Context cancellation wins over the
// phase-local error so an interrupted run reads as cancelled, not broken.
func (c *Collector) fail(ctx context.Context, result model.RunResult, phase string, err error) model.RunResult {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		phase = PhaseCancelled
	}
	perr := &PhaseError{Phase: phase, Err: err}
	c.log.Error("run failed", "run", result.RunIndex, "error", perr.Error())
	result.Status = model.RunFailed
	result.Reason = phase
	return result
}

func (c *Collector) logSuccess(result model.RunResult) {
	kv := []any{"run", result.RunIndex, "ttfbMs", result.Snapshot.TTFBMs, "cls", result.Snapshot.CLSScore, "resources", result.Snapshot.ResourceCount}
	if result.Snapshot.FCPMs != nil {
		kv = append(kv, "fcpMs", *result.Snapshot.FCPMs)
	}
	if result.LCP.FinalValueMs != nil {
		kv = append(kv, "lcpMs", *result.LCP.FinalValueMs, "lcpCandidates", len(result.LCP.Timeline))
	}
	c.log.Info("run complete", kv...)
}
