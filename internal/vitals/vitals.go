// Package vitals implements the measurement core: cache-state control,
// per-run metric collection over an attached page, LCP timeline
// resolution, sequential run orchestration and cross-run aggregation.
package vitals

import (
	"context"
	"fmt"
	"time"

	"github.com/slopjam/perftest/internal/browser"
	"github.com/slopjam/perftest/pkg/model"
)

// Page is the controllable page handle the core operates on. The real
// implementation lives in internal/browser; tests substitute fakes.
// Operations are never issued concurrently: the page and its cache state
// are shared mutable state owned by one run at a time.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	WaitForLoadState(ctx context.Context, cond browser.LoadCondition, timeout time.Duration) error
	ClearBrowserState(ctx context.Context) error
	SetExtraHeaders(ctx context.Context, headers []model.Header) error
	Evaluate(ctx context.Context, expr string) ([]byte, error)
}

// Failure phases carried in RunResult.Reason.
const (
	PhaseAttach          = "attach"
	PhaseCacheControl    = "cache_control"
	PhaseInstrumentation = "instrumentation"
	PhaseCancelled       = "cancelled"
)

// PhaseError wraps a run failure with the phase it happened in.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
