package vitals

import (
	"context"
	"time"

	"github.com/slopjam/perftest/internal/logger"
	"github.com/slopjam/perftest/pkg/model"
)

// CacheController drives the navigation sequence that puts the page into
// a deterministic pre-measurement cache state.
type CacheController struct {
	log logger.Logger
}

// NewCacheController returns a controller logging through l.
func NewCacheController(l logger.Logger) *CacheController {
	if l == nil {
		l = logger.NewNop()
	}
	return &CacheController{log: l}
}

// Prepare realizes the requested cache semantics and leaves the page
// load-settled.
//
// Warm: navigate to the target once and rely on whatever cache exists.
// When the session already sits on the page this is effectively a plain
// reload; that substitute semantics is accepted.
//
// Cold: navigate, clear cache and cookies, then reload so the cold
// network path is exercised. The ordering is mandatory: clearing before
// the initial navigation would measure a first visit, not a previously
// visited page gone cold. Running this sequence at the start of every
// cold run also re-establishes a known state after an aborted run.
func (cc *CacheController) Prepare(ctx context.Context, p Page, url string, mode model.CacheMode, loadTimeout time.Duration) error {
	cc.log.Info("preparing cache state", "mode", string(mode), "url", url)
	if err := p.Navigate(ctx, url); err != nil {
		return err
	}
	if err := waitForLoad(ctx, p, loadTimeout, cc.log); err != nil {
		return err
	}
	if mode == model.CacheWarm {
		return nil
	}
	cc.log.Info("clearing cache and cookies for cold measurement")
	if err := p.ClearBrowserState(ctx); err != nil {
		return err
	}
	cc.log.Info("reloading for cold cache measurement")
	if err := p.Reload(ctx); err != nil {
		return err
	}
	return waitForLoad(ctx, p, loadTimeout, cc.log)
}
