package vitals

import (
	"context"
	"errors"
	"time"

	"github.com/slopjam/perftest/internal/browser"
	"github.com/slopjam/perftest/internal/logger"
)

type loadPhase int

const (
	awaitingNetworkIdle loadPhase = iota
	awaitingDOMContent
	ready
)

// waitForLoad drives the load-completeness state machine: network idle
// first, falling back to DOM-content-loaded when idle never resolves.
// Many real pages never reach network idle (persistent connections,
// polling, ads), so the fallback is mandatory. A timeout on the fallback
// still proceeds; only transport errors fail the wait.
func waitForLoad(ctx context.Context, p Page, timeout time.Duration, log logger.Logger) error {
	phase := awaitingNetworkIdle
	for phase != ready {
		cond := browser.LoadNetworkIdle
		if phase == awaitingDOMContent {
			cond = browser.LoadDOMContentLoaded
		}
		err := p.WaitForLoadState(ctx, cond, timeout)
		switch {
		case err == nil:
			phase = ready
		case errors.Is(err, browser.ErrLoadTimeout):
			if phase == awaitingNetworkIdle {
				log.Warn("network idle not reached, falling back to DOMContentLoaded", "timeout", timeout.String())
				phase = awaitingDOMContent
			} else {
				log.Warn("DOMContentLoaded not reached, proceeding with current page state", "timeout", timeout.String())
				phase = ready
			}
		default:
			return err
		}
	}
	return nil
}
