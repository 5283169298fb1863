package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mafredri/cdp"
	"github.com/mafredri/cdp/devtool"
	"github.com/mafredri/cdp/protocol/network"
	"github.com/mafredri/cdp/protocol/page"
	"github.com/mafredri/cdp/protocol/runtime"
	"github.com/mafredri/cdp/rpcc"

	"github.com/slopjam/perftest/internal/logger"
	"github.com/slopjam/perftest/pkg/model"
)

// LoadCondition names a page lifecycle signal that a wait can target.
// Values match the lifecycle event names reported by the protocol.
type LoadCondition string

const (
	LoadNetworkIdle      LoadCondition = "networkIdle"
	LoadDOMContentLoaded LoadCondition = "DOMContentLoaded"
	LoadEvent            LoadCondition = "load"
)

// ErrLoadTimeout reports that a load-state wait expired before the
// requested lifecycle signal arrived. Callers decide whether that is a
// fallback trigger or a failure.
var ErrLoadTimeout = errors.New("load state wait timed out")

// Page wraps one attached browser page. All operations share a single
// protocol connection; callers must not issue them concurrently.
type Page struct {
	conn   *rpcc.Conn
	client *cdp.Client
	cancel context.CancelFunc
	log    logger.Logger

	mu      sync.Mutex
	seen    map[LoadCondition]bool
	waiters []chan struct{}
}

// Attach resolves the first page target exposed by a DevTools HTTP
// endpoint, dials its debugger WebSocket and enables the domains the
// measurement needs. The browser itself is never launched or closed here.
func Attach(ctx context.Context, devtoolsURL string, l logger.Logger) (*Page, error) {
	if l == nil {
		l = logger.NewNop()
	}
	dt := devtool.New(devtoolsURL)
	target, err := dt.Get(ctx, devtool.Page)
	if err != nil {
		return nil, fmt.Errorf("resolve page target at %s: %w", devtoolsURL, err)
	}
	conn, err := rpcc.DialContext(ctx, target.WebSocketDebuggerURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target.WebSocketDebuggerURL, err)
	}
	p := &Page{
		conn:   conn,
		client: cdp.NewClient(conn),
		log:    l,
		seen:   make(map[LoadCondition]bool),
	}
	if err := p.enable(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	l.Info("attached to page target", "targetID", target.ID, "url", target.URL)
	return p, nil
}

func (p *Page) enable(ctx context.Context) error {
	if err := p.client.Page.Enable(ctx); err != nil {
		return err
	}
	if err := p.client.Network.Enable(ctx, nil); err != nil {
		return err
	}
	if err := p.client.Page.SetLifecycleEventsEnabled(ctx, page.NewSetLifecycleEventsEnabledArgs(true)); err != nil {
		return err
	}
	evCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	events, err := p.client.Page.LifecycleEvent(evCtx)
	if err != nil {
		cancel()
		return err
	}
	go p.consume(events)
	return nil
}

// consume folds the lifecycle event stream into per-navigation state so a
// wait started after the event fired still observes it.
func (p *Page) consume(events page.LifecycleEventClient) {
	defer events.Close()
	for {
		ev, err := events.Recv()
		if err != nil {
			return
		}
		p.mu.Lock()
		p.seen[LoadCondition(ev.Name)] = true
		for _, ch := range p.waiters {
			close(ch)
		}
		p.waiters = nil
		p.mu.Unlock()
	}
}

func (p *Page) resetLoadState() {
	p.mu.Lock()
	p.seen = make(map[LoadCondition]bool)
	p.mu.Unlock()
}

// Navigate starts a navigation to url. Load waiting is separate; see
// WaitForLoadState.
func (p *Page) Navigate(ctx context.Context, url string) error {
	p.resetLoadState()
	reply, err := p.client.Page.Navigate(ctx, page.NewNavigateArgs(url))
	if err != nil {
		return err
	}
	if reply.ErrorText != nil && *reply.ErrorText != "" {
		return fmt.Errorf("navigate %s: %s", url, *reply.ErrorText)
	}
	p.log.Debug("navigation started", "url", url)
	return nil
}

// Reload reloads the current document without bypassing the cache; cache
// state is managed explicitly through ClearBrowserState.
func (p *Page) Reload(ctx context.Context) error {
	p.resetLoadState()
	if err := p.client.Page.Reload(ctx, nil); err != nil {
		return err
	}
	p.log.Debug("reload started")
	return nil
}

// WaitForLoadState blocks until cond has fired for the current
// navigation, the timeout expires (ErrLoadTimeout) or ctx is done.
func (p *Page) WaitForLoadState(ctx context.Context, cond LoadCondition, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		p.mu.Lock()
		if p.seen[cond] {
			p.mu.Unlock()
			return nil
		}
		ch := make(chan struct{})
		p.waiters = append(p.waiters, ch)
		p.mu.Unlock()

		select {
		case <-ch:
		case <-deadline.C:
			return ErrLoadTimeout
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ClearBrowserState drops the browser cache and cookies for the attached
// browser context.
func (p *Page) ClearBrowserState(ctx context.Context) error {
	if err := p.client.Network.ClearBrowserCache(ctx); err != nil {
		return err
	}
	return p.client.Network.ClearBrowserCookies(ctx)
}

// SetExtraHeaders applies headers to every request the page issues from
// now on. A later duplicate name wins, matching browser behavior.
func (p *Page) SetExtraHeaders(ctx context.Context, headers []model.Header) error {
	if len(headers) == 0 {
		return nil
	}
	hm := make(map[string]string, len(headers))
	for _, h := range headers {
		hm[h.Name] = h.Value
	}
	raw, err := json.Marshal(hm)
	if err != nil {
		return err
	}
	return p.client.Network.SetExtraHTTPHeaders(ctx, network.NewSetExtraHTTPHeadersArgs(network.Headers(raw)))
}

// Evaluate runs expr in page context, awaiting promises and returning the
// JSON-serialized value. State installed by one Evaluate call stays
// visible to later calls until the next navigation.
func (p *Page) Evaluate(ctx context.Context, expr string) ([]byte, error) {
	args := runtime.NewEvaluateArgs(expr).SetAwaitPromise(true).SetReturnByValue(true)
	reply, err := p.client.Runtime.Evaluate(ctx, args)
	if err != nil {
		return nil, err
	}
	if reply.ExceptionDetails != nil {
		return nil, reply.ExceptionDetails
	}
	return reply.Result.Value, nil
}

// Close tears down the event consumer and the protocol connection. The
// attached browser keeps running.
func (p *Page) Close() error {
	if p.cancel != nil {
		p.cancel()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
