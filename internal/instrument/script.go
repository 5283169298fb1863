package instrument

import (
	"fmt"
	"time"
)

// InstallScript returns the expression that installs the in-page probe.
// It is idempotent within one document: a second evaluation is a no-op.
// Observers subscribe buffered so candidates delivered before install are
// still recorded, and they disconnect themselves once the LCP observation
// window elapses. A reload re-executes page scripts, so the probe must be
// re-installed after every navigation or reload; no state survives that
// boundary.
func InstallScript(lcpWindow time.Duration) string {
	return fmt.Sprintf(installTemplate, lcpWindow.Milliseconds())
}

const installTemplate = `(() => {
	if (window.__vitalsProbe) { return true; }
	const probe = { fcp: null, cls: 0, lcp: [], seq: 0, done: false, observers: [] };
	window.__vitalsProbe = probe;
	try {
		const po = new PerformanceObserver((list) => {
			for (const entry of list.getEntries()) {
				if (entry.name === 'first-contentful-paint' && probe.fcp === null) {
					probe.fcp = entry.startTime;
				}
			}
		});
		po.observe({ type: 'paint', buffered: true });
		probe.observers.push(po);
	} catch (e) {}
	try {
		const lo = new PerformanceObserver((list) => {
			if (probe.done) { return; }
			for (const entry of list.getEntries()) {
				const el = entry.element;
				probe.lcp.push({
					value: entry.startTime,
					size: entry.size || 0,
					tag: el ? el.tagName : '',
					cls: el ? (el.className || '') : '',
					src: el && el.src ? String(el.src).substring(0, 200) : '',
					seq: probe.seq++
				});
			}
		});
		lo.observe({ type: 'largest-contentful-paint', buffered: true });
		probe.observers.push(lo);
	} catch (e) {}
	try {
		const so = new PerformanceObserver((list) => {
			if (probe.done) { return; }
			for (const entry of list.getEntries()) {
				if (!entry.hadRecentInput) { probe.cls += entry.value; }
			}
		});
		so.observe({ type: 'layout-shift', buffered: true });
		probe.observers.push(so);
	} catch (e) {}
	setTimeout(() => {
		probe.done = true;
		for (const o of probe.observers) { try { o.disconnect(); } catch (e) {} }
	}, %d);
	return true;
})()`

// QueryScript pulls the accumulated probe state exactly once. It stops
// all observers first so the returned snapshot is consistent; anything
// the page reports afterwards is discarded.
const QueryScript = `(() => {
	const probe = window.__vitalsProbe;
	if (!probe) { return { error: 'probe not installed' }; }
	probe.done = true;
	for (const o of probe.observers) { try { o.disconnect(); } catch (e) {} }
	const out = { fcp: probe.fcp, cls: probe.cls, lcp: probe.lcp, navigation: null, resources: [] };
	const nav = performance.getEntriesByType('navigation')[0];
	if (nav) {
		out.navigation = {
			ttfb: nav.responseStart - nav.requestStart,
			dns_lookup: nav.domainLookupEnd - nav.domainLookupStart,
			tcp_connect: nav.connectEnd - nav.connectStart,
			ssl_handshake: nav.secureConnectionStart > 0 ? nav.connectEnd - nav.secureConnectionStart : null,
			dom_content_loaded: nav.domContentLoadedEventEnd - nav.domContentLoadedEventStart,
			load_complete: nav.loadEventEnd - nav.loadEventStart
		};
	}
	for (const r of performance.getEntriesByType('resource')) {
		out.resources.push({ url: r.name, size: r.transferSize || 0, duration: r.duration });
	}
	return out;
})()`
