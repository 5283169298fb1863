package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/slopjam/perftest/pkg/model"
)

// PrintRun renders the detailed per-run explanation: how each metric was
// determined, the full LCP candidate timeline with superseded/final
// status, the navigation breakdown and the slowest resources.
func PrintRun(w io.Writer, r model.RunResult) {
	fmt.Fprintf(w, "\nRun %d\n%s\n", r.RunIndex, strings.Repeat("-", 60))
	if r.Status != model.RunSuccess {
		fmt.Fprintf(w, "  failed (%s); excluded from aggregation\n", r.Reason)
		return
	}
	snap := r.Snapshot

	fmt.Fprintln(w, "First Contentful Paint:")
	if snap.FCPMs != nil {
		fmt.Fprintf(w, "  value: %.1fms (paint timing, first-contentful-paint entry)\n", *snap.FCPMs)
	} else {
		fmt.Fprintln(w, "  not measured: no first-contentful-paint entry observed")
	}

	fmt.Fprintln(w, "Largest Contentful Paint:")
	if r.LCP != nil && r.LCP.FinalValueMs != nil {
		fmt.Fprintf(w, "  value: %.1fms (buffered performance observer, %d candidates)\n", *r.LCP.FinalValueMs, len(r.LCP.Timeline))
		for _, entry := range r.LCP.Timeline {
			status := string(entry.Status)
			if entry.Status == model.CandidateFinal {
				status = "FINAL"
			}
			fmt.Fprintf(w, "    %d. %.1fms (size: %.0fpx2) - %s\n",
				entry.Candidate.SequenceIndex+1, entry.Candidate.ValueMs, entry.Candidate.SizePx2, status)
		}
		if el := r.LCP.FinalElement; el != nil {
			fmt.Fprintf(w, "  element: <%s>", el.Tag)
			if el.Class != "" {
				fmt.Fprintf(w, " class=%q", el.Class)
			}
			if el.Src != "" {
				fmt.Fprintf(w, " src=%s", el.Src)
			}
			fmt.Fprintln(w)
		}
	} else {
		fmt.Fprintln(w, "  not measured: no candidates reported in the observation window")
	}

	fmt.Fprintf(w, "Cumulative Layout Shift: %.4f\n", snap.CLSScore)

	fmt.Fprintln(w, "Navigation timing:")
	fmt.Fprintf(w, "  TTFB: %.1fms (responseStart - requestStart)\n", snap.TTFBMs)
	for _, key := range []string{"dns_lookup", "tcp_connect", "ssl_handshake", "dom_content_loaded", "load_complete"} {
		if v, ok := snap.NavigationTimings[key]; ok {
			fmt.Fprintf(w, "  %s: %.1fms\n", key, v)
		}
	}

	fmt.Fprintf(w, "Resources: %d loaded, %.1f KB transferred\n", snap.ResourceCount, float64(snap.TotalTransferBytes)/1024)
	for i, res := range snap.SlowestResources {
		fmt.Fprintf(w, "  %d. %.1fms (%.1f KB) %s\n", i+1, res.DurationMs, float64(res.TransferSizeBytes)/1024, truncate(res.URL, 70))
	}
}

// PrintSummary renders the final aggregate analysis.
func PrintSummary(w io.Writer, agg model.AggregateReport) {
	fmt.Fprintf(w, "\nAnalysis (%s cache)\n%s\n", agg.CacheMode, strings.Repeat("=", 60))
	fmt.Fprintf(w, "successful runs: %d/%d\n", agg.SuccessfulRuns, agg.TotalRuns)
	if agg.SuccessfulRuns == 0 {
		fmt.Fprintln(w, "no data: every run failed, nothing to aggregate")
		return
	}
	for _, name := range []string{"fcp", "lcp", "ttfb", "cls"} {
		s, ok := agg.Metrics[name]
		if !ok {
			continue
		}
		unit := "ms"
		if name == "cls" {
			unit = ""
		}
		fmt.Fprintf(w, "%s: avg=%.1f%s range=%.1f-%.1f%s (n=%d)", strings.ToUpper(name), s.Avg, unit, s.Min, s.Max, unit, s.Count)
		if rating, ok := agg.Ratings[name]; ok {
			fmt.Fprintf(w, " rating=%s", rating)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "overall rating: %s\n", strings.ToUpper(string(agg.OverallRating)))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
