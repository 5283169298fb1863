package report

import (
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/slopjam/perftest/pkg/model"
)

func TestBuildDocument(t *testing.T) {
	ttfb := 150.0
	lcp := 2400.0
	results := []model.RunResult{
		{
			RunIndex: 1,
			Status:   model.RunSuccess,
			Snapshot: &model.Snapshot{TTFBMs: ttfb},
			LCP:      &model.LCPExplanation{FinalValueMs: &lcp},
		},
		{RunIndex: 2, Status: model.RunFailed, Reason: "cache_control"},
	}
	agg := model.AggregateReport{
		CacheMode:      model.CacheCold,
		TotalRuns:      2,
		SuccessfulRuns: 1,
		OverallRating:  model.RatingGood,
	}
	target := model.Target{
		URL:         "https://example.com/page",
		CDPEndpoint: "http://localhost:9222",
		Headers:     []model.Header{{Name: "X-Canary", Value: "1"}},
	}
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	doc, err := BuildDocument(target, results, agg, now)
	if err != nil {
		t.Fatal(err)
	}
	if !gjson.Valid(doc) {
		t.Fatalf("document is not valid JSON: %s", doc)
	}
	checks := map[string]string{
		"test_config.url":            "https://example.com/page",
		"test_config.cache_mode":     "cold",
		"results.0.status":           "success",
		"results.0.lcp.finalValueMs": "2400",
		"results.1.reason":           "cache_control",
		"analysis.successfulRuns":    "1",
		"analysis.overallRating":     "good",
	}
	for path, want := range checks {
		if got := gjson.Get(doc, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
}

func TestDefaultPath(t *testing.T) {
	now := time.Date(2026, 8, 25, 9, 30, 15, 0, time.UTC)
	path := DefaultPath("out", "https://example.com/a/b?x=1", model.CacheWarm, now)
	if !strings.HasPrefix(path, "out/") {
		t.Errorf("path = %s, want under out/", path)
	}
	if strings.ContainsAny(strings.TrimPrefix(path, "out/"), "/?&=:") {
		t.Errorf("path %s contains unsanitized characters", path)
	}
	if !strings.HasSuffix(path, "_warm_20260825_093015.json") {
		t.Errorf("path = %s, want mode and timestamp suffix", path)
	}
}
