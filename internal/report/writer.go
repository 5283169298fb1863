package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/sjson"

	"github.com/slopjam/perftest/pkg/model"
)

// BuildDocument assembles the structured results document: the test
// configuration, every run with its snapshot and LCP explanation, and
// the aggregate analysis.
func BuildDocument(target model.Target, results []model.RunResult, agg model.AggregateReport, now time.Time) (string, error) {
	doc := "{}"
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.Set(doc, path, value)
	}
	setRaw := func(path string, value any) {
		if err != nil {
			return
		}
		var raw []byte
		raw, err = json.Marshal(value)
		if err != nil {
			return
		}
		doc, err = sjson.SetRaw(doc, path, string(raw))
	}

	set("test_config.url", target.URL)
	set("test_config.cdp_endpoint", target.CDPEndpoint)
	set("test_config.cache_mode", string(agg.CacheMode))
	set("test_config.runs", agg.TotalRuns)
	set("test_config.timestamp", now.Format(time.RFC3339))
	if len(target.Headers) > 0 {
		setRaw("test_config.headers", target.Headers)
	}
	for i, r := range results {
		setRaw(fmt.Sprintf("results.%d", i), r)
	}
	setRaw("analysis", agg)
	if err != nil {
		return "", err
	}
	return doc, nil
}

// Write stores the document at path with conventional permissions.
func Write(path, document string) error {
	return os.WriteFile(path, []byte(document), 0o644)
}

// DefaultPath derives a timestamped result filename inside dir from the
// measured URL and cache mode.
func DefaultPath(dir, url string, mode model.CacheMode, now time.Time) string {
	name := fmt.Sprintf("perf_%s_%s_%s.json", sanitizeURL(url), mode, now.Format("20060102_150405"))
	return filepath.Join(dir, name)
}

func sanitizeURL(url string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")
	s = strings.Trim(s, "/")
	replacer := strings.NewReplacer("/", "_", ":", "_", "?", "_", "&", "_", "=", "_")
	return replacer.Replace(s)
}
