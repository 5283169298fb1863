package vitals

import (
	"github.com/slopjam/perftest/pkg/model"
)

// Metric names used as keys in AggregateReport.Metrics.
const (
	MetricFCP  = "fcp"
	MetricLCP  = "lcp"
	MetricTTFB = "ttfb"
	MetricCLS  = "cls"
)

// Aggregate folds the run results into per-metric statistics and a
// threshold rating. Failed runs contribute nothing but the count; absent
// metric values are excluded from that metric's statistics rather than
// counted as zero. An empty successful set yields zero successes, no
// stats and an unknown rating instead of NaN.
func Aggregate(results []model.RunResult, mode model.CacheMode, th model.Thresholds) model.AggregateReport {
	report := model.AggregateReport{
		CacheMode:     mode,
		TotalRuns:     len(results),
		OverallRating: model.RatingUnknown,
	}

	var fcps, lcps, ttfbs, clss []float64
	for _, r := range results {
		if r.Status != model.RunSuccess || r.Snapshot == nil {
			continue
		}
		report.SuccessfulRuns++
		if r.Snapshot.FCPMs != nil {
			fcps = append(fcps, *r.Snapshot.FCPMs)
		}
		if r.LCP != nil && r.LCP.FinalValueMs != nil {
			lcps = append(lcps, *r.LCP.FinalValueMs)
		}
		ttfbs = append(ttfbs, r.Snapshot.TTFBMs)
		clss = append(clss, r.Snapshot.CLSScore)
	}
	if report.SuccessfulRuns == 0 {
		return report
	}

	report.Metrics = make(map[string]model.Stats)
	report.Ratings = make(map[string]model.Rating)
	if s, ok := stats(fcps); ok {
		report.Metrics[MetricFCP] = s
		report.Ratings[MetricFCP] = Rate(s.Avg, th.FCP)
	}
	if s, ok := stats(lcps); ok {
		report.Metrics[MetricLCP] = s
		report.Ratings[MetricLCP] = Rate(s.Avg, th.LCP)
	}
	if s, ok := stats(ttfbs); ok {
		report.Metrics[MetricTTFB] = s
	}
	if s, ok := stats(clss); ok {
		report.Metrics[MetricCLS] = s
	}

	// Overall is the worst of the ratings actually computed; metrics
	// without data do not veto it.
	for _, r := range report.Ratings {
		report.OverallRating = worse(report.OverallRating, r)
	}
	return report
}

// Rate maps a metric value onto a qualitative band.
func Rate(value float64, band model.ThresholdBand) model.Rating {
	switch {
	case value < band.ExcellentMs:
		return model.RatingExcellent
	case value < band.GoodMs:
		return model.RatingGood
	default:
		return model.RatingPoor
	}
}

func stats(values []float64) (model.Stats, bool) {
	if len(values) == 0 {
		return model.Stats{}, false
	}
	s := model.Stats{Min: values[0], Max: values[0], Count: len(values)}
	var sum float64
	for _, v := range values {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Avg = sum / float64(len(values))
	return s, true
}

var ratingRank = map[model.Rating]int{
	model.RatingExcellent: 0,
	model.RatingGood:      1,
	model.RatingPoor:      2,
}

// worse picks the lower-quality rating; unknown never wins against a
// computed rating.
func worse(a, b model.Rating) model.Rating {
	if a == model.RatingUnknown {
		return b
	}
	if b == model.RatingUnknown {
		return a
	}
	if ratingRank[b] > ratingRank[a] {
		return b
	}
	return a
}
