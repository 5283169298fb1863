package model

// CacheMode controls the cache-state procedure applied before measurement.
type CacheMode string

const (
	CacheCold CacheMode = "cold"
	CacheWarm CacheMode = "warm"
)

// Valid reports whether the mode is one of the supported cache modes.
func (m CacheMode) Valid() bool {
	return m == CacheCold || m == CacheWarm
}

// Header is a single HTTP header applied to measurement navigations.
// Headers keep their declared order.
type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Target describes the page under measurement. Immutable per invocation.
type Target struct {
	URL         string   `json:"url"`
	Headers     []Header `json:"headers,omitempty"`
	CDPEndpoint string   `json:"cdpEndpoint"`
}

// LCPCandidate is one largest-contentful-paint report delivered by the
// browser. SequenceIndex is the observation order, not necessarily
// increasing by value. Exactly one candidate per run carries IsFinal,
// and it is the chronologically last one observed.
type LCPCandidate struct {
	ValueMs       float64 `json:"valueMs"`
	SizePx2       float64 `json:"sizePx2"`
	ElementTag    string  `json:"elementTag"`
	ElementClass  string  `json:"elementClass,omitempty"`
	ElementSrc    string  `json:"elementSrc,omitempty"`
	SequenceIndex int     `json:"sequenceIndex"`
	IsFinal       bool    `json:"isFinal"`
}

// ResourceEntry is one resource-timing record.
type ResourceEntry struct {
	URL               string  `json:"url"`
	TransferSizeBytes int64   `json:"transferSizeBytes"`
	DurationMs        float64 `json:"durationMs"`
}

// Snapshot is the raw timing state pulled from the page once per run.
// Never mutated after capture.
type Snapshot struct {
	FCPMs              *float64           `json:"fcpMs,omitempty"`
	LCPCandidates      []LCPCandidate     `json:"lcpCandidates"`
	CLSScore           float64            `json:"clsScore"`
	TTFBMs             float64            `json:"ttfbMs"`
	NavigationTimings  map[string]float64 `json:"navigationTimings"`
	ResourceEntries    []ResourceEntry    `json:"resourceEntries"`
	ResourceCount      int                `json:"resourceCount"`
	TotalTransferBytes int64              `json:"totalTransferBytes"`
	SlowestResources   []ResourceEntry    `json:"slowestResources,omitempty"`
}

// CandidateStatus annotates an LCP timeline entry.
type CandidateStatus string

const (
	CandidateSuperseded CandidateStatus = "superseded"
	CandidateFinal      CandidateStatus = "final"
)

// LCPElement identifies the element behind the final LCP candidate.
type LCPElement struct {
	Tag   string `json:"tag"`
	Class string `json:"class,omitempty"`
	Src   string `json:"src,omitempty"`
}

// LCPTimelineEntry is one annotated step of the LCP candidate timeline.
type LCPTimelineEntry struct {
	Candidate LCPCandidate    `json:"candidate"`
	Status    CandidateStatus `json:"status"`
}

// LCPExplanation re-presents the delivered candidate order with the
// authoritative final value and its provenance. FinalValueMs is nil when
// the browser never reported a candidate; that is not an error.
type LCPExplanation struct {
	FinalValueMs *float64           `json:"finalValueMs,omitempty"`
	FinalElement *LCPElement        `json:"finalElement,omitempty"`
	Timeline     []LCPTimelineEntry `json:"timeline"`
}

// RunStatus is the outcome of a single measurement run.
type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
)

// RunResult is the record of one measurement run. A run either fully
// succeeds with a complete snapshot or is excluded from aggregation;
// partial snapshots are never accepted.
type RunResult struct {
	RunIndex int             `json:"runIndex"`
	Status   RunStatus       `json:"status"`
	Reason   string          `json:"reason,omitempty"`
	Snapshot *Snapshot       `json:"snapshot,omitempty"`
	LCP      *LCPExplanation `json:"lcp,omitempty"`
}

// Rating is a qualitative assessment of a metric value.
type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingPoor      Rating = "poor"
	RatingUnknown   Rating = "unknown"
)

// Stats holds per-metric aggregates across successful runs.
type Stats struct {
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// AggregateReport is computed once after all runs finish. An empty
// successful set yields zero successes with no per-metric stats.
type AggregateReport struct {
	CacheMode      CacheMode         `json:"cacheMode"`
	TotalRuns      int               `json:"totalRuns"`
	SuccessfulRuns int               `json:"successfulRuns"`
	Metrics        map[string]Stats  `json:"metrics,omitempty"`
	Ratings        map[string]Rating `json:"ratings,omitempty"`
	OverallRating  Rating            `json:"overallRating"`
}

// ThresholdBand is a pair of rating cutoffs for a single metric.
type ThresholdBand struct {
	ExcellentMs float64 `json:"excellentMs" yaml:"excellent_ms"`
	GoodMs      float64 `json:"goodMs" yaml:"good_ms"`
}

// Thresholds carries the rating cutoffs consumed by the analyzer.
// Supplied externally and never mutated here.
type Thresholds struct {
	FCP ThresholdBand `json:"fcp" yaml:"fcp"`
	LCP ThresholdBand `json:"lcp" yaml:"lcp"`
}
