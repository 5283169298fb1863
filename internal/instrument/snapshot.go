package instrument

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/slopjam/perftest/pkg/model"
)

// ErrMalformed reports that the probe's query payload could not be
// trusted. The whole snapshot is discarded; a partial one is never used.
var ErrMalformed = errors.New("malformed instrumentation payload")

// ParseSnapshot turns the raw JSON returned by QueryScript into an
// immutable snapshot. maxSlow bounds the derived slowest-resource list.
func ParseSnapshot(raw []byte, maxSlow int) (*model.Snapshot, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: not an object", ErrMalformed)
	}
	if e := root.Get("error"); e.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, e.String())
	}
	nav := root.Get("navigation")
	if !nav.IsObject() {
		return nil, fmt.Errorf("%w: missing navigation timing", ErrMalformed)
	}
	if !root.Get("lcp").IsArray() {
		return nil, fmt.Errorf("%w: missing lcp candidate list", ErrMalformed)
	}

	snap := &model.Snapshot{
		NavigationTimings: make(map[string]float64),
	}
	if f := root.Get("fcp"); f.Type == gjson.Number {
		v := f.Float()
		snap.FCPMs = &v
	}
	if c := root.Get("cls"); c.Type == gjson.Number && c.Float() > 0 {
		snap.CLSScore = c.Float()
	}

	root.Get("lcp").ForEach(func(_, cand gjson.Result) bool {
		snap.LCPCandidates = append(snap.LCPCandidates, model.LCPCandidate{
			ValueMs:       cand.Get("value").Float(),
			SizePx2:       cand.Get("size").Float(),
			ElementTag:    strings.ToLower(cand.Get("tag").String()),
			ElementClass:  cand.Get("cls").String(),
			ElementSrc:    cand.Get("src").String(),
			SequenceIndex: int(cand.Get("seq").Int()),
		})
		return true
	})
	markFinal(snap.LCPCandidates)

	nav.ForEach(func(key, val gjson.Result) bool {
		if val.Type == gjson.Number {
			snap.NavigationTimings[key.String()] = val.Float()
		}
		return true
	})
	snap.TTFBMs = snap.NavigationTimings["ttfb"]

	root.Get("resources").ForEach(func(_, res gjson.Result) bool {
		entry := model.ResourceEntry{
			URL:               res.Get("url").String(),
			TransferSizeBytes: res.Get("size").Int(),
			DurationMs:        res.Get("duration").Float(),
		}
		snap.ResourceEntries = append(snap.ResourceEntries, entry)
		snap.TotalTransferBytes += entry.TransferSizeBytes
		return true
	})
	snap.ResourceCount = len(snap.ResourceEntries)
	snap.SlowestResources = slowestResources(snap.ResourceEntries, maxSlow)
	return snap, nil
}

// markFinal tags the chronologically last candidate. Observation order is
// the sequence index, so the maximum index wins.
func markFinal(candidates []model.LCPCandidate) {
	last := -1
	for i := range candidates {
		if last < 0 || candidates[i].SequenceIndex > candidates[last].SequenceIndex {
			last = i
		}
	}
	if last >= 0 {
		candidates[last].IsFinal = true
	}
}

func slowestResources(entries []model.ResourceEntry, max int) []model.ResourceEntry {
	if len(entries) == 0 || max <= 0 {
		return nil
	}
	sorted := make([]model.ResourceEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DurationMs > sorted[j].DurationMs
	})
	if len(sorted) > max {
		sorted = sorted[:max]
	}
	return sorted
}
