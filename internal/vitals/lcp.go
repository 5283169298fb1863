package vitals

import (
	"sort"

	"github.com/slopjam/perftest/pkg/model"
)

// ExplainLCP re-presents a snapshot's LCP candidates in observation order
// and annotates every candidate superseded except the last one, which is
// final. The browser's own largest-so-far semantics are trusted as-is;
// no re-ranking by size happens here. An empty candidate list yields an
// absent final value, which is a legitimate outcome (some pages never
// report qualifying content), not an error.
func ExplainLCP(snap *model.Snapshot) model.LCPExplanation {
	expl := model.LCPExplanation{}
	if snap == nil || len(snap.LCPCandidates) == 0 {
		return expl
	}

	ordered := make([]model.LCPCandidate, len(snap.LCPCandidates))
	copy(ordered, snap.LCPCandidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SequenceIndex < ordered[j].SequenceIndex
	})

	timeline := make([]model.LCPTimelineEntry, len(ordered))
	for i, cand := range ordered {
		status := model.CandidateSuperseded
		cand.IsFinal = false
		if i == len(ordered)-1 {
			status = model.CandidateFinal
			cand.IsFinal = true
		}
		timeline[i] = model.LCPTimelineEntry{Candidate: cand, Status: status}
	}

	final := timeline[len(timeline)-1].Candidate
	value := final.ValueMs
	expl.FinalValueMs = &value
	expl.FinalElement = &model.LCPElement{
		Tag:   final.ElementTag,
		Class: final.ElementClass,
		Src:   final.ElementSrc,
	}
	expl.Timeline = timeline
	return expl
}
