package vitals

import (
	"reflect"
	"testing"

	"github.com/slopjam/perftest/pkg/model"
)

func candidate(value, size float64, tag string, seq int) model.LCPCandidate {
	return model.LCPCandidate{ValueMs: value, SizePx2: size, ElementTag: tag, SequenceIndex: seq}
}

func TestExplainLCPTimeline(t *testing.T) {
	// Three candidates reported in observation order; the browser revised
	// its answer twice before settling.
	snap := &model.Snapshot{
		LCPCandidates: []model.LCPCandidate{
			candidate(440, 6000, "h1", 0),
			candidate(2800, 120000, "img", 1),
			candidate(3076, 250000, "img", 2),
		},
	}
	expl := ExplainLCP(snap)

	if expl.FinalValueMs == nil || *expl.FinalValueMs != 3076 {
		t.Fatalf("final value = %v, want 3076", expl.FinalValueMs)
	}
	if expl.FinalElement == nil || expl.FinalElement.Tag != "img" {
		t.Fatalf("final element = %+v, want img", expl.FinalElement)
	}
	if len(expl.Timeline) != 3 {
		t.Fatalf("timeline length = %d, want 3", len(expl.Timeline))
	}
	for i, entry := range expl.Timeline[:2] {
		if entry.Status != model.CandidateSuperseded {
			t.Errorf("timeline[%d].Status = %s, want superseded", i, entry.Status)
		}
		if entry.Candidate.IsFinal {
			t.Errorf("timeline[%d] marked final", i)
		}
	}
	last := expl.Timeline[2]
	if last.Status != model.CandidateFinal || !last.Candidate.IsFinal {
		t.Fatalf("last entry = %+v, want final", last)
	}
}

func TestExplainLCPExactlyOneFinal(t *testing.T) {
	cases := [][]model.LCPCandidate{
		{candidate(100, 10, "p", 0)},
		{candidate(100, 10, "p", 0), candidate(90, 20, "img", 1)},
		// Delivered out of observation order; the max sequence index must
		// still win, not the position in the slice.
		{candidate(500, 30, "img", 2), candidate(100, 10, "p", 0), candidate(300, 20, "div", 1)},
	}
	for i, cands := range cases {
		expl := ExplainLCP(&model.Snapshot{LCPCandidates: cands})
		finals := 0
		for _, entry := range expl.Timeline {
			if entry.Candidate.IsFinal {
				finals++
				if entry.Candidate.SequenceIndex != len(cands)-1 {
					t.Errorf("case %d: final has seq %d, want %d", i, entry.Candidate.SequenceIndex, len(cands)-1)
				}
			}
		}
		if finals != 1 {
			t.Errorf("case %d: %d finals, want exactly 1", i, finals)
		}
	}
}

func TestExplainLCPEmptyCandidates(t *testing.T) {
	expl := ExplainLCP(&model.Snapshot{})
	if expl.FinalValueMs != nil {
		t.Fatalf("final value = %v, want absent", *expl.FinalValueMs)
	}
	if expl.FinalElement != nil {
		t.Fatalf("final element = %+v, want absent", expl.FinalElement)
	}
	if len(expl.Timeline) != 0 {
		t.Fatalf("timeline length = %d, want 0", len(expl.Timeline))
	}
}

func TestExplainLCPIdempotent(t *testing.T) {
	snap := &model.Snapshot{
		LCPCandidates: []model.LCPCandidate{
			candidate(440, 6000, "h1", 0),
			candidate(3076, 250000, "img", 1),
		},
	}
	first := ExplainLCP(snap)
	second := ExplainLCP(snap)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("explain not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestExplainLCPDoesNotRerankBySize(t *testing.T) {
	// The last candidate is smaller than an earlier one; the browser's
	// delivered order is still trusted.
	snap := &model.Snapshot{
		LCPCandidates: []model.LCPCandidate{
			candidate(1000, 500000, "img", 0),
			candidate(1500, 100, "span", 1),
		},
	}
	expl := ExplainLCP(snap)
	if expl.FinalValueMs == nil || *expl.FinalValueMs != 1500 {
		t.Fatalf("final value = %v, want 1500", expl.FinalValueMs)
	}
}
