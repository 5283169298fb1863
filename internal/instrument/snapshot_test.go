package instrument

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const queryPayload = `{
	"fcp": 812.4,
	"cls": 0.07,
	"lcp": [
		{"value":440,"size":6000,"tag":"H1","cls":"title","src":"","seq":0},
		{"value":3076,"size":250000,"tag":"IMG","cls":"hero","src":"https://example.com/hero.jpg","seq":1}
	],
	"navigation": {"ttfb":190.5,"dns_lookup":11,"tcp_connect":42,"ssl_handshake":28,"dom_content_loaded":4,"load_complete":1},
	"resources": [
		{"url":"https://example.com/a.js","size":1000,"duration":120},
		{"url":"https://example.com/b.css","size":2000,"duration":300},
		{"url":"https://example.com/c.png","size":3000,"duration":80}
	]
}`

func TestParseSnapshot(t *testing.T) {
	snap, err := ParseSnapshot([]byte(queryPayload), 2)
	if err != nil {
		t.Fatal(err)
	}
	if snap.FCPMs == nil || *snap.FCPMs != 812.4 {
		t.Errorf("fcp = %v, want 812.4", snap.FCPMs)
	}
	if snap.CLSScore != 0.07 {
		t.Errorf("cls = %v, want 0.07", snap.CLSScore)
	}
	if snap.TTFBMs != 190.5 {
		t.Errorf("ttfb = %v, want 190.5", snap.TTFBMs)
	}
	if got := snap.NavigationTimings["ssl_handshake"]; got != 28 {
		t.Errorf("ssl_handshake = %v, want 28", got)
	}
	if len(snap.LCPCandidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(snap.LCPCandidates))
	}
	if snap.LCPCandidates[0].ElementTag != "h1" || snap.LCPCandidates[0].IsFinal {
		t.Errorf("candidate 0 = %+v", snap.LCPCandidates[0])
	}
	if !snap.LCPCandidates[1].IsFinal || snap.LCPCandidates[1].ElementSrc != "https://example.com/hero.jpg" {
		t.Errorf("candidate 1 = %+v", snap.LCPCandidates[1])
	}
	if snap.ResourceCount != 3 || snap.TotalTransferBytes != 6000 {
		t.Errorf("resources = %d/%d bytes", snap.ResourceCount, snap.TotalTransferBytes)
	}
	// Capped at 2, duration descending.
	if len(snap.SlowestResources) != 2 || snap.SlowestResources[0].DurationMs != 300 || snap.SlowestResources[1].DurationMs != 120 {
		t.Errorf("slowest = %+v", snap.SlowestResources)
	}
}

func TestParseSnapshotAbsentFCP(t *testing.T) {
	payload := `{"fcp": null, "cls": 0, "lcp": [], "navigation": {"ttfb": 50}, "resources": []}`
	snap, err := ParseSnapshot([]byte(payload), 5)
	if err != nil {
		t.Fatal(err)
	}
	if snap.FCPMs != nil {
		t.Errorf("fcp = %v, want absent", *snap.FCPMs)
	}
	if len(snap.LCPCandidates) != 0 {
		t.Errorf("candidates = %d, want 0", len(snap.LCPCandidates))
	}
}

func TestParseSnapshotMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{"fcp": `},
		{"not an object", `[1,2,3]`},
		{"probe error", `{"error":"probe not installed"}`},
		{"missing navigation", `{"fcp":1,"cls":0,"lcp":[],"navigation":null,"resources":[]}`},
		{"missing lcp", `{"fcp":1,"cls":0,"navigation":{"ttfb":1},"resources":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap, err := ParseSnapshot([]byte(tc.raw), 5)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("err = %v, want ErrMalformed", err)
			}
			if snap != nil {
				t.Errorf("partial snapshot returned: %+v", snap)
			}
		})
	}
}

func TestInstallScriptWindow(t *testing.T) {
	script := InstallScript(4 * time.Second)
	if !strings.Contains(script, "}, 4000);") {
		t.Errorf("observation window not embedded:\n%s", script)
	}
	if !strings.Contains(script, "buffered: true") {
		t.Errorf("observers must subscribe buffered")
	}
}
