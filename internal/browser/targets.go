package browser

import (
	"context"

	"github.com/mafredri/cdp/devtool"
)

// TargetInfo summarizes one attachable target.
type TargetInfo struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// ListTargets enumerates the targets a DevTools endpoint exposes.
func ListTargets(ctx context.Context, devtoolsURL string) ([]TargetInfo, error) {
	dt := devtool.New(devtoolsURL)
	targets, err := dt.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TargetInfo, 0, len(targets))
	for _, t := range targets {
		out = append(out, TargetInfo{
			ID:    string(t.ID),
			Type:  string(t.Type),
			URL:   t.URL,
			Title: t.Title,
		})
	}
	return out, nil
}
